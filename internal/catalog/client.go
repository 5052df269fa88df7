package catalog

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultFetchTimeout bounds one catalog download.
const DefaultFetchTimeout = 30 * time.Second

var productCodePattern = regexp.MustCompile(`^[A-Z]{4}[0-9]{5}$`)

// ValidProductCode reports whether code is a well-formed product code. Only
// valid codes are ever used to build cache paths or catalog URLs.
func ValidProductCode(code string) bool {
	return productCodePattern.MatchString(code)
}

// CachedClient is the process-wide Client: entries are memoized per product
// code, at most one fetch per code is in flight, and results are persisted
// under the caller's cache directory.
type CachedClient struct {
	source  Source
	ttl     time.Duration
	timeout time.Duration
	logger  *zap.Logger

	mem    memCache
	flight flight

	mu    sync.Mutex
	disks map[string]*DiskCache
}

type CachedClientOption func(*CachedClient)

// WithTTL sets how long disk entries stay fresh.
func WithTTL(ttl time.Duration) CachedClientOption {
	return func(c *CachedClient) { c.ttl = ttl }
}

func WithFetchTimeout(d time.Duration) CachedClientOption {
	return func(c *CachedClient) {
		if d > 0 {
			c.timeout = d
		}
	}
}

func WithLogger(logger *zap.Logger) CachedClientOption {
	return func(c *CachedClient) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func NewCachedClient(source Source, opts ...CachedClientOption) *CachedClient {
	c := &CachedClient{
		source:  source,
		timeout: DefaultFetchTimeout,
		logger:  zap.NewNop(),
		disks:   make(map[string]*DiskCache),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

func (c *CachedClient) disk(dir string) *DiskCache {
	if dir == "" {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.disks[dir]
	if !ok {
		d = NewDiskCache(dir)
		c.disks[dir] = d
	}
	return d
}

func (c *CachedClient) Fetch(ctx context.Context, productCode, cacheDir string) ([]Entry, error) {
	code := strings.ToUpper(strings.TrimSpace(productCode))
	if !ValidProductCode(code) {
		c.logger.Debug("skipping catalog lookup for malformed product code", zap.String("product_code", productCode))
		return nil, nil
	}
	if entries, ok := c.mem.Get(code); ok {
		return entries, nil
	}

	// The download outlives a cancelled caller so that other waiters and the
	// caches still get the result.
	detached := context.WithoutCancel(ctx)
	entries, err, _ := c.flight.Do(ctx, code, func() ([]Entry, error) {
		fctx, cancel := context.WithTimeout(detached, c.timeout)
		defer cancel()
		return c.load(fctx, code, cacheDir)
	})
	return entries, err
}

func (c *CachedClient) load(ctx context.Context, code, cacheDir string) ([]Entry, error) {
	disk := c.disk(cacheDir)
	doc, found, err := disk.Get(code, c.ttl)
	if err != nil {
		c.logger.Debug("ignoring unreadable catalog cache entry", zap.String("product_code", code), zap.Error(err))
	}
	if !found {
		if c.source == nil {
			return nil, errors.New("catalog client: no source configured")
		}
		doc, err = c.source.Load(ctx, code)
		if err != nil {
			return nil, err
		}
		if err := disk.Put(code, doc); err != nil {
			c.logger.Debug("failed to write catalog cache entry", zap.String("product_code", code), zap.Error(err))
		}
	}

	entries := doc.Entries()
	c.mem.Set(code, entries)
	return entries, nil
}
