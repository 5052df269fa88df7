package catalog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/vmihailenco/msgpack/v5"
)

// Bump when diskPayload changes shape.
const diskCacheSchemaVersion uint16 = 1

var errChecksumMismatch = errors.New("catalog cache checksum mismatch")

// DiskCache stores fetched catalogs as <dir>/catalog/<CODE>.mp.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
	now func() time.Time
}

type diskPayload struct {
	Schema      uint16
	ProductCode string
	FetchedAt   time.Time
	// Found is false for products with no published catalog.
	Found    bool
	Discs    []diskDisc
	Checksum uint64
}

type diskDisc struct {
	Title      string
	AppVersion string
	Files      []string
}

func NewDiskCache(dir string) *DiskCache {
	return &DiskCache{dir: dir, now: time.Now}
}

func (c *DiskCache) pathFor(productCode string) string {
	return filepath.Join(c.dir, "catalog", productCode+".mp")
}

func checksum(discs []diskDisc) uint64 {
	d := xxhash.New()
	for _, disc := range discs {
		_, _ = d.WriteString(disc.Title)
		_, _ = d.WriteString("\x00")
		_, _ = d.WriteString(disc.AppVersion)
		_, _ = d.WriteString("\x00")
		_, _ = d.WriteString(strings.Join(disc.Files, "\n"))
		_, _ = d.WriteString("\x01")
	}
	return d.Sum64()
}

// Put writes doc atomically. A nil doc records that the product has no catalog.
func (c *DiskCache) Put(productCode string, doc *Document) error {
	if c == nil {
		return nil
	}
	payload := diskPayload{
		Schema:      diskCacheSchemaVersion,
		ProductCode: productCode,
		FetchedAt:   c.now().UTC(),
		Found:       doc != nil,
	}
	if doc != nil {
		for _, d := range doc.Discs {
			payload.Discs = append(payload.Discs, diskDisc{Title: d.Title, AppVersion: d.AppVersion, Files: d.Files})
		}
	}
	payload.Checksum = checksum(payload.Discs)

	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(productCode)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()

	if err := msgpack.NewEncoder(f).Encode(&payload); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, p)
}

// Get returns the cached document when it is younger than ttl (ttl <= 0
// never expires). found reports whether a usable entry existed; doc is nil
// for a cached "no catalog" result.
func (c *DiskCache) Get(productCode string, ttl time.Duration) (doc *Document, found bool, err error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(productCode))
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	defer f.Close()

	var payload diskPayload
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil {
		return nil, false, fmt.Errorf("decode %s: %w", productCode, err)
	}
	if payload.Schema != diskCacheSchemaVersion || payload.ProductCode != productCode {
		return nil, false, nil
	}
	if ttl > 0 && c.now().Sub(payload.FetchedAt) > ttl {
		return nil, false, nil
	}
	if checksum(payload.Discs) != payload.Checksum {
		return nil, false, fmt.Errorf("%s: %w", productCode, errChecksumMismatch)
	}
	if !payload.Found {
		return nil, true, nil
	}

	doc = &Document{ProductCode: payload.ProductCode}
	for _, d := range payload.Discs {
		doc.Discs = append(doc.Discs, Disc{Title: d.Title, AppVersion: d.AppVersion, Files: d.Files})
	}
	return doc, true, nil
}
