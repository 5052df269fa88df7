package catalog

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

// memCache holds resolved entries for the lifetime of the process.
type memCache struct {
	data sync.Map
}

func (c *memCache) Get(key string) ([]Entry, bool) {
	v, ok := c.data.Load(key)
	if !ok {
		return nil, false
	}
	return v.([]Entry), true
}

func (c *memCache) Set(key string, entries []Entry) {
	c.data.Store(key, entries)
}

// flight collapses concurrent fetches of the same key. Each caller waits on
// its own context; the shared fetch keeps running for the others.
type flight struct {
	g singleflight.Group
}

func (f *flight) Do(ctx context.Context, key string, fn func() ([]Entry, error)) ([]Entry, error, bool) {
	ch := f.g.DoChan(key, func() (any, error) {
		return fn()
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err(), false
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err, res.Shared
		}
		return res.Val.([]Entry), nil, res.Shared
	}
}
