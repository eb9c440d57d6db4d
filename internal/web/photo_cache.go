package web

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/wichananm65/online-shop-web/internal/api"
)

// DefaultMissTTL is how long a photo that does not exist stays remembered.
const DefaultMissTTL = 30 * time.Second

type Photo struct {
	Data        []byte
	ContentType string
}

type photoEntry struct {
	photo   Photo
	missing bool
	expires time.Time
}

// PhotoCache keeps photo blobs shared by every card on every page. Concurrent
// misses for the same key issue a single fetch. A photo the API reports as
// not found is remembered for missTTL; other failures are not cached.
type PhotoCache struct {
	mu      sync.RWMutex
	store   map[string]photoEntry
	gens    map[string]uint64
	group   singleflight.Group
	ttl     time.Duration
	missTTL time.Duration
	now     func() time.Time
}

func NewPhotoCache(ttl time.Duration) *PhotoCache {
	return &PhotoCache{
		store:   make(map[string]photoEntry),
		gens:    make(map[string]uint64),
		ttl:     ttl,
		missTTL: DefaultMissTTL,
		now:     time.Now,
	}
}

func (pc *PhotoCache) lookup(key string) (photoEntry, bool) {
	pc.mu.RLock()
	defer pc.mu.RUnlock()
	e, ok := pc.store[key]
	if !ok || !pc.now().Before(e.expires) {
		return photoEntry{}, false
	}
	return e, true
}

func (pc *PhotoCache) generation(key string) uint64 {
	pc.mu.RLock()
	defer pc.mu.RUnlock()
	return pc.gens[key]
}

// set stores e unless key was invalidated after the fetch started.
func (pc *PhotoCache) set(key string, gen uint64, e photoEntry) {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	if pc.gens[key] != gen {
		return
	}
	pc.store[key] = e
}

// Get returns the cached photo for key or calls fetch to load it. The fetch
// runs detached from ctx's cancellation since other callers may share it.
func (pc *PhotoCache) Get(ctx context.Context, key string, fetch func(context.Context) (Photo, error)) (Photo, error) {
	if e, ok := pc.lookup(key); ok {
		return e.result()
	}
	v, err, _ := pc.group.Do(key, func() (interface{}, error) {
		if e, ok := pc.lookup(key); ok {
			return e, nil
		}
		gen := pc.generation(key)
		p, err := fetch(context.WithoutCancel(ctx))
		switch {
		case errors.Is(err, api.ErrNotFound):
			e := photoEntry{missing: true, expires: pc.now().Add(pc.missTTL)}
			pc.set(key, gen, e)
			return e, nil
		case err != nil:
			return nil, err
		}
		e := photoEntry{photo: p, expires: pc.now().Add(pc.ttl)}
		pc.set(key, gen, e)
		return e, nil
	})
	if err != nil {
		return Photo{}, err
	}
	return v.(photoEntry).result()
}

func (e photoEntry) result() (Photo, error) {
	if e.missing {
		return Photo{}, api.ErrNotFound
	}
	return e.photo, nil
}

// Invalidate drops key, typically after a new photo was uploaded. A fetch
// already in flight for key will not store its result.
func (pc *PhotoCache) Invalidate(key string) {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	delete(pc.store, key)
	pc.gens[key]++
	pc.group.Forget(key)
}

func (pc *PhotoCache) Len() int {
	pc.mu.RLock()
	defer pc.mu.RUnlock()
	return len(pc.store)
}

func productPhotoKey(id string) string { return "product:" + id }

func userPhotoKey(username string) string { return "user:" + username }
