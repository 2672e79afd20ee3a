package listview

import (
	"sync"

	"usersadmin/internal/domain"
)

// PageCache holds list responses keyed by their request variables.
type PageCache struct {
	mu    sync.Mutex
	pages map[string]domain.ListResponse
}

func NewPageCache() *PageCache {
	return &PageCache{pages: map[string]domain.ListResponse{}}
}

func (c *PageCache) Get(vars domain.ListRequest) (domain.ListResponse, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.pages[Key(vars)]
	return r, ok
}

func (c *PageCache) Put(vars domain.ListRequest, resp domain.ListResponse) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pages[Key(vars)] = resp
}

// Invalidate drops the page cached for vars, if any.
func (c *PageCache) Invalidate(vars domain.ListRequest) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.pages, Key(vars))
}

// Clear drops every cached page.
func (c *PageCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pages = map[string]domain.ListResponse{}
}

func (c *PageCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pages)
}
