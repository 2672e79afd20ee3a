package listview

import (
	"context"
	"errors"
	"sync"

	"usersadmin/internal/domain"
)

// ErrSuperseded is returned for a list response that arrived after a newer
// request was issued. Its result is discarded.
var ErrSuperseded = errors.New("listview: superseded by a newer request")

// Lister runs one list query. *client.HTTPClient satisfies it.
type Lister interface {
	ListUsers(ctx context.Context, req domain.ListRequest) (domain.ListResponse, error)
}

// Result is the outcome of one reload.
type Result struct {
	Vars     domain.ListRequest
	Response domain.ListResponse
	Err      error
}

// View loads pages for a QueryState and keeps the one on screen.
//
// Transitions run under the view's mutex. Every reload takes a sequence
// number; only the response for the latest one is applied
// (last-requested-wins), older ones are dropped without being cancelled.
type View struct {
	mu      sync.Mutex
	state   *QueryState
	cache   *PageCache
	lister  Lister
	seq     uint64
	current Result
	loaded  bool
}

func NewView(state *QueryState, lister Lister) *View {
	return &View{state: state, cache: NewPageCache(), lister: lister}
}

func (v *View) Cache() *PageCache { return v.cache }

// Variables returns the request variables of the current state.
func (v *View) Variables() domain.ListRequest {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state.Variables()
}

// Page returns the current page number.
func (v *View) Page() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state.Page()
}

// Current returns the last applied result and whether one exists.
func (v *View) Current() (Result, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.current, v.loaded
}

// Do runs fn against the state as one uninterrupted transition.
func (v *View) Do(fn func(s *QueryState)) domain.ListRequest {
	v.mu.Lock()
	defer v.mu.Unlock()
	fn(v.state)
	return v.state.Variables()
}

func (v *View) SetPage(p int) domain.ListRequest {
	return v.Do(func(s *QueryState) { s.SetPage(p) })
}

func (v *View) SetSort(model []SortEntry) domain.ListRequest {
	return v.Do(func(s *QueryState) { s.SetSort(model) })
}

func (v *View) SetFilter(model []FilterEntry) domain.ListRequest {
	return v.Do(func(s *QueryState) { s.SetFilter(model) })
}

// Reload fetches the page for the current variables, from cache when present.
// It returns ErrSuperseded when a newer reload was started meanwhile.
func (v *View) Reload(ctx context.Context) Result {
	t := v.begin()
	if t.cached {
		return t.res
	}
	return v.finish(ctx, t)
}

// ReloadAsync issues the request now and resolves it in its own goroutine.
// The channel yields exactly one Result and is then closed.
func (v *View) ReloadAsync(ctx context.Context) <-chan Result {
	t := v.begin()
	out := make(chan Result, 1)
	if t.cached {
		out <- t.res
		close(out)
		return out
	}
	go func() {
		defer close(out)
		out <- v.finish(ctx, t)
	}()
	return out
}

type ticket struct {
	seq    uint64
	res    Result
	cached bool
}

func (v *View) begin() ticket {
	v.mu.Lock()
	defer v.mu.Unlock()
	vars := v.state.Variables()
	v.seq++
	t := ticket{seq: v.seq, res: Result{Vars: vars}}
	if resp, ok := v.cache.Get(vars); ok {
		t.res.Response = resp
		t.cached = true
		v.apply(t.res)
	}
	return t
}

func (v *View) finish(ctx context.Context, t ticket) Result {
	vars := t.res.Vars
	resp, err := v.lister.ListUsers(ctx, vars)

	v.mu.Lock()
	defer v.mu.Unlock()
	if t.seq != v.seq {
		return Result{Vars: vars, Err: ErrSuperseded}
	}
	if err != nil {
		return Result{Vars: vars, Err: err}
	}
	v.cache.Put(vars, resp)
	res := Result{Vars: vars, Response: resp}
	v.apply(res)
	return res
}

func (v *View) apply(res Result) {
	v.current = res
	v.loaded = true
}
