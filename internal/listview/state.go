// Package listview keeps the client side of a paginated user list: the
// query state a grid drives, a page cache, the loader that applies
// responses, and the coordinator that refreshes the list after writes.
package listview

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"usersadmin/internal/domain"
)

// DefaultPageSize is the page size of a session when none is given.
const DefaultPageSize = 15

// Direction is the sort direction of a SortEntry.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// SortEntry is one column of a grid sort model.
type SortEntry struct {
	Field     string
	Direction Direction
}

// FilterEntry is one column of a grid filter model.
type FilterEntry struct {
	Field string
	Value string
}

// QueryState is the page/sort/filter state of one list-view session.
// It changes only through SetPage, SetSort and SetFilter. It is not safe for
// concurrent use; View serializes access to it.
type QueryState struct {
	pageSize    int
	page        int
	sortModel   []SortEntry
	filterModel []FilterEntry
}

// NewQueryState starts at page 1 with no sort and no filter.
func NewQueryState(pageSize int) *QueryState {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return &QueryState{pageSize: pageSize, page: 1}
}

func (s *QueryState) Page() int     { return s.page }
func (s *QueryState) PageSize() int { return s.pageSize }

// SortModel returns a copy of the current sort model.
func (s *QueryState) SortModel() []SortEntry {
	return append([]SortEntry(nil), s.sortModel...)
}

// FilterModel returns a copy of the current filter model.
func (s *QueryState) FilterModel() []FilterEntry {
	return append([]FilterEntry(nil), s.filterModel...)
}

// SetPage moves to page p. Pages below 1 clamp to 1.
func (s *QueryState) SetPage(p int) {
	if p < 1 {
		p = 1
	}
	s.page = p
}

// SetSort replaces the sort model and returns to page 1.
func (s *QueryState) SetSort(model []SortEntry) {
	s.sortModel = append([]SortEntry(nil), model...)
	s.page = 1
}

// SetFilter replaces the filter model and returns to page 1.
func (s *QueryState) SetFilter(model []FilterEntry) {
	s.filterModel = append([]FilterEntry(nil), model...)
	s.page = 1
}

// Variables derives the list request for the current state. It has no side
// effects and returns equal values until the next transition.
func (s *QueryState) Variables() domain.ListRequest {
	vars := domain.ListRequest{Page: s.page, Limit: s.pageSize}

	if len(s.sortModel) > 0 {
		first := s.sortModel[0]
		order := domain.SortDesc
		if first.Direction == Asc {
			order = domain.SortAsc
		}
		vars.Sort = &domain.SortSpec{Field: first.Field, Order: order}
	}

	for _, f := range s.filterModel {
		v := strings.TrimSpace(f.Value)
		if f.Field == "" || v == "" {
			continue
		}
		if vars.Filter == nil {
			vars.Filter = domain.FilterSpec{}
		}
		vars.Filter[f.Field] = v
	}
	return vars
}

// Key is a canonical string for vars; equal requests give equal keys.
func Key(vars domain.ListRequest) string {
	b := &strings.Builder{}
	fmt.Fprintf(b, "p=%d;l=%d;", vars.Page, vars.Limit)
	if vars.Sort != nil {
		fmt.Fprintf(b, "s=%s:%s;", vars.Sort.Field, vars.Sort.Order)
	}
	keys := make([]string, 0, len(vars.Filter))
	for k := range vars.Filter {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(b, "f.%s=%q;", k, vars.Filter[k])
	}
	return b.String()
}

// ParseSortModel reads a grid sort model of the shape [{"colId":"name","sort":"asc"}].
// "field" is accepted in place of "colId".
func ParseSortModel(raw []byte) ([]SortEntry, error) {
	if isBlank(raw) {
		return nil, nil
	}
	var items []struct {
		ColID string `json:"colId"`
		Field string `json:"field"`
		Sort  string `json:"sort"`
	}
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("sort model: %w", err)
	}

	out := make([]SortEntry, 0, len(items))
	for i, it := range items {
		field := strings.TrimSpace(it.ColID)
		if field == "" {
			field = strings.TrimSpace(it.Field)
		}
		if field == "" {
			return nil, fmt.Errorf("sort model: entry %d has no column", i)
		}
		switch Direction(strings.ToLower(strings.TrimSpace(it.Sort))) {
		case Asc:
			out = append(out, SortEntry{Field: field, Direction: Asc})
		case Desc:
			out = append(out, SortEntry{Field: field, Direction: Desc})
		case "":
			// a column with sorting switched off
		default:
			return nil, fmt.Errorf("sort model: %s has unknown direction %q", field, it.Sort)
		}
	}
	return out, nil
}

// ParseFilterModel reads a grid filter model keyed by field. Each value is
// either {"filter": v, ...} or v itself; v may be a string, number or bool.
// Entries come back sorted by field.
func ParseFilterModel(raw []byte) ([]FilterEntry, error) {
	if isBlank(raw) {
		return nil, nil
	}
	var model map[string]json.RawMessage
	if err := json.Unmarshal(raw, &model); err != nil {
		return nil, fmt.Errorf("filter model: %w", err)
	}

	fields := make([]string, 0, len(model))
	for k := range model {
		fields = append(fields, k)
	}
	sort.Strings(fields)

	out := make([]FilterEntry, 0, len(fields))
	for _, field := range fields {
		v, err := effectiveValue(model[field])
		if err != nil {
			return nil, fmt.Errorf("filter model: %s: %w", field, err)
		}
		out = append(out, FilterEntry{Field: field, Value: v})
	}
	return out, nil
}

func effectiveValue(raw json.RawMessage) (string, error) {
	var wrapped struct {
		Filter *json.RawMessage `json:"filter"`
	}
	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, "{") {
		if err := json.Unmarshal(raw, &wrapped); err != nil {
			return "", err
		}
		if wrapped.Filter == nil {
			return "", nil
		}
		raw = *wrapped.Filter
	}
	return scalar(raw)
}

func scalar(raw json.RawMessage) (string, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", err
	}
	switch t := v.(type) {
	case nil:
		return "", nil
	case string:
		return t, nil
	case float64, bool:
		return fmt.Sprint(t), nil
	default:
		return "", fmt.Errorf("unsupported value %s", string(raw))
	}
}

func isBlank(raw []byte) bool {
	s := strings.TrimSpace(string(raw))
	return s == "" || s == "null"
}
