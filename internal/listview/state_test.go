package listview

import (
	"reflect"
	"testing"

	"usersadmin/internal/domain"
)

func TestQueryStateInitial(t *testing.T) {
	s := NewQueryState(0)
	if s.Page() != 1 || s.PageSize() != DefaultPageSize {
		t.Fatalf("unexpected initial state page=%d size=%d", s.Page(), s.PageSize())
	}
	vars := s.Variables()
	want := domain.ListRequest{Page: 1, Limit: DefaultPageSize}
	if !reflect.DeepEqual(vars, want) {
		t.Fatalf("initial variables = %+v, want %+v", vars, want)
	}
}

func TestVariablesIdempotent(t *testing.T) {
	s := NewQueryState(10)
	s.SetSort([]SortEntry{{Field: "name", Direction: Asc}})
	s.SetFilter([]FilterEntry{{Field: "email", Value: "ALICE"}, {Field: "role", Value: "admin"}})
	s.SetPage(4)

	first := s.Variables()
	second := s.Variables()
	if !reflect.DeepEqual(first, second) || Key(first) != Key(second) {
		t.Fatalf("variables differ between calls: %+v vs %+v", first, second)
	}

	// mutating the returned value must not leak back into the state
	first.Filter["email"] = "changed"
	first.Sort.Field = "changed"
	if third := s.Variables(); !reflect.DeepEqual(third, second) {
		t.Fatalf("state leaked through derived variables: %+v", third)
	}
}

func TestSortAndFilterResetPage(t *testing.T) {
	s := NewQueryState(10)
	s.SetPage(5)
	s.SetSort([]SortEntry{{Field: "email", Direction: Desc}})
	if s.Page() != 1 {
		t.Fatalf("SetSort kept page %d", s.Page())
	}

	s.SetPage(3)
	s.SetFilter([]FilterEntry{{Field: "name", Value: "bo"}})
	if s.Page() != 1 {
		t.Fatalf("SetFilter kept page %d", s.Page())
	}

	sortBefore, filterBefore := s.SortModel(), s.FilterModel()
	s.SetPage(7)
	if !reflect.DeepEqual(sortBefore, s.SortModel()) || !reflect.DeepEqual(filterBefore, s.FilterModel()) {
		t.Fatalf("SetPage changed the models")
	}
	if s.Page() != 7 {
		t.Fatalf("page=%d want 7", s.Page())
	}

	s.SetPage(0)
	if s.Page() != 1 {
		t.Fatalf("SetPage(0) should clamp to 1, got %d", s.Page())
	}
}

func TestVariablesUseFirstSortEntryOnly(t *testing.T) {
	s := NewQueryState(10)
	s.SetSort([]SortEntry{{Field: "name", Direction: Asc}, {Field: "email", Direction: Desc}})
	vars := s.Variables()
	if vars.Sort == nil || vars.Sort.Field != "name" || vars.Sort.Order != domain.SortAsc {
		t.Fatalf("unexpected sort %+v", vars.Sort)
	}

	s.SetSort(nil)
	if s.Variables().Sort != nil {
		t.Fatalf("empty sort model should derive nil sort")
	}
}

func TestVariablesSkipEmptyFilterValues(t *testing.T) {
	s := NewQueryState(10)
	s.SetFilter([]FilterEntry{{Field: "name", Value: "  "}, {Field: "", Value: "x"}})
	if s.Variables().Filter != nil {
		t.Fatalf("expected nil filter, got %v", s.Variables().Filter)
	}
	s.SetFilter([]FilterEntry{{Field: "status", Value: " banned "}})
	if got := s.Variables().Filter; !reflect.DeepEqual(got, domain.FilterSpec{"status": "banned"}) {
		t.Fatalf("unexpected filter %v", got)
	}
}

func TestParseSortModel(t *testing.T) {
	got, err := ParseSortModel([]byte(`[{"colId":"name","sort":"asc"},{"colId":"email","sort":""},{"field":"role","sort":"DESC"}]`))
	if err != nil {
		t.Fatalf("ParseSortModel returned error: %v", err)
	}
	want := []SortEntry{{Field: "name", Direction: Asc}, {Field: "role", Direction: Desc}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v want %+v", got, want)
	}

	for _, bad := range []string{`[{"colId":"name","sort":"up"}]`, `[{"sort":"asc"}]`, `{"colId":"x"}`} {
		if _, err := ParseSortModel([]byte(bad)); err == nil {
			t.Fatalf("expected error for %s", bad)
		}
	}
	if got, err := ParseSortModel([]byte("null")); err != nil || got != nil {
		t.Fatalf("null should parse to nil, got %v %v", got, err)
	}
}

func TestParseFilterModel(t *testing.T) {
	raw := `{
		"name": {"filterType":"text","type":"contains","filter":"ali"},
		"role": "admin",
		"status": {"filterType":"set"},
		"age": {"filter": 42}
	}`
	got, err := ParseFilterModel([]byte(raw))
	if err != nil {
		t.Fatalf("ParseFilterModel returned error: %v", err)
	}
	want := []FilterEntry{
		{Field: "age", Value: "42"},
		{Field: "name", Value: "ali"},
		{Field: "role", Value: "admin"},
		{Field: "status", Value: ""},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v want %+v", got, want)
	}

	if _, err := ParseFilterModel([]byte(`{"name": [1,2]}`)); err == nil {
		t.Fatalf("expected error for array value")
	}
}

func TestKeyIgnoresMapOrder(t *testing.T) {
	a := domain.ListRequest{Page: 1, Limit: 5, Filter: domain.FilterSpec{"name": "a", "role": "user"}}
	b := domain.ListRequest{Page: 1, Limit: 5, Filter: domain.FilterSpec{"role": "user", "name": "a"}}
	if Key(a) != Key(b) {
		t.Fatalf("keys differ: %s vs %s", Key(a), Key(b))
	}
	b.Page = 2
	if Key(a) == Key(b) {
		t.Fatalf("different pages share a key")
	}
}
