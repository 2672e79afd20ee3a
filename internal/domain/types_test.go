package domain

import "testing"

func TestTotalPages(t *testing.T) {
	cases := []struct{ total, size, want int }{
		{0, 20, 0},
		{1, 20, 1},
		{20, 20, 1},
		{21, 20, 2},
		{25, 20, 2},
		{40, 20, 2},
		{41, 20, 3},
	}
	for _, tc := range cases {
		if got := TotalPages(tc.total, tc.size); got != tc.want {
			t.Fatalf("TotalPages(%d,%d)=%d want %d", tc.total, tc.size, got, tc.want)
		}
	}
}

func TestPageRequestValidate(t *testing.T) {
	if err := (PageRequest{Page: 1, PageSize: 1}).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := PageRequest{Page: 0, PageSize: 10}.Validate()
	if v, ok := AsValidation(err); !ok || v.Field != "page" || v.Code != CodeInvalidPage {
		t.Fatalf("expected page validation error, got %v", err)
	}
	err = PageRequest{Page: 1, PageSize: -1}.Validate()
	if v, ok := AsValidation(err); !ok || v.Field != "limit" {
		t.Fatalf("expected limit validation error, got %v", err)
	}
}

func TestListRequestDefaults(t *testing.T) {
	p := ListRequest{}.PageRequest()
	if p.Page != DefaultPage || p.PageSize != DefaultPageSize {
		t.Fatalf("defaults not applied: %+v", p)
	}
	p = ListRequest{Page: 3, Limit: 5}.PageRequest()
	if p.Page != 3 || p.PageSize != 5 || p.Skip() != 10 {
		t.Fatalf("explicit values lost: %+v", p)
	}
}

func TestParseSortOrder(t *testing.T) {
	if ParseSortOrder(" ASC ") != SortAsc {
		t.Fatalf("asc not recognised")
	}
	for _, s := range []string{"", "desc", "up", "1"} {
		if ParseSortOrder(s) != SortDesc {
			t.Fatalf("%q should be desc", s)
		}
	}
}
