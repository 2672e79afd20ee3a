// Package query turns declarative list requests into store queries.
//
// Translate is pure: it never touches the store and returns the same Query
// for the same input. Column names always come from the field table below,
// never from the request.
package query

import (
	"slices"
	"strings"

	"usersadmin/internal/domain"
	"usersadmin/internal/utils"
)

// Op is the match rule of a single condition.
type Op string

const (
	// OpContains is a case-insensitive substring match.
	OpContains Op = "contains"
	// OpEquals is an exact match.
	OpEquals Op = "eq"
)

type fieldKind int

const (
	kindText fieldKind = iota + 1
	kindEnum
	kindTime
)

type field struct {
	column string
	kind   fieldKind
}

// fields are the user attributes reachable from a request, by wire name.
var fields = map[string]field{
	"id":        {column: "id", kind: kindEnum},
	"name":      {column: "name", kind: kindText},
	"email":     {column: "email", kind: kindText},
	"role":      {column: "role", kind: kindEnum},
	"status":    {column: "status", kind: kindEnum},
	"createdAt": {column: "created_at", kind: kindTime},
	"updatedAt": {column: "updated_at", kind: kindTime},
}

// filterOrder fixes the order conditions are emitted in.
var filterOrder = []string{"name", "email", "role", "status"}

// DefaultOrdering is applied when the request carries no usable sort.
var DefaultOrdering = Ordering{Column: "created_at", Desc: true}

// Condition is one compiled filter clause.
type Condition struct {
	Column string
	Op     Op
	Value  string
}

// Predicate is the conjunction of its conditions. The zero value matches everything.
type Predicate struct {
	Conditions []Condition
}

// Empty reports whether the predicate matches every record.
func (p Predicate) Empty() bool { return len(p.Conditions) == 0 }

// SQL renders the predicate as a WHERE body with positional args.
// It returns "" when the predicate is empty.
func (p Predicate) SQL() (string, []any) {
	if p.Empty() {
		return "", nil
	}
	parts := make([]string, 0, len(p.Conditions))
	args := make([]any, 0, len(p.Conditions))
	for _, c := range p.Conditions {
		switch c.Op {
		case OpContains:
			parts = append(parts, "LOWER("+c.Column+") LIKE ? ESCAPE '!'")
			args = append(args, "%"+escapeLike(c.Value)+"%")
		default:
			parts = append(parts, c.Column+" = ?")
			args = append(args, c.Value)
		}
	}
	return strings.Join(parts, " AND "), args
}

// Ordering is a single-key sort. Equal keys resolve in store-native order.
type Ordering struct {
	Column string
	Desc   bool
}

func (o Ordering) SQL() string {
	if o.Desc {
		return o.Column + " DESC"
	}
	return o.Column + " ASC"
}

// Query is the translated form of a list request.
type Query struct {
	Predicate Predicate
	Ordering  Ordering
	Skip      int
	Limit     int
}

// Where is the WHERE body and its args; "" when nothing is filtered.
func (q Query) Where() (string, []any) { return q.Predicate.SQL() }

// OrderBy is the ORDER BY body.
func (q Query) OrderBy() string { return q.Ordering.SQL() }

// Translate compiles filter, sort and page into a Query.
//
// Text fields become case-insensitive substring conditions and enum fields
// equality conditions; unknown fields and empty values are ignored. A nil
// sort, or one on a field that cannot be sorted, yields created_at DESC.
// pageSize is not capped here.
func Translate(filter domain.FilterSpec, sort *domain.SortSpec, page domain.PageRequest) Query {
	return Query{
		Predicate: translateFilter(filter),
		Ordering:  translateSort(sort),
		Skip:      page.Skip(),
		Limit:     page.PageSize,
	}
}

func translateFilter(filter domain.FilterSpec) Predicate {
	var p Predicate
	for _, name := range filterOrder {
		raw, ok := filter[name]
		if !ok {
			continue
		}
		value := strings.TrimSpace(raw)
		if value == "" {
			continue
		}
		f := fields[name]
		switch f.kind {
		case kindText:
			p.Conditions = append(p.Conditions, Condition{Column: f.column, Op: OpContains, Value: utils.FoldCase(value)})
		case kindEnum:
			p.Conditions = append(p.Conditions, Condition{Column: f.column, Op: OpEquals, Value: value})
		}
	}
	return p
}

func translateSort(sort *domain.SortSpec) Ordering {
	if sort == nil {
		return DefaultOrdering
	}
	f, ok := fields[strings.TrimSpace(sort.Field)]
	if !ok {
		return DefaultOrdering
	}
	return Ordering{Column: f.column, Desc: sort.Order != domain.SortAsc}
}

// SortableFields returns the wire names accepted by Translate for sorting, sorted.
func SortableFields() []string {
	out := make([]string, 0, len(fields))
	for name := range fields {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

// escapeLike makes value match literally inside a LIKE pattern using '!' as escape.
func escapeLike(value string) string {
	r := strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")
	return r.Replace(value)
}
