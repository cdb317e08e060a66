package store

// Op is a comparison operator understood by every backend.
type Op string

const (
	OpEq  Op = "$eq"
	OpIn  Op = "$in"
	OpGt  Op = "$gt"
	OpGte Op = "$gte"
	OpLt  Op = "$lt"
	OpLte Op = "$lte"
)

// Filter compares one document field against a value.
type Filter struct {
	Field string
	Op    Op
	Value any
}

// Query describes a filtered, ordered and limited read.
// The zero value matches every document in insertion order.
type Query struct {
	Filters  []Filter
	SortBy   string
	SortDesc bool
	Max      int64
	Offset   int64
}

// NewQuery starts an empty query.
func NewQuery() Query {
	return Query{}
}

// Where is shorthand for NewQuery().Eq(field, value).
func Where(field string, value any) Query {
	return NewQuery().Eq(field, value)
}

// Eq matches documents whose field equals value. Array fields match when any
// element equals value.
func (q Query) Eq(field string, value any) Query {
	return q.with(field, OpEq, value)
}

// In matches documents whose field equals one of values.
func (q Query) In(field string, values []string) Query {
	return q.with(field, OpIn, values)
}

func (q Query) Gt(field string, value any) Query  { return q.with(field, OpGt, value) }
func (q Query) Gte(field string, value any) Query { return q.with(field, OpGte, value) }
func (q Query) Lt(field string, value any) Query  { return q.with(field, OpLt, value) }
func (q Query) Lte(field string, value any) Query { return q.with(field, OpLte, value) }

// Between is an inclusive range on a single field. Nil bounds are skipped.
func (q Query) Between(field string, from, to any) Query {
	if from != nil {
		q = q.Gte(field, from)
	}
	if to != nil {
		q = q.Lte(field, to)
	}
	return q
}

// OrderBy sorts results by one field.
func (q Query) OrderBy(field string, desc bool) Query {
	q.SortBy = field
	q.SortDesc = desc
	return q
}

// Limit caps the number of results. Zero means no limit.
func (q Query) Limit(n int64) Query {
	q.Max = n
	return q
}

// Skip drops the first n results.
func (q Query) Skip(n int64) Query {
	q.Offset = n
	return q
}

func (q Query) with(field string, op Op, value any) Query {
	filters := make([]Filter, len(q.Filters), len(q.Filters)+1)
	copy(filters, q.Filters)
	q.Filters = append(filters, Filter{Field: field, Op: op, Value: value})
	return q
}
