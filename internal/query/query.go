// AngelaMos | 2026
// query.go

package query

// Embed pulls a related row in as a nested JSON object named after the
// relation, joined on relation.id = table.ForeignKey.
type Embed struct {
	Relation   string
	ForeignKey string
	Columns    []string
}

type Order struct {
	Column    string
	Ascending bool
}

// Query describes a table-scoped read or the shape of a mutation's result.
// Filters are ANDed together.
type Query struct {
	Table   string
	Columns []string
	Embeds  []Embed
	Filters []Filter
	Orders  []Order
	Limit   int
	Offset  int
}

type Builder struct {
	q Query
}

func From(table string) *Builder {
	return &Builder{q: Query{Table: table}}
}

func (b *Builder) Select(columns ...string) *Builder {
	b.q.Columns = append(b.q.Columns, columns...)
	return b
}

func (b *Builder) Embed(relation, foreignKey string, columns ...string) *Builder {
	b.q.Embeds = append(b.q.Embeds, Embed{
		Relation:   relation,
		ForeignKey: foreignKey,
		Columns:    columns,
	})
	return b
}

func (b *Builder) Where(filters ...Filter) *Builder {
	b.q.Filters = append(b.q.Filters, filters...)
	return b
}

func (b *Builder) Eq(column string, value any) *Builder {
	return b.Where(Eq(column, value))
}

func (b *Builder) Or(filters ...Filter) *Builder {
	return b.Where(Or(filters...))
}

func (b *Builder) Order(column string, ascending bool) *Builder {
	b.q.Orders = append(b.q.Orders, Order{Column: column, Ascending: ascending})
	return b
}

// Range restricts the result to rows from..to inclusive, zero based. An
// inverted range still yields at most one row since a zero Limit means
// unbounded.
func (b *Builder) Range(from, to int) *Builder {
	if from < 0 {
		from = 0
	}
	b.q.Offset = from
	b.q.Limit = max(to-from+1, 1)
	return b
}

func (b *Builder) Limit(n int) *Builder {
	b.q.Limit = n
	return b
}

func (b *Builder) Query() Query {
	q := b.q
	q.Columns = append([]string(nil), b.q.Columns...)
	q.Embeds = append([]Embed(nil), b.q.Embeds...)
	q.Filters = append([]Filter(nil), b.q.Filters...)
	q.Orders = append([]Order(nil), b.q.Orders...)
	return q
}
