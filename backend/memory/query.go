package memory

import (
	"context"
	stdsql "database/sql"
	"math"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// query is the shared state of the typed query builders.
type query[P ~func(*entsql.Selector), T any] struct {
	driver  dialect.Driver
	label   string
	table   string
	columns []string
	scan    func(*entsql.Rows) (*T, error)

	predicates []P
	order      []func(*entsql.Selector)
	limit      int
	offset     int
}

func (q *query[P, T]) where(ps ...P) {
	q.predicates = append(q.predicates, ps...)
}

func (q *query[P, T]) selector(columns ...string) *entsql.Selector {
	b := builder(q.driver)
	t := b.Table(q.table)
	s := b.Select(t.Columns(columns...)...).From(t)
	for _, p := range q.predicates {
		p(s)
	}
	return s
}

func (q *query[P, T]) querySelector() *entsql.Selector {
	s := q.selector(q.columns...)
	for _, o := range q.order {
		o(s)
	}
	switch {
	case q.limit > 0:
		s.Limit(q.limit)
	case q.offset > 0:
		s.Limit(math.MaxInt32)
	}
	if q.offset > 0 {
		s.Offset(q.offset)
	}
	return s
}

// All executes the query and returns every matching entity.
func (q *query[P, T]) All(ctx context.Context) ([]*T, error) {
	query, args := q.querySelector().Query()
	var result []*T
	err := queryRows(ctx, q.driver, query, args, func(rows *entsql.Rows) error {
		v, err := q.scan(rows)
		if err != nil {
			return err
		}
		result = append(result, v)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// First returns the first matching entity or a NotFoundError.
func (q *query[P, T]) First(ctx context.Context) (*T, error) {
	limit := q.limit
	q.limit = 1
	defer func() { q.limit = limit }()

	result, err := q.All(ctx)
	if err != nil {
		return nil, err
	}
	if len(result) == 0 {
		return nil, notFound(q.label)
	}
	return result[0], nil
}

// Count returns the number of matching rows, ignoring limit and offset.
func (q *query[P, T]) Count(ctx context.Context) (int, error) {
	b := builder(q.driver)
	t := b.Table(q.table)
	s := b.Select(entsql.Count("*")).From(t)
	for _, p := range q.predicates {
		p(s)
	}
	return count(ctx, q.driver, s)
}

func (q *query[P, T]) Exist(ctx context.Context) (bool, error) {
	n, err := q.Count(ctx)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// DeleteOne deletes a single row by primary key.
type DeleteOne struct {
	driver dialect.Driver
	label  string
	table  string
	pred   *entsql.Predicate
}

func (d *DeleteOne) Exec(ctx context.Context) error {
	query, args := builder(d.driver).Delete(d.table).Where(d.pred).Query()
	n, err := affected(ctx, d.driver, query, args)
	if err != nil {
		return constraintError(err)
	}
	if n == 0 {
		return notFound(d.label)
	}
	return nil
}

func insert(ctx context.Context, driver dialect.Driver, table string, columns []string, values []any) (stdsql.Result, error) {
	query, args := builder(driver).Insert(table).Columns(columns...).Values(values...).Query()
	res, err := execResult(ctx, driver, query, args)
	if err != nil {
		return nil, constraintError(err)
	}
	return res, nil
}

// mutation collects the column assignments of an update builder.
type mutation struct {
	columns []string
	values  []any
}

func (m *mutation) set(column string, value any) {
	for i, c := range m.columns {
		if c == column {
			m.values[i] = value
			return
		}
	}
	m.columns = append(m.columns, column)
	m.values = append(m.values, value)
}

// updateOne applies m to the row whose idColumn equals id. update_time is
// always refreshed.
func updateOne(ctx context.Context, driver dialect.Driver, label, table, idColumn string, id any, m *mutation) error {
	n, err := update(ctx, driver, table, m, entsql.EQ(idColumn, id))
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound(label)
	}
	return nil
}

func update(ctx context.Context, driver dialect.Driver, table string, m *mutation, pred *entsql.Predicate) (int64, error) {
	u := builder(driver).Update(table).Set("update_time", now())
	for i, c := range m.columns {
		if m.values[i] == nil {
			u.SetNull(c)
			continue
		}
		u.Set(c, m.values[i])
	}
	query, args := u.Where(pred).Query()
	n, err := affected(ctx, driver, query, args)
	if err != nil {
		return 0, constraintError(err)
	}
	return n, nil
}

func nullTime(t stdsql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time.UTC()
	return &v
}
