// Package testutil provides in-memory stand-ins for the pgx query surface.
package testutil

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Call records one statement sent to FakeSQL.
type Call struct {
	Query string
	Args  []any
}

// Result is what FakeSQL returns for a query. Rows feed Query and QueryRow;
// Tag feeds Exec.
type Result struct {
	Rows [][]any
	Tag  pgconn.CommandTag
	Err  error
}

// FakeSQL implements infra.SQLExecutor from canned results keyed by query
// text. Queries without a result fail the test loudly through their error.
type FakeSQL struct {
	mu      sync.Mutex
	results map[string][]Result
	Calls   []Call
}

func NewFakeSQL() *FakeSQL {
	return &FakeSQL{results: map[string][]Result{}}
}

// On queues a result for query. Results are consumed in order; the last one
// repeats.
func (f *FakeSQL) On(query string, res Result) *FakeSQL {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results[query] = append(f.results[query], res)
	return f
}

// CallsFor returns the recorded calls for query.
func (f *FakeSQL) CallsFor(query string) []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Call
	for _, c := range f.Calls {
		if c.Query == query {
			out = append(out, c)
		}
	}
	return out
}

func (f *FakeSQL) next(query string, args []any) (Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, Call{Query: query, Args: args})
	queue, ok := f.results[query]
	if !ok || len(queue) == 0 {
		return Result{}, fmt.Errorf("unexpected query: %.60s", query)
	}
	res := queue[0]
	if len(queue) > 1 {
		f.results[query] = queue[1:]
	}
	return res, nil
}

func (f *FakeSQL) Exec(_ context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	res, err := f.next(query, args)
	if err != nil {
		return pgconn.CommandTag{}, err
	}
	return res.Tag, res.Err
}

func (f *FakeSQL) QueryRow(_ context.Context, query string, args ...any) pgx.Row {
	res, err := f.next(query, args)
	if err != nil {
		return NewSimpleRow(func(...any) error { return err })
	}
	if res.Err != nil {
		return NewSimpleRow(func(...any) error { return res.Err })
	}
	if len(res.Rows) == 0 {
		return NewSimpleRow(nil)
	}
	values := res.Rows[0]
	return NewSimpleRow(func(dest ...any) error { return Assign(values, dest) })
}

func (f *FakeSQL) Query(_ context.Context, query string, args ...any) (pgx.Rows, error) {
	res, err := f.next(query, args)
	if err != nil {
		return nil, err
	}
	if res.Err != nil {
		return nil, res.Err
	}
	return &Rows{rows: res.Rows}, nil
}

// Tag builds a command tag reporting n affected rows.
func Tag(n int) pgconn.CommandTag {
	return pgconn.NewCommandTag(fmt.Sprintf("UPDATE %d", n))
}

type SimpleRow struct {
	scan func(dest ...any) error
}

func NewSimpleRow(scanner func(dest ...any) error) SimpleRow {
	return SimpleRow{scan: scanner}
}

func (r SimpleRow) Scan(dest ...any) error {
	if r.scan == nil {
		return pgx.ErrNoRows
	}
	return r.scan(dest...)
}

type TestRowsBase struct{}

func (TestRowsBase) CommandTag() pgconn.CommandTag { return pgconn.CommandTag{} }

func (TestRowsBase) Conn() *pgx.Conn { return nil }

func (TestRowsBase) FieldDescriptions() []pgconn.FieldDescription { return nil }

func (TestRowsBase) Values() ([]any, error) {
	return nil, fmt.Errorf("values not supported in test rows")
}

func (TestRowsBase) RawValues() [][]byte { return nil }

// Rows iterates canned rows.
type Rows struct {
	TestRowsBase
	rows [][]any
	idx  int
}

func (r *Rows) Next() bool {
	if r.idx >= len(r.rows) {
		return false
	}
	r.idx++
	return true
}

func (r *Rows) Scan(dest ...any) error {
	if r.idx == 0 || r.idx > len(r.rows) {
		return pgx.ErrNoRows
	}
	return Assign(r.rows[r.idx-1], dest)
}

func (r *Rows) Err() error { return nil }

func (r *Rows) Close() {}

// Assign copies values into scan destinations. A nil value zeroes the
// destination, which mirrors SQL NULL into pointer fields.
func Assign(values []any, dest []any) error {
	if len(values) != len(dest) {
		return fmt.Errorf("scan: got %d destinations for %d values", len(dest), len(values))
	}
	for i, d := range dest {
		target := reflect.ValueOf(d)
		if target.Kind() != reflect.Pointer || target.IsNil() {
			return fmt.Errorf("scan: destination %d is not a pointer", i)
		}
		elem := target.Elem()
		if values[i] == nil {
			elem.Set(reflect.Zero(elem.Type()))
			continue
		}
		v := reflect.ValueOf(values[i])
		switch {
		case v.Type().AssignableTo(elem.Type()):
			elem.Set(v)
		case v.Type().ConvertibleTo(elem.Type()):
			elem.Set(v.Convert(elem.Type()))
		case elem.Kind() == reflect.Pointer && v.Type().AssignableTo(elem.Type().Elem()):
			p := reflect.New(elem.Type().Elem())
			p.Elem().Set(v)
			elem.Set(p)
		default:
			return fmt.Errorf("scan: cannot assign %T to %s at %d", values[i], elem.Type(), i)
		}
	}
	return nil
}
