package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type query struct {
	sql  string
	args []any
}

// fakeRow scans a single int64 or returns err
type fakeRow struct {
	id  int64
	err error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*int64)) = r.id
	return nil
}

// fakeDB records queries. QueryRow answers from rows in order, then with increasing ids.
type fakeDB struct {
	queries  []query
	rows     []fakeRow
	nextID   int64
	affected int64
	execErr  error
}

func (f *fakeDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.queries = append(f.queries, query{sql: sql, args: args})
	if f.execErr != nil {
		return pgconn.CommandTag{}, f.execErr
	}
	if f.affected == 0 {
		return pgconn.NewCommandTag("UPDATE 0"), nil
	}
	return pgconn.NewCommandTag("UPDATE 1"), nil
}

func (f *fakeDB) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	f.queries = append(f.queries, query{sql: sql, args: args})
	if len(f.rows) > 0 {
		r := f.rows[0]
		f.rows = f.rows[1:]
		return r
	}
	f.nextID++
	return fakeRow{id: f.nextID}
}
