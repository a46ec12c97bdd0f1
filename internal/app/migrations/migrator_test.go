package migrations

import (
	"context"
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRow struct {
	exists bool
}

func (r fakeRow) Scan(dest ...any) error {
	*(dest[0].(*bool)) = r.exists
	return nil
}

// fakeConn keeps the applied versions in memory
type fakeConn struct {
	applied map[string]bool
	scripts []string
	failOn  string
}

func newFakeConn() *fakeConn {
	return &fakeConn{applied: map[string]bool{}}
}

func (c *fakeConn) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (c *fakeConn) QueryRow(_ context.Context, _ string, args ...any) pgx.Row {
	return fakeRow{exists: c.applied[args[0].(string)]}
}

func (c *fakeConn) Begin(context.Context) (pgx.Tx, error) {
	return &fakeTx{conn: c}, nil
}

// fakeTx embeds pgx.Tx so only the methods the migrator calls need an implementation
type fakeTx struct {
	pgx.Tx
	conn    *fakeConn
	pending []string
	scripts []string
}

func (t *fakeTx) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if t.conn.failOn != "" && strings.Contains(sql, t.conn.failOn) {
		return pgconn.CommandTag{}, errors.New("syntax error")
	}
	if strings.HasPrefix(sql, "INSERT INTO schema_migrations") {
		t.pending = append(t.pending, args[0].(string))
	} else {
		t.scripts = append(t.scripts, sql)
	}
	return pgconn.CommandTag{}, nil
}

func (t *fakeTx) Commit(context.Context) error {
	for _, v := range t.pending {
		t.conn.applied[v] = true
	}
	t.conn.scripts = append(t.conn.scripts, t.scripts...)
	return nil
}

func (t *fakeTx) Rollback(context.Context) error { return nil }

func TestMigrateEmbedded(t *testing.T) {
	conn := newFakeConn()
	m := NewMigrator(conn, zerolog.Nop())

	n, err := m.Migrate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.True(t, conn.applied["001"])
	assert.True(t, conn.applied["002"])
	require.Len(t, conn.scripts, 2)
	assert.Contains(t, conn.scripts[0], "CREATE TABLE IF NOT EXISTS courses")
	assert.Contains(t, conn.scripts[1], "CREATE TABLE IF NOT EXISTS progress")

	// second run is a no-op
	n, err = m.Migrate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Len(t, conn.scripts, 2)
}

func TestMigrateFSOrderAndFailure(t *testing.T) {
	fsys := fstest.MapFS{
		"002_second.sql": {Data: []byte("SELECT 2; BROKEN")},
		"001_first.sql":  {Data: []byte("SELECT 1;")},
		"README.md":      {Data: []byte("not a migration")},
	}
	conn := newFakeConn()
	conn.failOn = "BROKEN"

	n, err := NewMigrator(conn, zerolog.Nop()).MigrateFS(context.Background(), fsys)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "002_second.sql")
	assert.Equal(t, 1, n)
	assert.True(t, conn.applied["001"])
	assert.False(t, conn.applied["002"])
	assert.Equal(t, []string{"SELECT 1;"}, conn.scripts)
}
