package persistence

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"
	"sync"
	"testing"
)

// fakeResult is what the scripted connection answers for one statement
type fakeResult struct {
	columns  []string
	rows     [][]driver.Value
	affected int64
	err      error
}

type fakeCall struct {
	query       string
	args        []driver.Value
	hasDeadline bool
}

// fakeDB is a scripted database/sql connector that records every statement
type fakeDB struct {
	mu        sync.Mutex
	calls     []fakeCall
	commits   int
	rollbacks int
	respond   func(query string, args []driver.Value) fakeResult
}

func newFakeDB(t *testing.T, respond func(query string, args []driver.Value) fakeResult) (*fakeDB, *sql.DB) {
	t.Helper()
	f := &fakeDB{respond: respond}
	db := sql.OpenDB(f)
	t.Cleanup(func() { db.Close() })
	return f, db
}

func (f *fakeDB) Connect(ctx context.Context) (driver.Conn, error) {
	return &fakeConn{db: f}, nil
}

func (f *fakeDB) Driver() driver.Driver {
	return fakeDriver{db: f}
}

func (f *fakeDB) handle(ctx context.Context, query string, named []driver.NamedValue) fakeResult {
	args := make([]driver.Value, len(named))
	for i, nv := range named {
		args[i] = nv.Value
	}
	_, hasDeadline := ctx.Deadline()

	f.mu.Lock()
	f.calls = append(f.calls, fakeCall{query: query, args: args, hasDeadline: hasDeadline})
	respond := f.respond
	f.mu.Unlock()

	if respond == nil {
		return fakeResult{}
	}
	return respond(query, args)
}

func (f *fakeDB) Calls() []fakeCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]fakeCall(nil), f.calls...)
}

type fakeDriver struct {
	db *fakeDB
}

func (d fakeDriver) Open(string) (driver.Conn, error) {
	return &fakeConn{db: d.db}, nil
}

type fakeConn struct {
	db *fakeDB
}

func (c *fakeConn) Prepare(query string) (driver.Stmt, error) {
	return nil, errors.New("prepared statements are not supported")
}

func (c *fakeConn) Close() error { return nil }

func (c *fakeConn) Begin() (driver.Tx, error) {
	return &fakeTx{db: c.db}, nil
}

func (c *fakeConn) QueryContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Rows, error) {
	res := c.db.handle(ctx, query, args)
	if res.err != nil {
		return nil, res.err
	}
	return &fakeRows{columns: res.columns, rows: res.rows}, nil
}

func (c *fakeConn) ExecContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	res := c.db.handle(ctx, query, args)
	if res.err != nil {
		return nil, res.err
	}
	return driver.RowsAffected(res.affected), nil
}

type fakeTx struct {
	db *fakeDB
}

func (tx *fakeTx) Commit() error {
	tx.db.mu.Lock()
	tx.db.commits++
	tx.db.mu.Unlock()
	return nil
}

func (tx *fakeTx) Rollback() error {
	tx.db.mu.Lock()
	tx.db.rollbacks++
	tx.db.mu.Unlock()
	return nil
}

type fakeRows struct {
	columns []string
	rows    [][]driver.Value
	pos     int
}

func (r *fakeRows) Columns() []string { return r.columns }

func (r *fakeRows) Close() error { return nil }

func (r *fakeRows) Next(dest []driver.Value) error {
	if r.pos >= len(r.rows) {
		return io.EOF
	}
	copy(dest, r.rows[r.pos])
	r.pos++
	return nil
}
