// Package testutil provides a stub database/sql driver that understands the
// handful of statements the postgres snapshot store issues.
package testutil

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"
)

// StubConn records statements and keeps rows per table in memory.
type StubConn struct {
	mu         sync.Mutex
	Execs      []string
	Tables     map[string][]map[string]any
	TxOptions  []driver.TxOptions
	FailPing   bool
	FailBegin  bool
	FailExec   bool
	FailCommit bool
	RowsErr    error
}

var stubSeq atomic.Int64

// NewStubDB registers a uniquely named driver and opens a sql.DB on it.
func NewStubDB() (*sql.DB, *StubConn) {
	conn := &StubConn{Tables: make(map[string][]map[string]any)}
	name := fmt.Sprintf("stubpg%d", stubSeq.Add(1))
	sql.Register(name, &stubDriver{conn: conn})
	db, err := sql.Open(name, "stub")
	if err != nil {
		panic(err)
	}
	return db, conn
}

type stubDriver struct {
	conn *StubConn
}

func (d *stubDriver) Open(string) (driver.Conn, error) { return d.conn, nil }

// Prepare implements driver.Conn; every statement goes through the context variants.
func (c *StubConn) Prepare(string) (driver.Stmt, error) { return nil, fmt.Errorf("not implemented") }

// Close implements driver.Conn.
func (c *StubConn) Close() error { return nil }

// Begin implements driver.Conn.
func (c *StubConn) Begin() (driver.Tx, error) {
	return c.BeginTx(context.Background(), driver.TxOptions{})
}

// Ping implements driver.Pinger.
func (c *StubConn) Ping(context.Context) error {
	if c.FailPing {
		return fmt.Errorf("ping fail")
	}
	return nil
}

// BeginTx implements driver.ConnBeginTx and records the requested options.
func (c *StubConn) BeginTx(_ context.Context, opts driver.TxOptions) (driver.Tx, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.FailBegin {
		return nil, fmt.Errorf("begin fail")
	}
	c.TxOptions = append(c.TxOptions, opts)
	return &stubTx{conn: c}, nil
}

// ExecContext implements driver.ExecerContext for CREATE TABLE and upserting INSERTs.
func (c *StubConn) ExecContext(_ context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Execs = append(c.Execs, query)
	if c.FailExec {
		return nil, fmt.Errorf("exec fail")
	}
	upper := strings.ToUpper(strings.TrimSpace(query))
	if !strings.HasPrefix(upper, "INSERT INTO") {
		return driver.RowsAffected(0), nil
	}
	table, cols, keys, err := parseInsert(query)
	if err != nil {
		return nil, err
	}
	if len(cols) != len(args) {
		return nil, fmt.Errorf("column/arg mismatch for %s", table)
	}
	row := make(map[string]any, len(cols))
	for i, col := range cols {
		row[col] = args[i].Value
	}
	rows := c.Tables[table]
	for i, existing := range rows {
		if len(keys) > 0 && sameKey(existing, row, keys) {
			rows[i] = row
			return driver.RowsAffected(1), nil
		}
	}
	c.Tables[table] = append(rows, row)
	return driver.RowsAffected(1), nil
}

// QueryContext implements driver.QueryerContext for SELECT cols FROM t [WHERE col = $1].
func (c *StubConn) QueryContext(_ context.Context, query string, args []driver.NamedValue) (driver.Rows, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	table, cols, whereCol, err := parseSelect(query)
	if err != nil {
		return nil, err
	}
	var values [][]driver.Value
	for _, row := range c.Tables[table] {
		if whereCol != "" && (len(args) == 0 || row[whereCol] != args[0].Value) {
			continue
		}
		vals := make([]driver.Value, len(cols))
		for i, col := range cols {
			vals[i] = row[col]
		}
		values = append(values, vals)
	}
	return &stubRows{cols: cols, rows: values, err: c.RowsErr}, nil
}

type stubTx struct {
	conn *StubConn
}

func (t *stubTx) Commit() error {
	if t.conn.FailCommit {
		return fmt.Errorf("commit fail")
	}
	return nil
}

func (t *stubTx) Rollback() error { return nil }

type stubRows struct {
	cols []string
	rows [][]driver.Value
	idx  int
	err  error
}

func (r *stubRows) Columns() []string { return r.cols }
func (r *stubRows) Close() error      { return nil }

func (r *stubRows) Next(dest []driver.Value) error {
	if r.idx >= len(r.rows) {
		if r.err != nil {
			return r.err
		}
		return io.EOF
	}
	copy(dest, r.rows[r.idx])
	r.idx++
	return nil
}

func sameKey(a, b map[string]any, keys []string) bool {
	for _, k := range keys {
		if a[k] != b[k] {
			return false
		}
	}
	return true
}

// parseInsert handles INSERT INTO t(a, b) VALUES(...) [ON CONFLICT(a, b) ...].
func parseInsert(query string) (table string, cols, keys []string, err error) {
	up := strings.ToUpper(query)
	intoIdx := strings.Index(up, "INTO ")
	if intoIdx == -1 {
		return "", nil, nil, fmt.Errorf("cannot parse insert: %s", query)
	}
	rest := query[intoIdx+len("INTO "):]
	open, closeIdx := strings.Index(rest, "("), strings.Index(rest, ")")
	if open == -1 || closeIdx <= open {
		return "", nil, nil, fmt.Errorf("cannot parse insert: %s", query)
	}
	table = strings.ToLower(strings.TrimSpace(rest[:open]))
	cols = splitColumns(rest[open+1 : closeIdx])
	if idx := strings.Index(up, "ON CONFLICT"); idx != -1 {
		conflict := query[idx+len("ON CONFLICT"):]
		o, c := strings.Index(conflict, "("), strings.Index(conflict, ")")
		if o != -1 && c > o {
			keys = splitColumns(conflict[o+1 : c])
		}
	}
	return table, cols, keys, nil
}

// parseSelect handles SELECT a, b FROM t [WHERE col = $1].
func parseSelect(query string) (table string, cols []string, whereCol string, err error) {
	lower := strings.ToLower(strings.TrimSpace(query))
	if !strings.HasPrefix(lower, "select ") {
		return "", nil, "", fmt.Errorf("cannot parse select: %s", query)
	}
	fromIdx := strings.Index(lower, " from ")
	if fromIdx == -1 {
		return "", nil, "", fmt.Errorf("cannot parse select: %s", query)
	}
	cols = splitColumns(lower[len("select "):fromIdx])
	rest := strings.Fields(lower[fromIdx+len(" from "):])
	if len(rest) == 0 {
		return "", nil, "", fmt.Errorf("cannot parse select: %s", query)
	}
	table = rest[0]
	if len(rest) >= 2 && rest[1] == "where" && len(rest) >= 3 {
		whereCol = strings.TrimSpace(strings.SplitN(rest[2], "=", 2)[0])
	}
	return table, cols, whereCol, nil
}

func splitColumns(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		out = append(out, strings.ToLower(strings.TrimSpace(part)))
	}
	return out
}
