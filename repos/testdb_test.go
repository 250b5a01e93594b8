package repos

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"

	"github.com/ansari-project/maix-server/models"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
)

// step is one expected round trip to the database: either the rows a
// statement should return or the count it should report as affected.
// Scripting the result sets lets repo logic, including its transaction
// flow, run through real database/sql plumbing without a live Postgres.
type step struct {
	columns  []string
	rows     [][]driver.Value
	affected int64
}

type script struct {
	steps []step
	pos   int
}

func (s *script) next() (step, error) {
	if s.pos >= len(s.steps) {
		return step{}, errors.New("statement beyond scripted steps")
	}

	st := s.steps[s.pos]
	s.pos++
	return st, nil
}

func newScriptedDB(steps ...step) *bun.DB {
	connector := &scriptConnector{script: &script{steps: steps}}
	db := bun.NewDB(sql.OpenDB(connector), pgdialect.New())
	models.InitModelRegistrations(db)
	return db
}

type scriptConnector struct {
	script *script
}

func (c *scriptConnector) Connect(context.Context) (driver.Conn, error) {
	return &scriptConn{script: c.script}, nil
}

func (c *scriptConnector) Driver() driver.Driver {
	return scriptDriver{}
}

type scriptDriver struct{}

func (scriptDriver) Open(string) (driver.Conn, error) {
	return nil, errors.New("open via connector only")
}

type scriptConn struct {
	script *script
}

func (c *scriptConn) Prepare(string) (driver.Stmt, error) {
	return nil, errors.New("prepared statements not scripted")
}

func (c *scriptConn) Close() error {
	return nil
}

func (c *scriptConn) Begin() (driver.Tx, error) {
	return scriptTx{}, nil
}

func (c *scriptConn) QueryContext(_ context.Context, _ string, _ []driver.NamedValue) (driver.Rows, error) {
	st, err := c.script.next()
	if err != nil {
		return nil, err
	}

	return &scriptRows{columns: st.columns, rows: st.rows}, nil
}

func (c *scriptConn) ExecContext(_ context.Context, _ string, _ []driver.NamedValue) (driver.Result, error) {
	st, err := c.script.next()
	if err != nil {
		return nil, err
	}

	return driver.RowsAffected(st.affected), nil
}

type scriptTx struct{}

func (scriptTx) Commit() error {
	return nil
}

func (scriptTx) Rollback() error {
	return nil
}

type scriptRows struct {
	columns []string
	rows    [][]driver.Value
	pos     int
}

func (r *scriptRows) Columns() []string {
	return r.columns
}

func (r *scriptRows) Close() error {
	return nil
}

func (r *scriptRows) Next(dest []driver.Value) error {
	if r.pos >= len(r.rows) {
		return io.EOF
	}

	copy(dest, r.rows[r.pos])
	r.pos++
	return nil
}
