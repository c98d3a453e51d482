// Package testutil provides in-memory implementations of the repository and
// token store interfaces for tests, plus a stub database/sql driver so
// transaction-shaped service code runs without Postgres.
package testutil

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
)

// NewStubDB returns a *sql.DB whose connections only support Begin, Commit
// and Rollback. The in-memory repositories ignore the transaction handle;
// the services still exercise their commit/rollback paths against it.
func NewStubDB() *sql.DB {
	return sql.OpenDB(stubConnector{})
}

type stubConnector struct{}

func (stubConnector) Connect(context.Context) (driver.Conn, error) { return stubConn{}, nil }
func (stubConnector) Driver() driver.Driver                        { return stubDriver{} }

type stubDriver struct{}

func (stubDriver) Open(string) (driver.Conn, error) { return stubConn{}, nil }

type stubConn struct{}

func (stubConn) Prepare(string) (driver.Stmt, error) {
	return nil, errors.New("testutil: statements are not supported by the stub driver")
}
func (stubConn) Close() error              { return nil }
func (stubConn) Begin() (driver.Tx, error) { return stubTx{}, nil }

type stubTx struct{}

func (stubTx) Commit() error   { return nil }
func (stubTx) Rollback() error { return nil }
