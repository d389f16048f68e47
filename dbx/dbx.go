// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package dbx provides the SQL capability: queries as I/O-dispatched
// effects over an sqlx handle carried by the environment, and a Resource
// wrapping connection lifecycle.
package dbx

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"code.hybscloud.com/effect"
)

// HasDB is satisfied by environments that carry a database handle.
type HasDB interface {
	DB() *sqlx.DB
}

// Open wraps a connection in a Resource: the first Get in a run connects
// and verifies with a ping, every later Get in the same run shares the
// handle, and the connection closes when the run settles.
func Open(driver, dsn string) *effect.Resource[*sqlx.DB] {
	return effect.NewResource(func() (*sqlx.DB, func() error, error) {
		db, err := sqlx.Connect(driver, dsn)
		if err != nil {
			return nil, nil, err
		}
		return db, db.Close, nil
	})
}

func with[A any](f func(ctx context.Context, db *sqlx.DB) (A, error)) effect.Effect[A] {
	return effect.AndThen(effect.Depend[HasDB](), func(env HasDB) effect.Effect[A] {
		return effect.BlockingIO(func(ctx context.Context) (A, error) {
			return f(ctx, env.DB())
		})
	})
}

// Select runs a query and scans every row into a T.
func Select[T any](query string, args ...any) effect.Effect[[]T] {
	return with(func(ctx context.Context, db *sqlx.DB) ([]T, error) {
		var out []T
		if err := db.SelectContext(ctx, &out, query, args...); err != nil {
			return nil, err
		}
		return out, nil
	})
}

// Get runs a query expected to return exactly one row and scans it into a
// T. No row is a failure, matching database/sql.
func Get[T any](query string, args ...any) effect.Effect[T] {
	return with(func(ctx context.Context, db *sqlx.DB) (T, error) {
		var out T
		if err := db.GetContext(ctx, &out, query, args...); err != nil {
			var zero T
			return zero, err
		}
		return out, nil
	})
}

// Exec runs a statement and yields its result.
func Exec(query string, args ...any) effect.Effect[sql.Result] {
	return with(func(ctx context.Context, db *sqlx.DB) (sql.Result, error) {
		return db.ExecContext(ctx, query, args...)
	})
}

// Env is a ready-made single-capability environment.
type Env struct {
	Handle *sqlx.DB
}

// DB implements HasDB.
func (e Env) DB() *sqlx.DB { return e.Handle }
