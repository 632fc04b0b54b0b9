/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Tx is a started transaction. Exactly one of Commit or Rollback is expected
// to be called.
type Tx interface {
	ID() string
	Commit() error
	Rollback() error
}

// TxManager begins transactions. The returned context carries the
// transaction so that Conn picks it up.
type TxManager interface {
	Begin(ctx context.Context) (context.Context, Tx, error)
}

type txKey struct{}

// ContextWithTx returns a copy of ctx carrying tx.
func ContextWithTx(ctx context.Context, tx Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// TxFromContext returns the transaction carried by ctx, if any.
func TxFromContext(ctx context.Context) (Tx, bool) {
	tx, ok := ctx.Value(txKey{}).(Tx)
	return tx, ok
}

// Conn returns the Bun transaction carried by ctx, or db when there is none.
func Conn(ctx context.Context, db bun.IDB) bun.IDB {
	if tx, ok := ctx.Value(txKey{}).(*bunTx); ok {
		return tx.tx
	}
	return db
}

type bunTx struct {
	id string
	tx bun.Tx
}

func (t *bunTx) ID() string { return t.id }

func (t *bunTx) Commit() error { return t.tx.Commit() }

func (t *bunTx) Rollback() error { return t.tx.Rollback() }

type bunTxManager struct {
	db     *bun.DB
	opts   *sql.TxOptions
	logger Logger
}

// NewTxManager returns a TxManager starting transactions on db with the
// driver's default isolation level.
func NewTxManager(db *bun.DB) TxManager {
	return NewTxManagerWithOptions(db, nil)
}

// NewTxManagerWithOptions is NewTxManager with explicit transaction options.
func NewTxManagerWithOptions(db *bun.DB, opts *sql.TxOptions) TxManager {
	return &bunTxManager{db: db, opts: opts, logger: GetLogger()}
}

func (m *bunTxManager) Begin(ctx context.Context) (context.Context, Tx, error) {
	tx, err := m.db.BeginTx(ctx, m.opts)
	if err != nil {
		return ctx, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	t := &bunTx{id: uuid.NewString(), tx: tx}
	m.logger.Debug("Transaction started", "tx", t.id)
	return ContextWithTx(ctx, t), t, nil
}

// RunInTx runs fn inside a transaction begun by m. The transaction is
// committed only when fn returns true and no error; in every other case,
// including a panic in fn, it is rolled back. A context already carrying a
// transaction joins it and leaves commit or rollback to the outer scope.
func RunInTx(ctx context.Context, m TxManager, fn func(ctx context.Context) (bool, error)) (ok bool, err error) {
	if _, joined := TxFromContext(ctx); joined {
		return fn(ctx)
	}

	txCtx, tx, err := m.Begin(ctx)
	if err != nil {
		return false, err
	}

	released := false
	defer func() {
		if !released {
			// fn panicked
			_ = tx.Rollback()
		}
	}()

	ok, err = fn(txCtx)
	released = true

	logger := GetLogger()
	if ok && err == nil {
		if cerr := tx.Commit(); cerr != nil {
			logger.Error("Transaction commit failed", "tx", tx.ID(), "error", cerr)
			return false, fmt.Errorf("failed to commit transaction %s: %w", tx.ID(), cerr)
		}
		logger.Debug("Transaction committed", "tx", tx.ID())
		return true, nil
	}

	if rerr := tx.Rollback(); rerr != nil && !errors.Is(rerr, sql.ErrTxDone) {
		logger.Error("Transaction rollback failed", "tx", tx.ID(), "error", rerr)
		err = errors.Join(err, fmt.Errorf("failed to rollback transaction %s: %w", tx.ID(), rerr))
	} else {
		logger.Debug("Transaction rolled back", "tx", tx.ID())
	}
	return false, err
}
