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

package repository

import (
	"context"
	"slices"

	"github.com/tomoncle/strata/database"
	"github.com/tomoncle/strata/types"
	"github.com/uptrace/bun"
)

// Query collects the conditions of a select over the model R. Nothing is
// sent to the database until the query is built and run by a Finder or a
// DataProvider; at that point the transaction carried by the context, if
// any, is used.
type Query[R any] struct {
	db      bun.IDB
	mods    []func(*bun.SelectQuery) *bun.SelectQuery
	ordered bool
}

// NewQuery returns an empty query over R.
func NewQuery[R any](db bun.IDB) *Query[R] {
	return &Query[R]{db: db}
}

func (q *Query[R]) Apply(fn func(*bun.SelectQuery) *bun.SelectQuery) *Query[R] {
	q.mods = append(q.mods, fn)
	return q
}

func (q *Query[R]) Where(query string, args ...any) *Query[R] {
	return q.Apply(func(sq *bun.SelectQuery) *bun.SelectQuery {
		return sq.Where(query, args...)
	})
}

func (q *Query[R]) WhereOr(query string, args ...any) *Query[R] {
	return q.Apply(func(sq *bun.SelectQuery) *bun.SelectQuery {
		return sq.WhereOr(query, args...)
	})
}

// Filter adds filter as a WHERE condition. A nil filter or one without a
// schema is ignored.
func (q *Query[R]) Filter(filter *types.QueryFilter) *Query[R] {
	if filter == nil || filter.Schema == "" {
		return q
	}
	return q.Where(filter.Schema, filter.Args...)
}

// Order adds "column [ASC|DESC]" orderings.
func (q *Query[R]) Order(orders ...string) *Query[R] {
	if len(orders) == 0 {
		return q
	}
	q.ordered = true
	return q.Apply(func(sq *bun.SelectQuery) *bun.SelectQuery {
		return sq.Order(orders...)
	})
}

func (q *Query[R]) OrderExpr(query string, args ...any) *Query[R] {
	q.ordered = true
	return q.Apply(func(sq *bun.SelectQuery) *bun.SelectQuery {
		return sq.OrderExpr(query, args...)
	})
}

func (q *Query[R]) Limit(n int) *Query[R] {
	return q.Apply(func(sq *bun.SelectQuery) *bun.SelectQuery {
		return sq.Limit(n)
	})
}

func (q *Query[R]) Offset(n int) *Query[R] {
	return q.Apply(func(sq *bun.SelectQuery) *bun.SelectQuery {
		return sq.Offset(n)
	})
}

func (q *Query[R]) Relation(name string, apply ...func(*bun.SelectQuery) *bun.SelectQuery) *Query[R] {
	return q.Apply(func(sq *bun.SelectQuery) *bun.SelectQuery {
		return sq.Relation(name, apply...)
	})
}

// Ordered reports whether an ordering was added.
func (q *Query[R]) Ordered() bool { return q.ordered }

// Clone returns an independent copy of the query.
func (q *Query[R]) Clone() *Query[R] {
	return &Query[R]{db: q.db, mods: slices.Clone(q.mods), ordered: q.ordered}
}

// Select builds the bun query outside of any transaction.
func (q *Query[R]) Select() *bun.SelectQuery {
	return q.Build(context.Background(), nil)
}

// Build returns the bun query bound to model, or to R when model is nil,
// on the connection chosen by database.Conn.
func (q *Query[R]) Build(ctx context.Context, model any) *bun.SelectQuery {
	if model == nil {
		model = (*R)(nil)
	}
	sq := database.Conn(ctx, q.db).NewSelect().Model(model)
	for _, fn := range q.mods {
		sq = fn(sq)
	}
	return sq
}

func (q *Query[R]) Count(ctx context.Context) (int, error) {
	return q.Build(ctx, nil).Count(ctx)
}

func (q *Query[R]) Exists(ctx context.Context) (bool, error) {
	return q.Build(ctx, nil).Exists(ctx)
}
