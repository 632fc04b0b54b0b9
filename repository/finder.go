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
	"database/sql"
	"errors"
	"fmt"
	"iter"
)

// DefaultEachBatchSize is the number of records Each loads per round trip.
const DefaultEachBatchSize = 100

// Finder runs a Query and wraps the records it loads into entities.
type Finder[E any, R any] struct {
	query     *Query[R]
	wrap      func(*R) E
	batchSize int
}

// NewFinder returns a finder over query. wrap turns a loaded record into an
// entity.
func NewFinder[E any, R any](query *Query[R], wrap func(*R) E) *Finder[E, R] {
	return &Finder[E, R]{query: query, wrap: wrap, batchSize: DefaultEachBatchSize}
}

// WithBatchSize sets the batch size used by Each. Non-positive sizes are
// ignored.
func (f *Finder[E, R]) WithBatchSize(n int) *Finder[E, R] {
	if n > 0 {
		f.batchSize = n
	}
	return f
}

// Query exposes the underlying query for further conditions.
func (f *Finder[E, R]) Query() *Query[R] { return f.query }

// OneWithPk loads the record whose primary key is pk.
func (f *Finder[E, R]) OneWithPk(ctx context.Context, pk any) (E, error) {
	q := f.query.Clone().Where("?PKs = ?", pk)
	return f.one(ctx, q)
}

// One loads the first matching record.
func (f *Finder[E, R]) One(ctx context.Context) (E, error) {
	return f.one(ctx, f.query.Clone())
}

func (f *Finder[E, R]) one(ctx context.Context, q *Query[R]) (E, error) {
	var zero E
	record := new(R)
	if err := q.Build(ctx, record).Limit(1).Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return zero, ErrNotFound
		}
		return zero, fmt.Errorf("failed to find %T: %w", record, err)
	}
	return f.wrap(record), nil
}

// All loads every matching record.
func (f *Finder[E, R]) All(ctx context.Context) ([]E, error) {
	var records []*R
	if err := f.query.Build(ctx, &records).Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to find %T: %w", (*R)(nil), err)
	}
	return f.wrapAll(records), nil
}

func (f *Finder[E, R]) wrapAll(records []*R) []E {
	entities := make([]E, 0, len(records))
	for _, r := range records {
		entities = append(entities, f.wrap(r))
	}
	return entities
}

func (f *Finder[E, R]) Count(ctx context.Context) (int, error) {
	return f.query.Count(ctx)
}

func (f *Finder[E, R]) Exists(ctx context.Context) (bool, error) {
	return f.query.Exists(ctx)
}

// Each yields matching entities lazily, loading them in batches. Unordered
// queries are ordered by primary key so that batches do not overlap. The
// sequence stops after the first error.
func (f *Finder[E, R]) Each(ctx context.Context) iter.Seq2[E, error] {
	return func(yield func(E, error) bool) {
		q := f.query.Clone()
		if !q.Ordered() {
			q.OrderExpr("?PKs")
		}
		for offset := 0; ; offset += f.batchSize {
			var records []*R
			err := q.Build(ctx, &records).Limit(f.batchSize).Offset(offset).Scan(ctx)
			if err != nil {
				var zero E
				yield(zero, fmt.Errorf("failed to load batch at offset %d: %w", offset, err))
				return
			}
			for _, r := range records {
				if !yield(f.wrap(r), nil) {
					return
				}
			}
			if len(records) < f.batchSize {
				return
			}
		}
	}
}
