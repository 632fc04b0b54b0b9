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
	"fmt"
	"reflect"

	"github.com/tomoncle/strata/database"
	"github.com/tomoncle/strata/types"
	"github.com/uptrace/bun"
)

// Companions lists the constructors a repository uses for its entity type
// E backed by record type R. Only Entity is required.
type Companions[E Entity[R], R any] struct {
	// Entity wraps a data mapper into an entity.
	Entity func(mapper *DataMapper[R]) E

	// Record allocates an empty record. Defaults to new(R).
	Record func() *R

	// Source builds the data source persisting record. Defaults to an
	// ActiveRecord.
	Source func(db bun.IDB, record *R, isNew bool) DataSource

	// Query builds the base query of every finder. Defaults to NewQuery.
	Query func(db bun.IDB) *Query[R]

	// Finder builds a finder over a query. Defaults to NewFinder.
	Finder func(query *Query[R], wrap func(*R) E) *Finder[E, R]

	Hooks Hooks[E]
}

func (c Companions[E, R]) resolve() (Companions[E, R], error) {
	if c.Entity == nil {
		return c, fmt.Errorf("%w: no entity constructor for %s", ErrConfiguration, reflect.TypeFor[R]())
	}
	if t := reflect.TypeFor[R](); t.Kind() != reflect.Struct {
		return c, fmt.Errorf("%w: record type %s is not a struct", ErrConfiguration, t)
	}
	if c.Record == nil {
		c.Record = func() *R { return new(R) }
	}
	if c.Source == nil {
		c.Source = func(db bun.IDB, record *R, isNew bool) DataSource {
			return NewActiveRecord(db, record, isNew)
		}
	}
	if c.Query == nil {
		c.Query = NewQuery[R]
	}
	if c.Finder == nil {
		c.Finder = NewFinder[E, R]
	}
	return c, nil
}

// Settings holds the behaviour of a repository. It is fixed once the
// repository is built.
type Settings struct {
	// Transactional wraps every save in a transaction.
	Transactional bool

	// TxManager begins the transactions of a transactional repository.
	// Defaults to database.NewTxManager over the repository's *bun.DB.
	TxManager database.TxManager

	EachBatchSize int
	PageSize      int

	// Sort, when set, whitelists the columns providers may order by.
	Sort *types.Sort
}

func defaultSettings() Settings {
	return Settings{
		EachBatchSize: DefaultEachBatchSize,
		PageSize:      types.DefaultPageSize,
	}
}

// Option configures a repository at construction.
type Option func(*Settings) error

// WithTransactional selects whether saves run inside a transaction.
func WithTransactional(on bool) Option {
	return func(s *Settings) error {
		s.Transactional = on
		return nil
	}
}

// WithTxManager sets the transaction manager of a transactional repository.
func WithTxManager(m database.TxManager) Option {
	return func(s *Settings) error {
		if m == nil {
			return fmt.Errorf("%w: nil transaction manager", ErrConfiguration)
		}
		s.TxManager = m
		return nil
	}
}

// WithEachBatchSize sets the number of records Each loads per query.
func WithEachBatchSize(n int) Option {
	return func(s *Settings) error {
		if n <= 0 {
			return fmt.Errorf("%w: batch size must be positive, got %d", ErrConfiguration, n)
		}
		s.EachBatchSize = n
		return nil
	}
}

// WithPageSize sets the page size used when a page request carries none.
func WithPageSize(n int) Option {
	return func(s *Settings) error {
		if n <= 0 {
			return fmt.Errorf("%w: page size must be positive, got %d", ErrConfiguration, n)
		}
		s.PageSize = n
		return nil
	}
}

// WithSort whitelists the columns entity providers may order by.
func WithSort(sort *types.Sort) Option {
	return func(s *Settings) error {
		s.Sort = sort
		return nil
	}
}
