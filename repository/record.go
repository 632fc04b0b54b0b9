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
	"fmt"
	"slices"

	"github.com/tomoncle/strata/database"
	"github.com/uptrace/bun"
)

// ActiveRecord is the Bun-backed DataSource for a record of type R. It uses
// the transaction carried by the context, if any.
type ActiveRecord[R any] struct {
	db     bun.IDB
	record *R
	isNew  bool
	errors []string
}

var _ DataSource = (*ActiveRecord[struct{}])(nil)

// NewActiveRecord returns a data source for record. isNew selects INSERT
// over UPDATE on the next save.
func NewActiveRecord[R any](db bun.IDB, record *R, isNew bool) *ActiveRecord[R] {
	return &ActiveRecord[R]{db: db, record: record, isNew: isNew}
}

func (a *ActiveRecord[R]) Record() *R { return a.record }

func (a *ActiveRecord[R]) IsNewRecord() bool { return a.isNew }

// SetNewRecord marks the record as unsaved (true) or stored (false), e.g.
// after the transaction of an insert was rolled back.
func (a *ActiveRecord[R]) SetNewRecord(isNew bool) { a.isNew = isNew }

func (a *ActiveRecord[R]) Errors() []string { return slices.Clone(a.errors) }

// AddError appends a message to the error list.
func (a *ActiveRecord[R]) AddError(msg string) {
	a.errors = append(a.errors, msg)
}

func (a *ActiveRecord[R]) Validate(ctx context.Context) bool {
	return a.validate(ctx, nil)
}

// ValidateAndSave validates the record and writes it. With attributes, only
// the fields stored in those columns are validated and written; the record's
// own Rules always run.
func (a *ActiveRecord[R]) ValidateAndSave(ctx context.Context, attributes ...string) (bool, error) {
	if !a.validate(ctx, attributes) {
		return false, nil
	}
	return a.save(ctx, attributes)
}

func (a *ActiveRecord[R]) validate(ctx context.Context, columns []string) bool {
	a.errors = validateStruct(ctx, a.record, columns...)
	if rv, ok := any(a.record).(RuleValidator); ok {
		a.errors = append(a.errors, rv.Rules(ctx)...)
	}
	return len(a.errors) == 0
}

func (a *ActiveRecord[R]) SaveWithoutValidation(ctx context.Context, attributes ...string) (bool, error) {
	a.errors = nil
	return a.save(ctx, attributes)
}

func (a *ActiveRecord[R]) DeleteRecord(ctx context.Context) (bool, error) {
	a.errors = nil
	if a.isNew {
		return false, nil
	}
	res, err := database.Conn(ctx, a.db).NewDelete().Model(a.record).WherePK().Exec(ctx)
	if err != nil {
		return false, a.fail("delete", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return false, nil
	}
	a.isNew = true
	return true, nil
}

func (a *ActiveRecord[R]) save(ctx context.Context, attributes []string) (bool, error) {
	conn := database.Conn(ctx, a.db)
	if a.isNew {
		q := conn.NewInsert().Model(a.record)
		if len(attributes) > 0 {
			q = q.Column(attributes...)
		}
		if _, err := q.Exec(ctx); err != nil {
			return false, a.fail("insert", err)
		}
		a.isNew = false
		return true, nil
	}

	q := conn.NewUpdate().Model(a.record).WherePK()
	if len(attributes) > 0 {
		q = q.Column(attributes...)
	}
	res, err := q.Exec(ctx)
	if err != nil {
		return false, a.fail("update", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		a.AddError(database.NoRowsErr.String())
		return false, nil
	}
	return true, nil
}

// fail records a readable form of a driver error and wraps it.
func (a *ActiveRecord[R]) fail(op string, err error) error {
	_, kind := database.IsSqlError(err)
	a.AddError(kind.String())
	return fmt.Errorf("failed to %s %T: %w", op, a.record, err)
}
