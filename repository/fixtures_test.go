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
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"github.com/tomoncle/strata/database"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

type userRecord struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID    int64  `bun:"id,pk,autoincrement"`
	Name  string `bun:"name,notnull" validate:"required,max=20"`
	Email string `bun:"email,unique,nullzero" validate:"omitempty,email"`
	Age   int    `bun:"age" validate:"gte=0"`
}

func (r *userRecord) Rules(ctx context.Context) []string {
	if r.Name == "root" {
		return []string{"name: Reserved name"}
	}
	return nil
}

type user struct {
	mapper *DataMapper[userRecord]
}

func (u *user) DataMapper() *DataMapper[userRecord] { return u.mapper }

func (u *user) Record() *userRecord { return u.mapper.Record() }

func userCompanions() Companions[*user, userRecord] {
	return Companions[*user, userRecord]{
		Entity: func(m *DataMapper[userRecord]) *user { return &user{mapper: m} },
	}
}

// newSQLiteDB opens a file database holding an empty users table. A single
// connection keeps transactions and plain queries from locking each other.
func newSQLiteDB(t *testing.T) *bun.DB {
	t.Helper()
	sqldb, err := sql.Open(sqliteshim.ShimName, filepath.Join(t.TempDir(), "repository.db"))
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)
	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.NewCreateTable().Model((*userRecord)(nil)).Exec(context.Background())
	require.NoError(t, err)
	return db
}

func newMockDB(t *testing.T) (*bun.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqldb, mock, err := sqlmock.New()
	require.NoError(t, err)
	db := bun.NewDB(sqldb, pgdialect.New())
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func seedUsers(t *testing.T, db *bun.DB, names ...string) []*userRecord {
	t.Helper()
	records := make([]*userRecord, 0, len(names))
	for i, name := range names {
		records = append(records, &userRecord{Name: name, Age: 20 + i*10})
	}
	_, err := db.NewInsert().Model(&records).Exec(context.Background())
	require.NoError(t, err)
	return records
}

// widget is an entity over an in-memory data source, recording the hooks
// that ran.
type widgetRecord struct {
	ID int64 `bun:"id,pk"`
}

type widget struct {
	mapper     *DataMapper[widgetRecord]
	vetoSave   bool
	vetoDelete bool
	events     []string
}

func (w *widget) DataMapper() *DataMapper[widgetRecord] { return w.mapper }

func (w *widget) BeforeSave(ctx context.Context) bool {
	w.events = append(w.events, "entity.beforeSave")
	return !w.vetoSave
}

func (w *widget) AfterSave(ctx context.Context) {
	w.events = append(w.events, "entity.afterSave")
}

func (w *widget) BeforeDelete(ctx context.Context) bool {
	w.events = append(w.events, "entity.beforeDelete")
	return !w.vetoDelete
}

func (w *widget) AfterDelete(ctx context.Context) {
	w.events = append(w.events, "entity.afterDelete")
}

type fakeSource struct {
	ok     bool
	err    error
	errs   []string
	panics bool
	calls  []string
	attrs  []string
}

func (s *fakeSource) Validate(ctx context.Context) bool {
	s.calls = append(s.calls, "validate")
	return len(s.errs) == 0
}

func (s *fakeSource) ValidateAndSave(ctx context.Context, attributes ...string) (bool, error) {
	return s.save("validateAndSave", attributes)
}

func (s *fakeSource) SaveWithoutValidation(ctx context.Context, attributes ...string) (bool, error) {
	return s.save("saveWithoutValidation", attributes)
}

func (s *fakeSource) save(call string, attributes []string) (bool, error) {
	s.calls = append(s.calls, call)
	s.attrs = attributes
	if s.panics {
		panic("driver exploded")
	}
	return s.ok, s.err
}

func (s *fakeSource) DeleteRecord(ctx context.Context) (bool, error) {
	s.calls = append(s.calls, "deleteRecord")
	return s.ok, s.err
}

func (s *fakeSource) Errors() []string { return s.errs }

func newWidget(src DataSource) *widget {
	return &widget{mapper: NewDataMapper(src, &widgetRecord{ID: 1})}
}

func widgetCompanions() Companions[*widget, widgetRecord] {
	return Companions[*widget, widgetRecord]{
		Entity: func(m *DataMapper[widgetRecord]) *widget { return &widget{mapper: m} },
		Hooks: Hooks[*widget]{
			BeforeSave: []BeforeHook[*widget]{func(ctx context.Context, w *widget) bool {
				w.events = append(w.events, "hook.beforeSave")
				return true
			}},
			AfterSave: []AfterHook[*widget]{func(ctx context.Context, w *widget) {
				w.events = append(w.events, "hook.afterSave")
			}},
			BeforeDelete: []BeforeHook[*widget]{func(ctx context.Context, w *widget) bool {
				w.events = append(w.events, "hook.beforeDelete")
				return true
			}},
			AfterDelete: []AfterHook[*widget]{func(ctx context.Context, w *widget) {
				w.events = append(w.events, "hook.afterDelete")
			}},
		},
	}
}

type fakeTxManager struct {
	begins    int
	commits   int
	rollbacks int
}

type fakeTx struct{ m *fakeTxManager }

func (tx *fakeTx) ID() string { return "fake" }

func (tx *fakeTx) Commit() error {
	tx.m.commits++
	return nil
}

func (tx *fakeTx) Rollback() error {
	tx.m.rollbacks++
	return nil
}

func (m *fakeTxManager) Begin(ctx context.Context) (context.Context, database.Tx, error) {
	m.begins++
	tx := &fakeTx{m: m}
	return database.ContextWithTx(ctx, tx), tx, nil
}
