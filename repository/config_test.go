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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomoncle/strata/types"
	"github.com/uptrace/bun"
)

type counter struct{ mapper *DataMapper[int] }

func (c *counter) DataMapper() *DataMapper[int] { return c.mapper }

func TestNewRejectsInvalidConfiguration(t *testing.T) {
	db, _ := newMockDB(t)

	_, err := New(db, Companions[*user, userRecord]{})
	assert.ErrorIs(t, err, ErrConfiguration, "entity constructor is required")

	_, err = New(db, Companions[*counter, int]{
		Entity: func(m *DataMapper[int]) *counter { return &counter{mapper: m} },
	})
	assert.ErrorIs(t, err, ErrConfiguration, "record must be a struct")
	assert.ErrorContains(t, err, "record type int is not a struct")

	_, err = New[*user, userRecord](nil, userCompanions())
	assert.ErrorIs(t, err, ErrConfiguration)

	for name, opt := range map[string]Option{
		"nil tx manager": WithTxManager(nil),
		"zero batch":     WithEachBatchSize(0),
		"negative page":  WithPageSize(-1),
	} {
		_, err = New(db, userCompanions(), opt)
		assert.ErrorIs(t, err, ErrConfiguration, name)
	}
}

func TestTransactionalNeedsTxManagerOutsideDB(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)
	defer func() { _ = tx.Rollback() }()

	_, err = New[*user, userRecord](tx, userCompanions(), WithTransactional(true))
	assert.ErrorIs(t, err, ErrConfiguration)

	repo, err := New[*user, userRecord](tx, userCompanions(), WithTransactional(true), WithTxManager(&fakeTxManager{}))
	require.NoError(t, err)
	assert.True(t, repo.Transactional())
}

func TestDefaultCompanions(t *testing.T) {
	db, _ := newMockDB(t)
	repo, err := New(db, userCompanions())
	require.NoError(t, err)
	assert.False(t, repo.Transactional())

	fresh := repo.CreateNewEntity()
	require.NotNil(t, fresh.Record())
	assert.True(t, fresh.DataMapper().IsNewRecord())
	assert.IsType(t, &ActiveRecord[userRecord]{}, fresh.DataMapper().Source())

	rec := &userRecord{ID: 7, Name: "stored"}
	existing := repo.CreateEntityFromSource(rec)
	assert.Same(t, rec, existing.Record())
	assert.False(t, existing.DataMapper().IsNewRecord())

	assert.Equal(t, DefaultEachBatchSize, repo.Find().batchSize)
	provider := repo.EntitiesProvider(nil)
	assert.Equal(t, types.DefaultPageSize, provider.Request().GetPageSize())
}

func TestCustomCompanions(t *testing.T) {
	db, _ := newMockDB(t)
	var queries, finders, sources int

	c := userCompanions()
	c.Record = func() *userRecord { return &userRecord{Name: "draft"} }
	c.Source = func(db bun.IDB, record *userRecord, isNew bool) DataSource {
		sources++
		return &fakeSource{ok: true}
	}
	c.Query = func(db bun.IDB) *Query[userRecord] {
		queries++
		return NewQuery[userRecord](db).Where("age > ?", 18)
	}
	c.Finder = func(q *Query[userRecord], wrap func(*userRecord) *user) *Finder[*user, userRecord] {
		finders++
		return NewFinder(q, wrap)
	}

	repo, err := New(db, c, WithEachBatchSize(25))
	require.NoError(t, err)

	u := repo.CreateNewEntity()
	assert.Equal(t, "draft", u.Record().Name)
	assert.IsType(t, &fakeSource{}, u.DataMapper().Source())
	assert.Equal(t, 1, sources)

	ok, err := repo.SaveWithoutValidation(context.Background(), u)
	require.NoError(t, err)
	assert.True(t, ok)

	f := repo.Find()
	assert.Equal(t, 1, queries)
	assert.Equal(t, 1, finders)
	assert.Equal(t, 25, f.batchSize)
	assert.Len(t, f.Query().mods, 1)
}
