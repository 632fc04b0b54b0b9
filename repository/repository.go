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
	"iter"

	"github.com/sirupsen/logrus"
	"github.com/tomoncle/strata/database"
	"github.com/tomoncle/strata/types"
	"github.com/tomoncle/strata/utils"
	"github.com/uptrace/bun"
)

// Repository saves, deletes and finds entities E backed by records R.
type Repository[E Entity[R], R any] interface {
	// ValidateAndSave validates and persists entity. With attributes, only
	// those columns are written. It returns false and no error when a
	// before-save hook vetoed, and a *SaveFailedError when persistence failed.
	ValidateAndSave(ctx context.Context, entity E, attributes ...string) (bool, error)

	// SaveWithoutValidation persists entity without validating it.
	SaveWithoutValidation(ctx context.Context, entity E, attributes ...string) (bool, error)

	// Delete removes entity. It returns false when a before-delete hook
	// vetoed or nothing was deleted.
	Delete(ctx context.Context, entity E) (bool, error)

	// Find returns a finder over a fresh query.
	Find() *Finder[E, R]

	FindAll(ctx context.Context) ([]E, error)

	// FindOneWithPk returns ErrNotFound when no record has the key.
	FindOneWithPk(ctx context.Context, pk any) (E, error)

	// Each yields every entity lazily, in batches.
	Each(ctx context.Context) iter.Seq2[E, error]

	// CreateNewEntity returns an entity over a fresh, unsaved record.
	CreateNewEntity() E

	// CreateEntityFromSource returns an entity over an already stored record.
	CreateEntityFromSource(record *R) E

	// EntitiesProvider returns a provider paging through all entities.
	EntitiesProvider(page *types.PageRequest) *DataProvider[E, R]

	Transactional() bool
}

type baseRepositoryImpl[E Entity[R], R any] struct {
	db         bun.IDB
	companions Companions[E, R]
	settings   Settings
	log        *logrus.Entry
}

// New returns a repository for entities E backed by records R stored in db.
// It fails with ErrConfiguration when the companions or options are invalid.
func New[E Entity[R], R any](db bun.IDB, companions Companions[E, R], opts ...Option) (Repository[E, R], error) {
	if db == nil {
		return nil, fmt.Errorf("%w: nil database", ErrConfiguration)
	}
	c, err := companions.resolve()
	if err != nil {
		return nil, err
	}
	s := defaultSettings()
	for _, opt := range opts {
		if err := opt(&s); err != nil {
			return nil, err
		}
	}
	if s.Transactional && s.TxManager == nil {
		bdb, ok := db.(*bun.DB)
		if !ok {
			return nil, fmt.Errorf("%w: transactional repository over %T needs a transaction manager", ErrConfiguration, db)
		}
		s.TxManager = database.NewTxManager(bdb)
	}
	return &baseRepositoryImpl[E, R]{
		db:         db,
		companions: c,
		settings:   s,
		log:        utils.NewLogger("REPOSITORY").WithField("record", fmt.Sprintf("%T", (*R)(nil))),
	}, nil
}

func (r *baseRepositoryImpl[E, R]) Transactional() bool { return r.settings.Transactional }

func (r *baseRepositoryImpl[E, R]) ValidateAndSave(ctx context.Context, entity E, attributes ...string) (bool, error) {
	return r.save(ctx, entity, true, attributes)
}

func (r *baseRepositoryImpl[E, R]) SaveWithoutValidation(ctx context.Context, entity E, attributes ...string) (bool, error) {
	return r.save(ctx, entity, false, attributes)
}

func (r *baseRepositoryImpl[E, R]) save(ctx context.Context, entity E, validate bool, attributes []string) (bool, error) {
	if !r.settings.Transactional {
		ok, err := r.persist(ctx, entity, validate, attributes)
		if ok {
			r.companions.Hooks.after(ctx, EventAfterSave, entity)
		}
		return ok, err
	}

	restore := r.snapshot(entity)
	ok, err := database.RunInTx(ctx, r.settings.TxManager, func(ctx context.Context) (bool, error) {
		return r.persist(ctx, entity, validate, attributes)
	})
	if !ok {
		restore()
		return false, err
	}
	r.companions.Hooks.after(ctx, EventAfterSave, entity)
	return true, nil
}

// snapshot captures the record and its new state so that a save whose
// transaction was not committed leaves the entity as it was.
func (r *baseRepositoryImpl[E, R]) snapshot(entity E) func() {
	mapper := entity.DataMapper()
	record := mapper.Record()
	if record == nil {
		return func() {}
	}
	saved := *record
	wasNew := mapper.IsNewRecord()
	return func() {
		*record = saved
		if s, ok := mapper.Source().(interface{ SetNewRecord(bool) }); ok {
			s.SetNewRecord(wasNew)
		}
	}
}

// persist runs the before-save hooks and writes the record. After-save hooks
// are left to the caller, which knows whether the write became durable.
func (r *baseRepositoryImpl[E, R]) persist(ctx context.Context, entity E, validate bool, attributes []string) (bool, error) {
	source, err := r.sourceOf(entity)
	if err != nil {
		return false, err
	}
	if !r.companions.Hooks.before(ctx, EventBeforeSave, entity) {
		r.log.WithField("event", EventBeforeSave).Debug("Save vetoed")
		return false, nil
	}

	var ok bool
	if validate {
		ok, err = source.ValidateAndSave(ctx, attributes...)
	} else {
		ok, err = source.SaveWithoutValidation(ctx, attributes...)
	}
	if !ok || err != nil {
		failure := &SaveFailedError{Errors: source.Errors(), Err: err}
		r.log.WithField("errors", failure.Errors).WithError(err).Warn("Save failed")
		return false, failure
	}
	return true, nil
}

func (r *baseRepositoryImpl[E, R]) Delete(ctx context.Context, entity E) (bool, error) {
	source, err := r.sourceOf(entity)
	if err != nil {
		return false, err
	}
	if !r.companions.Hooks.before(ctx, EventBeforeDelete, entity) {
		r.log.WithField("event", EventBeforeDelete).Debug("Delete vetoed")
		return false, nil
	}
	ok, err := source.DeleteRecord(ctx)
	if err != nil {
		r.log.WithError(err).Warn("Delete failed")
		return false, err
	}
	if !ok {
		return false, nil
	}
	r.companions.Hooks.after(ctx, EventAfterDelete, entity)
	return true, nil
}

func (r *baseRepositoryImpl[E, R]) sourceOf(entity E) (DataSource, error) {
	source := entity.DataMapper().Source()
	if source == nil {
		return nil, fmt.Errorf("%w: %T", ErrNoDataSource, entity)
	}
	return source, nil
}

func (r *baseRepositoryImpl[E, R]) Find() *Finder[E, R] {
	return r.companions.Finder(r.companions.Query(r.db), r.CreateEntityFromSource).
		WithBatchSize(r.settings.EachBatchSize)
}

func (r *baseRepositoryImpl[E, R]) FindAll(ctx context.Context) ([]E, error) {
	return r.Find().All(ctx)
}

func (r *baseRepositoryImpl[E, R]) FindOneWithPk(ctx context.Context, pk any) (E, error) {
	return r.Find().OneWithPk(ctx, pk)
}

func (r *baseRepositoryImpl[E, R]) Each(ctx context.Context) iter.Seq2[E, error] {
	return r.Find().Each(ctx)
}

func (r *baseRepositoryImpl[E, R]) CreateNewEntity() E {
	return r.entityOf(r.companions.Record(), true)
}

func (r *baseRepositoryImpl[E, R]) CreateEntityFromSource(record *R) E {
	return r.entityOf(record, false)
}

func (r *baseRepositoryImpl[E, R]) entityOf(record *R, isNew bool) E {
	source := r.companions.Source(r.db, record, isNew)
	return r.companions.Entity(NewDataMapper(source, record))
}

func (r *baseRepositoryImpl[E, R]) EntitiesProvider(page *types.PageRequest) *DataProvider[E, R] {
	if page == nil {
		page = types.NewDefaultPageRequest(1, r.settings.PageSize)
	} else {
		page = page.WithDefaultPageSize(r.settings.PageSize)
	}
	return NewDataProvider(r.Find(), page).WithSort(r.settings.Sort)
}
