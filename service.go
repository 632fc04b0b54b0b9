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

package strata

import (
	"errors"

	"github.com/tomoncle/strata/database"
	"github.com/tomoncle/strata/repository"
)

// ErrNotInitialized is returned by NewRepository before Init.
var ErrNotInitialized = errors.New("strata: database not initialized")

// NewRepository returns a repository over the global database. The defaults
// recorded by Init come first, so opts override them.
func NewRepository[E repository.Entity[R], R any](companions repository.Companions[E, R], opts ...repository.Option) (repository.Repository[E, R], error) {
	db := database.GetDB()
	if db == nil {
		return nil, ErrNotInitialized
	}
	return repository.New(db, companions, append(defaultOptions(), opts...)...)
}

func defaultOptions() []repository.Option {
	settingsMu.RLock()
	cfg := settings
	settingsMu.RUnlock()

	opts := []repository.Option{repository.WithTransactional(cfg.Transactional)}
	if cfg.PageSize > 0 {
		opts = append(opts, repository.WithPageSize(cfg.PageSize))
	}
	if cfg.EachBatchSize > 0 {
		opts = append(opts, repository.WithEachBatchSize(cfg.EachBatchSize))
	}
	return opts
}
