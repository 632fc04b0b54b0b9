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
)

// DataSource is the storage-backed side of an entity: it validates and
// persists one record.
type DataSource interface {
	// Validate runs the record's validation rules and reports whether it is
	// valid. Errors returns the collected messages.
	Validate(ctx context.Context) bool

	// ValidateAndSave validates, then inserts or updates the record. Only the
	// given attributes (columns) are written when any are passed.
	ValidateAndSave(ctx context.Context, attributes ...string) (bool, error)

	// SaveWithoutValidation inserts or updates the record without validating.
	SaveWithoutValidation(ctx context.Context, attributes ...string) (bool, error)

	// DeleteRecord deletes the record. It returns false when nothing was deleted.
	DeleteRecord(ctx context.Context) (bool, error)

	// Errors returns the messages of the last validation or persistence attempt.
	Errors() []string
}

// Entity is a domain object bridged to its record R by a DataMapper.
type Entity[R any] interface {
	DataMapper() *DataMapper[R]
}

// RuleValidator may be implemented by a record to add rules that struct tags
// cannot express. Each returned string is one error message.
type RuleValidator interface {
	Rules(ctx context.Context) []string
}

// BeforeSaver may be implemented by an entity to veto its own save.
type BeforeSaver interface {
	BeforeSave(ctx context.Context) bool
}

// AfterSaver may be implemented by an entity to react to a successful save.
type AfterSaver interface {
	AfterSave(ctx context.Context)
}

// BeforeDeleter may be implemented by an entity to veto its own delete.
type BeforeDeleter interface {
	BeforeDelete(ctx context.Context) bool
}

// AfterDeleter may be implemented by an entity to react to a successful delete.
type AfterDeleter interface {
	AfterDelete(ctx context.Context)
}
