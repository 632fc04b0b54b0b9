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
	"errors"
	"strings"
)

var (
	// ErrConfiguration is returned when a repository cannot be built from
	// its companions or options.
	ErrConfiguration = errors.New("repository: invalid configuration")

	// ErrNotFound is returned by finders when no record matches.
	ErrNotFound = errors.New("repository: record not found")

	// ErrSaveFailed matches every *SaveFailedError with errors.Is.
	ErrSaveFailed = errors.New("repository: save failed")

	// ErrNoDataSource is returned for entities whose mapper has no data source.
	ErrNoDataSource = errors.New("repository: entity has no data source")
)

// SaveFailedError is returned when persistence was attempted and the data
// source reported failure. Errors holds the data source's error list and
// Err the driver error, if any.
type SaveFailedError struct {
	Errors []string
	Err    error
}

func (e *SaveFailedError) Error() string {
	var b strings.Builder
	b.WriteString(ErrSaveFailed.Error())
	if len(e.Errors) > 0 {
		b.WriteString(": ")
		b.WriteString(strings.Join(e.Errors, "; "))
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *SaveFailedError) Unwrap() error { return e.Err }

func (e *SaveFailedError) Is(target error) bool { return target == ErrSaveFailed }
