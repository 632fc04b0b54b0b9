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

// DataMapper bridges an entity to the record backing it. It owns the data
// source for the entity's lifetime.
type DataMapper[R any] struct {
	source DataSource
	record *R
}

// NewDataMapper wires source and the record it persists.
func NewDataMapper[R any](source DataSource, record *R) *DataMapper[R] {
	return &DataMapper[R]{source: source, record: record}
}

// Source returns the data source that validates and persists the record.
func (m *DataMapper[R]) Source() DataSource {
	if m == nil {
		return nil
	}
	return m.source
}

// Record returns the backing record.
func (m *DataMapper[R]) Record() *R {
	if m == nil {
		return nil
	}
	return m.record
}

// IsNewRecord reports whether the record has not been stored yet. Data
// sources that cannot tell are treated as stored.
func (m *DataMapper[R]) IsNewRecord() bool {
	if n, ok := m.Source().(interface{ IsNewRecord() bool }); ok {
		return n.IsNewRecord()
	}
	return false
}

// Errors returns the data source's current error list.
func (m *DataMapper[R]) Errors() []string {
	if s := m.Source(); s != nil {
		return s.Errors()
	}
	return nil
}
