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

package types

import "strings"

// DefaultPageSize is used when a PageRequest carries no usable page size.
const DefaultPageSize = 10

// QueryFilter describes a WHERE clause schema and its argument values.
type QueryFilter struct {
	Schema string
	Args   []interface{}
}

// NewQueryFilter creates a new query filter with schema and args.
func NewQueryFilter(schema string, args ...interface{}) *QueryFilter {
	return &QueryFilter{schema, args}
}

// PageRequest describes pagination, optional filter, and ordering.
type PageRequest struct {
	page     int
	pageSize int
	filter   *QueryFilter
	orders   []string // "id ASC", "name DESC"
}

// GetPageSize returns the page size, DefaultPageSize when unset.
func (p *PageRequest) GetPageSize() int {
	if p.pageSize < 1 {
		return DefaultPageSize
	}
	return p.pageSize
}

// GetPage returns the 1-based page number.
func (p *PageRequest) GetPage() int {
	if p.page < 1 {
		return 1
	}
	return p.page
}

func (p *PageRequest) GetOffset() int {
	return (p.GetPage() - 1) * p.GetPageSize()
}

func (p *PageRequest) GetFilter() *QueryFilter {
	return p.filter
}

func (p *PageRequest) GetOrders() []string {
	return p.orders
}

// WithDefaultPageSize returns a copy whose unset page size is size.
func (p *PageRequest) WithDefaultPageSize(size int) *PageRequest {
	c := *p
	if c.pageSize < 1 {
		c.pageSize = size
	}
	return &c
}

// NewPageRequest constructs a PageRequest with filter and order settings.
func NewPageRequest(page int, pageSize int, filter *QueryFilter, orders []string) *PageRequest {
	return &PageRequest{page, pageSize, filter, orders}
}

// NewPageRequestWithFilter constructs a PageRequest with a filter only.
func NewPageRequestWithFilter(page int, pageSize int, filter *QueryFilter) *PageRequest {
	return NewPageRequest(page, pageSize, filter, nil)
}

// NewPageRequestWithOrders constructs a PageRequest with ordering only.
func NewPageRequestWithOrders(page int, pageSize int, orders []string) *PageRequest {
	return NewPageRequest(page, pageSize, nil, orders)
}

// NewDefaultPageRequest constructs a PageRequest with no filter or ordering.
func NewDefaultPageRequest(page int, pageSize int) *PageRequest {
	return NewPageRequest(page, pageSize, nil, nil)
}

// Sort restricts orderings to a whitelist of columns.
type Sort struct {
	allowed  map[string]bool
	defaults []string
}

// NewSort allows ordering by the given columns; defaults apply when a
// request carries no usable ordering.
func NewSort(columns []string, defaults ...string) *Sort {
	allowed := make(map[string]bool, len(columns))
	for _, c := range columns {
		allowed[c] = true
	}
	return &Sort{allowed: allowed, defaults: defaults}
}

// Resolve normalizes orders ("name desc" -> "name DESC"), dropping columns
// outside the whitelist. A nil Sort accepts every column.
func (s *Sort) Resolve(orders []string) []string {
	resolved := make([]string, 0, len(orders))
	for _, o := range orders {
		fields := strings.Fields(o)
		if len(fields) == 0 || len(fields) > 2 {
			continue
		}
		column := fields[0]
		if s != nil && !s.allowed[column] {
			continue
		}
		dir := "ASC"
		if len(fields) == 2 && strings.EqualFold(fields[1], "desc") {
			dir = "DESC"
		}
		resolved = append(resolved, column+" "+dir)
	}
	if len(resolved) == 0 && s != nil {
		return append(resolved, s.defaults...)
	}
	return resolved
}

// Pagination holds paged result items along with pagination metadata.
type Pagination[T any] struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
	Items      []T `json:"items"`
}

// NewDefaultPagination constructs an empty pagination container.
func NewDefaultPagination[T any](page int, pageSize int) *Pagination[T] {
	return &Pagination[T]{Page: page, PageSize: pageSize, Items: make([]T, 0)}
}

// SetTotal records the total row count and derives TotalPages.
func (p *Pagination[T]) SetTotal(total int) {
	p.Total = total
	p.TotalPages = 0
	if p.PageSize > 0 {
		p.TotalPages = (total + p.PageSize - 1) / p.PageSize
	}
}
