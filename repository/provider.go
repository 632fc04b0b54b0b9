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

	"github.com/tomoncle/strata/types"
)

// DataProvider pages through the entities matched by a query.
type DataProvider[E any, R any] struct {
	finder  *Finder[E, R]
	request *types.PageRequest
	sort    *types.Sort
}

// NewDataProvider returns a provider for finder. A nil request yields the
// first page with the default page size.
func NewDataProvider[E any, R any](finder *Finder[E, R], request *types.PageRequest) *DataProvider[E, R] {
	if request == nil {
		request = types.NewDefaultPageRequest(1, types.DefaultPageSize)
	}
	return &DataProvider[E, R]{finder: finder, request: request}
}

// WithSort restricts the request's orderings to sort's whitelist.
func (p *DataProvider[E, R]) WithSort(sort *types.Sort) *DataProvider[E, R] {
	p.sort = sort
	return p
}

func (p *DataProvider[E, R]) Request() *types.PageRequest { return p.request }

// Page counts the matching records, then loads the requested page. Pages
// without any ordering are ordered by primary key.
func (p *DataProvider[E, R]) Page(ctx context.Context) (*types.Pagination[E], error) {
	q := p.finder.Query().Clone().Filter(p.request.GetFilter())
	pagination := types.NewDefaultPagination[E](p.request.GetPage(), p.request.GetPageSize())

	total, err := q.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count %T: %w", (*R)(nil), err)
	}
	pagination.SetTotal(total)
	if total == 0 || p.request.GetOffset() >= total {
		return pagination, nil
	}

	q.Order(p.sort.Resolve(p.request.GetOrders())...)
	if !q.Ordered() {
		// pages must not overlap
		q.OrderExpr("?PKs")
	}

	var records []*R
	err = q.Build(ctx, &records).
		Offset(p.request.GetOffset()).
		Limit(p.request.GetPageSize()).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load page %d of %T: %w", p.request.GetPage(), (*R)(nil), err)
	}
	pagination.Items = p.finder.wrapAll(records)
	return pagination, nil
}
