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

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageRequest(t *testing.T) {
	p := NewDefaultPageRequest(0, 0)
	assert.Equal(t, 1, p.GetPage())
	assert.Equal(t, DefaultPageSize, p.GetPageSize())
	assert.Equal(t, 0, p.GetOffset())

	p = NewPageRequestWithOrders(3, 25, []string{"id DESC"})
	assert.Equal(t, 50, p.GetOffset())
	assert.Equal(t, []string{"id DESC"}, p.GetOrders())
	assert.Nil(t, p.GetFilter())

	f := NewQueryFilter("status = ?", "active")
	p = NewPageRequestWithFilter(1, 5, f)
	assert.Same(t, f, p.GetFilter())
}

func TestWithDefaultPageSize(t *testing.T) {
	unset := NewDefaultPageRequest(2, 0)
	c := unset.WithDefaultPageSize(30)
	assert.Equal(t, 30, c.GetPageSize())
	assert.Equal(t, 30, c.GetOffset())
	assert.Equal(t, DefaultPageSize, unset.GetPageSize(), "original request is not modified")

	assert.Equal(t, 7, NewDefaultPageRequest(1, 7).WithDefaultPageSize(30).GetPageSize())
}

func TestSortResolve(t *testing.T) {
	s := NewSort([]string{"name", "created_at"}, "id ASC")

	assert.Equal(t, []string{"name DESC", "created_at ASC"}, s.Resolve([]string{"name desc", "created_at", "password ASC"}))
	assert.Equal(t, []string{"id ASC"}, s.Resolve([]string{"password"}))
	assert.Equal(t, []string{"id ASC"}, s.Resolve(nil))
	assert.Equal(t, []string{"name ASC"}, s.Resolve([]string{"name sideways"}))
	assert.Equal(t, []string{"id ASC"}, s.Resolve([]string{"name DESC; DROP TABLE users"}), "malformed entries are dropped")

	var open *Sort
	assert.Equal(t, []string{"anything DESC"}, open.Resolve([]string{"anything DESC"}))
	assert.Empty(t, open.Resolve(nil))
}

func TestPaginationSetTotal(t *testing.T) {
	p := NewDefaultPagination[string](1, 10)
	assert.NotNil(t, p.Items)
	p.SetTotal(21)
	assert.Equal(t, 21, p.Total)
	assert.Equal(t, 3, p.TotalPages)

	p.SetTotal(0)
	assert.Equal(t, 0, p.TotalPages)

	zero := NewDefaultPagination[int](1, 0)
	zero.SetTotal(5)
	assert.Equal(t, 0, zero.TotalPages)
}

type color int

const (
	red color = iota + 1
	green
)

func (c color) IsValid() bool  { return c == red || c == green }
func (c color) Number() int    { return int(c) }
func (c color) String() string { return c.Name() }
func (c color) Desc() string   { return c.Name() }
func (c color) Name() string {
	switch c {
	case red:
		return "red"
	case green:
		return "green"
	}
	return IllegalName
}

func TestParseEnum(t *testing.T) {
	c, ok := ParseEnum(" Green ", red, green)
	assert.True(t, ok)
	assert.Equal(t, green, c)

	c, ok = ParseEnum("blue", red, green)
	assert.False(t, ok)
	assert.Zero(t, c)
}
