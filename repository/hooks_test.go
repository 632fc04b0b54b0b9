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
	"github.com/tomoncle/strata/types"
)

func TestEventName(t *testing.T) {
	assert.Equal(t, "beforeSave", EventBeforeSave.String())
	assert.Equal(t, 4, EventAfterDelete.Number())
	assert.True(t, EventAfterSave.IsValid())
	assert.NotEmpty(t, EventBeforeDelete.Desc())

	invalid := EventName(42)
	assert.False(t, invalid.IsValid())
	assert.Equal(t, types.IllegalValue, invalid.Number())
	assert.Equal(t, types.IllegalName, invalid.Name())

	e, ok := ParseEventName("AfterDelete")
	assert.True(t, ok)
	assert.Equal(t, EventAfterDelete, e)
	_, ok = ParseEventName("beforeUpdate")
	assert.False(t, ok)
}

func TestHooksStopAtFirstDenial(t *testing.T) {
	ctx := context.Background()
	var ran []string
	h := Hooks[*widget]{
		BeforeDelete: []BeforeHook[*widget]{
			func(context.Context, *widget) bool { ran = append(ran, "first"); return true },
			func(context.Context, *widget) bool { ran = append(ran, "second"); return false },
			func(context.Context, *widget) bool { ran = append(ran, "third"); return true },
		},
	}
	w := newWidget(&fakeSource{})
	assert.False(t, h.before(ctx, EventBeforeDelete, w))
	assert.Equal(t, []string{"first", "second"}, ran)
	assert.Empty(t, w.events, "entity hook is consulted last")

	assert.True(t, h.before(ctx, EventBeforeSave, w))
	assert.Equal(t, []string{"entity.beforeSave"}, w.events)
}

func TestHooksWithoutEntityHooks(t *testing.T) {
	ctx := context.Background()
	var after int
	h := Hooks[*user]{AfterSave: []AfterHook[*user]{func(context.Context, *user) { after++ }}}
	u := &user{}
	assert.True(t, h.before(ctx, EventBeforeSave, u))
	assert.True(t, h.before(ctx, EventBeforeDelete, u))
	h.after(ctx, EventAfterSave, u)
	h.after(ctx, EventAfterDelete, u)
	assert.Equal(t, 1, after)
}
