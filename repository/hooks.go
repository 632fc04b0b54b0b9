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

	"github.com/tomoncle/strata/types"
)

// EventName identifies the points at which hooks run.
type EventName int

const (
	EventBeforeSave EventName = iota + 1
	EventAfterSave
	EventBeforeDelete
	EventAfterDelete
)

var _ types.BaseEnum = EventBeforeSave

var eventNames = map[EventName][2]string{
	EventBeforeSave:   {"beforeSave", "runs before a record is written; may veto"},
	EventAfterSave:    {"afterSave", "runs after a record was written"},
	EventBeforeDelete: {"beforeDelete", "runs before a record is deleted; may veto"},
	EventAfterDelete:  {"afterDelete", "runs after a record was deleted"},
}

func (e EventName) IsValid() bool {
	_, ok := eventNames[e]
	return ok
}

func (e EventName) Number() int {
	if !e.IsValid() {
		return types.IllegalValue
	}
	return int(e)
}

func (e EventName) Name() string {
	if !e.IsValid() {
		return types.IllegalName
	}
	return eventNames[e][0]
}

func (e EventName) Desc() string {
	if !e.IsValid() {
		return types.IllegalDesc
	}
	return eventNames[e][1]
}

func (e EventName) String() string { return e.Name() }

// ParseEventName looks an event up by name, e.g. "beforeSave".
func ParseEventName(name string) (EventName, bool) {
	return types.ParseEnum(name, EventBeforeSave, EventAfterSave, EventBeforeDelete, EventAfterDelete)
}

// BeforeHook decides whether an operation may proceed.
type BeforeHook[E any] func(ctx context.Context, entity E) bool

// AfterHook reacts to a completed operation.
type AfterHook[E any] func(ctx context.Context, entity E)

// Hooks lists the functions run around save and delete. Before hooks run in
// order and the first denial stops the operation; the entity's own
// BeforeSaver or BeforeDeleter is consulted last.
type Hooks[E any] struct {
	BeforeSave   []BeforeHook[E]
	AfterSave    []AfterHook[E]
	BeforeDelete []BeforeHook[E]
	AfterDelete  []AfterHook[E]
}

func (h Hooks[E]) before(ctx context.Context, name EventName, entity E) bool {
	list := h.BeforeSave
	if name == EventBeforeDelete {
		list = h.BeforeDelete
	}
	for _, fn := range list {
		if !fn(ctx, entity) {
			return false
		}
	}
	switch name {
	case EventBeforeSave:
		if s, ok := any(entity).(BeforeSaver); ok {
			return s.BeforeSave(ctx)
		}
	case EventBeforeDelete:
		if d, ok := any(entity).(BeforeDeleter); ok {
			return d.BeforeDelete(ctx)
		}
	}
	return true
}

func (h Hooks[E]) after(ctx context.Context, name EventName, entity E) {
	list := h.AfterSave
	if name == EventAfterDelete {
		list = h.AfterDelete
	}
	for _, fn := range list {
		fn(ctx, entity)
	}
	switch name {
	case EventAfterSave:
		if s, ok := any(entity).(AfterSaver); ok {
			s.AfterSave(ctx)
		}
	case EventAfterDelete:
		if d, ok := any(entity).(AfterDeleter); ok {
			d.AfterDelete(ctx)
		}
	}
}
