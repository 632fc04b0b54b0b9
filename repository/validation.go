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
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Validator returns the shared validator used by ActiveRecord, so that
// callers can register custom tags on it.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(columnName)
	})
	return validate
}

// columnName reports fields under their bun column name.
func columnName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("bun"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" || strings.Contains(name, ":") {
		return fld.Name
	}
	return name
}

// validateStruct returns one "<column>: <message>" entry per failed rule.
// With columns, only the fields stored in those columns are validated.
func validateStruct(ctx context.Context, record any, columns ...string) []string {
	var err error
	if len(columns) == 0 {
		err = Validator().StructCtx(ctx, record)
	} else {
		err = Validator().StructPartialCtx(ctx, record, fieldsOf(reflect.TypeOf(record), columns)...)
	}
	if err == nil {
		return nil
	}
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return []string{err.Error()}
	}
	messages := make([]string, 0, len(fieldErrors))
	for _, e := range fieldErrors {
		messages = append(messages, e.Field()+": "+validationMessage(e))
	}
	return messages
}

// fieldsOf maps column names to the struct field names StructPartialCtx
// expects.
func fieldsOf(t reflect.Type, columns []string) []string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	wanted := make(map[string]bool, len(columns))
	for _, c := range columns {
		wanted[c] = true
	}
	var fields []string
	for i := 0; i < t.NumField(); i++ {
		fld := t.Field(i)
		if fld.Anonymous || !fld.IsExported() {
			continue
		}
		if wanted[columnName(fld)] {
			fields = append(fields, fld.Name)
		}
	}
	return fields
}

func validationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Invalid email format"
	case "min":
		if e.Kind() == reflect.String {
			return "Must be at least " + e.Param() + " characters"
		}
		return "Must be at least " + e.Param()
	case "max":
		if e.Kind() == reflect.String {
			return "Must be at most " + e.Param() + " characters"
		}
		return "Must be at most " + e.Param()
	case "len":
		return "Must be exactly " + e.Param() + " characters"
	case "oneof":
		return "Must be one of: " + e.Param()
	case "gte":
		return "Must be greater than or equal to " + e.Param()
	case "lte":
		return "Must be less than or equal to " + e.Param()
	case "gt":
		return "Must be greater than " + e.Param()
	case "lt":
		return "Must be less than " + e.Param()
	case "uuid":
		return "Invalid UUID format"
	case "url":
		return "Invalid URL format"
	case "alphanum":
		return "Must be alphanumeric"
	default:
		return "Invalid value"
	}
}
