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

package database

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
)

// SQLError classifies driver errors independently of the database type.
type SQLError int

const (
	UnknownErr SQLError = iota
	NoRowsErr
	NoColumnErr
	NoTableErr
	DuplicateKeyErr
	NotNullViolationErr
	ForeignKeyViolationErr
	CheckConstraintViolationErr
	DataTruncatedErr
	InvalidTypeCastErr
)

// String returns a short human readable description, suitable for the error
// list of a record.
func (e SQLError) String() string {
	switch e {
	case NoRowsErr:
		return "record not found"
	case NoColumnErr:
		return "unknown column"
	case NoTableErr:
		return "unknown table"
	case DuplicateKeyErr:
		return "duplicate key"
	case NotNullViolationErr:
		return "required column is null"
	case ForeignKeyViolationErr:
		return "foreign key violation"
	case CheckConstraintViolationErr:
		return "check constraint violation"
	case DataTruncatedErr:
		return "value too long"
	case InvalidTypeCastErr:
		return "datatype mismatch"
	default:
		return "database error"
	}
}

var mysqlErrorNumbers = map[uint16]SQLError{
	1054: NoColumnErr,
	1146: NoTableErr,
	1062: DuplicateKeyErr,
	1048: NotNullViolationErr,
	1216: ForeignKeyViolationErr,
	1217: ForeignKeyViolationErr,
	1451: ForeignKeyViolationErr,
	1452: ForeignKeyViolationErr,
	3819: CheckConstraintViolationErr,
	1265: DataTruncatedErr,
	1406: DataTruncatedErr,
}

var postgresErrorCodes = map[pq.ErrorCode]SQLError{
	"42703": NoColumnErr,
	"42P01": NoTableErr,
	"23505": DuplicateKeyErr,
	"23502": NotNullViolationErr,
	"23503": ForeignKeyViolationErr,
	"23514": CheckConstraintViolationErr,
	"22001": DataTruncatedErr,
	"42804": InvalidTypeCastErr,
}

// sqlite reports constraint failures through its message only.
var sqliteErrorPatterns = []struct {
	kind      SQLError
	fragments []string
}{
	{NoColumnErr, []string{"no such column", "has no column named"}},
	{NoTableErr, []string{"no such table"}},
	{DuplicateKeyErr, []string{"unique constraint failed"}},
	{NotNullViolationErr, []string{"not null constraint failed"}},
	{ForeignKeyViolationErr, []string{"foreign key constraint failed"}},
	{CheckConstraintViolationErr, []string{"check constraint failed"}},
	{InvalidTypeCastErr, []string{"datatype mismatch"}},
}

// IsSqlError reports whether err is a recognised database error and which
// kind it is.
func IsSqlError(err error) (is bool, sqlErr SQLError) {
	if err == nil {
		return false, UnknownErr
	}
	if errors.Is(err, sql.ErrNoRows) {
		return true, NoRowsErr
	}
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		if kind, ok := mysqlErrorNumbers[mysqlErr.Number]; ok {
			return true, kind
		}
		return true, UnknownErr
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if kind, ok := postgresErrorCodes[pqErr.Code]; ok {
			return true, kind
		}
		return true, UnknownErr
	}
	s := strings.ToLower(err.Error())
	for _, p := range sqliteErrorPatterns {
		for _, fragment := range p.fragments {
			if strings.Contains(s, fragment) {
				return true, p.kind
			}
		}
	}
	return false, UnknownErr
}
