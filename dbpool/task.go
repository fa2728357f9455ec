/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package dbpool

import (
	"strings"

	gormdb "gorm.io/gorm"
)

// Appender builds a Task out of alternating verbatim SQL fragments and
// bound parameter values. AppendRaw writes text unescaped, exactly as
// given (table/column identifiers, keywords, fragments the caller already
// trusts); AppendEscaped writes a `?` placeholder and defers escaping to
// the driver's own parameter binding, never interpolating the value into
// the SQL text itself.
type Appender struct {
	sql  strings.Builder
	args []any
}

// AppendRaw appends s verbatim to the statement text.
func (a *Appender) AppendRaw(s string) *Appender {
	a.sql.WriteString(s)
	return a
}

// AppendEscaped appends a placeholder for v, binding v as a query
// parameter rather than rendering it into the statement text. This is the
// Go-idiomatic replacement for a C driver's escape_string: the original
// renders an escaped literal into the SQL string, but database/sql-family
// drivers expose no such primitive, only parameter binding, which every
// driver already implements correctly for its own quoting rules.
func (a *Appender) AppendEscaped(v any) *Appender {
	a.sql.WriteByte('?')
	a.args = append(a.args, v)
	return a
}

// Task builds into a final Task, ready to Exec or Query against a
// *gorm.DB. The Appender is left usable for a fresh Task afterward.
func (a *Appender) Task() *Task {
	t := &Task{sql: a.sql.String(), args: append([]any(nil), a.args...)}
	a.sql.Reset()
	a.args = a.args[:0]
	return t
}

// Task is an opaque, already-bound SQL statement: fragments appended via
// Appender are treated as plain text, never parsed or validated — no SQL
// parser is part of this package.
type Task struct {
	sql  string
	args []any
}

// Exec runs the task as a data-modifying statement and returns the number
// of rows affected.
func (t *Task) Exec(db *gormdb.DB) (int64, error) {
	if t.sql == "" {
		return 0, ErrorTaskEmpty.Error(nil)
	}
	res := db.Exec(t.sql, t.args...)
	return res.RowsAffected, res.Error
}

// Query runs the task as a read statement, scanning each result row into
// dest (a pointer to a struct or slice, per gorm.DB.Raw/Scan semantics).
func (t *Task) Query(db *gormdb.DB, dest any) error {
	if t.sql == "" {
		return ErrorTaskEmpty.Error(nil)
	}
	return db.Raw(t.sql, t.args...).Scan(dest).Error
}
