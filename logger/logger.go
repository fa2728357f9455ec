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

// Package logger provides the ambient structured-logging hook shared by every
// component: a logrus-backed leveled logger handed to components as a plain
// function value, so that a component with no logger configured degrades to a
// silent no-op rather than requiring a nil check at every call site.
package logger

import (
	"github.com/sirupsen/logrus"

	loglvl "github.com/nabbar/ant-golib/logger/level"
)

// Entry is a single structured log call: level, message and optional fields.
type Entry struct {
	Level   loglvl.Level
	Message string
	Fields  map[string]interface{}
}

// FuncLog is the ambient logging hook accepted by component constructors
// such as reliablesess.New, which replaces a nil FuncLog with Discard.
type FuncLog func(e Entry)

// Logger wraps a logrus.FieldLogger behind the FuncLog shape.
type Logger struct {
	log logrus.FieldLogger
}

// New returns a FuncLog backed by the given logrus logger. If l is nil, the
// returned function discards every entry.
func New(l logrus.FieldLogger) FuncLog {
	if l == nil {
		return func(Entry) {}
	}

	lg := &Logger{log: l}
	return lg.write
}

func (lg *Logger) write(e Entry) {
	if lg == nil || lg.log == nil || e.Level == loglvl.NilLevel {
		return
	}

	entry := lg.log
	if len(e.Fields) > 0 {
		entry = entry.WithFields(e.Fields)
	}

	switch e.Level {
	case loglvl.PanicLevel:
		entry.Panic(e.Message)
	case loglvl.FatalLevel:
		entry.Error(e.Message) // never os.Exit from inside a library
	case loglvl.ErrorLevel:
		entry.Error(e.Message)
	case loglvl.WarnLevel:
		entry.Warn(e.Message)
	case loglvl.InfoLevel:
		entry.Info(e.Message)
	case loglvl.DebugLevel:
		entry.Debug(e.Message)
	}
}

// Discard is a FuncLog that drops every entry.
func Discard(Entry) {}
