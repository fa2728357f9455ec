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

package httpmsg

import "strings"

// field is one key/value pair as it arrived on the wire. Order and
// duplicates are both preserved: a repeated header (e.g. Set-Cookie) is
// never folded into a single entry.
type field struct {
	key   string
	value string
}

// Headers is an ordered multimap of HTTP header fields. Lookups are
// case-insensitive per RFC 7230 §3.2, but the original casing and the
// insertion order are always preserved for iteration and re-emission.
type Headers struct {
	fields []field
}

// Add appends a key/value pair, preserving any existing entries under the
// same (case-insensitive) key.
func (h *Headers) Add(key, value string) {
	h.fields = append(h.fields, field{key: key, value: value})
}

// Set replaces every existing entry for key (case-insensitive) with a
// single new entry, inserted at the position of the first removed entry
// (or appended if key was absent).
func (h *Headers) Set(key, value string) {
	lk := strings.ToLower(key)
	for i := range h.fields {
		if strings.ToLower(h.fields[i].key) == lk {
			h.fields[i] = field{key: key, value: value}
			h.fields = h.removeRest(lk, i+1)
			return
		}
	}
	h.fields = append(h.fields, field{key: key, value: value})
}

func (h *Headers) removeRest(lk string, from int) []field {
	out := h.fields[:from]
	for _, f := range h.fields[from:] {
		if strings.ToLower(f.key) != lk {
			out = append(out, f)
		}
	}
	return out
}

// Get returns the first value stored under key (case-insensitive) and
// whether any entry was found.
func (h *Headers) Get(key string) (string, bool) {
	lk := strings.ToLower(key)
	for _, f := range h.fields {
		if strings.ToLower(f.key) == lk {
			return f.value, true
		}
	}
	return "", false
}

// Values returns every value stored under key (case-insensitive), in the
// order they were added.
func (h *Headers) Values(key string) []string {
	lk := strings.ToLower(key)
	var out []string
	for _, f := range h.fields {
		if strings.ToLower(f.key) == lk {
			out = append(out, f.value)
		}
	}
	return out
}

// Del removes every entry stored under key (case-insensitive).
func (h *Headers) Del(key string) {
	lk := strings.ToLower(key)
	out := h.fields[:0]
	for _, f := range h.fields {
		if strings.ToLower(f.key) != lk {
			out = append(out, f)
		}
	}
	h.fields = out
}

// Len reports the total number of stored fields, counting duplicates.
func (h *Headers) Len() int { return len(h.fields) }

// Range calls fn for every field in insertion order, stopping early if fn
// returns false.
func (h *Headers) Range(fn func(key, value string) bool) {
	for _, f := range h.fields {
		if !fn(f.key, f.value) {
			return
		}
	}
}

// Reset discards every stored field.
func (h *Headers) Reset() { h.fields = h.fields[:0] }
