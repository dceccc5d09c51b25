// Licensed to the Apache Software Foundation (ASF) under one
// or more contributor license agreements.  See the NOTICE file
// distributed with this work for additional information
// regarding copyright ownership.  The ASF licenses this file
// to you under the Apache License, Version 2.0 (the
// "License"); you may not use this file except in compliance
// with the License.  You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

package colfer

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"time"

	"github.com/spaolacci/murmur3"
)

// field is one declared record attribute: its wire type, the value it
// currently holds, and — for list fields — the element type. Object and
// List<Object> fields also carry a template: a sibling empty *Record of
// the nested shape, so the unmarshaller can manufacture a fresh
// same-schema container to decode into (spec §9, "recursive nested
// records").
type field struct {
	name     string
	kind     Kind
	subKind  Kind
	value    interface{}
	template *Record
}

// FieldView is a read-only snapshot of a declared field, in declaration
// order.
type FieldView struct {
	Name    string
	Kind    Kind
	SubKind Kind
	Value   interface{}
}

// Record is an insertion-ordered, schema-bearing container. Declaration
// order defines each field's wire index. A Record is created empty,
// populated by Declare/Set, and then either encoded or decoded into; its
// schema only ever grows.
type Record struct {
	fields []*field
	index  map[string]int
}

// NewRecord returns an empty record ready for declaration.
func NewRecord() *Record {
	return &Record{index: make(map[string]int)}
}

// canAppend enforces the field-count ceiling. Wire index MaxIndex
// (0x7F) is deliberately left unused: a present field whose type never
// sets the tag's flag bit (bool, float32/64, bytes, str, object) would
// otherwise emit a bare 0x7F tag indistinguishable from the
// end-of-record marker. Capping declared fields at MaxIndex (indices
// 0..MaxIndex-1) keeps every tag byte unambiguous.
func (r *Record) canAppend() error {
	if len(r.fields) >= MaxIndex {
		return fmt.Errorf("%w: record already holds the maximum %d fields", ErrBadType, MaxIndex)
	}
	return nil
}

// emptyLike returns a fresh, empty Record with the same declared schema
// (field names, kinds, sub-kinds and nested templates) as r but every
// value reset to its zero. Used to manufacture same-shape decode targets
// for nested object fields.
func (r *Record) emptyLike() *Record {
	clone := NewRecord()
	for _, f := range r.fields {
		var tmpl *Record
		if f.template != nil {
			tmpl = f.template.emptyLike()
		}
		nf := &field{name: f.name, kind: f.kind, subKind: f.subKind, template: tmpl, value: zero(f.kind)}
		clone.index[nf.name] = len(clone.fields)
		clone.fields = append(clone.fields, nf)
	}
	return clone
}

// Declare appends a new field named name with the given (possibly
// aliased) type name. List fields require subKindName; Object and
// List<Object> fields additionally require exactly one template Record
// describing the nested shape.
func (r *Record) Declare(name, kindName, subKindName string, template ...*Record) error {
	if _, exists := r.index[name]; exists {
		return fmt.Errorf("%w: %q", ErrAlreadyDeclared, name)
	}
	if err := r.canAppend(); err != nil {
		return err
	}

	kind, err := normalizeKind(kindName)
	if err != nil {
		return err
	}

	var subKind Kind
	if kind == List {
		if subKindName == "" {
			return fmt.Errorf("%w: list field %q requires a sub-type", ErrBadType, name)
		}
		subKind, err = normalizeKind(subKindName)
		if err != nil {
			return err
		}
		if !listElemKinds[subKind] {
			return fmt.Errorf("%w: %s is not a valid list element type", ErrBadType, subKind)
		}
	} else if subKindName != "" {
		return fmt.Errorf("%w: field %q of type %s does not take a sub-type", ErrBadType, name, kind)
	}

	needsTemplate := kind == Object || (kind == List && subKind == Object)
	var tmpl *Record
	switch {
	case needsTemplate && len(template) != 1:
		return fmt.Errorf("%w: field %q needs exactly one nested-record template", ErrBadType, name)
	case !needsTemplate && len(template) != 0:
		return fmt.Errorf("%w: field %q does not take a nested-record template", ErrBadType, name)
	case needsTemplate:
		tmpl = template[0]
	}

	f := &field{name: name, kind: kind, subKind: subKind, template: tmpl, value: zero(kind)}
	r.index[name] = len(r.fields)
	r.fields = append(r.fields, f)
	return nil
}

// valueFits checks both the plain type/range predicate and, for nested
// record fields, that the value's schema matches the declared template.
func valueFits(value interface{}, f *field) bool {
	if !fits(value, f.kind, f.subKind) {
		return false
	}
	switch {
	case f.kind == Object:
		rec, _ := value.(*Record)
		if rec != nil && f.template != nil && rec.SchemaHash() != f.template.SchemaHash() {
			return false
		}
	case f.kind == List && f.subKind == Object:
		elems, _ := value.([]interface{})
		for _, e := range elems {
			rec, ok := e.(*Record)
			if !ok || rec == nil {
				continue
			}
			if f.template != nil && rec.SchemaHash() != f.template.SchemaHash() {
				return false
			}
		}
	}
	return true
}

// Set assigns value to name. A previously-declared name is type-checked
// against its stored type; an unseen name is auto-declared with the type
// inferred from value's runtime kind. A failed type check leaves the
// field (or, for a new name, the whole record) unchanged.
func (r *Record) Set(name string, value interface{}) error {
	if idx, ok := r.index[name]; ok {
		f := r.fields[idx]
		if !valueFits(value, f) {
			return fmt.Errorf("%w: field %q does not accept %T", ErrTypeMismatch, name, value)
		}
		f.value = value
		return nil
	}

	if err := r.canAppend(); err != nil {
		return err
	}

	kind, subKind, err := inferKind(value)
	if err != nil {
		return err
	}

	var tmpl *Record
	switch {
	case kind == Object:
		tmpl, _ = value.(*Record)
		if tmpl == nil {
			return fmt.Errorf("%w: cannot auto-declare field %q from a nil object", ErrBadType, name)
		}
	case kind == List && subKind == Object:
		elems, _ := value.([]interface{})
		tmpl, _ = elems[0].(*Record)
		if tmpl == nil {
			return fmt.Errorf("%w: cannot auto-declare field %q from a nil first element", ErrBadType, name)
		}
	}

	f := &field{name: name, kind: kind, subKind: subKind, template: tmpl}
	if !valueFits(value, f) {
		return fmt.Errorf("%w: field %q does not accept %T", ErrTypeMismatch, name, value)
	}
	f.value = value
	r.index[name] = len(r.fields)
	r.fields = append(r.fields, f)
	return nil
}

// Get returns the current value of a declared field.
func (r *Record) Get(name string) (interface{}, error) {
	idx, ok := r.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknown, name)
	}
	return r.fields[idx].value, nil
}

// Delete always fails: declared fields cannot be removed.
func (r *Record) Delete(name string) error {
	return fmt.Errorf("%w: field deletion is not supported", ErrUnsupported)
}

// Iterate returns a snapshot of every declared field in declaration
// (wire index) order.
func (r *Record) Iterate() []FieldView {
	views := make([]FieldView, len(r.fields))
	for i, f := range r.fields {
		views[i] = FieldView{Name: f.name, Kind: f.kind, SubKind: f.subKind, Value: f.value}
	}
	return views
}

// Len returns the number of declared fields.
func (r *Record) Len() int { return len(r.fields) }

// Equal reports whether r and other declare the same fields, in the
// same order, with the same (or recursively equal) values.
func (r *Record) Equal(other *Record) bool {
	if r == other {
		return true
	}
	if r == nil || other == nil {
		return false
	}
	if len(r.fields) != len(other.fields) {
		return false
	}
	for i, f := range r.fields {
		g := other.fields[i]
		if f.name != g.name || f.kind != g.kind || f.subKind != g.subKind {
			return false
		}
		if !valuesEqual(f.value, g.value, f.kind, f.subKind) {
			return false
		}
	}
	return true
}

func valuesEqual(a, b interface{}, kind, subKind Kind) bool {
	switch kind {
	case Object:
		ra, _ := a.(*Record)
		rb, _ := b.(*Record)
		if ra == nil || rb == nil {
			return ra == nil && rb == nil
		}
		return ra.Equal(rb)
	case List:
		la, _ := a.([]interface{})
		lb, _ := b.([]interface{})
		if len(la) != len(lb) {
			return false
		}
		for i := range la {
			if !valuesEqual(la[i], lb[i], subKind, 0) {
				return false
			}
		}
		return true
	case Bytes:
		ba, _ := a.([]byte)
		bb, _ := b.([]byte)
		return bytes.Equal(ba, bb)
	case Datetime:
		ta, _ := a.(time.Time)
		tb, _ := b.(time.Time)
		return ta.Unix() == tb.Unix() && ta.Nanosecond()/1000 == tb.Nanosecond()/1000
	default:
		return a == b
	}
}

// SchemaHash fingerprints the record's schema — declared field names,
// kinds and sub-kinds, in order, recursing into nested-record templates.
// It does not depend on current field values.
func (r *Record) SchemaHash() uint64 {
	h := murmur3.New64()
	for _, f := range r.fields {
		h.Write([]byte(f.name))
		h.Write([]byte{0})
		h.Write([]byte{byte(f.kind), byte(f.subKind)})
		if f.template != nil {
			var nested [8]byte
			binary.BigEndian.PutUint64(nested[:], f.template.SchemaHash())
			h.Write(nested[:])
		}
	}
	return h.Sum64()
}
