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
	"fmt"
	"time"
	"unicode/utf8"
)

// Kind is the closed set of wire types a field may hold.
type Kind uint8

const (
	Bool Kind = iota
	Uint8
	Uint16
	Int32
	Uint32
	Int64
	Uint64
	Float32
	Float64
	Datetime
	Bytes
	Str
	List
	Object
)

func (k Kind) String() string {
	switch k {
	case Bool:
		return "bool"
	case Uint8:
		return "uint8"
	case Uint16:
		return "uint16"
	case Int32:
		return "int32"
	case Uint32:
		return "uint32"
	case Int64:
		return "int64"
	case Uint64:
		return "uint64"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case Datetime:
		return "datetime"
	case Bytes:
		return "bytes"
	case Str:
		return "str"
	case List:
		return "list"
	case Object:
		return "object"
	default:
		return "unknown"
	}
}

// canonicalNames maps a type's canonical wire name to its Kind.
var canonicalNames = map[string]Kind{
	"bool":     Bool,
	"uint8":    Uint8,
	"uint16":   Uint16,
	"int32":    Int32,
	"uint32":   Uint32,
	"int64":    Int64,
	"uint64":   Uint64,
	"float32":  Float32,
	"float64":  Float64,
	"datetime": Datetime,
	"bytes":    Bytes,
	"str":      Str,
	"list":     List,
	"object":   Object,
}

// aliases maps a non-canonical spelling to its canonical wire name.
var aliases = map[string]string{
	"int":       "int32",
	"long":      "int64",
	"float":     "float32",
	"double":    "float64",
	"binary":    "bytes",
	"text":      "str",
	"timestamp": "datetime",
}

// listElemKinds is the subset of Kind permitted as a list element type.
var listElemKinds = map[Kind]bool{
	Int32:   true,
	Int64:   true,
	Float32: true,
	Float64: true,
	Bytes:   true,
	Str:     true,
	Object:  true,
}

// normalizeKind resolves a caller-supplied type name (possibly an
// alias) to its canonical Kind. An unknown name fails BadType.
func normalizeKind(name string) (Kind, error) {
	if canon, ok := aliases[name]; ok {
		name = canon
	}
	if kind, ok := canonicalNames[name]; ok {
		return kind, nil
	}
	return 0, fmt.Errorf("%w: unknown type name %q", ErrBadType, name)
}

// fits reports whether value belongs to the domain of kind (and, for
// List, whether every element belongs to the domain of subKind).
func fits(value interface{}, kind Kind, subKind Kind) bool {
	switch kind {
	case Bool:
		_, ok := value.(bool)
		return ok
	case Uint8:
		v, ok := value.(uint8)
		return ok && v <= 255
	case Uint16:
		v, ok := value.(uint16)
		return ok && v <= 65535
	case Int32:
		_, ok := value.(int32)
		return ok
	case Uint32:
		_, ok := value.(uint32)
		return ok
	case Int64:
		_, ok := value.(int64)
		return ok
	case Uint64:
		_, ok := value.(uint64)
		return ok
	case Float32:
		v, ok := value.(float32)
		return ok && !isNonFiniteFloat32(v)
	case Float64:
		v, ok := value.(float64)
		return ok && !isNonFiniteFloat64(v)
	case Datetime:
		t, ok := value.(time.Time)
		return ok && !t.Before(epoch)
	case Bytes:
		b, ok := value.([]byte)
		return ok && len(b) <= MaxSize
	case Str:
		s, ok := value.(string)
		return ok && utf8.ValidString(s) && len(s) <= MaxSize
	case List:
		elems, ok := value.([]interface{})
		if !ok || len(elems) > ListMax || !listElemKinds[subKind] {
			return false
		}
		for _, e := range elems {
			if !fits(e, subKind, 0) {
				return false
			}
		}
		return true
	case Object:
		if value == nil {
			return true
		}
		_, ok := value.(*Record)
		return ok
	default:
		return false
	}
}

func isNonFiniteFloat32(v float32) bool {
	f := float64(v)
	return f != f || f > 3.4028235e+38 || f < -3.4028235e+38
}

func isNonFiniteFloat64(v float64) bool {
	return v != v || v > 1.7976931348623157e+308 || v < -1.7976931348623157e+308
}

// epoch is the canonical zero instant for Datetime fields.
var epoch = time.Unix(0, 0).UTC()

// zero returns the canonical zero value for kind.
func zero(kind Kind) interface{} {
	switch kind {
	case Bool:
		return false
	case Uint8:
		return uint8(0)
	case Uint16:
		return uint16(0)
	case Int32:
		return int32(0)
	case Uint32:
		return uint32(0)
	case Int64:
		return int64(0)
	case Uint64:
		return uint64(0)
	case Float32:
		return float32(0)
	case Float64:
		return float64(0)
	case Datetime:
		return epoch
	case Bytes:
		return []byte(nil)
	case Str:
		return ""
	case List:
		return []interface{}(nil)
	case Object:
		return (*Record)(nil)
	default:
		return nil
	}
}

// isZero reports whether value is the canonical zero of kind, which by
// spec causes the field to be entirely absent on the wire.
func isZero(value interface{}, kind Kind) bool {
	switch kind {
	case Bool:
		return !value.(bool)
	case Uint8:
		return value.(uint8) == 0
	case Uint16:
		return value.(uint16) == 0
	case Int32:
		return value.(int32) == 0
	case Uint32:
		return value.(uint32) == 0
	case Int64:
		return value.(int64) == 0
	case Uint64:
		return value.(uint64) == 0
	case Float32:
		return value.(float32) == 0
	case Float64:
		return value.(float64) == 0
	case Datetime:
		t := value.(time.Time)
		return t.Unix() == 0 && t.Nanosecond() == 0
	case Bytes:
		b, _ := value.([]byte)
		return len(b) == 0
	case Str:
		s, _ := value.(string)
		return len(s) == 0
	case List:
		l, _ := value.([]interface{})
		return len(l) == 0
	case Object:
		r, _ := value.(*Record)
		return r == nil
	default:
		return false
	}
}

// inferKind derives the Kind (and, for lists, the element Kind) implied
// by the runtime type of value, for auto-declaration on first Set.
func inferKind(value interface{}) (kind Kind, subKind Kind, err error) {
	switch v := value.(type) {
	case bool:
		return Bool, 0, nil
	case uint8:
		return Uint8, 0, nil
	case uint16:
		return Uint16, 0, nil
	case int32:
		return Int32, 0, nil
	case uint32:
		return Uint32, 0, nil
	case int64:
		return Int64, 0, nil
	case uint64:
		return Uint64, 0, nil
	case float32:
		return Float32, 0, nil
	case float64:
		return Float64, 0, nil
	case time.Time:
		return Datetime, 0, nil
	case []byte:
		return Bytes, 0, nil
	case string:
		return Str, 0, nil
	case *Record:
		return Object, 0, nil
	case []interface{}:
		if len(v) == 0 {
			return 0, 0, fmt.Errorf("%w: cannot infer element type of an empty list", ErrBadType)
		}
		elemKind, _, err := inferKind(v[0])
		if err != nil {
			return 0, 0, err
		}
		if !listElemKinds[elemKind] {
			return 0, 0, fmt.Errorf("%w: %s is not a valid list element type", ErrBadType, elemKind)
		}
		return List, elemKind, nil
	default:
		return 0, 0, fmt.Errorf("%w: cannot infer a wire type for %T", ErrBadType, value)
	}
}
