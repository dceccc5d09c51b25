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

// Unmarshal decodes data into r, starting at offset 0, using
// DefaultCodec, and returns the number of bytes consumed. r must
// already carry the schema the encoder used (same field names, types
// and order); decoding assigns values by wire index into that schema.
func (r *Record) Unmarshal(data []byte) (int, error) {
	return r.UnmarshalWith(DefaultCodec, data, 0)
}

// UnmarshalWith is Unmarshal against an explicit Codec, starting at
// offset. It returns the offset just past the decoded record, not the
// number of bytes consumed.
func (r *Record) UnmarshalWith(c *Codec, data []byte, offset int) (int, error) {
	b := NewByteBuffer(data, offset)
	if err := r.decodeFrom(b, c); err != nil {
		return 0, err
	}
	return b.Offset(), nil
}

// decodeFrom reads one record's worth of tagged fields from b, assigns
// them onto r by wire index, and consumes the trailing end-of-record
// marker. It is shared by the top-level Unmarshal path and by nested
// Object fields.
func (r *Record) decodeFrom(b *ByteBuffer, c *Codec) error {
	for {
		tag, err := b.ReadByte()
		if err != nil {
			return err
		}
		if tag == endOfRecord {
			return nil
		}

		index := int(tag & indexMask)
		flagged := tag&flagBit != 0
		if index >= len(r.fields) {
			return fmt.Errorf("%w: wire index %d exceeds declared schema (%d fields)", ErrUnknown, index, len(r.fields))
		}
		f := r.fields[index]

		value, err := decodeField(b, c, f, flagged)
		if err != nil {
			return err
		}
		f.value = value
	}
}

func decodeField(b *ByteBuffer, c *Codec, f *field, flagged bool) (interface{}, error) {
	switch f.kind {
	case Bool:
		return true, nil
	case Uint8:
		return decodeUint8(b)
	case Uint16:
		return decodeUint16(b, flagged)
	case Int32:
		return decodeInt32(b, flagged)
	case Uint32:
		return decodeUint32(b, flagged)
	case Int64:
		return decodeInt64(b, flagged)
	case Uint64:
		return decodeUint64(b, flagged)
	case Float32:
		return decodeFloat32(b)
	case Float64:
		return decodeFloat64(b)
	case Datetime:
		return decodeDatetime(b, flagged)
	case Bytes:
		return decodeBytes(b, c)
	case Str:
		return decodeStr(b, c)
	case List:
		return decodeList(b, c, f)
	case Object:
		return decodeObject(b, c, f)
	default:
		return nil, fmt.Errorf("%w: cannot decode field %q of kind %s", ErrBadType, f.name, f.kind)
	}
}

func decodeUint8(b *ByteBuffer) (uint8, error) {
	v, err := b.ReadByte()
	if err != nil {
		return 0, err
	}
	return v, nil
}

func decodeUint16(b *ByteBuffer, flagged bool) (uint16, error) {
	if flagged {
		v, err := b.ReadByte()
		if err != nil {
			return 0, err
		}
		return uint16(v), nil
	}
	v, err := b.ReadFixed(2)
	if err != nil {
		return 0, err
	}
	return uint16(v), nil
}

func decodeInt32(b *ByteBuffer, negative bool) (int32, error) {
	mag, err := b.ReadVarUint(0)
	if err != nil {
		return 0, err
	}
	v := int32(mag)
	if negative {
		v = -v
	}
	return v, nil
}

func decodeInt64(b *ByteBuffer, negative bool) (int64, error) {
	mag, err := b.ReadVarUint(8)
	if err != nil {
		return 0, err
	}
	v := int64(mag)
	if negative {
		v = -v
	}
	return v, nil
}

func decodeUint32(b *ByteBuffer, flat bool) (uint32, error) {
	if flat {
		v, err := b.ReadFixed(4)
		if err != nil {
			return 0, err
		}
		return uint32(v), nil
	}
	v, err := b.ReadVarUint(0)
	if err != nil {
		return 0, err
	}
	return uint32(v), nil
}

func decodeUint64(b *ByteBuffer, flat bool) (uint64, error) {
	if flat {
		return b.ReadFixed(8)
	}
	return b.ReadVarUint(0)
}

func decodeFloat32(b *ByteBuffer) (float32, error) {
	raw, err := b.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return bytesToFloat32(raw), nil
}

func decodeFloat64(b *ByteBuffer) (float64, error) {
	raw, err := b.ReadBytes(8)
	if err != nil {
		return 0, err
	}
	return bytesToFloat64(raw), nil
}

func decodeDatetime(b *ByteBuffer, wide bool) (time.Time, error) {
	width := 4
	if wide {
		width = 8
	}
	seconds, err := b.ReadFixed(width)
	if err != nil {
		return time.Time{}, err
	}
	nanos, err := b.ReadFixed(4)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(int64(seconds), int64(nanos)).UTC(), nil
}

func decodeBytes(b *ByteBuffer, c *Codec) ([]byte, error) {
	n, err := b.ReadVarUint(0)
	if err != nil {
		return nil, err
	}
	if int(n) > c.MaxSize {
		return nil, fmt.Errorf("%w: bytes length %d exceeds %d", ErrMalformed, n, c.MaxSize)
	}
	return b.ReadBytes(int(n))
}

func decodeStr(b *ByteBuffer, c *Codec) (string, error) {
	n, err := b.ReadVarUint(0)
	if err != nil {
		return "", err
	}
	if int(n) > c.MaxSize {
		return "", fmt.Errorf("%w: str length %d exceeds %d", ErrMalformed, n, c.MaxSize)
	}
	raw, err := b.ReadBytes(int(n))
	if err != nil {
		return "", err
	}
	if !utf8.Valid(raw) {
		return "", fmt.Errorf("%w: str field is not valid UTF-8", ErrMalformed)
	}
	return string(raw), nil
}

func decodeObject(b *ByteBuffer, c *Codec, f *field) (*Record, error) {
	if f.template == nil {
		return nil, fmt.Errorf("%w: field %q has no nested-record template", ErrBadType, f.name)
	}
	nested := f.template.emptyLike()
	if err := nested.decodeFrom(b, c); err != nil {
		return nil, err
	}
	return nested, nil
}

func decodeList(b *ByteBuffer, c *Codec, f *field) ([]interface{}, error) {
	n, err := b.ReadVarUint(0)
	if err != nil {
		return nil, err
	}
	if int(n) > c.ListMax {
		return nil, fmt.Errorf("%w: list length %d exceeds %d", ErrMalformed, n, c.ListMax)
	}
	elems := make([]interface{}, n)
	for i := range elems {
		e, err := decodeListElement(b, c, f.subKind, f.template)
		if err != nil {
			return nil, err
		}
		elems[i] = e
	}
	return elems, nil
}

func decodeListElement(b *ByteBuffer, c *Codec, subKind Kind, template *Record) (interface{}, error) {
	switch subKind {
	case Int32:
		v, err := b.ReadVarUint(0)
		if err != nil {
			return nil, err
		}
		return unzigzag32(uint32(v)), nil
	case Int64:
		v, err := b.ReadVarUint(8)
		if err != nil {
			return nil, err
		}
		return unzigzag64(v), nil
	case Float32:
		return decodeFloat32(b)
	case Float64:
		return decodeFloat64(b)
	case Bytes:
		n, err := b.ReadVarUint(0)
		if err != nil {
			return nil, err
		}
		if int(n) > c.MaxSize {
			return nil, fmt.Errorf("%w: bytes length %d exceeds %d", ErrMalformed, n, c.MaxSize)
		}
		return b.ReadBytes(int(n))
	case Str:
		n, err := b.ReadVarUint(0)
		if err != nil {
			return nil, err
		}
		if int(n) > c.MaxSize {
			return nil, fmt.Errorf("%w: str length %d exceeds %d", ErrMalformed, n, c.MaxSize)
		}
		raw, err := b.ReadBytes(int(n))
		if err != nil {
			return nil, err
		}
		if !utf8.Valid(raw) {
			return nil, fmt.Errorf("%w: list<str> element is not valid UTF-8", ErrMalformed)
		}
		return string(raw), nil
	case Object:
		if template == nil {
			return nil, fmt.Errorf("%w: list<object> has no nested-record template", ErrBadType)
		}
		nested := template.emptyLike()
		if err := nested.decodeFrom(b, c); err != nil {
			return nil, err
		}
		return nested, nil
	default:
		return nil, fmt.Errorf("%w: unsupported list element kind %s", ErrBadType, subKind)
	}
}
