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
)

// Size returns the exact number of bytes Marshal would produce, using
// DefaultCodec's wire ceilings.
func (r *Record) Size() (int, error) {
	return r.SizeWith(DefaultCodec)
}

// SizeWith is Size against an explicit Codec.
func (r *Record) SizeWith(c *Codec) (int, error) {
	var sc sizeCounter
	if err := r.encodeInto(&sc, c); err != nil {
		return 0, err
	}
	return sc.n, nil
}

// Marshal encodes r into a freshly allocated, exactly-sized buffer.
func (r *Record) Marshal() ([]byte, error) {
	return r.MarshalWith(DefaultCodec)
}

// MarshalWith is Marshal against an explicit Codec.
func (r *Record) MarshalWith(c *Codec) ([]byte, error) {
	n, err := r.SizeWith(c)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, n)
	if _, err := r.MarshalToWith(c, buf, 0); err != nil {
		return nil, err
	}
	return buf, nil
}

// MarshalTo encodes r into buf starting at offset, using DefaultCodec,
// and returns the offset just past the written bytes. The caller owns
// buf and must size it to at least offset+Size(); writing past its
// length fails BufferOverrun.
func (r *Record) MarshalTo(buf []byte, offset int) (int, error) {
	return r.MarshalToWith(DefaultCodec, buf, offset)
}

// MarshalToWith is MarshalTo against an explicit Codec.
func (r *Record) MarshalToWith(c *Codec, buf []byte, offset int) (int, error) {
	w := NewByteBuffer(buf, offset)
	if err := r.encodeInto(w, c); err != nil {
		return 0, err
	}
	return w.Offset(), nil
}

// encodeInto writes every declared field, in declaration order, followed
// by exactly one end-of-record marker. It is shared by the top-level
// Marshal path, by nested Object fields, and by Size's sizeCounter pass.
func (r *Record) encodeInto(w wireWriter, c *Codec) error {
	for i, f := range r.fields {
		if err := encodeField(w, c, i, f); err != nil {
			return err
		}
	}
	return w.WriteByte(endOfRecord)
}

func encodeField(w wireWriter, c *Codec, index int, f *field) error {
	switch f.kind {
	case Bool:
		return encodeBool(w, index, f.value.(bool))
	case Uint8:
		return encodeUint8(w, index, f.value.(uint8))
	case Uint16:
		return encodeUint16(w, index, f.value.(uint16))
	case Int32:
		return encodeInt32(w, index, f.value.(int32))
	case Uint32:
		return encodeUint32(w, index, f.value.(uint32))
	case Int64:
		return encodeInt64(w, index, f.value.(int64))
	case Uint64:
		return encodeUint64(w, index, f.value.(uint64))
	case Float32:
		return encodeFloat32(w, index, f.value.(float32))
	case Float64:
		return encodeFloat64(w, index, f.value.(float64))
	case Datetime:
		return encodeDatetime(w, index, f.value.(time.Time))
	case Bytes:
		return encodeBytes(w, c, index, f.value.([]byte))
	case Str:
		return encodeStr(w, c, index, f.value.(string))
	case List:
		return encodeList(w, c, index, f.subKind, f.value.([]interface{}))
	case Object:
		rec, _ := f.value.(*Record)
		return encodeObject(w, c, index, rec)
	default:
		return fmt.Errorf("%w: cannot encode field %q of kind %s", ErrBadType, f.name, f.kind)
	}
}

func encodeBool(w wireWriter, index int, value bool) error {
	if !value {
		return nil
	}
	return w.WriteByte(byte(index))
}

func encodeUint8(w wireWriter, index int, value uint8) error {
	if value == 0 {
		return nil
	}
	if err := w.WriteByte(byte(index)); err != nil {
		return err
	}
	return w.WriteByte(value)
}

func encodeUint16(w wireWriter, index int, value uint16) error {
	if value == 0 {
		return nil
	}
	if value < 256 {
		// Compressed: the flag bit means "payload is one byte".
		if err := w.WriteByte(byte(index) | flagBit); err != nil {
			return err
		}
		return w.WriteByte(byte(value))
	}
	if err := w.WriteByte(byte(index)); err != nil {
		return err
	}
	return w.WriteFixed(uint64(value), 2)
}

func encodeInt32(w wireWriter, index int, value int32) error {
	if value == 0 {
		return nil
	}
	mag := int64(value)
	tag := byte(index)
	if value < 0 {
		mag = -mag
		tag |= flagBit
	}
	if err := w.WriteByte(tag); err != nil {
		return err
	}
	return w.WriteVarUint(uint64(mag), 0)
}

func encodeInt64(w wireWriter, index int, value int64) error {
	if value == 0 {
		return nil
	}
	mag := value
	tag := byte(index)
	if value < 0 {
		mag = -mag
		tag |= flagBit
	}
	if err := w.WriteByte(tag); err != nil {
		return err
	}
	return w.WriteVarUint(uint64(mag), 8)
}

func encodeUint32(w wireWriter, index int, value uint32) error {
	if value == 0 {
		return nil
	}
	mask, err := complementaryMask(21, 32)
	if err != nil {
		return err
	}
	if uint64(value)&mask != 0 {
		if err := w.WriteByte(byte(index) | flagBit); err != nil {
			return err
		}
		return w.WriteFixed(uint64(value), 4)
	}
	if err := w.WriteByte(byte(index)); err != nil {
		return err
	}
	return w.WriteVarUint(uint64(value), 0)
}

func encodeUint64(w wireWriter, index int, value uint64) error {
	if value == 0 {
		return nil
	}
	mask, err := complementaryMask(49, 64)
	if err != nil {
		return err
	}
	if value&mask != 0 {
		if err := w.WriteByte(byte(index) | flagBit); err != nil {
			return err
		}
		return w.WriteFixed(value, 8)
	}
	if err := w.WriteByte(byte(index)); err != nil {
		return err
	}
	return w.WriteVarUint(value, 0)
}

func encodeFloat32(w wireWriter, index int, value float32) error {
	if value == 0 {
		return nil
	}
	if err := w.WriteByte(byte(index)); err != nil {
		return err
	}
	return w.WriteBytes(float32ToBytes(value))
}

func encodeFloat64(w wireWriter, index int, value float64) error {
	if value == 0 {
		return nil
	}
	if err := w.WriteByte(byte(index)); err != nil {
		return err
	}
	return w.WriteBytes(float64ToBytes(value))
}

func encodeDatetime(w wireWriter, index int, value time.Time) error {
	seconds := value.Unix()
	nanos := uint64(value.Nanosecond())
	if seconds == 0 && nanos == 0 {
		return nil
	}
	if uint64(seconds) <= 0xFFFFFFFF {
		if err := w.WriteByte(byte(index)); err != nil {
			return err
		}
		if err := w.WriteFixed(uint64(seconds), 4); err != nil {
			return err
		}
		return w.WriteFixed(nanos, 4)
	}
	if err := w.WriteByte(byte(index) | flagBit); err != nil {
		return err
	}
	if err := w.WriteFixed(uint64(seconds), 8); err != nil {
		return err
	}
	return w.WriteFixed(nanos, 4)
}

func encodeBytes(w wireWriter, c *Codec, index int, value []byte) error {
	n := len(value)
	if n == 0 {
		return nil
	}
	if n > c.MaxSize {
		return fmt.Errorf("%w: bytes length %d exceeds %d", ErrMalformed, n, c.MaxSize)
	}
	if err := w.WriteByte(byte(index)); err != nil {
		return err
	}
	if err := w.WriteVarUint(uint64(n), 0); err != nil {
		return err
	}
	return w.WriteBytes(value)
}

func encodeStr(w wireWriter, c *Codec, index int, value string) error {
	n := len(value)
	if n == 0 {
		return nil
	}
	if n > c.MaxSize {
		return fmt.Errorf("%w: str length %d exceeds %d", ErrMalformed, n, c.MaxSize)
	}
	if err := w.WriteByte(byte(index)); err != nil {
		return err
	}
	if err := w.WriteVarUint(uint64(n), 0); err != nil {
		return err
	}
	return w.WriteBytes([]byte(value))
}

func encodeObject(w wireWriter, c *Codec, index int, value *Record) error {
	if value == nil {
		return nil
	}
	if err := w.WriteByte(byte(index)); err != nil {
		return err
	}
	return value.encodeInto(w, c)
}

func encodeList(w wireWriter, c *Codec, index int, subKind Kind, value []interface{}) error {
	n := len(value)
	if n == 0 {
		return nil
	}
	if n > c.ListMax {
		return fmt.Errorf("%w: list length %d exceeds %d", ErrMalformed, n, c.ListMax)
	}
	if err := w.WriteByte(byte(index)); err != nil {
		return err
	}
	if err := w.WriteVarUint(uint64(n), 0); err != nil {
		return err
	}
	for _, e := range value {
		if err := encodeListElement(w, c, subKind, e); err != nil {
			return err
		}
	}
	return nil
}

func encodeListElement(w wireWriter, c *Codec, subKind Kind, e interface{}) error {
	switch subKind {
	case Int32:
		return w.WriteVarUint(uint64(zigzag32(e.(int32))), 0)
	case Int64:
		return w.WriteVarUint(zigzag64(e.(int64)), 8)
	case Float32:
		return w.WriteBytes(float32ToBytes(e.(float32)))
	case Float64:
		return w.WriteBytes(float64ToBytes(e.(float64)))
	case Bytes:
		b := e.([]byte)
		if len(b) > c.MaxSize {
			return fmt.Errorf("%w: bytes length %d exceeds %d", ErrMalformed, len(b), c.MaxSize)
		}
		if err := w.WriteVarUint(uint64(len(b)), 0); err != nil {
			return err
		}
		return w.WriteBytes(b)
	case Str:
		s := e.(string)
		if len(s) > c.MaxSize {
			return fmt.Errorf("%w: str length %d exceeds %d", ErrMalformed, len(s), c.MaxSize)
		}
		if err := w.WriteVarUint(uint64(len(s)), 0); err != nil {
			return err
		}
		return w.WriteBytes([]byte(s))
	case Object:
		rec, _ := e.(*Record)
		if rec == nil {
			return fmt.Errorf("%w: list<object> element is nil", ErrTypeMismatch)
		}
		return rec.encodeInto(w, c)
	default:
		return fmt.Errorf("%w: unsupported list element kind %s", ErrBadType, subKind)
	}
}
