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
	"testing"

	"github.com/stretchr/testify/require"
)

func TestByteBufferWriteReadByte(t *testing.T) {
	buf := make([]byte, 4)
	w := NewByteBuffer(buf, 0)
	require.NoError(t, w.WriteByte(0x42))
	require.Equal(t, 1, w.Offset())

	r := NewByteBuffer(buf, 0)
	v, err := r.ReadByte()
	require.NoError(t, err)
	require.Equal(t, byte(0x42), v)
}

func TestByteBufferOverrun(t *testing.T) {
	buf := make([]byte, 1)
	w := NewByteBuffer(buf, 0)
	require.NoError(t, w.WriteByte(1))
	require.ErrorIs(t, w.WriteByte(2), ErrBufferOverrun)

	r := NewByteBuffer(buf, 1)
	_, err := r.ReadByte()
	require.ErrorIs(t, err, ErrBufferOverrun)
}

func TestByteBufferFixedWidthRoundTrip(t *testing.T) {
	buf := make([]byte, 8)
	w := NewByteBuffer(buf, 0)
	require.NoError(t, w.WriteFixed(0x0102030405060708, 8))

	r := NewByteBuffer(buf, 0)
	v, err := r.ReadFixed(8)
	require.NoError(t, err)
	require.Equal(t, uint64(0x0102030405060708), v)
}

func TestByteBufferVarUintRoundTrip(t *testing.T) {
	for _, v := range []uint64{0, 1, 127, 128, 16383, 16384, 300, 1 << 40} {
		buf := make([]byte, 16)
		w := NewByteBuffer(buf, 0)
		require.NoError(t, w.WriteVarUint(v, 0))
		n := w.Offset()

		r := NewByteBuffer(buf, 0)
		got, err := r.ReadVarUint(0)
		require.NoError(t, err)
		require.Equal(t, v, got, v)
		require.Equal(t, n, r.Offset())
	}
}

func TestByteBufferVarUintKnownEncoding(t *testing.T) {
	buf := make([]byte, 4)
	w := NewByteBuffer(buf, 0)
	require.NoError(t, w.WriteVarUint(300, 0))
	require.Equal(t, []byte{0xAC, 0x02}, buf[:w.Offset()])
}

func TestSizeCounterMatchesByteBuffer(t *testing.T) {
	values := []uint64{0, 1, 127, 128, 300, 1 << 40}
	for _, v := range values {
		buf := make([]byte, 16)
		w := NewByteBuffer(buf, 0)
		require.NoError(t, w.WriteVarUint(v, 0))

		var sc sizeCounter
		require.NoError(t, sc.WriteVarUint(v, 0))
		require.Equal(t, w.Offset(), sc.n, v)
	}
}

func TestByteBufferBytesPayload(t *testing.T) {
	buf := make([]byte, 8)
	w := NewByteBuffer(buf, 0)
	require.NoError(t, w.WriteBytes([]byte("hello")))

	r := NewByteBuffer(buf, 0)
	got, err := r.ReadBytes(5)
	require.NoError(t, err)
	require.Equal(t, []byte("hello"), got)
}
