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

const (
	// MaxIndex bounds the wire index: declared fields occupy indices
	// 0..MaxIndex-1, and MaxIndex itself is never assigned to a field.
	MaxIndex = 127
	// MaxSize bounds the length of bytes and str payloads, in bytes.
	MaxSize = 16 * 1024 * 1024
	// ListMax bounds the number of elements in a list.
	ListMax = 65536

	// endOfRecord terminates every encoded record. It equals the tag of
	// an unflagged field at index MaxIndex; it never collides with a real
	// tag because Record.canAppend never assigns index MaxIndex.
	endOfRecord byte = 0x7f

	// indexMask isolates the low 7 bits of a tag byte (the wire index).
	indexMask byte = 0x7f
	// flagBit is bit 7 of a tag byte: compression/sign/flat, per type.
	flagBit byte = 0x80
)
