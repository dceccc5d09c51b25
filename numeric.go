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
	"encoding/binary"
	"fmt"
	"math"
)

// powerOfTwo returns 1<<power. Negative powers have no meaning here.
func powerOfTwo(power uint) (uint64, error) {
	if power > 63 {
		return 0, fmt.Errorf("%w: power of two exponent %d out of range", ErrArithmetic, power)
	}
	return uint64(1) << power, nil
}

// complementaryMask returns the bits of a powerBits-wide unsigned value
// that lie at or above bit `power`: the mask used to detect whether a
// value needs the "flat" (fixed-width) wire encoding instead of the
// "compressed" (varint) one. powerBits may be 64 (the full width of a
// uint64) even though powerOfTwo itself cannot represent 1<<64; that
// width is handled directly instead of routed through powerOfTwo.
func complementaryMask(power, powerBits uint) (uint64, error) {
	if power > powerBits {
		return 0, fmt.Errorf("%w: mask power %d exceeds width %d", ErrArithmetic, power, powerBits)
	}

	var widthMask uint64
	if powerBits >= 64 {
		widthMask = ^uint64(0)
	} else {
		full, err := powerOfTwo(powerBits)
		if err != nil {
			return 0, err
		}
		widthMask = full - 1
	}

	lower, err := powerOfTwo(power)
	if err != nil {
		return 0, err
	}
	return widthMask - (lower - 1), nil
}

// zigzag32 maps a signed int32 to an unsigned int32 so that small
// magnitudes (positive or negative) encode as small varints.
func zigzag32(v int32) uint32 {
	return (uint32(v) << 1) ^ uint32(v>>31)
}

func unzigzag32(v uint32) int32 {
	return int32(v>>1) ^ -int32(v&1)
}

func zigzag64(v int64) uint64 {
	return (uint64(v) << 1) ^ uint64(v>>63)
}

func unzigzag64(v uint64) int64 {
	return int64(v>>1) ^ -int64(v&1)
}

func float32ToBytes(v float32) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, math.Float32bits(v))
	return b
}

func bytesToFloat32(b []byte) float32 {
	return math.Float32frombits(binary.BigEndian.Uint32(b))
}

func float64ToBytes(v float64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, math.Float64bits(v))
	return b
}

func bytesToFloat64(b []byte) float64 {
	return math.Float64frombits(binary.BigEndian.Uint64(b))
}
