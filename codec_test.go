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

func TestDefaultCodecMatchesWireConstants(t *testing.T) {
	require.Equal(t, MaxSize, DefaultCodec.MaxSize)
	require.Equal(t, ListMax, DefaultCodec.ListMax)
}

func TestNewCodecAppliesOptions(t *testing.T) {
	c := NewCodec(WithMaxSize(64), WithListMax(8))
	require.Equal(t, 64, c.MaxSize)
	require.Equal(t, 8, c.ListMax)
}

func TestNewCodecDefaultsWithNoOptions(t *testing.T) {
	c := NewCodec()
	require.Equal(t, MaxSize, c.MaxSize)
	require.Equal(t, ListMax, c.ListMax)
}
