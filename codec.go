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

// Codec carries the two tunable wire ceilings: the maximum length of a
// bytes/str payload and the maximum number of elements in a list. A
// Record's Marshal/Unmarshal methods use DefaultCodec; MarshalWith and
// UnmarshalWith take an explicit Codec for callers that need tighter (or
// looser) limits than the wire format's defaults.
type Codec struct {
	MaxSize int
	ListMax int
}

// Option configures a Codec built by NewCodec.
type Option func(*Codec)

// WithMaxSize overrides the maximum bytes/str payload length.
func WithMaxSize(n int) Option {
	return func(c *Codec) { c.MaxSize = n }
}

// WithListMax overrides the maximum list element count.
func WithListMax(n int) Option {
	return func(c *Codec) { c.ListMax = n }
}

// NewCodec returns a Codec starting from the spec-mandated defaults and
// applying opts in order.
func NewCodec(opts ...Option) *Codec {
	c := &Codec{MaxSize: MaxSize, ListMax: ListMax}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// DefaultCodec enforces exactly the wire format's mandated ceilings.
var DefaultCodec = NewCodec()
