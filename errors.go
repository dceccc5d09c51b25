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

import "errors"

// Error taxonomy. Container errors leave the record's state unchanged;
// codec errors leave the caller's buffer position undefined.
var (
	ErrUnknown         = errors.New("colfer: unknown field")
	ErrAlreadyDeclared = errors.New("colfer: field already declared")
	ErrBadType         = errors.New("colfer: bad type")
	ErrTypeMismatch    = errors.New("colfer: type mismatch")
	ErrUnsupported     = errors.New("colfer: unsupported operation")
	ErrBufferOverrun   = errors.New("colfer: buffer overrun")
	ErrMalformed       = errors.New("colfer: malformed data")
	ErrArithmetic      = errors.New("colfer: arithmetic error")
)
