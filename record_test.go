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
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeclareSetsWireOrder(t *testing.T) {
	r := NewRecord()
	require.NoError(t, r.Declare("a", "int32", ""))
	require.NoError(t, r.Declare("b", "str", ""))
	require.NoError(t, r.Declare("c", "list", "int32"))

	views := r.Iterate()
	require.Len(t, views, 3)
	require.Equal(t, "a", views[0].Name)
	require.Equal(t, "b", views[1].Name)
	require.Equal(t, "c", views[2].Name)
	require.Equal(t, Int32, views[2].SubKind)
}

func TestDeclareDuplicateNameFails(t *testing.T) {
	r := NewRecord()
	require.NoError(t, r.Declare("a", "int32", ""))
	err := r.Declare("a", "str", "")
	require.ErrorIs(t, err, ErrAlreadyDeclared)
}

func TestDeclareListRequiresSubType(t *testing.T) {
	r := NewRecord()
	err := r.Declare("a", "list", "")
	require.ErrorIs(t, err, ErrBadType)
}

func TestDeclareScalarRejectsSubType(t *testing.T) {
	r := NewRecord()
	err := r.Declare("a", "int32", "int32")
	require.ErrorIs(t, err, ErrBadType)
}

func TestDeclareObjectRequiresTemplate(t *testing.T) {
	r := NewRecord()
	err := r.Declare("a", "object", "")
	require.ErrorIs(t, err, ErrBadType)
}

func TestSetAutoDeclaresOnFirstUse(t *testing.T) {
	r := NewRecord()
	require.NoError(t, r.Set("x", int32(5)))

	v, err := r.Get("x")
	require.NoError(t, err)
	require.Equal(t, int32(5), v)
	require.Equal(t, 1, r.Len())
}

func TestSetAutoDeclareThenOrderFixed(t *testing.T) {
	r := NewRecord()
	require.NoError(t, r.Set("x", int32(1)))
	require.NoError(t, r.Set("y", int32(2)))
	views := r.Iterate()
	require.Equal(t, []string{"x", "y"}, []string{views[0].Name, views[1].Name})
}

func TestSetTypeMismatchRejected(t *testing.T) {
	r := NewRecord()
	require.NoError(t, r.Declare("a", "int32", ""))
	err := r.Set("a", "not an int32")
	require.ErrorIs(t, err, ErrTypeMismatch)
}

func TestSetIsIdempotent(t *testing.T) {
	r := NewRecord()
	require.NoError(t, r.Set("a", int32(1)))
	require.NoError(t, r.Set("a", int32(2)))
	v, err := r.Get("a")
	require.NoError(t, err)
	require.Equal(t, int32(2), v)
	require.Equal(t, 1, r.Len())
}

func TestGetUnknownField(t *testing.T) {
	r := NewRecord()
	_, err := r.Get("missing")
	require.ErrorIs(t, err, ErrUnknown)
}

func TestDeleteAlwaysUnsupported(t *testing.T) {
	r := NewRecord()
	require.NoError(t, r.Set("a", int32(1)))
	require.ErrorIs(t, r.Delete("a"), ErrUnsupported)
}

func TestFieldCountCeiling(t *testing.T) {
	r := NewRecord()
	for i := 0; i < MaxIndex; i++ {
		require.NoError(t, r.Set(fmt.Sprintf("f%d", i), int32(i)))
	}
	err := r.Set("one-too-many", int32(0))
	require.ErrorIs(t, err, ErrBadType)
}

func TestEqualComparesSchemaAndValues(t *testing.T) {
	a := NewRecord()
	require.NoError(t, a.Set("x", int32(1)))
	b := NewRecord()
	require.NoError(t, b.Set("x", int32(1)))
	require.True(t, a.Equal(b))

	require.NoError(t, b.Set("x", int32(2)))
	require.False(t, a.Equal(b))
}

func TestEqualDetectsDifferentSchema(t *testing.T) {
	a := NewRecord()
	require.NoError(t, a.Set("x", int32(1)))
	b := NewRecord()
	require.NoError(t, b.Set("y", int32(1)))
	require.False(t, a.Equal(b))
}

func TestSchemaHashStableForSameSchema(t *testing.T) {
	a := NewRecord()
	require.NoError(t, a.Declare("x", "int32", ""))
	require.NoError(t, a.Declare("y", "str", ""))

	b := NewRecord()
	require.NoError(t, b.Declare("x", "int32", ""))
	require.NoError(t, b.Declare("y", "str", ""))

	require.Equal(t, a.SchemaHash(), b.SchemaHash())

	c := NewRecord()
	require.NoError(t, c.Declare("x", "int32", ""))
	require.NotEqual(t, a.SchemaHash(), c.SchemaHash())
}

func TestNestedObjectMustMatchTemplateSchema(t *testing.T) {
	template := NewRecord()
	require.NoError(t, template.Declare("inner", "int32", ""))

	outer := NewRecord()
	require.NoError(t, outer.Declare("nested", "object", "", template))

	good := NewRecord()
	require.NoError(t, good.Declare("inner", "int32", ""))
	require.NoError(t, outer.Set("nested", good))

	mismatched := NewRecord()
	require.NoError(t, mismatched.Declare("inner", "str", ""))
	err := outer.Set("nested", mismatched)
	require.ErrorIs(t, err, ErrTypeMismatch)
}

func TestEmptyLikeClonesSchemaWithZeroValues(t *testing.T) {
	r := NewRecord()
	require.NoError(t, r.Set("x", int32(5)))
	require.NoError(t, r.Set("y", "hello"))

	clone := r.emptyLike()
	require.Equal(t, r.Len(), clone.Len())
	v, err := clone.Get("x")
	require.NoError(t, err)
	require.Equal(t, int32(0), v)
	v, err = clone.Get("y")
	require.NoError(t, err)
	require.Equal(t, "", v)
}
