// Licensed to the Apache Software Foundation (ASF) under one
// or more contributor license agreements.  See the NOTICE file
// distributed with this work for additional information
// regarding copyright ownership.  The ASF licenses this file
// to you under the Apache License, Version 2.0 (the
// "License"); you may not use this file except in compliance
// with the License.  You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package kernels_test

import (
	"strings"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/suite"

	"github.com/seddonm1/arrow/compute/exec/kernels"
)

type StringKernelSuite struct {
	suite.Suite

	dt  arrow.DataType
	mem *memory.CheckedAllocator
}

func (s *StringKernelSuite) SetupTest() {
	s.mem = memory.NewCheckedAllocator(memory.NewGoAllocator())
}

func (s *StringKernelSuite) TearDownTest() {
	s.mem.AssertSize(s.T(), 0)
}

func (s *StringKernelSuite) strs(json string) arrow.Array {
	arr, _, err := array.FromJSON(s.mem, s.dt, strings.NewReader(json))
	s.Require().NoError(err)
	return arr
}

func (s *StringKernelSuite) ints(json string) arrow.Array {
	arr, _, err := array.FromJSON(s.mem, arrow.PrimitiveTypes.Int64, strings.NewReader(json))
	s.Require().NoError(err)
	return arr
}

func (s *StringKernelSuite) assertArraysEqual(expected, actual arrow.Array) {
	s.Truef(array.Equal(expected, actual), "expected: %s\ngot: %s", expected, actual)
}

func (s *StringKernelSuite) TestConcatenateIdentity() {
	arr := s.strs(`["foo", null, "", "bar", null]`)
	defer arr.Release()

	out, err := kernels.Concatenate(s.mem, []arrow.Array{arr})
	s.Require().NoError(err)
	defer out.Release()

	s.assertArraysEqual(arr, out)
}

func (s *StringKernelSuite) TestConcatenateBinary() {
	left := s.strs(`["foo", "bar", null, "", "x"]`)
	defer left.Release()
	right := s.strs(`["bar", null, "baz", "", "y"]`)
	defer right.Release()
	expected := s.strs(`["foobar", null, null, "", "xy"]`)
	defer expected.Release()

	out, err := kernels.Concatenate(s.mem, []arrow.Array{left, right})
	s.Require().NoError(err)
	defer out.Release()

	s.assertArraysEqual(expected, out)
}

func (s *StringKernelSuite) TestConcatenateNary() {
	a := s.strs(`["a", "a", "a"]`)
	defer a.Release()
	b := s.strs(`["b", null, "b"]`)
	defer b.Release()
	c := s.strs(`["c", "c", "c"]`)
	defer c.Release()
	expected := s.strs(`["abc", null, "abc"]`)
	defer expected.Release()

	out, err := kernels.Concatenate(s.mem, []arrow.Array{a, b, c})
	s.Require().NoError(err)
	defer out.Release()

	s.assertArraysEqual(expected, out)
}

func (s *StringKernelSuite) TestConcatenateNoArgs() {
	_, err := kernels.Concatenate(s.mem, nil)
	s.ErrorIs(err, arrow.ErrInvalid)
}

func (s *StringKernelSuite) TestConcatenateLengthMismatch() {
	left := s.strs(`["a", "b"]`)
	defer left.Release()
	right := s.strs(`["a", "b", "c"]`)
	defer right.Release()

	_, err := kernels.Concatenate(s.mem, []arrow.Array{left, right})
	s.ErrorIs(err, arrow.ErrInvalid)
}

func (s *StringKernelSuite) TestConcatenateTypeMismatch() {
	arr := s.ints(`[1, 2]`)
	defer arr.Release()

	_, err := kernels.Concatenate(s.mem, []arrow.Array{arr})
	s.ErrorIs(err, arrow.ErrType)
}

func (s *StringKernelSuite) TestConcatenateMixedOffsetWidths() {
	var other arrow.DataType = arrow.BinaryTypes.LargeString
	if s.dt.ID() == arrow.LARGE_STRING {
		other = arrow.BinaryTypes.String
	}

	left := s.strs(`["a", "b"]`)
	defer left.Release()
	right, _, err := array.FromJSON(s.mem, other, strings.NewReader(`["a", "b"]`))
	s.Require().NoError(err)
	defer right.Release()

	_, err = kernels.Concatenate(s.mem, []arrow.Array{left, right})
	s.ErrorIs(err, arrow.ErrType)
}

func (s *StringKernelSuite) TestLpadDefaultFill() {
	strs := s.strs(`["hello", "hi", "hi", null, "hi"]`)
	defer strs.Release()
	lengths := s.ints(`[3, 5, 0, 5, null]`)
	defer lengths.Release()
	expected := s.strs(`["hel", "   hi", "", null, null]`)
	defer expected.Release()

	out, err := kernels.Lpad(s.mem, []arrow.Array{strs, lengths})
	s.Require().NoError(err)
	defer out.Release()

	s.assertArraysEqual(expected, out)
}

func (s *StringKernelSuite) TestLpadNegativeLength() {
	strs := s.strs(`["hello", "hi"]`)
	defer strs.Release()
	lengths := s.ints(`[-1, -100]`)
	defer lengths.Release()
	expected := s.strs(`["", ""]`)
	defer expected.Release()

	out, err := kernels.Lpad(s.mem, []arrow.Array{strs, lengths})
	s.Require().NoError(err)
	defer out.Release()

	s.assertArraysEqual(expected, out)
}

func (s *StringKernelSuite) TestLpadWithFill() {
	strs := s.strs(`["hi", "hi", "hi", "hi", null, "hi"]`)
	defer strs.Release()
	lengths := s.ints(`[5, 5, 1, null, 5, 5]`)
	defer lengths.Release()
	fill := s.strs(`["xy", "", "z", "xy", "xy", null]`)
	defer fill.Release()
	expected := s.strs(`["xyxhi", "hi", "h", null, null, null]`)
	defer expected.Release()

	out, err := kernels.Lpad(s.mem, []arrow.Array{strs, lengths, fill})
	s.Require().NoError(err)
	defer out.Release()

	s.assertArraysEqual(expected, out)
}

func (s *StringKernelSuite) TestLpadCharacterCounts() {
	strs := s.strs(`["日本語", "héllo", "日本"]`)
	defer strs.Release()
	lengths := s.ints(`[2, 2, 4]`)
	defer lengths.Release()
	fill := s.strs(`["あ", "あ", "あ"]`)
	defer fill.Release()
	expected := s.strs(`["日本", "hé", "ああ日本"]`)
	defer expected.Release()

	out, err := kernels.Lpad(s.mem, []arrow.Array{strs, lengths, fill})
	s.Require().NoError(err)
	defer out.Release()

	s.assertArraysEqual(expected, out)
}

func (s *StringKernelSuite) TestLpadArity() {
	strs := s.strs(`["hi"]`)
	defer strs.Release()
	lengths := s.ints(`[5]`)
	defer lengths.Release()

	_, err := kernels.Lpad(s.mem, []arrow.Array{strs})
	s.ErrorIs(err, arrow.ErrInvalid)

	_, err = kernels.Lpad(s.mem, []arrow.Array{strs, lengths, strs, strs})
	s.ErrorIs(err, arrow.ErrInvalid)
}

func (s *StringKernelSuite) TestLpadTypeMismatch() {
	strs := s.strs(`["hi", "hi"]`)
	defer strs.Release()
	badLengths := s.strs(`["5", "5"]`)
	defer badLengths.Release()

	_, err := kernels.Lpad(s.mem, []arrow.Array{strs, badLengths})
	s.ErrorIs(err, arrow.ErrType)

	lengths := s.ints(`[5, 5]`)
	defer lengths.Release()
	_, err = kernels.Lpad(s.mem, []arrow.Array{lengths, lengths})
	s.ErrorIs(err, arrow.ErrType)
}

func (s *StringKernelSuite) TestLower() {
	arr := s.strs(`["HeLLo", "ÀB", null, "already lower", ""]`)
	defer arr.Release()
	expected := s.strs(`["hello", "Àb", null, "already lower", ""]`)
	defer expected.Release()

	out, err := kernels.Lower(s.mem, arr)
	s.Require().NoError(err)
	defer out.Release()

	s.assertArraysEqual(expected, out)
}

func (s *StringKernelSuite) TestUpper() {
	arr := s.strs(`["HeLLo", "àb", null, ""]`)
	defer arr.Release()
	expected := s.strs(`["HELLO", "àB", null, ""]`)
	defer expected.Release()

	out, err := kernels.Upper(s.mem, arr)
	s.Require().NoError(err)
	defer out.Release()

	s.assertArraysEqual(expected, out)
}

func (s *StringKernelSuite) TestTrimVariants() {
	arr := s.strs(`["  hi  ", "hi", null, "\thi\n", "   "]`)
	defer arr.Release()

	tests := []struct {
		name     string
		fn       func(memory.Allocator, arrow.Array) (arrow.Array, error)
		expected string
	}{
		{"trim", kernels.Trim, `["hi", "hi", null, "hi", ""]`},
		{"ltrim", kernels.Ltrim, `["hi  ", "hi", null, "hi\n", ""]`},
		{"rtrim", kernels.Rtrim, `["  hi", "hi", null, "\thi", ""]`},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			expected := s.strs(tt.expected)
			defer expected.Release()

			out, err := tt.fn(s.mem, arr)
			s.Require().NoError(err)
			defer out.Release()

			s.assertArraysEqual(expected, out)
		})
	}
}

func (s *StringKernelSuite) TestUnaryTypeMismatch() {
	arr := s.ints(`[1]`)
	defer arr.Release()

	_, err := kernels.Trim(s.mem, arr)
	s.ErrorIs(err, arrow.ErrType)
}

func TestStringKernels(t *testing.T) {
	for _, dt := range []arrow.DataType{arrow.BinaryTypes.String, arrow.BinaryTypes.LargeString} {
		t.Run(dt.String(), func(t *testing.T) {
			suite.Run(t, &StringKernelSuite{dt: dt})
		})
	}
}
