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

package kernels

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/seddonm1/arrow/compute/exec/functions"
	"github.com/seddonm1/arrow/internal/debug"
)

// StringArray is the read-only view the kernels consume string
// columns through, letting kernel bodies be written once for both
// the utf8 (32-bit offset) and large_utf8 (64-bit offset) layouts.
// *array.String and *array.LargeString both satisfy it.
type StringArray interface {
	arrow.Array
	Value(i int) string
}

// stringBuilder pairs StringArray on the output side. Satisfied by
// *array.StringBuilder and *array.LargeStringBuilder.
type stringBuilder interface {
	array.Builder
	Append(string)
}

func newStringBuilder(mem memory.Allocator, dt arrow.DataType) stringBuilder {
	if dt.ID() == arrow.LARGE_STRING {
		return array.NewLargeStringBuilder(mem)
	}
	return array.NewStringBuilder(mem)
}

// viewString attempts to view arg as a string array of either offset
// width, failing with a type-mismatch error naming op.
func viewString(op string, arg arrow.Array) (StringArray, error) {
	switch arr := arg.(type) {
	case *array.String:
		return arr, nil
	case *array.LargeString:
		return arr, nil
	}
	return nil, fmt.Errorf("%w: %s expects a utf8 or large_utf8 array, got %s",
		arrow.ErrType, op, arg.DataType())
}

// viewStringWidth is viewString constrained to a specific offset
// width: all string operands of one invocation must agree.
func viewStringWidth(op string, arg arrow.Array, width arrow.Type) (StringArray, error) {
	v, err := viewString(op, arg)
	if err != nil {
		return nil, err
	}
	if arg.DataType().ID() != width {
		return nil, fmt.Errorf("%w: %s arguments must share one offset width, got %s and %s",
			arrow.ErrType, op, width, arg.DataType())
	}
	return v, nil
}

func viewInt64(op string, arg arrow.Array) (*array.Int64, error) {
	arr, ok := arg.(*array.Int64)
	if !ok {
		return nil, fmt.Errorf("%w: %s could not view length argument as int64, got %s",
			arrow.ErrType, op, arg.DataType())
	}
	return arr, nil
}

func checkSameLength(op string, args []arrow.Array) error {
	for _, a := range args[1:] {
		if a.Len() != args[0].Len() {
			return fmt.Errorf("%w: %s arguments must all be the same length, got %d and %d",
				arrow.ErrInvalid, op, args[0].Len(), a.Len())
		}
	}
	return nil
}

// Concatenate merges n >= 1 string arrays of one offset width
// position-wise. A row is null in the output iff it is null in any
// input; otherwise it is the argument-order concatenation of the
// input values.
func Concatenate(mem memory.Allocator, args []arrow.Array) (arrow.Array, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("%w: concatenate was called with 0 arguments, it requires at least 1",
			arrow.ErrInvalid)
	}
	if err := checkSameLength("concatenate", args); err != nil {
		return nil, err
	}

	width := args[0].DataType().ID()
	views := make([]StringArray, len(args))
	for i, a := range args {
		v, err := viewStringWidth("concatenate", a, width)
		if err != nil {
			return nil, err
		}
		views[i] = v
	}

	bldr := newStringBuilder(mem, args[0].DataType())
	defer bldr.Release()

	var sb strings.Builder
	for i := 0; i < views[0].Len(); i++ {
		sb.Reset()
		isNull := false
		for _, v := range views {
			if v.IsNull(i) {
				// short-circuit, the row is null regardless of the rest
				isNull = true
				break
			}
			sb.WriteString(v.Value(i))
		}
		if isNull {
			bldr.AppendNull()
		} else {
			bldr.Append(sb.String())
		}
	}
	return bldr.NewArray(), nil
}

// Lpad left-pads each string to a per-row target length. The
// 2-argument form (string, int64 length) pads with spaces; the
// 3-argument form (string, int64 length, string fill) cycles the
// row's fill pattern. A row is null if the string, length or fill is
// null at that row.
func Lpad(mem memory.Allocator, args []arrow.Array) (arrow.Array, error) {
	switch len(args) {
	case 2, 3:
	default:
		return nil, fmt.Errorf("%w: lpad was called with %d arguments, it requires 2 or 3",
			arrow.ErrInvalid, len(args))
	}
	if err := checkSameLength("lpad", args); err != nil {
		return nil, err
	}

	str, err := viewString("lpad", args[0])
	if err != nil {
		return nil, err
	}
	lengths, err := viewInt64("lpad", args[1])
	if err != nil {
		return nil, err
	}

	var fill StringArray
	if len(args) == 3 {
		fill, err = viewStringWidth("lpad", args[2], args[0].DataType().ID())
		if err != nil {
			return nil, err
		}
	}

	bldr := newStringBuilder(mem, args[0].DataType())
	defer bldr.Release()

	for i := 0; i < str.Len(); i++ {
		if str.IsNull(i) || lengths.IsNull(i) || (fill != nil && fill.IsNull(i)) {
			bldr.AppendNull()
			continue
		}

		pattern := " "
		if fill != nil {
			pattern = fill.Value(i)
		}
		bldr.Append(padLeft(str.Value(i), lengths.Value(i), pattern))
	}
	return bldr.NewArray(), nil
}

// padLeft normalizes s to length characters. Counts are rune-based
// so multi-byte text truncates and pads correctly. Negative lengths
// are treated as zero. An empty fill leaves s unchanged even when it
// is shorter than length.
func padLeft(s string, length int64, fill string) string {
	if length <= 0 {
		return ""
	}

	runes := []rune(s)
	n := int64(len(runes))
	if length < n {
		return string(runes[:length])
	}
	if length == n || fill == "" {
		return s
	}

	pattern := []rune(fill)
	var sb strings.Builder
	sb.Grow(len(s) + int(length-n))
	for i := int64(0); i < length-n; i++ {
		sb.WriteRune(pattern[i%int64(len(pattern))])
	}
	sb.WriteString(s)
	return sb.String()
}

// stringTransform is the per-value mapping applied by a unary string
// kernel.
type stringTransform func(string) string

func stringUnary(mem memory.Allocator, op string, arg arrow.Array, transform stringTransform) (arrow.Array, error) {
	str, err := viewString(op, arg)
	if err != nil {
		return nil, err
	}

	bldr := newStringBuilder(mem, arg.DataType())
	defer bldr.Release()

	for i := 0; i < str.Len(); i++ {
		if str.IsNull(i) {
			bldr.AppendNull()
			continue
		}
		bldr.Append(transform(str.Value(i)))
	}
	return bldr.NewArray(), nil
}

// asciiLower and asciiUpper map ASCII letters only; other bytes pass
// through untouched. Multi-byte runes never contain bytes in the
// ASCII letter range, so the byte-wise map is utf8 safe.
func asciiLower(s string) string {
	b := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		b[i] = c
	}
	return string(b)
}

func asciiUpper(s string) string {
	b := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		b[i] = c
	}
	return string(b)
}

func trimLeading(s string) string {
	return strings.TrimLeftFunc(s, unicode.IsSpace)
}

func trimTrailing(s string) string {
	return strings.TrimRightFunc(s, unicode.IsSpace)
}

// Lower lowercases the ASCII letters of each value.
func Lower(mem memory.Allocator, arg arrow.Array) (arrow.Array, error) {
	return stringUnary(mem, "lower", arg, asciiLower)
}

// Upper uppercases the ASCII letters of each value.
func Upper(mem memory.Allocator, arg arrow.Array) (arrow.Array, error) {
	return stringUnary(mem, "upper", arg, asciiUpper)
}

// Trim removes leading and trailing whitespace from each value.
func Trim(mem memory.Allocator, arg arrow.Array) (arrow.Array, error) {
	return stringUnary(mem, "trim", arg, strings.TrimSpace)
}

// Ltrim removes leading whitespace from each value.
func Ltrim(mem memory.Allocator, arg arrow.Array) (arrow.Array, error) {
	return stringUnary(mem, "ltrim", arg, trimLeading)
}

// Rtrim removes trailing whitespace from each value.
func Rtrim(mem memory.Allocator, arg arrow.Array) (arrow.Array, error) {
	return stringUnary(mem, "rtrim", arg, trimTrailing)
}

var (
	stringWidths = []arrow.DataType{arrow.BinaryTypes.String, arrow.BinaryTypes.LargeString}

	concatDoc = functions.FunctionDoc{
		Summary:  "Concatenate string arrays position-wise",
		Desc:     "Null in any input nulls the output row.",
		ArgNames: []string{"strings..."},
	}
	lpadDoc = functions.FunctionDoc{
		Summary:  "Left-pad strings to a target length",
		Desc:     "Pads with spaces, or cycles the fill pattern when given. Longer strings are truncated on the right.",
		ArgNames: []string{"strings", "lengths", "fill"},
	}
	unaryDocs = map[string]functions.FunctionDoc{
		"lower": {Summary: "Lowercase ASCII letters", ArgNames: []string{"strings"}},
		"upper": {Summary: "Uppercase ASCII letters", ArgNames: []string{"strings"}},
		"trim":  {Summary: "Remove leading and trailing whitespace", ArgNames: []string{"strings"}},
		"ltrim": {Summary: "Remove leading whitespace", ArgNames: []string{"strings"}},
		"rtrim": {Summary: "Remove trailing whitespace", ArgNames: []string{"strings"}},
	}
)

func concatenateExec(ctx *functions.KernelCtx, args []arrow.Array) (arrow.Array, error) {
	return Concatenate(ctx.Allocator(), args)
}

func lpadExec(ctx *functions.KernelCtx, args []arrow.Array) (arrow.Array, error) {
	return Lpad(ctx.Allocator(), args)
}

// RegisterStringKernels adds the string kernel family to reg, one
// kernel per offset-width specialization.
func RegisterStringKernels(reg *functions.FunctionRegistry) {
	concat := functions.NewScalarFunction("concatenate", functions.VarArgs(1), concatDoc)
	for _, dt := range stringWidths {
		err := concat.AddNewKernel([]functions.InputType{functions.NewExactInput(dt)},
			functions.NewOutputType(dt), concatenateExec)
		debug.Assert(err == nil, "failed adding concatenate kernel")
	}
	err := reg.AddFunction(&concat, false)
	debug.Assert(err == nil, "failed registering concatenate")
	err = reg.AddAlias("concat", "concatenate")
	debug.Assert(err == nil, "failed adding concat alias")

	lpad := functions.NewScalarFunction("lpad", functions.Between(2, 3), lpadDoc)
	for _, dt := range stringWidths {
		strIn := functions.NewExactInput(dt)
		lenIn := functions.NewExactInput(arrow.PrimitiveTypes.Int64)
		out := functions.NewOutputType(dt)
		err := lpad.AddNewKernel([]functions.InputType{strIn, lenIn}, out, lpadExec)
		debug.Assert(err == nil, "failed adding lpad kernel")
		err = lpad.AddNewKernel([]functions.InputType{strIn, lenIn, strIn}, out, lpadExec)
		debug.Assert(err == nil, "failed adding lpad kernel")
	}
	err = reg.AddFunction(&lpad, false)
	debug.Assert(err == nil, "failed registering lpad")

	unaryTransforms := []struct {
		name      string
		transform stringTransform
	}{
		{"lower", asciiLower},
		{"upper", asciiUpper},
		{"trim", strings.TrimSpace},
		{"ltrim", trimLeading},
		{"rtrim", trimTrailing},
	}
	for _, t := range unaryTransforms {
		op, transform := t.name, t.transform
		fn := functions.NewScalarFunction(op, functions.Unary(), unaryDocs[op])
		exec := func(ctx *functions.KernelCtx, args []arrow.Array) (arrow.Array, error) {
			return stringUnary(ctx.Allocator(), op, args[0], transform)
		}
		for _, dt := range stringWidths {
			err := fn.AddNewKernel([]functions.InputType{functions.NewExactInput(dt)},
				functions.NewOutputType(dt), exec)
			debug.Assert(err == nil, "failed adding unary string kernel")
		}
		err := reg.AddFunction(&fn, false)
		debug.Assert(err == nil, "failed registering unary string function")
	}
}
