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

package functions

import (
	"errors"
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
)

// Arity describes the number of arguments a function accepts as an
// inclusive range. Max of -1 means var-args: any count >= Min.
type Arity struct {
	Min, Max int
}

func Nullary() Arity             { return Arity{0, 0} }
func Unary() Arity               { return Arity{1, 1} }
func Binary() Arity              { return Arity{2, 2} }
func Ternary() Arity             { return Arity{3, 3} }
func Between(min, max int) Arity { return Arity{min, max} }
func VarArgs(minargs int) Arity  { return Arity{minargs, -1} }

func (a Arity) String() string {
	switch {
	case a.Max < 0:
		return fmt.Sprintf("at least %d", a.Min)
	case a.Min == a.Max:
		return fmt.Sprintf("exactly %d", a.Min)
	default:
		return fmt.Sprintf("between %d and %d", a.Min, a.Max)
	}
}

type FunctionKind int8

const (
	FuncScalarKind FunctionKind = iota
	FuncVectorKind
)

type FunctionDoc struct {
	Summary  string
	Desc     string
	ArgNames []string
}

// Function is a named operation with a fixed arity that dispatches to
// one of a set of kernels based on the concrete input types.
type Function interface {
	Name() string
	Kind() FunctionKind
	Arity() Arity
	Doc() FunctionDoc
	DispatchExact([]arrow.DataType) (Kernel, error)
}

type baseFunc struct {
	name  string
	kind  FunctionKind
	arity Arity
	doc   FunctionDoc
}

func (b *baseFunc) Name() string       { return b.name }
func (b *baseFunc) Kind() FunctionKind { return b.kind }
func (b *baseFunc) Arity() Arity       { return b.arity }
func (b *baseFunc) Doc() FunctionDoc   { return b.doc }

func validArity(f *baseFunc, numArgs int, label string) error {
	if numArgs < f.arity.Min || (f.arity.Max >= 0 && numArgs > f.arity.Max) {
		return fmt.Errorf("%w: function '%s' accepts %s args but %s %d",
			arrow.ErrInvalid, f.name, f.arity, label, numArgs)
	}
	return nil
}

func (b *baseFunc) CheckArityTypes(in []InputType) error {
	return validArity(b, len(in), "kernel accepts")
}

func (b *baseFunc) CheckArity(numArgs int) error {
	return validArity(b, numArgs, "was called with")
}

// ScalarFunction is a function executed element-wise: output row i
// depends only on row i of each input.
type ScalarFunction struct {
	baseFunc

	kernels []ScalarKernel
}

func NewScalarFunction(name string, arity Arity, doc FunctionDoc) ScalarFunction {
	return ScalarFunction{
		baseFunc: baseFunc{name: name, arity: arity, doc: doc, kind: FuncScalarKind},
		kernels:  make([]ScalarKernel, 0),
	}
}

func (sf *ScalarFunction) Kernels() []ScalarKernel { return sf.kernels }

func (sf *ScalarFunction) AddNewKernel(in []InputType, out OutputType, exec ArrayKernelExec) error {
	varArgs := sf.arity.Max < 0
	if !varArgs {
		if err := sf.CheckArityTypes(in); err != nil {
			return err
		}
	} else if len(in) != 1 {
		return errors.New("scalar varargs signatures must have exactly one input type")
	}
	sf.kernels = append(sf.kernels, NewScalarKernel(NewKernelSig(in, out, varArgs), exec))
	return nil
}

func (sf *ScalarFunction) AddKernel(kernel ScalarKernel) error {
	if !kernel.Signature.varArgs {
		if err := sf.CheckArityTypes(kernel.Signature.inTypes); err != nil {
			return err
		}
	} else if sf.arity.Max >= 0 {
		return errors.New("kernel signature is varargs but function is not")
	}
	sf.kernels = append(sf.kernels, kernel)
	return nil
}

func (sf *ScalarFunction) DispatchExact(types []arrow.DataType) (Kernel, error) {
	if err := sf.CheckArity(len(types)); err != nil {
		return nil, err
	}

	for i := range sf.kernels {
		if sf.kernels[i].Signature.MatchesInputs(types) {
			return &sf.kernels[i], nil
		}
	}

	return nil, fmt.Errorf("%w: function '%s' has no kernel matching input types %v",
		arrow.ErrType, sf.name, types)
}
