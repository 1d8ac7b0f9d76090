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
	"context"
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

type execCtxKey struct{}

func SetExecCtx(ctx context.Context, ectx *ExecCtx) context.Context {
	return context.WithValue(ctx, execCtxKey{}, ectx)
}

func GetExecCtx(ctx context.Context) *ExecCtx {
	if ec, ok := ctx.Value(execCtxKey{}).(*ExecCtx); ok {
		return ec
	}
	return nil
}

// ExecCtx carries the ambient state for kernel execution: the
// allocator outputs are built with and the registry functions are
// looked up in.
type ExecCtx struct {
	Mem      memory.Allocator
	Registry *FunctionRegistry
}

func (e *ExecCtx) Allocator() memory.Allocator {
	if e.Mem == nil {
		return memory.DefaultAllocator
	}
	return e.Mem
}

// KernelCtx is the per-invocation context handed to a kernel exec.
type KernelCtx struct {
	Ctx *ExecCtx
}

func (k *KernelCtx) Allocator() memory.Allocator {
	if k.Ctx == nil {
		return memory.DefaultAllocator
	}
	return k.Ctx.Allocator()
}

type TypeMatcher interface {
	fmt.Stringer
	Matches(arrow.DataType) bool
	Equals(TypeMatcher) bool
}

type sameIDMatcher struct {
	id arrow.Type
}

func (s *sameIDMatcher) Matches(t arrow.DataType) bool { return s.id == t.ID() }
func (s *sameIDMatcher) String() string {
	return "Type::" + s.id.String()
}
func (s *sameIDMatcher) Equals(t TypeMatcher) bool {
	if s == t {
		return true
	}

	if m, ok := t.(*sameIDMatcher); ok {
		return s.id == m.id
	}
	return false
}

type TypeKind int8

const (
	AnyType TypeKind = iota
	ExactType
	UseTypeMatcher
)

// InputType constrains one argument position of a kernel signature.
type InputType struct {
	kind        TypeKind
	dt          arrow.DataType
	typeMatcher TypeMatcher
}

func NewAnyInput() InputType {
	return InputType{kind: AnyType}
}

func NewExactInput(dt arrow.DataType) InputType {
	return InputType{kind: ExactType, dt: dt}
}

func NewInputMatcher(matcher TypeMatcher) InputType {
	return InputType{kind: UseTypeMatcher, typeMatcher: matcher}
}

func NewInputIDType(id arrow.Type) InputType {
	return NewInputMatcher(&sameIDMatcher{id})
}

func (it *InputType) Kind() TypeKind { return it.kind }

func (it *InputType) Matches(dt arrow.DataType) bool {
	switch it.kind {
	case ExactType:
		return arrow.TypeEqual(it.dt, dt)
	case UseTypeMatcher:
		return it.typeMatcher.Matches(dt)
	default:
		return true
	}
}

// OutputType declares the type a kernel produces, either fixed or
// resolved from the input types.
type OutputType struct {
	dt       arrow.DataType
	resolver TypeResolver
}

type TypeResolver func([]arrow.DataType) (arrow.DataType, error)

func NewOutputType(dt arrow.DataType) OutputType {
	return OutputType{dt: dt}
}

func NewOutputTypeResolver(resolver TypeResolver) OutputType {
	return OutputType{resolver: resolver}
}

func (o OutputType) Resolve(args []arrow.DataType) (arrow.DataType, error) {
	if o.resolver != nil {
		return o.resolver(args)
	}
	return o.dt, nil
}

// KernelSig is the matchable type signature of a kernel. A var-args
// signature has a single input type that every argument is matched
// against.
type KernelSig struct {
	inTypes []InputType
	outType OutputType
	varArgs bool
}

func NewKernelSig(in []InputType, out OutputType, varargs bool) *KernelSig {
	return &KernelSig{
		inTypes: in,
		outType: out,
		varArgs: varargs,
	}
}

func (k *KernelSig) OutputType() OutputType { return k.outType }

func (k *KernelSig) InputTypes() []InputType { return k.inTypes }

func (k *KernelSig) MatchesInputs(args []arrow.DataType) bool {
	if k.varArgs {
		for _, arg := range args {
			if !k.inTypes[len(k.inTypes)-1].Matches(arg) {
				return false
			}
		}
		return true
	}

	if len(args) != len(k.inTypes) {
		return false
	}

	for i, arg := range args {
		if !k.inTypes[i].Matches(arg) {
			return false
		}
	}
	return true
}

// ArrayKernelExec implements one specialization of a function. Inputs
// are read-only; the exec allocates and returns a fresh output array.
type ArrayKernelExec func(*KernelCtx, []arrow.Array) (arrow.Array, error)

type kernel struct {
	Parallelizable bool
	Signature      *KernelSig
}

func (k *kernel) GetSignature() *KernelSig { return k.Signature }

type ScalarKernel struct {
	kernel

	Exec ArrayKernelExec
}

func (s *ScalarKernel) Execute(ctx *KernelCtx, args []arrow.Array) (arrow.Array, error) {
	return s.Exec(ctx, args)
}

func NewScalarKernel(sig *KernelSig, exec ArrayKernelExec) ScalarKernel {
	return ScalarKernel{
		kernel: kernel{Signature: sig, Parallelizable: true},
		Exec:   exec,
	}
}

type Kernel interface {
	GetSignature() *KernelSig
	Execute(*KernelCtx, []arrow.Array) (arrow.Array, error)
}
