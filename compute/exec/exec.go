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

package exec

import (
	"context"
	"sync"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/seddonm1/arrow/compute/exec/functions"
	"github.com/seddonm1/arrow/compute/exec/kernels"
)

var (
	defaultRegistry    *functions.FunctionRegistry
	defaultExecCtx     *functions.ExecCtx
	initDefaultExecCtx sync.Once
)

// DefaultRegistry returns the registry holding the builtin kernels.
func DefaultRegistry() *functions.FunctionRegistry {
	initDefaults()
	return defaultRegistry
}

func DefaultExecCtx() *functions.ExecCtx {
	initDefaults()
	return defaultExecCtx
}

func initDefaults() {
	initDefaultExecCtx.Do(func() {
		defaultRegistry = &functions.FunctionRegistry{}
		kernels.RegisterStringKernels(defaultRegistry)
		defaultExecCtx = &functions.ExecCtx{
			Mem:      memory.DefaultAllocator,
			Registry: defaultRegistry,
		}
	})
}

// CallFunction looks funcname up in the registry of the exec context
// carried by ctx (falling back to the default context) and executes
// it against args.
func CallFunction(ctx context.Context, funcname string, args []arrow.Array) (arrow.Array, error) {
	ectx := functions.GetExecCtx(ctx)
	if ectx == nil {
		return CallFunction(functions.SetExecCtx(ctx, DefaultExecCtx()), funcname, args)
	}

	fn, err := ectx.Registry.GetFunction(funcname)
	if err != nil {
		return nil, err
	}
	return functions.ExecuteFunction(ctx, fn, args)
}

// Concatenate merges string arrays position-wise, nulling a row when
// any input is null at that row.
func Concatenate(ctx context.Context, args ...arrow.Array) (arrow.Array, error) {
	return CallFunction(ctx, "concatenate", args)
}

// Lpad left-pads strings to per-row target lengths; the optional
// third array provides the fill pattern.
func Lpad(ctx context.Context, args ...arrow.Array) (arrow.Array, error) {
	return CallFunction(ctx, "lpad", args)
}

func Lower(ctx context.Context, arr arrow.Array) (arrow.Array, error) {
	return CallFunction(ctx, "lower", []arrow.Array{arr})
}

func Upper(ctx context.Context, arr arrow.Array) (arrow.Array, error) {
	return CallFunction(ctx, "upper", []arrow.Array{arr})
}

func Trim(ctx context.Context, arr arrow.Array) (arrow.Array, error) {
	return CallFunction(ctx, "trim", []arrow.Array{arr})
}

func Ltrim(ctx context.Context, arr arrow.Array) (arrow.Array, error) {
	return CallFunction(ctx, "ltrim", []arrow.Array{arr})
}

func Rtrim(ctx context.Context, arr arrow.Array) (arrow.Array, error) {
	return CallFunction(ctx, "rtrim", []arrow.Array{arr})
}
