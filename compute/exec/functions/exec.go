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

	"github.com/seddonm1/arrow/internal/debug"
)

// ExecuteFunction validates args against fn's arity and kernel
// signatures, then runs the matching kernel. All array arguments
// must share one length; the inputs are never mutated and the
// returned array is owned by the caller.
func ExecuteFunction(ctx context.Context, fn Function, args []arrow.Array) (arrow.Array, error) {
	types := make([]arrow.DataType, len(args))
	for i, a := range args {
		if a == nil {
			return nil, fmt.Errorf("%w: function '%s' called with nil argument %d",
				arrow.ErrInvalid, fn.Name(), i)
		}
		types[i] = a.DataType()
	}

	if err := checkEqualLengths(fn.Name(), args); err != nil {
		return nil, err
	}

	kn, err := fn.DispatchExact(types)
	if err != nil {
		return nil, err
	}

	expected, err := kn.GetSignature().OutputType().Resolve(types)
	if err != nil {
		return nil, err
	}

	kctx := &KernelCtx{Ctx: GetExecCtx(ctx)}
	out, err := kn.Execute(kctx, args)
	if err != nil {
		return nil, err
	}
	debug.Assert(arrow.TypeEqual(expected, out.DataType()), "kernel produced unexpected output type")
	return out, nil
}

func checkEqualLengths(name string, args []arrow.Array) error {
	if len(args) == 0 {
		return nil
	}

	length := args[0].Len()
	for _, a := range args[1:] {
		if a.Len() != length {
			return fmt.Errorf("%w: function '%s' array arguments must all be the same length, got %d and %d",
				arrow.ErrInvalid, name, length, a.Len())
		}
	}
	return nil
}
