// Copyright 2020-2025 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package nearby

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// exprEnv is the environment a [Condition] expression is evaluated in.
type exprEnv struct {
	Count int      `expr:"count"`
	Keys  []string `expr:"keys"`
}

// Expr compiles a boolean expression into a [Condition].
//
// The expression sees two variables: count, the number of center entries,
// and keys, their keys in center order. For example:
//
//	count >= 2
//	"a" in keys && count == 1
func Expr(source string) (Condition, error) {
	program, err := expr.Compile(source, expr.Env(exprEnv{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("nearby: compiling condition %q: %w", source, err)
	}
	return func(center []Entry) bool {
		return runCondition(source, program, center)
	}, nil
}

func runCondition(source string, program *vm.Program, center []Entry) bool {
	env := exprEnv{Count: len(center), Keys: make([]string, len(center))}
	for i, e := range center {
		env.Keys[i] = e.Key()
	}

	out, err := expr.Run(program, env)
	if err != nil {
		// Compilation already type-checked the expression, so this is a
		// runtime fault such as an out-of-range index.
		panic(fmt.Errorf("nearby: evaluating condition %q: %w", source, err))
	}
	return out.(bool)
}
