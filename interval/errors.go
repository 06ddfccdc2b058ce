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

package interval

import (
	"errors"
	"fmt"
	"math"
	"reflect"
)

// ErrInvalid is wrapped by every error describing malformed interval or
// endpoint input.
var ErrInvalid = errors.New("invalid input")

// InputError describes a malformed interval or endpoint.
type InputError struct {
	What   string // "interval" or "endpoint".
	Input  any
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.What, e.Input, e.Reason)
}

// Unwrap returns [ErrInvalid].
func (e *InputError) Unwrap() error { return ErrInvalid }

// toFloat converts any Go number to a float64.
func toFloat(v any) (float64, bool) {
	if v == nil {
		return 0, false
	}
	r := reflect.ValueOf(v)
	switch r.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(r.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Uintptr:
		return float64(r.Uint()), true
	case reflect.Float32, reflect.Float64:
		f := r.Float()
		return f, !math.IsNaN(f)
	default:
		return 0, false
	}
}
