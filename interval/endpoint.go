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

// Package interval defines the boundary algebra used by every index in this
// module: endpoints that can sit exactly on a value or infinitesimally to
// either side of it, and intervals whose ends may be open or closed.
//
// Endpoints are totally ordered. For a finite value v,
//
//	(v, Below) < (v, Exact) < (v, Above)
//
// and the infinities sort before and after everything else, regardless of
// their sign.
package interval

import (
	"cmp"
	"fmt"
	"math"
	"strconv"

	"github.com/bufbuild/timeline/internal/ext/cmpx"
)

// Sign positions an [Endpoint] relative to its value.
type Sign int8

const (
	Below Sign = -1 // Just left of the value.
	Exact Sign = 0  // At the value.
	Above Sign = 1  // Just right of the value.
)

// Edge names the side of an interval an endpoint is being converted to by
// [Flip].
type Edge int8

const (
	Low Edge = iota
	High
)

// String implements [fmt.Stringer].
func (e Edge) String() string {
	if e == Low {
		return "low"
	}
	return "high"
}

// Endpoint is a precise position on the timeline.
//
// The zero value is the point 0.
type Endpoint struct {
	Value float64
	Sign  Sign
}

var (
	// NegInf is the least endpoint.
	NegInf = Endpoint{Value: math.Inf(-1)}
	// PosInf is the greatest endpoint.
	PosInf = Endpoint{Value: math.Inf(1)}
)

// Point returns the endpoint exactly at v.
func Point(v float64) Endpoint {
	return Endpoint{Value: v}
}

// Infinite returns whether e is one of the two infinite endpoints.
func (e Endpoint) Infinite() bool {
	return math.IsInf(e.Value, 0)
}

// Shift translates e by skew. Infinite endpoints are unaffected.
func (e Endpoint) Shift(skew float64) Endpoint {
	if e.Infinite() {
		return e
	}
	return Endpoint{Value: e.Value + skew, Sign: e.Sign}
}

// String implements [fmt.Stringer].
//
// Endpoints to the left or right of a value are printed with a trailing - or
// +, respectively.
func (e Endpoint) String() string {
	s := formatValue(e.Value)
	switch {
	case e.Infinite():
		return s
	case e.Sign < 0:
		return s + "-"
	case e.Sign > 0:
		return s + "+"
	default:
		return s
	}
}

// Compare compares two endpoints. It is an [cmpx.Ordering].
func Compare(a, b Endpoint) cmpx.Result {
	if a.Value != b.Value {
		return cmp.Compare(a.Value, b.Value)
	}
	if a.Infinite() {
		return cmpx.Equal
	}
	return cmp.Compare(a.Sign, b.Sign)
}

func Less(a, b Endpoint) bool      { return Compare(a, b) < 0 }
func LessEq(a, b Endpoint) bool    { return Compare(a, b) <= 0 }
func Greater(a, b Endpoint) bool   { return Compare(a, b) > 0 }
func GreaterEq(a, b Endpoint) bool { return Compare(a, b) >= 0 }
func Equal(a, b Endpoint) bool     { return Compare(a, b) == 0 }

// Min returns the least of its arguments.
func Min(first Endpoint, rest ...Endpoint) Endpoint {
	for _, e := range rest {
		if Less(e, first) {
			first = e
		}
	}
	return first
}

// Max returns the greatest of its arguments.
func Max(first Endpoint, rest ...Endpoint) Endpoint {
	for _, e := range rest {
		if Greater(e, first) {
			first = e
		}
	}
	return first
}

// Flip converts a boundary between its representation as the high end of one
// interval and the low end of the interval adjacent to it.
//
// Flipping to [Low] takes the high end of an interval to the low end of its
// right neighbor: a closed end at v becomes an open start at v, and vice
// versa. Flipping to [High] is the inverse. Flipping an endpoint whose sign
// already lies on the requested side is an error. Infinite endpoints are
// returned unchanged.
func Flip(e Endpoint, to Edge) (Endpoint, error) {
	if e.Infinite() {
		return Endpoint{Value: e.Value}, nil
	}

	switch {
	case to == Low && e.Sign > 0, to == High && e.Sign < 0:
		return Endpoint{}, &InputError{
			What:   "endpoint",
			Input:  e,
			Reason: fmt.Sprintf("already on the %v side", to),
		}
	case to == Low:
		return Endpoint{Value: e.Value, Sign: e.Sign + 1}, nil
	default:
		return Endpoint{Value: e.Value, Sign: e.Sign - 1}, nil
	}
}

// MustFlip is like [Flip], but panics on error. It is meant for endpoints
// obtained from [Bounds], which can always be flipped away from their own side.
func MustFlip(e Endpoint, to Edge) Endpoint {
	e, err := Flip(e, to)
	if err != nil {
		panic(err)
	}
	return e
}

// EndpointFromInput normalizes a flexible endpoint description.
//
// Accepted inputs are an [Endpoint], any Go number (which becomes an endpoint
// exactly at that number), or a two-element slice of [value, sign], where
// sign is -1, 0, or 1. Infinite values always get sign 0.
func EndpointFromInput(input any) (Endpoint, error) {
	fail := func(reason string) (Endpoint, error) {
		return Endpoint{}, &InputError{What: "endpoint", Input: input, Reason: reason}
	}

	var e Endpoint
	switch v := input.(type) {
	case Endpoint:
		e = v
	case []any:
		if len(v) != 2 {
			return fail("expected [value, sign]")
		}
		value, ok := toFloat(v[0])
		if !ok {
			return fail("value is not a number")
		}
		sign, ok := toFloat(v[1])
		if !ok || (sign != -1 && sign != 0 && sign != 1) {
			return fail("sign must be one of -1, 0, 1")
		}
		e = Endpoint{Value: value, Sign: Sign(sign)}
	case []float64:
		return EndpointFromInput(anySlice(v))
	default:
		value, ok := toFloat(input)
		if !ok {
			return fail("not a number")
		}
		e = Endpoint{Value: value}
	}

	if math.IsNaN(e.Value) {
		return fail("value is NaN")
	}
	if e.Sign < Below || e.Sign > Above {
		return fail("sign must be one of -1, 0, 1")
	}
	if e.Infinite() {
		e.Sign = Exact
	}
	return e, nil
}

func formatValue(v float64) string {
	switch {
	case math.IsInf(v, -1):
		return "-inf"
	case math.IsInf(v, 1):
		return "+inf"
	default:
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
}

func anySlice[T any](s []T) []any {
	out := make([]any, len(s))
	for i, v := range s {
		out[i] = v
	}
	return out
}
