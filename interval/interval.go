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
	"fmt"
	"math"

	"golang.org/x/exp/constraints" //nolint:exptostd // Need Integer | Float.
)

// Number is any Go numeric type that can be used to construct an interval.
type Number interface {
	constraints.Integer | constraints.Float
}

// Interval is a contiguous range of the timeline.
//
// Intervals are values: construct new ones rather than modifying fields of an
// interval that is already in use. Constructors in this package guarantee that
// Low <= High, that a singleton interval is closed on both sides, and that an
// infinite side is closed.
type Interval struct {
	Low, High             float64
	LowClosed, HighClosed bool
}

// New constructs a normalized interval from numeric bounds.
func New[N Number](low, high N, lowClosed, highClosed bool) (Interval, error) {
	return normalize(
		[]any{low, high, lowClosed, highClosed},
		float64(low), float64(high), lowClosed, highClosed,
	)
}

// Singleton returns the closed interval containing only v.
func Singleton[N Number](v N) Interval {
	return Interval{Low: float64(v), High: float64(v), LowClosed: true, HighClosed: true}
}

// At returns the endpoint exactly at v.
func At[N Number](v N) Endpoint {
	return Point(float64(v))
}

// All is the interval containing every point.
func All() Interval {
	return Interval{Low: math.Inf(-1), High: math.Inf(1), LowClosed: true, HighClosed: true}
}

// FromEndpoints constructs the interval running from low to high, inclusive,
// in the endpoint ordering.
func FromEndpoints(low, high Endpoint) (Interval, error) {
	if Greater(low, high) {
		return Interval{}, &InputError{
			What:   "interval",
			Input:  []Endpoint{low, high},
			Reason: "low endpoint is greater than high endpoint",
		}
	}
	return normalize(
		[]Endpoint{low, high},
		low.Value, high.Value, low.Sign <= Exact, high.Sign >= Exact,
	)
}

// FromInput normalizes a flexible interval description.
//
// Accepted inputs are:
//
//   - An [Interval], which is validated and normalized.
//   - A Go number v, which becomes [v, v].
//   - A slice of one to four elements, [low, high, lowClosed, highClosed].
//     Missing or nil bounds are infinite; lowClosed defaults to true and
//     highClosed to false.
//   - A map[string]any with the keys "low", "high", "lowClosed" and
//     "highClosed", with the same defaults.
func FromInput(input any) (Interval, error) {
	fail := func(reason string) (Interval, error) {
		return Interval{}, &InputError{What: "interval", Input: input, Reason: reason}
	}

	switch v := input.(type) {
	case nil:
		return fail("missing")
	case Interval:
		return normalize(input, v.Low, v.High, v.LowClosed, v.HighClosed)
	case []any:
		if len(v) == 0 || len(v) > 4 {
			return fail("expected one to four elements")
		}
		parts := make([]any, 4)
		copy(parts, v)
		return fromParts(input, parts[0], parts[1], parts[2], parts[3])
	case []float64:
		return FromInput(anySlice(v))
	case []int:
		return FromInput(anySlice(v))
	case map[string]any:
		for k := range v {
			switch k {
			case "low", "high", "lowClosed", "highClosed":
			default:
				return fail(fmt.Sprintf("unknown key %q", k))
			}
		}
		return fromParts(input, v["low"], v["high"], v["lowClosed"], v["highClosed"])
	default:
		f, ok := toFloat(input)
		if !ok {
			return fail("unsupported shape")
		}
		return normalize(input, f, f, true, true)
	}
}

func fromParts(input, low, high, lowClosed, highClosed any) (Interval, error) {
	fail := func(reason string) (Interval, error) {
		return Interval{}, &InputError{What: "interval", Input: input, Reason: reason}
	}

	lo, hi := math.Inf(-1), math.Inf(1)
	if low != nil {
		f, ok := toFloat(low)
		if !ok {
			return fail("low is not a number")
		}
		lo = f
	}
	if high != nil {
		f, ok := toFloat(high)
		if !ok {
			return fail("high is not a number")
		}
		hi = f
	}

	lc, hc := true, false
	if lowClosed != nil {
		b, ok := lowClosed.(bool)
		if !ok {
			return fail("lowClosed is not a boolean")
		}
		lc = b
	}
	if highClosed != nil {
		b, ok := highClosed.(bool)
		if !ok {
			return fail("highClosed is not a boolean")
		}
		hc = b
	}

	return normalize(input, lo, hi, lc, hc)
}

func normalize(input any, low, high float64, lowClosed, highClosed bool) (Interval, error) {
	switch {
	case math.IsNaN(low) || math.IsNaN(high):
		return Interval{}, &InputError{What: "interval", Input: input, Reason: "bound is NaN"}
	case low > high:
		return Interval{}, &InputError{What: "interval", Input: input, Reason: "low is greater than high"}
	}

	if low == high {
		lowClosed, highClosed = true, true
	}
	if math.IsInf(low, -1) {
		lowClosed = true
	}
	if math.IsInf(high, 1) {
		highClosed = true
	}
	return Interval{Low: low, High: high, LowClosed: lowClosed, HighClosed: highClosed}, nil
}

// Bounds returns the endpoints delimiting itv: the least and greatest
// endpoints it covers.
func Bounds(itv Interval) (low, high Endpoint) {
	low = Endpoint{Value: itv.Low}
	if !itv.LowClosed && !math.IsInf(itv.Low, 0) {
		low.Sign = Above
	}
	high = Endpoint{Value: itv.High}
	if !itv.HighClosed && !math.IsInf(itv.High, 0) {
		high.Sign = Below
	}
	return low, high
}

// CoversEndpoint returns whether e lies within itv.
func (itv Interval) CoversEndpoint(e Endpoint) bool {
	low, high := Bounds(itv)
	return LessEq(low, e) && LessEq(e, high)
}

// CoversPoint returns whether the value v lies within itv.
func (itv Interval) CoversPoint(v float64) bool {
	return itv.CoversEndpoint(Point(v))
}

// Singleton returns whether itv contains exactly one point.
func (itv Interval) Singleton() bool {
	return itv.Low == itv.High
}

// Shift translates itv by skew.
func (itv Interval) Shift(skew float64) Interval {
	itv.Low += skew
	itv.High += skew
	return itv
}

// String implements [fmt.Stringer].
func (itv Interval) String() string {
	open, closed := "(", ")"
	if itv.LowClosed {
		open = "["
	}
	if itv.HighClosed {
		closed = "]"
	}
	return fmt.Sprintf("%s%s, %s%s", open, formatValue(itv.Low), formatValue(itv.High), closed)
}
