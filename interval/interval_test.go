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

package interval_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bufbuild/timeline/interval"
)

func TestCompare(t *testing.T) {
	t.Parallel()

	// In increasing order.
	order := []interval.Endpoint{
		interval.NegInf,
		{Value: -1, Sign: interval.Above},
		{Value: 0, Sign: interval.Below},
		{Value: 0},
		{Value: 0, Sign: interval.Above},
		{Value: 1, Sign: interval.Below},
		interval.PosInf,
	}
	for i, a := range order {
		for j, b := range order {
			switch {
			case i < j:
				assert.True(t, interval.Less(a, b), "%v < %v", a, b)
			case i > j:
				assert.True(t, interval.Greater(a, b), "%v > %v", a, b)
			default:
				assert.True(t, interval.Equal(a, b), "%v == %v", a, b)
			}
		}
	}

	assert.True(t, interval.Equal(interval.NegInf, interval.Endpoint{Value: math.Inf(-1), Sign: interval.Above}))
	assert.Equal(t, interval.Point(3), interval.Max(interval.Point(1), interval.Point(3), interval.Point(2)))
	assert.Equal(t, interval.NegInf, interval.Min(interval.Point(1), interval.NegInf))
}

func TestFlip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   interval.Endpoint
		to   interval.Edge
		want interval.Endpoint
		err  bool
	}{
		{name: "closed-high", in: interval.Point(1), to: interval.Low, want: interval.Endpoint{Value: 1, Sign: interval.Above}},
		{name: "open-high", in: interval.Endpoint{Value: 1, Sign: interval.Below}, to: interval.Low, want: interval.Point(1)},
		{name: "open-low", in: interval.Endpoint{Value: 1, Sign: interval.Above}, to: interval.High, want: interval.Point(1)},
		{name: "closed-low", in: interval.Point(1), to: interval.High, want: interval.Endpoint{Value: 1, Sign: interval.Below}},
		{name: "infinite", in: interval.PosInf, to: interval.Low, want: interval.PosInf},
		{name: "wrong-side-low", in: interval.Endpoint{Value: 1, Sign: interval.Above}, to: interval.Low, err: true},
		{name: "wrong-side-high", in: interval.Endpoint{Value: 1, Sign: interval.Below}, to: interval.High, err: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := interval.Flip(tt.in, tt.to)
			if tt.err {
				require.ErrorIs(t, err, interval.ErrInvalid)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			if !tt.in.Infinite() {
				back := interval.High
				if tt.to == interval.High {
					back = interval.Low
				}
				assert.Equal(t, tt.in, interval.MustFlip(got, back))
			}
		})
	}
}

func TestEndpointFromInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   any
		want interval.Endpoint
		err  bool
	}{
		{name: "int", in: 3, want: interval.Point(3)},
		{name: "pair", in: []any{0, -1}, want: interval.Endpoint{Value: 0, Sign: interval.Below}},
		{name: "floats", in: []float64{2.5, 1}, want: interval.Endpoint{Value: 2.5, Sign: interval.Above}},
		{name: "inf", in: []any{math.Inf(1), -1}, want: interval.PosInf},
		{name: "bad-sign", in: []any{0, 2}, err: true},
		{name: "nan", in: math.NaN(), err: true},
		{name: "string", in: "0", err: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := interval.EndpointFromInput(tt.in)
			if tt.err {
				require.ErrorIs(t, err, interval.ErrInvalid)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFromInput(t *testing.T) {
	t.Parallel()

	inf := math.Inf(1)
	tests := []struct {
		name string
		in   any
		want interval.Interval
		err  bool
	}{
		{name: "pair", in: []any{0, 10}, want: interval.Interval{Low: 0, High: 10, LowClosed: true}},
		{name: "ints", in: []int{0, 10}, want: interval.Interval{Low: 0, High: 10, LowClosed: true}},
		{name: "number", in: 4, want: interval.Singleton(4)},
		{name: "singleton-open", in: []any{1, 1, false, false}, want: interval.Singleton(1)},
		{name: "unbounded-high", in: []any{1, nil, false}, want: interval.Interval{Low: 1, High: inf, HighClosed: true}},
		{name: "unbounded-low", in: []any{nil, 0}, want: interval.Interval{Low: -inf, High: 0, LowClosed: true}},
		{
			name: "map",
			in:   map[string]any{"low": 0, "high": 1, "highClosed": true},
			want: interval.Interval{Low: 0, High: 1, LowClosed: true, HighClosed: true},
		},
		{name: "reversed", in: []any{2, 1}, err: true},
		{name: "nan", in: []any{math.NaN(), 1}, err: true},
		{name: "bad-flag", in: []any{0, 1, "yes"}, err: true},
		{name: "bad-key", in: map[string]any{"lo": 0}, err: true},
		{name: "too-long", in: []any{0, 1, true, true, true}, err: true},
		{name: "nil", in: nil, err: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := interval.FromInput(tt.in)
			if tt.err {
				require.ErrorIs(t, err, interval.ErrInvalid)
				var ie *interval.InputError
				require.ErrorAs(t, err, &ie)
				assert.Equal(t, "interval", ie.What)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCovers(t *testing.T) {
	t.Parallel()

	itv, err := interval.FromInput([]any{0, 10})
	require.NoError(t, err)
	assert.Equal(t, interval.Interval{Low: 0, High: 10, LowClosed: true}, itv)
	assert.True(t, itv.CoversPoint(5))
	assert.True(t, itv.CoversPoint(0))
	assert.False(t, itv.CoversPoint(10))
	assert.True(t, itv.CoversEndpoint(interval.Endpoint{Value: 10, Sign: interval.Below}))
	assert.False(t, itv.CoversEndpoint(interval.Endpoint{Value: 0, Sign: interval.Below}))

	all := interval.All()
	assert.True(t, all.CoversEndpoint(interval.NegInf))
	assert.True(t, all.CoversEndpoint(interval.PosInf))
}

func TestBounds(t *testing.T) {
	t.Parallel()

	itv, err := interval.New(0, 1, false, false)
	require.NoError(t, err)
	low, high := interval.Bounds(itv)
	assert.Equal(t, interval.Endpoint{Value: 0, Sign: interval.Above}, low)
	assert.Equal(t, interval.Endpoint{Value: 1, Sign: interval.Below}, high)

	back, err := interval.FromEndpoints(low, high)
	require.NoError(t, err)
	assert.Equal(t, itv, back)

	_, err = interval.FromEndpoints(high, low)
	require.ErrorIs(t, err, interval.ErrInvalid)
}

func TestString(t *testing.T) {
	t.Parallel()

	itv, err := interval.New(0, 10, true, false)
	require.NoError(t, err)
	assert.Equal(t, "[0, 10)", itv.String())
	assert.Equal(t, "[10, 20)", itv.Shift(10).String())
	assert.Equal(t, "[-inf, +inf]", interval.All().String())
	assert.Equal(t, "1.5+", interval.Endpoint{Value: 1.5, Sign: interval.Above}.String())
	assert.Equal(t, "-inf", interval.NegInf.String())
}
