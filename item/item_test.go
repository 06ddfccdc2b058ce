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

package item_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bufbuild/timeline/interval"
	"github.com/bufbuild/timeline/item"
)

const fixture = `
- id: a
  itv: [0, 10]
- id: m
  itv: [0, null, true]
  kind: motion
  data: {p0: 1, v0: 2}
- id: t
  itv: {low: 0, high: 10, highClosed: true}
  kind: transition
  data: {v0: 0, v1: 10, t0: 0, t1: 10, easing: ease-in}
- id: p
  itv: [0, 4]
  kind: interpolation
  data:
    samples: [[3, 4], [1, 0]]
`

func TestParseYAML(t *testing.T) {
	t.Parallel()

	items, err := item.ParseYAML([]byte(fixture))
	require.NoError(t, err)
	require.Len(t, items, 4)

	assert.Equal(t, item.Item{
		ID:   "a",
		Itv:  interval.Interval{Low: 0, High: 10, LowClosed: true},
		Kind: item.KindStatic,
		Data: item.Static{},
	}, items[0])

	assert.Equal(t, item.KindMotion, items[1].Kind)
	assert.Equal(t, item.Motion{Position: 1, Velocity: 2}, items[1].Data)
	assert.Equal(t, math.Inf(1), items[1].Itv.High)
	assert.True(t, items[1].Itv.HighClosed)

	assert.Equal(t, item.Transition{From: 0, To: 10, Start: 0, End: 10, Easing: item.EaseIn}, items[2].Data)
	assert.True(t, items[2].Itv.HighClosed)

	assert.Equal(t, item.Interpolation{Samples: []item.Sample{
		{Value: 1, Offset: 0},
		{Value: 3, Offset: 4},
	}}, items[3].Data)
}

func TestFromMapErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   map[string]any
	}{
		{name: "no-id", in: map[string]any{"itv": []any{0, 1}}},
		{name: "bad-itv", in: map[string]any{"id": "x", "itv": []any{2, 1}}},
		{name: "bad-kind", in: map[string]any{"id": "x", "itv": 1, "kind": "spline"}},
		{name: "bad-number", in: map[string]any{
			"id": "x", "itv": 1, "kind": "motion",
			"data": map[string]any{"v0": "fast"},
		}},
		{name: "bad-easing", in: map[string]any{
			"id": "x", "itv": 1, "kind": "transition",
			"data": map[string]any{"easing": "bounce"},
		}},
		{name: "no-samples", in: map[string]any{
			"id": "x", "itv": 1, "kind": "interpolation",
			"data": map[string]any{"samples": []any{}},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := item.FromMap(tt.in)
			require.ErrorIs(t, err, item.ErrInvalidItem)
		})
	}
}

func TestStruct(t *testing.T) {
	t.Parallel()

	items, err := item.ParseYAML([]byte(fixture))
	require.NoError(t, err)

	for _, it := range items {
		s, err := it.ToStruct()
		require.NoError(t, err)
		back, err := item.FromStruct(s)
		require.NoError(t, err)
		assert.Equal(t, it, back, it.ID)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	it := item.Item{ID: "x", Itv: interval.Singleton(1), Kind: item.KindMotion, Data: item.Static{}}
	require.ErrorIs(t, it.Validate(), item.ErrInvalidItem)

	it.Data = item.Motion{}
	require.NoError(t, it.Validate())
}

func TestKind(t *testing.T) {
	t.Parallel()

	for _, k := range []item.Kind{item.KindStatic, item.KindMotion, item.KindTransition, item.KindInterpolation} {
		got, err := item.ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}
	assert.Equal(t, "Kind(9)", item.Kind(9).String())
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	it := item.Item{
		ID:   "x",
		Itv:  interval.Interval{Low: 0, High: 0, LowClosed: true},
		Kind: item.KindStatic,
		Data: item.Static{},
	}
	require.ErrorIs(t, it.Validate(), item.ErrInvalidItem)

	norm, err := it.Normalize()
	require.NoError(t, err)
	assert.Equal(t, interval.Singleton(0), norm.Itv)
	require.NoError(t, norm.Validate())

	it.Itv = interval.Interval{Low: 2, High: 1}
	_, err = it.Normalize()
	require.ErrorIs(t, err, item.ErrInvalidItem)
	require.ErrorIs(t, err, interval.ErrInvalid)
}
