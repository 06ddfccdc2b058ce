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

package timeline_test

import (
	"bytes"
	"log/slog"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bufbuild/timeline"
	"github.com/bufbuild/timeline/cache"
	"github.com/bufbuild/timeline/interval"
	"github.com/bufbuild/timeline/item"
	"github.com/bufbuild/timeline/nearby"
	"github.com/bufbuild/timeline/store"
	"github.com/bufbuild/timeline/tick"
)

func static(id string, itv any, value any) item.Item {
	i, err := interval.FromInput(itv)
	if err != nil {
		panic(err)
	}
	return item.Item{ID: id, Itv: i, Kind: item.KindStatic, Data: item.Static{Value: value}}
}

func setup(t *testing.T, opts timeline.Options, items ...item.Item) (*tick.Queue, *store.Collection, *timeline.Layer) {
	t.Helper()
	q := tick.NewQueue()
	s := store.New(q, nil)
	require.NoError(t, s.Update(store.Change{Insert: items}))
	q.Drain()
	l, err := timeline.New(s, opts)
	require.NoError(t, err)
	return q, s, l
}

func TestLayer(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	q, s, l := setup(t, timeline.Options{Name: "test", Logger: logger},
		static("a", []any{0, 10}, "A"),
	)

	st, err := l.Query(5)
	require.NoError(t, err)
	assert.Equal(t, "A", st.Value)

	c := l.NewCache()
	_, err = c.Query(5)
	require.NoError(t, err)

	// An unrelated change still invalidates every cache.
	require.NoError(t, s.Update(store.Change{Insert: []item.Item{static("b", []any{20, 30}, "B")}}))
	assert.False(t, c.IsDirty())
	q.Drain()
	assert.True(t, c.IsDirty())

	_, err = c.Query(5)
	require.NoError(t, err)
	assert.Equal(t, cache.Stats{Lookups: 2}, c.Stats())

	st, err = l.Query(25)
	require.NoError(t, err)
	assert.Equal(t, "B", st.Value)
	assert.Contains(t, logs.String(), "layer=test")
	assert.Contains(t, logs.String(), "timeline: index refreshed")

	l.Close()
	require.NoError(t, s.Update(store.Change{Remove: []string{"a"}}))
	q.Drain()
	_, err = l.Query(5)
	require.ErrorIs(t, err, timeline.ErrClosed)
	assert.Equal(t, []string{"a"}, l.Index().Nearby(interval.Point(5)).Keys())
}

func TestLayerOverlap(t *testing.T) {
	t.Parallel()

	q := tick.NewQueue()
	s := store.New(q, nil)
	require.NoError(t, s.Update(store.Change{Insert: []item.Item{
		static("a", []any{0, 10}, 1),
		static("b", []any{5, 15}, 2),
	}}))
	q.Drain()

	_, err := timeline.New(s, timeline.Options{})
	require.ErrorIs(t, err, nearby.ErrOverlap)

	l, err := timeline.New(s, timeline.Options{Overlapping: true})
	require.NoError(t, err)
	_, err = l.Query(7)
	require.ErrorIs(t, err, cache.ErrInconsistentLookup)

	// A failing incremental refresh leaves the index as it was.
	q, s, l = setup(t, timeline.Options{}, static("a", []any{0, 10}, 1))
	require.NoError(t, s.Update(store.Change{Insert: []item.Item{static("b", []any{5, 15}, 2)}}))
	q.Drain()
	require.ErrorIs(t, l.Err(), nearby.ErrOverlap)
	assert.Equal(t, []string{"a"}, l.Index().Nearby(interval.Point(7)).Keys())

	require.NoError(t, s.Update(store.Change{Remove: []string{"b"}}))
	q.Drain()
	require.NoError(t, l.Err())
}

func TestFullRefresh(t *testing.T) {
	t.Parallel()

	for _, full := range []bool{false, true} {
		q, s, l := setup(t, timeline.Options{Overlapping: true, FullRefresh: full},
			static("a", []any{0, 10}, 1),
			static("b", []any{5, 15}, 2),
		)
		require.NoError(t, s.Update(store.Change{
			Remove: []string{"a"},
			Insert: []item.Item{static("c", []any{12, 20}, 3)},
		}))
		q.Drain()
		assert.Equal(t, ""+
			"[5, 12)   b\n"+
			"[12, 15)  b,c\n"+
			"[15, 20)  c\n",
			nearby.Format(l.Regions(nearby.RegionOptions{})),
			"full=%v", full,
		)
	}
}

func TestSample(t *testing.T) {
	t.Parallel()

	_, _, l := setup(t, timeline.Options{},
		item.Item{
			ID:   "t",
			Itv:  interval.Interval{Low: 0, High: 4, LowClosed: true, HighClosed: true},
			Kind: item.KindTransition,
			Data: item.Transition{From: 0, To: 8, Start: 0, End: 4},
		},
	)

	samples, err := l.Sample(timeline.SampleOptions{Start: math.Inf(-1), Stop: math.Inf(1), Step: 1})
	require.NoError(t, err)
	require.Len(t, samples, 5)
	for i, s := range samples {
		assert.InDelta(t, float64(i), s.Offset, 1e-9)
		assert.InDelta(t, float64(2*i), s.Value, 1e-9)
	}

	samples, err = l.Sample(timeline.SampleOptions{Start: 1, Stop: 2, Step: 0.5})
	require.NoError(t, err)
	assert.Len(t, samples, 3)

	samples, err = l.Sample(timeline.SampleOptions{Start: 3, Stop: 1, Step: 1})
	require.NoError(t, err)
	assert.Empty(t, samples)

	_, err = l.Sample(timeline.SampleOptions{Start: 0, Stop: 1, Step: 0})
	require.ErrorIs(t, err, timeline.ErrInvalidSample)

	_, _, unbounded := setup(t, timeline.Options{}, static("x", []any{0, nil}, 1))
	_, err = unbounded.Sample(timeline.SampleOptions{Start: 0, Stop: math.Inf(1), Step: 1})
	require.ErrorIs(t, err, timeline.ErrInvalidSample)

	// Offsets on an open bound are outside the layer.
	_, _, open := setup(t, timeline.Options{}, static("o", []any{0, 10, false, true}, 1))
	samples, err = open.Sample(timeline.SampleOptions{Start: math.Inf(-1), Stop: math.Inf(1), Step: 5})
	require.NoError(t, err)
	assert.Equal(t, []timeline.Sample{{Value: 1, Offset: 5}, {Value: 1, Offset: 10}}, samples)

	_, _, open = setup(t, timeline.Options{}, static("o", []any{0, 10, true, false}, 1))
	samples, err = open.Sample(timeline.SampleOptions{Start: 0, Stop: 10, Step: 5})
	require.NoError(t, err)
	assert.Equal(t, []timeline.Sample{{Value: 1, Offset: 0}, {Value: 1, Offset: 5}}, samples)
}

func TestStaleRefresh(t *testing.T) {
	t.Parallel()

	q, s, l := setup(t, timeline.Options{}, static("a", []any{0, 5, true, true}, 1))
	require.NoError(t, s.Update(store.Change{Insert: []item.Item{static("b", []any{3, 8, true, true}, 2)}}))
	q.Drain()
	require.ErrorIs(t, l.Err(), nearby.ErrOverlap)
	assert.Equal(t, []string{"a"}, l.Index().Nearby(interval.Point(6)).Keys())

	// Removing a makes the source consistent again, though b was never
	// applied to the index.
	require.NoError(t, s.Update(store.Change{Remove: []string{"a"}}))
	q.Drain()
	require.NoError(t, l.Err())
	assert.Equal(t, []string{"b"}, l.Index().Nearby(interval.Point(6)).Keys())
	assert.Empty(t, l.Index().Nearby(interval.Point(1)).Keys())

	st, err := l.Query(6)
	require.NoError(t, err)
	assert.Equal(t, 2, st.Value)
}

func TestUnnormalizedSingleton(t *testing.T) {
	t.Parallel()

	for _, overlapping := range []bool{false, true} {
		_, _, l := setup(t, timeline.Options{Overlapping: overlapping}, item.Item{
			ID:   "a",
			Itv:  interval.Interval{Low: 0, High: 0, LowClosed: true},
			Kind: item.KindStatic,
			Data: item.Static{Value: "A"},
		})
		st, err := l.Query(0)
		require.NoError(t, err, "overlapping=%v", overlapping)
		assert.Equal(t, "A", st.Value, "overlapping=%v", overlapping)
		assert.Equal(t, "[0, 0]  a\n", nearby.Format(l.Regions(nearby.RegionOptions{})), "overlapping=%v", overlapping)
	}
}

func TestDerived(t *testing.T) {
	t.Parallel()

	q, s, base := setup(t, timeline.Options{Overlapping: true},
		static("a", []any{0, 10}, 1),
	)
	_, _, other := setup(t, timeline.Options{},
		static("b", []any{20, 30}, 2),
	)

	shifted := timeline.Shift(base, 100, timeline.Options{})
	merged := timeline.Merge(timeline.Options{}, shifted, other)
	occupied := timeline.Boolean(merged, nil, timeline.Options{})

	st, err := shifted.Query(105)
	require.NoError(t, err)
	assert.Equal(t, 1, st.Value)

	st, err = merged.Query(25)
	require.NoError(t, err)
	assert.Equal(t, 2, st.Value)

	st, err = occupied.Query(50)
	require.NoError(t, err)
	assert.Equal(t, false, st.Value)

	c := occupied.NewCache()
	_, err = c.Query(50)
	require.NoError(t, err)

	// A change to base reaches caches of layers derived from it, however
	// indirectly.
	require.NoError(t, s.Update(store.Change{Insert: []item.Item{static("c", []any{-60, -40}, 3)}}))
	q.Drain()
	assert.True(t, c.IsDirty())

	st, err = c.Query(50)
	require.NoError(t, err)
	assert.Equal(t, true, st.Value)

	assert.Equal(t, ""+
		"[-inf, 20)   false\n"+
		"[20, 30)     true\n"+
		"[30, 40)     false\n"+
		"[40, 60)     true\n"+
		"[60, 100)    false\n"+
		"[100, 110)   true\n"+
		"[110, +inf]  false\n",
		nearby.Format(occupied.Regions(nearby.RegionOptions{})),
	)
}
