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

package timeline

import (
	"errors"
	"iter"
	"log/slog"
	"slices"
	"weak"

	"github.com/bufbuild/timeline/cache"
	"github.com/bufbuild/timeline/item"
	"github.com/bufbuild/timeline/nearby"
	"github.com/bufbuild/timeline/segment"
	"github.com/bufbuild/timeline/store"
)

// ErrClosed is returned by operations on a closed [Layer].
var ErrClosed = errors.New("timeline: layer is closed")

// Options configures a [Layer].
//
// The zero value is a layer over non-overlapping items, refreshed
// incrementally, with the default combiner and no logging.
type Options struct {
	// Name identifies the layer in log output.
	Name string

	// If set, items may overlap. Otherwise a source whose items overlap is an
	// error.
	Overlapping bool

	// If set, the index is rebuilt from scratch on every change, rather than
	// having each change applied to it.
	FullRefresh bool

	// Combiner used by the caches of this layer.
	Combiner cache.Combiner

	// Logger for index refreshes. Nil discards everything.
	Logger *slog.Logger
}

func (o Options) logger(kind string) *slog.Logger {
	logger := o.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if o.Name != "" {
		logger = logger.With(slog.String("layer", o.Name))
	}
	return logger.With(slog.String("kind", kind))
}

// Layer is a queryable view of a timeline.
//
// A zero Layer is not usable; construct one with [New], or derive one from
// other layers.
type Layer struct {
	opts   Options
	logger *slog.Logger

	index     nearby.Index
	refresher nearby.Refresher // Nil for derived layers.
	source    store.Source     // Nil for derived layers.
	handle    store.Handle
	parents   []*Layer

	// Non-owning: holding a cache or a derived layer is the job of whoever
	// created it.
	caches     []weak.Pointer[cache.Cache]
	dependents []weak.Pointer[Layer]

	query  *cache.Cache
	err    error
	stale  bool // The last refresh failed; the index lags behind the source.
	closed bool
}

// New builds a layer over src and subscribes it to src's changes.
//
// Returns an [*nearby.OverlapError] if opts does not allow overlapping items
// and src's items overlap.
func New(src store.Source, opts Options) (*Layer, error) {
	var refresher nearby.Refresher
	kind := "array"
	if opts.Overlapping {
		refresher = nearby.NewSwipe(src)
		kind = "swipe"
	} else {
		refresher = nearby.NewArray(src)
	}

	if err := refresher.Refresh(nil); err != nil {
		return nil, err
	}

	l := &Layer{
		opts:      opts,
		logger:    opts.logger(kind),
		index:     refresher,
		refresher: refresher,
		source:    src,
	}
	l.handle = src.AddCallback(l.update)
	l.logger.Debug("timeline: layer created", slog.Int("items", len(src.Items())))
	return l, nil
}

func derive(kind string, opts Options, index nearby.Index, parents ...*Layer) *Layer {
	l := &Layer{
		opts:    opts,
		logger:  opts.logger(kind),
		index:   index,
		parents: parents,
	}
	for _, p := range parents {
		p.dependents = append(p.dependents, weak.Make(l))
	}
	return l
}

// Index returns the layer's index.
func (l *Layer) Index() nearby.Index { return l.index }

// Err returns the error from the most recent refresh, if it failed. After a
// failed refresh, the index keeps answering as it did before the change, and
// the next change from the source triggers a full rebuild.
func (l *Layer) Err() error { return l.err }

// NewCache returns a new cache over the layer's index. The cache is marked
// dirty whenever the layer changes, for as long as the caller keeps it.
func (l *Layer) NewCache() *cache.Cache {
	c := cache.New(l.index, l.opts.Combiner)
	l.caches = append(l.caches, weak.Make(c))
	return c
}

// Query returns the combined state of the layer at offset, through a cache
// owned by the layer.
func (l *Layer) Query(offset float64) (segment.State, error) {
	if l.closed {
		return segment.State{}, ErrClosed
	}
	if l.query == nil {
		l.query = l.NewCache()
	}
	return l.query.Query(offset)
}

// Regions returns an iterator over the neighborhoods of the layer.
func (l *Layer) Regions(opts nearby.RegionOptions) iter.Seq[nearby.Neighborhood] {
	return nearby.Regions(l.index, opts)
}

// Close stops the layer from following its source. A closed layer's index
// still answers lookups, but no longer changes.
func (l *Layer) Close() {
	if l.closed {
		return
	}
	l.closed = true
	if l.source != nil {
		l.source.RemoveCallback(l.handle)
	}
	l.logger.Debug("timeline: layer closed")
}

// update is the layer's subscription to its source.
//
// Diffs describe changes relative to the source's previous state, so once a
// refresh has failed they no longer apply to the index; the layer rebuilds
// from scratch until a refresh succeeds again.
func (l *Layer) update(diffs []item.Diff) {
	if l.opts.FullRefresh || l.stale {
		diffs = nil
	}

	if err := l.refresher.Refresh(diffs); err != nil {
		l.err = err
		l.stale = true
		l.logger.Error("timeline: index refresh failed", slog.Any("error", err))
		return
	}
	l.err = nil
	l.stale = false
	l.logger.Debug("timeline: index refreshed",
		slog.Int("diffs", len(diffs)),
		slog.Bool("full", diffs == nil),
	)
	l.invalidate()
}

// invalidate marks every live cache of l and of its dependents dirty.
func (l *Layer) invalidate() {
	var caches int
	l.caches = slices.DeleteFunc(l.caches, func(p weak.Pointer[cache.Cache]) bool {
		c := p.Value()
		if c == nil {
			return true
		}
		c.Dirty()
		caches++
		return false
	})

	var dependents []*Layer
	l.dependents = slices.DeleteFunc(l.dependents, func(p weak.Pointer[Layer]) bool {
		d := p.Value()
		if d == nil || d.closed {
			return true
		}
		dependents = append(dependents, d)
		return false
	})

	l.logger.Debug("timeline: invalidated",
		slog.Int("caches", caches),
		slog.Int("dependents", len(dependents)),
	)
	for _, d := range dependents {
		d.invalidate()
	}
}
