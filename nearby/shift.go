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
	"github.com/bufbuild/timeline/interval"
)

// Shifted is a center entry of a [Shift] index: Entry, moved Skew units to
// the right.
type Shifted struct {
	Entry Entry
	Skew  float64
}

// Key implements [Entry]; it is the key of the underlying entry.
func (s Shifted) Key() string { return s.Entry.Key() }

// Shift returns an index that is src translated by skew: the neighborhood of
// src at o becomes the neighborhood of the new index at o + skew.
func Shift(src Index, skew float64) Index {
	return &shifted{src: src, skew: skew}
}

type shifted struct {
	src  Index
	skew float64
}

// Nearby implements [Index].
func (s *shifted) Nearby(offset interval.Endpoint) Neighborhood {
	nb := s.src.Nearby(offset.Shift(-s.skew))

	var center []Entry
	if len(nb.Center) > 0 {
		center = make([]Entry, len(nb.Center))
		for i, e := range nb.Center {
			if inner, ok := e.(Shifted); ok {
				center[i] = Shifted{Entry: inner.Entry, Skew: inner.Skew + s.skew}
				continue
			}
			center[i] = Shifted{Entry: e, Skew: s.skew}
		}
	}

	shift := func(e *interval.Endpoint) *interval.Endpoint {
		if e == nil {
			return nil
		}
		return endpoint(e.Shift(s.skew))
	}

	return Neighborhood{
		Center: center,
		Itv:    nb.Itv.Shift(s.skew),
		Left:   shift(nb.Left),
		Right:  shift(nb.Right),
		Prev:   shift(nb.Prev),
		Next:   shift(nb.Next),
	}
}
