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

// Package segment computes values over the interval of a single item.
//
// A [Segment] is built once per item, from its interval, kind and payload,
// and then queried at offsets within (or near) that interval. Segments share
// no state with each other or with the item they were built from.
package segment

import (
	"errors"
	"fmt"

	"github.com/bufbuild/timeline/interval"
	"github.com/bufbuild/timeline/item"
	"github.com/bufbuild/timeline/nearby"
)

// ErrUnsupported is returned when a segment cannot be built for an entry.
var ErrUnsupported = errors.New("segment: unsupported entry")

// State is the result of querying a [Segment].
type State struct {
	Value any
	// Whether Value changes with the offset, even if nothing else changes.
	Dynamic bool
	// The offset that was queried.
	Offset float64
}

// Segment computes the value of one item.
type Segment interface {
	Query(offset float64) State
	Interval() interval.Interval
}

// New builds the segment for an item with the given interval, kind and
// payload.
func New(itv interval.Interval, kind item.Kind, data any) (Segment, error) {
	b := base{itv: itv}
	switch kind {
	case item.KindStatic:
		if d, ok := data.(item.Static); ok {
			return &static{b, d}, nil
		}
	case item.KindMotion:
		if d, ok := data.(item.Motion); ok {
			return &motion{b, d}, nil
		}
	case item.KindTransition:
		if d, ok := data.(item.Transition); ok {
			ease, err := Easing(d.Easing)
			if err != nil {
				return nil, err
			}
			return &transition{b, d, ease}, nil
		}
	case item.KindInterpolation:
		if d, ok := data.(item.Interpolation); ok && len(d.Samples) > 0 {
			return &interpolation{b, d}, nil
		}
	default:
		return nil, fmt.Errorf("%w: kind %v", ErrUnsupported, kind)
	}
	return nil, fmt.Errorf("%w: %v payload %T", ErrUnsupported, kind, data)
}

// FromEntry builds the segment for a neighborhood center entry: an
// [item.Item], or a [nearby.Shifted] wrapping one.
func FromEntry(e nearby.Entry) (Segment, error) {
	switch e := e.(type) {
	case item.Item:
		return New(e.Itv, e.Kind, e.Data)
	case nearby.Shifted:
		inner, err := FromEntry(e.Entry)
		if err != nil {
			return nil, err
		}
		return &shifted{inner, e.Skew}, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupported, e)
	}
}

type base struct {
	itv interval.Interval
}

func (b base) Interval() interval.Interval { return b.itv }

type shifted struct {
	Segment
	skew float64
}

func (s *shifted) Query(offset float64) State {
	st := s.Segment.Query(offset - s.skew)
	st.Offset = offset
	return st
}

func (s *shifted) Interval() interval.Interval {
	return s.Segment.Interval().Shift(s.skew)
}
