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
	"fmt"
	"math"

	"github.com/bufbuild/timeline/cache"
	"github.com/bufbuild/timeline/interval"
	"github.com/bufbuild/timeline/nearby"
)

// ErrInvalidSample is returned by [Layer.Sample] for unusable options.
var ErrInvalidSample = errors.New("timeline: invalid sample range")

// SampleOptions configures [Layer.Sample].
type SampleOptions struct {
	// The range to sample. It is clamped to the range between the first and
	// last non-empty regions of the layer, so infinite bounds sample
	// everything.
	Start, Stop float64

	// Distance between samples. Must be positive.
	Step float64
}

// Sample is the value of a layer at one offset.
type Sample struct {
	Value  any
	Offset float64
}

// Sample queries the layer at Start, Start + Step, Start + 2*Step, and so on,
// up to and including Stop. Offsets outside the layer's first and last
// non-empty regions are skipped.
//
// Returns no samples if the layer is empty or the clamped range is empty,
// and [ErrInvalidSample] if the step is not positive or the clamped range is
// unbounded.
func (l *Layer) Sample(opts SampleOptions) ([]Sample, error) {
	if l.closed {
		return nil, ErrClosed
	}
	if !(opts.Step > 0) || math.IsNaN(opts.Start) || math.IsNaN(opts.Stop) {
		return nil, fmt.Errorf("%w: %+v", ErrInvalidSample, opts)
	}

	first, ok := nearby.First(l.index)
	if !ok {
		return nil, nil
	}
	last, _ := nearby.Last(l.index)

	start := max(opts.Start, first.Value)
	stop := min(opts.Stop, last.Value)
	if math.IsInf(start, 0) || math.IsInf(stop, 0) || math.IsInf(opts.Step, 0) {
		return nil, fmt.Errorf("%w: cannot step from %v to %v", ErrInvalidSample, start, stop)
	}
	if start > stop {
		return nil, nil
	}

	var samples []Sample
	c := cache.New(l.index, l.opts.Combiner)
	for i := 0; ; i++ {
		offset := start + float64(i)*opts.Step
		if offset > stop {
			break
		}
		// first and last may sit just inside an open bound; the value itself
		// is then outside the layer.
		if p := interval.Point(offset); interval.Less(p, first) || interval.Greater(p, last) {
			continue
		}

		st, err := c.Query(offset)
		if err != nil {
			return samples, err
		}
		samples = append(samples, Sample{Value: st.Value, Offset: offset})
	}
	return samples, nil
}
