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
	"strconv"

	"github.com/bufbuild/timeline/interval"
	"github.com/bufbuild/timeline/item"
)

// Condition computes a boolean from the center of a neighborhood.
type Condition func(center []Entry) bool

// Occupied is the default [Condition] of [Boolean]: whether the center is
// non-empty.
func Occupied(center []Entry) bool { return len(center) > 0 }

// Boolean returns an index that collapses src into regions over which cond
// is constant. A nil cond means [Occupied].
//
// Every neighborhood of the result has exactly one center entry: a static
// [item.Item] whose ID is "true" or "false" and whose value is the
// corresponding bool. Adjacent regions always carry different values.
func Boolean(src Index, cond Condition) Index {
	if cond == nil {
		cond = Occupied
	}
	return &boolean{src: src, cond: cond}
}

type boolean struct {
	src  Index
	cond Condition
}

// Nearby implements [Index].
func (b *boolean) Nearby(offset interval.Endpoint) Neighborhood {
	nb := b.src.Nearby(offset)
	v := b.cond(nb.Center)
	differs := func(nb Neighborhood) bool { return b.cond(nb.Center) != v }

	var left, right *interval.Endpoint
	if r, ok := FindRegion(b.src, nb, Forward, differs); ok {
		low, _ := interval.Bounds(r.Itv)
		right = endpoint(low)
	}
	if l, ok := FindRegion(b.src, nb, Backward, differs); ok {
		_, high := interval.Bounds(l.Itv)
		left = endpoint(high)
	}

	low, high := interval.NegInf, interval.PosInf
	if left != nil {
		low = interval.MustFlip(*left, interval.Low)
	}
	if right != nil {
		high = interval.MustFlip(*right, interval.High)
	}
	itv, err := interval.FromEndpoints(low, high)
	if err != nil {
		panic("nearby: inconsistent boolean region: " + err.Error())
	}

	return Neighborhood{
		Center: []Entry{item.Item{
			ID:   strconv.FormatBool(v),
			Itv:  itv,
			Kind: item.KindStatic,
			Data: item.Static{Value: v},
		}},
		Itv:   itv,
		Left:  left,
		Right: right,
		Prev:  left,
		Next:  right,
	}
}
