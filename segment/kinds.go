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

package segment

import (
	"slices"

	"github.com/bufbuild/timeline/item"
)

type static struct {
	base
	item.Static
}

func (s *static) Query(offset float64) State {
	return State{Value: s.Value, Offset: offset}
}

type motion struct {
	base
	item.Motion
}

func (m *motion) Query(offset float64) State {
	dt := offset - m.Timestamp
	return State{
		Value:   m.Position + m.Velocity*dt + m.Acceleration*dt*dt/2,
		Dynamic: m.Velocity != 0 || m.Acceleration != 0,
		Offset:  offset,
	}
}

type transition struct {
	base
	item.Transition
	ease func(float64) float64
}

func (t *transition) Query(offset float64) State {
	var v float64
	switch {
	case offset <= t.Start && offset < t.End:
		v = t.From
	case offset >= t.End:
		v = t.To
	default:
		u := (offset - t.Start) / (t.End - t.Start)
		v = t.From + (t.To-t.From)*t.ease(u)
	}
	return State{Value: v, Dynamic: t.From != t.To, Offset: offset}
}

type interpolation struct {
	base
	item.Interpolation
}

// Query interpolates linearly between the samples bracketing offset, and
// extrapolates from the first or last pair of samples outside them.
func (p *interpolation) Query(offset float64) State {
	st := State{Dynamic: true, Offset: offset}

	s := p.Samples
	if len(s) == 1 {
		st.Value = s[0].Value
		return st
	}

	// i is the index of the first sample strictly after offset.
	i, _ := slices.BinarySearchFunc(s, offset, func(s item.Sample, o float64) int {
		if s.Offset <= o {
			return -1
		}
		return 1
	})
	i = min(max(i, 1), len(s)-1)

	a, b := s[i-1], s[i]
	if a.Offset == b.Offset {
		st.Value = b.Value
		if offset < a.Offset {
			st.Value = a.Value
		}
		return st
	}
	st.Value = a.Value + (b.Value-a.Value)*(offset-a.Offset)/(b.Offset-a.Offset)
	return st
}
