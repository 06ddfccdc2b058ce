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
	"github.com/bufbuild/timeline/nearby"
)

// Merge returns a layer whose center at every offset is the union of the
// centers of layers there.
func Merge(opts Options, layers ...*Layer) *Layer {
	indices := make([]nearby.Index, len(layers))
	for i, l := range layers {
		indices[i] = l.index
	}
	return derive("merge", opts, nearby.Merge(indices...), layers...)
}

// Shift returns layer, translated by skew.
func Shift(layer *Layer, skew float64, opts Options) *Layer {
	return derive("shift", opts, nearby.Shift(layer.index, skew), layer)
}

// Boolean returns a layer with one region per maximal run of layer's regions
// over which cond is constant. A nil cond tests for a non-empty center.
//
// The value of the layer at an offset is the value of cond there.
func Boolean(layer *Layer, cond nearby.Condition, opts Options) *Layer {
	return derive("boolean", opts, nearby.Boolean(layer.index, cond), layer)
}
