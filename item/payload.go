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

package item

// Static is the payload of a [KindStatic] item.
type Static struct {
	Value any
}

// Motion is the payload of a [KindMotion] item: a position moving with
// constant velocity and acceleration, as observed at Timestamp.
type Motion struct {
	Position     float64
	Velocity     float64
	Acceleration float64
	Timestamp    float64
}

// Transition is the payload of a [KindTransition] item: the value moves from
// From to To between the offsets Start and End, shaped by Easing.
type Transition struct {
	From, To   float64
	Start, End float64
	Easing     Easing
}

// Interpolation is the payload of a [KindInterpolation] item.
type Interpolation struct {
	Samples []Sample // Sorted by Offset.
}

// Sample is a value observed at an offset.
type Sample struct {
	Value  float64
	Offset float64
}

// Easing names a transition shape.
type Easing string

const (
	Linear    Easing = "linear"
	EaseIn    Easing = "ease-in"
	EaseOut   Easing = "ease-out"
	EaseInOut Easing = "ease-in-out"
)

// Valid returns whether e is one of the known easings. The empty easing is
// valid and means [Linear].
func (e Easing) Valid() bool {
	switch e {
	case "", Linear, EaseIn, EaseOut, EaseInOut:
		return true
	default:
		return false
	}
}
