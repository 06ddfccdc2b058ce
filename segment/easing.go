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
	"fmt"

	"github.com/bufbuild/timeline/item"
)

// Easing returns the easing function for e. It maps [0, 1] onto [0, 1].
func Easing(e item.Easing) (func(float64) float64, error) {
	switch e {
	case "", item.Linear:
		return linear, nil
	case item.EaseIn:
		return easeIn, nil
	case item.EaseOut:
		return easeOut, nil
	case item.EaseInOut:
		return easeInOut, nil
	default:
		return nil, fmt.Errorf("%w: easing %q", ErrUnsupported, e)
	}
}

func linear(u float64) float64 { return u }
func easeIn(u float64) float64 { return u * u }
func easeOut(u float64) float64 { return 1 - easeIn(1-u) }

func easeInOut(u float64) float64 {
	if u < 0.5 {
		return easeIn(2*u) / 2
	}
	return 1 - easeIn(2*(1-u))/2
}
