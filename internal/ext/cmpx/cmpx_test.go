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

package cmpx_test

import (
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bufbuild/timeline/internal/ext/cmpx"
)

func TestOrderings(t *testing.T) {
	t.Parallel()

	type pair struct {
		n int
		s string
	}
	pairs := []pair{{2, "b"}, {1, "z"}, {2, "a"}, {1, "y"}}

	slices.SortFunc(pairs, cmpx.Join(
		cmpx.Key(func(p pair) int { return p.n }),
		cmpx.Key(func(p pair) string { return p.s }),
	))
	assert.Equal(t, []pair{{1, "y"}, {1, "z"}, {2, "a"}, {2, "b"}}, pairs)

	caseless := cmpx.Map(strings.ToUpper, strings.Compare)
	assert.Equal(t, cmpx.Equal, caseless("abc", "ABC"))
	assert.Equal(t, cmpx.Less, caseless("abc", "abd"))
	assert.Equal(t, cmpx.Equal, cmpx.Join[int]()(1, 2))
}
