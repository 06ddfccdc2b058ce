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
	"iter"
	"strings"

	"github.com/rivo/uniseg"
)

// Format renders a sequence of neighborhoods as text, one region per line:
// the region's interval, then the keys of its center, comma-separated, or a
// dash for an empty center. Keys start in the same column on every line.
func Format(seq iter.Seq[Neighborhood]) string {
	type row struct{ itv, keys string }
	var (
		rows  []row
		width int
	)
	for nb := range seq {
		r := row{itv: nb.Itv.String(), keys: "-"}
		if !nb.Empty() {
			r.keys = strings.Join(nb.Keys(), ",")
		}
		width = max(width, uniseg.StringWidth(r.itv))
		rows = append(rows, r)
	}

	var b strings.Builder
	for _, r := range rows {
		b.WriteString(r.itv)
		b.WriteString(strings.Repeat(" ", width-uniseg.StringWidth(r.itv)+2))
		b.WriteString(r.keys)
		b.WriteByte('\n')
	}
	return b.String()
}
