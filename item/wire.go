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

import (
	"cmp"
	"fmt"
	"math"
	"reflect"
	"slices"

	"google.golang.org/protobuf/types/known/structpb"
	"gopkg.in/yaml.v3"

	"github.com/bufbuild/timeline/interval"
)

// FromMap decodes the wire shape of an item:
//
//	{id: string, itv: interval-like, kind: string, data: {...}}
//
// itv accepts anything [interval.FromInput] does. data depends on kind:
//
//	static:        {value: any}
//	motion:        {p0, v0, a0, t0: number}
//	transition:    {v0, v1, t0, t1: number, easing: string}
//	interpolation: {samples: [[value, offset], ...]}
//
// Missing numbers default to zero.
func FromMap(m map[string]any) (Item, error) {
	var it Item
	id, ok := m["id"].(string)
	if !ok || id == "" {
		return it, fmt.Errorf("%w: missing or non-string id", ErrInvalidItem)
	}
	it.ID = id

	itv, err := interval.FromInput(m["itv"])
	if err != nil {
		return it, fmt.Errorf("%w %q: %w", ErrInvalidItem, id, err)
	}
	it.Itv = itv

	kind, _ := m["kind"].(string)
	if kind == "" {
		kind = KindStatic.String()
	}
	if it.Kind, err = ParseKind(kind); err != nil {
		return it, fmt.Errorf("item %q: %w", id, err)
	}

	data, _ := m["data"].(map[string]any)
	d := decoder{id: id, data: data}
	switch it.Kind {
	case KindStatic:
		it.Data = Static{Value: data["value"]}
	case KindMotion:
		it.Data = Motion{
			Position:     d.number("p0"),
			Velocity:     d.number("v0"),
			Acceleration: d.number("a0"),
			Timestamp:    d.number("t0"),
		}
	case KindTransition:
		easing, _ := data["easing"].(string)
		it.Data = Transition{
			From:   d.number("v0"),
			To:     d.number("v1"),
			Start:  d.number("t0"),
			End:    d.number("t1"),
			Easing: Easing(easing),
		}
	case KindInterpolation:
		it.Data = Interpolation{Samples: d.samples("samples")}
	}
	if d.err != nil {
		return it, d.err
	}

	return it, it.Validate()
}

// UnmarshalYAML implements [yaml.Unmarshaler] using the wire shape described
// in [FromMap].
func (it *Item) UnmarshalYAML(node *yaml.Node) error {
	var m map[string]any
	if err := node.Decode(&m); err != nil {
		return err
	}
	decoded, err := FromMap(m)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*it = decoded
	return nil
}

// ParseYAML decodes a YAML (or JSON) list of items.
func ParseYAML(data []byte) ([]Item, error) {
	var items []Item
	if err := yaml.Unmarshal(data, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// FromStruct decodes an item carried as a google.protobuf.Struct.
func FromStruct(s *structpb.Struct) (Item, error) {
	return FromMap(s.AsMap())
}

// ToStruct encodes it as a google.protobuf.Struct, in the shape accepted by
// [FromStruct].
func (it Item) ToStruct() (*structpb.Struct, error) {
	if err := it.Validate(); err != nil {
		return nil, err
	}

	var data map[string]any
	switch d := it.Data.(type) {
	case Static:
		data = map[string]any{"value": d.Value}
	case Motion:
		data = map[string]any{"p0": d.Position, "v0": d.Velocity, "a0": d.Acceleration, "t0": d.Timestamp}
	case Transition:
		data = map[string]any{"v0": d.From, "v1": d.To, "t0": d.Start, "t1": d.End, "easing": string(d.Easing)}
	case Interpolation:
		samples := make([]any, len(d.Samples))
		for i, s := range d.Samples {
			samples[i] = []any{s.Value, s.Offset}
		}
		data = map[string]any{"samples": samples}
	}

	return structpb.NewStruct(map[string]any{
		"id":   it.ID,
		"itv":  []any{it.Itv.Low, it.Itv.High, it.Itv.LowClosed, it.Itv.HighClosed},
		"kind": it.Kind.String(),
		"data": data,
	})
}

// decoder accumulates the first error encountered while reading a payload.
type decoder struct {
	id   string
	data map[string]any
	err  error
}

func (d *decoder) fail(format string, args ...any) {
	if d.err == nil {
		d.err = fmt.Errorf("%w %q: %s", ErrInvalidItem, d.id, fmt.Sprintf(format, args...))
	}
}

func (d *decoder) number(key string) float64 {
	v, ok := d.data[key]
	if !ok || v == nil {
		return 0
	}
	f, ok := toFloat(v)
	if !ok {
		d.fail("%s is not a number", key)
	}
	return f
}

func (d *decoder) samples(key string) []Sample {
	raw, ok := d.data[key].([]any)
	if !ok {
		d.fail("%s is not a list", key)
		return nil
	}

	samples := make([]Sample, 0, len(raw))
	for i, r := range raw {
		var value, offset any
		switch r := r.(type) {
		case []any:
			if len(r) != 2 {
				d.fail("%s[%d] is not a [value, offset] pair", key, i)
				return nil
			}
			value, offset = r[0], r[1]
		case map[string]any:
			value, offset = r["value"], r["offset"]
		default:
			d.fail("%s[%d] has unsupported shape %T", key, i, r)
			return nil
		}

		v, ok1 := toFloat(value)
		o, ok2 := toFloat(offset)
		if !ok1 || !ok2 {
			d.fail("%s[%d] is not numeric", key, i)
			return nil
		}
		samples = append(samples, Sample{Value: v, Offset: o})
	}

	slices.SortStableFunc(samples, func(a, b Sample) int {
		return cmp.Compare(a.Offset, b.Offset)
	})
	return samples
}

func toFloat(v any) (float64, bool) {
	r := reflect.ValueOf(v)
	switch r.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(r.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(r.Uint()), true
	case reflect.Float32, reflect.Float64:
		return r.Float(), !math.IsNaN(r.Float())
	default:
		return 0, false
	}
}
