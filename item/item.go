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

// Package item defines the entries of a backing collection: an identifier,
// the interval over which the entry applies, and a kind-tagged payload that
// describes how its value evolves over that interval.
package item

import (
	"errors"
	"fmt"

	"github.com/bufbuild/timeline/interval"
)

// ErrInvalidItem is wrapped by errors describing malformed items.
var ErrInvalidItem = errors.New("invalid item")

// Kind selects how an item's value is computed.
type Kind uint8

const (
	KindStatic        Kind = iota // A constant value.
	KindMotion                    // Position under constant acceleration.
	KindTransition                // An eased blend between two values.
	KindInterpolation             // Piecewise-linear interpolation of samples.
)

var kindNames = [...]string{
	KindStatic:        "static",
	KindMotion:        "motion",
	KindTransition:    "transition",
	KindInterpolation: "interpolation",
}

// String implements [fmt.Stringer].
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind is the inverse of [Kind.String].
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown kind %q", ErrInvalidItem, s)
}

// Item is one entry of a backing collection.
//
// Items are treated as immutable values: to change an item, replace it with
// a new one carrying the same ID.
type Item struct {
	ID   string
	Itv  interval.Interval
	Kind Kind
	// Data is the kind-specific payload: one of [Static], [Motion],
	// [Transition] or [Interpolation], matching Kind.
	Data any
}

// Key returns the item's ID.
func (it Item) Key() string { return it.ID }

// Validate checks that it has an ID, a normalized interval and a payload
// matching its kind. Use [Item.Normalize] to normalize the interval first.
func (it Item) Validate() error {
	if it.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidItem)
	}
	itv, err := interval.FromInput(it.Itv)
	if err != nil {
		return fmt.Errorf("%w %q: %w", ErrInvalidItem, it.ID, err)
	}
	if itv != it.Itv {
		return fmt.Errorf("%w %q: interval %v is not normalized (want %v)", ErrInvalidItem, it.ID, it.Itv, itv)
	}

	var ok bool
	switch it.Kind {
	case KindStatic:
		_, ok = it.Data.(Static)
	case KindMotion:
		_, ok = it.Data.(Motion)
	case KindTransition:
		var t Transition
		if t, ok = it.Data.(Transition); ok && !t.Easing.Valid() {
			return fmt.Errorf("%w %q: unknown easing %q", ErrInvalidItem, it.ID, t.Easing)
		}
	case KindInterpolation:
		var p Interpolation
		if p, ok = it.Data.(Interpolation); ok && len(p.Samples) == 0 {
			return fmt.Errorf("%w %q: interpolation without samples", ErrInvalidItem, it.ID)
		}
	default:
		return fmt.Errorf("%w %q: unknown kind %v", ErrInvalidItem, it.ID, it.Kind)
	}
	if !ok {
		return fmt.Errorf("%w %q: %v item has %T payload", ErrInvalidItem, it.ID, it.Kind, it.Data)
	}
	return nil
}

// Normalize returns it with its interval normalized as by
// [interval.FromInput]: a singleton is closed on both sides, and so is an
// infinite side.
func (it Item) Normalize() (Item, error) {
	itv, err := interval.FromInput(it.Itv)
	if err != nil {
		return it, fmt.Errorf("%w %q: %w", ErrInvalidItem, it.ID, err)
	}
	it.Itv = itv
	return it, nil
}

// Diff describes the change of a single item across one update of a backing
// collection. Old is nil for insertions and New is nil for removals.
type Diff struct {
	ID       string
	Old, New *Item
}

// String implements [fmt.Stringer].
func (d Diff) String() string {
	switch {
	case d.Old == nil:
		return fmt.Sprintf("+%s %v", d.ID, d.New.Itv)
	case d.New == nil:
		return fmt.Sprintf("-%s %v", d.ID, d.Old.Itv)
	default:
		return fmt.Sprintf("~%s %v -> %v", d.ID, d.Old.Itv, d.New.Itv)
	}
}
