// ordering.go
//
// Form builder and submission collection service for jam-build
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of jam-build-formsdb.
// jam-build-formsdb is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// jam-build-formsdb is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with jam-build-formsdb.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

// Package ordering keeps the display order of a form's fields.
//
// Order values are sort keys, not dense indexes: deleting a field leaves a gap
// and nothing renumbers the rest. Equal orders are tolerated and broken by
// creation time, then id, so every list sorts the same way everywhere.
package ordering

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Direction of a move.
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// ParseDirection accepts "up" or "down" in any case.
func ParseDirection(s string) (Direction, error) {
	switch d := Direction(strings.ToLower(strings.TrimSpace(s))); d {
	case Up, Down:
		return d, nil
	}
	return "", fmt.Errorf("invalid direction %q, expected up or down", s)
}

// Entry is the ordering view of a field.
type Entry struct {
	ID        string
	Order     int
	CreatedAt time.Time
}

// ErrUnknownEntry is returned when an id is not part of the list.
var ErrUnknownEntry = errors.New("entry not found in ordering")

// Less is the total order used for display and submission sequencing.
func Less(a, b Entry) bool {
	if a.Order != b.Order {
		return a.Order < b.Order
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID < b.ID
}

// Sort orders entries in place.
func Sort(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return Less(entries[i], entries[j])
	})
}

// Append returns the order for a new entry: one past the current maximum,
// or 1 for an empty list.
func Append(entries []Entry) int {
	max := 0
	for _, e := range entries {
		if e.Order > max {
			max = e.Order
		}
	}
	return max + 1
}

// Swap describes the two order writes of a move.
type Swap struct {
	Moved    Entry
	Neighbor Entry
}

// Plan finds the neighbor that the entry id swaps with when moved in
// direction d. The returned bool is false when the move is a no-op because
// the entry is already first (up) or last (down).
func Plan(entries []Entry, id string, d Direction) (Swap, bool, error) {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	Sort(sorted)

	idx := -1
	for i, e := range sorted {
		if e.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Swap{}, false, ErrUnknownEntry
	}

	var n int
	switch d {
	case Up:
		n = idx - 1
	case Down:
		n = idx + 1
	default:
		return Swap{}, false, fmt.Errorf("invalid direction %q", d)
	}
	if n < 0 || n >= len(sorted) {
		return Swap{}, false, nil
	}
	return Swap{Moved: sorted[idx], Neighbor: sorted[n]}, true, nil
}

// Colliding reports whether the swap would exchange equal orders and so
// leave the visible order unchanged.
func (s Swap) Colliding() bool {
	return s.Moved.Order == s.Neighbor.Order
}

// Resequence assigns 1..n in the current sorted order and returns the
// entries whose order changed. It is only used to repair collisions before a
// swap; gaps left by deletions are otherwise kept.
func Resequence(entries []Entry) []Entry {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	Sort(sorted)

	var changed []Entry
	for i := range sorted {
		if sorted[i].Order != i+1 {
			sorted[i].Order = i + 1
			changed = append(changed, sorted[i])
		}
	}
	return changed
}

// Distinct reports whether no two entries share an order value.
func Distinct(entries []Entry) bool {
	seen := make(map[int]struct{}, len(entries))
	for _, e := range entries {
		if _, dup := seen[e.Order]; dup {
			return false
		}
		seen[e.Order] = struct{}{}
	}
	return true
}
