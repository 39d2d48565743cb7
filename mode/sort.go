// SPDX-License-Identifier: MIT

package mode

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// SortMethod is the ordering applied by Sort.
type SortMethod int

const (
	// SortBeta orders by beta at the last slice, descending.
	SortBeta SortMethod = iota

	// SortSymmetryBeta orders by solver number ascending, then by beta at
	// the last slice descending.
	SortSymmetryBeta
)

var sortMethodNames = [...]string{"beta", "symmetry+beta"}

// String returns the tag accepted by ParseSortMethod.
func (s SortMethod) String() string {
	if s < 0 || int(s) >= len(sortMethodNames) {
		return fmt.Sprintf("SortMethod(%d)", int(s))
	}
	return sortMethodNames[s]
}

// ParseSortMethod maps "beta" or "symmetry+beta" (any case) to a SortMethod.
func ParseSortMethod(tag string) (SortMethod, error) {
	t := strings.ToLower(strings.TrimSpace(tag))
	for i, name := range sortMethodNames {
		if t == name {
			return SortMethod(i), nil
		}
	}
	return 0, fmt.Errorf("ParseSortMethod(%q): %w", tag, ErrUnknownSortMethod)
}

// Sort orders a copy of modes by method and reassigns ModeNumber 0..len-1
// in the new order, so retained modes get 0..k-1. It returns the first
// keepOnly modes; keepOnly <= 0 or > len(modes) keeps them all.
// The input slice itself is not reordered.
//
// Errors:
//   - ErrUnknownSortMethod for a method outside the enum; nothing is mutated.
//
// Complexity: O(m log m).
func Sort(modes []*Supermode, method SortMethod, keepOnly int) ([]*Supermode, error) {
	var less func(a, b *Supermode) int
	switch method {
	case SortBeta:
		less = byLastBetaDesc
	case SortSymmetryBeta:
		less = func(a, b *Supermode) int {
			if c := cmp.Compare(a.key.Solver, b.key.Solver); c != 0 {
				return c
			}
			return byLastBetaDesc(a, b)
		}
	default:
		return nil, fmt.Errorf("Sort: %s: %w", method, ErrUnknownSortMethod)
	}

	sorted := slices.Clone(modes)
	slices.SortStableFunc(sorted, less)

	for i, m := range sorted {
		m.ModeNumber = i
	}

	if keepOnly <= 0 || keepOnly > len(sorted) {
		keepOnly = len(sorted)
	}
	return sorted[:keepOnly:keepOnly], nil
}

func byLastBetaDesc(a, b *Supermode) int {
	return cmp.Compare(b.LastBeta(), a.LastBeta())
}
