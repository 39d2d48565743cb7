// SPDX-License-Identifier: MIT

package mode

import (
	"fmt"
	"slices"
	"strings"
)

// Selection chooses which mode pairs EnumeratePairs produces.
type Selection int

const (
	// SelectAll yields every unordered 2-combination of the full list.
	SelectAll Selection = iota

	// SelectPairs yields every compatible 2-combination within the modes of interest.
	SelectPairs

	// SelectSpecific yields every compatible pairing of a mode of interest
	// with any mode of the full list.
	SelectSpecific
)

var selectionNames = [...]string{"all", "pairs", "specific"}

// String returns the lower-case tag of the selection.
func (s Selection) String() string {
	if s < 0 || int(s) >= len(selectionNames) {
		return fmt.Sprintf("Selection(%d)", int(s))
	}
	return selectionNames[s]
}

// ParseSelection maps a case-insensitive tag to a Selection.
func ParseSelection(tag string) (Selection, error) {
	t := strings.ToLower(strings.TrimSpace(tag))
	for i, name := range selectionNames {
		if t == name {
			return Selection(i), nil
		}
	}
	return 0, fmt.Errorf("ParseSelection(%q): %w", tag, ErrInvalidSelection)
}

// Pair is an ordered pair of modes; A precedes B in the full mode list.
type Pair struct {
	A, B *Supermode
}

// String renders "A-B".
func (p Pair) String() string { return p.A.String() + "-" + p.B.String() }

// pairKey is the order-independent identity of a pair (lo < hi by Key).
type pairKey struct {
	lo, hi Key
}

func newPairKey(a, b *Supermode) pairKey {
	if a.key.Compare(b.key) <= 0 {
		return pairKey{lo: a.key, hi: b.key}
	}
	return pairKey{lo: b.key, hi: a.key}
}

// EnumeratePairs generates the mode pairs requested by sel.
//
//   - SelectAll:      combinations of all (no compatibility filter).
//   - SelectPairs:    combinations of ofInterest, compatible only.
//   - SelectSpecific: ofInterest × all, compatible only.
//
// Every pair is oriented so that A appears before B in all; (a,b) and (b,a)
// collapse into the first-seen entry. A nil ofInterest is treated as empty.
//
// Errors:
//   - ErrInvalidSelection for a Selection outside the enum; no partial result.
//
// Complexity: O(|all|²) for SelectAll, O(|ofInterest|·|all|) otherwise.
func EnumeratePairs(all []*Supermode, sel Selection, ofInterest []*Supermode) ([]Pair, error) {
	var candidates []Pair
	switch sel {
	case SelectAll:
		candidates = combinations(all, nil)
	case SelectPairs:
		candidates = combinations(ofInterest, compatible)
	case SelectSpecific:
		for _, a := range ofInterest {
			for _, b := range all {
				if compatible(a, b) {
					candidates = append(candidates, Pair{A: a, B: b})
				}
			}
		}
	default:
		return nil, fmt.Errorf("EnumeratePairs: %s: %w", sel, ErrInvalidSelection)
	}

	// position in the full list decides orientation
	pos := make(map[Key]int, len(all))
	for i, m := range all {
		if _, dup := pos[m.key]; !dup {
			pos[m.key] = i
		}
	}

	seen := make(map[pairKey]struct{}, len(candidates))
	out := make([]Pair, 0, len(candidates))
	for _, p := range candidates {
		k := newPairKey(p.A, p.B)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, orient(p, pos))
	}
	return out, nil
}

func compatible(a, b *Supermode) bool { return a.IsComputationCompatible(b) }

// combinations returns every i<j pair of modes accepted by keep (nil keeps all).
func combinations(modes []*Supermode, keep func(a, b *Supermode) bool) []Pair {
	var out []Pair
	for i := 0; i < len(modes); i++ {
		for j := i + 1; j < len(modes); j++ {
			if keep == nil || keep(modes[i], modes[j]) {
				out = append(out, Pair{A: modes[i], B: modes[j]})
			}
		}
	}
	return out
}

// orient swaps p so that A precedes B in the full list. Modes not in the
// list keep their relative order after those that are.
func orient(p Pair, pos map[Key]int) Pair {
	pa, okA := pos[p.A.key]
	pb, okB := pos[p.B.key]
	switch {
	case okA && okB && pb < pa:
		return Pair{A: p.B, B: p.A}
	case !okA && okB:
		return Pair{A: p.B, B: p.A}
	}
	return p
}

func sortKeys(keys []Key) { slices.SortFunc(keys, Key.Compare) }
