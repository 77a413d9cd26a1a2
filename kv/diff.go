package kv

import (
	"fmt"
	"strings"
)

// Change describes an option whose value differs between two sets.
type Change struct {
	Key      string `json:"key"`
	OldValue string `json:"old_value"`
	NewValue string `json:"new_value"`
}

// Diff describes the differences between two configurations.
//
// This is useful for:
//   - Previewing a cascade before writing it (dry runs)
//   - Reporting what an enable/disable/set command changed
//
// Entries are ordered by their position in the updated set (Added, Changed) or
// the old set (Removed).
type Diff struct {
	// Added contains pairs present in the updated set but not in old.
	Added []Pair `json:"added,omitempty"`

	// Removed contains pairs present in old but not in the updated set.
	Removed []Pair `json:"removed,omitempty"`

	// Changed contains keys whose value differs.
	Changed []Change `json:"changed,omitempty"`
}

// IsEmpty returns true if there are no differences.
func (d *Diff) IsEmpty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Changed) == 0
}

// TotalChanges returns the number of added, removed and changed keys.
func (d *Diff) TotalChanges() int {
	return len(d.Added) + len(d.Removed) + len(d.Changed)
}

// Op marks the kind of change on a rendered diff line.
type Op byte

// Diff line markers.
const (
	OpAdd    Op = '+'
	OpChange Op = '~'
	OpRemove Op = '-'
)

// Line is one rendered change.
type Line struct {
	Op   Op
	Text string
}

func (l Line) String() string {
	return string(l.Op) + " " + l.Text
}

// Lines renders the diff one change per line: additions, then changes,
// then removals.
//
//	+ KEY = value
//	~ KEY: old -> new
//	- KEY = value
func (d *Diff) Lines() []Line {
	lines := make([]Line, 0, d.TotalChanges())
	for _, p := range d.Added {
		lines = append(lines, Line{OpAdd, fmt.Sprintf("%s = %s", p.Key, p.Value)})
	}
	for _, c := range d.Changed {
		lines = append(lines, Line{OpChange, fmt.Sprintf("%s: %s -> %s", c.Key, c.OldValue, c.NewValue)})
	}
	for _, p := range d.Removed {
		lines = append(lines, Line{OpRemove, fmt.Sprintf("%s = %s", p.Key, p.Value)})
	}
	return lines
}

// String joins Lines with a trailing newline after each.
func (d *Diff) String() string {
	var b strings.Builder
	for _, l := range d.Lines() {
		b.WriteString(l.String())
		b.WriteByte('\n')
	}
	return b.String()
}

// Compare computes the difference between two sets. A nil set is treated
// as empty.
func Compare(old, updated *Set) *Diff {
	if old == nil {
		old = &Set{}
	}
	if updated == nil {
		updated = &Set{}
	}

	diff := &Diff{}
	for _, p := range updated.pairs {
		oldValue, existed := old.Get(p.Key)
		switch {
		case !existed:
			diff.Added = append(diff.Added, p)
		case oldValue != p.Value:
			diff.Changed = append(diff.Changed, Change{Key: p.Key, OldValue: oldValue, NewValue: p.Value})
		}
	}
	for _, p := range old.pairs {
		if !updated.Has(p.Key) {
			diff.Removed = append(diff.Removed, p)
		}
	}
	return diff
}
