package cocafreq

import "slices"

// Columns selects either every column or an ordered set of names without
// duplicates. The zero value is an empty list.
type Columns struct {
	all   bool
	names []string
}

// AllColumns returns a selector for every column.
func AllColumns() Columns {
	return Columns{all: true}
}

// ListColumns returns a list selector holding names in first-seen order.
func ListColumns(names ...string) Columns {
	c := Columns{names: make([]string, 0, len(names))}
	for _, n := range names {
		c.Insert(n)
	}
	return c
}

// IsAll reports whether c selects every column.
func (c Columns) IsAll() bool {
	return c.all
}

// Names returns the listed names in insertion order; nil for All.
func (c Columns) Names() []string {
	if c.all {
		return nil
	}
	return slices.Clone(c.names)
}

// Insert adds name to the list and reports whether it was added. Inserting
// into All, or inserting a name already present, changes nothing.
func (c *Columns) Insert(name string) bool {
	if c.all || slices.Contains(c.names, name) {
		return false
	}
	c.names = append(c.names, name)
	return true
}
