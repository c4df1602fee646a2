// Package transformer defines the table-to-table transformation contract and
// an ordered Chain of transformers.
package transformer

import (
	"fmt"

	"sportetl/pkg/records"
)

// Transformer rewrites a table. Implementations may reuse the row maps of the
// input but must return a table whose Columns describe every row.
type Transformer interface {
	Apply(in records.Table) (records.Table, error)
}

// Named is implemented by transformers that want a stable name in logs and
// errors. Unnamed transformers are reported by their Go type.
type Named interface {
	Name() string
}

// NameOf returns t's Name, or its type when it does not implement Named.
func NameOf(t Transformer) string {
	if n, ok := t.(Named); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", t)
}

// StepFunc observes a completed step: the table before and after it ran.
type StepFunc func(name string, before, after records.Table)

// Chain is an ordered list of transformers.
type Chain []Transformer

// Apply runs every transformer in order and stops at the first error.
func (c Chain) Apply(in records.Table) (records.Table, error) {
	return c.Run(in, nil)
}

// Run is Apply with an optional observer called after each successful step.
func (c Chain) Run(in records.Table, observe StepFunc) (records.Table, error) {
	out := in
	for _, t := range c {
		next, err := t.Apply(out)
		if err != nil {
			return records.Table{}, fmt.Errorf("transformer %s: %w", NameOf(t), err)
		}
		if observe != nil {
			observe(NameOf(t), out, next)
		}
		out = next
	}
	return out, nil
}
