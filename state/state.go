// Package state models operations (genesis and transitions), the typed
// assignments they carry, and the fungible/structured/declarative state
// those assignments reveal.
package state

import (
	"sort"

	"github.com/rgbcore/validator/idtype"
	"github.com/rgbcore/validator/schema"
)

// Metadata maps a metadata type to its binary payload.
type Metadata map[schema.MetaType][]byte

// SortedKeys returns m's keys in ascending numeric order.
func (m Metadata) SortedKeys() []schema.MetaType {
	out := make([]schema.MetaType, 0, len(m))
	for ty := range m {
		out = append(out, ty)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// GlobalState maps a global type to its ordered list of binary payloads;
// order is semantically meaningful and is never a set.
type GlobalState map[schema.GlobalType][][]byte

// SortedKeys returns g's keys in ascending numeric order.
func (g GlobalState) SortedKeys() []schema.GlobalType {
	out := make([]schema.GlobalType, 0, len(g))
	for ty := range g {
		out = append(out, ty)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Opout references the No-th assignment of type Ty inside operation Op.
type Opout struct {
	Op idtype.OpId
	Ty schema.AssignmentType
	No uint16
}

// Compare orders opouts by op id, then assignment type, then index — the
// canonical order a transition's inputs are sorted into before hashing.
func (o Opout) Compare(other Opout) int {
	if c := o.Op.Compare(other.Op); c != 0 {
		return c
	}
	if o.Ty != other.Ty {
		if o.Ty < other.Ty {
			return -1
		}
		return 1
	}
	switch {
	case o.No < other.No:
		return -1
	case o.No > other.No:
		return 1
	default:
		return 0
	}
}

// FungibleKind mirrors schema.FungibleKind to avoid importing schema in
// call sites that only deal with revealed values.
type FungibleKind = schema.FungibleKind

// FungibleValue is the closed sum of fungible state values. Only one
// variant, Bits64, is populated today.
type FungibleValue interface {
	isFungibleValue()
	// FungibleType reports the kind this value claims to be, compared by
	// the operation-state checker against the schema's declared kind.
	FungibleType() FungibleKind
}

// Bits64 is a 64-bit unsigned fungible value.
type Bits64 uint64

func (Bits64) isFungibleValue()           {}
func (Bits64) FungibleType() FungibleKind { return schema.Unsigned64Bit }

// RevealedState is the closed sum of state an assignment may reveal.
type RevealedState interface {
	isRevealedState()
	// StateTypeName identifies the variant for StateTypeMismatch failures.
	StateTypeName() string
}

// VoidState carries no data; used by declarative assignments.
type VoidState struct{}

func (VoidState) isRevealedState()     {}
func (VoidState) StateTypeName() string { return "void" }

// FungibleRevealed carries a fungible value.
type FungibleRevealed struct{ Value FungibleValue }

func (FungibleRevealed) isRevealedState()     {}
func (FungibleRevealed) StateTypeName() string { return "fungible" }

// StructuredRevealed carries a structured binary payload.
type StructuredRevealed struct{ Data []byte }

func (StructuredRevealed) isRevealedState()     {}
func (StructuredRevealed) StateTypeName() string { return "structured" }
