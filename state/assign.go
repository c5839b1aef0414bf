package state

import (
	"sort"

	"github.com/rgbcore/validator/schema"
	"github.com/rgbcore/validator/seal"
)

// Assign is the closed sum of ways an owned-state assignment may reveal its
// seal and state to a validator: fully revealed, seal-confidential (state
// known, seal hidden), or fully confidential (neither known).
type Assign[S seal.ExposedSeal] interface {
	isAssign()
	// StateData returns the revealed state and true, or false if this
	// assignment's state is confidential to the validator.
	StateData() (RevealedState, bool)
	// Seal returns the exposed seal and true, or false if this
	// assignment's seal is confidential to the validator.
	Seal() (S, bool)
}

// Revealed is an assignment whose seal and state are both known.
type Revealed[S seal.ExposedSeal] struct {
	SealDef S
	State   RevealedState
}

func (Revealed[S]) isAssign() {}
func (a Revealed[S]) StateData() (RevealedState, bool) { return a.State, true }
func (a Revealed[S]) Seal() (S, bool)                  { return a.SealDef, true }

// ConfidentialSeal is an assignment whose state is known but whose seal is
// blinded from the validator.
type ConfidentialSeal[S seal.ExposedSeal] struct {
	State RevealedState
}

func (ConfidentialSeal[S]) isAssign() {}
func (a ConfidentialSeal[S]) StateData() (RevealedState, bool) { return a.State, true }
func (a ConfidentialSeal[S]) Seal() (S, bool) {
	var zero S
	return zero, false
}

// Confidential is an assignment whose seal and state are both blinded from
// the validator.
type Confidential[S seal.ExposedSeal] struct{}

func (Confidential[S]) isAssign() {}
func (a Confidential[S]) StateData() (RevealedState, bool) { return nil, false }
func (a Confidential[S]) Seal() (S, bool) {
	var zero S
	return zero, false
}

// AssignsKind discriminates the three TypedAssigns variants. Every variant
// shares the same underlying shape, a list of Assign[S]; the kind says
// which state shape the items are expected to carry.
type AssignsKind uint8

const (
	KindDeclarative AssignsKind = iota
	KindFungible
	KindStructured
)

func (k AssignsKind) String() string {
	switch k {
	case KindDeclarative:
		return "declarative"
	case KindFungible:
		return "fungible"
	case KindStructured:
		return "structured"
	default:
		return "unknown"
	}
}

// TypedAssigns is the homogeneous list of assignments recorded under one
// owned-assignment type within an operation.
type TypedAssigns[S seal.ExposedSeal] struct {
	Kind  AssignsKind
	Items []Assign[S]
}

// Len reports the occurrence count the schema checker validates.
func (t TypedAssigns[S]) Len() int { return len(t.Items) }

// TypedAssignments maps an operation's owned-assignment types to their
// assignment lists.
type TypedAssignments[S seal.ExposedSeal] map[schema.AssignmentType]TypedAssigns[S]

// SortedKeys returns m's keys in ascending numeric order.
func (m TypedAssignments[S]) SortedKeys() []schema.AssignmentType {
	out := make([]schema.AssignmentType, 0, len(m))
	for ty := range m {
		out = append(out, ty)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
