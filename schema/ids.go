// Package schema declares the immutable schema a contract is validated
// against: genesis and transition operation shapes, metadata/global/owned
// type registries, and the structural self-consistency check that ties
// them together.
package schema

// MetaType identifies a metadata field type within a schema.
type MetaType uint16

// GlobalType identifies a global state field type within a schema.
type GlobalType uint16

// AssignmentType identifies an owned-state (assignment) type within a
// schema. The same numeric space is used for transition input references.
type AssignmentType uint16

// TransitionType identifies a state-transition kind within a schema.
type TransitionType uint16

// ScriptId identifies a validator script library.
type ScriptId [32]byte

// ScriptRef points at the entrypoint a schema designates to validate one
// operation kind.
type ScriptRef struct {
	Lib   ScriptId
	Entry uint16
}

// FungibleKind enumerates the fungible-state value kinds a schema may
// declare for an owned assignment type.
type FungibleKind uint8

const (
	// Unsigned64Bit is the only fungible kind exercised by any schema
	// shipped today; RevealedState's single FungibleState variant,
	// Bits64, reports this kind from FungibleType().
	Unsigned64Bit FungibleKind = iota
	// Unsigned128Bit is reserved for a future FungibleState variant; no
	// schema in this repo declares an owned type with this kind, and no
	// RevealedState value can report it yet. Kept so a conformance fixture
	// can construct the "different fungible kind" mismatch scenario
	// without inventing a third, unregistered constant.
	Unsigned128Bit
)
