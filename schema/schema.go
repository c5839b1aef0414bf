package schema

import (
	"sort"

	"github.com/rgbcore/validator/occurrence"
	"github.com/rgbcore/validator/typesys"
)

// MetaSchema lists the metadata types an operation kind may carry.
type MetaSchema map[MetaType]struct{}

// GlobalSchema maps a global state type to its occurrence bound within one
// operation.
type GlobalSchema map[GlobalType]occurrence.Occurrence

// AssignmentsSchema maps an owned-assignment (or, for a transition's
// Inputs field, a referenced-assignment) type to its occurrence bound.
type AssignmentsSchema map[AssignmentType]occurrence.Occurrence

// OwnedStateSchema is the closed sum describing what shape of state an
// owned-assignment type carries: no state, a fungible value of a declared
// kind, or a structured value of a declared semantic type.
type OwnedStateSchema interface {
	isOwnedStateSchema()
	// StateTypeName identifies the variant for StateTypeMismatch failures.
	StateTypeName() string
}

// DeclarativeAssignSchema declares an owned-assignment type that carries no
// state at all (presence of the assignment is the only signal).
type DeclarativeAssignSchema struct{}

func (DeclarativeAssignSchema) isOwnedStateSchema()   {}
func (DeclarativeAssignSchema) StateTypeName() string { return "declarative" }

// FungibleAssignSchema declares an owned-assignment type that must carry a
// fungible value of the given kind.
type FungibleAssignSchema struct{ Kind FungibleKind }

func (FungibleAssignSchema) isOwnedStateSchema()   {}
func (FungibleAssignSchema) StateTypeName() string { return "fungible" }

// StructuredAssignSchema declares an owned-assignment type that must carry
// a binary payload strict-deserializing to the given semantic type.
type StructuredAssignSchema struct{ SemID typesys.SemId }

func (StructuredAssignSchema) isOwnedStateSchema()   {}
func (StructuredAssignSchema) StateTypeName() string { return "structured" }

// MetaTypeDef declares the semantic type a metadata field's payload must
// strict-deserialize to.
type MetaTypeDef struct {
	SemID typesys.SemId
}

// GlobalStateSchema is the per-type semantic id plus the maximum number of
// repetitions of that type allowed within one operation (up to 2^32-1,
// independent of the occurrence bound, which is capped at u16).
type GlobalStateSchema struct {
	SemID    typesys.SemId
	MaxItems uint32
}

// GlobalTypeDef declares a global state field's schema.
type GlobalTypeDef struct {
	GlobalStateSchema GlobalStateSchema
}

// OwnedTypeDef declares an owned-assignment type's schema. Only the
// Structured variant of OwnedStateSchema carries a semantic id of its
// own; Declarative and Fungible assignments have no payload to resolve
// against the type system.
type OwnedTypeDef struct {
	OwnedStateSchema OwnedStateSchema
}

// OpSchema is the shape shared by genesis and transitions: which
// metadata/global/owned types may appear, and the validator script
// designated to run after structural checks pass.
type OpSchema struct {
	Metadata    MetaSchema
	Globals     GlobalSchema
	Assignments AssignmentsSchema
	Validator   *ScriptRef
}

// TransitionSchema is an OpSchema plus the mandatory, non-empty set of
// input-assignment types a transition of this kind must consume.
type TransitionSchema struct {
	OpSchema
	Inputs AssignmentsSchema
}

// Schema is the immutable, per-contract declaration the validator checks
// every operation against.
type Schema struct {
	Genesis     OpSchema
	Transitions map[TransitionType]TransitionSchema
	MetaTypes   map[MetaType]MetaTypeDef
	GlobalTypes map[GlobalType]GlobalTypeDef
	OwnedTypes  map[AssignmentType]OwnedTypeDef
}

// SortedTransitionTypes returns the schema's declared transition types in
// ascending numeric order, the canonical iteration order consensus code
// must use when walking the transitions registry.
func (s *Schema) SortedTransitionTypes() []TransitionType {
	out := make([]TransitionType, 0, len(s.Transitions))
	for ty := range s.Transitions {
		out = append(out, ty)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// SortedMetaTypes returns the schema's declared metadata types in
// ascending numeric order.
func (s *Schema) SortedMetaTypes() []MetaType {
	out := make([]MetaType, 0, len(s.MetaTypes))
	for ty := range s.MetaTypes {
		out = append(out, ty)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// SortedGlobalTypes returns the schema's declared global state types in
// ascending numeric order.
func (s *Schema) SortedGlobalTypes() []GlobalType {
	out := make([]GlobalType, 0, len(s.GlobalTypes))
	for ty := range s.GlobalTypes {
		out = append(out, ty)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// SortedOwnedTypes returns the schema's declared owned-assignment types in
// ascending numeric order.
func (s *Schema) SortedOwnedTypes() []AssignmentType {
	out := make([]AssignmentType, 0, len(s.OwnedTypes))
	for ty := range s.OwnedTypes {
		out = append(out, ty)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Keys returns m's keys in ascending numeric order.
func (m MetaSchema) Keys() []MetaType {
	out := make([]MetaType, 0, len(m))
	for ty := range m {
		out = append(out, ty)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Keys returns g's keys in ascending numeric order.
func (g GlobalSchema) Keys() []GlobalType {
	out := make([]GlobalType, 0, len(g))
	for ty := range g {
		out = append(out, ty)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Keys returns a's keys in ascending numeric order.
func (a AssignmentsSchema) Keys() []AssignmentType {
	out := make([]AssignmentType, 0, len(a))
	for ty := range a {
		out = append(out, ty)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
