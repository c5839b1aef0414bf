package validation

import (
	"github.com/rgbcore/validator/schema"
	"github.com/rgbcore/validator/typesys"
)

// VerifySchema checks the structural self-consistency of schema against
// types. It lives here, not as a schema.Schema method, because the check
// needs to build validation.Failure values and schema must stay free of
// any dependency on this package to avoid an import cycle (validation
// already depends on schema for the operation-state checker).
func VerifySchema(s *schema.Schema, types typesys.TypeSystem) *Status {
	st := NewStatus()
	verifyOpSchema(st, s.Genesis, s, types)
	for _, ty := range s.SortedTransitionTypes() {
		ts := s.Transitions[ty]
		if len(ts.Inputs) == 0 {
			st.AddFailure(SchemaOpEmptyInputs{TransitionType: ty})
		}
		verifyOpSchema(st, ts.OpSchema, s, types)
	}
	for _, mt := range s.SortedMetaTypes() {
		def := s.MetaTypes[mt]
		if !types.Contains(def.SemID) {
			st.AddFailure(SchemaMetaSemIdUnknown{MetaType: mt, SemID: def.SemID})
		}
	}
	for _, gt := range s.SortedGlobalTypes() {
		def := s.GlobalTypes[gt]
		if !types.Contains(def.GlobalStateSchema.SemID) {
			st.AddFailure(SchemaGlobalSemIdUnknown{GlobalType: gt, SemID: def.GlobalStateSchema.SemID})
		}
	}
	for _, ot := range s.SortedOwnedTypes() {
		def := s.OwnedTypes[ot]
		if structured, ok := def.OwnedStateSchema.(schema.StructuredAssignSchema); ok {
			if !types.Contains(structured.SemID) {
				st.AddFailure(SchemaOwnedSemIdUnknown{AssignmentType: ot, SemID: structured.SemID})
			}
		}
	}
	return st
}

// verifyOpSchema checks that every type id an operation schema references
// resolves in s's own registries.
func verifyOpSchema(st *Status, op schema.OpSchema, s *schema.Schema, types typesys.TypeSystem) {
	_ = types
	for mt := range op.Metadata {
		if _, ok := s.MetaTypes[mt]; !ok {
			st.AddFailure(SchemaOpMetaTypeUnknown{MetaType: mt})
		}
	}
	for gt := range op.Globals {
		if _, ok := s.GlobalTypes[gt]; !ok {
			st.AddFailure(SchemaOpGlobalTypeUnknown{GlobalType: gt})
		}
	}
	for at := range op.Assignments {
		if _, ok := s.OwnedTypes[at]; !ok {
			st.AddFailure(SchemaOpAssignmentTypeUnknown{AssignmentType: at})
		}
	}
}

// CheckTypeSystemBitEquality runs the schema-phase bit-equality check: every
// semantic type the consignment's type registry carries must resolve to an
// identical descriptor in the trusted type system.
func CheckTypeSystemBitEquality(st *Status, consignmentTypes, trusted typesys.TypeSystem) {
	consignmentTypes.Iter(func(id typesys.SemId, t typesys.Type) {
		trustedType, ok := trusted.Get(id)
		if !ok || !t.Equal(trustedType) {
			st.AddFailure(TypeSystemMismatch{SemID: id})
		}
	})
}
