package validation

import (
	"github.com/rgbcore/validator/consignment"
	"github.com/rgbcore/validator/cryptoprovider"
	"github.com/rgbcore/validator/idtype"
	"github.com/rgbcore/validator/schema"
	"github.com/rgbcore/validator/seal"
	"github.com/rgbcore/validator/state"
	"github.com/rgbcore/validator/typesys"
	"github.com/rgbcore/validator/vm"
)

// opSchemaFor picks the op-schema, and for a transition the inputs
// schema, that this operation must be checked against. ok is false when
// the operation should be aborted outright.
func opSchemaFor(st *Status, s *schema.Schema, opid idtype.OpId, op state.Operation[seal.Graph]) (opSchema schema.OpSchema, inputsSchema schema.AssignmentsSchema, transitionType schema.TransitionType, isTransition bool, ok bool) {
	switch o := op.(type) {
	case state.Genesis[seal.Graph]:
		if o.SealClosingStrategy != seal.FirstOpretOrTapret {
			st.AddFailure(SchemaUnknownSealClosingStrategy{OpID: opid})
			return schema.OpSchema{}, nil, 0, false, false
		}
		return s.Genesis, nil, 0, false, true
	case state.Transition[seal.Graph]:
		ts, present := s.Transitions[o.TransitionType]
		if !present {
			st.AddFailure(SchemaUnknownTransitionType{OpID: opid, Type: o.TransitionType})
			return schema.OpSchema{}, nil, 0, true, false
		}
		return ts.OpSchema, ts.Inputs, o.TransitionType, true, true
	default:
		st.AddFailure(SchemaUnknownSealClosingStrategy{OpID: opid})
		return schema.OpSchema{}, nil, 0, false, false
	}
}

// CheckOperationState runs every structural and script check against a
// single operation.
func CheckOperationState(
	st *Status,
	p cryptoprovider.Provider,
	cons consignment.ConsignmentApi,
	s *schema.Schema,
	types typesys.TypeSystem,
	scripts vm.ScriptLookup,
	machine vm.ScriptVM,
	cstate vm.ContractStateEvolve,
	contractID idtype.ContractId,
	opid idtype.OpId,
	op state.Operation[seal.Graph],
) {
	opSchema, inputsSchema, transitionType, isTransition, ok := opSchemaFor(st, s, opid, op)
	if !ok {
		return
	}

	before := len(st.Failures)

	checkMetadata(st, opid, opSchema.Metadata, s, types, op.OpMetadata())
	checkGlobals(st, opid, opSchema.Globals, s, types, op.OpGlobals())

	if len(st.Failures) > before {
		return
	}

	var prev state.TypedAssignments[seal.Graph]
	if isTransition {
		t := op.(state.Transition[seal.Graph])
		prev = ExtractPrevState(st, cons, opid, t.Inputs)
		prevStateShape(st, opid, inputsSchema, prev)
	}

	checkOwnedAssignments(st, opid, opSchema.Assignments, s, types, op.OpAssignments())

	if opSchema.Validator != nil {
		if isTransition {
			machine.SetTransitionType(transitionType)
		}
		lib, present := scripts.Lookup(opSchema.Validator.Lib)
		if !present {
			st.AddFailure(MissingScript{OpID: opid, Lib: opSchema.Validator.Lib})
			return
		}
		if found := lib.ID(p); found != opSchema.Validator.Lib {
			st.AddFailure(ScriptIDMismatch{OpID: opid, Declared: opSchema.Validator.Lib, Found: found})
			return
		}
		ctx := vm.VmContext{
			ContractID: contractID,
			Op: vm.OpInfo{
				OpID:             opid,
				TransitionType:   transitionType,
				IsTransitionType: isTransition,
			},
			ContractRO: cstate,
		}
		ok := machine.Exec(opSchema.Validator.Lib, opSchema.Validator.Entry, scripts, ctx)
		if !ok {
			code, hasCode := machine.FailureCode()
			var codePtr *uint8
			if hasCode {
				codePtr = &code
			}
			st.AddFailure(ScriptFailure{OpID: opid, Code: codePtr})
			return
		}
	}

	if err := cstate.Evolve(opid); err != nil {
		st.AddFailure(ContractStateFilled{OpID: opid})
		return
	}
}

func checkMetadata(st *Status, opid idtype.OpId, declared schema.MetaSchema, s *schema.Schema, types typesys.TypeSystem, meta state.Metadata) {
	for _, ty := range meta.SortedKeys() {
		if _, ok := declared[ty]; !ok {
			st.AddFailure(SchemaUnknownMetaType{OpID: opid, Type: ty})
		}
	}
	for _, ty := range declared.Keys() {
		payload, present := meta[ty]
		if !present {
			st.AddFailure(SchemaNoMetadata{OpID: opid, Type: ty})
			continue
		}
		def, hasDef := s.MetaTypes[ty]
		if !hasDef {
			continue
		}
		if err := typesys.StrictDeserialize(types, def.SemID, payload); err != nil {
			st.AddFailure(SchemaInvalidMetadata{OpID: opid, Type: ty})
		}
	}
}

func checkGlobals(st *Status, opid idtype.OpId, declared schema.GlobalSchema, s *schema.Schema, types typesys.TypeSystem, globals state.GlobalState) {
	for _, ty := range globals.SortedKeys() {
		if _, ok := declared[ty]; !ok {
			st.AddFailure(SchemaUnknownGlobalStateType{OpID: opid, Type: ty})
		}
	}
	for _, ty := range declared.Keys() {
		bound := declared[ty]
		items := globals[ty]
		if err := bound.Check(uint16(len(items))); err != nil {
			st.AddFailure(SchemaGlobalOccurrence{OpID: opid, Type: ty, Err: err})
		}
		def, hasDef := s.GlobalTypes[ty]
		if !hasDef {
			continue
		}
		if uint32(len(items)) > def.GlobalStateSchema.MaxItems {
			st.AddFailure(SchemaGlobalStateLimit{OpID: opid, Type: ty, Count: uint32(len(items)), Max: def.GlobalStateSchema.MaxItems})
		}
		for _, item := range items {
			if err := typesys.StrictDeserialize(types, def.GlobalStateSchema.SemID, item); err != nil {
				st.AddFailure(SchemaInvalidGlobalValue{OpID: opid, Type: ty})
			}
		}
	}
}

func checkOwnedAssignments(st *Status, opid idtype.OpId, declared schema.AssignmentsSchema, s *schema.Schema, types typesys.TypeSystem, assigns state.TypedAssignments[seal.Graph]) {
	for _, ty := range assigns.SortedKeys() {
		if _, ok := declared[ty]; !ok {
			st.AddFailure(SchemaUnknownOwnedType{OpID: opid, Type: ty})
		}
	}
	for _, ty := range declared.Keys() {
		bound := declared[ty]
		group := assigns[ty]
		if err := bound.Check(uint16(group.Len())); err != nil {
			st.AddFailure(SchemaOwnedOccurrence{OpID: opid, Type: ty, Err: err})
		}
		def, hasDef := s.OwnedTypes[ty]
		if !hasDef {
			continue
		}
		for _, item := range group.Items {
			revealed, known := item.StateData()
			if !known {
				// Fully confidential assignments are opaque; no state
				// check applies.
				continue
			}
			checkOwnedStateShape(st, opid, ty, def, types, revealed)
		}
	}
}

func checkOwnedStateShape(st *Status, opid idtype.OpId, ty schema.AssignmentType, def schema.OwnedTypeDef, types typesys.TypeSystem, revealed state.RevealedState) {
	declared := def.OwnedStateSchema
	switch decl := declared.(type) {
	case schema.DeclarativeAssignSchema:
		if _, ok := revealed.(state.VoidState); !ok {
			st.AddFailure(StateTypeMismatch{OpID: opid, Type: ty, Expected: decl.StateTypeName(), Found: revealed.StateTypeName()})
		}
	case schema.FungibleAssignSchema:
		fs, ok := revealed.(state.FungibleRevealed)
		if !ok {
			st.AddFailure(StateTypeMismatch{OpID: opid, Type: ty, Expected: decl.StateTypeName(), Found: revealed.StateTypeName()})
			return
		}
		if fs.Value.FungibleType() != decl.Kind {
			st.AddFailure(FungibleTypeMismatch{OpID: opid, StateType: ty, Expected: decl.Kind, Found: fs.Value.FungibleType()})
		}
	case schema.StructuredAssignSchema:
		sv, ok := revealed.(state.StructuredRevealed)
		if !ok {
			st.AddFailure(StateTypeMismatch{OpID: opid, Type: ty, Expected: decl.StateTypeName(), Found: revealed.StateTypeName()})
			return
		}
		if err := typesys.StrictDeserialize(types, decl.SemID, sv.Data); err != nil {
			st.AddFailure(SchemaInvalidOwnedValue{OpID: opid, Type: ty})
		}
	default:
		st.AddFailure(StateTypeMismatch{OpID: opid, Type: ty, Expected: "unknown", Found: revealed.StateTypeName()})
	}
}
