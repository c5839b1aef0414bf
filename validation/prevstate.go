package validation

import (
	"github.com/rgbcore/validator/consignment"
	"github.com/rgbcore/validator/idtype"
	"github.com/rgbcore/validator/logging"
	"github.com/rgbcore/validator/schema"
	"github.com/rgbcore/validator/seal"
	"github.com/rgbcore/validator/state"
)

// ExtractPrevState dereferences each of a transition's ordered
// inputs through the consignment and aggregates the previously revealed
// assignments they point at, preserving the TypedAssigns variant kind of
// the assignment list each input came from.
func ExtractPrevState(st *Status, cons consignment.ConsignmentApi, opid idtype.OpId, inputs []state.Opout) state.TypedAssignments[seal.Graph] {
	out := make(state.TypedAssignments[seal.Graph])
	for _, in := range inputs {
		ref, ok := cons.Operation(in.Op)
		if !ok {
			st.AddFailure(OperationAbsent{OpID: in.Op})
			continue
		}
		assigns, ok := ref.Operation().OpAssignments()[in.Ty]
		if !ok {
			// The prior operation simply has no assignments of this type;
			// the schema phase already validated structural presence, so
			// this is tolerated rather than reported as a failure.
			logging.Logic.Debug().
				Str("op_id", opid.String()).
				Str("prev_op_id", in.Op.String()).
				Uint16("assignment_type", uint16(in.Ty)).
				Msg("prior operation has no assignments of this type")
			continue
		}
		if int(in.No) >= len(assigns.Items) {
			st.AddFailure(NoPrevOut{OpID: opid, Input: in})
			continue
		}
		group, exists := out[in.Ty]
		if !exists {
			group = state.TypedAssigns[seal.Graph]{Kind: assigns.Kind}
		}
		group.Items = append(group.Items, assigns.Items[in.No])
		out[in.Ty] = group
	}
	return out
}

// prevStateShape checks that the dereferenced previous state's key
// set is a subset of the transition's inputs schema, and each type's
// count must satisfy its occurrence bound.
func prevStateShape(st *Status, opid idtype.OpId, inputsSchema schema.AssignmentsSchema, prev state.TypedAssignments[seal.Graph]) {
	for _, ty := range prev.SortedKeys() {
		bound, ok := inputsSchema[ty]
		if !ok {
			st.AddFailure(SchemaPrevStateUnknownType{OpID: opid, Type: ty})
			continue
		}
		if err := bound.Check(uint16(prev[ty].Len())); err != nil {
			st.AddFailure(SchemaPrevStateOccurrence{OpID: opid, Type: ty, Err: err})
		}
	}
}
