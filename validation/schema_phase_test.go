package validation

import (
	"testing"

	"github.com/rgbcore/validator/idtype"
	"github.com/rgbcore/validator/schema"
	"github.com/rgbcore/validator/typesys"
)

func TestStatusValidityTracksFailures(t *testing.T) {
	st := NewStatus()
	if st.Validity() != Valid {
		t.Fatalf("want an empty status to be valid")
	}
	st.AddWarning(UnsafeHistory{})
	if st.Validity() != Valid {
		t.Fatalf("want a warning-only status to remain valid")
	}
	st.AddFailure(SchemaMismatch{})
	if st.Validity() != Invalid {
		t.Fatalf("want any failure to make the status invalid")
	}
}

func TestStatusMarkValidatedReportsAlreadyPresent(t *testing.T) {
	st := NewStatus()
	op := idtype.OpId{0x01}
	if already := st.MarkValidated(op); already {
		t.Fatalf("want the first mark to report not-already-present")
	}
	if already := st.MarkValidated(op); !already {
		t.Fatalf("want the second mark of the same opid to report already-present")
	}
}

func TestVerifySchemaFlagsEmptyTransitionInputs(t *testing.T) {
	sem := typesys.SemId{0x01}
	s := &schema.Schema{
		Transitions: map[schema.TransitionType]schema.TransitionSchema{
			1: {Inputs: schema.AssignmentsSchema{}},
		},
		MetaTypes:   map[schema.MetaType]schema.MetaTypeDef{},
		GlobalTypes: map[schema.GlobalType]schema.GlobalTypeDef{},
		OwnedTypes:  map[schema.AssignmentType]schema.OwnedTypeDef{},
	}
	types := typesys.NewMapTypeSystem(map[typesys.SemId]typesys.Type{sem: {Descriptor: []byte("x")}})

	st := VerifySchema(s, types)
	found := false
	for _, f := range st.Failures {
		if empty, ok := f.(SchemaOpEmptyInputs); ok && empty.TransitionType == 1 {
			found = true
		}
	}
	if !found {
		t.Fatalf("got %v", st.Failures)
	}
}

func TestVerifySchemaFlagsUnknownSemId(t *testing.T) {
	unknownSem := typesys.SemId{0x02}
	s := &schema.Schema{
		Transitions: map[schema.TransitionType]schema.TransitionSchema{},
		MetaTypes: map[schema.MetaType]schema.MetaTypeDef{
			1: {SemID: unknownSem},
		},
		GlobalTypes: map[schema.GlobalType]schema.GlobalTypeDef{},
		OwnedTypes:  map[schema.AssignmentType]schema.OwnedTypeDef{},
	}
	types := typesys.NewMapTypeSystem(nil)

	st := VerifySchema(s, types)
	if len(st.Failures) != 1 {
		t.Fatalf("got %v", st.Failures)
	}
	f, ok := st.Failures[0].(SchemaMetaSemIdUnknown)
	if !ok || f.SemID != unknownSem {
		t.Fatalf("got %+v", st.Failures[0])
	}
}

func TestVerifySchemaAcceptsFullyResolvedSchema(t *testing.T) {
	sem := typesys.SemId{0x03}
	s := &schema.Schema{
		Transitions: map[schema.TransitionType]schema.TransitionSchema{
			1: {Inputs: schema.AssignmentsSchema{1: {}}},
		},
		MetaTypes: map[schema.MetaType]schema.MetaTypeDef{
			1: {SemID: sem},
		},
		GlobalTypes: map[schema.GlobalType]schema.GlobalTypeDef{},
		OwnedTypes:  map[schema.AssignmentType]schema.OwnedTypeDef{},
	}
	types := typesys.NewMapTypeSystem(map[typesys.SemId]typesys.Type{sem: {Descriptor: []byte("x")}})

	st := VerifySchema(s, types)
	if len(st.Failures) != 0 {
		t.Fatalf("got %v", st.Failures)
	}
}

func TestVerifySchemaAcceptsDeclarativeAndFungibleOwnedTypesWithoutSemId(t *testing.T) {
	s := &schema.Schema{
		Transitions: map[schema.TransitionType]schema.TransitionSchema{},
		MetaTypes:   map[schema.MetaType]schema.MetaTypeDef{},
		GlobalTypes: map[schema.GlobalType]schema.GlobalTypeDef{},
		OwnedTypes: map[schema.AssignmentType]schema.OwnedTypeDef{
			1: {OwnedStateSchema: schema.DeclarativeAssignSchema{}},
			2: {OwnedStateSchema: schema.FungibleAssignSchema{Kind: schema.Unsigned64Bit}},
		},
	}
	types := typesys.NewMapTypeSystem(nil)

	st := VerifySchema(s, types)
	if len(st.Failures) != 0 {
		t.Fatalf("got %v", st.Failures)
	}
}

func TestVerifySchemaFlagsUnknownStructuredOwnedSemId(t *testing.T) {
	unknownSem := typesys.SemId{0x04}
	s := &schema.Schema{
		Transitions: map[schema.TransitionType]schema.TransitionSchema{},
		MetaTypes:   map[schema.MetaType]schema.MetaTypeDef{},
		GlobalTypes: map[schema.GlobalType]schema.GlobalTypeDef{},
		OwnedTypes: map[schema.AssignmentType]schema.OwnedTypeDef{
			1: {OwnedStateSchema: schema.StructuredAssignSchema{SemID: unknownSem}},
		},
	}
	types := typesys.NewMapTypeSystem(nil)

	st := VerifySchema(s, types)
	if len(st.Failures) != 1 {
		t.Fatalf("got %v", st.Failures)
	}
	f, ok := st.Failures[0].(SchemaOwnedSemIdUnknown)
	if !ok || f.SemID != unknownSem {
		t.Fatalf("got %+v", st.Failures[0])
	}
}

func TestVerifyOpSchemaFlagsTypeAbsentFromSchemaRegistries(t *testing.T) {
	s := &schema.Schema{
		Genesis: schema.OpSchema{
			Metadata:    schema.MetaSchema{1: {}},
			Globals:     schema.GlobalSchema{2: {}},
			Assignments: schema.AssignmentsSchema{3: {}},
		},
		Transitions: map[schema.TransitionType]schema.TransitionSchema{},
		MetaTypes:   map[schema.MetaType]schema.MetaTypeDef{},
		GlobalTypes: map[schema.GlobalType]schema.GlobalTypeDef{},
		OwnedTypes:  map[schema.AssignmentType]schema.OwnedTypeDef{},
	}
	types := typesys.NewMapTypeSystem(nil)

	st := VerifySchema(s, types)
	var sawMeta, sawGlobal, sawOwned bool
	for _, f := range st.Failures {
		switch v := f.(type) {
		case SchemaOpMetaTypeUnknown:
			sawMeta = v.MetaType == 1
		case SchemaOpGlobalTypeUnknown:
			sawGlobal = v.GlobalType == 2
		case SchemaOpAssignmentTypeUnknown:
			sawOwned = v.AssignmentType == 3
		}
	}
	if !sawMeta || !sawGlobal || !sawOwned {
		t.Fatalf("got %v", st.Failures)
	}
}

func TestCheckTypeSystemBitEqualityAcceptsMatchingDescriptors(t *testing.T) {
	sem := typesys.SemId{0x01}
	descriptor := []byte("same")
	consignmentTypes := typesys.NewMapTypeSystem(map[typesys.SemId]typesys.Type{sem: {Descriptor: descriptor}})
	trusted := typesys.NewMapTypeSystem(map[typesys.SemId]typesys.Type{sem: {Descriptor: descriptor}})

	st := NewStatus()
	CheckTypeSystemBitEquality(st, consignmentTypes, trusted)
	if len(st.Failures) != 0 {
		t.Fatalf("got %v", st.Failures)
	}
}

func TestCheckTypeSystemBitEqualityFlagsMismatchedDescriptor(t *testing.T) {
	sem := typesys.SemId{0x01}
	consignmentTypes := typesys.NewMapTypeSystem(map[typesys.SemId]typesys.Type{sem: {Descriptor: []byte("a")}})
	trusted := typesys.NewMapTypeSystem(map[typesys.SemId]typesys.Type{sem: {Descriptor: []byte("b")}})

	st := NewStatus()
	CheckTypeSystemBitEquality(st, consignmentTypes, trusted)
	if len(st.Failures) != 1 {
		t.Fatalf("got %v", st.Failures)
	}
	f, ok := st.Failures[0].(TypeSystemMismatch)
	if !ok || f.SemID != sem {
		t.Fatalf("got %+v", st.Failures[0])
	}
}

func TestCheckTypeSystemBitEqualityFlagsMissingFromTrusted(t *testing.T) {
	sem := typesys.SemId{0x01}
	consignmentTypes := typesys.NewMapTypeSystem(map[typesys.SemId]typesys.Type{sem: {Descriptor: []byte("a")}})
	trusted := typesys.NewMapTypeSystem(nil)

	st := NewStatus()
	CheckTypeSystemBitEquality(st, consignmentTypes, trusted)
	if len(st.Failures) != 1 {
		t.Fatalf("got %v", st.Failures)
	}
}
