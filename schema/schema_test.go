package schema

import (
	"testing"

	"github.com/rgbcore/validator/occurrence"
	"github.com/rgbcore/validator/typesys"
)

func TestSortedTransitionTypesAscending(t *testing.T) {
	s := &Schema{Transitions: map[TransitionType]TransitionSchema{
		3: {}, 1: {}, 2: {},
	}}
	got := s.SortedTransitionTypes()
	want := []TransitionType{1, 2, 3}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v want %v", got, want)
		}
	}
}

func TestSortedOwnedTypesAscending(t *testing.T) {
	s := &Schema{OwnedTypes: map[AssignmentType]OwnedTypeDef{
		10: {}, 5: {}, 7: {},
	}}
	got := s.SortedOwnedTypes()
	want := []AssignmentType{5, 7, 10}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v want %v", got, want)
		}
	}
}

func TestOwnedStateSchemaVariantNames(t *testing.T) {
	cases := []struct {
		schema OwnedStateSchema
		want   string
	}{
		{DeclarativeAssignSchema{}, "declarative"},
		{FungibleAssignSchema{Kind: Unsigned64Bit}, "fungible"},
		{StructuredAssignSchema{SemID: typesys.SemId{0x01}}, "structured"},
	}
	for _, c := range cases {
		if got := c.schema.StateTypeName(); got != c.want {
			t.Fatalf("got %q want %q", got, c.want)
		}
	}
}

func TestAssignmentsSchemaKeysAscending(t *testing.T) {
	a := AssignmentsSchema{9: occurrence.Once, 1: occurrence.Once, 4: occurrence.Once}
	got := a.Keys()
	want := []AssignmentType{1, 4, 9}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v want %v", got, want)
		}
	}
}
