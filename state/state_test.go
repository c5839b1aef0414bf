package state

import (
	"testing"

	"github.com/rgbcore/validator/schema"
)

func TestMetadataSortedKeys(t *testing.T) {
	m := Metadata{3: nil, 1: nil, 2: nil}
	keys := m.SortedKeys()
	want := []schema.MetaType{1, 2, 3}
	if len(keys) != len(want) {
		t.Fatalf("got %v", keys)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("at %d got %d want %d", i, keys[i], want[i])
		}
	}
}

func TestGlobalStateSortedKeys(t *testing.T) {
	g := GlobalState{5: nil, 2: nil}
	keys := g.SortedKeys()
	if len(keys) != 2 || keys[0] != 2 || keys[1] != 5 {
		t.Fatalf("got %v", keys)
	}
}

func TestOpoutCompareOrdersByFieldPrecedence(t *testing.T) {
	base := Opout{Op: [32]byte{0x01}, Ty: 5, No: 2}
	sameOpHigherTy := Opout{Op: [32]byte{0x01}, Ty: 6, No: 0}
	sameOpSameTyHigherNo := Opout{Op: [32]byte{0x01}, Ty: 5, No: 3}
	higherOp := Opout{Op: [32]byte{0x02}, Ty: 0, No: 0}

	if base.Compare(sameOpHigherTy) >= 0 {
		t.Fatalf("want type to break tie before no")
	}
	if base.Compare(sameOpSameTyHigherNo) >= 0 {
		t.Fatalf("want no to break tie when op and type match")
	}
	if base.Compare(higherOp) >= 0 {
		t.Fatalf("want op to take precedence over type/no")
	}
	if base.Compare(base) != 0 {
		t.Fatalf("want equal opouts to compare equal")
	}
}

func TestBits64FungibleType(t *testing.T) {
	var v FungibleValue = Bits64(42)
	if v.FungibleType() != schema.Unsigned64Bit {
		t.Fatalf("got %v", v.FungibleType())
	}
}

func TestRevealedStateTypeNames(t *testing.T) {
	cases := []struct {
		state RevealedState
		want  string
	}{
		{VoidState{}, "void"},
		{FungibleRevealed{Value: Bits64(1)}, "fungible"},
		{StructuredRevealed{Data: []byte("x")}, "structured"},
	}
	for _, c := range cases {
		if got := c.state.StateTypeName(); got != c.want {
			t.Fatalf("got %q want %q", got, c.want)
		}
	}
}
