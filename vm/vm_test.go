package vm

import (
	"testing"

	"github.com/rgbcore/validator/idtype"
	"github.com/rgbcore/validator/schema"
)

func TestAlwaysPassVMAcceptsAndReportsNoFailureCode(t *testing.T) {
	v := &AlwaysPassVM{}
	v.SetTransitionType(7)
	ok := v.Exec(schema.ScriptId{}, 0, nil, VmContext{})
	if !ok {
		t.Fatalf("want AlwaysPassVM to accept")
	}
	if _, ok := v.FailureCode(); ok {
		t.Fatalf("want no failure code")
	}
}

func TestMapContractStateReadGlobalMissing(t *testing.T) {
	s := NewMapContractState()
	if _, ok := s.ReadGlobal(1); ok {
		t.Fatalf("want missing global to report false")
	}
}

func TestMapContractStateSetAndReadGlobal(t *testing.T) {
	s := NewMapContractState()
	s.SetGlobal(1, []byte("hello"))
	v, ok := s.ReadGlobal(1)
	if !ok || string(v) != "hello" {
		t.Fatalf("got %q %v", v, ok)
	}
}

func TestMapContractStateEvolveNeverRejects(t *testing.T) {
	s := NewMapContractState()
	opID := idtype.OpId{0x01}
	if err := s.Evolve(opID); err != nil {
		t.Fatalf("got error %v", err)
	}
	if err := s.Evolve(opID); err != nil {
		t.Fatalf("want re-evolving the same op id to still succeed, got %v", err)
	}
}
