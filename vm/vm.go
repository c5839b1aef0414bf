// Package vm defines the narrow contract a schema-supplied validator
// script must satisfy: a stack machine executed once per operation, with
// two well-known registers and read access to contract state through a
// capability interface. The instruction set itself is out of scope; this
// package only fixes the calling convention.
package vm

import (
	"github.com/rgbcore/validator/cryptoprovider"
	"github.com/rgbcore/validator/idtype"
	"github.com/rgbcore/validator/schema"
)

// OpInfo is the read-only description of the operation under validation,
// exposed to a running script.
type OpInfo struct {
	OpID idtype.OpId
	// TransitionType is set only when validating a transition; genesis
	// operations leave it at its zero value and never preload A16/Reg0.
	TransitionType   schema.TransitionType
	IsTransitionType bool
}

// ContractStateAccess is the read-only capability a script uses to inspect
// application-defined contract state while validating one operation.
type ContractStateAccess interface {
	// ReadGlobal returns the application's current value for a global
	// state type, or false if it holds none.
	ReadGlobal(ty schema.GlobalType) ([]byte, bool)
}

// ContractStateEvolve is the capability the operation-state checker uses,
// after a script accepts an operation, to fold it into the running
// contract state. It is the only place contract state mutates.
type ContractStateEvolve interface {
	ContractStateAccess
	// Evolve absorbs op into the contract state; an error means the
	// operation cannot be accepted (e.g. a fungible supply overflow) and
	// is reported as ContractStateFilled.
	Evolve(opID idtype.OpId) error
}

// VmContext is everything a script execution needs beyond its own
// instruction stream: the contract id being validated against, the
// operation under test, and a handle onto contract state reads. It does
// not carry the operation's dereferenced previous state.
type VmContext struct {
	ContractID idtype.ContractId
	Op         OpInfo
	ContractRO ContractStateAccess
}

// Script is a resolved script library: its executable bytes plus the
// content id those bytes hash to, so a caller can check it against a
// schema-declared id without trusting the lookup key it was found under.
type Script struct {
	Bytes []byte
}

// ID computes the script's content id under p, the same digest a
// consignment assigns a library when it declares its ScriptId.
func (s Script) ID(p cryptoprovider.Provider) schema.ScriptId {
	return schema.ScriptId(cryptoprovider.Tagged(p, cryptoprovider.TagScriptID, s.Bytes))
}

// ScriptLookup resolves a script-library id to its executable bytes, as
// exposed by a consignment's scripts() accessor.
type ScriptLookup interface {
	Lookup(lib schema.ScriptId) (Script, bool)
}

// ScriptVM is the opaque interpreter contract: set the A16/Reg0 transition
// type, run the designated entrypoint, and read back A8/Reg0 as an
// optional failure code when Exec returns false.
type ScriptVM interface {
	// SetTransitionType preloads register A16/Reg0 before Exec; called
	// only when the operation under validation is a transition.
	SetTransitionType(ty schema.TransitionType)
	// Exec runs entry from the library named by lib, using lookup to
	// resolve further library references the script makes. It returns
	// true on acceptance.
	Exec(lib schema.ScriptId, entry uint16, lookup ScriptLookup, ctx VmContext) bool
	// FailureCode reads register A8/Reg0 after a false Exec result. The
	// bool is false if the script left no code.
	FailureCode() (code uint8, ok bool)
}

// AlwaysPassVM is a reference ScriptVM that accepts every operation
// without inspecting its context, useful for schemas that declare no
// validator script logic beyond structural checks.
type AlwaysPassVM struct {
	transitionType schema.TransitionType
}

func (v *AlwaysPassVM) SetTransitionType(ty schema.TransitionType) { v.transitionType = ty }

func (v *AlwaysPassVM) Exec(schema.ScriptId, uint16, ScriptLookup, VmContext) bool { return true }

func (v *AlwaysPassVM) FailureCode() (uint8, bool) { return 0, false }

// MapContractState is a reference ContractStateEvolve backed by a plain
// map of the latest-seen global state values, with no application-defined
// acceptance logic beyond "always absorb". A real deployment replaces this
// with a state machine that understands its own global types (fungible
// supply tracking, and so on); this one exists so the validator can run
// end-to-end against a schema that declares no bespoke state evolution.
type MapContractState struct {
	globals map[schema.GlobalType][]byte
	evolved map[idtype.OpId]struct{}
}

// NewMapContractState builds an empty contract state.
func NewMapContractState() *MapContractState {
	return &MapContractState{
		globals: make(map[schema.GlobalType][]byte),
		evolved: make(map[idtype.OpId]struct{}),
	}
}

func (s *MapContractState) ReadGlobal(ty schema.GlobalType) ([]byte, bool) {
	v, ok := s.globals[ty]
	return v, ok
}

// Evolve records opID as absorbed. It never rejects an operation; a
// schema whose validator scripts need supply-overflow or similar checks
// must wrap or replace this type.
func (s *MapContractState) Evolve(opID idtype.OpId) error {
	s.evolved[opID] = struct{}{}
	return nil
}

// SetGlobal lets a fixture or test seed a global value MapContractState
// reports through ReadGlobal, independent of any operation evolving it.
func (s *MapContractState) SetGlobal(ty schema.GlobalType, value []byte) {
	s.globals[ty] = value
}
