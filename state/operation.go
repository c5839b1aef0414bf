package state

import (
	"encoding/binary"

	"github.com/rgbcore/validator/cryptoprovider"
	"github.com/rgbcore/validator/idtype"
	"github.com/rgbcore/validator/schema"
	"github.com/rgbcore/validator/seal"
)

// Operation is the closed sum of genesis and transition operations, the two
// shapes a consignment's operation graph may contain.
type Operation[S seal.ExposedSeal] interface {
	isOperation()
	// ID computes this operation's identifier, domain-separated from
	// bundle and Merkle-node hashing so no two purposes can collide.
	ID(p cryptoprovider.Provider) idtype.OpId
	OpMetadata() Metadata
	OpGlobals() GlobalState
	OpAssignments() TypedAssignments[S]
}

// Genesis is the single root operation of a contract's history. Its
// assignments must carry concrete, explicit seals: there is no prior
// witness transaction to resolve a self-referential seal against.
type Genesis[S seal.ExposedSeal] struct {
	SchemaID            idtype.SchemaId
	ChainNet            idtype.ChainNet
	SealClosingStrategy seal.SealClosingStrategy
	Metadata            Metadata
	Globals             GlobalState
	Assignments         TypedAssignments[S]
}

func (Genesis[S]) isOperation() {}

func (g Genesis[S]) OpMetadata() Metadata               { return g.Metadata }
func (g Genesis[S]) OpGlobals() GlobalState             { return g.Globals }
func (g Genesis[S]) OpAssignments() TypedAssignments[S] { return g.Assignments }

func (g Genesis[S]) ID(p cryptoprovider.Provider) idtype.OpId {
	buf := append([]byte{0x00}, g.SchemaID[:]...)
	buf = append(buf, byte(g.ChainNet), byte(g.SealClosingStrategy))
	buf = appendCanonicalState(buf, g.Metadata, g.Globals)
	return idtype.OpId(cryptoprovider.Tagged(p, cryptoprovider.TagOpID, buf))
}

// Transition consumes prior assignments named by Inputs and produces new
// ones in Assignments. A self-referential Assignments seal resolves against
// this transition's own witness transaction once one is attached.
type Transition[S seal.ExposedSeal] struct {
	ContractID     idtype.ContractId
	TransitionType schema.TransitionType
	Metadata       Metadata
	Globals        GlobalState
	Inputs         []Opout
	Assignments    TypedAssignments[S]
}

func (Transition[S]) isOperation() {}

func (t Transition[S]) OpMetadata() Metadata               { return t.Metadata }
func (t Transition[S]) OpGlobals() GlobalState             { return t.Globals }
func (t Transition[S]) OpAssignments() TypedAssignments[S] { return t.Assignments }

// SortedInputs returns Inputs in canonical ascending order without
// mutating the original slice.
func (t Transition[S]) SortedInputs() []Opout {
	out := make([]Opout, len(t.Inputs))
	copy(out, t.Inputs)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1].Compare(out[j]) > 0; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}

func (t Transition[S]) ID(p cryptoprovider.Provider) idtype.OpId {
	buf := append([]byte{0x01}, t.ContractID[:]...)
	var tyBuf [2]byte
	binary.BigEndian.PutUint16(tyBuf[:], uint16(t.TransitionType))
	buf = append(buf, tyBuf[:]...)
	for _, in := range t.SortedInputs() {
		buf = append(buf, in.Op[:]...)
		var inTy, inNo [2]byte
		binary.BigEndian.PutUint16(inTy[:], uint16(in.Ty))
		binary.BigEndian.PutUint16(inNo[:], in.No)
		buf = append(buf, inTy[:]...)
		buf = append(buf, inNo[:]...)
	}
	buf = appendCanonicalState(buf, t.Metadata, t.Globals)
	return idtype.OpId(cryptoprovider.Tagged(p, cryptoprovider.TagOpID, buf))
}

// appendCanonicalState appends a deterministic encoding of metadata and
// global state to buf, walking both in ascending key order.
func appendCanonicalState(buf []byte, meta Metadata, globals GlobalState) []byte {
	for _, ty := range meta.SortedKeys() {
		var tyBuf [2]byte
		binary.BigEndian.PutUint16(tyBuf[:], uint16(ty))
		buf = append(buf, tyBuf[:]...)
		buf = append(buf, meta[ty]...)
	}
	for _, ty := range globals.SortedKeys() {
		var tyBuf [2]byte
		binary.BigEndian.PutUint16(tyBuf[:], uint16(ty))
		for _, item := range globals[ty] {
			buf = append(buf, tyBuf[:]...)
			buf = append(buf, item...)
		}
	}
	return buf
}
