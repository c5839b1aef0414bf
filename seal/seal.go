// Package seal models single-use-seal definitions: the concrete outpoints
// a transition claims to close, and the "self-referential" seal shape used
// when a transition's seal is only fully resolvable once its own witness
// transaction is known.
package seal

import "github.com/rgbcore/validator/idtype"

// OutputSeal is a fully materialized, concrete outpoint a seal closes.
type OutputSeal struct {
	Txid idtype.Txid
	Vout uint32
}

// ToOutpoint converts s to the idtype.Outpoint it refers to.
func (s OutputSeal) ToOutpoint() idtype.Outpoint {
	return idtype.Outpoint{Txid: s.Txid, Vout: s.Vout}
}

// ExposedSeal is the capability an assignment's revealed seal exposes:
// either it is already a concrete OutputSeal (genesis, or a seal that
// names its own witness explicitly), or it is witness-relative and must be
// resolved against the operation's own witness id (a transition's
// self-referential seal).
type ExposedSeal interface {
	// ToOutputSeal returns the concrete seal if it does not need
	// witness-id substitution; ok is false for a witness-relative seal.
	ToOutputSeal() (seal OutputSeal, ok bool)
	// ToOutputSealOrDefault resolves a witness-relative seal's vout
	// against witnessID; for a seal that is already concrete, witnessID
	// is ignored and the concrete seal is returned.
	ToOutputSealOrDefault(witnessID idtype.Txid) OutputSeal
}

// Graph is the reference ExposedSeal implementation: a seal that is either
// fully explicit (Txid set) or witness-relative (Txid is zero, WitnessRel
// true, only Vout meaningful until substituted).
type Graph struct {
	// WitnessRel is true when this seal must be resolved against the
	// enclosing operation's own witness transaction id (the
	// self-referential seal case for transitions).
	WitnessRel bool
	Txid       idtype.Txid
	Vout       uint32
}

// ExplicitSeal builds a fully concrete seal, used by genesis operations,
// which have no witness transaction of their own to resolve relative to.
func ExplicitSeal(txid idtype.Txid, vout uint32) Graph {
	return Graph{WitnessRel: false, Txid: txid, Vout: vout}
}

// WitnessRelativeSeal builds a seal that resolves to the enclosing
// operation's own witness transaction once known.
func WitnessRelativeSeal(vout uint32) Graph {
	return Graph{WitnessRel: true, Vout: vout}
}

func (g Graph) ToOutputSeal() (OutputSeal, bool) {
	if g.WitnessRel {
		return OutputSeal{}, false
	}
	return OutputSeal{Txid: g.Txid, Vout: g.Vout}, true
}

func (g Graph) ToOutputSealOrDefault(witnessID idtype.Txid) OutputSeal {
	if !g.WitnessRel {
		return OutputSeal{Txid: g.Txid, Vout: g.Vout}
	}
	return OutputSeal{Txid: witnessID, Vout: g.Vout}
}

// SealClosingStrategy enumerates the accepted seal-closing strategies a
// genesis operation may declare. FirstOpretOrTapret is the only value the
// validator accepts per spec; anything else is rejected deterministically
// rather than silently coerced.
type SealClosingStrategy uint8

const (
	SealClosingUnknown SealClosingStrategy = iota
	FirstOpretOrTapret
)

func (s SealClosingStrategy) String() string {
	if s == FirstOpretOrTapret {
		return "first-opret-or-tapret"
	}
	return "unknown"
}
