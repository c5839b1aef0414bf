// Package witness models the status of a witness transaction as reported
// by an external chain resolver, and the narrow interface the validator
// consumes to ask for it.
package witness

import (
	"errors"

	"github.com/rgbcore/validator/idtype"
)

// WitnessOrd is the closed sum of witness confirmation states, totally
// ordered so the safe-height policy can compare a mined height against a
// threshold and so archived/ignored/tentative witnesses sort below any
// mined one.
type WitnessOrd interface {
	isWitnessOrd()
	// rank separates the non-mined variants for Compare; Mined compares
	// by height within its own rank.
	rank() int
	String() string
}

// Archived is the lowest-ranked status: the witness transaction was
// replaced or reorged out and will not be reconsidered.
type Archived struct{}

func (Archived) isWitnessOrd()  {}
func (Archived) rank() int      { return 0 }
func (Archived) String() string { return "archived" }

// Ignored is a witness the resolver deliberately excludes from
// consideration (e.g. below dust, or policy-filtered).
type Ignored struct{}

func (Ignored) isWitnessOrd()  {}
func (Ignored) rank() int      { return 1 }
func (Ignored) String() string { return "ignored" }

// Tentative is an unconfirmed witness still in the mempool.
type Tentative struct{}

func (Tentative) isWitnessOrd()  {}
func (Tentative) rank() int      { return 2 }
func (Tentative) String() string { return "tentative" }

// Mined is a confirmed witness at the given chain height.
type Mined struct{ Height uint64 }

func (Mined) isWitnessOrd() {}
func (Mined) rank() int     { return 3 }
func (m Mined) String() string {
	return "mined"
}

// Compare orders a before b: Archived < Ignored < Tentative < Mined(h) <
// Mined(h') iff h<h'.
func Compare(a, b WitnessOrd) int {
	if a.rank() != b.rank() {
		if a.rank() < b.rank() {
			return -1
		}
		return 1
	}
	am, aok := a.(Mined)
	bm, bok := b.(Mined)
	if aok && bok {
		switch {
		case am.Height < bm.Height:
			return -1
		case am.Height > bm.Height:
			return 1
		}
	}
	return 0
}

// WitnessStatus is what a resolver reports for a requested txid: either it
// found the transaction (with its ordering) or it could not.
type WitnessStatus interface {
	isWitnessStatus()
}

// Resolved means the resolver found the witness transaction at the given
// order; Tx carries the resolver's view of the transaction for the
// checked-resolver txid cross-check.
type Resolved struct {
	Tx  idtype.Txid
	Ord WitnessOrd
}

func (Resolved) isWitnessStatus() {}

// Unresolved means the resolver has no knowledge of the requested txid.
type Unresolved struct{}

func (Unresolved) isWitnessStatus() {}

// WitnessResolverError is the closed sum of ways a resolver call can fail.
type WitnessResolverError interface {
	isWitnessResolverError()
	Error() string
}

// Unknown means the resolver has no information for this txid; distinct
// from a successful Unresolved status because it signals a resolver-level
// failure rather than a confirmed negative.
type Unknown struct{ Txid idtype.Txid }

func (Unknown) isWitnessResolverError() {}
func (e Unknown) Error() string         { return "witness resolver: unknown txid " + e.Txid.String() }

// IdMismatch means the resolver returned data for a different txid than
// requested.
type IdMismatch struct {
	Requested idtype.Txid
	Returned  idtype.Txid
}

func (IdMismatch) isWitnessResolverError() {}
func (e IdMismatch) Error() string {
	return "witness resolver: id mismatch requested " + e.Requested.String() + " returned " + e.Returned.String()
}

// Opaque wraps an unspecified resolver-internal failure (network error,
// timeout, malformed response).
type Opaque struct{ Msg string }

func (Opaque) isWitnessResolverError() {}
func (e Opaque) Error() string         { return "witness resolver: " + e.Msg }

// WrongChainNet means the resolver is bound to a different chain/network
// than the one the validator expects.
type WrongChainNet struct{}

func (WrongChainNet) isWitnessResolverError() {}
func (WrongChainNet) Error() string           { return "witness resolver: wrong chain/net" }

// ResolveWitness is the external capability the validator consumes to
// learn the confirmation status of a witness transaction. Implementations
// may block on network I/O; there is no cancellation path, timeouts are
// the implementation's concern.
type ResolveWitness interface {
	ResolveWitness(txid idtype.Txid) (WitnessStatus, WitnessResolverError)
	CheckChainNet(expected idtype.ChainNet) error
}

// ErrChainNetMismatch is returned by a ResolveWitness.CheckChainNet
// implementation when bound to the wrong network.
var ErrChainNetMismatch = errors.New("witness resolver: chain/net mismatch")

// CheckedResolver wraps a ResolveWitness and re-verifies that a Resolved
// status actually names the requested txid, converting a silent resolver
// bug into an explicit IdMismatch.
type CheckedResolver struct {
	Inner ResolveWitness
}

func (c CheckedResolver) ResolveWitness(txid idtype.Txid) (WitnessStatus, WitnessResolverError) {
	status, err := c.Inner.ResolveWitness(txid)
	if err != nil {
		return nil, err
	}
	if resolved, ok := status.(Resolved); ok && resolved.Tx != txid {
		return nil, IdMismatch{Requested: txid, Returned: resolved.Tx}
	}
	return status, nil
}

func (c CheckedResolver) CheckChainNet(expected idtype.ChainNet) error {
	return c.Inner.CheckChainNet(expected)
}
