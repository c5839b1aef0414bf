package commitment

import (
	"github.com/rgbcore/validator/commitment/mpc"
	"github.com/rgbcore/validator/cryptoprovider"
	"github.com/rgbcore/validator/idtype"
	"github.com/rgbcore/validator/seal"
)

// SealCheckFailure names why VerifyBundleCommitment rejected one seal.
type SealCheckFailure struct {
	Seal   seal.OutputSeal
	Reason string
}

// FindFirstDbcOutput locates the first output in tx whose script starts
// with OP_RETURN (opret) or which has a non-zero taproot output key
// (tapret), the method the witness transaction actually carries its
// commitment in.
func FindFirstDbcOutput(tx Tx) (method CloseMethod, vout uint32, found bool) {
	for i, out := range tx.Outputs {
		if out.ScriptPubKey != nil && len(out.ScriptPubKey) >= 1 && out.ScriptPubKey[0] == opReturn {
			return OpretFirst, uint32(i), true
		}
		if out.TaprootOutputKey != [32]byte{} {
			return TapretFirst, uint32(i), true
		}
	}
	return CloseMethodUnknown, 0, false
}

// ClosingResult is the outcome of verifying one bundle's commitment
// against its witness transaction, split into distinct failure kinds so
// the caller can emit the matching Failure variant.
type ClosingResult struct {
	NoDbcOutput    bool
	MethodMismatch bool
	MpcInvalid     bool
	SealFailures   []SealCheckFailure
}

// OK reports whether the bundle's commitment and every seal verified.
func (r ClosingResult) OK() bool {
	return !r.NoDbcOutput && !r.MethodMismatch && !r.MpcInvalid && len(r.SealFailures) == 0
}

// VerifyBundleCommitment locates the witness's deterministic-commitment
// output, recomputes the multi-protocol root from the anchor's Merkle
// proof, checks the DBC proof against that root, and verifies every
// claimed seal closes over the witness transaction.
func VerifyBundleCommitment(
	p cryptoprovider.Provider,
	tx Tx,
	anchor EAnchor,
	contractID idtype.ContractId,
	bundleID idtype.BundleId,
	seals []seal.OutputSeal,
	spentOutpoints map[idtype.Outpoint]struct{},
) ClosingResult {
	method, _, found := FindFirstDbcOutput(tx)
	if !found {
		return ClosingResult{NoDbcOutput: true}
	}
	if anchor.Proof.Method() != method {
		return ClosingResult{MethodMismatch: true}
	}
	if anchor.MpcProof.ProtocolID != contractID || anchor.MpcProof.Message != mpc.Message(bundleID) {
		return ClosingResult{MpcInvalid: true}
	}
	root := anchor.MpcProof.Fold(p)
	if !anchor.Proof.Verify(tx, root) {
		return ClosingResult{MpcInvalid: true}
	}

	var failures []SealCheckFailure
	for _, s := range seals {
		if _, spent := spentOutpoints[s.ToOutpoint()]; !spent {
			failures = append(failures, SealCheckFailure{Seal: s, Reason: "seal outpoint not spent by witness transaction"})
		}
	}
	return ClosingResult{SealFailures: failures}
}
