package validation

import (
	"github.com/rgbcore/validator/commitment"
	"github.com/rgbcore/validator/consignment"
	"github.com/rgbcore/validator/cryptoprovider"
	"github.com/rgbcore/validator/idtype"
	"github.com/rgbcore/validator/seal"
	"github.com/rgbcore/validator/state"
	"github.com/rgbcore/validator/witness"
)

// SealDefinitions is the result of walking one bundle's transitions: the
// concrete output-seals every transition in the bundle claims to close,
// plus the per-opid set of outpoints the bundle-consistency checker needs.
type SealDefinitions struct {
	Seals    []seal.OutputSeal
	InputMap map[idtype.OpId][]idtype.Outpoint
}

// CheckSealDefinitions walks one bundle once. globalDoubleSpend is shared
// across every bundle in the consignment so a double-spend spanning two
// bundles is still caught.
func CheckSealDefinitions(
	st *Status,
	p cryptoprovider.Provider,
	cons consignment.ConsignmentApi,
	bundle consignment.TransitionBundle,
	trustedOpSeals map[idtype.OpId]struct{},
	globalDoubleSpend map[state.Opout]struct{},
) SealDefinitions {
	result := SealDefinitions{InputMap: make(map[idtype.OpId][]idtype.Outpoint)}

	for _, kt := range bundle.KnownTransitions {
		opid := kt.OpID
		computed := kt.Transition.ID(p)
		if opid != computed {
			st.AddFailure(TransitionIdMismatch{Claimed: opid, Computed: computed})
		}
		if _, trusted := trustedOpSeals[opid]; trusted {
			continue
		}
		if alreadyValidated := st.MarkValidated(opid); alreadyValidated {
			st.AddFailure(CyclicGraph{OpID: opid})
			continue
		}

		for _, in := range kt.Transition.Inputs {
			if _, dup := globalDoubleSpend[in]; dup {
				st.AddFailure(DoubleSpend{Opout: in})
			} else {
				globalDoubleSpend[in] = struct{}{}
			}

			if bundle.InputMap[in] != opid {
				st.AddFailure(MissingInputMapTransition{Opout: opid, Input: in})
			}

			ref, ok := cons.Operation(in.Op)
			if !ok {
				st.AddFailure(OperationAbsent{OpID: in.Op})
				continue
			}

			if _, isTransition := ref.(consignment.TransitionRef); isTransition {
				_, validated := st.ValidatedOpIDs[in.Op]
				_, trustedPrev := trustedOpSeals[in.Op]
				if !validated && !trustedPrev {
					st.AddFailure(UnorderedTransition{OpID: opid})
				}
			}

			assigns, ok := ref.Operation().OpAssignments()[in.Ty]
			if !ok {
				st.AddFailure(NoPrevState{OpID: opid, Input: in})
				continue
			}
			if int(in.No) >= len(assigns.Items) {
				st.AddFailure(NoPrevOut{OpID: opid, Input: in})
				continue
			}

			sealVal, known := assigns.Items[in.No].Seal()
			if !known {
				st.AddFailure(ConfidentialSeal{OpID: opid, Input: in})
				continue
			}

			var concrete seal.OutputSeal
			if witnessID, hasWitness := cons.OpWitnessID(in.Op); hasWitness {
				concrete = sealVal.ToOutputSealOrDefault(witnessID)
			} else if out, explicit := sealVal.ToOutputSeal(); explicit {
				concrete = out
			} else {
				st.AddFailure(NoPrevOut{OpID: opid, Input: in})
				continue
			}

			result.Seals = append(result.Seals, concrete)
			result.InputMap[opid] = append(result.InputMap[opid], concrete.ToOutpoint())
		}
	}
	return result
}

// CheckSealClosing resolves the bundle's witness transaction,
// records its order, and verifies the DBC/MPC commitment and every claimed
// seal against it. Returns the resolved order so the caller can apply the
// safe-height policy, and false if any of these checks failed (each
// already recorded as a failure).
func CheckSealClosing(
	st *Status,
	p cryptoprovider.Provider,
	resolver witness.ResolveWitness,
	txOrdCache map[idtype.Txid]witness.WitnessOrd,
	contractID idtype.ContractId,
	bundleID idtype.BundleId,
	witnessID idtype.Txid,
	tx commitment.Tx,
	anchor commitment.EAnchor,
	defs SealDefinitions,
	spentOutpoints map[idtype.Outpoint]struct{},
) (ord witness.WitnessOrd, ok bool) {
	status, err := resolver.ResolveWitness(witnessID)
	if err != nil {
		st.AddFailure(SealNoPubWitness{BundleID: bundleID, WitnessID: witnessID, Reason: err.Error()})
		return nil, false
	}
	resolved, isResolved := status.(witness.Resolved)
	if !isResolved {
		st.AddFailure(SealNoPubWitness{BundleID: bundleID, WitnessID: witnessID, Reason: "unresolved"})
		return nil, false
	}
	if _, archived := resolved.Ord.(witness.Archived); archived {
		st.AddFailure(SealNoPubWitness{BundleID: bundleID, WitnessID: witnessID, Reason: "archived"})
		return nil, false
	}
	txOrdCache[witnessID] = resolved.Ord

	result := commitment.VerifyBundleCommitment(p, tx, anchor, contractID, bundleID, defs.Seals, spentOutpoints)
	switch {
	case result.NoDbcOutput:
		st.AddFailure(NoDbcOutput{BundleID: bundleID, WitnessID: witnessID})
		return resolved.Ord, false
	case result.MethodMismatch:
		st.AddFailure(InvalidProofType{BundleID: bundleID})
		return resolved.Ord, false
	case result.MpcInvalid:
		st.AddFailure(MpcInvalid{BundleID: bundleID})
		return resolved.Ord, false
	}
	for _, f := range result.SealFailures {
		st.AddFailure(SealsInvalid{BundleID: bundleID, Reason: f.Reason})
	}
	return resolved.Ord, len(result.SealFailures) == 0
}

// CheckBundleConsistency verifies every outpoint the seal-definition
// checker recorded under an opid also appears among tx's own inputs.
func CheckBundleConsistency(st *Status, witnessID idtype.Txid, tx commitment.Tx, defs SealDefinitions, trustedOpSeals map[idtype.OpId]struct{}, spent map[idtype.Outpoint]struct{}) {
	for opid, outpoints := range defs.InputMap {
		if _, trusted := trustedOpSeals[opid]; trusted {
			continue
		}
		for _, op := range outpoints {
			if _, ok := spent[op]; !ok {
				st.AddFailure(WitnessMissingInput{WitnessID: witnessID, Outpoint: op})
			}
		}
	}
}

// SpentOutpoints builds the set of outpoints tx's inputs spend, the shape
// both the seal-closing and bundle-consistency checkers consult.
func SpentOutpoints(tx commitment.Tx) map[idtype.Outpoint]struct{} {
	out := make(map[idtype.Outpoint]struct{}, len(tx.Inputs))
	for _, in := range tx.Inputs {
		out[in] = struct{}{}
	}
	return out
}
