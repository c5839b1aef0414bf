package validation

import (
	"github.com/rgbcore/validator/commitment"
	"github.com/rgbcore/validator/consignment"
	"github.com/rgbcore/validator/cryptoprovider"
	"github.com/rgbcore/validator/idtype"
	"github.com/rgbcore/validator/state"
	"github.com/rgbcore/validator/typesys"
	"github.com/rgbcore/validator/vm"
	"github.com/rgbcore/validator/witness"
)

// WitnessSource supplies the witness transaction the commitment phase
// needs per bundle; callers (wallets, indexers) wire
// this to whatever transaction store they already maintain.
type WitnessSource interface {
	WitnessTx(txid idtype.Txid) (commitment.Tx, bool)
}

// Validator holds the per-validation mutable scratch state threaded
// through all three phases: the accumulated status, the cross-bundle
// double-spend set, the resolved-witness order cache, and the
// application's contract state. One Validator instance processes exactly
// one consignment end-to-end; it is not reused across validations.
type Validator struct {
	Provider      cryptoprovider.Provider
	Resolver      witness.ResolveWitness
	Witnesses     WitnessSource
	Machine       vm.ScriptVM
	ContractState vm.ContractStateEvolve
	// TrustedTypes is the validator's own type registry; the consignment's
	// bundled type system must bit-match it for every semantic id it
	// declares before the schema phase proceeds.
	TrustedTypes typesys.TypeSystem

	// TrustedOpSeals names operations whose seal commitments a caller
	// has already independently verified (e.g. from a prior partial
	// validation); the seal-definition and bundle-consistency checkers
	// skip re-deriving them, and the logic phase does not check them.
	TrustedOpSeals map[idtype.OpId]struct{}
	// SafeHeight, if set, flags witnesses that are not mined, or are mined
	// above it, as unsafe history rather than failing the consignment.
	SafeHeight *uint64

	status     *Status
	doubleSpend map[state.Opout]struct{}
	txOrdCache  map[idtype.Txid]witness.WitnessOrd
}

// NewValidator builds a Validator ready to run a single Validate call.
func NewValidator(p cryptoprovider.Provider, resolver witness.ResolveWitness, witnesses WitnessSource, machine vm.ScriptVM, cstate vm.ContractStateEvolve, trustedTypes typesys.TypeSystem) *Validator {
	return &Validator{
		Provider:       p,
		Resolver:       resolver,
		Witnesses:      witnesses,
		Machine:        machine,
		ContractState:  cstate,
		TrustedTypes:   trustedTypes,
		TrustedOpSeals: make(map[idtype.OpId]struct{}),
		status:         NewStatus(),
		doubleSpend:    make(map[state.Opout]struct{}),
		txOrdCache:     make(map[idtype.Txid]witness.WitnessOrd),
	}
}

// Validate runs the full three-phase pipeline against cons, expecting
// chain net expectedNet, and returns the accumulated Status. Bundles are
// walked in ascending bundle-id order.
func (v *Validator) Validate(cons consignment.ConsignmentApi, expectedNet idtype.ChainNet) *Status {
	cons = consignment.CheckedConsignment{Inner: cons}
	st := v.status

	// Step 1: pre-checks.
	if cons.ChainNet() != expectedNet {
		st.AddFailure(ContractChainNetMismatch{})
		return st
	}
	if err := v.Resolver.CheckChainNet(expectedNet); err != nil {
		st.AddFailure(ResolverChainNetMismatch{})
		return st
	}

	// Step 2: schema phase.
	CheckTypeSystemBitEquality(st, cons.Types(), v.TrustedTypes)
	schemaStatus := VerifySchema(cons.Schema(), cons.Types())
	st.Failures = append(st.Failures, schemaStatus.Failures...)
	st.Warnings = append(st.Warnings, schemaStatus.Warnings...)
	st.Infos = append(st.Infos, schemaStatus.Infos...)
	if st.Validity() == Invalid {
		return st
	}

	genesis := cons.Genesis()
	contractID := idtype.ContractId(genesis.ID(v.Provider))

	unsafeHistory := make(map[uint64][]idtype.Txid)

	// Step 3: commitment phase.
	for _, entry := range cons.Bundles() {
		bundleID := entry.BundleID
		bundle := entry.Bundle

		anchor, ok := cons.Anchor(bundleID)
		if !ok {
			st.AddFailure(AnchorAbsent{BundleID: bundleID})
			continue
		}
		if err := bundle.CheckOpidCommitments(); err != nil {
			if e, ok := err.(consignment.ExtraKnownTransitionError); ok {
				st.AddFailure(ExtraKnownTransition{OpID: e.OpID})
			}
			continue
		}

		defs := CheckSealDefinitions(st, v.Provider, cons, bundle, v.TrustedOpSeals, v.doubleSpend)

		tx, haveTx := v.Witnesses.WitnessTx(anchor.WitnessID)
		if !haveTx {
			st.AddFailure(SealNoPubWitness{BundleID: bundleID, WitnessID: anchor.WitnessID, Reason: "witness transaction unavailable"})
			continue
		}
		spent := SpentOutpoints(tx)

		ord, sealOK := CheckSealClosing(st, v.Provider, v.Resolver, v.txOrdCache, contractID, bundleID, anchor.WitnessID, tx, anchor.Anchor, defs, spent)
		if !sealOK {
			continue
		}
		CheckBundleConsistency(st, anchor.WitnessID, tx, defs, v.TrustedOpSeals, spent)

		if v.SafeHeight != nil {
			if mined, isMined := ord.(witness.Mined); !isMined || mined.Height > *v.SafeHeight {
				unsafeHistory[heightBucket(ord)] = append(unsafeHistory[heightBucket(ord)], anchor.WitnessID)
			}
		}
	}
	if len(unsafeHistory) > 0 {
		st.AddWarning(UnsafeHistory{ByHeight: unsafeHistory})
	}
	if st.Validity() == Invalid {
		return st
	}

	// Step 4: logic phase.
	if cons.SchemaID() != genesis.SchemaID {
		st.AddFailure(SchemaMismatch{})
		return st
	}
	CheckOperationState(st, v.Provider, cons, cons.Schema(), cons.Types(), cons.Scripts(), v.Machine, v.ContractState, contractID, genesis.ID(v.Provider), genesis)

	for _, entry := range cons.Bundles() {
		for _, kt := range entry.Bundle.KnownTransitions {
			opid := kt.OpID
			if _, trusted := v.TrustedOpSeals[opid]; trusted {
				continue
			}
			if kt.Transition.ContractID != contractID {
				st.AddFailure(ContractMismatch{OpID: opid})
				continue
			}
			if _, validated := st.ValidatedOpIDs[opid]; !validated {
				st.AddFailure(SealsUnvalidated{OpID: opid})
				continue
			}
			CheckOperationState(st, v.Provider, cons, cons.Schema(), cons.Types(), cons.Scripts(), v.Machine, v.ContractState, contractID, opid, kt.Transition)
		}
	}

	return st
}

// heightBucket returns ord's mined height, or 0 for any non-mined status,
// the key the safe-height warning groups witnesses under.
func heightBucket(ord witness.WitnessOrd) uint64 {
	if mined, ok := ord.(witness.Mined); ok {
		return mined.Height
	}
	return 0
}

