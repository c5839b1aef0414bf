// Package consignment models a packaged slice of contract history — a
// genesis, transition bundles, the type system and schema it was produced
// against, and script libraries — plus the narrow accessor interface the
// validator consumes instead of depending on any particular wire codec.
package consignment

import (
	"sort"

	"github.com/rgbcore/validator/commitment"
	"github.com/rgbcore/validator/idtype"
	"github.com/rgbcore/validator/schema"
	"github.com/rgbcore/validator/seal"
	"github.com/rgbcore/validator/state"
	"github.com/rgbcore/validator/typesys"
	"github.com/rgbcore/validator/vm"
)

// OpRef is the closed sum returned when looking up an operation by id: it
// is either the contract's genesis or one of its transitions.
type OpRef interface {
	isOpRef()
	Operation() state.Operation[seal.Graph]
}

type GenesisRef struct{ Genesis state.Genesis[seal.Graph] }

func (GenesisRef) isOpRef() {}
func (r GenesisRef) Operation() state.Operation[seal.Graph] { return r.Genesis }

type TransitionRef struct{ Transition state.Transition[seal.Graph] }

func (TransitionRef) isOpRef() {}
func (r TransitionRef) Operation() state.Operation[seal.Graph] { return r.Transition }

// KnownTransition pairs a transition with the opid it should hash to; the
// seal-definition checker records a TransitionIdMismatch when the two
// disagree.
type KnownTransition struct {
	OpID       idtype.OpId
	Transition state.Transition[seal.Graph]
}

// TransitionBundle is the set of transitions committed into one witness
// transaction, plus the input map recording which transition in the
// bundle claims each input opout.
type TransitionBundle struct {
	KnownTransitions []KnownTransition
	InputMap         map[state.Opout]idtype.OpId
}

// CheckOpidCommitments verifies that every transition in the bundle
// appears as a target in InputMap and that InputMap names no opid the
// bundle does not know about, surfacing bundle-packaging corruption
// (ExtraKnownTransition) before the seal-definition walk begins.
func (b TransitionBundle) CheckOpidCommitments() error {
	known := make(map[idtype.OpId]struct{}, len(b.KnownTransitions))
	for _, kt := range b.KnownTransitions {
		known[kt.OpID] = struct{}{}
	}
	referenced := make(map[idtype.OpId]struct{}, len(b.InputMap))
	for _, opid := range b.InputMap {
		referenced[opid] = struct{}{}
	}
	for opid := range known {
		if _, ok := referenced[opid]; !ok {
			return ExtraKnownTransitionError{OpID: opid}
		}
	}
	for opid := range referenced {
		if _, ok := known[opid]; !ok {
			return ExtraKnownTransitionError{OpID: opid}
		}
	}
	return nil
}

// ExtraKnownTransitionError reports a bundle whose known-transitions set
// and input-map targets disagree.
type ExtraKnownTransitionError struct{ OpID idtype.OpId }

func (e ExtraKnownTransitionError) Error() string {
	return "consignment: bundle opid/input-map mismatch for " + e.OpID.String()
}

// BundleAnchor pairs a bundle's witness txid with the commitment anchor
// proving the bundle is embedded in it.
type BundleAnchor struct {
	WitnessID idtype.Txid
	Anchor    commitment.EAnchor
}

// ConsignmentApi is the narrow accessor interface the validator consumes.
// Implementations may be backed by any wire format; this package's Memory
// type is a plain in-process reference implementation for tests.
type ConsignmentApi interface {
	ChainNet() idtype.ChainNet
	Genesis() state.Genesis[seal.Graph]
	// SchemaID is the attested id of the schema this consignment was
	// packaged against, checked for equality with the genesis's own
	// schema-id before the logic phase runs.
	SchemaID() idtype.SchemaId
	Schema() *schema.Schema
	Types() typesys.TypeSystem
	Scripts() ScriptLibraries

	// Bundles returns every transition bundle and the id that bundle
	// hashes to. Implementations may return them in any order (Memory
	// keeps insertion order); CheckedConsignment returns them in ascending
	// bundle-id order, the order validation walks them in.
	Bundles() []BundleEntry
	Anchor(bundleID idtype.BundleId) (BundleAnchor, bool)
	Operation(opid idtype.OpId) (OpRef, bool)
	// OpWitnessID returns the witness transaction id a prior transition
	// was committed in, needed to resolve that transition's
	// self-referential seals.
	OpWitnessID(opid idtype.OpId) (idtype.Txid, bool)
}

// BundleEntry pairs a bundle with the id it commits under.
type BundleEntry struct {
	BundleID idtype.BundleId
	Bundle   TransitionBundle
}

// ScriptLibraries implements vm.ScriptLookup over a consignment's bundled
// script libraries.
type ScriptLibraries map[schema.ScriptId][]byte

func (s ScriptLibraries) Lookup(lib schema.ScriptId) (vm.Script, bool) {
	b, ok := s[lib]
	return vm.Script{Bytes: b}, ok
}

// CheckedConsignment wraps a ConsignmentApi and returns bundles sorted by
// ascending bundle id, guarding callers against an implementation that
// forgets the canonical-order requirement.
type CheckedConsignment struct {
	Inner ConsignmentApi
}

func (c CheckedConsignment) ChainNet() idtype.ChainNet          { return c.Inner.ChainNet() }
func (c CheckedConsignment) Genesis() state.Genesis[seal.Graph] { return c.Inner.Genesis() }
func (c CheckedConsignment) SchemaID() idtype.SchemaId          { return c.Inner.SchemaID() }
func (c CheckedConsignment) Schema() *schema.Schema             { return c.Inner.Schema() }
func (c CheckedConsignment) Types() typesys.TypeSystem          { return c.Inner.Types() }
func (c CheckedConsignment) Scripts() ScriptLibraries           { return c.Inner.Scripts() }
func (c CheckedConsignment) Anchor(id idtype.BundleId) (BundleAnchor, bool) {
	return c.Inner.Anchor(id)
}
func (c CheckedConsignment) Operation(opid idtype.OpId) (OpRef, bool) { return c.Inner.Operation(opid) }
func (c CheckedConsignment) OpWitnessID(opid idtype.OpId) (idtype.Txid, bool) {
	return c.Inner.OpWitnessID(opid)
}

func (c CheckedConsignment) Bundles() []BundleEntry {
	out := c.Inner.Bundles()
	sorted := make([]BundleEntry, len(out))
	copy(sorted, out)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].BundleID.Less(sorted[j].BundleID) })
	return sorted
}

// Memory is a plain in-process ConsignmentApi backed by maps, built once
// up front and never mutated concurrently. It exists for tests and for
// fixture-driven tooling that has no wire codec to deserialize from.
type Memory struct {
	net         idtype.ChainNet
	genesis     state.Genesis[seal.Graph]
	genesisID   idtype.OpId
	SchemaIDVal idtype.SchemaId
	schema      *schema.Schema
	types       typesys.TypeSystem
	Libs        ScriptLibraries

	bundles    []BundleEntry
	anchors    map[idtype.BundleId]BundleAnchor
	ops        map[idtype.OpId]OpRef
	opWitness  map[idtype.OpId]idtype.Txid
}

// NewMemory builds a Memory seeded with a genesis; call AddBundle to add
// each transition bundle afterward.
func NewMemory(net idtype.ChainNet, genesis state.Genesis[seal.Graph], genesisID idtype.OpId, sch *schema.Schema, types typesys.TypeSystem) *Memory {
	m := &Memory{
		net:       net,
		genesis:   genesis,
		genesisID: genesisID,
		schema:    sch,
		types:     types,
		anchors:   make(map[idtype.BundleId]BundleAnchor),
		ops:       make(map[idtype.OpId]OpRef),
		opWitness: make(map[idtype.OpId]idtype.Txid),
	}
	m.ops[genesisID] = GenesisRef{Genesis: genesis}
	return m
}

// AddBundle records a transition bundle, its committing witness, and the
// anchor proving the commitment, indexing every known transition it
// contains for later Operation/OpWitnessID lookups.
func (m *Memory) AddBundle(bundleID idtype.BundleId, bundle TransitionBundle, witnessID idtype.Txid, anchor commitment.EAnchor) {
	m.bundles = append(m.bundles, BundleEntry{BundleID: bundleID, Bundle: bundle})
	m.anchors[bundleID] = BundleAnchor{WitnessID: witnessID, Anchor: anchor}
	for _, kt := range bundle.KnownTransitions {
		m.ops[kt.OpID] = TransitionRef{Transition: kt.Transition}
		m.opWitness[kt.OpID] = witnessID
	}
}

func (m *Memory) ChainNet() idtype.ChainNet          { return m.net }
func (m *Memory) Genesis() state.Genesis[seal.Graph] { return m.genesis }
func (m *Memory) SchemaID() idtype.SchemaId          { return m.SchemaIDVal }
func (m *Memory) Schema() *schema.Schema             { return m.schema }
func (m *Memory) Types() typesys.TypeSystem          { return m.types }
func (m *Memory) Scripts() ScriptLibraries            { return m.Libs }

func (m *Memory) Bundles() []BundleEntry { return m.bundles }

func (m *Memory) Anchor(bundleID idtype.BundleId) (BundleAnchor, bool) {
	a, ok := m.anchors[bundleID]
	return a, ok
}

func (m *Memory) Operation(opid idtype.OpId) (OpRef, bool) {
	op, ok := m.ops[opid]
	return op, ok
}

func (m *Memory) OpWitnessID(opid idtype.OpId) (idtype.Txid, bool) {
	id, ok := m.opWitness[opid]
	return id, ok
}
