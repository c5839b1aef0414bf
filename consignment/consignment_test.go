package consignment

import (
	"testing"

	"github.com/rgbcore/validator/commitment"
	"github.com/rgbcore/validator/idtype"
	"github.com/rgbcore/validator/schema"
	"github.com/rgbcore/validator/seal"
	"github.com/rgbcore/validator/state"
	"github.com/rgbcore/validator/typesys"
)

func TestCheckOpidCommitmentsMatchingSucceeds(t *testing.T) {
	op := idtype.OpId{0x01}
	in := state.Opout{Op: idtype.OpId{0x99}, Ty: 1, No: 0}
	b := TransitionBundle{
		KnownTransitions: []KnownTransition{{OpID: op, Transition: state.Transition[seal.Graph]{}}},
		InputMap:         map[state.Opout]idtype.OpId{in: op},
	}
	if err := b.CheckOpidCommitments(); err != nil {
		t.Fatalf("got %v", err)
	}
}

func TestCheckOpidCommitmentsKnownButUnreferenced(t *testing.T) {
	op := idtype.OpId{0x01}
	b := TransitionBundle{
		KnownTransitions: []KnownTransition{{OpID: op, Transition: state.Transition[seal.Graph]{}}},
		InputMap:         map[state.Opout]idtype.OpId{},
	}
	err := b.CheckOpidCommitments()
	mismatch, ok := err.(ExtraKnownTransitionError)
	if !ok || mismatch.OpID != op {
		t.Fatalf("got %v", err)
	}
}

func TestCheckOpidCommitmentsReferencedButUnknown(t *testing.T) {
	op := idtype.OpId{0x02}
	in := state.Opout{Op: idtype.OpId{0x99}, Ty: 1, No: 0}
	b := TransitionBundle{
		InputMap: map[state.Opout]idtype.OpId{in: op},
	}
	err := b.CheckOpidCommitments()
	mismatch, ok := err.(ExtraKnownTransitionError)
	if !ok || mismatch.OpID != op {
		t.Fatalf("got %v", err)
	}
}

func TestCheckedConsignmentBundlesSortsAscending(t *testing.T) {
	m := NewMemory(idtype.BitcoinRegtest, state.Genesis[seal.Graph]{}, idtype.OpId{0x00}, &schema.Schema{}, typesys.NewMapTypeSystem(nil))
	high := idtype.BundleId{0x02}
	low := idtype.BundleId{0x01}
	m.AddBundle(high, TransitionBundle{InputMap: map[state.Opout]idtype.OpId{}}, idtype.Txid{0x01}, commitment.EAnchor{})
	m.AddBundle(low, TransitionBundle{InputMap: map[state.Opout]idtype.OpId{}}, idtype.Txid{0x02}, commitment.EAnchor{})

	checked := CheckedConsignment{Inner: m}
	got := checked.Bundles()
	if len(got) != 2 || got[0].BundleID != low || got[1].BundleID != high {
		t.Fatalf("got %+v", got)
	}
	// The underlying Memory's own insertion order is untouched.
	if m.Bundles()[0].BundleID != high {
		t.Fatalf("want CheckedConsignment to copy rather than mutate the inner slice")
	}
}

func TestMemoryOperationResolvesGenesisAndTransitions(t *testing.T) {
	genesisID := idtype.OpId{0x00}
	m := NewMemory(idtype.BitcoinRegtest, state.Genesis[seal.Graph]{}, genesisID, &schema.Schema{}, typesys.NewMapTypeSystem(nil))

	opID := idtype.OpId{0x01}
	witnessID := idtype.Txid{0x10}
	bundleID := idtype.BundleId{0x01}
	m.AddBundle(bundleID, TransitionBundle{
		KnownTransitions: []KnownTransition{{OpID: opID, Transition: state.Transition[seal.Graph]{}}},
		InputMap:         map[state.Opout]idtype.OpId{{Op: genesisID, Ty: 1, No: 0}: opID},
	}, witnessID, commitment.EAnchor{})

	ref, ok := m.Operation(genesisID)
	if !ok {
		t.Fatalf("want genesis operation to resolve")
	}
	if _, ok := ref.(GenesisRef); !ok {
		t.Fatalf("got %T", ref)
	}

	ref, ok = m.Operation(opID)
	if !ok {
		t.Fatalf("want transition operation to resolve")
	}
	if _, ok := ref.(TransitionRef); !ok {
		t.Fatalf("got %T", ref)
	}

	gotWitness, ok := m.OpWitnessID(opID)
	if !ok || gotWitness != witnessID {
		t.Fatalf("got %v %v", gotWitness, ok)
	}

	if _, ok := m.OpWitnessID(idtype.OpId{0x99}); ok {
		t.Fatalf("want unknown opid to report false")
	}
}

func TestScriptLibrariesLookup(t *testing.T) {
	libID := schema.ScriptId{0x01}
	libs := ScriptLibraries{libID: []byte("code")}
	got, ok := libs.Lookup(libID)
	if !ok || string(got.Bytes) != "code" {
		t.Fatalf("got %q %v", got.Bytes, ok)
	}
	if _, ok := libs.Lookup(schema.ScriptId{0x99}); ok {
		t.Fatalf("want unknown script id to report false")
	}
}
