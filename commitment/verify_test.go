package commitment

import (
	"testing"

	"github.com/rgbcore/validator/commitment/mpc"
	"github.com/rgbcore/validator/cryptoprovider"
	"github.com/rgbcore/validator/idtype"
	"github.com/rgbcore/validator/seal"
)

func opretScript(commitment mpc.Commitment) []byte {
	script := make([]byte, 0, 2+len(commitment))
	script = append(script, opReturn, byte(len(commitment)))
	script = append(script, commitment[:]...)
	return script
}

func TestFindFirstDbcOutputPrefersFirstMatch(t *testing.T) {
	tx := Tx{Outputs: []TxOut{
		{ScriptPubKey: []byte{0x51}},
		{ScriptPubKey: opretScript(mpc.Commitment{0x01})},
		{TaprootOutputKey: [32]byte{0x02}},
	}}
	method, vout, found := FindFirstDbcOutput(tx)
	if !found || method != OpretFirst || vout != 1 {
		t.Fatalf("got method=%v vout=%d found=%v", method, vout, found)
	}
}

func TestFindFirstDbcOutputNoneFound(t *testing.T) {
	tx := Tx{Outputs: []TxOut{{ScriptPubKey: []byte{0x51}}}}
	_, _, found := FindFirstDbcOutput(tx)
	if found {
		t.Fatalf("want no dbc output found")
	}
}

func TestOpretProofVerifyRejectsWrongPayload(t *testing.T) {
	msg := mpc.Commitment{0xaa}
	tx := Tx{Outputs: []TxOut{{ScriptPubKey: opretScript(mpc.Commitment{0xbb})}}}
	p := OpretProof{VoutIndex: 0}
	if p.Verify(tx, msg) {
		t.Fatalf("want mismatched opret payload to fail verification")
	}
}

func TestOpretProofVerifyAcceptsMatchingPayload(t *testing.T) {
	msg := mpc.Commitment{0xaa}
	tx := Tx{Outputs: []TxOut{{ScriptPubKey: opretScript(msg)}}}
	p := OpretProof{VoutIndex: 0}
	if !p.Verify(tx, msg) {
		t.Fatalf("want matching opret payload to verify")
	}
}

func TestTapretProofVerify(t *testing.T) {
	internal := [32]byte{0x01}
	msg := mpc.Commitment{0x02}
	tweaked := tapTweak(internal, msg)
	tx := Tx{Outputs: []TxOut{{TaprootInternalKey: internal, TaprootOutputKey: tweaked}}}
	p := TapretProof{VoutIndex: 0, InternalKey: internal}
	if !p.Verify(tx, msg) {
		t.Fatalf("want correctly tweaked taproot output to verify")
	}
	if p.Verify(tx, mpc.Commitment{0x03}) {
		t.Fatalf("want wrong message to fail taproot verification")
	}
}

func TestEAnchorVerifyRejectsWrongProtocolOrMessage(t *testing.T) {
	p := cryptoprovider.Dev{}
	contractID := idtype.ContractId{0x01}
	bundleID := idtype.BundleId{0x02}
	proof := mpc.Proof{ProtocolID: contractID, Message: mpc.Message(bundleID)}
	root := proof.Fold(p)
	anchor := EAnchor{Proof: OpretProof{VoutIndex: 0}, MpcProof: proof}
	tx := Tx{Outputs: []TxOut{{ScriptPubKey: opretScript(root)}}}

	if !anchor.Verify(p, tx, contractID, mpc.Message(bundleID)) {
		t.Fatalf("want matching anchor to verify")
	}
	if anchor.Verify(p, tx, idtype.ContractId{0x99}, mpc.Message(bundleID)) {
		t.Fatalf("want wrong protocol id to fail")
	}
	if anchor.Verify(p, tx, contractID, mpc.Message{0x99}) {
		t.Fatalf("want wrong message to fail")
	}
}

func TestVerifyBundleCommitmentHappyPath(t *testing.T) {
	p := cryptoprovider.Dev{}
	contractID := idtype.ContractId{0x10}
	bundleID := idtype.BundleId{0x11}
	proof := mpc.Proof{ProtocolID: contractID, Message: mpc.Message(bundleID)}
	root := proof.Fold(p)
	anchor := EAnchor{Proof: OpretProof{VoutIndex: 0}, MpcProof: proof}

	spentTxid := idtype.Txid{0x20}
	outpoint := idtype.Outpoint{Txid: spentTxid, Vout: 0}
	tx := Tx{
		Outputs: []TxOut{{ScriptPubKey: opretScript(root)}},
	}
	sealOut := seal.OutputSeal{Txid: spentTxid, Vout: 0}
	spent := map[idtype.Outpoint]struct{}{outpoint: {}}

	result := VerifyBundleCommitment(p, tx, anchor, contractID, bundleID, []seal.OutputSeal{sealOut}, spent)
	if !result.OK() {
		t.Fatalf("got %+v", result)
	}
}

func TestVerifyBundleCommitmentNoDbcOutput(t *testing.T) {
	p := cryptoprovider.Dev{}
	contractID := idtype.ContractId{0x10}
	bundleID := idtype.BundleId{0x11}
	anchor := EAnchor{Proof: OpretProof{VoutIndex: 0}, MpcProof: mpc.Proof{ProtocolID: contractID, Message: mpc.Message(bundleID)}}
	tx := Tx{Outputs: []TxOut{{ScriptPubKey: []byte{0x51}}}}

	result := VerifyBundleCommitment(p, tx, anchor, contractID, bundleID, nil, nil)
	if !result.NoDbcOutput || result.OK() {
		t.Fatalf("got %+v", result)
	}
}

func TestVerifyBundleCommitmentSealNotSpent(t *testing.T) {
	p := cryptoprovider.Dev{}
	contractID := idtype.ContractId{0x10}
	bundleID := idtype.BundleId{0x11}
	proof := mpc.Proof{ProtocolID: contractID, Message: mpc.Message(bundleID)}
	root := proof.Fold(p)
	anchor := EAnchor{Proof: OpretProof{VoutIndex: 0}, MpcProof: proof}
	tx := Tx{Outputs: []TxOut{{ScriptPubKey: opretScript(root)}}}
	sealOut := seal.OutputSeal{Txid: idtype.Txid{0x30}, Vout: 0}

	result := VerifyBundleCommitment(p, tx, anchor, contractID, bundleID, []seal.OutputSeal{sealOut}, nil)
	if result.OK() || len(result.SealFailures) != 1 {
		t.Fatalf("got %+v", result)
	}
	if result.SealFailures[0].Seal != sealOut {
		t.Fatalf("got %+v", result.SealFailures[0])
	}
}
