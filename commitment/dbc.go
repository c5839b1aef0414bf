// Package commitment implements deterministic bitcoin commitments: the
// anchor linking a witness transaction to a multi-protocol commitment, and
// the two accepted proof-of-commitment script forms, opret and tapret.
package commitment

import (
	"bytes"

	"github.com/rgbcore/validator/commitment/mpc"
	"github.com/rgbcore/validator/cryptoprovider"
	"github.com/rgbcore/validator/idtype"
)

// CloseMethod identifies which deterministic-commitment script form a
// witness transaction uses to carry its commitment.
type CloseMethod uint8

const (
	CloseMethodUnknown CloseMethod = iota
	OpretFirst
	TapretFirst
)

func (m CloseMethod) String() string {
	switch m {
	case OpretFirst:
		return "opret1st"
	case TapretFirst:
		return "tapret1st"
	default:
		return "unknown"
	}
}

// TxOut is the minimal output shape the commitment verifier inspects: an
// OP_RETURN push (opret) or a taproot output key (tapret).
type TxOut struct {
	Value        uint64
	ScriptPubKey []byte
	// TaprootInternalKey and TaprootOutputKey are only
	// meaningful when ScriptPubKey is a v1 (taproot) witness program.
	TaprootInternalKey [32]byte
	TaprootOutputKey   [32]byte
}

// Tx is the minimal witness-transaction shape the commitment verifier
// inspects: its txid, the outpoints it spends, and the ordered outputs a
// close method may carry a commitment in.
type Tx struct {
	Txid    idtype.Txid
	Inputs  []idtype.Outpoint
	Outputs []TxOut
}

const opReturn = 0x6a

// isOpReturnPush reports whether script is a standard single-push
// OP_RETURN output: 0x6a followed by a direct length-prefixed push of the
// given payload length.
func isOpReturnPush(script []byte, payloadLen int) bool {
	if len(script) < 2 || script[0] != opReturn {
		return false
	}
	pushLen := int(script[1])
	return pushLen == payloadLen && len(script) == 2+payloadLen
}

func opReturnPayload(script []byte) []byte {
	if len(script) < 2 {
		return nil
	}
	return script[2:]
}

// DbcProof is the closed sum of accepted deterministic-commitment proofs: a
// first-opret output carrying the commitment directly, or a first-tapret
// output whose taproot output key was tweaked by the commitment.
type DbcProof interface {
	isDbcProof()
	Method() CloseMethod
	// Verify reports whether this proof demonstrates that msg is
	// committed in tx's designated output.
	Verify(tx Tx, msg mpc.Commitment) bool
}

// OpretProof proves commitment via a first OP_RETURN output carrying the
// 32-byte commitment as its sole push.
type OpretProof struct {
	VoutIndex uint32
}

func (OpretProof) isDbcProof()         {}
func (OpretProof) Method() CloseMethod { return OpretFirst }

func (p OpretProof) Verify(tx Tx, msg mpc.Commitment) bool {
	if int(p.VoutIndex) >= len(tx.Outputs) {
		return false
	}
	out := tx.Outputs[p.VoutIndex]
	if !isOpReturnPush(out.ScriptPubKey, len(msg)) {
		return false
	}
	return bytes.Equal(opReturnPayload(out.ScriptPubKey), msg[:])
}

// TapretProof proves commitment via a first taproot output whose output key
// was produced by tweaking InternalKey with msg.
type TapretProof struct {
	VoutIndex   uint32
	InternalKey [32]byte
}

func (TapretProof) isDbcProof()         {}
func (TapretProof) Method() CloseMethod { return TapretFirst }

func (p TapretProof) Verify(tx Tx, msg mpc.Commitment) bool {
	if int(p.VoutIndex) >= len(tx.Outputs) {
		return false
	}
	out := tx.Outputs[p.VoutIndex]
	if out.TaprootInternalKey != p.InternalKey {
		return false
	}
	tweaked := tapTweak(p.InternalKey, msg)
	return out.TaprootOutputKey == tweaked
}

// tapTweak derives a deterministic tweaked key from an internal key and a
// commitment, standing in for BIP-341 tap-tweak arithmetic until a real
// secp256k1 backend is wired in.
func tapTweak(internal [32]byte, msg mpc.Commitment) [32]byte {
	dev := cryptoprovider.Dev{}
	buf := make([]byte, 0, 64)
	buf = append(buf, internal[:]...)
	buf = append(buf, msg[:]...)
	return dev.SHA3_256(buf)
}

// EAnchor binds a witness transaction's commitment proof to the
// multi-protocol inclusion proof that names this contract's leaf within
// the committed tree.
type EAnchor struct {
	Proof    DbcProof
	MpcProof mpc.Proof
}

// Verify checks that the multi-protocol proof names protocolID and msg,
// folds it to a root, and that tx carries a deterministic commitment to
// that root via Proof.
func (a EAnchor) Verify(p cryptoprovider.Provider, tx Tx, protocolID idtype.ContractId, msg mpc.Message) bool {
	if a.MpcProof.ProtocolID != protocolID || a.MpcProof.Message != msg {
		return false
	}
	root := a.MpcProof.Fold(p)
	return a.Proof.Verify(tx, root)
}

// Witness is a resolved witness transaction paired with the anchor proving
// its commitment, as handed to the seal-closing checker.
type Witness struct {
	Tx     Tx
	Anchor EAnchor
}
