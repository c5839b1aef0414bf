// Package mpc implements the multi-protocol commitment scheme: a binary
// Merkle tree over per-contract leaves ordered by contract id, letting many
// contracts' bundle ids share
// one on-chain commitment, plus the proof format a single contract's
// witness carries to prove inclusion.
package mpc

import (
	"encoding/binary"
	"fmt"
	"sort"

	"github.com/rgbcore/validator/cryptoprovider"
	"github.com/rgbcore/validator/idtype"
)

// Message is the 32-byte leaf value committed for one contract, typically a
// transition bundle's id.
type Message [32]byte

// Commitment is the 32-byte root of the multi-protocol Merkle tree.
type Commitment [32]byte

// leafHash hashes the protocol id together with the bundle-id leaf, domain
// separated from interior node hashing.
func leafHash(p cryptoprovider.Provider, protocolID idtype.ContractId, msg Message) [32]byte {
	buf := make([]byte, 0, 64)
	buf = append(buf, protocolID[:]...)
	buf = append(buf, msg[:]...)
	return cryptoprovider.Tagged(p, cryptoprovider.TagMerkleLeaf, buf)
}

func nodeHash(p cryptoprovider.Provider, left, right [32]byte) [32]byte {
	buf := make([]byte, 0, 64)
	buf = append(buf, left[:]...)
	buf = append(buf, right[:]...)
	return cryptoprovider.Tagged(p, cryptoprovider.TagMerkleNode, buf)
}

// Tree builds the commitment root over a set of per-contract messages,
// ordered by ascending contract id so the root is deterministic regardless
// of insertion order.
type Tree struct {
	p        cryptoprovider.Provider
	messages map[idtype.ContractId]Message
}

// NewTree creates an empty commitment tree using p for all hashing.
func NewTree(p cryptoprovider.Provider) *Tree {
	return &Tree{p: p, messages: make(map[idtype.ContractId]Message)}
}

// Add records protocolID's message, overwriting any prior entry.
func (t *Tree) Add(protocolID idtype.ContractId, msg Message) {
	t.messages[protocolID] = msg
}

func (t *Tree) sortedIDs() []idtype.ContractId {
	out := make([]idtype.ContractId, 0, len(t.messages))
	for id := range t.messages {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

// Commit computes the tree's root over all added messages.
func (t *Tree) Commit() (Commitment, error) {
	ids := t.sortedIDs()
	if len(ids) == 0 {
		return Commitment{}, fmt.Errorf("mpc: empty tree has no commitment")
	}
	level := make([][32]byte, 0, len(ids))
	for _, id := range ids {
		level = append(level, leafHash(t.p, id, t.messages[id]))
	}
	for len(level) > 1 {
		next := make([][32]byte, 0, (len(level)+1)/2)
		for i := 0; i < len(level); i += 2 {
			if i+1 < len(level) {
				next = append(next, nodeHash(t.p, level[i], level[i+1]))
			} else {
				next = append(next, nodeHash(t.p, level[i], level[i]))
			}
		}
		level = next
	}
	return Commitment(level[0]), nil
}

// Proof is an inclusion proof for one contract's message against a
// commitment root, carrying the sibling path bottom-up.
type Proof struct {
	ProtocolID idtype.ContractId
	Message    Message
	Path       [][32]byte
}

// Fold recomputes the commitment root by hashing Message's leaf up through
// the sibling path.
func (proof Proof) Fold(p cryptoprovider.Provider) Commitment {
	cur := leafHash(p, proof.ProtocolID, proof.Message)
	for _, sibling := range proof.Path {
		cur = nodeHash(p, cur, sibling)
	}
	return Commitment(cur)
}

// Verify reports whether p proves Message is committed under root.
func (proof Proof) Verify(p cryptoprovider.Provider, root Commitment) bool {
	return proof.Fold(p) == root
}

// EncodeIndex packs a tree position for diagnostics; not part of the
// consensus-critical path.
func EncodeIndex(i uint32) []byte {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], i)
	return buf[:]
}
