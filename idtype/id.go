// Package idtype holds the opaque 32-byte consensus identifiers shared
// across the validator: contract, schema, operation and bundle ids, plus
// transaction ids and outpoints. Every identifier compares by byte-lex
// order, never by numeric interpretation of the bytes.
package idtype

import (
	"bytes"
	"encoding/hex"
	"sort"
)

// ContractId identifies a deployed contract. Derived by the application
// from the genesis operation; the validator treats it as opaque.
type ContractId [32]byte

// SchemaId identifies a schema declaration.
type SchemaId [32]byte

// OpId identifies a single operation (genesis or transition).
type OpId [32]byte

// BundleId identifies a transition bundle committed into one witness tx.
type BundleId [32]byte

// Txid identifies a blockchain transaction.
type Txid [32]byte

func (id ContractId) String() string { return hex.EncodeToString(id[:]) }
func (id SchemaId) String() string   { return hex.EncodeToString(id[:]) }
func (id OpId) String() string       { return hex.EncodeToString(id[:]) }
func (id BundleId) String() string   { return hex.EncodeToString(id[:]) }
func (id Txid) String() string       { return hex.EncodeToString(id[:]) }

// Compare returns -1, 0 or 1 comparing a and b by byte-lex order.
func (id OpId) Compare(other OpId) int { return bytes.Compare(id[:], other[:]) }

// Less reports whether id sorts before other in byte-lex order.
func (id OpId) Less(other OpId) bool { return id.Compare(other) < 0 }

func (id BundleId) Compare(other BundleId) int { return bytes.Compare(id[:], other[:]) }
func (id BundleId) Less(other BundleId) bool   { return id.Compare(other) < 0 }

func (id Txid) Compare(other Txid) int { return bytes.Compare(id[:], other[:]) }
func (id Txid) Less(other Txid) bool   { return id.Compare(other) < 0 }

func (id ContractId) Compare(other ContractId) int { return bytes.Compare(id[:], other[:]) }

func (id SchemaId) Compare(other SchemaId) int { return bytes.Compare(id[:], other[:]) }

// Outpoint references a concrete transaction output.
type Outpoint struct {
	Txid Txid
	Vout uint32
}

// Compare orders outpoints first by txid byte-lex, then by vout.
func (o Outpoint) Compare(other Outpoint) int {
	if c := o.Txid.Compare(other.Txid); c != 0 {
		return c
	}
	switch {
	case o.Vout < other.Vout:
		return -1
	case o.Vout > other.Vout:
		return 1
	default:
		return 0
	}
}

func (o Outpoint) Less(other Outpoint) bool { return o.Compare(other) < 0 }

// SortOpIDs sorts ids ascending by byte-lex order in place, the canonical
// iteration order the validator must use for any consensus-visible walk
// over a set of operation ids (see spec's determinism requirement).
func SortOpIDs(ids []OpId) {
	sort.Slice(ids, func(i, j int) bool { return ids[i].Less(ids[j]) })
}

// SortOutpoints sorts outpoints ascending by byte-lex order in place.
func SortOutpoints(points []Outpoint) {
	sort.Slice(points, func(i, j int) bool { return points[i].Less(points[j]) })
}

// SortBundleIDs sorts bundle ids ascending by byte-lex order in place.
func SortBundleIDs(ids []BundleId) {
	sort.Slice(ids, func(i, j int) bool { return ids[i].Less(ids[j]) })
}
