// Package cryptoprovider supplies the narrow hashing interface the
// validator uses to compute operation and bundle identifiers, kept
// pluggable so a FIPS-certified backend can replace the development
// provider without touching call sites.
package cryptoprovider

// Provider is the hashing capability the validator depends on.
type Provider interface {
	SHA3_256(input []byte) [32]byte
}

// Dev is a development-only provider backed by golang.org/x/crypto/sha3.
// It makes no FIPS-compliance claim.
type Dev struct{}

// Domain separation tags, mirrored from the leaf/inner-node convention used
// for Merkle hashing: each consumer picks its own one-byte tag so digests
// computed for different purposes never collide under length-extension.
const (
	TagOpID       byte = 0x00
	TagBundleID   byte = 0x01
	TagMerkleLeaf byte = 0x02
	TagMerkleNode byte = 0x03
	TagScriptID   byte = 0x04
)

// Tagged hashes data as SHA3-256(tag || data), the domain-separated form
// every consensus identifier in this module uses.
func Tagged(p Provider, tag byte, data []byte) [32]byte {
	buf := make([]byte, 0, 1+len(data))
	buf = append(buf, tag)
	buf = append(buf, data...)
	return p.SHA3_256(buf)
}
