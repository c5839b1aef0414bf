package cryptoprovider

import "golang.org/x/crypto/sha3"

func (Dev) SHA3_256(input []byte) [32]byte {
	h := sha3.New256()
	_, _ = h.Write(input)
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}
