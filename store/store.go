// Package store persists the validator's trusted ambient data — the
// semantic type registry checked for bit-equality during the schema
// phase, and a cache of resolved witness orders — in an embedded bbolt
// database, so a long-running validator node does not re-fetch them on
// every restart.
package store

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rgbcore/validator/idtype"
	"github.com/rgbcore/validator/typesys"
	"github.com/rgbcore/validator/witness"

	bolt "go.etcd.io/bbolt"
)

var (
	bucketTypes   = []byte("trusted_types_by_sem_id")
	bucketWitness = []byte("witness_ord_by_txid")
	bucketSecrets = []byte("sealed_secrets_by_label")
)

// DB is the bbolt-backed store. One DB is opened per validator node and
// shared across validations.
type DB struct {
	path string
	db   *bolt.DB
}

// Open creates or opens the store at datadir/validator.db.
func Open(datadir string) (*DB, error) {
	if datadir == "" {
		return nil, fmt.Errorf("datadir required")
	}
	if err := os.MkdirAll(datadir, 0o700); err != nil {
		return nil, fmt.Errorf("create datadir: %w", err)
	}
	path := filepath.Join(datadir, "validator.db")
	bdb, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bbolt: %w", err)
	}
	d := &DB{path: path, db: bdb}
	if err := d.db.Update(func(tx *bolt.Tx) error {
		for _, b := range [][]byte{bucketTypes, bucketWitness, bucketSecrets} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("create bucket %s: %w", string(b), err)
			}
		}
		return nil
	}); err != nil {
		bdb.Close()
		return nil, err
	}
	return d, nil
}

// Close releases the underlying database file.
func (d *DB) Close() error { return d.db.Close() }

// PutType persists a trusted semantic type's descriptor.
func (d *DB) PutType(id typesys.SemId, descriptor []byte) error {
	return d.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketTypes).Put(id[:], descriptor)
	})
}

// LoadTypeSystem builds an in-memory typesys.TypeSystem from everything
// persisted so far, for use as the validator's TrustedTypes.
func (d *DB) LoadTypeSystem() (typesys.TypeSystem, error) {
	types := make(map[typesys.SemId]typesys.Type)
	err := d.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketTypes).ForEach(func(k, v []byte) error {
			var id typesys.SemId
			copy(id[:], k)
			descriptor := make([]byte, len(v))
			copy(descriptor, v)
			types[id] = typesys.Type{Descriptor: descriptor}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return typesys.NewMapTypeSystem(types), nil
}

// PutWitnessOrd caches a resolved witness order by txid.
func (d *DB) PutWitnessOrd(txid idtype.Txid, ord witness.WitnessOrd) error {
	return d.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketWitness).Put(txid[:], encodeWitnessOrd(ord))
	})
}

// GetWitnessOrd returns a previously cached witness order.
func (d *DB) GetWitnessOrd(txid idtype.Txid) (witness.WitnessOrd, bool, error) {
	var ord witness.WitnessOrd
	var found bool
	err := d.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketWitness).Get(txid[:])
		if v == nil {
			return nil
		}
		found = true
		ord = decodeWitnessOrd(v)
		return nil
	})
	return ord, found, err
}

// PutSealedSecret wraps secret under kek (a 32-byte AES-256 key supplied by
// the host application, never itself persisted) and stores it under label.
// Used to keep a resolver API credential off disk in the clear.
func (d *DB) PutSealedSecret(kek []byte, label string, secret []byte) error {
	wrapped, err := WrapKey(kek, secret)
	if err != nil {
		return fmt.Errorf("seal secret %q: %w", label, err)
	}
	return d.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSecrets).Put([]byte(label), wrapped)
	})
}

// GetSealedSecret unwraps and returns the secret stored under label.
func (d *DB) GetSealedSecret(kek []byte, label string) ([]byte, bool, error) {
	var wrapped []byte
	err := d.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketSecrets).Get([]byte(label))
		if v == nil {
			return nil
		}
		wrapped = make([]byte, len(v))
		copy(wrapped, v)
		return nil
	})
	if err != nil || wrapped == nil {
		return nil, false, err
	}
	secret, err := UnwrapKey(kek, wrapped)
	if err != nil {
		return nil, false, fmt.Errorf("unseal secret %q: %w", label, err)
	}
	return secret, true, nil
}

const (
	tagArchived byte = iota
	tagIgnored
	tagTentative
	tagMined
)

func encodeWitnessOrd(ord witness.WitnessOrd) []byte {
	switch o := ord.(type) {
	case witness.Archived:
		return []byte{tagArchived}
	case witness.Ignored:
		return []byte{tagIgnored}
	case witness.Tentative:
		return []byte{tagTentative}
	case witness.Mined:
		buf := make([]byte, 9)
		buf[0] = tagMined
		binary.BigEndian.PutUint64(buf[1:], o.Height)
		return buf
	default:
		return []byte{tagArchived}
	}
}

func decodeWitnessOrd(b []byte) witness.WitnessOrd {
	if len(b) == 0 {
		return witness.Archived{}
	}
	switch b[0] {
	case tagIgnored:
		return witness.Ignored{}
	case tagTentative:
		return witness.Tentative{}
	case tagMined:
		if len(b) < 9 {
			return witness.Archived{}
		}
		return witness.Mined{Height: binary.BigEndian.Uint64(b[1:9])}
	default:
		return witness.Archived{}
	}
}
