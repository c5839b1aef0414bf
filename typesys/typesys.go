// Package typesys provides the narrow type-system interface the validator
// consumes: semantic-type ids, bit-equality comparison of registered types,
// and strict deserialization of a binary payload against a semantic id.
// Building a TypeSystem from a schema IDL is out of scope here; the
// validator only ever receives one, already built, from its caller.
package typesys

import (
	"bytes"
	"errors"
	"sort"
)

// SemId is a semantic-type identifier: the key under which a concrete
// strict-encoding type descriptor is registered in a TypeSystem.
type SemId [32]byte

// ErrUnknownSemId is returned by StrictDeserialize when the semantic id is
// not present in the type system.
var ErrUnknownSemId = errors.New("typesys: unknown semantic id")

// ErrInvalidPayload is returned by StrictDeserialize when the payload does
// not conform to the registered type for the given semantic id.
var ErrInvalidPayload = errors.New("typesys: payload does not strict-deserialize to type")

// Type is an opaque, comparable strict-encoding type descriptor. The
// reference implementation below stores a raw descriptor byte-blob and a
// validating predicate; consignment-supplied types are compared against
// trusted ones by Equal (bit-equality), never by structural walk.
type Type struct {
	// Descriptor is the strict-encoding type descriptor bytes. Two types
	// are equal iff their descriptors are byte-identical.
	Descriptor []byte
	// Validate reports whether data conforms to this type. May be nil for
	// types that exist only to be descriptor-compared (never deserialized
	// against); StrictDeserialize treats a nil Validate as "always valid"
	// only when Descriptor is non-empty, otherwise it is a malformed type.
	Validate func(data []byte) bool
}

// Equal reports bit-equality between two registered types, independent of
// their Validate func (which is not comparable and carries no consensus
// meaning beyond what Descriptor already encodes).
func (t Type) Equal(other Type) bool {
	return bytes.Equal(t.Descriptor, other.Descriptor)
}

// TypeSystem is a registry of semantic-type ids to their strict-encoding
// type descriptors.
type TypeSystem interface {
	// Get returns the type registered for id, if any.
	Get(id SemId) (Type, bool)
	// Contains reports whether id is registered.
	Contains(id SemId) bool
	// Iter calls fn for every (id, type) pair in ascending byte-lex order
	// of id, the canonical iteration order consensus code must use.
	Iter(fn func(id SemId, t Type))
}

// StrictDeserialize reports whether data strict-deserializes to the type
// registered under id. Returns ErrUnknownSemId if id is not registered,
// ErrInvalidPayload if the registered type rejects data.
func StrictDeserialize(types TypeSystem, id SemId, data []byte) error {
	t, ok := types.Get(id)
	if !ok {
		return ErrUnknownSemId
	}
	if t.Validate == nil {
		if len(t.Descriptor) == 0 {
			return ErrInvalidPayload
		}
		return nil
	}
	if !t.Validate(data) {
		return ErrInvalidPayload
	}
	return nil
}

// MapTypeSystem is a simple in-memory TypeSystem backed by a map, suitable
// for tests, fixtures and the reference consignment/store implementations.
type MapTypeSystem struct {
	types map[SemId]Type
}

// NewMapTypeSystem builds a MapTypeSystem from the given registrations.
func NewMapTypeSystem(types map[SemId]Type) *MapTypeSystem {
	cp := make(map[SemId]Type, len(types))
	for k, v := range types {
		cp[k] = v
	}
	return &MapTypeSystem{types: cp}
}

func (m *MapTypeSystem) Get(id SemId) (Type, bool) {
	t, ok := m.types[id]
	return t, ok
}

func (m *MapTypeSystem) Contains(id SemId) bool {
	_, ok := m.types[id]
	return ok
}

func (m *MapTypeSystem) Iter(fn func(id SemId, t Type)) {
	ids := make([]SemId, 0, len(m.types))
	for id := range m.types {
		ids = append(ids, id)
	}
	sortSemIds(ids)
	for _, id := range ids {
		fn(id, m.types[id])
	}
}

func sortSemIds(ids []SemId) {
	sort.Slice(ids, func(i, j int) bool { return bytes.Compare(ids[i][:], ids[j][:]) < 0 })
}
