// Package validation implements the three-phase consignment validator:
// schema well-formedness, single-use-seal commitment verification, and
// per-operation business logic, folding every check into an accumulated
// Status rather than aborting the whole pipeline on the first problem.
package validation

import (
	"fmt"

	"github.com/rgbcore/validator/idtype"
	"github.com/rgbcore/validator/schema"
	"github.com/rgbcore/validator/state"
	"github.com/rgbcore/validator/typesys"
)

// Failure is the closed sum of fatal validation problems. Any failure
// makes a consignment invalid.
type Failure interface {
	isFailure()
	fmt.Stringer
}

// Warning is the closed sum of non-fatal validation problems.
type Warning interface {
	isWarning()
	fmt.Stringer
}

// Info is the closed sum of informational notes emitted during validation
// that affect neither validity nor warnings.
type Info interface {
	isInfo()
	fmt.Stringer
}

// Validity is the binary outcome derived from a Status.
type Validity uint8

const (
	Valid Validity = iota
	Invalid
)

func (v Validity) String() string {
	if v == Valid {
		return "valid"
	}
	return "invalid"
}

// Status accumulates every check's outcome in encounter order, the
// consensus-critical ordering that makes two validations of the same
// consignment byte-identical.
type Status struct {
	Failures       []Failure
	Warnings       []Warning
	Infos          []Info
	ValidatedOpIDs map[idtype.OpId]struct{}
}

// NewStatus returns an empty accumulator.
func NewStatus() *Status {
	return &Status{ValidatedOpIDs: make(map[idtype.OpId]struct{})}
}

func (s *Status) AddFailure(f Failure) { s.Failures = append(s.Failures, f) }
func (s *Status) AddWarning(w Warning) { s.Warnings = append(s.Warnings, w) }
func (s *Status) AddInfo(i Info)       { s.Infos = append(s.Infos, i) }

// MarkValidated records opid as reached by the seal-definition walk;
// reports whether it was already present (a cyclic reference).
func (s *Status) MarkValidated(opid idtype.OpId) (alreadyPresent bool) {
	if _, ok := s.ValidatedOpIDs[opid]; ok {
		return true
	}
	s.ValidatedOpIDs[opid] = struct{}{}
	return false
}

// Validity is Invalid iff any failure was recorded.
func (s *Status) Validity() Validity {
	if len(s.Failures) > 0 {
		return Invalid
	}
	return Valid
}

// --- Schema structural failures ---

type SchemaOpEmptyInputs struct{ TransitionType schema.TransitionType }

func (SchemaOpEmptyInputs) isFailure() {}
func (f SchemaOpEmptyInputs) String() string {
	return fmt.Sprintf("schema: transition type %d declares empty inputs", f.TransitionType)
}

// SchemaOpMetaTypeUnknown, SchemaOpGlobalTypeUnknown, and
// SchemaOpAssignmentTypeUnknown flag an op-schema referencing a type id
// that is absent from the schema's own meta/global/owned registries. This
// is distinct from the Schema*SemIdUnknown family below, which flags a
// registered type's semantic id being absent from the type system.
type SchemaOpMetaTypeUnknown struct{ MetaType schema.MetaType }

func (SchemaOpMetaTypeUnknown) isFailure() {}
func (f SchemaOpMetaTypeUnknown) String() string {
	return fmt.Sprintf("schema: op references meta type %d absent from schema", f.MetaType)
}

type SchemaOpGlobalTypeUnknown struct{ GlobalType schema.GlobalType }

func (SchemaOpGlobalTypeUnknown) isFailure() {}
func (f SchemaOpGlobalTypeUnknown) String() string {
	return fmt.Sprintf("schema: op references global type %d absent from schema", f.GlobalType)
}

type SchemaOpAssignmentTypeUnknown struct{ AssignmentType schema.AssignmentType }

func (SchemaOpAssignmentTypeUnknown) isFailure() {}
func (f SchemaOpAssignmentTypeUnknown) String() string {
	return fmt.Sprintf("schema: op references owned type %d absent from schema", f.AssignmentType)
}

type SchemaMetaSemIdUnknown struct {
	MetaType schema.MetaType
	SemID    typesys.SemId
}

func (SchemaMetaSemIdUnknown) isFailure() {}
func (f SchemaMetaSemIdUnknown) String() string {
	return fmt.Sprintf("schema: meta type %d references unknown sem id %x", f.MetaType, f.SemID)
}

type SchemaGlobalSemIdUnknown struct {
	GlobalType schema.GlobalType
	SemID      typesys.SemId
}

func (SchemaGlobalSemIdUnknown) isFailure() {}
func (f SchemaGlobalSemIdUnknown) String() string {
	return fmt.Sprintf("schema: global type %d references unknown sem id %x", f.GlobalType, f.SemID)
}

type SchemaOwnedSemIdUnknown struct {
	AssignmentType schema.AssignmentType
	SemID          typesys.SemId
}

func (SchemaOwnedSemIdUnknown) isFailure() {}
func (f SchemaOwnedSemIdUnknown) String() string {
	return fmt.Sprintf("schema: owned type %d references unknown sem id %x", f.AssignmentType, f.SemID)
}

// TypeSystemMismatch is raised when the consignment's bundled type system
// disagrees with the validator's trusted one.
type TypeSystemMismatch struct{ SemID typesys.SemId }

func (TypeSystemMismatch) isFailure() {}
func (f TypeSystemMismatch) String() string {
	return fmt.Sprintf("type system mismatch for sem id %x", f.SemID)
}

// --- Schema/operation mismatch failures ---

type SchemaUnknownSealClosingStrategy struct{ OpID idtype.OpId }

func (SchemaUnknownSealClosingStrategy) isFailure() {}
func (f SchemaUnknownSealClosingStrategy) String() string {
	return fmt.Sprintf("op %s: unknown seal closing strategy", f.OpID)
}

type SchemaUnknownTransitionType struct {
	OpID idtype.OpId
	Type schema.TransitionType
}

func (SchemaUnknownTransitionType) isFailure() {}
func (f SchemaUnknownTransitionType) String() string {
	return fmt.Sprintf("op %s: unknown transition type %d", f.OpID, f.Type)
}

type SchemaUnknownMetaType struct {
	OpID idtype.OpId
	Type schema.MetaType
}

func (SchemaUnknownMetaType) isFailure() {}
func (f SchemaUnknownMetaType) String() string {
	return fmt.Sprintf("op %s: unknown meta type %d", f.OpID, f.Type)
}

type SchemaNoMetadata struct {
	OpID idtype.OpId
	Type schema.MetaType
}

func (SchemaNoMetadata) isFailure() {}
func (f SchemaNoMetadata) String() string {
	return fmt.Sprintf("op %s: missing required metadata type %d", f.OpID, f.Type)
}

type SchemaInvalidMetadata struct {
	OpID idtype.OpId
	Type schema.MetaType
}

func (SchemaInvalidMetadata) isFailure() {}
func (f SchemaInvalidMetadata) String() string {
	return fmt.Sprintf("op %s: metadata type %d fails strict deserialization", f.OpID, f.Type)
}

type SchemaUnknownGlobalStateType struct {
	OpID idtype.OpId
	Type schema.GlobalType
}

func (SchemaUnknownGlobalStateType) isFailure() {}
func (f SchemaUnknownGlobalStateType) String() string {
	return fmt.Sprintf("op %s: unknown global state type %d", f.OpID, f.Type)
}

type SchemaGlobalStateLimit struct {
	OpID  idtype.OpId
	Type  schema.GlobalType
	Count uint32
	Max   uint32
}

func (SchemaGlobalStateLimit) isFailure() {}
func (f SchemaGlobalStateLimit) String() string {
	return fmt.Sprintf("op %s: global type %d count %d exceeds max_items %d", f.OpID, f.Type, f.Count, f.Max)
}

type SchemaGlobalOccurrence struct {
	OpID idtype.OpId
	Type schema.GlobalType
	Err  error
}

func (SchemaGlobalOccurrence) isFailure() {}
func (f SchemaGlobalOccurrence) String() string {
	return fmt.Sprintf("op %s: global type %d occurrence violated: %v", f.OpID, f.Type, f.Err)
}

type SchemaInvalidGlobalValue struct {
	OpID idtype.OpId
	Type schema.GlobalType
}

func (SchemaInvalidGlobalValue) isFailure() {}
func (f SchemaInvalidGlobalValue) String() string {
	return fmt.Sprintf("op %s: global type %d fails strict deserialization", f.OpID, f.Type)
}

type SchemaUnknownOwnedType struct {
	OpID idtype.OpId
	Type schema.AssignmentType
}

func (SchemaUnknownOwnedType) isFailure() {}
func (f SchemaUnknownOwnedType) String() string {
	return fmt.Sprintf("op %s: unknown owned assignment type %d", f.OpID, f.Type)
}

type SchemaOwnedOccurrence struct {
	OpID idtype.OpId
	Type schema.AssignmentType
	Err  error
}

func (SchemaOwnedOccurrence) isFailure() {}
func (f SchemaOwnedOccurrence) String() string {
	return fmt.Sprintf("op %s: owned type %d occurrence violated: %v", f.OpID, f.Type, f.Err)
}

type SchemaInvalidOwnedValue struct {
	OpID idtype.OpId
	Type schema.AssignmentType
}

func (SchemaInvalidOwnedValue) isFailure() {}
func (f SchemaInvalidOwnedValue) String() string {
	return fmt.Sprintf("op %s: owned type %d structured value fails strict deserialization", f.OpID, f.Type)
}

type FungibleTypeMismatch struct {
	OpID      idtype.OpId
	StateType schema.AssignmentType
	Expected  schema.FungibleKind
	Found     schema.FungibleKind
}

func (FungibleTypeMismatch) isFailure() {}
func (f FungibleTypeMismatch) String() string {
	return fmt.Sprintf("op %s: owned type %d fungible kind mismatch expected %d found %d", f.OpID, f.StateType, f.Expected, f.Found)
}

type StateTypeMismatch struct {
	OpID     idtype.OpId
	Type     schema.AssignmentType
	Expected string
	Found    string
}

func (StateTypeMismatch) isFailure() {}
func (f StateTypeMismatch) String() string {
	return fmt.Sprintf("op %s: owned type %d state shape mismatch expected %s found %s", f.OpID, f.Type, f.Expected, f.Found)
}

type SchemaPrevStateUnknownType struct {
	OpID idtype.OpId
	Type schema.AssignmentType
}

func (SchemaPrevStateUnknownType) isFailure() {}
func (f SchemaPrevStateUnknownType) String() string {
	return fmt.Sprintf("op %s: previous state carries type %d absent from inputs schema", f.OpID, f.Type)
}

type SchemaPrevStateOccurrence struct {
	OpID idtype.OpId
	Type schema.AssignmentType
	Err  error
}

func (SchemaPrevStateOccurrence) isFailure() {}
func (f SchemaPrevStateOccurrence) String() string {
	return fmt.Sprintf("op %s: previous state type %d occurrence violated: %v", f.OpID, f.Type, f.Err)
}

// --- History integrity failures ---

type TransitionIdMismatch struct {
	Claimed  idtype.OpId
	Computed idtype.OpId
}

func (TransitionIdMismatch) isFailure() {}
func (f TransitionIdMismatch) String() string {
	return fmt.Sprintf("transition id mismatch: claimed %s computed %s", f.Claimed, f.Computed)
}

type CyclicGraph struct{ OpID idtype.OpId }

func (CyclicGraph) isFailure()       {}
func (f CyclicGraph) String() string { return fmt.Sprintf("cyclic transition graph at %s", f.OpID) }

type DoubleSpend struct{ Opout state.Opout }

func (DoubleSpend) isFailure() {}
func (f DoubleSpend) String() string {
	return fmt.Sprintf("double spend of %s/%d/%d", f.Opout.Op, f.Opout.Ty, f.Opout.No)
}

type MissingInputMapTransition struct {
	Opout idtype.OpId
	Input state.Opout
}

func (MissingInputMapTransition) isFailure() {}
func (f MissingInputMapTransition) String() string {
	return fmt.Sprintf("op %s: input %s/%d/%d missing from bundle input map", f.Opout, f.Input.Op, f.Input.Ty, f.Input.No)
}

type OperationAbsent struct{ OpID idtype.OpId }

func (OperationAbsent) isFailure() {}
func (f OperationAbsent) String() string {
	return fmt.Sprintf("referenced operation %s absent from consignment", f.OpID)
}

type UnorderedTransition struct{ OpID idtype.OpId }

func (UnorderedTransition) isFailure() {}
func (f UnorderedTransition) String() string {
	return fmt.Sprintf("transition %s references a not-yet-validated prior transition", f.OpID)
}

type NoPrevState struct {
	OpID  idtype.OpId
	Input state.Opout
}

func (NoPrevState) isFailure() {}
func (f NoPrevState) String() string {
	return fmt.Sprintf("op %s: prior operation carries no assignments of type %d", f.OpID, f.Input.Ty)
}

type NoPrevOut struct {
	OpID  idtype.OpId
	Input state.Opout
}

func (NoPrevOut) isFailure() {}
func (f NoPrevOut) String() string {
	return fmt.Sprintf("op %s: input %s/%d/%d out of bounds or confidential seal", f.OpID, f.Input.Op, f.Input.Ty, f.Input.No)
}

type ConfidentialSeal struct {
	OpID  idtype.OpId
	Input state.Opout
}

func (ConfidentialSeal) isFailure() {}
func (f ConfidentialSeal) String() string {
	return fmt.Sprintf("op %s: input %s/%d/%d has a confidential seal", f.OpID, f.Input.Op, f.Input.Ty, f.Input.No)
}

// --- Bundle integrity failures ---

type ExtraKnownTransition struct{ OpID idtype.OpId }

func (ExtraKnownTransition) isFailure() {}
func (f ExtraKnownTransition) String() string {
	return fmt.Sprintf("bundle opid/input-map mismatch for %s", f.OpID)
}

type WitnessMissingInput struct {
	WitnessID idtype.Txid
	Outpoint  idtype.Outpoint
}

func (WitnessMissingInput) isFailure() {}
func (f WitnessMissingInput) String() string {
	return fmt.Sprintf("witness %s does not spend claimed input %s", f.WitnessID, f.Outpoint)
}

// --- Commitment failures ---

type AnchorAbsent struct{ BundleID idtype.BundleId }

func (AnchorAbsent) isFailure() {}
func (f AnchorAbsent) String() string {
	return fmt.Sprintf("bundle %s has no anchor", f.BundleID)
}

type SealNoPubWitness struct {
	BundleID  idtype.BundleId
	WitnessID idtype.Txid
	Reason    string
}

func (SealNoPubWitness) isFailure() {}
func (f SealNoPubWitness) String() string {
	return fmt.Sprintf("bundle %s: witness %s unresolved: %s", f.BundleID, f.WitnessID, f.Reason)
}

type MpcInvalid struct{ BundleID idtype.BundleId }

func (MpcInvalid) isFailure() {}
func (f MpcInvalid) String() string {
	return fmt.Sprintf("bundle %s: multi-protocol commitment convolution failed", f.BundleID)
}

type NoDbcOutput struct {
	BundleID  idtype.BundleId
	WitnessID idtype.Txid
}

func (NoDbcOutput) isFailure() {}
func (f NoDbcOutput) String() string {
	return fmt.Sprintf("bundle %s: witness %s carries no opret/tapret output", f.BundleID, f.WitnessID)
}

type InvalidProofType struct{ BundleID idtype.BundleId }

func (InvalidProofType) isFailure() {}
func (f InvalidProofType) String() string {
	return fmt.Sprintf("bundle %s: dbc proof method does not match witness output", f.BundleID)
}

type SealsInvalid struct {
	BundleID idtype.BundleId
	Reason   string
}

func (SealsInvalid) isFailure() {}
func (f SealsInvalid) String() string {
	return fmt.Sprintf("bundle %s: seal verification failed: %s", f.BundleID, f.Reason)
}

// --- Resolver / chain failures ---

type ContractChainNetMismatch struct{}

func (ContractChainNetMismatch) isFailure()       {}
func (ContractChainNetMismatch) String() string { return "consignment chain/net mismatch" }

type ResolverChainNetMismatch struct{}

func (ResolverChainNetMismatch) isFailure()       {}
func (ResolverChainNetMismatch) String() string { return "resolver chain/net mismatch" }

// --- Logic phase failures ---

type SchemaMismatch struct{}

func (SchemaMismatch) isFailure()       {}
func (SchemaMismatch) String() string { return "consignment schema id does not match genesis schema id" }

type ContractMismatch struct{ OpID idtype.OpId }

func (ContractMismatch) isFailure() {}
func (f ContractMismatch) String() string {
	return fmt.Sprintf("op %s: contract id does not match genesis-derived contract id", f.OpID)
}

type SealsUnvalidated struct{ OpID idtype.OpId }

func (SealsUnvalidated) isFailure() {}
func (f SealsUnvalidated) String() string {
	return fmt.Sprintf("op %s: logic phase reached before seal commitments were validated", f.OpID)
}

// --- Script/state failures ---

type MissingScript struct {
	OpID idtype.OpId
	Lib  schema.ScriptId
}

func (MissingScript) isFailure() {}
func (f MissingScript) String() string {
	return fmt.Sprintf("op %s: validator script library %x absent from consignment", f.OpID, f.Lib)
}

type ScriptIDMismatch struct {
	OpID     idtype.OpId
	Declared schema.ScriptId
	Found    schema.ScriptId
}

func (ScriptIDMismatch) isFailure() {}
func (f ScriptIDMismatch) String() string {
	return fmt.Sprintf("op %s: script library id mismatch declared %x found %x", f.OpID, f.Declared, f.Found)
}

type ScriptFailure struct {
	OpID idtype.OpId
	Code *uint8
}

func (ScriptFailure) isFailure() {}
func (f ScriptFailure) String() string {
	if f.Code != nil {
		return fmt.Sprintf("op %s: script rejected with code %d", f.OpID, *f.Code)
	}
	return fmt.Sprintf("op %s: script rejected with no code", f.OpID)
}

type ContractStateFilled struct{ OpID idtype.OpId }

func (ContractStateFilled) isFailure() {}
func (f ContractStateFilled) String() string {
	return fmt.Sprintf("op %s: contract state refused to absorb operation", f.OpID)
}

// --- Warnings ---

// UnsafeHistory reports witnesses mined above the caller's safe height,
// keyed by height (or 0 for any non-mined status).
type UnsafeHistory struct{ ByHeight map[uint64][]idtype.Txid }

func (UnsafeHistory) isWarning() {}
func (w UnsafeHistory) String() string {
	return fmt.Sprintf("unsafe history: %d height buckets above safe height", len(w.ByHeight))
}
