package main

import (
	"encoding/hex"
	"fmt"

	"github.com/rgbcore/validator/commitment"
	"github.com/rgbcore/validator/commitment/mpc"
	"github.com/rgbcore/validator/consignment"
	"github.com/rgbcore/validator/cryptoprovider"
	"github.com/rgbcore/validator/idtype"
	"github.com/rgbcore/validator/occurrence"
	"github.com/rgbcore/validator/schema"
	"github.com/rgbcore/validator/seal"
	"github.com/rgbcore/validator/state"
	"github.com/rgbcore/validator/typesys"
	"github.com/rgbcore/validator/vm"
	"github.com/rgbcore/validator/witness"
)

// Fixture is the JSON shape a validation run is loaded from: a schema, a
// genesis plus transition bundles, the witness transactions that close
// them, and a resolver stub recording each witness's confirmation status.
// It exists to drive the CLI without a real consignment wire codec, which
// is out of scope for this repo; the conformance suite does not use it and
// builds its consignments through the public API instead.
type Fixture struct {
	ChainNet     string             `json:"chain_net"`
	TrustedTypes map[string]fxType  `json:"trusted_types"`
	Types        map[string]fxType  `json:"types"`
	Schema       fxSchema           `json:"schema"`
	Scripts      map[string]string  `json:"scripts"`
	Genesis      fxGenesis          `json:"genesis"`
	SchemaIDHex  string             `json:"schema_id_hex"`
	Bundles      []fxBundle         `json:"bundles"`
	Resolver     map[string]fxOrdResp `json:"resolver"`
}

type fxType struct {
	DescriptorHex string `json:"descriptor_hex"`
}

type fxOccurrence struct {
	Min uint16 `json:"min"`
	Max uint16 `json:"max"`
}

func (o fxOccurrence) build() occurrence.Occurrence {
	return occurrence.Occurrence{Min: o.Min, Max: o.Max}
}

type fxScriptRef struct {
	LibHex string `json:"lib_hex"`
	Entry  uint16 `json:"entry"`
}

type fxOpSchema struct {
	Metadata    []uint16                `json:"metadata"`
	Globals     map[string]fxOccurrence `json:"globals"`
	Assignments map[string]fxOccurrence `json:"assignments"`
	Validator   *fxScriptRef            `json:"validator,omitempty"`
}

type fxTransitionSchema struct {
	fxOpSchema
	Inputs map[string]fxOccurrence `json:"inputs"`
}

type fxMetaTypeDef struct {
	SemIDHex string `json:"sem_id_hex"`
}

type fxGlobalTypeDef struct {
	SemIDHex string `json:"sem_id_hex"`
	MaxItems uint32 `json:"max_items"`
}

type fxOwnedTypeDef struct {
	Kind           string `json:"kind"`
	FungibleKind   string `json:"fungible_kind,omitempty"`
	StructSemIDHex string `json:"struct_sem_id_hex,omitempty"`
}

type fxSchema struct {
	Genesis     fxOpSchema                    `json:"genesis"`
	Transitions map[string]fxTransitionSchema `json:"transitions"`
	MetaTypes   map[string]fxMetaTypeDef      `json:"meta_types"`
	GlobalTypes map[string]fxGlobalTypeDef    `json:"global_types"`
	OwnedTypes  map[string]fxOwnedTypeDef     `json:"owned_types"`
}

type fxSeal struct {
	WitnessRel bool   `json:"witness_rel"`
	TxidHex    string `json:"txid_hex,omitempty"`
	Vout       uint32 `json:"vout"`
}

type fxState struct {
	Kind    string  `json:"kind"`
	Bits64  *uint64 `json:"bits64,omitempty"`
	DataHex string  `json:"data_hex,omitempty"`
}

type fxAssign struct {
	Variant string   `json:"variant"`
	Seal    *fxSeal  `json:"seal,omitempty"`
	State   *fxState `json:"state,omitempty"`
}

type fxTypedAssigns struct {
	Kind  string     `json:"kind"`
	Items []fxAssign `json:"items"`
}

type fxOperationCommon struct {
	Metadata    map[string]string          `json:"metadata,omitempty"`
	Globals     map[string][]string        `json:"globals,omitempty"`
	Assignments map[string]fxTypedAssigns  `json:"assignments,omitempty"`
}

type fxGenesis struct {
	SchemaIDHex         string `json:"schema_id_hex"`
	SealClosingStrategy string `json:"seal_closing_strategy"`
	fxOperationCommon
}

type fxOpout struct {
	OpIDHex string `json:"op_id_hex"`
	Ty      uint16 `json:"ty"`
	No      uint16 `json:"no"`
}

type fxTransition struct {
	OpIDHex        string    `json:"op_id_hex"`
	TransitionType uint16    `json:"transition_type"`
	Inputs         []fxOpout `json:"inputs"`
	fxOperationCommon
}

type fxOutpoint struct {
	TxidHex string `json:"txid_hex"`
	Vout    uint32 `json:"vout"`
}

type fxTxOut struct {
	Value                 uint64 `json:"value"`
	ScriptPubKeyHex       string `json:"script_pubkey_hex,omitempty"`
	TaprootInternalKeyHex string `json:"taproot_internal_key_hex,omitempty"`
	TaprootOutputKeyHex   string `json:"taproot_output_key_hex,omitempty"`
}

type fxTx struct {
	TxidHex string       `json:"txid_hex"`
	Inputs  []fxOutpoint `json:"inputs"`
	Outputs []fxTxOut    `json:"outputs"`
}

type fxMpcProof struct {
	ProtocolIDHex string   `json:"protocol_id_hex"`
	MessageHex    string   `json:"message_hex"`
	PathHex       []string `json:"path_hex"`
}

type fxAnchor struct {
	Method         string     `json:"method"`
	VoutIndex      uint32     `json:"vout_index"`
	InternalKeyHex string     `json:"internal_key_hex,omitempty"`
	MpcProof       fxMpcProof `json:"mpc_proof"`
}

type fxBundle struct {
	BundleIDHex      string         `json:"bundle_id_hex"`
	WitnessIDHex     string         `json:"witness_id_hex"`
	KnownTransitions []fxTransition `json:"known_transitions"`
	Anchor           fxAnchor       `json:"anchor"`
	WitnessTx        fxTx           `json:"witness_tx"`
}

type fxOrdResp struct {
	Status  string `json:"status"`
	TxidHex string `json:"txid_hex,omitempty"`
	Kind    string `json:"kind,omitempty"`
	Height  uint64 `json:"height,omitempty"`
	Msg     string `json:"msg,omitempty"`
}

func hex32(s string) (out [32]byte, err error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return out, err
	}
	if len(b) != 32 {
		return out, fmt.Errorf("want 32 bytes, got %d", len(b))
	}
	copy(out[:], b)
	return out, nil
}

func hexBytes(s string) ([]byte, error) {
	if s == "" {
		return nil, nil
	}
	return hex.DecodeString(s)
}

func buildTypeSystem(types map[string]fxType) (typesys.TypeSystem, error) {
	out := make(map[typesys.SemId]typesys.Type, len(types))
	for idHex, t := range types {
		id, err := hex32(idHex)
		if err != nil {
			return nil, fmt.Errorf("type id %q: %w", idHex, err)
		}
		descriptor, err := hexBytes(t.DescriptorHex)
		if err != nil {
			return nil, fmt.Errorf("type %q descriptor: %w", idHex, err)
		}
		out[typesys.SemId(id)] = typesys.Type{Descriptor: descriptor}
	}
	return typesys.NewMapTypeSystem(out), nil
}

func (o fxOpSchema) build() (schema.OpSchema, error) {
	out := schema.OpSchema{
		Metadata:    make(schema.MetaSchema, len(o.Metadata)),
		Globals:     make(schema.GlobalSchema, len(o.Globals)),
		Assignments: make(schema.AssignmentsSchema, len(o.Assignments)),
	}
	for _, mt := range o.Metadata {
		out.Metadata[schema.MetaType(mt)] = struct{}{}
	}
	for k, v := range o.Globals {
		ty, err := parseTypeKey(k)
		if err != nil {
			return out, err
		}
		out.Globals[schema.GlobalType(ty)] = v.build()
	}
	for k, v := range o.Assignments {
		ty, err := parseTypeKey(k)
		if err != nil {
			return out, err
		}
		out.Assignments[schema.AssignmentType(ty)] = v.build()
	}
	if o.Validator != nil {
		lib, err := hex32(o.Validator.LibHex)
		if err != nil {
			return out, fmt.Errorf("validator lib: %w", err)
		}
		out.Validator = &schema.ScriptRef{Lib: schema.ScriptId(lib), Entry: o.Validator.Entry}
	}
	return out, nil
}

func parseTypeKey(k string) (uint64, error) {
	var v uint64
	_, err := fmt.Sscanf(k, "%d", &v)
	return v, err
}

func buildSchema(fx fxSchema) (*schema.Schema, error) {
	genesis, err := fx.Genesis.build()
	if err != nil {
		return nil, fmt.Errorf("genesis op-schema: %w", err)
	}
	out := &schema.Schema{
		Genesis:     genesis,
		Transitions: make(map[schema.TransitionType]schema.TransitionSchema, len(fx.Transitions)),
		MetaTypes:   make(map[schema.MetaType]schema.MetaTypeDef, len(fx.MetaTypes)),
		GlobalTypes: make(map[schema.GlobalType]schema.GlobalTypeDef, len(fx.GlobalTypes)),
		OwnedTypes:  make(map[schema.AssignmentType]schema.OwnedTypeDef, len(fx.OwnedTypes)),
	}
	for k, ts := range fx.Transitions {
		ty, err := parseTypeKey(k)
		if err != nil {
			return nil, fmt.Errorf("transition type %q: %w", k, err)
		}
		op, err := ts.fxOpSchema.build()
		if err != nil {
			return nil, fmt.Errorf("transition %q op-schema: %w", k, err)
		}
		inputs := make(schema.AssignmentsSchema, len(ts.Inputs))
		for ik, iv := range ts.Inputs {
			ity, err := parseTypeKey(ik)
			if err != nil {
				return nil, err
			}
			inputs[schema.AssignmentType(ity)] = iv.build()
		}
		out.Transitions[schema.TransitionType(ty)] = schema.TransitionSchema{OpSchema: op, Inputs: inputs}
	}
	for k, v := range fx.MetaTypes {
		ty, err := parseTypeKey(k)
		if err != nil {
			return nil, err
		}
		semID, err := hex32(v.SemIDHex)
		if err != nil {
			return nil, fmt.Errorf("meta type %q sem id: %w", k, err)
		}
		out.MetaTypes[schema.MetaType(ty)] = schema.MetaTypeDef{SemID: typesys.SemId(semID)}
	}
	for k, v := range fx.GlobalTypes {
		ty, err := parseTypeKey(k)
		if err != nil {
			return nil, err
		}
		semID, err := hex32(v.SemIDHex)
		if err != nil {
			return nil, fmt.Errorf("global type %q sem id: %w", k, err)
		}
		out.GlobalTypes[schema.GlobalType(ty)] = schema.GlobalTypeDef{
			GlobalStateSchema: schema.GlobalStateSchema{SemID: typesys.SemId(semID), MaxItems: v.MaxItems},
		}
	}
	for k, v := range fx.OwnedTypes {
		ty, err := parseTypeKey(k)
		if err != nil {
			return nil, err
		}
		var oss schema.OwnedStateSchema
		switch v.Kind {
		case "declarative":
			oss = schema.DeclarativeAssignSchema{}
		case "fungible":
			kind := schema.Unsigned64Bit
			if v.FungibleKind == "u128" {
				kind = schema.Unsigned128Bit
			}
			oss = schema.FungibleAssignSchema{Kind: kind}
		case "structured":
			structSemID, err := hex32(v.StructSemIDHex)
			if err != nil {
				return nil, fmt.Errorf("owned type %q struct sem id: %w", k, err)
			}
			oss = schema.StructuredAssignSchema{SemID: typesys.SemId(structSemID)}
		default:
			return nil, fmt.Errorf("owned type %q: unknown kind %q", k, v.Kind)
		}
		out.OwnedTypes[schema.AssignmentType(ty)] = schema.OwnedTypeDef{OwnedStateSchema: oss}
	}
	return out, nil
}

func buildAssignsKind(s string) (state.AssignsKind, error) {
	switch s {
	case "declarative":
		return state.KindDeclarative, nil
	case "fungible":
		return state.KindFungible, nil
	case "structured":
		return state.KindStructured, nil
	default:
		return 0, fmt.Errorf("unknown assigns kind %q", s)
	}
}

func buildRevealedState(s *fxState) (state.RevealedState, error) {
	if s == nil {
		return state.VoidState{}, nil
	}
	switch s.Kind {
	case "void", "":
		return state.VoidState{}, nil
	case "fungible":
		if s.Bits64 == nil {
			return nil, fmt.Errorf("fungible state missing bits64")
		}
		return state.FungibleRevealed{Value: state.Bits64(*s.Bits64)}, nil
	case "structured":
		data, err := hexBytes(s.DataHex)
		if err != nil {
			return nil, err
		}
		return state.StructuredRevealed{Data: data}, nil
	default:
		return nil, fmt.Errorf("unknown state kind %q", s.Kind)
	}
}

func buildSeal(s *fxSeal) (seal.Graph, error) {
	if s == nil {
		return seal.Graph{}, nil
	}
	if s.WitnessRel {
		return seal.WitnessRelativeSeal(s.Vout), nil
	}
	txid, err := hex32(s.TxidHex)
	if err != nil {
		return seal.Graph{}, fmt.Errorf("seal txid: %w", err)
	}
	return seal.ExplicitSeal(idtype.Txid(txid), s.Vout), nil
}

func buildAssign(a fxAssign) (state.Assign[seal.Graph], error) {
	switch a.Variant {
	case "revealed":
		sealVal, err := buildSeal(a.Seal)
		if err != nil {
			return nil, err
		}
		st, err := buildRevealedState(a.State)
		if err != nil {
			return nil, err
		}
		return state.Revealed[seal.Graph]{SealDef: sealVal, State: st}, nil
	case "confidential_seal":
		st, err := buildRevealedState(a.State)
		if err != nil {
			return nil, err
		}
		return state.ConfidentialSeal[seal.Graph]{State: st}, nil
	case "confidential":
		return state.Confidential[seal.Graph]{}, nil
	default:
		return nil, fmt.Errorf("unknown assign variant %q", a.Variant)
	}
}

func buildTypedAssignments(m map[string]fxTypedAssigns) (state.TypedAssignments[seal.Graph], error) {
	out := make(state.TypedAssignments[seal.Graph], len(m))
	for k, v := range m {
		ty, err := parseTypeKey(k)
		if err != nil {
			return nil, err
		}
		kind, err := buildAssignsKind(v.Kind)
		if err != nil {
			return nil, err
		}
		items := make([]state.Assign[seal.Graph], 0, len(v.Items))
		for _, it := range v.Items {
			a, err := buildAssign(it)
			if err != nil {
				return nil, err
			}
			items = append(items, a)
		}
		out[schema.AssignmentType(ty)] = state.TypedAssigns[seal.Graph]{Kind: kind, Items: items}
	}
	return out, nil
}

func buildMetadata(m map[string]string) (state.Metadata, error) {
	out := make(state.Metadata, len(m))
	for k, v := range m {
		ty, err := parseTypeKey(k)
		if err != nil {
			return nil, err
		}
		data, err := hexBytes(v)
		if err != nil {
			return nil, err
		}
		out[schema.MetaType(ty)] = data
	}
	return out, nil
}

func buildGlobals(m map[string][]string) (state.GlobalState, error) {
	out := make(state.GlobalState, len(m))
	for k, vs := range m {
		ty, err := parseTypeKey(k)
		if err != nil {
			return nil, err
		}
		items := make([][]byte, 0, len(vs))
		for _, v := range vs {
			data, err := hexBytes(v)
			if err != nil {
				return nil, err
			}
			items = append(items, data)
		}
		out[schema.GlobalType(ty)] = items
	}
	return out, nil
}

func buildGenesis(fx fxGenesis, net idtype.ChainNet) (state.Genesis[seal.Graph], error) {
	schemaID, err := hex32(fx.SchemaIDHex)
	if err != nil {
		return state.Genesis[seal.Graph]{}, fmt.Errorf("genesis schema id: %w", err)
	}
	strategy := seal.SealClosingUnknown
	if fx.SealClosingStrategy == "first-opret-or-tapret" {
		strategy = seal.FirstOpretOrTapret
	}
	meta, err := buildMetadata(fx.Metadata)
	if err != nil {
		return state.Genesis[seal.Graph]{}, fmt.Errorf("genesis metadata: %w", err)
	}
	globals, err := buildGlobals(fx.Globals)
	if err != nil {
		return state.Genesis[seal.Graph]{}, fmt.Errorf("genesis globals: %w", err)
	}
	assigns, err := buildTypedAssignments(fx.Assignments)
	if err != nil {
		return state.Genesis[seal.Graph]{}, fmt.Errorf("genesis assignments: %w", err)
	}
	return state.Genesis[seal.Graph]{
		SchemaID:            idtype.SchemaId(schemaID),
		ChainNet:            net,
		SealClosingStrategy: strategy,
		Metadata:            meta,
		Globals:             globals,
		Assignments:         assigns,
	}, nil
}

func buildTransition(fx fxTransition, contractID idtype.ContractId) (state.Transition[seal.Graph], error) {
	meta, err := buildMetadata(fx.Metadata)
	if err != nil {
		return state.Transition[seal.Graph]{}, err
	}
	globals, err := buildGlobals(fx.Globals)
	if err != nil {
		return state.Transition[seal.Graph]{}, err
	}
	assigns, err := buildTypedAssignments(fx.Assignments)
	if err != nil {
		return state.Transition[seal.Graph]{}, err
	}
	inputs := make([]state.Opout, 0, len(fx.Inputs))
	for _, in := range fx.Inputs {
		opID, err := hex32(in.OpIDHex)
		if err != nil {
			return state.Transition[seal.Graph]{}, fmt.Errorf("input op id: %w", err)
		}
		inputs = append(inputs, state.Opout{Op: idtype.OpId(opID), Ty: schema.AssignmentType(in.Ty), No: in.No})
	}
	return state.Transition[seal.Graph]{
		ContractID:     contractID,
		TransitionType: schema.TransitionType(fx.TransitionType),
		Metadata:       meta,
		Globals:        globals,
		Inputs:         inputs,
		Assignments:    assigns,
	}, nil
}

func buildTx(fx fxTx) (commitment.Tx, error) {
	txid, err := hex32(fx.TxidHex)
	if err != nil {
		return commitment.Tx{}, fmt.Errorf("tx txid: %w", err)
	}
	inputs := make([]idtype.Outpoint, 0, len(fx.Inputs))
	for _, in := range fx.Inputs {
		inTxid, err := hex32(in.TxidHex)
		if err != nil {
			return commitment.Tx{}, fmt.Errorf("tx input txid: %w", err)
		}
		inputs = append(inputs, idtype.Outpoint{Txid: idtype.Txid(inTxid), Vout: in.Vout})
	}
	outputs := make([]commitment.TxOut, 0, len(fx.Outputs))
	for _, o := range fx.Outputs {
		spk, err := hexBytes(o.ScriptPubKeyHex)
		if err != nil {
			return commitment.Tx{}, fmt.Errorf("tx output script: %w", err)
		}
		var internal, outputKey [32]byte
		if o.TaprootInternalKeyHex != "" {
			internal, err = hex32(o.TaprootInternalKeyHex)
			if err != nil {
				return commitment.Tx{}, fmt.Errorf("tx output internal key: %w", err)
			}
		}
		if o.TaprootOutputKeyHex != "" {
			outputKey, err = hex32(o.TaprootOutputKeyHex)
			if err != nil {
				return commitment.Tx{}, fmt.Errorf("tx output key: %w", err)
			}
		}
		outputs = append(outputs, commitment.TxOut{
			Value:              o.Value,
			ScriptPubKey:       spk,
			TaprootInternalKey: internal,
			TaprootOutputKey:   outputKey,
		})
	}
	return commitment.Tx{Txid: idtype.Txid(txid), Inputs: inputs, Outputs: outputs}, nil
}

func buildAnchor(fx fxAnchor) (commitment.EAnchor, error) {
	protocolID, err := hex32(fx.MpcProof.ProtocolIDHex)
	if err != nil {
		return commitment.EAnchor{}, fmt.Errorf("mpc proof protocol id: %w", err)
	}
	msg, err := hex32(fx.MpcProof.MessageHex)
	if err != nil {
		return commitment.EAnchor{}, fmt.Errorf("mpc proof message: %w", err)
	}
	path := make([][32]byte, 0, len(fx.MpcProof.PathHex))
	for _, p := range fx.MpcProof.PathHex {
		sibling, err := hex32(p)
		if err != nil {
			return commitment.EAnchor{}, fmt.Errorf("mpc proof path: %w", err)
		}
		path = append(path, sibling)
	}
	mpcProof := mpc.Proof{ProtocolID: idtype.ContractId(protocolID), Message: mpc.Message(msg), Path: path}

	var proof commitment.DbcProof
	switch fx.Method {
	case "opret1st":
		proof = commitment.OpretProof{VoutIndex: fx.VoutIndex}
	case "tapret1st":
		internal, err := hex32(fx.InternalKeyHex)
		if err != nil {
			return commitment.EAnchor{}, fmt.Errorf("tapret internal key: %w", err)
		}
		proof = commitment.TapretProof{VoutIndex: fx.VoutIndex, InternalKey: internal}
	default:
		return commitment.EAnchor{}, fmt.Errorf("unknown anchor method %q", fx.Method)
	}
	return commitment.EAnchor{Proof: proof, MpcProof: mpcProof}, nil
}

// fixtureResolver implements witness.ResolveWitness against the fixture's
// static resolver table.
type fixtureResolver struct {
	net     idtype.ChainNet
	entries map[idtype.Txid]fxOrdResp
}

func (r fixtureResolver) ResolveWitness(txid idtype.Txid) (witness.WitnessStatus, witness.WitnessResolverError) {
	entry, ok := r.entries[txid]
	if !ok {
		return nil, witness.Unknown{Txid: txid}
	}
	switch entry.Status {
	case "unresolved":
		return witness.Unresolved{}, nil
	case "unknown":
		return nil, witness.Unknown{Txid: txid}
	case "wrong_chain_net":
		return nil, witness.WrongChainNet{}
	case "opaque":
		return nil, witness.Opaque{Msg: entry.Msg}
	case "resolved":
		reportedTxid := txid
		if entry.TxidHex != "" {
			b, err := hex32(entry.TxidHex)
			if err != nil {
				return nil, witness.Opaque{Msg: err.Error()}
			}
			reportedTxid = idtype.Txid(b)
		}
		ord, err := buildOrd(entry)
		if err != nil {
			return nil, witness.Opaque{Msg: err.Error()}
		}
		return witness.Resolved{Tx: reportedTxid, Ord: ord}, nil
	default:
		return nil, witness.Opaque{Msg: "unrecognized resolver status " + entry.Status}
	}
}

func (r fixtureResolver) CheckChainNet(expected idtype.ChainNet) error {
	if expected != r.net {
		return witness.ErrChainNetMismatch
	}
	return nil
}

func buildOrd(entry fxOrdResp) (witness.WitnessOrd, error) {
	switch entry.Kind {
	case "archived":
		return witness.Archived{}, nil
	case "ignored":
		return witness.Ignored{}, nil
	case "tentative":
		return witness.Tentative{}, nil
	case "mined":
		return witness.Mined{Height: entry.Height}, nil
	default:
		return nil, fmt.Errorf("unknown witness ord kind %q", entry.Kind)
	}
}

// fixtureWitnessSource implements validation.WitnessSource over the
// bundles' own witness_tx fixtures, keyed by witness id.
type fixtureWitnessSource map[idtype.Txid]commitment.Tx

func (s fixtureWitnessSource) WitnessTx(txid idtype.Txid) (commitment.Tx, bool) {
	tx, ok := s[txid]
	return tx, ok
}

// Built is everything assembled from a Fixture, ready to hand to a
// validation.Validator.
type Built struct {
	ChainNet       idtype.ChainNet
	Consignment    consignment.ConsignmentApi
	TrustedTypes   typesys.TypeSystem
	Resolver       witness.ResolveWitness
	Witnesses      fixtureWitnessSource
	Machine        vm.ScriptVM
	ContractState  vm.ContractStateEvolve
	TrustedOpSeals map[idtype.OpId]struct{}
}

// Build assembles everything a validator run needs from fx.
func Build(fx Fixture, provider cryptoprovider.Provider) (*Built, error) {
	net, err := parseChainNet(fx.ChainNet)
	if err != nil {
		return nil, err
	}

	trustedTypes, err := buildTypeSystem(fx.TrustedTypes)
	if err != nil {
		return nil, fmt.Errorf("trusted_types: %w", err)
	}
	consignmentTypes, err := buildTypeSystem(fx.Types)
	if err != nil {
		return nil, fmt.Errorf("types: %w", err)
	}

	sch, err := buildSchema(fx.Schema)
	if err != nil {
		return nil, fmt.Errorf("schema: %w", err)
	}

	libs := make(consignment.ScriptLibraries, len(fx.Scripts))
	for k, v := range fx.Scripts {
		libID, err := hex32(k)
		if err != nil {
			return nil, fmt.Errorf("script id %q: %w", k, err)
		}
		code, err := hexBytes(v)
		if err != nil {
			return nil, fmt.Errorf("script %q code: %w", k, err)
		}
		libs[schema.ScriptId(libID)] = code
	}

	genesis, err := buildGenesis(fx.Genesis, net)
	if err != nil {
		return nil, err
	}
	genID := genesis.ID(provider)
	contractID := idtype.ContractId(genID)

	schemaID, err := hex32(fx.SchemaIDHex)
	if err != nil {
		return nil, fmt.Errorf("schema_id_hex: %w", err)
	}

	mem := consignment.NewMemory(net, genesis, genID, sch, consignmentTypes)
	mem.SchemaIDVal = idtype.SchemaId(schemaID)
	mem.Libs = libs

	witnesses := make(fixtureWitnessSource, len(fx.Bundles))
	resolverEntries := make(map[idtype.Txid]fxOrdResp, len(fx.Resolver))
	for k, v := range fx.Resolver {
		txid, err := hex32(k)
		if err != nil {
			return nil, fmt.Errorf("resolver txid %q: %w", k, err)
		}
		resolverEntries[idtype.Txid(txid)] = v
	}

	for _, b := range fx.Bundles {
		bundleID, err := hex32(b.BundleIDHex)
		if err != nil {
			return nil, fmt.Errorf("bundle id: %w", err)
		}
		witnessID, err := hex32(b.WitnessIDHex)
		if err != nil {
			return nil, fmt.Errorf("bundle witness id: %w", err)
		}
		anchor, err := buildAnchor(b.Anchor)
		if err != nil {
			return nil, fmt.Errorf("bundle %s anchor: %w", b.BundleIDHex, err)
		}
		tx, err := buildTx(b.WitnessTx)
		if err != nil {
			return nil, fmt.Errorf("bundle %s witness tx: %w", b.BundleIDHex, err)
		}
		witnesses[idtype.Txid(witnessID)] = tx

		bundle := consignment.TransitionBundle{InputMap: make(map[state.Opout]idtype.OpId)}
		for _, kt := range b.KnownTransitions {
			opID, err := hex32(kt.OpIDHex)
			if err != nil {
				return nil, fmt.Errorf("transition op id: %w", err)
			}
			transition, err := buildTransition(kt, contractID)
			if err != nil {
				return nil, fmt.Errorf("transition %s: %w", kt.OpIDHex, err)
			}
			bundle.KnownTransitions = append(bundle.KnownTransitions, consignment.KnownTransition{
				OpID:       idtype.OpId(opID),
				Transition: transition,
			})
			for _, in := range transition.Inputs {
				bundle.InputMap[in] = idtype.OpId(opID)
			}
		}
		mem.AddBundle(idtype.BundleId(bundleID), bundle, idtype.Txid(witnessID), anchor)
	}

	return &Built{
		ChainNet:       net,
		Consignment:    mem,
		TrustedTypes:   trustedTypes,
		Resolver:       fixtureResolver{net: net, entries: resolverEntries},
		Witnesses:      witnesses,
		Machine:        &vm.AlwaysPassVM{},
		ContractState:  vm.NewMapContractState(),
		TrustedOpSeals: make(map[idtype.OpId]struct{}),
	}, nil
}

var chainNetNames = map[string]idtype.ChainNet{
	"bitcoin-mainnet":  idtype.BitcoinMainnet,
	"bitcoin-testnet3": idtype.BitcoinTestnet3,
	"bitcoin-testnet4": idtype.BitcoinTestnet4,
	"bitcoin-signet":   idtype.BitcoinSignet,
	"bitcoin-regtest":  idtype.BitcoinRegtest,
	"liquid-mainnet":   idtype.LiquidMainnet,
	"liquid-testnet":   idtype.LiquidTestnet,
}

func parseChainNet(s string) (idtype.ChainNet, error) {
	net, ok := chainNetNames[s]
	if !ok {
		return idtype.ChainNetUnknown, fmt.Errorf("unknown chain_net %q", s)
	}
	return net, nil
}
