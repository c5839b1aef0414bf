// Command rgb-validate runs the three-phase consignment validator over JSON
// requests read from stdin, one per line, each naming a JSON fixture file
// to load, writing one JSON response per line to stdout. There is no consignment wire codec in this
// repo, so the fixture format stands in for a deserialized consignment.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rgbcore/validator/config"
	"github.com/rgbcore/validator/cryptoprovider"
	"github.com/rgbcore/validator/idtype"
	"github.com/rgbcore/validator/logging"
	"github.com/rgbcore/validator/store"
	"github.com/rgbcore/validator/typesys"
	"github.com/rgbcore/validator/validation"
)

// Request is one line of work read from stdin.
type Request struct {
	Op              string   `json:"op"`
	FixturePath     string   `json:"fixture_path,omitempty"`
	SafeHeight      *uint64  `json:"safe_height,omitempty"`
	TrustedOpIDsHex []string `json:"trusted_op_ids,omitempty"`
}

// Response is written to stdout once per Request.
type Response struct {
	Ok       bool     `json:"ok"`
	Err      string   `json:"err,omitempty"`
	Valid    bool     `json:"valid,omitempty"`
	Failures []string `json:"failures,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
	Infos    []string `json:"infos,omitempty"`
}

func writeResp(w io.Writer, resp Response) {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(resp); err != nil {
		fmt.Fprintf(os.Stderr, "rgb-validate: failed to encode response: %v\n", err)
	}
}

func main() {
	cfg := config.DefaultConfig()
	if path := os.Getenv("RGB_VALIDATE_CONFIG"); path != "" {
		loaded, err := loadConfig(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "rgb-validate: loading config %s: %v\n", path, err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "rgb-validate: invalid config: %v\n", err)
		os.Exit(1)
	}
	logging.Init(cfg.LogLevel, cfg.LogJSON, os.Stderr)

	db, err := store.Open(cfg.DataDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "rgb-validate: opening store at %s: %v\n", cfg.DataDir, err)
		os.Exit(1)
	}
	defer db.Close()

	dec := json.NewDecoder(os.Stdin)
	for {
		var req Request
		if err := dec.Decode(&req); err != nil {
			if err == io.EOF {
				return
			}
			writeResp(os.Stdout, Response{Ok: false, Err: "malformed request: " + err.Error()})
			continue
		}
		handle(cfg, db, req)
	}
}

func handle(cfg config.Config, db *store.DB, req Request) {
	if req.Op != "validate" {
		writeResp(os.Stdout, Response{Ok: false, Err: fmt.Sprintf("unknown op %q", req.Op)})
		return
	}
	if req.FixturePath == "" {
		writeResp(os.Stdout, Response{Ok: false, Err: "fixture_path is required"})
		return
	}

	raw, err := os.ReadFile(req.FixturePath)
	if err != nil {
		writeResp(os.Stdout, Response{Ok: false, Err: "reading fixture: " + err.Error()})
		return
	}
	var fx Fixture
	if err := json.Unmarshal(raw, &fx); err != nil {
		writeResp(os.Stdout, Response{Ok: false, Err: "parsing fixture: " + err.Error()})
		return
	}

	provider := cryptoprovider.Dev{}
	built, err := Build(fx, provider)
	if err != nil {
		writeResp(os.Stdout, Response{Ok: false, Err: "building fixture: " + err.Error()})
		return
	}

	if err := mergeTrustedTypes(db, built.TrustedTypes); err != nil {
		writeResp(os.Stdout, Response{Ok: false, Err: "caching trusted types: " + err.Error()})
		return
	}
	trustedTypes, err := db.LoadTypeSystem()
	if err != nil {
		writeResp(os.Stdout, Response{Ok: false, Err: "loading trusted types: " + err.Error()})
		return
	}
	built.TrustedTypes = trustedTypes

	trustedOpIDsHex := req.TrustedOpIDsHex
	if trustedOpIDsHex == nil {
		trustedOpIDsHex = cfg.TrustedOpIDsHex
	}
	for _, h := range trustedOpIDsHex {
		opID, err := parseOpIDHex(h)
		if err != nil {
			writeResp(os.Stdout, Response{Ok: false, Err: "trusted_op_ids: " + err.Error()})
			return
		}
		built.TrustedOpSeals[opID] = struct{}{}
	}

	safeHeight := req.SafeHeight
	if safeHeight == nil {
		safeHeight = cfg.SafeHeight
	}

	validator := validation.NewValidator(provider, built.Resolver, built.Witnesses, built.Machine, built.ContractState, built.TrustedTypes)
	validator.TrustedOpSeals = built.TrustedOpSeals
	validator.SafeHeight = safeHeight

	logging.Schema.Info().Str("fixture", req.FixturePath).Msg("validating consignment")

	status := validator.Validate(built.Consignment, built.ChainNet)

	resp := Response{Ok: true, Valid: status.Validity() == validation.Valid}
	for _, f := range status.Failures {
		resp.Failures = append(resp.Failures, f.String())
	}
	for _, w := range status.Warnings {
		resp.Warnings = append(resp.Warnings, w.String())
	}
	for _, i := range status.Infos {
		resp.Infos = append(resp.Infos, i.String())
	}
	writeResp(os.Stdout, resp)
}

func loadConfig(path string) (config.Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return config.Config{}, err
	}
	cfg := config.DefaultConfig()
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func parseOpIDHex(h string) (idtype.OpId, error) {
	b, err := hexBytes(h)
	if err != nil {
		return idtype.OpId{}, err
	}
	if len(b) != 32 {
		return idtype.OpId{}, fmt.Errorf("op id %q: want 32 bytes", h)
	}
	var out idtype.OpId
	copy(out[:], b)
	return out, nil
}

// mergeTrustedTypes persists every semantic type the fixture declares
// trusted into the store, so a restarted node's TrustedTypes registry
// carries them without needing the same fixture again.
func mergeTrustedTypes(db *store.DB, types typesys.TypeSystem) error {
	var putErr error
	types.Iter(func(id typesys.SemId, t typesys.Type) {
		if putErr != nil {
			return
		}
		putErr = db.PutType(id, t.Descriptor)
	})
	return putErr
}
