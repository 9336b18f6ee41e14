package envelope

import (
	"encoding/json"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/Elydora-Infrastructure/Elydora-Node-SDK/pkg/contracts"
)

// wireSchema is the JSON Schema for the signed EOR wire form. `elydora
// doctor` uses it to reject structurally broken records before any
// cryptographic checks run.
const wireSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$id": "https://api.elydora.com/schemas/eor-1.0.json",
  "type": "object",
  "required": [
    "op_version", "operation_id", "org_id", "agent_id", "issued_at",
    "ttl_ms", "nonce", "operation_type", "subject", "action", "payload",
    "payload_hash", "prev_chain_hash", "agent_pubkey_kid", "signature"
  ],
  "additionalProperties": false,
  "properties": {
    "op_version": {"const": "1.0"},
    "operation_id": {
      "type": "string",
      "pattern": "^[0-9a-f]{8}-[0-9a-f]{4}-7[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$"
    },
    "org_id": {"type": "string", "minLength": 1},
    "agent_id": {"type": "string", "minLength": 1},
    "issued_at": {"type": "integer", "minimum": 0},
    "ttl_ms": {"type": "integer", "exclusiveMinimum": 0},
    "nonce": {"type": "string", "pattern": "^[A-Za-z0-9_-]{22}$"},
    "operation_type": {"type": "string", "minLength": 1},
    "subject": {"type": "object"},
    "action": {"type": "object"},
    "payload": {},
    "payload_hash": {"type": "string", "pattern": "^[A-Za-z0-9_-]{43}$"},
    "prev_chain_hash": {"type": "string", "pattern": "^[A-Za-z0-9_-]{43}$"},
    "agent_pubkey_kid": {"type": "string", "minLength": 1},
    "signature": {"type": "string", "pattern": "^[A-Za-z0-9_-]{86}$"}
  }
}`

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("eor-1.0.json", strings.NewReader(wireSchema)); err != nil {
			schemaErr = err
			return
		}
		schema, schemaErr = compiler.Compile("eor-1.0.json")
	})
	return schema, schemaErr
}

// ValidateWire checks a signed EOR in wire form against the envelope schema.
// Failures surface as VALIDATION_ERROR.
func ValidateWire(raw []byte) error {
	sch, err := compiledSchema()
	if err != nil {
		return contracts.Validationf("envelope schema broken: %v", err)
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return contracts.Validationf("record is not valid JSON: %v", err)
	}
	if err := sch.Validate(v); err != nil {
		return contracts.Validationf("record fails envelope schema: %v", err)
	}
	return nil
}
