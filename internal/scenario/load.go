package scenario

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Load reads a scenario document off fs, detects JSON vs YAML by
// extension, and returns it fully validated. Callers never see a
// partially-valid Scenario: Load returns (nil, err) when the file can't be
// read (a plain wrapped I/O error) or the document is invalid
// (*ValidationErrors); otherwise the returned Scenario has passed Validate.
func Load(fs afero.Fs, path string) (*Scenario, error) {
	raw, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario %s: %w", path, err)
	}

	jsonBytes := raw
	if isYAML(path) {
		jsonBytes, err = yamlToJSON(raw)
		if err != nil {
			return nil, &ValidationErrors{Items: []ValidationError{{
				Code: CodeJSONParse, Message: fmt.Sprintf("invalid yaml: %s", err),
			}}}
		}
	}

	var s Scenario
	if err := json.Unmarshal(jsonBytes, &s); err != nil {
		if err := Validate(&s, jsonBytes); err != nil {
			return nil, err
		}
		return nil, &ValidationErrors{Items: []ValidationError{{
			Code: CodeSchemaViolate, Message: err.Error(),
		}}}
	}

	if err := Validate(&s, jsonBytes); err != nil {
		return nil, err
	}
	return &s, nil
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// yamlToJSON round-trips YAML through a generic map and encoding/json.
// gopkg.in/guregu/null.v3 types only implement encoding/json's
// Marshaler/Unmarshaler, not yaml.v3's — decoding YAML straight into a
// Scenario would silently leave every null.* field zero. Going via an
// interface{} and re-encoding as JSON keeps both libraries working
// correctly instead of picking one loader per format.
func yamlToJSON(raw []byte) ([]byte, error) {
	var generic interface{}
	if err := yaml.Unmarshal(raw, &generic); err != nil {
		return nil, err
	}
	generic = normalizeYAML(generic)
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	if err := enc.Encode(generic); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// normalizeYAML rewrites map[interface{}]interface{} nodes (yaml.v3 node
// decoding into `interface{}` can still produce these for nested maps)
// into map[string]interface{} so encoding/json can marshal them.
func normalizeYAML(v interface{}) interface{} {
	switch node := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(node))
		for k, val := range node {
			out[k] = normalizeYAML(val)
		}
		return out
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(node))
		for k, val := range node {
			out[fmt.Sprintf("%v", k)] = normalizeYAML(val)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(node))
		for i, val := range node {
			out[i] = normalizeYAML(val)
		}
		return out
	default:
		return v
	}
}
