package scenario

// JSONSchema returns a hand-built JSON Schema (draft 2020-12 subset)
// describing the Scenario document, for `rload schema`. The dependency
// set wired for this module has no schemars-equivalent reflection-based
// generator (see DESIGN.md "stdlib-only parts"), so the schema is
// written out directly as the map literal it would otherwise generate.
func JSONSchema() map[string]interface{} {
	return map[string]interface{}{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"title":   "Scenario",
		"type":    "object",
		"required": []string{"version", "name", "target", "workload", "journeys"},
		"properties": map[string]interface{}{
			"version": map[string]interface{}{"type": "integer", "const": CurrentVersion},
			"name":    map[string]interface{}{"type": "string", "minLength": 1},
			"description": map[string]interface{}{"type": "string"},
			"tags":        map[string]interface{}{"type": "array", "items": map[string]interface{}{"type": "string"}},
			"metadata":    map[string]interface{}{"type": "object", "additionalProperties": map[string]interface{}{"type": "string"}},
			"target": map[string]interface{}{
				"type":     "object",
				"required": []string{"base_url"},
				"properties": map[string]interface{}{
					"base_url":        map[string]interface{}{"type": "string", "pattern": "^https?://"},
					"default_headers": map[string]interface{}{"type": "object", "additionalProperties": map[string]interface{}{"type": "string"}},
					"insecure_tls":    map[string]interface{}{"type": "boolean"},
					"protocol":        map[string]interface{}{"type": "string", "enum": []string{"http", "grpc"}},
				},
			},
			"workload": map[string]interface{}{
				"type":     "object",
				"required": []string{"stages"},
				"properties": map[string]interface{}{
					"stages": map[string]interface{}{
						"type":     "array",
						"minItems": 1,
						"items": map[string]interface{}{
							"type":     "object",
							"required": []string{"duration_sec", "rps"},
							"properties": map[string]interface{}{
								"duration_sec": map[string]interface{}{"type": "integer", "minimum": 10, "maximum": 86400},
								"rps":          map[string]interface{}{"type": "integer", "minimum": 1, "maximum": 10000},
							},
						},
					},
				},
			},
			"journeys": map[string]interface{}{
				"type":     "array",
				"minItems": 1,
				"items": map[string]interface{}{
					"type":     "object",
					"required": []string{"name", "weight", "steps"},
					"properties": map[string]interface{}{
						"name":   map[string]interface{}{"type": "string", "minLength": 1},
						"weight": map[string]interface{}{"type": "integer", "minimum": 1, "maximum": 10000},
						"steps": map[string]interface{}{
							"type": "array",
							"items": map[string]interface{}{
								"type":     "object",
								"required": []string{"type"},
								"oneOf": []interface{}{
									map[string]interface{}{
										"properties": map[string]interface{}{
											"type":        map[string]interface{}{"const": string(StepSleep)},
											"duration_ms": map[string]interface{}{"type": "integer", "minimum": 1, "maximum": 10000},
										},
									},
									map[string]interface{}{
										"properties": map[string]interface{}{
											"type":       map[string]interface{}{"const": string(StepRequest)},
											"method":     map[string]interface{}{"type": "string", "enum": []string{"GET", "POST", "PUT", "PATCH", "DELETE"}},
											"path":       map[string]interface{}{"type": "string", "pattern": "^/"},
											"headers":    map[string]interface{}{"type": "object"},
											"body":       map[string]interface{}{"type": "string", "maxLength": 10000},
											"timeout_ms": map[string]interface{}{"type": "integer", "minimum": 1, "maximum": 100000},
										},
									},
								},
							},
						},
					},
				},
			},
			"thresholds": map[string]interface{}{
				"type": "array",
				"items": map[string]interface{}{
					"type":     "object",
					"required": []string{"metric", "op", "value"},
					"properties": map[string]interface{}{
						"metric": map[string]interface{}{"type": "string"},
						"op":     map[string]interface{}{"type": "string", "enum": []string{"lt", "gt", "lte", "gte", "eq"}},
						"value":  map[string]interface{}{"type": "number"},
						"scope": map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"endpoint": map[string]interface{}{"type": "string"},
								"journey":  map[string]interface{}{"type": "string"},
							},
						},
					},
				},
			},
		},
	}
}
