package content

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.json
var schemaFS embed.FS

const schemaBaseURL = "https://kpterm.local/schemas/"

// compileSchemas compiles the embedded schema for every document.
func compileSchemas() (map[Doc]*jsonschema.Schema, error) {
	c := jsonschema.NewCompiler()
	for _, d := range AllDocs {
		raw, err := schemaFS.ReadFile("schemas/" + string(d) + ".json")
		if err != nil {
			return nil, fmt.Errorf("read schema %s: %w", d, err)
		}
		if err := c.AddResource(schemaBaseURL+string(d)+".json", bytes.NewReader(raw)); err != nil {
			return nil, fmt.Errorf("add schema %s: %w", d, err)
		}
	}
	out := make(map[Doc]*jsonschema.Schema, len(AllDocs))
	for _, d := range AllDocs {
		sch, err := c.Compile(schemaBaseURL + string(d) + ".json")
		if err != nil {
			return nil, fmt.Errorf("compile schema %s: %w", d, err)
		}
		out[d] = sch
	}
	return out, nil
}

// validate checks data against the schema for d.
func (c *Client) validate(d Doc, data []byte) error {
	sch, ok := c.schemas[d]
	if !ok {
		return nil
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidDocument, d, err)
	}
	if err := sch.Validate(v); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidDocument, d, err)
	}
	return nil
}
