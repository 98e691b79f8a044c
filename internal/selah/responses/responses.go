// Package responses holds the bot's conversational response tables: the
// pleasantries sent for thanks-messages, the ambient reactions sent to a
// fraction of unmatched chatter, and the book-name alias map used to expand
// abbreviated citations ("Jn 3:16").
//
// The tables are a YAML document, validated against an embedded JSON schema
// before use. An embedded default document ships in the binary; deployments
// override it with a file.
package responses

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

//go:embed schema.json
var schemaJSON string

// Ambient configures the sometimes-react behaviour for unmatched messages.
type Ambient struct {
	// Odds is the probability [0,1] of reacting to an unmatched message.
	Odds float64 `yaml:"odds" json:"odds"`
	// Replies are the candidate reactions, one chosen at random.
	Replies []string `yaml:"replies" json:"replies"`
}

// Tables is a parsed and validated response-tables document.
type Tables struct {
	// Thanks are the candidate replies to a thanks-message.
	Thanks []string `yaml:"thanks" json:"thanks"`
	// Ambient is the sometimes-react configuration.
	Ambient Ambient `yaml:"ambient" json:"ambient"`
	// Aliases maps lower-cased book abbreviations to canonical book names.
	Aliases map[string]string `yaml:"aliases" json:"aliases"`
}

var schema = jsonschema.MustCompileString("responses.schema.json", schemaJSON)

// Load parses a YAML response-tables document and validates it against the
// schema. It is the canonical entry point for loading the tables.
func Load(data []byte) (*Tables, error) {
	// The schema validator works on JSON-decoded values, so the YAML
	// document is round-tripped through JSON before validation.
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("responses parse: %w", err)
	}
	jsonDoc, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("responses parse: %w", err)
	}
	var v any
	dec := json.NewDecoder(bytes.NewReader(jsonDoc))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("responses parse: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return nil, fmt.Errorf("responses validate: %w", err)
	}

	var t Tables
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("responses parse: %w", err)
	}

	// Alias keys are matched lower-cased at extraction time.
	if len(t.Aliases) > 0 {
		aliases := make(map[string]string, len(t.Aliases))
		for k, v := range t.Aliases {
			aliases[strings.ToLower(k)] = v
		}
		t.Aliases = aliases
	}

	return &t, nil
}

// Default returns the embedded response tables.
func Default() (*Tables, error) {
	return Load(defaultYAML)
}

// IsThanks reports whether a message reads as a thank-you.
func IsThanks(text string) bool {
	lower := strings.ToLower(strings.TrimSpace(text))
	return strings.HasPrefix(lower, "thanks") || strings.HasPrefix(lower, "thank you")
}
