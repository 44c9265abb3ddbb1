package compiler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/tabula/pkg/fsm"
)

// Parser is responsible for converting raw bytes into a Definition.
type Parser struct{}

// NewParser creates a new parser instance.
func NewParser() *Parser {
	return &Parser{}
}

// Parse decodes a YAML or JSON document into a Definition.
// JSON is detected by a leading '{'; everything else is read as YAML.
func (p *Parser) Parse(data []byte) (*fsm.Definition, error) {
	var raw map[string]any

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty definition")
	}
	if trimmed[0] == '{' {
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse definition: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(trimmed, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse definition: %w", err)
		}
	}

	def, err := decode(raw)
	if err != nil {
		return nil, err
	}
	// Basic validation
	if len(def.States) == 0 {
		return nil, fmt.Errorf("definition declares no states")
	}
	return def, nil
}

// ParseFile reads path and parses it. A definition without a name takes the
// file's base name.
func (p *Parser) ParseFile(path string) (*fsm.Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	def, err := p.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if def.Name == "" {
		base := filepath.Base(path)
		def.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return def, nil
}

// decode maps the generic document onto a Definition. Unknown keys are an
// error so that a misspelled field does not silently drop transitions.
func decode(raw map[string]any) (*fsm.Definition, error) {
	var def fsm.Definition
	var md mapstructure.Metadata

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &def,
		Metadata:         &md,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		TagName:          "mapstructure",
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("invalid definition: %w", err)
	}
	return &def, nil
}
