package importer

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// EntryFile is the top-level YAML structure for a bulk entry import.
type EntryFile struct {
	Entries []EntryImport `yaml:"entries"`
}

// EntryImport is one cell write. The account is given either by id or by
// its code.
type EntryImport struct {
	NodeID        string  `yaml:"node_id"`
	AccountItemID string  `yaml:"account_item_id,omitempty"`
	AccountCode   string  `yaml:"account_code,omitempty"`
	Month         string  `yaml:"month"`
	Category      string  `yaml:"category"`
	Amount        string  `yaml:"amount"`
	Description   *string `yaml:"description,omitempty"`
}

// LoadEntryFile reads and parses a bulk entry YAML file.
func LoadEntryFile(path string) (*EntryFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseEntryFile(bytes.NewReader(data))
}

// ParseEntryFile decodes YAML from r. Unknown keys are rejected so a typo
// does not silently drop a field.
func ParseEntryFile(r io.Reader) (*EntryFile, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var f EntryFile
	if err := dec.Decode(&f); err != nil {
		if err == io.EOF {
			return &f, nil
		}
		return nil, fmt.Errorf("parsing entry file: %w", err)
	}
	return &f, nil
}
