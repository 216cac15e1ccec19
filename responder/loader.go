package responder

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadTable reads a reply table from a YAML file:
//
//	patterns:
//	  - keywords: [hello, hi]
//	    replies: ["Hi there!"]
//	defaults: ["Tell me more."]
func LoadTable(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return Table{}, fmt.Errorf("open reply table: %w", err)
	}
	defer f.Close()
	return DecodeTable(f)
}

// DecodeTable parses a YAML reply table. Unknown fields are rejected.
func DecodeTable(r io.Reader) (Table, error) {
	var table Table
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&table); err != nil {
		return Table{}, fmt.Errorf("decode reply table: %w", err)
	}
	return table, nil
}

// LoadOrDefault returns the table at path, or the built-in table when path is empty.
func LoadOrDefault(path string) (Table, error) {
	if path == "" {
		return DefaultTable(), nil
	}
	return LoadTable(path)
}
