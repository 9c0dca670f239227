// Package export renders the persisted document in a portable format.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"tableflip.dev/focus/pkg/document"
)

// Format names an export encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// Formats lists the supported encodings.
func Formats() []Format {
	return []Format{FormatJSON, FormatYAML, FormatTOML}
}

// ParseFormat accepts a format name, case-insensitively. "yml" means YAML.
func ParseFormat(raw string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(raw))); f {
	case "", FormatJSON:
		return FormatJSON, nil
	case "yml", FormatYAML:
		return FormatYAML, nil
	case FormatTOML:
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("export: unknown format %q (use json, yaml or toml)", raw)
	}
}

// Encode writes doc to w. All three formats use the same field names as the
// stored JSON sections.
func Encode(w io.Writer, doc document.Document, f Format) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	switch f {
	case FormatJSON:
		var out bytes.Buffer
		if err := json.Indent(&out, raw, "", "  "); err != nil {
			return fmt.Errorf("export: %w", err)
		}
		out.WriteByte('\n')
		_, err = w.Write(out.Bytes())
		return err
	case FormatYAML:
		// JSON is YAML; decoding into a node keeps the field order.
		var node yaml.Node
		if err := yaml.Unmarshal(raw, &node); err != nil {
			return fmt.Errorf("export: %w", err)
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(&node); err != nil {
			return fmt.Errorf("export: %w", err)
		}
		return enc.Close()
	case FormatTOML:
		tree, err := generic(raw)
		if err != nil {
			return fmt.Errorf("export: %w", err)
		}
		enc := toml.NewEncoder(w)
		enc.SetIndentTables(true)
		if err := enc.Encode(tree); err != nil {
			return fmt.Errorf("export: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("export: unknown format %q", f)
	}
}

// generic decodes JSON into maps and slices TOML can encode: nulls are
// dropped and whole numbers stay integers.
func generic(raw []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v map[string]any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return clean(v).(map[string]any), nil
}

func clean(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, child := range t {
			if child == nil {
				delete(t, k)
				continue
			}
			t[k] = clean(child)
		}
		return t
	case []any:
		for i := range t {
			t[i] = clean(t[i])
		}
		return t
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return n
		}
		f, _ := t.Float64()
		return f
	default:
		return v
	}
}
