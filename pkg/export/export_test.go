package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"tableflip.dev/focus/pkg/document"
	"tableflip.dev/focus/pkg/horizon"
)

func sampleDoc() document.Document {
	doc := document.New(nil)
	at := time.Date(2026, time.October, 16, 9, 0, 0, 0, time.UTC)
	for i := range doc.Horizons {
		if doc.Horizons[i].ID == horizon.Daily {
			doc.Horizons[i].Tasks = append(doc.Horizons[i].Tasks, horizon.Task{
				ID: "t-1", Text: "ship export", CreatedAt: at, IsPrimary: true,
			})
		}
	}
	doc.Habits = append(doc.Habits, document.Habit{ID: "h-1", Name: "read", CreatedAt: at})
	return doc
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatJSON, "JSON": FormatJSON, "yml": FormatYAML, "toml": FormatTOML} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseFormat("xml")
	assert.Error(t, err)
}

func TestEncodeJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, sampleDoc(), FormatJSON))
	assert.Contains(t, buf.String(), `"text": "ship export"`)
	assert.True(t, strings.HasSuffix(buf.String(), "\n"))
}

func TestEncodeYAMLKeepsFieldNames(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, sampleDoc(), FormatYAML))

	var back map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &back))
	assert.Equal(t, document.Schema, back["schema"])
	assert.Contains(t, buf.String(), "isPrimary: true")
}

func TestEncodeTOML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, sampleDoc(), FormatTOML))

	var back map[string]any
	require.NoError(t, toml.Unmarshal(buf.Bytes(), &back))
	assert.Equal(t, document.Schema, back["schema"])
	habits, ok := back["habits"].([]any)
	require.True(t, ok)
	require.Len(t, habits, 1)
	assert.Equal(t, "read", habits[0].(map[string]any)["name"])
}
