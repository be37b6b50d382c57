package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/netgraph/pkg/errors"
	"github.com/matzehuels/netgraph/pkg/graph"
)

// Format identifies an input file format.
type Format string

const (
	FormatJSON       Format = "json"
	FormatCosmograph Format = "cosmograph"
	FormatCSV        Format = "csv"
)

// Read decodes r in the given format. An empty format sniffs JSON documents
// and falls back to CSV for anything else.
func Read(r io.Reader, format Format) (*graph.Graph, graph.LoadReport, error) {
	switch format {
	case FormatJSON:
		return ReadJSON(r)
	case FormatCosmograph:
		return ReadCosmograph(r)
	case FormatCSV:
		return ReadCSV(r)
	case "":
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, graph.LoadReport{}, fmt.Errorf("read: %w", err)
		}
		return Read(bytes.NewReader(data), Detect("", data))
	default:
		return nil, graph.LoadReport{}, errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q", format)
	}
}

// Import reads the network file at path, choosing the format from its
// extension and contents.
func Import(path string) (*graph.Graph, graph.LoadReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, graph.LoadReport{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, graph.LoadReport{}, fmt.Errorf("open %s: %w", path, err)
	}
	g, report, err := Read(bytes.NewReader(data), Detect(path, data))
	if err != nil {
		return nil, report, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse %s", path)
	}
	return g, report, nil
}

// Detect guesses the format of data. A ".csv" extension selects CSV; JSON
// documents with a "links" array are cosmograph files.
func Detect(path string, data []byte) Format {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return FormatCSV
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return FormatCSV
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err == nil {
		if _, ok := fields["links"]; ok {
			return FormatCosmograph
		}
	}
	return FormatJSON
}
