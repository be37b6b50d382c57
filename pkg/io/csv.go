package io

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/matzehuels/netgraph/pkg/graph"
)

// Recognised CSV header names, lowercase.
var (
	sourceColumns    = []string{"source", "from", "origem"}
	targetColumns    = []string{"target", "to", "destino"}
	qualifierColumns = []string{"qualificacao_socio", "qualifier"}
)

// ReadCSV decodes an edge-list CSV from r and loads it with
// [graph.LoadEdges].
//
// The first row must be a header. Columns are located by name; when no
// source or target column is found the first two columns are used. Rows with
// too few fields are dropped and counted. A qualifier column is optional and
// non-numeric qualifier values are ignored.
func ReadCSV(r io.Reader) (*graph.Graph, graph.LoadReport, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, graph.LoadReport{}, fmt.Errorf("read header: %w", err)
	}
	src, dst, qual := column(header, sourceColumns), column(header, targetColumns), column(header, qualifierColumns)
	if src < 0 || dst < 0 {
		src, dst = 0, 1
	}

	var (
		edges   []graph.EdgeSpec
		short   int
		lastErr error
	)
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			lastErr = err
			break
		}
		if len(rec) <= max(src, dst) {
			short++
			continue
		}
		spec := graph.EdgeSpec{Source: rec[src], Target: rec[dst]}
		if qual >= 0 && qual < len(rec) {
			if q, err := strconv.Atoi(strings.TrimSpace(rec[qual])); err == nil {
				spec.Qualifier, spec.HasQualifier = q, true
			}
		}
		edges = append(edges, spec)
	}
	if lastErr != nil {
		return nil, graph.LoadReport{}, fmt.Errorf("read csv: %w", lastErr)
	}

	g, report := graph.LoadEdges(edges)
	report.DroppedEdges += short
	return g, report, nil
}

func column(header []string, names []string) int {
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		for _, n := range names {
			if h == n {
				return i
			}
		}
	}
	return -1
}
