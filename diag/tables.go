// SPDX-License-Identifier: MIT
// Package: knitgraph/diag
//
// tables.go - node and edge attribute tables.

package diag

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/knitgraph/core"
)

// ErrFormat is returned for an unknown table format.
var ErrFormat = errors.New("diag: unknown format")

// Format selects the table encoding.
type Format uint8

const (
	// FormatYAML writes one YAML document with nodes and edges lists.
	FormatYAML Format = iota
	// FormatTSV writes a node table, a blank line and an edge table.
	FormatTSV
)

// ParseFormat maps "yaml" or "tsv" to a Format.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "yaml", "yml":
		return FormatYAML, nil
	case "tsv":
		return FormatTSV, nil
	}

	return 0, fmt.Errorf("%w: %q", ErrFormat, s)
}

type nodeRow struct {
	ID       int               `yaml:"id"`
	Position int               `yaml:"position"`
	Rank     int               `yaml:"rank"`
	X        float64           `yaml:"x"`
	Y        float64           `yaml:"y"`
	Z        float64           `yaml:"z"`
	End      bool              `yaml:"end,omitempty"`
	Leaf     bool              `yaml:"leaf,omitempty"`
	Increase bool              `yaml:"increase,omitempty"`
	Decrease bool              `yaml:"decrease,omitempty"`
	Segment  int               `yaml:"segment"`
	Tags     map[string]string `yaml:"tags,omitempty"`
}

type edgeRow struct {
	ID      int    `yaml:"id"`
	From    int    `yaml:"from"`
	To      int    `yaml:"to"`
	Kind    string `yaml:"kind"`
	Segment int    `yaml:"segment"`
}

type tables struct {
	Nodes []nodeRow `yaml:"nodes"`
	Edges []edgeRow `yaml:"edges"`
}

func collect(g *core.Graph) tables {
	var t tables
	for _, n := range g.Nodes() {
		t.Nodes = append(t.Nodes, nodeRow{
			ID: n.ID, Position: n.Position, Rank: n.Rank,
			X: n.Point.X, Y: n.Point.Y, Z: n.Point.Z,
			End: n.IsEnd, Leaf: n.IsLeaf, Increase: n.Increase, Decrease: n.Decrease,
			Segment: n.Segment, Tags: n.Tags,
		})
	}
	for _, e := range g.Edges() {
		t.Edges = append(t.Edges, edgeRow{ID: e.ID, From: e.From, To: e.To, Kind: e.Kind.String(), Segment: e.Segment})
	}

	return t
}

// WriteTables writes the node and edge attributes of g to w.
//
// Errors: ErrFormat, or the first write error.
func WriteTables(w io.Writer, g *core.Graph, format Format) error {
	if g == nil {
		return fmt.Errorf("WriteTables: nil graph")
	}
	t := collect(g)
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(t); err != nil {
			return fmt.Errorf("WriteTables: %w", err)
		}

		return enc.Close()
	case FormatTSV:
		return writeTSV(w, t)
	}

	return fmt.Errorf("WriteTables: %w: %d", ErrFormat, format)
}

func writeTSV(w io.Writer, t tables) error {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'
	btoa := strconv.FormatBool
	itoa := strconv.Itoa

	rows := [][]string{{"id", "position", "rank", "x", "y", "z", "end", "leaf", "increase", "decrease", "segment"}}
	for _, n := range t.Nodes {
		rows = append(rows, []string{
			itoa(n.ID), itoa(n.Position), itoa(n.Rank), ftoa(n.X), ftoa(n.Y), ftoa(n.Z),
			btoa(n.End), btoa(n.Leaf), btoa(n.Increase), btoa(n.Decrease), itoa(n.Segment),
		})
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("WriteTables: %w", err)
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return fmt.Errorf("WriteTables: %w", err)
	}

	rows = [][]string{{"id", "from", "to", "kind", "segment"}}
	for _, e := range t.Edges {
		rows = append(rows, []string{itoa(e.ID), itoa(e.From), itoa(e.To), e.Kind, itoa(e.Segment)})
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("WriteTables: %w", err)
	}

	return nil
}
