// Package tabular turns binary documents into plain [][]string tables so the
// format parsers never depend on an extraction library directly.
package tabular

import "strings"

// Table is one extracted table: rows of possibly-empty cell strings.
type Table [][]string

// Clean collapses newlines inside a cell and trims surrounding whitespace,
// the canonical cell form the parsers work with.
func Clean(cell string) string {
	return strings.TrimSpace(strings.ReplaceAll(cell, "\n", " "))
}

// CleanRow returns the cleaned copy of a row.
func CleanRow(row []string) []string {
	out := make([]string, len(row))
	for i, cell := range row {
		out[i] = Clean(cell)
	}
	return out
}
