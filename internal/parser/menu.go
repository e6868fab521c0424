package parser

import (
	"strings"
	"time"

	"github.com/gimvic/schedule-sync/internal/tabular"
)

// SnackMenuPDF parses a snack menu PDF table set. Each data row is one
// school day, counted from the effective Monday.
func SnackMenuPDF(tables []tabular.Table, effective time.Time) []MenuDay {
	var out []MenuDay
	days := 0

	for _, table := range tables {
		for _, raw := range table {
			row := padRow(tabular.CleanRow(raw), 5)
			if row[1] == "" || strings.Contains(row[1], "NV in N") {
				continue
			}

			out = append(out, MenuDay{
				Date:           effective.AddDate(0, 0, days),
				Normal:         row[1],
				Poultry:        row[2],
				Vegetarian:     row[3],
				FruitVegetable: row[4],
			})
			days++
		}
	}

	return out
}

// LunchMenuPDF parses a lunch menu PDF table set.
func LunchMenuPDF(tables []tabular.Table, effective time.Time) []MenuDay {
	var out []MenuDay
	days := 0

	for _, table := range tables {
		for _, raw := range table {
			row := padRow(tabular.CleanRow(raw), 3)
			if row[1] == "" || strings.Contains(row[1], "N KOSILO") {
				continue
			}

			out = append(out, MenuDay{
				Date:       effective.AddDate(0, 0, days),
				Normal:     row[1],
				Vegetarian: row[2],
			})
			days++
		}
	}

	return out
}

func padRow(row []string, width int) []string {
	for len(row) < width {
		row = append(row, "")
	}
	return row
}
