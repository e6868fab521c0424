package parser

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// Layouts a workbook date cell may render as, tried in order.
var xlsxDateLayouts = []string{
	"1/2/06", "01-02-06", "2006-01-02", "2.1.2006", "02.01.2006", "2. 1. 2006",
}

// SnackMenuXLSX parses a snack menu workbook. Day blocks are delimited by
// bottom-bordered rows; the first line of each block is the column header and
// is dropped when the block's lines are joined.
func SnackMenuXLSX(content []byte, effective time.Time) ([]MenuDay, error) {
	blocks, err := menuBlocks(content, 5)
	if err != nil {
		return nil, err
	}

	out := make([]MenuDay, 0, len(blocks))
	for i, block := range blocks {
		out = append(out, MenuDay{
			Date:           effective.AddDate(0, 0, i),
			Normal:         joinBlock(block[1]),
			Poultry:        joinBlock(block[2]),
			Vegetarian:     joinBlock(block[3]),
			FruitVegetable: joinBlock(block[4]),
		})
	}
	return out, nil
}

// LunchMenuXLSX parses a lunch menu workbook.
func LunchMenuXLSX(content []byte, effective time.Time) ([]MenuDay, error) {
	blocks, err := menuBlocks(content, 3)
	if err != nil {
		return nil, err
	}

	out := make([]MenuDay, 0, len(blocks))
	for i, block := range blocks {
		out = append(out, MenuDay{
			Date:       effective.AddDate(0, 0, i),
			Normal:     joinBlock(block[1]),
			Vegetarian: joinBlock(block[2]),
		})
	}
	return out, nil
}

// menuBlocks splits workbook rows into dated day blocks. A block is closed by
// a bottom-bordered first-column cell and only kept when it contained a date
// cell, matching how the source lays out one block per school day.
func menuBlocks(content []byte, cols int) ([][][]string, error) {
	file, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer file.Close()

	var blocks [][][]string
	current := make([][]string, cols)
	dated := false

	flush := func() {
		if dated && len(current[1]) > 0 {
			blocks = append(blocks, current)
		}
		current = make([][]string, cols)
		dated = false
	}

	for _, sheet := range file.GetSheetList() {
		rows, err := file.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
		}

		for rowIdx, row := range rows {
			cell, err := excelize.CoordinatesToCellName(1, rowIdx+1)
			if err != nil {
				return nil, err
			}
			if bordered, err := hasBottomBorder(file, sheet, cell); err == nil && bordered {
				flush()
			}

			row = padRow(row, cols)
			if !dated && isDateCell(row[0]) {
				dated = true
			}
			for col := 0; col < cols; col++ {
				if value := strings.TrimSpace(row[col]); value != "" {
					current[col] = append(current[col], value)
				}
			}
		}
	}
	flush()

	return blocks, nil
}

func hasBottomBorder(file *excelize.File, sheet, cell string) (bool, error) {
	styleID, err := file.GetCellStyle(sheet, cell)
	if err != nil {
		return false, err
	}
	style, err := file.GetStyle(styleID)
	if err != nil || style == nil {
		return false, err
	}
	for _, border := range style.Border {
		if border.Type == "bottom" && border.Color != "" {
			return true, nil
		}
	}
	return false, nil
}

func isDateCell(value string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return false
	}
	for _, layout := range xlsxDateLayouts {
		if _, err := time.Parse(layout, value); err == nil {
			return true
		}
	}
	return false
}

// joinBlock joins a block column, dropping its header line.
func joinBlock(lines []string) string {
	if len(lines) <= 1 {
		return ""
	}
	return strings.Join(lines[1:], "\n")
}
