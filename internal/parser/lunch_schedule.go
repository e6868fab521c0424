package parser

import (
	"regexp"
	"strings"

	"github.com/gimvic/schedule-sync/internal/tabular"
	appErrors "github.com/gimvic/schedule-sync/pkg/errors"
)

var (
	timeNoiseRe    = regexp.MustCompile(`cca|do`)
	classNoiseRe   = regexp.MustCompile(`[().]`)
	wholeYearRe    = regexp.MustCompile(`(\d)\.? ?[lL]?(?:\.|$)`)
	lunchTimeRe    = regexp.MustCompile(`^\d{1,2}[:.]\d{2}$`)
	classLetterSet = []string{"A", "B", "C", "D", "E", "F"}
)

// LunchSchedule parses the lunch schedule tables. The source document has
// accumulated years of layout quirks: glued time/notes cells, two times
// sharing one cell, deregistration rows, and whole-year shorthands that
// expand to every class letter. A time cell that survives the known skip
// rules but still does not look like a time fails the whole document.
func LunchSchedule(tables []tabular.Table) ([]LunchSlot, error) {
	var out []LunchSlot

	for _, src := range tables {
		if len(src) == 0 || len(src[0]) == 0 {
			continue
		}
		// The first table is usually an instructions block, not a schedule.
		if src[0][0] == "" || strings.Contains(src[0][0], "Dijaki prihajate v jedilnico") {
			continue
		}

		// Rows are patched in place while parsing (a cell can carry the next
		// row's time), so work on a copy.
		table := make(tabular.Table, len(src))
		for i, row := range src {
			table[i] = append([]string(nil), row...)
		}

		for index := 0; index < len(table); index++ {
			row := table[index]
			if len(row) == 0 {
				continue
			}

			// Time and notes merged into one four-cell row.
			if len(row) == 4 && strings.Contains(row[0], "\n") {
				parts := strings.SplitN(row[0], "\n", 2)
				row = insertCell(row, parts[0], parts[1])
			}
			if len(row) == 4 && strings.Contains(row[0], " ") {
				parts := strings.SplitN(row[0], " ", 2)
				row = insertCell(row, parts[0], parts[1])
			}

			if strings.Contains(row[0], "ura") {
				continue
			}
			if len(row) != 5 || row[0] == "" {
				continue
			}
			// Deregistration rows carry no schedule data.
			if strings.Contains(row[0], "odj.") {
				continue
			}

			// Two times in one cell: the second belongs to the next row.
			if times := strings.SplitN(row[0], "\n", 2); len(times) == 2 {
				row[0] = times[0]
				if index+1 < len(table) && len(table[index+1]) > 0 {
					table[index+1][0] = times[1]
				}
			}

			// Time and notes glued together with the notes cell empty.
			if row[1] == "" {
				if parts := strings.SplitN(row[0], " ", 2); len(parts) == 2 {
					row[0], row[1] = parts[0], parts[1]
				}
			}

			timeRaw := strings.TrimSpace(timeNoiseRe.ReplaceAllString(row[0], ""))
			timeValue := strings.ReplaceAll(timeRaw, ".", ":")
			if !lunchTimeRe.MatchString(timeValue) {
				return nil, appErrors.Clone(appErrors.ErrParseFailed, "unexpected lunch time format: "+row[0])
			}

			notes := strings.TrimSpace(row[1])
			location := strings.TrimSpace(row[4])

			var classes []string
			if row[2] != "" {
				classes = strings.Split(classNoiseRe.ReplaceAllString(row[2], ""), ",")
			}

			// "2. l" style shorthand means the whole year: expand to every
			// class letter.
			if len(classes) == 1 {
				if match := wholeYearRe.FindStringSubmatch(classes[0]); match != nil {
					classes = classes[:0]
					for _, letter := range classLetterSet {
						classes = append(classes, match[1]+letter)
					}
				}
			}

			for _, class := range classes {
				class = strings.TrimSpace(class)
				if class == "" {
					continue
				}
				out = append(out, LunchSlot{
					Class:    class,
					Time:     timeValue,
					Location: location,
					Notes:    notes,
				})
			}
		}
	}

	return out, nil
}

func insertCell(row []string, head, second string) []string {
	out := make([]string, 0, len(row)+1)
	out = append(out, head, second)
	out = append(out, row[1:]...)
	return out
}
