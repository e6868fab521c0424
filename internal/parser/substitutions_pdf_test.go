package parser

import (
	"bytes"
	"testing"

	"github.com/jung-kurt/gofpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gimvic/schedule-sync/internal/tabular"
)

// renderSubstitutionsPDF writes a substitutions document the way the school
// publishes them, so the whole pipeline from PDF bytes to records is covered.
func renderSubstitutionsPDF(t *testing.T, rows [][]string) []byte {
	t.Helper()

	doc := gofpdf.New("L", "mm", "A4", "")
	tr := doc.UnicodeTranslatorFromDescriptor("cp1250")
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 14)
	doc.CellFormat(0, 10, tr("Nadomeščanja in obvestila, 4. 3. 2024"), "", 1, "C", false, 0, "")
	doc.Ln(4)

	widths := []float64{55, 15, 30, 30, 55, 30, 62}
	header := []string{"ODSOTNI UČITELJ/ICA", "URA", "RAZRED", "UČILNICA", "NADOMEŠČA", "PREDMET", "OPOMBA"}

	doc.SetFont("Helvetica", "B", 10)
	for i, cell := range header {
		doc.CellFormat(widths[i], 8, tr(cell), "1", 0, "C", false, 0, "")
	}
	doc.Ln(-1)

	doc.SetFont("Helvetica", "", 10)
	for _, row := range rows {
		for i, cell := range row {
			doc.CellFormat(widths[i], 7, tr(cell), "1", 0, "L", false, 0, "")
		}
		doc.Ln(-1)
	}

	var buf bytes.Buffer
	require.NoError(t, doc.Output(&buf))
	return buf.Bytes()
}

func TestSubstitutionsFromRenderedPDF(t *testing.T) {
	content := renderSubstitutionsPDF(t, [][]string{
		{"Novak", "3.", "1. B", "U13", "Kovač", "SLO", "Samostojno delo"},
		{"", "4.", "1. B", "U13", "Kovač", "SLO", ""},
	})

	tables, err := tabular.ExtractPDF(content)
	require.NoError(t, err)

	subs, err := Substitutions(tables, monday)
	require.NoError(t, err)
	require.Len(t, subs, 2)

	want := Substitution{
		Date:              monday,
		Day:               1,
		TimeSlot:          3,
		Subject:           "SLO",
		Notes:             "Samostojno delo",
		OriginalTeacher:   "Novak",
		OriginalClassroom: "U13",
		Class:             "1B",
		NewTeacher:        "Kovač",
		NewClassroom:      "U13",
	}
	assert.Equal(t, want, subs[0])

	// The blank absent-teacher cell carries the previous row's value and the
	// blank notes cell stays empty; neither may shift the row.
	want.TimeSlot = 4
	want.Notes = ""
	assert.Equal(t, want, subs[1])
}
