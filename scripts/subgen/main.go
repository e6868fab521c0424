// Command subgen writes a fake substitutions PDF in the layout the school
// publishes, for exercising the extraction pipeline without real documents.
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/jung-kurt/gofpdf"
)

var header = []string{"ODSOTNI UČITELJ/ICA", "URA", "RAZRED", "UČILNICA", "NADOMEŠČA", "PREDMET", "OPOMBA"}

var (
	subjects   = []string{"MAT", "SLO", "ANG", "NEM", "KEM", "FIZ"}
	teachers   = []string{"Novak", "Kovač", "Horvat", "Krajnc", "Zupančič", "Potočnik"}
	classrooms = []string{"102", "110", "201", "210", "216", "T1"}
	classes    = []string{"1. A", "1. B", "2. A", "2. C", "3. B", "4. A"}
	notes      = []string{"", "", "Samostojno delo", "Združena skupina"}
)

func main() {
	var (
		out     string
		rows    int
		rawDate string
		seed    int64
	)

	flag.StringVar(&out, "out", "", "Output file (default obvestila_D._M._YYYY.pdf for the chosen date)")
	flag.IntVar(&rows, "rows", 10, "Number of substitution rows")
	flag.StringVar(&rawDate, "date", "", "Effective date as YYYY-MM-DD (default today)")
	flag.Int64Var(&seed, "seed", time.Now().UnixNano(), "Random seed")
	flag.Parse()

	date := time.Now()
	if rawDate != "" {
		parsed, err := time.Parse("2006-01-02", rawDate)
		if err != nil {
			log.Fatalf("invalid date: %v", err)
		}
		date = parsed
	}
	if out == "" {
		out = fmt.Sprintf("obvestila_%d._%d._%d.pdf", date.Day(), int(date.Month()), date.Year())
	}

	rng := rand.New(rand.NewSource(seed))

	if err := writePDF(out, date, rows, rng); err != nil {
		log.Fatalf("failed to write %s: %v", out, err)
	}
	log.Printf("wrote %d substitution rows to %s", rows, out)
}

func writePDF(out string, date time.Time, rows int, rng *rand.Rand) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("cp1250")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, tr(fmt.Sprintf("Nadomeščanja in obvestila, %s", date.Format("2. 1. 2006"))), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	widths := []float64{55, 15, 30, 30, 55, 30, 62}

	pdf.SetFont("Helvetica", "B", 10)
	for i, cell := range header {
		pdf.CellFormat(widths[i], 8, tr(cell), "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	lastTeacher := ""
	for i := 0; i < rows; i++ {
		// The source leaves the absent-teacher cell blank when it repeats.
		teacher := teachers[rng.Intn(len(teachers))]
		cell := teacher
		if teacher == lastTeacher && i > 0 {
			cell = ""
		}
		lastTeacher = teacher

		row := []string{
			cell,
			fmt.Sprintf("%d.", 1+rng.Intn(8)),
			classes[rng.Intn(len(classes))],
			classrooms[rng.Intn(len(classrooms))],
			teachers[rng.Intn(len(teachers))],
			subjects[rng.Intn(len(subjects))],
			notes[rng.Intn(len(notes))],
		}
		for j, c := range row {
			pdf.CellFormat(widths[j], 7, tr(c), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	return pdf.OutputFileAndClose(out)
}
