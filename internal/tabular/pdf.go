package tabular

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
	"golang.org/x/text/encoding/charmap"
)

// Tolerances for clustering positioned PDF text into rows and cells, in
// points. The source documents use 10-12pt fonts, so half a line height
// separates rows and anything wider than a couple of characters separates
// columns.
const (
	rowTolerance = 4.0
	cellGap      = 10.0
)

// ExtractPDF extracts tables from a PDF. Text fragments are clustered into
// lines by vertical position, lines into tables by vertical whitespace, and
// each table's cells are aligned to column bands derived from the x-extents
// of its rows. Alignment to bands keeps every row at the table's full column
// count, with empty strings for blank cells.
func ExtractPDF(content []byte) ([]Table, error) {
	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	var tables []Table
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		tables = append(tables, clusterPage(page.Content().Text)...)
	}

	return tables, nil
}

type fragment struct {
	x, y, w float64
	text    string
}

// span is one run of fragments forming a cell candidate, with its x-extent.
type span struct {
	start, end float64
	text       string
}

func clusterPage(texts []pdf.Text) []Table {
	frags := make([]fragment, 0, len(texts))
	for _, t := range texts {
		text := t.S
		if isCoreFont(t.Font) {
			text = foldLegacyEncoding(text)
		}
		frags = append(frags, fragment{x: t.X, y: t.Y, w: t.W, text: text})
	}
	if len(frags) == 0 {
		return nil
	}

	// PDF origin is bottom-left: sort top to bottom, then left to right.
	sort.Slice(frags, func(i, j int) bool {
		if frags[i].y != frags[j].y {
			return frags[i].y > frags[j].y
		}
		return frags[i].x < frags[j].x
	})

	var lines [][]fragment
	var ys []float64
	var line []fragment
	lineY := frags[0].y

	flush := func() {
		if len(line) > 0 {
			lines = append(lines, line)
			ys = append(ys, lineY)
		}
		line = nil
	}

	for _, f := range frags {
		if lineY-f.y > rowTolerance {
			flush()
			lineY = f.y
		}
		line = append(line, f)
	}
	flush()

	var tables []Table
	for _, segment := range splitSegments(lines, ys) {
		if table := segmentTable(segment); len(table) > 0 {
			tables = append(tables, table)
		}
	}
	return tables
}

// splitSegments breaks the page's lines into tables at vertical gaps clearly
// wider than the page's own line pitch. Sections of the source documents are
// separated by at least one blank line.
func splitSegments(lines [][]fragment, ys []float64) [][][]fragment {
	if len(lines) < 3 {
		return [][][]fragment{lines}
	}

	gaps := make([]float64, 0, len(ys)-1)
	for i := 1; i < len(ys); i++ {
		gaps = append(gaps, ys[i-1]-ys[i])
	}
	// Lower median: most gaps are the line pitch, and section gaps must not
	// drag the estimate up on short pages.
	sorted := append([]float64(nil), gaps...)
	sort.Float64s(sorted)
	threshold := sorted[(len(sorted)-1)/2] * 1.5
	if threshold < 2*rowTolerance {
		threshold = 2 * rowTolerance
	}

	var segments [][][]fragment
	start := 0
	for i, gap := range gaps {
		if gap > threshold {
			segments = append(segments, lines[start:i+1])
			start = i + 1
		}
	}
	return append(segments, lines[start:])
}

// segmentTable aligns one table's lines to shared column bands. A segment
// with no line of at least three cells has no columns to align to and is
// emitted as free-form rows.
func segmentTable(lines [][]fragment) Table {
	spans := make([][]span, len(lines))
	for i, line := range lines {
		spans[i] = gapSplit(line)
	}

	bands := columnBands(spans)

	var table Table
	for _, lineSpans := range spans {
		var row []string
		if len(bands) == 0 {
			for _, sp := range lineSpans {
				row = append(row, sp.text)
			}
		} else {
			row = make([]string, len(bands))
			for _, sp := range lineSpans {
				idx := bandFor(bands, sp)
				if row[idx] == "" {
					row[idx] = sp.text
				} else {
					row[idx] += " " + sp.text
				}
			}
		}
		if rowFilled(row) {
			table = append(table, row)
		}
	}
	return table
}

// gapSplit joins a line's fragments into spans, starting a new span on a wide
// horizontal gap.
func gapSplit(line []fragment) []span {
	if len(line) == 0 {
		return nil
	}
	sort.Slice(line, func(i, j int) bool { return line[i].x < line[j].x })

	var spans []span
	var cell bytes.Buffer
	start := line[0].x
	lastEnd := line[0].x

	emit := func(end float64) {
		if text := Clean(cell.String()); text != "" {
			spans = append(spans, span{start: start, end: end, text: text})
		}
		cell.Reset()
	}

	for i, f := range line {
		if i > 0 && f.x-lastEnd > cellGap {
			emit(lastEnd)
			start = f.x
		}
		cell.WriteString(f.text)
		lastEnd = f.x + fragWidth(f)
	}
	emit(lastEnd)

	return spans
}

// columnBands derives the table's columns from the lines carrying the most
// cells: in a grid those lines have one span per column, so their i-th
// spans' extents union into the i-th column. Deriving bands from full lines
// only keeps a partially blank row from smearing a column sideways, and a
// one-cell title line never defines columns at all.
func columnBands(lines [][]span) [][2]float64 {
	most := 0
	for _, spans := range lines {
		if len(spans) > most {
			most = len(spans)
		}
	}
	if most < 3 {
		return nil
	}

	var bands [][2]float64
	for _, spans := range lines {
		if len(spans) != most {
			continue
		}
		if bands == nil {
			bands = make([][2]float64, most)
			for i, sp := range spans {
				bands[i] = [2]float64{sp.start, sp.end}
			}
			continue
		}
		for i, sp := range spans {
			if sp.start < bands[i][0] {
				bands[i][0] = sp.start
			}
			if sp.end > bands[i][1] {
				bands[i][1] = sp.end
			}
		}
	}
	return bands
}

// bandFor picks the band overlapping the span the most; a span outside every
// band falls to the nearest one.
func bandFor(bands [][2]float64, sp span) int {
	best := 0
	bestOverlap := overlap(bands[0], sp)
	for i := 1; i < len(bands); i++ {
		if o := overlap(bands[i], sp); o > bestOverlap {
			best, bestOverlap = i, o
		}
	}
	return best
}

// overlap is positive for intersecting intervals and the negated gap
// otherwise, so maximizing it doubles as a nearest-band fallback.
func overlap(band [2]float64, sp span) float64 {
	low := band[0]
	if sp.start > low {
		low = sp.start
	}
	high := band[1]
	if sp.end < high {
		high = sp.end
	}
	return high - low
}

func rowFilled(row []string) bool {
	for _, cell := range row {
		if cell != "" {
			return true
		}
	}
	return false
}

func fragWidth(f fragment) float64 {
	if f.w > 0 {
		return f.w
	}
	// Rough advance estimate; only gap detection depends on it.
	return float64(len([]rune(f.text))) * 5.0
}

// Core-font documents (the school's generator templates among them) carry
// cp1250 text without a unicode mapping, so extraction yields the cp1252
// counterparts of the Central European letters. Fold those bytes back
// through cp1250 to match unicode-mapped documents.
func foldLegacyEncoding(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= 0x80 && r <= 0xFF {
			r = charmap.Windows1250.DecodeByte(byte(r))
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isCoreFont(name string) bool {
	for _, prefix := range []string{"Helvetica", "Times", "Courier", "Arial"} {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}
