package parser

import (
	"strconv"
	"strings"
	"time"

	"github.com/gimvic/schedule-sync/internal/normalize"
	"github.com/gimvic/schedule-sync/internal/tabular"
	appErrors "github.com/gimvic/schedule-sync/pkg/errors"
)

// rowKind is the state of the substitutions table parser. Each section of the
// document starts with a known header row that switches the state; data rows
// are interpreted positionally per state.
type rowKind int

const (
	rowNone rowKind = iota
	rowSubstitutions
	rowLessonChange
	rowSubjectChange
	rowClassroomChange
	rowMoreTeachers
	rowReservations
	rowIgnore
)

// Header signatures as the source prints them. A row equal to one of these
// switches state and is discarded.
var (
	headerSubstitutions   = []string{"ODSOTNI UČITELJ/ICA", "URA", "RAZRED", "UČILNICA", "NADOMEŠČA", "PREDMET", "OPOMBA"}
	headerLessonChange    = []string{"RAZRED", "URA", "UČITELJ/ICA", "PREDMETA", "UČILNICA", "OPOMBA"}
	headerSubjectChange   = []string{"RAZRED", "URA", "UČITELJ", "PREDMET", "UČILNICA", "OPOMBA"}
	headerClassroomChange = []string{"RAZRED", "URA", "UČITELJ/ICA", "PREDMET", "IZ UČILNICE", "V UČILNICO", "OPOMBA"}
	headerMoreTeachers    = []string{"URA", "UČITELJ", "RAZRED", "UČILNICA", "OPOMBA"}
	headerReservations    = []string{"URA", "UČILNICA", "REZERVIRAL/A", "OPOMBA"}
)

// Section banners that introduce free-form announcement blocks.
var bannerMarkers = []string{"Oddelek", "Razred", "dijaki"}

// Substitutions runs the row-classification state machine over the extracted
// tables of one substitutions document and returns deduplicated candidates.
// A data row whose time slot is not "PU" or a lesson ordinal fails the whole
// document.
func Substitutions(tables []tabular.Table, effective time.Time) ([]Substitution, error) {
	day := isoWeekday(effective)

	var out []Substitution
	state := rowNone
	lastOriginalTeacher := ""

	for _, table := range tables {
		for _, raw := range table {
			row := tabular.CleanRow(raw)

			if next, ok := headerState(row); ok {
				state = next
				continue
			}
			if len(row) > 0 && containsAny(row[0], bannerMarkers) {
				state = rowIgnore
				continue
			}

			// Data rows always carry the time slot in the second column.
			if !anyFilled(row) || len(row) < 2 || row[1] == "" {
				continue
			}

			// Only states that produce rows need the slot parsed.
			var slot int
			switch state {
			case rowSubstitutions, rowLessonChange, rowSubjectChange, rowClassroomChange:
				var err error
				if slot, err = timeSlot(row[1]); err != nil {
					return nil, err
				}
			}

			switch state {
			case rowSubstitutions:
				if len(row) < 7 {
					continue
				}
				originalTeacher := lastOriginalTeacher
				if row[0] != "" {
					originalTeacher = normalize.Teacher(row[0])
				}
				lastOriginalTeacher = originalTeacher

				teacher := normalize.Teacher(row[4])
				classrooms := normalizeList(row[3], normalize.Classroom)
				classes := splitClasses(row[2])

				for _, class := range classes {
					for _, classroom := range classrooms {
						out = append(out, Substitution{
							Date:              effective,
							Day:               day,
							TimeSlot:          slot,
							Subject:           normalize.Subject(row[5]),
							Notes:             normalize.Other(row[6]),
							OriginalTeacher:   originalTeacher,
							OriginalClassroom: classroom,
							Class:             class,
							NewTeacher:        teacher,
							NewClassroom:      classroom,
						})
					}
				}

			case rowLessonChange:
				if len(row) < 6 {
					continue
				}
				originalTeacher, teacher := splitArrow(row[2])
				originalClassrooms, classrooms := splitArrowLists(row[4])
				_, subject := splitArrow(row[3])
				classes := splitClasses(row[0])

				for _, class := range classes {
					for _, originalClassroom := range originalClassrooms {
						for _, classroom := range classrooms {
							out = append(out, Substitution{
								Date:              effective,
								Day:               day,
								TimeSlot:          slot,
								Subject:           normalize.Subject(subject),
								Notes:             normalize.Other(row[5]),
								OriginalTeacher:   normalize.Teacher(originalTeacher),
								OriginalClassroom: originalClassroom,
								Class:             class,
								NewTeacher:        normalize.Teacher(teacher),
								NewClassroom:      classroom,
							})
						}
					}
				}

			case rowSubjectChange:
				if len(row) < 6 {
					continue
				}
				teacher := normalize.Teacher(row[2])
				classroom := normalize.Classroom(row[4])
				_, subject := splitArrow(row[3])

				for _, class := range splitClasses(row[0]) {
					out = append(out, Substitution{
						Date:              effective,
						Day:               day,
						TimeSlot:          slot,
						Subject:           normalize.Subject(subject),
						Notes:             normalize.Other(row[5]),
						OriginalTeacher:   teacher,
						OriginalClassroom: classroom,
						Class:             class,
						NewTeacher:        teacher,
						NewClassroom:      classroom,
					})
				}

			case rowClassroomChange:
				if len(row) < 7 {
					continue
				}
				teacher := normalize.Teacher(row[2])
				originalClassrooms := normalizeList(row[4], normalize.Classroom)
				classrooms := normalizeList(row[5], normalize.Classroom)

				for _, class := range splitClasses(row[0]) {
					for _, originalClassroom := range originalClassrooms {
						for _, classroom := range classrooms {
							out = append(out, Substitution{
								Date:              effective,
								Day:               day,
								TimeSlot:          slot,
								Subject:           normalize.Subject(row[3]),
								Notes:             normalize.Other(row[6]),
								OriginalTeacher:   teacher,
								OriginalClassroom: originalClassroom,
								Class:             class,
								NewTeacher:        teacher,
								NewClassroom:      classroom,
							})
						}
					}
				}

			case rowMoreTeachers, rowReservations, rowIgnore, rowNone:
				// Extra-teacher and reservation rows do not translate into
				// substitutions; announcement blocks are skipped wholesale.
			}
		}
	}

	return Dedup(out), nil
}

// Dedup removes exact-duplicate candidates while preserving order. Cartesian
// expansion can legitimately produce repeats.
func Dedup(subs []Substitution) []Substitution {
	seen := make(map[Substitution]struct{}, len(subs))
	out := subs[:0]
	for _, s := range subs {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func headerState(row []string) (rowKind, bool) {
	switch {
	case equalRow(row, headerSubstitutions):
		return rowSubstitutions, true
	case equalRow(row, headerLessonChange):
		return rowLessonChange, true
	case equalRow(row, headerSubjectChange):
		return rowSubjectChange, true
	case equalRow(row, headerClassroomChange):
		return rowClassroomChange, true
	case equalRow(row, headerMoreTeachers):
		return rowMoreTeachers, true
	case equalRow(row, headerReservations):
		return rowReservations, true
	}
	return rowNone, false
}

func equalRow(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func anyFilled(row []string) bool {
	for _, cell := range row {
		if cell != "" {
			return true
		}
	}
	return false
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}

// timeSlot parses the lesson ordinal from its "N." form. The pre-lessons
// slot is printed as "PU" and maps to 0.
func timeSlot(cell string) (int, error) {
	if cell == "PU" {
		return 0, nil
	}
	n, err := strconv.Atoi(strings.TrimSuffix(cell, "."))
	if err != nil {
		return 0, appErrors.Clone(appErrors.ErrSubstitutionsFormat, "unexpected time slot: "+cell)
	}
	return n, nil
}

// splitClasses breaks a class-range cell ("1. A - 1. B -") into class names.
// The source terminates ranges with a separator, leaving a trailing empty
// element that is dropped.
func splitClasses(cell string) []string {
	classes := strings.Split(strings.ReplaceAll(cell, ". ", ""), " - ")
	if len(classes) > 1 && classes[len(classes)-1] == "" {
		classes = classes[:len(classes)-1]
	}
	return classes
}

// normalizeList splits a comma-separated cell and normalizes each element.
func normalizeList(cell string, norm func(string) string) []string {
	parts := strings.Split(cell, ", ")
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = norm(p)
	}
	return out
}

// splitArrow splits an "old → new" cell. A cell without the separator means
// the value did not change.
func splitArrow(cell string) (string, string) {
	parts := strings.SplitN(cell, " → ", 2)
	if len(parts) == 1 {
		return parts[0], parts[0]
	}
	return parts[0], parts[1]
}

// splitArrowLists splits an "old → new" cell whose sides are comma-separated
// classroom lists. Without the separator both sides are the same list.
func splitArrowLists(cell string) ([]string, []string) {
	parts := strings.SplitN(cell, " → ", 2)
	original := normalizeList(parts[0], normalize.Classroom)
	if len(parts) == 1 {
		return original, original
	}
	return original, normalizeList(parts[1], normalize.Classroom)
}

func isoWeekday(date time.Time) int {
	weekday := int(date.Weekday())
	if weekday == 0 {
		return 7
	}
	return weekday
}
