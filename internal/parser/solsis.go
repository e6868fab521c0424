package parser

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gimvic/schedule-sync/internal/normalize"
)

// SolsisPayload is one date's substitution feed from the signed API.
type SolsisPayload struct {
	Absences         []solsisAbsence   `json:"nadomescanja"`
	SubjectChanges   []solsisChange    `json:"menjava_predmeta"`
	LessonChanges    []solsisSwap      `json:"menjava_ur"`
	ClassroomChanges []solsisRoomsMove `json:"menjava_ucilnic"`
}

type solsisAbsence struct {
	AbsentTeacher string         `json:"odsoten_fullname"`
	Lessons       []solsisLesson `json:"nadomescanja_ure"`
}

type solsisLesson struct {
	Hour       string `json:"ura"`
	Subject    string `json:"predmet"`
	Notes      string `json:"opomba"`
	NewTeacher string `json:"nadomesca_full_name"`
	Classroom  string `json:"ucilnica"`
	ClassName  string `json:"class_name"`
}

type solsisChange struct {
	Hour      string `json:"ura"`
	Subject   string `json:"predmet"`
	Notes     string `json:"opomba"`
	Teacher   string `json:"ucitelj"`
	Classroom string `json:"ucilnica"`
	ClassName string `json:"class_name"`
}

type solsisSwap struct {
	Hour      string `json:"ura"`
	Subject   string `json:"predmet"`
	Notes     string `json:"opomba"`
	Teachers  string `json:"zamenjava_uciteljev"`
	Classroom string `json:"ucilnica"`
	ClassName string `json:"class_name"`
}

type solsisRoomsMove struct {
	Hour          string `json:"ura"`
	Subject       string `json:"predmet"`
	Notes         string `json:"opomba"`
	Teacher       string `json:"ucitelj"`
	ClassroomFrom string `json:"ucilnica_from"`
	ClassroomTo   string `json:"ucilnica_to"`
	ClassName     string `json:"class_name"`
}

// The signed API separates old/new pairs with an ASCII arrow.
const solsisArrow = " -> "

// SolsisSubstitutions decodes one date's payload and expands every category
// into substitution candidates. An empty (date-only) payload yields nil.
func SolsisSubstitutions(raw []byte, date time.Time) ([]Substitution, error) {
	// The API returns only the date when there is nothing scheduled.
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	if _, ok := probe["nadomescanja"]; !ok {
		return nil, nil
	}

	var payload SolsisPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}

	day := isoWeekday(date)
	var out []Substitution

	for _, absence := range payload.Absences {
		originalTeacher := normalize.Teacher(absence.AbsentTeacher)

		for _, lesson := range absence.Lessons {
			slot, err := timeSlot(lesson.Hour)
			if err != nil {
				return nil, err
			}
			teacher := normalize.Teacher(lesson.NewTeacher)
			classrooms := normalizeList(lesson.Classroom, normalize.Classroom)

			for _, class := range splitClasses(lesson.ClassName) {
				for _, classroom := range classrooms {
					out = append(out, Substitution{
						Date:              date,
						Day:               day,
						TimeSlot:          slot,
						Subject:           normalize.Subject(lesson.Subject),
						Notes:             normalize.Other(lesson.Notes),
						OriginalTeacher:   originalTeacher,
						OriginalClassroom: classroom,
						Class:             class,
						NewTeacher:        teacher,
						NewClassroom:      classroom,
					})
				}
			}
		}
	}

	for _, change := range payload.SubjectChanges {
		slot, err := timeSlot(change.Hour)
		if err != nil {
			return nil, err
		}
		teacher := normalize.Teacher(change.Teacher)
		classrooms := normalizeList(change.Classroom, normalize.Classroom)

		for _, class := range splitClasses(change.ClassName) {
			for _, classroom := range classrooms {
				out = append(out, Substitution{
					Date:              date,
					Day:               day,
					TimeSlot:          slot,
					Subject:           normalize.Subject(change.Subject),
					Notes:             normalize.Other(change.Notes),
					OriginalTeacher:   teacher,
					OriginalClassroom: classroom,
					Class:             class,
					NewTeacher:        teacher,
					NewClassroom:      classroom,
				})
			}
		}
	}

	for _, swap := range payload.LessonChanges {
		slot, err := timeSlot(swap.Hour)
		if err != nil {
			return nil, err
		}
		subject := arrowSecond(swap.Subject)
		originalTeacher, teacher := arrowPair(swap.Teachers)

		roomSides := strings.SplitN(swap.Classroom, solsisArrow, 2)
		originalClassrooms := normalizeList(roomSides[0], normalize.Classroom)
		classrooms := originalClassrooms
		if len(roomSides) == 2 {
			classrooms = normalizeList(roomSides[1], normalize.Classroom)
		}

		for _, class := range splitClasses(swap.ClassName) {
			for _, originalClassroom := range originalClassrooms {
				for _, classroom := range classrooms {
					out = append(out, Substitution{
						Date:              date,
						Day:               day,
						TimeSlot:          slot,
						Subject:           normalize.Subject(subject),
						Notes:             normalize.Other(swap.Notes),
						OriginalTeacher:   normalize.Teacher(originalTeacher),
						OriginalClassroom: originalClassroom,
						Class:             class,
						NewTeacher:        normalize.Teacher(teacher),
						NewClassroom:      classroom,
					})
				}
			}
		}
	}

	for _, move := range payload.ClassroomChanges {
		slot, err := timeSlot(move.Hour)
		if err != nil {
			return nil, err
		}
		teacher := normalize.Teacher(move.Teacher)
		originalClassrooms := normalizeList(move.ClassroomFrom, normalize.Classroom)
		classrooms := normalizeList(move.ClassroomTo, normalize.Classroom)

		// Some feed entries repeat the same room on both sides; those are
		// not real moves.
		if equalRow(originalClassrooms, classrooms) {
			continue
		}

		for _, class := range splitClasses(move.ClassName) {
			for _, originalClassroom := range originalClassrooms {
				for _, classroom := range classrooms {
					out = append(out, Substitution{
						Date:              date,
						Day:               day,
						TimeSlot:          slot,
						Subject:           normalize.Subject(move.Subject),
						Notes:             normalize.Other(move.Notes),
						OriginalTeacher:   teacher,
						OriginalClassroom: originalClassroom,
						Class:             class,
						NewTeacher:        teacher,
						NewClassroom:      classroom,
					})
				}
			}
		}
	}

	return Dedup(out), nil
}

func arrowPair(cell string) (string, string) {
	parts := strings.SplitN(cell, solsisArrow, 2)
	if len(parts) == 1 {
		return parts[0], parts[0]
	}
	return parts[0], parts[1]
}

func arrowSecond(cell string) string {
	_, second := arrowPair(cell)
	return second
}
