package parser

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	appErrors "github.com/gimvic/schedule-sync/pkg/errors"
)

// The timetable is published as a JavaScript literal of
// `podatki[index][field] = "value"` assignments.
var timetableAssignRe = regexp.MustCompile(`podatki\[(\d+)]\[\d+] = "?([^"\n]*)"?`)

// Field positions inside one grouped assignment row.
const (
	ttClass     = 1
	ttTeacher   = 2
	ttSubject   = 3
	ttClassroom = 4
	ttDay       = 5
	ttTime      = 6
)

// Timetable parses the timetable JS dump into weekly lesson slots. Names are
// kept raw: the dump is the authority for canonical timetable names.
func Timetable(raw string) ([]Lesson, error) {
	matches := timetableAssignRe.FindAllStringSubmatch(raw, -1)
	if len(matches) == 0 {
		return nil, appErrors.Clone(appErrors.ErrParseFailed, "no timetable assignments found")
	}

	grouped := make(map[int][]string)
	var order []int
	for _, match := range matches {
		index, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}
		if _, ok := grouped[index]; !ok {
			order = append(order, index)
		}
		grouped[index] = append(grouped[index], strings.TrimSpace(match[2]))
	}
	sort.Ints(order)

	lessons := make([]Lesson, 0, len(order))
	for _, index := range order {
		fields := grouped[index]
		if len(fields) <= ttTime {
			return nil, appErrors.Clone(appErrors.ErrParseFailed, "incomplete timetable row "+strconv.Itoa(index))
		}

		day, err := strconv.Atoi(fields[ttDay])
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrParseFailed.Code, appErrors.ErrParseFailed.Status, "invalid timetable day")
		}
		slot, err := strconv.Atoi(fields[ttTime])
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrParseFailed.Code, appErrors.ErrParseFailed.Status, "invalid timetable slot")
		}

		lessons = append(lessons, Lesson{
			Day:       day,
			TimeSlot:  slot,
			Subject:   fields[ttSubject],
			Class:     fields[ttClass],
			Teacher:   fields[ttTeacher],
			Classroom: fields[ttClassroom],
		})
	}

	return lessons, nil
}
