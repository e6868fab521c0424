package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const timetableJS = `
podatki[0][0] = "0";
podatki[0][1] = "1A";
podatki[0][2] = "Novak Janez";
podatki[0][3] = "MAT";
podatki[0][4] = "U12";
podatki[0][5] = "1";
podatki[0][6] = "3";
podatki[1][0] = "1";
podatki[1][1] = "2B";
podatki[1][2] = "Kranjc Ana";
podatki[1][3] = "";
podatki[1][4] = "U7";
podatki[1][5] = "2";
podatki[1][6] = "5";
`

func TestTimetable(t *testing.T) {
	lessons, err := Timetable(timetableJS)
	require.NoError(t, err)
	require.Len(t, lessons, 2)

	assert.Equal(t, Lesson{
		Day:       1,
		TimeSlot:  3,
		Subject:   "MAT",
		Class:     "1A",
		Teacher:   "Novak Janez",
		Classroom: "U12",
	}, lessons[0])

	assert.Equal(t, "", lessons[1].Subject)
	assert.Equal(t, 2, lessons[1].Day)
	assert.Equal(t, 5, lessons[1].TimeSlot)
}

func TestTimetableEmptyInput(t *testing.T) {
	_, err := Timetable("var nothing = 1;")
	require.Error(t, err)
}

func TestTimetableIncompleteRow(t *testing.T) {
	_, err := Timetable(`podatki[0][0] = "0";`)
	require.Error(t, err)
}
