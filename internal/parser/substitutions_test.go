package parser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gimvic/schedule-sync/internal/dateutil"
	"github.com/gimvic/schedule-sync/internal/tabular"
)

var monday = dateutil.Date(2024, time.March, 4)

func TestSubstitutionsPlainRow(t *testing.T) {
	tables := []tabular.Table{{
		{"ODSOTNI UČITELJ/ICA", "URA", "RAZRED", "UČILNICA", "NADOMEŠČA", "PREDMET", "OPOMBA"},
		{"Novak", "3.", "1A - 1B -", "U12", "Kranjc", "MAT", "/"},
	}}

	subs, err := Substitutions(tables, monday)
	require.NoError(t, err)
	require.Len(t, subs, 2)

	want := Substitution{
		Date:              monday,
		Day:               1,
		TimeSlot:          3,
		Subject:           "MAT",
		Notes:             "",
		OriginalTeacher:   "Novak",
		OriginalClassroom: "U12",
		Class:             "1A",
		NewTeacher:        "Kranjc",
		NewClassroom:      "U12",
	}
	assert.Equal(t, want, subs[0])

	want.Class = "1B"
	assert.Equal(t, want, subs[1])
}

func TestSubstitutionsCartesianExpansion(t *testing.T) {
	tables := []tabular.Table{{
		{"ODSOTNI UČITELJ/ICA", "URA", "RAZRED", "UČILNICA", "NADOMEŠČA", "PREDMET", "OPOMBA"},
		{"Novak", "2.", "2A - 2B -", "U1, U2, U3", "Kranjc", "FIZ", "X"},
	}}

	subs, err := Substitutions(tables, monday)
	require.NoError(t, err)
	assert.Len(t, subs, 6)
}

func TestSubstitutionsCarryForward(t *testing.T) {
	tables := []tabular.Table{{
		{"ODSOTNI UČITELJ/ICA", "URA", "RAZRED", "UČILNICA", "NADOMEŠČA", "PREDMET", "OPOMBA"},
		{"Novak", "1.", "1A", "U12", "Kranjc", "MAT", "/"},
		{"", "2.", "1A", "U12", "Kranjc", "MAT", "/"},
	}}

	subs, err := Substitutions(tables, monday)
	require.NoError(t, err)
	require.Len(t, subs, 2)
	assert.Equal(t, "Novak", subs[1].OriginalTeacher)
	assert.Equal(t, 2, subs[1].TimeSlot)
}

func TestSubstitutionsPreLessonsSlot(t *testing.T) {
	tables := []tabular.Table{{
		{"ODSOTNI UČITELJ/ICA", "URA", "RAZRED", "UČILNICA", "NADOMEŠČA", "PREDMET", "OPOMBA"},
		{"Novak", "PU", "1A", "U12", "Kranjc", "MAT", "/"},
	}}

	subs, err := Substitutions(tables, monday)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, 0, subs[0].TimeSlot)
}

func TestSubstitutionsLessonChange(t *testing.T) {
	tables := []tabular.Table{{
		{"RAZRED", "URA", "UČITELJ/ICA", "PREDMETA", "UČILNICA", "OPOMBA"},
		{"3A", "4.", "Novak → Kranjc", "MAT → FIZ", "U1 → U2", ""},
	}}

	subs, err := Substitutions(tables, monday)
	require.NoError(t, err)
	require.Len(t, subs, 1)

	s := subs[0]
	assert.Equal(t, "Novak", s.OriginalTeacher)
	assert.Equal(t, "Kranjc", s.NewTeacher)
	assert.Equal(t, "FIZ", s.Subject)
	assert.Equal(t, "U1", s.OriginalClassroom)
	assert.Equal(t, "U2", s.NewClassroom)
}

func TestSubstitutionsLessonChangeSameClassroom(t *testing.T) {
	tables := []tabular.Table{{
		{"RAZRED", "URA", "UČITELJ/ICA", "PREDMETA", "UČILNICA", "OPOMBA"},
		{"3A", "4.", "Novak → Kranjc", "MAT → FIZ", "U1", ""},
	}}

	subs, err := Substitutions(tables, monday)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "U1", subs[0].OriginalClassroom)
	assert.Equal(t, "U1", subs[0].NewClassroom)
}

func TestSubstitutionsSubjectChange(t *testing.T) {
	tables := []tabular.Table{{
		{"RAZRED", "URA", "UČITELJ", "PREDMET", "UČILNICA", "OPOMBA"},
		{"2B", "5.", "Novak", "MAT → SLO", "U7", "test"},
	}}

	subs, err := Substitutions(tables, monday)
	require.NoError(t, err)
	require.Len(t, subs, 1)

	s := subs[0]
	assert.Equal(t, "SLO", s.Subject)
	assert.Equal(t, "Novak", s.OriginalTeacher)
	assert.Equal(t, "Novak", s.NewTeacher)
	assert.Equal(t, "test", s.Notes)
}

func TestSubstitutionsClassroomChange(t *testing.T) {
	tables := []tabular.Table{{
		{"RAZRED", "URA", "UČITELJ/ICA", "PREDMET", "IZ UČILNICE", "V UČILNICO", "OPOMBA"},
		{"1C", "6.", "Novak", "KEM", "U3", "Velika telovadnica", ""},
	}}

	subs, err := Substitutions(tables, monday)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "U3", subs[0].OriginalClassroom)
	assert.Equal(t, "TV1", subs[0].NewClassroom)
}

func TestSubstitutionsBannerSwitchesToIgnore(t *testing.T) {
	tables := []tabular.Table{{
		{"ODSOTNI UČITELJ/ICA", "URA", "RAZRED", "UČILNICA", "NADOMEŠČA", "PREDMET", "OPOMBA"},
		{"Novak", "1.", "1A", "U12", "Kranjc", "MAT", "/"},
		{"Oddelek 2A ima pouk doma", "x", "", "", "", "", ""},
		{"ignored", "2.", "1A", "U12", "Kranjc", "MAT", "/"},
	}}

	subs, err := Substitutions(tables, monday)
	require.NoError(t, err)
	assert.Len(t, subs, 1)
}

func TestSubstitutionsDedup(t *testing.T) {
	tables := []tabular.Table{{
		{"ODSOTNI UČITELJ/ICA", "URA", "RAZRED", "UČILNICA", "NADOMEŠČA", "PREDMET", "OPOMBA"},
		{"Novak", "1.", "1A", "U12", "Kranjc", "MAT", "/"},
		{"Novak", "1.", "1A", "U12", "Kranjc", "MAT", "/"},
	}}

	subs, err := Substitutions(tables, monday)
	require.NoError(t, err)
	assert.Len(t, subs, 1)
}

func TestSubstitutionsReservationRowsIgnored(t *testing.T) {
	tables := []tabular.Table{{
		{"URA", "UČILNICA", "REZERVIRAL/A", "OPOMBA"},
		{"3.", "U12", "Novak", "sestanek"},
	}}

	subs, err := Substitutions(tables, monday)
	require.NoError(t, err)
	assert.Empty(t, subs)
}

func TestSubstitutionsMalformedTimeSlotFails(t *testing.T) {
	tables := []tabular.Table{{
		{"ODSOTNI UČITELJ/ICA", "URA", "RAZRED", "UČILNICA", "NADOMEŠČA", "PREDMET", "OPOMBA"},
		{"Novak", "druga", "1A", "U12", "Kranjc", "MAT", "/"},
	}}

	_, err := Substitutions(tables, monday)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected time slot")
}

func TestSplitClasses(t *testing.T) {
	assert.Equal(t, []string{"1A", "1B"}, splitClasses("1. A - 1. B -"))
	assert.Equal(t, []string{"1A"}, splitClasses("1. A"))
	assert.Equal(t, []string{"2A", "2B"}, splitClasses("2A - 2B"))
}
