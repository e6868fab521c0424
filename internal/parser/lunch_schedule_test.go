package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gimvic/schedule-sync/internal/tabular"
)

func TestLunchSchedulePlainRows(t *testing.T) {
	tables := []tabular.Table{{
		{"ura", "opombe", "razredi", "št. dijakov", "prostor"},
		{"12:10", "", "1A, 1B", "56", "jedilnica"},
		{"12.40", "po malici", "2A", "28", "jedilnica"},
	}}

	slots, err := LunchSchedule(tables)
	require.NoError(t, err)
	require.Len(t, slots, 3)

	assert.Equal(t, LunchSlot{Class: "1A", Time: "12:10", Location: "jedilnica"}, slots[0])
	assert.Equal(t, LunchSlot{Class: "1B", Time: "12:10", Location: "jedilnica"}, slots[1])
	assert.Equal(t, LunchSlot{Class: "2A", Time: "12:40", Location: "jedilnica", Notes: "po malici"}, slots[2])
}

func TestLunchScheduleSkipsInstructionTable(t *testing.T) {
	tables := []tabular.Table{{
		{"Dijaki prihajate v jedilnico ob določeni uri."},
	}}

	slots, err := LunchSchedule(tables)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestLunchScheduleGluedTimeAndNotes(t *testing.T) {
	tables := []tabular.Table{{
		{"razred", "x", "y", "z", "w"},
		{"12:10 po dogovoru", "", "3A", "", "jedilnica"},
	}}

	slots, err := LunchSchedule(tables)
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, "12:10", slots[0].Time)
	assert.Equal(t, "po dogovoru", slots[0].Notes)
}

func TestLunchScheduleTimePrefixStripped(t *testing.T) {
	tables := []tabular.Table{{
		{"razred", "x", "y", "z", "w"},
		{"cca 13.05", "malica", "4B", "", "jedilnica"},
	}}

	slots, err := LunchSchedule(tables)
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, "13:05", slots[0].Time)
	assert.Equal(t, "malica", slots[0].Notes)
}

func TestLunchScheduleSkipsDeregistrationRows(t *testing.T) {
	tables := []tabular.Table{{
		{"razred", "x", "y", "z", "w"},
		{"odj. do 8:00", "", "1A", "", ""},
	}}

	slots, err := LunchSchedule(tables)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestLunchScheduleWholeYearShorthand(t *testing.T) {
	tables := []tabular.Table{{
		{"razred", "x", "y", "z", "w"},
		{"12:10", "", "2. l", "", "jedilnica"},
	}}

	slots, err := LunchSchedule(tables)
	require.NoError(t, err)
	require.Len(t, slots, 6)
	assert.Equal(t, "2A", slots[0].Class)
	assert.Equal(t, "2F", slots[5].Class)
}

func TestLunchScheduleInvalidTimeFails(t *testing.T) {
	tables := []tabular.Table{{
		{"razred", "x", "y", "z", "w"},
		{"ob zvonjenju", "pozor", "1A", "", ""},
	}}

	_, err := LunchSchedule(tables)
	require.Error(t, err)
}
