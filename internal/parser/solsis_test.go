package parser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gimvic/schedule-sync/internal/dateutil"
)

func TestSolsisSubstitutionsAbsence(t *testing.T) {
	date := dateutil.Date(2024, time.March, 5)
	payload := []byte(`{
		"nadomescanja": [{
			"odsoten_fullname": "Novak Janez",
			"nadomescanja_ure": [{
				"ura": "3.",
				"predmet": "MAT",
				"opomba": "/",
				"nadomesca_full_name": "Kranjc Ana",
				"ucilnica": "U1, U2",
				"class_name": "1. A - 1. B -"
			}]
		}],
		"menjava_predmeta": [],
		"menjava_ur": [],
		"menjava_ucilnic": []
	}`)

	subs, err := SolsisSubstitutions(payload, date)
	require.NoError(t, err)
	require.Len(t, subs, 4)

	assert.Equal(t, date, subs[0].Date)
	assert.Equal(t, 2, subs[0].Day)
	assert.Equal(t, 3, subs[0].TimeSlot)
	assert.Equal(t, "Novak", subs[0].OriginalTeacher)
	assert.Equal(t, "Kranjc", subs[0].NewTeacher)
	assert.Equal(t, "", subs[0].Notes)
}

func TestSolsisSubstitutionsLessonChange(t *testing.T) {
	date := dateutil.Date(2024, time.March, 5)
	payload := []byte(`{
		"nadomescanja": [],
		"menjava_predmeta": [],
		"menjava_ur": [{
			"ura": "2.",
			"predmet": "MAT -> FIZ",
			"opomba": "",
			"zamenjava_uciteljev": "Novak -> Kranjc",
			"ucilnica": "U1 -> U2",
			"class_name": "2. A -"
		}],
		"menjava_ucilnic": []
	}`)

	subs, err := SolsisSubstitutions(payload, date)
	require.NoError(t, err)
	require.Len(t, subs, 1)

	s := subs[0]
	assert.Equal(t, "FIZ", s.Subject)
	assert.Equal(t, "Novak", s.OriginalTeacher)
	assert.Equal(t, "Kranjc", s.NewTeacher)
	assert.Equal(t, "U1", s.OriginalClassroom)
	assert.Equal(t, "U2", s.NewClassroom)
}

func TestSolsisSubstitutionsClassroomChangeNoMove(t *testing.T) {
	date := dateutil.Date(2024, time.March, 5)
	payload := []byte(`{
		"nadomescanja": [],
		"menjava_predmeta": [],
		"menjava_ur": [],
		"menjava_ucilnic": [{
			"ura": "4.",
			"predmet": "KEM",
			"opomba": "",
			"ucitelj": "Novak",
			"ucilnica_from": "U3",
			"ucilnica_to": "U3",
			"class_name": "1. C -"
		}]
	}`)

	subs, err := SolsisSubstitutions(payload, date)
	require.NoError(t, err)
	assert.Empty(t, subs)
}

func TestSolsisSubstitutionsEmptyPayload(t *testing.T) {
	subs, err := SolsisSubstitutions([]byte(`{"datum": "2024-03-05"}`), dateutil.Date(2024, time.March, 5))
	require.NoError(t, err)
	assert.Nil(t, subs)
}

func TestSolsisSubstitutionsMalformedPayload(t *testing.T) {
	_, err := SolsisSubstitutions([]byte(`not json`), dateutil.Date(2024, time.March, 5))
	require.Error(t, err)
}
