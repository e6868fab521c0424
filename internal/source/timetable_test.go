package source

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gimvic/schedule-sync/internal/models"
	"github.com/gimvic/schedule-sync/pkg/config"
)

func TestTimetableList(t *testing.T) {
	adapter := NewTimetable(config.TimetableConfig{URL: "http://host/urnik/podatki.js"})

	docs, err := adapter.List(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 1)

	assert.Equal(t, models.KindTimetable, docs[0].Kind)
	assert.Equal(t, "http://host/urnik/podatki.js", docs[0].URL)
	assert.True(t, adapter.NeedsParsing(docs[0]))
	assert.False(t, adapter.NeedsContentExtraction(docs[0]))

	date, err := adapter.EffectiveDate(docs[0])
	require.NoError(t, err)
	assert.Nil(t, date)
}

func TestTimetableParse(t *testing.T) {
	adapter := NewTimetable(config.TimetableConfig{URL: "http://host/urnik/podatki.js"})

	raw := `podatki[0][0] = "0";
podatki[0][1] = "1A";
podatki[0][2] = "Novak";
podatki[0][3] = "MAT";
podatki[0][4] = "U12";
podatki[0][5] = "1";
podatki[0][6] = "3";
`
	result, err := adapter.Parse(Descriptor{Kind: models.KindTimetable}, []byte(raw), nil)
	require.NoError(t, err)
	require.Len(t, result.Lessons, 1)
	assert.Equal(t, "1A", result.Lessons[0].Class)
	assert.Equal(t, 1, result.Lessons[0].Day)
	assert.Equal(t, 3, result.Lessons[0].TimeSlot)
}
