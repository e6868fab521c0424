package parser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gimvic/schedule-sync/internal/dateutil"
	"github.com/gimvic/schedule-sync/internal/tabular"
)

func TestSnackMenuPDF(t *testing.T) {
	effective := dateutil.Date(2024, time.March, 4)
	tables := []tabular.Table{{
		{"", "NV in N malica", "piščančja", "vegetarijanska", "sadje"},
		{"ponedeljek", "sendvič", "piščančji zrezek", "sirova štručka", "jabolko"},
		{"torek", "burek", "piščančja rulada", "zelenjavna lazanja", "banana"},
	}}

	menus := SnackMenuPDF(tables, effective)
	require.Len(t, menus, 2)

	assert.Equal(t, effective, menus[0].Date)
	assert.Equal(t, "sendvič", menus[0].Normal)
	assert.Equal(t, "piščančji zrezek", menus[0].Poultry)
	assert.Equal(t, "sirova štručka", menus[0].Vegetarian)
	assert.Equal(t, "jabolko", menus[0].FruitVegetable)

	assert.Equal(t, effective.AddDate(0, 0, 1), menus[1].Date)
	assert.Equal(t, "burek", menus[1].Normal)
}

func TestLunchMenuPDF(t *testing.T) {
	effective := dateutil.Date(2024, time.March, 4)
	tables := []tabular.Table{{
		{"", "N KOSILO", "VEG KOSILO"},
		{"ponedeljek", "golaž", "zelenjavni golaž"},
	}}

	menus := LunchMenuPDF(tables, effective)
	require.Len(t, menus, 1)
	assert.Equal(t, "golaž", menus[0].Normal)
	assert.Equal(t, "zelenjavni golaž", menus[0].Vegetarian)
}

func TestLunchMenuPDFSkipsEmptyRows(t *testing.T) {
	effective := dateutil.Date(2024, time.March, 4)
	tables := []tabular.Table{{
		{"opomba"},
		{"ponedeljek", "golaž", "zelenjavni golaž"},
	}}

	menus := LunchMenuPDF(tables, effective)
	require.Len(t, menus, 1)
	assert.Equal(t, effective, menus[0].Date)
}
