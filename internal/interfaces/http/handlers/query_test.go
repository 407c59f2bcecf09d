package handlers

import (
	"testing"
	"time"

	"github.com/PavaniTiago/leads-intelligence-api/internal/domain/entities"
	"github.com/PavaniTiago/leads-intelligence-api/internal/domain/status"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestSplitList(t *testing.T) {
	assert.Nil(t, splitList(""))
	assert.Nil(t, splitList("  "))
	assert.Equal(t, []string{"Fechou", "Não Fechou"}, splitList("Fechou, Não Fechou,,"))
}

func TestParseDay(t *testing.T) {
	sp := time.FixedZone("BRT", -3*60*60)

	d, err := parseDay("2025-03-01", sp)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, sp), d)

	d, err = parseDay("2025-03-01T02:00:00Z", sp)
	require.NoError(t, err)
	assert.Equal(t, 28, d.Day())

	d, err = parseDay("", sp)
	require.NoError(t, err)
	assert.True(t, d.IsZero())

	_, err = parseDay("01/03/2025", sp)
	assert.Error(t, err)
}

func TestWriteLeadsXLSX(t *testing.T) {
	date := time.Date(2025, 3, 3, 15, 0, 0, 0, time.UTC)
	leads := []entities.Lead{
		{Sequence: 1, Name: "Ana", Status: "Fechou", FullSaleAmount: 1500, Date: &date},
		{Sequence: 2, Name: "Beto", RawDate: "ontem", Status: "Agendado"},
		{Sequence: 3, Name: "Caio", Status: "Fechado!!"},
	}

	var unknown []string
	classifier := status.NewClassifier(func(raw, _ string) { unknown = append(unknown, raw) })

	buf, err := WriteLeadsXLSX(leads, time.UTC, classifier)
	require.NoError(t, err)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(leadsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "Sequência", rows[0][0])
	assert.Equal(t, "03/03/2025", rows[1][1])
	assert.Equal(t, "ontem", rows[2][1])
	assert.Equal(t, "pendingService", rows[2][7])
	assert.Equal(t, "closed", rows[1][7])
	assert.Equal(t, "pendingService", rows[3][7])
	assert.Equal(t, []string{"Fechado!!"}, unknown)
}
