package status

import (
	"testing"

	"github.com/PavaniTiago/leads-intelligence-api/internal/domain/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyTable(t *testing.T) {
	tests := []struct {
		status string
		want   entities.StatusGroup
	}{
		{"Fechou", entities.GroupClosed},
		{"Agendado", entities.GroupPendingService},
		{"Confirmado", entities.GroupPendingService},
		{"Remarcou", entities.GroupPendingService},
		{"DCAUSENTE", entities.GroupPendingService},
		{"Não Fechou", entities.GroupServicedNotClosed},
		{"Aguardando resposta", entities.GroupServicedNotClosed},
		{"Desmarcou", entities.GroupLostOrInactive},
		{"Não Apareceu", entities.GroupLostOrInactive},
		{"Número errado", entities.GroupLostOrInactive},
		{"Mentorado", entities.GroupMentee},
		{"  Fechou  ", entities.GroupClosed},
		{"", entities.GroupPendingService},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.status))
		})
	}
}

func TestClassifyIsExactMatch(t *testing.T) {
	// "fechou" em minúsculas não é o status canônico
	c := NewClassifier(nil)
	g, known := c.Lookup("fechou")
	assert.False(t, known)
	assert.Equal(t, entities.GroupPendingService, g)
}

func TestClassifyUnknownEmitsWarning(t *testing.T) {
	var gotRaw, gotSuggestion string
	calls := 0
	c := NewClassifier(func(raw, suggestion string) {
		calls++
		gotRaw = raw
		gotSuggestion = suggestion
	})

	g := c.Classify("Vendido")
	assert.Equal(t, entities.GroupPendingService, g)
	require.Equal(t, 1, calls)
	assert.Equal(t, "Vendido", gotRaw)
	assert.Contains(t, Known(), gotSuggestion)

	c.Classify("")
	c.Classify("Fechou")
	assert.Equal(t, 1, calls)
}
