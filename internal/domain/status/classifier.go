// Package status concentra a única tabela de classificação de status do funil.
package status

import (
	"strings"
	"sync"

	"github.com/PavaniTiago/leads-intelligence-api/internal/domain/entities"
	"github.com/schollz/closestmatch"
)

// Status conhecidos, exatamente como chegam do webhook.
const (
	Fechou             = "Fechou"
	Agendado           = "Agendado"
	Confirmado         = "Confirmado"
	Remarcou           = "Remarcou"
	DCAusente          = "DCAUSENTE"
	NaoFechou          = "Não Fechou"
	AguardandoResposta = "Aguardando resposta"
	Desmarcou          = "Desmarcou"
	NaoApareceu        = "Não Apareceu"
	NumeroErrado       = "Número errado"
	Mentorado          = "Mentorado"
)

var table = map[string]entities.StatusGroup{
	Fechou:             entities.GroupClosed,
	Agendado:           entities.GroupPendingService,
	Confirmado:         entities.GroupPendingService,
	Remarcou:           entities.GroupPendingService,
	DCAusente:          entities.GroupPendingService,
	NaoFechou:          entities.GroupServicedNotClosed,
	AguardandoResposta: entities.GroupServicedNotClosed,
	Desmarcou:          entities.GroupLostOrInactive,
	NaoApareceu:        entities.GroupLostOrInactive,
	NumeroErrado:       entities.GroupLostOrInactive,
	Mentorado:          entities.GroupMentee,
}

// DefaultGroup recebe status vazios e desconhecidos.
const DefaultGroup = entities.GroupPendingService

// UnknownFunc é chamada para cada status não reconhecido, com a sugestão mais próxima da tabela.
type UnknownFunc func(raw, suggestion string)

// Classifier mapeia status livres para grupos do funil.
type Classifier struct {
	onUnknown UnknownFunc

	once    sync.Once
	matcher *closestmatch.ClosestMatch
}

// NewClassifier cria um classificador. onUnknown pode ser nil.
func NewClassifier(onUnknown UnknownFunc) *Classifier {
	return &Classifier{onUnknown: onUnknown}
}

// Classify devolve o grupo do status, usando DefaultGroup para vazio ou desconhecido.
func (c *Classifier) Classify(raw string) entities.StatusGroup {
	g, _ := c.Lookup(raw)
	return g
}

// Lookup devolve o grupo e se o status foi reconhecido. Status vazio conta como reconhecido.
func (c *Classifier) Lookup(raw string) (entities.StatusGroup, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return DefaultGroup, true
	}
	if g, ok := table[s]; ok {
		return g, true
	}
	if c != nil && c.onUnknown != nil {
		c.onUnknown(s, c.Suggest(s))
	}
	return DefaultGroup, false
}

// Suggest devolve o status conhecido mais parecido com s.
func (c *Classifier) Suggest(s string) string {
	if c == nil {
		return ""
	}
	c.once.Do(func() {
		c.matcher = closestmatch.New(Known(), []int{2, 3})
	})
	return c.matcher.Closest(s)
}

// Known lista os status da tabela.
func Known() []string {
	out := make([]string, 0, len(table))
	for s := range table {
		out = append(out, s)
	}
	return out
}

var defaultClassifier = NewClassifier(nil)

// Classify usa o classificador padrão, sem callback de status desconhecido.
func Classify(raw string) entities.StatusGroup {
	return defaultClassifier.Classify(raw)
}
