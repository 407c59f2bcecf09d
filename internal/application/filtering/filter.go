// Package filtering aplica intervalo de datas e listas de inclusão sobre leads já ingeridos.
package filtering

import (
	"time"

	"github.com/PavaniTiago/leads-intelligence-api/internal/domain/dates"
	"github.com/PavaniTiago/leads-intelligence-api/internal/domain/entities"
	"github.com/PavaniTiago/leads-intelligence-api/internal/domain/fields"
	"github.com/PavaniTiago/leads-intelligence-api/internal/utils"
	"github.com/jinzhu/now"
)

// Options controla a política de datas.
type Options struct {
	// Temporal exclui leads sem data válida (séries por dia/hora).
	// Fora desse modo esses leads são mantidos.
	Temporal bool
	// Location define o início e o fim de cada dia do intervalo. nil usa America/Sao_Paulo.
	Location *time.Location
}

// Apply filtra os leads preservando a ordem de entrada.
func Apply(leads []entities.Lead, dr entities.DateRange, sf entities.StatusFilter, opts Options) []entities.Lead {
	loc := opts.Location
	if loc == nil {
		loc = utils.GetBrasilLocation()
	}

	from, to := bounds(dr, loc)
	statuses := newSet(sf.Status)
	closers := newSet(sf.Closer)
	origins := newSet(sf.Origin)

	out := make([]entities.Lead, 0, len(leads))
	for _, lead := range leads {
		if !lead.HasIdentity() {
			continue
		}
		if !statuses.allows(lead.Status) || !closers.allows(lead.Closer) || !origins.allows(lead.Origin) {
			continue
		}

		date := validDate(lead)
		if date == nil {
			if opts.Temporal {
				continue
			}
			out = append(out, lead)
			continue
		}
		if !from.IsZero() && date.Before(from) {
			continue
		}
		if !to.IsZero() && date.After(to) {
			continue
		}
		out = append(out, lead)
	}
	return out
}

// validDate revalida a janela de anos; datas fora dela contam como ausentes.
func validDate(lead entities.Lead) *time.Time {
	if lead.Date == nil || lead.Date.IsZero() || !dates.InWindow(*lead.Date) {
		return nil
	}
	return lead.Date
}

func bounds(dr entities.DateRange, loc *time.Location) (from, to time.Time) {
	if !dr.From.IsZero() {
		from = now.With(inDay(dr.From, loc)).BeginningOfDay()
	}
	if !dr.To.IsZero() {
		to = now.With(inDay(dr.To, loc)).EndOfDay()
	}
	return from, to
}

// inDay mantém o dia de calendário informado, trocando apenas o fuso.
func inDay(t time.Time, loc *time.Location) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

type set map[string]struct{}

func newSet(values []string) set {
	s := make(set, len(values))
	for _, v := range values {
		if k := fields.Fold(v); k != "" {
			s[k] = struct{}{}
		}
	}
	return s
}

// allows aceita tudo quando a lista está vazia. A comparação ignora caixa e acentos.
func (s set) allows(v string) bool {
	if len(s) == 0 {
		return true
	}
	_, ok := s[fields.Fold(v)]
	return ok
}
