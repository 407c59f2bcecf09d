package entities

import "time"

// DateRange é o intervalo de datas aplicado pelos filtros. Limites zero significam "sem limite".
type DateRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// IsZero informa se nenhum dos limites foi definido
func (r DateRange) IsZero() bool {
	return r.From.IsZero() && r.To.IsZero()
}

// StatusFilter contém listas de inclusão. Lista vazia não restringe o eixo.
type StatusFilter struct {
	Status []string `json:"status,omitempty"`
	Closer []string `json:"closer,omitempty"`
	Origin []string `json:"origin,omitempty"`
}
