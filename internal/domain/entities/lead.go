package entities

import (
	"strings"
	"time"
)

// RawRecord é uma linha do webhook, com chaves arbitrárias (PT/EN, caixa variada).
type RawRecord map[string]any

// Lead é o registro canônico produzido pela ingestão.
// Sequence é a posição (1-based) da linha no lote de origem e não identifica o lead entre ingestões.
type Lead struct {
	Sequence        int        `json:"sequence"`
	RawDate         string     `json:"raw_date"`
	RawTime         string     `json:"raw_time"`
	Name            string     `json:"name"`
	Email           string     `json:"email"`
	Phone           string     `json:"phone"`
	Status          string     `json:"status"`
	Closer          string     `json:"closer"`
	Origin          string     `json:"origin"`
	FullSaleAmount  float64    `json:"full_sale_amount"`
	RecurringAmount float64    `json:"recurring_amount"`
	Date            *time.Time `json:"date,omitempty"`
}

// HasIdentity informa se o lead possui ao menos um campo identificador preenchido.
func (l Lead) HasIdentity() bool {
	return strings.TrimSpace(l.Name) != "" ||
		strings.TrimSpace(l.Email) != "" ||
		strings.TrimSpace(l.Phone) != "" ||
		strings.TrimSpace(l.Status) != ""
}

// HasRevenue informa se o lead carrega algum valor de venda.
func (l Lead) HasRevenue() bool {
	return l.FullSaleAmount > 0 || l.RecurringAmount > 0
}
