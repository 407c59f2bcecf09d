package ingestion

import (
	"errors"

	"github.com/PavaniTiago/leads-intelligence-api/internal/domain/entities"
)

var (
	// ErrNotArray indica que o payload não é uma lista de registros.
	ErrNotArray = errors.New("payload is not an array of records")
	// ErrEmptyBatch indica um lote sem registros.
	ErrEmptyBatch = errors.New("empty batch")
)

// ErrorKind classifica um erro de linha.
type ErrorKind string

const (
	KindMalformedRow    ErrorKind = "malformed_row"
	KindPanic           ErrorKind = "panic"
	KindInvalidLead     ErrorKind = "invalid_lead"
	KindUnparseableDate ErrorKind = "unparseable_date"
)

// RowError descreve um problema em uma linha do lote. Index é 0-based.
type RowError struct {
	Index   int       `json:"index"`
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
	Payload any       `json:"payload,omitempty"`
}

// Result é a saída de uma ingestão: leads retidos, contadores e erros por linha.
type Result struct {
	SessionID    string          `json:"session_id"`
	Leads        []entities.Lead `json:"-"`
	Total        int             `json:"total"`
	Retained     int             `json:"retained"`
	Dropped      int             `json:"dropped"`
	Failed       int             `json:"failed"`
	DateFailures int             `json:"date_failures"`
	Errors       []RowError      `json:"errors,omitempty"`
}

// ErrorsOfKind filtra os erros de linha por tipo.
func (r Result) ErrorsOfKind(kind ErrorKind) []RowError {
	var out []RowError
	for _, e := range r.Errors {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

func (r *Result) addError(index int, kind ErrorKind, msg string, payload any) {
	r.Errors = append(r.Errors, RowError{Index: index, Kind: kind, Message: msg, Payload: payload})
}
