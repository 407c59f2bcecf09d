package ingestion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"runtime"
	"time"

	"github.com/PavaniTiago/leads-intelligence-api/internal/application/audit"
	"github.com/PavaniTiago/leads-intelligence-api/internal/domain/dates"
	"github.com/PavaniTiago/leads-intelligence-api/internal/domain/entities"
	"github.com/PavaniTiago/leads-intelligence-api/internal/domain/fields"
)

// DefaultChunkSize é o tamanho do bloco processado antes de ceder a vez.
const DefaultChunkSize = 50

// envelopeKeys são os membros aceitos quando o webhook embrulha a lista num objeto.
var envelopeKeys = []string{"data", "leads", "rows", "records"}

// Observer recebe contadores da ingestão (Prometheus em produção).
type Observer interface {
	RowOutcome(outcome string)
	DateStrategy(strategy string)
}

type nopObserver struct{}

func (nopObserver) RowOutcome(string)   {}
func (nopObserver) DateStrategy(string) {}

// Option configura o Pipeline.
type Option func(*Pipeline)

func WithChunkSize(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.chunkSize = n
		}
	}
}

func WithObserver(o Observer) Option {
	return func(p *Pipeline) {
		if o != nil {
			p.observer = o
		}
	}
}

// WithProgress registra um callback chamado ao fim de cada bloco.
func WithProgress(fn func(done, total int)) Option {
	return func(p *Pipeline) { p.onChunk = fn }
}

// Pipeline transforma lotes de registros brutos em leads canônicos.
type Pipeline struct {
	resolver  *fields.Resolver
	dates     *dates.Interpreter
	builder   *Builder
	log       *audit.Logger
	observer  Observer
	chunkSize int
	onChunk   func(done, total int)
}

func NewPipeline(resolver *fields.Resolver, interpreter *dates.Interpreter, log *audit.Logger, opts ...Option) *Pipeline {
	if resolver == nil {
		resolver = fields.NewResolver(nil)
	}
	if interpreter == nil {
		interpreter = dates.NewInterpreter(nil, nil)
	}
	if log == nil {
		log = audit.NewLogger(audit.Nop, "ingestion")
	}
	p := &Pipeline{
		resolver:  resolver,
		dates:     interpreter,
		builder:   NewBuilder(resolver),
		log:       log,
		observer:  nopObserver{},
		chunkSize: DefaultChunkSize,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// IngestJSON decodifica o payload do webhook e processa as linhas.
// Payload que não é lista (nem objeto com lista) devolve ErrNotArray e nenhum lead.
func (p *Pipeline) IngestJSON(ctx context.Context, data []byte) (Result, error) {
	log := p.log.NewSession()

	rows, err := decodeRows(data)
	if err != nil {
		log.Warn(ctx, "payload rejected", map[string]any{"error": err.Error(), "bytes": len(data)})
		return Result{SessionID: log.Session(), Leads: []entities.Lead{}}, err
	}
	return p.ingest(ctx, log, rows)
}

// Ingest processa as linhas em blocos. Um erro em uma linha nunca interrompe o lote;
// o único erro devolvido é o cancelamento do contexto entre blocos.
func (p *Pipeline) Ingest(ctx context.Context, rows []any) (Result, error) {
	return p.ingest(ctx, p.log.NewSession(), rows)
}

func (p *Pipeline) ingest(ctx context.Context, log *audit.Logger, rows []any) (Result, error) {
	res := Result{
		SessionID: log.Session(),
		Total:     len(rows),
		Leads:     make([]entities.Lead, 0, len(rows)),
	}
	if len(rows) == 0 {
		log.Warn(ctx, "empty batch", nil)
		return res, ErrEmptyBatch
	}

	started := time.Now()
	log.Info(ctx, "ingestion started", map[string]any{"rows": len(rows), "chunk_size": p.chunkSize})

	for start := 0; start < len(rows); start += p.chunkSize {
		end := start + p.chunkSize
		if end > len(rows) {
			end = len(rows)
		}
		for i := start; i < end; i++ {
			p.processRow(ctx, log, i, rows[i], &res)
		}
		if p.onChunk != nil {
			p.onChunk(end, len(rows))
		}
		if end < len(rows) {
			select {
			case <-ctx.Done():
				log.Warn(ctx, "ingestion cancelled", map[string]any{"processed": end, "rows": len(rows)})
				return res, ctx.Err()
			default:
				runtime.Gosched()
			}
		}
	}

	log.Info(ctx, "ingestion finished", map[string]any{
		"rows":          res.Total,
		"retained":      res.Retained,
		"dropped":       res.Dropped,
		"failed":        res.Failed,
		"date_failures": res.DateFailures,
		"duration_ms":   time.Since(started).Milliseconds(),
	})
	return res, nil
}

func (p *Pipeline) processRow(ctx context.Context, log *audit.Logger, index int, row any, res *Result) {
	defer func() {
		if r := recover(); r != nil {
			msg := fmt.Sprint(r)
			res.Failed++
			res.addError(index, KindPanic, msg, row)
			p.observer.RowOutcome("failed")
			log.Error(ctx, "row processing panicked", map[string]any{"row": index, "error": msg, "payload": row})
		}
	}()

	rec, ok := asRecord(row)
	if !ok {
		msg := fmt.Sprintf("row is %T, not an object", row)
		res.Failed++
		res.addError(index, KindMalformedRow, msg, row)
		p.observer.RowOutcome("failed")
		log.Error(ctx, "malformed row", map[string]any{"row": index, "error": msg, "payload": row})
		return
	}

	dateKey, rawDate := p.resolver.DateString(rec)
	var date *time.Time
	switch {
	case rawDate == "":
		log.Debug(ctx, "no date column", map[string]any{"row": index})
	default:
		parsed, err := p.dates.Interpret(rawDate)
		if err != nil {
			res.DateFailures++
			res.addError(index, KindUnparseableDate, err.Error(), rawDate)
			p.observer.DateStrategy("failed")
			log.Warn(ctx, "date parse failed", map[string]any{"row": index, "column": dateKey, "value": rawDate, "error": err.Error()})
			break
		}
		t := parsed.Time
		date = &t
		p.observer.DateStrategy(string(parsed.Strategy))
		log.Debug(ctx, "date parsed", map[string]any{"row": index, "column": dateKey, "value": rawDate, "strategy": string(parsed.Strategy)})
	}

	lead := p.builder.Build(rec, index+1, rawDate, date)
	if !Validate(lead) {
		res.Dropped++
		res.addError(index, KindInvalidLead, "no name, email, phone or status", rec)
		p.observer.RowOutcome("dropped")
		log.Warn(ctx, "lead rejected", map[string]any{"row": index, "payload": rec})
		return
	}

	res.Leads = append(res.Leads, lead)
	res.Retained++
	p.observer.RowOutcome("retained")
}

func asRecord(row any) (entities.RawRecord, bool) {
	switch r := row.(type) {
	case entities.RawRecord:
		return r, r != nil
	case map[string]any:
		return entities.RawRecord(r), r != nil
	default:
		return nil, false
	}
}

func decodeRows(data []byte) ([]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var payload any
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotArray, err)
	}

	switch v := payload.(type) {
	case []any:
		return v, nil
	case map[string]any:
		for _, key := range envelopeKeys {
			if rows, ok := v[key].([]any); ok {
				return rows, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: got %T", ErrNotArray, payload)
}
