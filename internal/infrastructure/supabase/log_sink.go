// Package supabase grava as entradas de auditoria na tabela de logs do Supabase.
package supabase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/PavaniTiago/leads-intelligence-api/internal/application/audit"
	supa "github.com/supabase-community/supabase-go"
	"go.uber.org/zap"
)

const (
	defaultBuffer    = 1024
	defaultBatchSize = 50
	defaultFlush     = 2 * time.Second
	defaultMinLevel  = audit.LevelInfo
)

// LogRow é o formato da linha em system_logs.
type LogRow struct {
	Level     string         `json:"level"`
	Message   string         `json:"message"`
	Source    string         `json:"source"`
	SessionID string         `json:"session_id"`
	Data      map[string]any `json:"data,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// Inserter grava um lote de linhas numa tabela.
type Inserter interface {
	Insert(table string, rows []LogRow) error
}

type postgrestInserter struct {
	client *supa.Client
}

// NewInserter cria o cliente Supabase (PostgREST) usado pelo sink.
func NewInserter(url, key string) (Inserter, error) {
	client, err := supa.NewClient(url, key, &supa.ClientOptions{})
	if err != nil {
		return nil, fmt.Errorf("error creating supabase client: %w", err)
	}
	return &postgrestInserter{client: client}, nil
}

func (p *postgrestInserter) Insert(table string, rows []LogRow) error {
	_, _, err := p.client.From(table).Insert(rows, false, "", "minimal", "").Execute()
	return err
}

// LogSink envia entradas em lotes, de forma assíncrona.
// Com o buffer cheio a entrada é descartada: auditoria nunca bloqueia a ingestão.
// Entradas abaixo de minLevel não entram no buffer.
type LogSink struct {
	table    string
	inserter Inserter
	log      *zap.Logger
	minLevel audit.Level

	entries   chan audit.Entry
	batchSize int
	interval  time.Duration

	mu      sync.Mutex
	dropped int
	closed  bool
	done    chan struct{}
}

// Option configura o LogSink.
type Option func(*LogSink)

// WithMinLevel define o nível mínimo gravado na tabela. O padrão é info.
func WithMinLevel(l audit.Level) Option {
	return func(s *LogSink) { s.minLevel = l }
}

// NewLogSink inicia o worker de envio. Close deve ser chamado no desligamento.
func NewLogSink(inserter Inserter, table string, log *zap.Logger, opts ...Option) *LogSink {
	return newLogSink(inserter, table, log, defaultBuffer, defaultBatchSize, defaultFlush, opts...)
}

func newLogSink(inserter Inserter, table string, log *zap.Logger, buffer, batch int, interval time.Duration, opts ...Option) *LogSink {
	if log == nil {
		log = zap.NewNop()
	}
	s := &LogSink{
		table:     table,
		inserter:  inserter,
		log:       log,
		minLevel:  defaultMinLevel,
		entries:   make(chan audit.Entry, buffer),
		batchSize: batch,
		interval:  interval,
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	go s.run()
	return s
}

// Log enfileira a entrada sem bloquear.
func (s *LogSink) Log(_ context.Context, e audit.Entry) {
	if !e.Level.AtLeast(s.minLevel) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		s.dropped++
		return
	}
	select {
	case s.entries <- e:
	default:
		s.dropped++
	}
}

// Dropped conta as entradas descartadas.
func (s *LogSink) Dropped() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dropped
}

// Close envia o que restou no buffer e encerra o worker.
func (s *LogSink) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	close(s.entries)
	s.mu.Unlock()
	<-s.done
}

func (s *LogSink) run() {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	batch := make([]LogRow, 0, s.batchSize)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		if err := s.inserter.Insert(s.table, batch); err != nil {
			s.log.Warn("failed to write audit logs", zap.String("table", s.table), zap.Int("rows", len(batch)), zap.Error(err))
		}
		batch = make([]LogRow, 0, s.batchSize)
	}

	for {
		select {
		case e, ok := <-s.entries:
			if !ok {
				flush()
				return
			}
			batch = append(batch, toRow(e))
			if len(batch) >= s.batchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		}
	}
}

func toRow(e audit.Entry) LogRow {
	return LogRow{
		Level:     string(e.Level),
		Message:   e.Message,
		Source:    e.Source,
		SessionID: e.SessionID,
		Data:      e.Data,
		CreatedAt: e.Time,
	}
}
