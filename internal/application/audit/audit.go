// Package audit é o canal de log estruturado usado pela ingestão e pelas métricas.
// Os sinks são fire-and-forget: nenhuma falha de log volta para quem chamou.
package audit

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Level é o nível de uma entrada de auditoria.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

var levelRank = map[Level]int{LevelDebug: 0, LevelInfo: 1, LevelWarn: 2, LevelError: 3}

// AtLeast informa se l é igual ou mais grave que min. Níveis desconhecidos contam como info.
func (l Level) AtLeast(min Level) bool {
	return rank(l) >= rank(min)
}

func rank(l Level) int {
	if r, ok := levelRank[l]; ok {
		return r
	}
	return levelRank[LevelInfo]
}

// ParseLevel converte o texto de configuração em Level.
func ParseLevel(s string) (Level, error) {
	l := Level(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := levelRank[l]; !ok {
		return "", fmt.Errorf("invalid audit level: %q", s)
	}
	return l, nil
}

// Entry é uma entrada de log com tag de origem e id de sessão.
type Entry struct {
	Level     Level          `json:"level"`
	Message   string         `json:"message"`
	Source    string         `json:"source"`
	Data      map[string]any `json:"data,omitempty"`
	SessionID string         `json:"session_id"`
	Time      time.Time      `json:"created_at"`
}

// Sink recebe entradas de auditoria.
type Sink interface {
	Log(ctx context.Context, e Entry)
}

// SinkFunc adapta uma função para Sink.
type SinkFunc func(ctx context.Context, e Entry)

func (f SinkFunc) Log(ctx context.Context, e Entry) { f(ctx, e) }

// Nop descarta tudo.
var Nop Sink = SinkFunc(func(context.Context, Entry) {})

// MultiSink repassa cada entrada para todos os sinks.
type MultiSink []Sink

func (m MultiSink) Log(ctx context.Context, e Entry) {
	for _, s := range m {
		if s != nil {
			s.Log(ctx, e)
		}
	}
}

// Logger carimba as entradas com origem, sessão e horário.
type Logger struct {
	sink    Sink
	source  string
	session string
	now     func() time.Time
}

// NewLogger cria um logger para a origem informada com uma sessão nova.
func NewLogger(sink Sink, source string) *Logger {
	if sink == nil {
		sink = Nop
	}
	return &Logger{sink: sink, source: source, session: uuid.NewString(), now: time.Now}
}

// WithSession devolve uma cópia com outro id de sessão.
func (l *Logger) WithSession(id string) *Logger {
	c := *l
	c.session = id
	return &c
}

// WithSource devolve uma cópia com outra tag de origem.
func (l *Logger) WithSource(source string) *Logger {
	c := *l
	c.source = source
	return &c
}

// NewSession devolve uma cópia com um id de sessão novo.
func (l *Logger) NewSession() *Logger {
	return l.WithSession(uuid.NewString())
}

func (l *Logger) Session() string { return l.session }

func (l *Logger) Debug(ctx context.Context, msg string, data map[string]any) {
	l.log(ctx, LevelDebug, msg, data)
}

func (l *Logger) Info(ctx context.Context, msg string, data map[string]any) {
	l.log(ctx, LevelInfo, msg, data)
}

func (l *Logger) Warn(ctx context.Context, msg string, data map[string]any) {
	l.log(ctx, LevelWarn, msg, data)
}

func (l *Logger) Error(ctx context.Context, msg string, data map[string]any) {
	l.log(ctx, LevelError, msg, data)
}

func (l *Logger) log(ctx context.Context, level Level, msg string, data map[string]any) {
	if l == nil {
		return
	}
	l.sink.Log(ctx, Entry{
		Level:     level,
		Message:   msg,
		Source:    l.source,
		Data:      data,
		SessionID: l.session,
		Time:      l.now(),
	})
}

// Recorder guarda as entradas em memória. Útil em testes.
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
}

func (r *Recorder) Log(_ context.Context, e Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
}

// Entries devolve uma cópia das entradas gravadas.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// ByLevel filtra as entradas gravadas pelo nível.
func (r *Recorder) ByLevel(level Level) []Entry {
	var out []Entry
	for _, e := range r.Entries() {
		if e.Level == level {
			out = append(out, e)
		}
	}
	return out
}
