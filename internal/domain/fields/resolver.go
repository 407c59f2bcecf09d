package fields

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"unicode"

	"github.com/PavaniTiago/leads-intelligence-api/internal/domain/entities"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	dateNamePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)data`),
		regexp.MustCompile(`(?i)date`),
		regexp.MustCompile(`(?i)created`),
		regexp.MustCompile(`(?i)criad[oa]`),
		regexp.MustCompile(`(?i)timestamp`),
		regexp.MustCompile(`(?i)agendad`),
		regexp.MustCompile(`(?i)^dia$`),
	}

	dateValuePatterns = []*regexp.Regexp{
		regexp.MustCompile(`^\d{4}-\d{1,2}-\d{1,2}`),
		regexp.MustCompile(`^\d{1,2}[/.\-]\d{1,2}[/.\-]\d{2,4}`),
		regexp.MustCompile(`^\d{4}[/.]\d{1,2}[/.]\d{1,2}`),
		regexp.MustCompile(`^\d{8}$`),
		regexp.MustCompile(`^(\d{10}|\d{13})$`),
		regexp.MustCompile(`(?i)^\d{1,2}\s+(de\s+)?\p{L}{3,9}\.?$`),
	}

	dateSubstrings = []string{"dat", "dt", "created", "criad", "dia", "time"}
)

// Resolver encontra, em um registro bruto, a chave correspondente a cada campo canônico.
// As decisões de detecção automática da data são memorizadas por assinatura do conjunto de chaves.
type Resolver struct {
	aliases map[Field][]string
	folded  map[Field][]string
	claimed map[string]Field

	mu       sync.RWMutex
	dateKeys map[string]string
}

// NewResolver cria um resolver com a tabela informada; nil usa DefaultAliases.
func NewResolver(aliases map[Field][]string) *Resolver {
	if aliases == nil {
		aliases = DefaultAliases
	}
	r := &Resolver{
		aliases:  aliases,
		folded:   make(map[Field][]string, len(aliases)),
		claimed:  make(map[string]Field),
		dateKeys: make(map[string]string),
	}
	for f, list := range aliases {
		seen := make(map[string]bool, len(list))
		for _, alias := range list {
			k := Fold(alias)
			if seen[k] {
				continue
			}
			seen[k] = true
			r.folded[f] = append(r.folded[f], k)
			if f != FieldDate && f != FieldTime {
				if _, ok := r.claimed[k]; !ok {
					r.claimed[k] = f
				}
			}
		}
	}
	return r
}

// Resolve devolve o valor do primeiro alias presente com valor não vazio, ou def.
func (r *Resolver) Resolve(rec entities.RawRecord, f Field, def any) any {
	if key, ok := r.Key(rec, f); ok {
		return rec[key]
	}
	return def
}

// String devolve o valor resolvido como texto, sem espaços nas pontas.
func (r *Resolver) String(rec entities.RawRecord, f Field) string {
	return strings.TrimSpace(Stringify(r.Resolve(rec, f, nil)))
}

// Key devolve a chave do registro que atende ao campo. Primeiro tenta os aliases exatos,
// depois a comparação sem acentos/caixa.
func (r *Resolver) Key(rec entities.RawRecord, f Field) (string, bool) {
	for _, alias := range r.aliases[f] {
		if v, ok := rec[alias]; ok && present(v) {
			return alias, true
		}
	}
	if len(rec) == 0 {
		return "", false
	}
	index := foldedIndex(rec)
	for _, alias := range r.folded[f] {
		if key, ok := index[alias]; ok {
			return key, true
		}
	}
	return "", false
}

// DateKey resolve a coluna de data: aliases primeiro, depois detecção automática por nome e valor.
func (r *Resolver) DateKey(rec entities.RawRecord) (string, bool) {
	if key, ok := r.Key(rec, FieldDate); ok {
		return key, true
	}
	if len(rec) == 0 {
		return "", false
	}

	sig := signature(rec)
	r.mu.RLock()
	cached, hit := r.dateKeys[sig]
	r.mu.RUnlock()
	if hit {
		if present(rec[cached]) {
			return cached, true
		}
		return "", false
	}

	key, ok := r.detectDateKey(rec)
	if ok {
		r.mu.Lock()
		r.dateKeys[sig] = key
		r.mu.Unlock()
	}
	return key, ok
}

// DateString devolve a chave e o texto da coluna de data, quando houver.
func (r *Resolver) DateString(rec entities.RawRecord) (string, string) {
	key, ok := r.DateKey(rec)
	if !ok {
		return "", ""
	}
	return key, strings.TrimSpace(Stringify(rec[key]))
}

func (r *Resolver) detectDateKey(rec entities.RawRecord) (string, bool) {
	keys := sortedKeys(rec)

	for _, k := range keys {
		if !matchesAny(dateNamePatterns, k) {
			continue
		}
		if v := strings.TrimSpace(Stringify(rec[k])); v != "" && matchesAny(dateValuePatterns, v) {
			return k, true
		}
	}

	for _, k := range keys {
		if _, taken := r.claimed[Fold(k)]; taken {
			continue
		}
		if v := strings.TrimSpace(Stringify(rec[k])); v != "" && matchesAny(dateValuePatterns, v) {
			return k, true
		}
	}

	for _, k := range keys {
		folded := Fold(k)
		if !containsAny(folded, dateSubstrings) {
			continue
		}
		if s, ok := rec[k].(string); ok && len(strings.TrimSpace(s)) > 4 {
			return k, true
		}
	}
	return "", false
}

// Stringify converte um valor JSON primitivo em texto.
func Stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}

// Fold normaliza um nome de coluna: minúsculas, sem acentos, separadores unificados.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	out = strings.ToLower(strings.TrimSpace(out))
	out = strings.Map(func(r rune) rune {
		switch r {
		case '_', '-', '/', '.':
			return ' '
		}
		return r
	}, out)
	return strings.Join(strings.Fields(out), " ")
}

func present(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(t) != ""
	default:
		return true
	}
}

func foldedIndex(rec entities.RawRecord) map[string]string {
	index := make(map[string]string, len(rec))
	for _, k := range sortedKeys(rec) {
		if !present(rec[k]) {
			continue
		}
		f := Fold(k)
		if _, ok := index[f]; !ok {
			index[f] = k
		}
	}
	return index
}

func sortedKeys(rec entities.RawRecord) []string {
	keys := make([]string, 0, len(rec))
	for k := range rec {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func signature(rec entities.RawRecord) string {
	return strings.Join(sortedKeys(rec), "\x1f")
}

func matchesAny(patterns []*regexp.Regexp, s string) bool {
	for _, p := range patterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
