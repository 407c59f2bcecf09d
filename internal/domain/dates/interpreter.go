package dates

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PavaniTiago/leads-intelligence-api/internal/utils"
)

// Janela de anos aceita. Datas fora dela são tratadas como não interpretáveis.
const (
	MinYear = 2020
	MaxYear = 2030
)

// ErrUnparseable indica que nenhuma estratégia produziu uma data válida dentro da janela.
var ErrUnparseable = errors.New("unparseable date")

// Strategy identifica a estratégia que interpretou a data.
type Strategy string

const (
	StrategyBrazilianShort Strategy = "brazilian_short"
	StrategyLayout         Strategy = "layout"
	StrategyISO            Strategy = "iso"
	StrategyEpoch          Strategy = "epoch"
)

// Result é uma data interpretada.
type Result struct {
	Time     time.Time
	Strategy Strategy
	Layout   string
}

var (
	brazilianShortRe = regexp.MustCompile(`(?i)^(\d{1,2})(?:\s+de\s+|\s+|-|/)(\p{L}{3,9})\.?$`)
	isoPrefixRe      = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)
	digitsRe         = regexp.MustCompile(`^\d+$`)
	wordRe           = regexp.MustCompile(`\p{L}+\.?`)
	ofRe             = regexp.MustCompile(`(?i)\s+de\s+`)
)

// Interpreter converte textos de data heterogêneos em datas de calendário.
type Interpreter struct {
	loc *time.Location
	now func() time.Time
}

// NewInterpreter cria um interpretador. loc nil usa America/Sao_Paulo e now nil usa time.Now.
func NewInterpreter(loc *time.Location, now func() time.Time) *Interpreter {
	if loc == nil {
		loc = utils.GetBrasilLocation()
	}
	if now == nil {
		now = time.Now
	}
	return &Interpreter{loc: loc, now: now}
}

// Location devolve o fuso usado na interpretação
func (i *Interpreter) Location() *time.Location {
	return i.loc
}

// Interpret tenta, em ordem: abreviação brasileira, formatos delimitados, ISO e epoch.
// O primeiro resultado dentro da janela vence.
func (i *Interpreter) Interpret(raw string) (Result, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Result{}, fmt.Errorf("%w: empty value", ErrUnparseable)
	}

	var outOfWindow []string

	if t, ok, matched := i.brazilianShort(s); matched {
		if ok {
			if InWindow(t) {
				return Result{Time: t, Strategy: StrategyBrazilianShort}, nil
			}
			outOfWindow = append(outOfWindow, string(StrategyBrazilianShort))
		}
	}

	candidates := []string{s}
	if translated := translateMonths(s); translated != s {
		candidates = append(candidates, translated)
	}
	for _, c := range candidates {
		for _, layout := range allLayouts {
			t, err := time.ParseInLocation(layout, c, i.loc)
			if err != nil {
				continue
			}
			if InWindow(t.In(i.loc)) {
				return Result{Time: t.In(i.loc), Strategy: StrategyLayout, Layout: layout}, nil
			}
			outOfWindow = append(outOfWindow, layout)
		}
	}

	if t, ok := i.iso(s); ok {
		if InWindow(t) {
			return Result{Time: t, Strategy: StrategyISO}, nil
		}
		outOfWindow = append(outOfWindow, string(StrategyISO))
	}

	if t, ok := i.epoch(s); ok {
		if InWindow(t) {
			return Result{Time: t, Strategy: StrategyEpoch}, nil
		}
		outOfWindow = append(outOfWindow, string(StrategyEpoch))
	}

	if len(outOfWindow) > 0 {
		return Result{}, fmt.Errorf("%w: %q outside %d-%d (matched %s)", ErrUnparseable, raw, MinYear, MaxYear, outOfWindow[0])
	}
	return Result{}, fmt.Errorf("%w: %q", ErrUnparseable, raw)
}

// brazilianShort interpreta "<dia> <mês>[.]" inferindo o ano a partir de now.
// matched indica se o texto tinha o formato, mesmo que o dia seja inválido.
func (i *Interpreter) brazilianShort(s string) (t time.Time, ok bool, matched bool) {
	m := brazilianShortRe.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, false, false
	}
	month, known := lookupMonth(m[2])
	if !known {
		return time.Time{}, false, false
	}
	day, err := strconv.Atoi(m[1])
	if err != nil {
		return time.Time{}, false, true
	}
	year := InferYear(month, i.now().In(i.loc))
	t, valid := calendarDate(year, month, day, i.loc)
	return t, valid, true
}

func (i *Interpreter) iso(s string) (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.In(i.loc), true
	}
	if prefix := isoPrefixRe.FindString(s); prefix != "" {
		if t, err := time.ParseInLocation("2006-01-02", prefix, i.loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// epoch trata números puros como Unix: segundos abaixo de 1e11, milissegundos acima.
func (i *Interpreter) epoch(s string) (time.Time, bool) {
	if !digitsRe.MatchString(s) {
		return time.Time{}, false
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	if n < 1e11 {
		return time.Unix(n, 0).In(i.loc), true
	}
	return time.UnixMilli(n).In(i.loc), true
}

// InferYear aplica a regra de virada de ano para datas sem ano:
// jan/fev olhando nov/dez é ano anterior, nov/dez olhando jan/fev é o próximo, senão o corrente.
func InferYear(month time.Month, now time.Time) int {
	year := now.Year()
	current := now.Month()
	switch {
	case current <= time.February && month >= time.November:
		return year - 1
	case current >= time.November && month <= time.February:
		return year + 1
	}
	return year
}

// InWindow informa se o ano da data está dentro da janela aceita.
func InWindow(t time.Time) bool {
	y := t.Year()
	return y >= MinYear && y <= MaxYear
}

func calendarDate(year int, month time.Month, day int, loc *time.Location) (time.Time, bool) {
	if day < 1 || day > 31 {
		return time.Time{}, false
	}
	t := time.Date(year, month, day, 0, 0, 0, 0, loc)
	if t.Month() != month || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

// translateMonths reescreve meses em português para a abreviação em inglês aceita por time.Parse.
func translateMonths(s string) string {
	out := ofRe.ReplaceAllString(s, " ")
	return wordRe.ReplaceAllStringFunc(out, func(w string) string {
		if m, ok := lookupMonth(w); ok {
			return englishAbbrev[m]
		}
		return w
	})
}
