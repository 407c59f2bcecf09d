// Package money converte valores monetários em formato brasileiro (ou numérico cru) em números não negativos.
package money

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrUnparseable indica que o valor não pôde ser lido como número.
var ErrUnparseable = errors.New("unparseable amount")

var nonNumericRe = regexp.MustCompile(`[^0-9,.\-]`)

// Parse nunca falha: valores ilegíveis viram 0 e negativos são limitados a 0.
func Parse(v any) float64 {
	d, err := ParseDecimal(v)
	if err != nil {
		return 0
	}
	f, _ := d.Float64()
	return f
}

// ParseStrict diferencia "zero" de "ilegível". Negativos continuam limitados a 0.
func ParseStrict(v any) (float64, error) {
	d, err := ParseDecimal(v)
	if err != nil {
		return 0, err
	}
	f, _ := d.Float64()
	return f, nil
}

// ParseDecimal aplica as regras de saneamento e devolve o valor como decimal.
// Strings mantêm apenas dígitos, vírgula, ponto e sinal; a vírgula vira separador decimal.
func ParseDecimal(v any) (decimal.Decimal, error) {
	switch t := v.(type) {
	case nil:
		return decimal.Zero, fmt.Errorf("%w: nil", ErrUnparseable)
	case float64:
		return clamp(decimal.NewFromFloat(t)), nil
	case float32:
		return clamp(decimal.NewFromFloat32(t)), nil
	case int:
		return clamp(decimal.NewFromInt(int64(t))), nil
	case int64:
		return clamp(decimal.NewFromInt(t)), nil
	case json.Number:
		return parseString(t.String())
	case string:
		return parseString(t)
	default:
		return decimal.Zero, fmt.Errorf("%w: unsupported type %T", ErrUnparseable, v)
	}
}

func parseString(s string) (decimal.Decimal, error) {
	cleaned := nonNumericRe.ReplaceAllString(s, "")
	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrUnparseable, s)
	}
	cleaned = normalizeSeparators(cleaned)
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrUnparseable, s)
	}
	return clamp(d), nil
}

// normalizeSeparators trata "1.500,00" como mil e quinhentos: com vírgula presente,
// pontos são separadores de milhar. Sem vírgula, o texto segue como veio.
func normalizeSeparators(s string) string {
	if !strings.Contains(s, ",") {
		return s
	}
	s = strings.ReplaceAll(s, ".", "")
	return strings.Replace(s, ",", ".", 1)
}

func clamp(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
