package dates

import (
	"fmt"
	"strings"
	"time"

	"github.com/PavaniTiago/leads-intelligence-api/internal/domain/fields"
)

// monthNames aceita abreviações e nomes completos em português (com e sem acento).
var monthNames = map[string]time.Month{
	"jan": time.January, "janeiro": time.January,
	"fev": time.February, "fevereiro": time.February,
	"mar": time.March, "marco": time.March,
	"abr": time.April, "abril": time.April,
	"mai": time.May, "maio": time.May,
	"jun": time.June, "junho": time.June,
	"jul": time.July, "julho": time.July,
	"ago": time.August, "agosto": time.August,
	"set": time.September, "setembro": time.September,
	"out": time.October, "outubro": time.October,
	"nov": time.November, "novembro": time.November,
	"dez": time.December, "dezembro": time.December,
}

var monthAbbrev = [...]string{"", "jan", "fev", "mar", "abr", "mai", "jun", "jul", "ago", "set", "out", "nov", "dez"}

// englishAbbrev é usado para reescrever meses em português nos layouts textuais.
var englishAbbrev = [...]string{"", "Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// lookupMonth reconhece o nome do mês ignorando caixa, acento e ponto final.
func lookupMonth(name string) (time.Month, bool) {
	m, ok := monthNames[strings.TrimSuffix(fields.Fold(name), ".")]
	return m, ok
}

// FormatShort formata a data no padrão "<dia> <mês abreviado>." usado pelo webhook.
func FormatShort(t time.Time) string {
	return fmt.Sprintf("%d %s.", t.Day(), monthAbbrev[t.Month()])
}
