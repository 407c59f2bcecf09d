package dates

import (
	"regexp"
	"strconv"
	"strings"
)

// DefaultHour é usado quando o horário não pode ser extraído.
const DefaultHour = 12

var (
	colonHourRe = regexp.MustCompile(`(\d{1,2}):(\d{2})`)
	hSepHourRe  = regexp.MustCompile(`(?i)(?:^|[^\d])(\d{1,2})\s*h\s*(\d{2})?(?:[^\d]|$)`)
	dotHourRe   = regexp.MustCompile(`^(\d{1,2})\.(\d{2})$`)
)

// ExtractHour lê a hora de textos como "14:30", "8h45", "17h" ou "8.45".
// Serve apenas para distribuição por hora; nunca compõe a data do lead.
func ExtractHour(raw string) int {
	s := strings.TrimSpace(raw)
	if s == "" {
		return DefaultHour
	}
	for _, re := range []*regexp.Regexp{colonHourRe, hSepHourRe, dotHourRe} {
		m := re.FindStringSubmatch(s)
		if m == nil {
			continue
		}
		if h, ok := validHour(m[1], m[2]); ok {
			return h
		}
	}
	return DefaultHour
}

func validHour(hour, minute string) (int, bool) {
	h, err := strconv.Atoi(hour)
	if err != nil || h < 0 || h > 23 {
		return 0, false
	}
	if minute != "" {
		mm, err := strconv.Atoi(minute)
		if err != nil || mm < 0 || mm > 59 {
			return 0, false
		}
	}
	return h, true
}
