package utils

import "time"

// GetBrasilLocation retorna a localização de São Paulo (UTC-3)
// Esta função deve ser usada em todo o projeto para obter o fuso horário padrão brasileiro,
// garantindo consistência em todas as operações relacionadas a data e hora.
func GetBrasilLocation() *time.Location {
	brazilLocation, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		// Fallback para UTC-3 se não conseguir carregar a localização
		brazilLocation = time.FixedZone("BRT", -3*60*60)
	}
	return brazilLocation
}

// GenerateDateRange gera as datas "YYYY-MM-DD" de from até to (inclusive).
// As datas são normalizadas para o início do dia no fuso de from.
func GenerateDateRange(from, to time.Time) []string {
	if from.IsZero() || to.IsZero() || from.After(to) {
		return []string{}
	}

	loc := from.Location()
	to = to.In(loc)
	from = time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, loc)
	last := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, loc)

	var result []string
	for d := from; !d.After(last); d = d.AddDate(0, 0, 1) {
		result = append(result, d.Format("2006-01-02"))
	}
	return result
}
