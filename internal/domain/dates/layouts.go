package dates

import "time"

var allLayouts = Layouts()

// numericLayouts são tentados em ordem; dia/mês vem antes de mês/dia porque o webhook é brasileiro.
var numericLayouts = buildNumericLayouts()

var isoLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000Z07:00",
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05-07",
	"2006-01-02 15:04:05.000000",
	"2006-01-02 15:04:05.000",
}

var compactLayouts = []string{
	"20060102",
	"20060102150405",
	"200601021504",
	"20060102T150405",
}

var textualLayouts = []string{
	"2 Jan 2006",
	"2 Jan 2006 15:04",
	"2 Jan 2006 15:04:05",
	"2 Jan. 2006",
	"2-Jan-2006",
	"2/Jan/2006",
	"2 January 2006",
	"Jan 2, 2006",
	"Jan 2 2006",
	"January 2, 2006",
	"January 2 2006",
	"Mon, 2 Jan 2006",
	"Mon Jan 2 2006",
	time.RFC1123,
	time.RFC1123Z,
	time.RFC822,
	time.RFC850,
	time.ANSIC,
	time.UnixDate,
}

func buildNumericLayouts() []string {
	var out []string
	for _, sep := range []string{"/", "-", "."} {
		dmy := "2" + sep + "1" + sep + "2006"
		dmyShort := "2" + sep + "1" + sep + "06"
		ymd := "2006" + sep + "1" + sep + "2"
		mdy := "1" + sep + "2" + sep + "2006"
		mdyShort := "1" + sep + "2" + sep + "06"
		ymdShort := "06" + sep + "1" + sep + "2"
		out = append(out,
			dmy+" 15:04:05",
			dmy+" 15:04",
			dmy,
			dmyShort+" 15:04",
			dmyShort,
			ymd+" 15:04:05",
			ymd+" 15:04",
			ymd,
			mdy+" 15:04:05",
			mdy+" 15:04",
			mdy,
			mdyShort+" 15:04",
			mdyShort,
			ymdShort,
		)
	}
	return out
}

// Layouts devolve todos os layouts tentados pela estratégia de formatos delimitados.
func Layouts() []string {
	all := make([]string, 0, len(numericLayouts)+len(isoLayouts)+len(compactLayouts)+len(textualLayouts))
	all = append(all, numericLayouts...)
	all = append(all, isoLayouts...)
	all = append(all, compactLayouts...)
	all = append(all, textualLayouts...)
	return all
}
