package handlers

import (
	"bytes"
	"time"

	"github.com/PavaniTiago/leads-intelligence-api/internal/domain/entities"
	"github.com/PavaniTiago/leads-intelligence-api/internal/domain/status"
	"github.com/xuri/excelize/v2"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	leadsSheet      = "Leads"
)

var exportHeader = []any{
	"Sequência", "Data", "Horário", "Nome", "Email", "Telefone",
	"Status", "Grupo", "Closer", "Origem", "Venda Integral", "Recorrente",
}

// WriteLeadsXLSX gera a planilha dos leads. Datas não interpretadas saem como o texto original.
// O grupo vem do classifier informado, que avisa sobre status desconhecidos.
func WriteLeadsXLSX(leads []entities.Lead, loc *time.Location, classifier *status.Classifier) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", leadsSheet); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	if err != nil {
		return nil, err
	}

	if err := f.SetSheetRow(leadsSheet, "A1", &exportHeader); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(leadsSheet, "A1", "L1", headerStyle); err != nil {
		return nil, err
	}

	for i, lead := range leads {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		date := lead.RawDate
		if lead.Date != nil {
			date = lead.Date.In(loc).Format("02/01/2006")
		}
		row := []any{
			lead.Sequence, date, lead.RawTime, lead.Name, lead.Email, lead.Phone,
			lead.Status, string(classifier.Classify(lead.Status)), lead.Closer, lead.Origin,
			lead.FullSaleAmount, lead.RecurringAmount,
		}
		if err := f.SetSheetRow(leadsSheet, cell, &row); err != nil {
			return nil, err
		}
	}

	if len(leads) > 0 {
		last, _ := excelize.CoordinatesToCellName(12, len(leads)+1)
		if err := f.SetCellStyle(leadsSheet, "K2", last, moneyStyle); err != nil {
			return nil, err
		}
	}
	if err := f.SetColWidth(leadsSheet, "B", "L", 16); err != nil {
		return nil, err
	}

	return f.WriteToBuffer()
}
