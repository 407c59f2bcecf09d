package ingestion

import (
	"time"

	"github.com/PavaniTiago/leads-intelligence-api/internal/domain/entities"
	"github.com/PavaniTiago/leads-intelligence-api/internal/domain/fields"
	"github.com/PavaniTiago/leads-intelligence-api/internal/domain/money"
)

// Builder monta o Lead canônico a partir de um registro bruto.
type Builder struct {
	resolver *fields.Resolver
}

func NewBuilder(resolver *fields.Resolver) *Builder {
	if resolver == nil {
		resolver = fields.NewResolver(nil)
	}
	return &Builder{resolver: resolver}
}

// Build não valida nada: apenas resolve os campos e normaliza os valores.
func (b *Builder) Build(rec entities.RawRecord, sequence int, rawDate string, date *time.Time) entities.Lead {
	lead := entities.Lead{
		Sequence:        sequence,
		RawDate:         rawDate,
		RawTime:         b.resolver.String(rec, fields.FieldTime),
		Name:            b.resolver.String(rec, fields.FieldName),
		Email:           b.resolver.String(rec, fields.FieldEmail),
		Phone:           b.resolver.String(rec, fields.FieldPhone),
		Status:          b.resolver.String(rec, fields.FieldStatus),
		Closer:          b.resolver.String(rec, fields.FieldCloser),
		Origin:          b.resolver.String(rec, fields.FieldOrigin),
		FullSaleAmount:  money.Parse(b.resolver.Resolve(rec, fields.FieldFullSaleAmount, 0)),
		RecurringAmount: money.Parse(b.resolver.Resolve(rec, fields.FieldRecurringAmount, 0)),
	}
	if date != nil {
		d := *date
		lead.Date = &d
	}
	return lead
}

// Validate aceita o lead se nome, email, telefone ou status estiver preenchido.
func Validate(lead entities.Lead) bool {
	return lead.HasIdentity()
}
