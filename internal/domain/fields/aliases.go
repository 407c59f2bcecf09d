package fields

// Field é o nome canônico de um campo do lead.
type Field string

const (
	FieldDate            Field = "date"
	FieldTime            Field = "time"
	FieldName            Field = "name"
	FieldEmail           Field = "email"
	FieldPhone           Field = "phone"
	FieldStatus          Field = "status"
	FieldCloser          Field = "closer"
	FieldOrigin          Field = "origin"
	FieldFullSaleAmount  Field = "fullSaleAmount"
	FieldRecurringAmount Field = "recurringAmount"
)

// AllFields lista os campos canônicos.
var AllFields = []Field{
	FieldDate, FieldTime, FieldName, FieldEmail, FieldPhone,
	FieldStatus, FieldCloser, FieldOrigin, FieldFullSaleAmount, FieldRecurringAmount,
}

// DefaultAliases mapeia cada campo canônico para as grafias aceitas no webhook.
// A ordem importa: vence o primeiro alias presente com valor.
var DefaultAliases = map[Field][]string{
	FieldDate: {
		"data", "Data", "DATA", "date", "Date", "DATE",
		"Data do Lead", "data_lead", "dataLead", "Data Lead",
		"Data Agendamento", "data_agendamento", "Data de Agendamento",
		"Data de Criação", "Data de Criacao", "data_criacao",
		"created_at", "createdAt", "Created At", "created",
		"timestamp", "Timestamp", "dia", "Dia",
	},
	FieldTime: {
		"Horário", "horário", "Horario", "horario", "HORARIO",
		"Hora", "hora", "HORA", "time", "Time", "hour", "Hour",
		"Hora Agendamento", "hora_agendamento", "Horário Agendamento",
	},
	FieldName: {
		"Nome", "nome", "NOME", "Name", "name", "NAME",
		"Nome Completo", "nome_completo", "nomeCompleto",
		"full_name", "fullName", "Full Name",
		"Cliente", "cliente", "Nome do Cliente", "nome_cliente",
		"Lead", "lead",
	},
	FieldEmail: {
		"Email", "email", "EMAIL", "E-mail", "e-mail", "E-MAIL", "E-Mail",
		"email_address", "emailAddress", "Email Address", "mail", "Mail",
	},
	FieldPhone: {
		"Telefone", "telefone", "TELEFONE", "Phone", "phone", "PHONE",
		"Celular", "celular", "WhatsApp", "Whatsapp", "whatsapp", "WHATSAPP",
		"Telefone/WhatsApp", "Fone", "fone", "Tel", "tel",
		"phone_number", "phoneNumber", "mobile", "Mobile",
	},
	FieldStatus: {
		"Status", "status", "STATUS",
		"Situação", "situação", "Situacao", "situacao",
		"Etapa", "etapa", "Stage", "stage", "Fase", "fase",
	},
	FieldCloser: {
		"Closer", "closer", "CLOSER",
		"Vendedor", "vendedor", "Vendedora", "vendedora",
		"Responsável", "responsável", "Responsavel", "responsavel",
		"Consultor", "consultor", "Atendente", "atendente",
		"Seller", "seller", "owner", "Owner",
	},
	FieldOrigin: {
		"Origem", "origem", "ORIGEM", "Origin", "origin",
		"Fonte", "fonte", "Source", "source", "utm_source",
		"Canal", "canal", "Channel", "channel",
		"Campanha", "campanha", "Campaign", "campaign",
	},
	FieldFullSaleAmount: {
		"Venda Completa", "venda_completa", "Venda completa", "vendaCompleta",
		"Valor", "valor", "VALOR", "Valor Venda", "valor_venda", "Valor da Venda",
		"Price", "price", "Preço", "preço", "Preco", "preco",
		"Total", "total", "Amount", "amount",
		"Receita", "receita", "Revenue", "revenue",
		"Faturamento", "faturamento", "Ticket", "ticket",
		"Venda", "venda", "sale_amount", "saleAmount", "full_sale",
	},
	FieldRecurringAmount: {
		"Recorrente", "recorrente", "Valor Recorrente", "valor_recorrente", "valorRecorrente",
		"Recorrência", "recorrência", "Recorrencia", "recorrencia",
		"Recurring", "recurring", "recurring_amount", "recurringAmount",
		"Mensalidade", "mensalidade", "MRR", "mrr", "Assinatura", "assinatura",
	},
}
