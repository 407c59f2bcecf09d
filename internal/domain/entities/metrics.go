package entities

// StandardizedMetrics é o agregado calculado a partir de uma coleção de leads.
// Mentorados não entram em TotalLeads nem nas taxas.
type StandardizedMetrics struct {
	TotalLeads        int `json:"total_leads"`
	Closed            int `json:"closed"`
	PendingService    int `json:"pending_service"`
	ServicedNotClosed int `json:"serviced_not_closed"`
	LostOrInactive    int `json:"lost_or_inactive"`
	Mentees           int `json:"mentees"`
	Presentations     int `json:"presentations"`

	CloseRate             float64 `json:"close_rate"`
	NonClosureRate        float64 `json:"non_closure_rate"`
	PresentationCloseRate float64 `json:"presentation_close_rate"`
	AttendanceRate        float64 `json:"attendance_rate"`
	PendingServiceRate    float64 `json:"pending_service_rate"`
	NoShowRate            float64 `json:"no_show_rate"`
	OverallYieldRate      float64 `json:"overall_yield_rate"`

	Closings           int     `json:"closings"`
	FullSaleCount      int     `json:"full_sale_count"`
	RecurringSaleCount int     `json:"recurring_sale_count"`
	FullSaleRevenue    float64 `json:"full_sale_revenue"`
	RecurringRevenue   float64 `json:"recurring_revenue"`
	TotalRevenue       float64 `json:"total_revenue"`
	AverageTicket      float64 `json:"average_ticket"`
}

// HourlyBucket representa os leads de uma hora do dia
type HourlyBucket struct {
	Hour     int     `json:"hour"`
	Leads    int     `json:"leads"`
	Closings int     `json:"closings"`
	Revenue  float64 `json:"revenue"`
}

// DailyPoint representa um dia da série temporal
type DailyPoint struct {
	Date     string  `json:"date"`
	Leads    int     `json:"leads"`
	Closings int     `json:"closings"`
	Revenue  float64 `json:"revenue"`
}

// MonthlyRevenue representa o faturamento de um mês (YYYY-MM)
type MonthlyRevenue struct {
	Month            string  `json:"month"`
	Closings         int     `json:"closings"`
	FullSaleRevenue  float64 `json:"full_sale_revenue"`
	RecurringRevenue float64 `json:"recurring_revenue"`
	TotalRevenue     float64 `json:"total_revenue"`
}

// BreakdownRow contém as métricas de um closer ou de uma origem
type BreakdownRow struct {
	Key     string              `json:"key"`
	Metrics StandardizedMetrics `json:"metrics"`
}
