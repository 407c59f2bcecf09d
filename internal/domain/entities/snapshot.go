package entities

import "time"

// LeadSnapshot é o resultado persistido de uma ingestão: o lote bruto e os leads processados.
// LeadsPayload guarda o JSON dos leads, com datas serializadas em RFC 3339.
type LeadSnapshot struct {
	SnapshotID   string    `json:"snapshot_id" gorm:"primaryKey;column:snapshot_id;size:36"`
	Source       string    `json:"source" gorm:"column:source;size:64"`
	RawPayload   string    `json:"-" gorm:"column:raw_payload;type:text"`
	LeadsPayload string    `json:"-" gorm:"column:leads_payload;type:text"`
	LeadCount    int       `json:"lead_count" gorm:"column:lead_count"`
	FailedRows   int       `json:"failed_rows" gorm:"column:failed_rows"`
	DroppedRows  int       `json:"dropped_rows" gorm:"column:dropped_rows"`
	CreatedAt    time.Time `json:"created_at" gorm:"column:created_at;index"`
}

func (LeadSnapshot) TableName() string {
	return "lead_snapshots"
}
