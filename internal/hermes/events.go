package hermes

import "time"

type ScoreComputedEvent struct {
	Variant    string             `json:"variant"`
	OriginZip  string             `json:"origin_zip"`
	Pallets    int                `json:"pallets"`
	Composite  int                `json:"composite"`
	Subfactors map[string]float64 `json:"subfactors"`
	RequestID  string             `json:"request_id,omitempty"`
	Timestamp  time.Time          `json:"timestamp"`
}

type LeadSubmittedEvent struct {
	LeadID    string    `json:"lead_id"`
	Variant   string    `json:"variant"`
	Email     string    `json:"email"`
	OriginZip string    `json:"origin_zip"`
	Score     int       `json:"score"`
	Timestamp time.Time `json:"timestamp"`
}

type LeadSubmissionFailedEvent struct {
	Variant   string    `json:"variant"`
	OriginZip string    `json:"origin_zip"`
	Error     string    `json:"error"`
	Timestamp time.Time `json:"timestamp"`
}

type NotifySentEvent struct {
	ZipCode   string    `json:"zip_code"`
	MessageID string    `json:"message_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type AuditRecordedEvent struct {
	AuditID     string    `json:"audit_id"`
	ZipCode     string    `json:"zip_code"`
	PalletCount int       `json:"pallet_count"`
	Commodity   string    `json:"commodity"`
	Timestamp   time.Time `json:"timestamp"`
}
