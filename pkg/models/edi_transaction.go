package models

import "time"

// EDI transaction directions.
const (
	DirectionInbound  = "inbound"
	DirectionOutbound = "outbound"
)

// EDI transaction processing statuses.
const (
	TransactionStatusReceived  = "received"
	TransactionStatusProcessed = "processed"
	TransactionStatusFailed    = "failed"
	TransactionStatusSent      = "sent"
)

// EDITransaction is one ledger row per EDI document seen or produced. Inbound
// rows also serve as the duplicate-file guard: a partner/filename pair is
// processed at most once.
type EDITransaction struct {
	ID            string     `json:"id" db:"id"`
	PartnerID     string     `json:"partner_id" db:"partner_id"`
	Direction     string     `json:"direction" db:"direction"`
	DocumentType  string     `json:"document_type" db:"document_type"`
	ControlNumber string     `json:"control_number" db:"control_number"`
	Filename      string     `json:"filename" db:"filename"`
	PONumber      *string    `json:"po_number,omitempty" db:"po_number"`
	Status        string     `json:"status" db:"status"`
	ErrorDetail   *string    `json:"error_detail,omitempty" db:"error_detail"`
	ProcessedAt   *time.Time `json:"processed_at,omitempty" db:"processed_at"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
}

// CreateEDITransactionRequest carries the fields for a new ledger row.
type CreateEDITransactionRequest struct {
	PartnerID     string  `json:"partner_id" validate:"required"`
	Direction     string  `json:"direction" validate:"required,oneof=inbound outbound"`
	DocumentType  string  `json:"document_type" validate:"required"`
	ControlNumber string  `json:"control_number"`
	Filename      string  `json:"filename" validate:"required"`
	PONumber      *string `json:"po_number,omitempty"`
	Status        string  `json:"status" validate:"required"`
	ErrorDetail   *string `json:"error_detail,omitempty"`
}
