package handler

import (
	"cooliehub/internal/receipts/models"
	"cooliehub/pkg/platform/httputil"
)

// ReceiptResponse is one receipt as shown in the listing and detail view.
type ReceiptResponse struct {
	ReceiptNo string        `json:"receiptNo"`
	Date      string        `json:"date"`
	Name      string        `json:"name"`
	Mobile    string        `json:"mobile"`
	Village   string        `json:"village"`
	Type      string        `json:"type"`
	Amount    int           `json:"amount"`
	Extra     *models.Extra `json:"extra,omitempty"`
}

// SubmissionResponse is returned by both submission endpoints.
type SubmissionResponse struct {
	Receipt ReceiptResponse `json:"receipt"`
	Form    any             `json:"form"`
	Warning string          `json:"warning,omitempty"`
}

// ReceiptListResponse is the receipts table, newest first.
type ReceiptListResponse struct {
	Receipts []ReceiptResponse `json:"receipts"`
	Count    int               `json:"count"`
}

// PaymentErrorResponse echoes the submitted form so the client can retry.
type PaymentErrorResponse struct {
	httputil.ErrorResponse
	Form any `json:"form"`
}

// FromRecord converts a ledger record to its HTTP shape.
func FromRecord(rec models.Record) ReceiptResponse {
	return ReceiptResponse{
		ReceiptNo: rec.ReceiptNo,
		Date:      rec.Date,
		Name:      rec.Name,
		Mobile:    rec.Mobile,
		Village:   rec.Village,
		Type:      string(rec.Type),
		Amount:    rec.Amount,
		Extra:     rec.Extra,
	}
}

func FromRecords(records []models.Record) ReceiptListResponse {
	out := make([]ReceiptResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, FromRecord(rec))
	}
	return ReceiptListResponse{Receipts: out, Count: len(out)}
}
