package audit

import "time"

// Actions recorded by the submission workflow.
const (
	ActionReceiptIssued       = "receipt_issued"
	ActionSubmissionRejected  = "submission_rejected"
	ActionPaymentDeclined     = "payment_declined"
	ActionLedgerPersistFailed = "ledger_persist_failed"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp time.Time
	Action    string
	// Subject is the receipt number when one was issued, otherwise the mobile.
	Subject   string
	Kind      string
	Amount    int
	RequestID string
	Reason    string
}
