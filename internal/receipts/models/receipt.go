package models

import (
	"fmt"
	"regexp"
	"time"
)

// ServiceType is the label printed on a receipt.
type ServiceType string

const (
	ServiceInsuranceRegistration ServiceType = "Insurance Registration Assistance"
	ServiceFarmerRequest         ServiceType = "Farmer Request Logged (No Fee)"
)

// Kind identifies which form produced a submission.
type Kind string

const (
	KindWorker Kind = "worker"
	KindFarmer Kind = "farmer"
)

// Fees in whole rupees, fixed per kind.
const (
	WorkerRegistrationFee = 150
	FarmerRequestFee      = 0
)

// ServiceType returns the receipt label for the kind.
func (k Kind) ServiceType() ServiceType {
	if k == KindFarmer {
		return ServiceFarmerRequest
	}
	return ServiceInsuranceRegistration
}

// Amount returns the fixed fee for the kind.
func (k Kind) Amount() int {
	if k == KindFarmer {
		return FarmerRequestFee
	}
	return WorkerRegistrationFee
}

func (k Kind) Valid() bool {
	return k == KindWorker || k == KindFarmer
}

// Extra carries kind-specific payload. Only farmer requests populate it.
type Extra struct {
	Farmer string `json:"farmer,omitempty"`
}

// Record is one issued receipt. Field names match the stored snapshot format
// and must not change, or existing ledgers stop loading.
//
// A Record is immutable once created: the ledger only ever prepends.
type Record struct {
	Type      ServiceType `json:"type"`
	Name      string      `json:"name"`
	Mobile    string      `json:"mobile"`
	Village   string      `json:"village"`
	Amount    int         `json:"amount"`
	Date      string      `json:"date"`
	ReceiptNo string      `json:"receiptNo"`
	Extra     *Extra      `json:"extra,omitempty"`
}

// FarmerNeed returns the labour need text for farmer requests.
func (r Record) FarmerNeed() string {
	if r.Extra == nil {
		return ""
	}
	return r.Extra.Farmer
}

// Clone returns a copy that shares no pointers with r.
func (r Record) Clone() Record {
	if r.Extra != nil {
		extra := *r.Extra
		r.Extra = &extra
	}
	return r
}

// Receipt number bounds. Drawing from [100000, 999999] keeps every number at
// exactly six digits.
const (
	ReceiptNumberMin    = 100000
	ReceiptNumberMax    = 999999
	receiptNumberPrefix = "CHF-"
)

var receiptNumberPattern = regexp.MustCompile(`^CHF-[0-9]{6}$`)

// FormatReceiptNumber renders n as CHF-<digits>.
func FormatReceiptNumber(n int) string {
	return fmt.Sprintf("%s%06d", receiptNumberPrefix, n)
}

// IsReceiptNumber reports whether s has the CHF-###### shape.
func IsReceiptNumber(s string) bool {
	return receiptNumberPattern.MatchString(s)
}

// DateLayout is the day-month-year form used on receipts.
const DateLayout = "02/01/2006"

// FormatDate formats t as dd/mm/yyyy in t's location.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
