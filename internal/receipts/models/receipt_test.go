package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindFees(t *testing.T) {
	assert.Equal(t, 150, KindWorker.Amount())
	assert.Equal(t, ServiceInsuranceRegistration, KindWorker.ServiceType())
	assert.Equal(t, 0, KindFarmer.Amount())
	assert.Equal(t, ServiceFarmerRequest, KindFarmer.ServiceType())
	assert.False(t, Kind("student").Valid())
}

func TestReceiptNumber(t *testing.T) {
	assert.Equal(t, "CHF-100000", FormatReceiptNumber(ReceiptNumberMin))
	assert.Equal(t, "CHF-999999", FormatReceiptNumber(ReceiptNumberMax))
	assert.True(t, IsReceiptNumber("CHF-482913"))
	assert.False(t, IsReceiptNumber("CHF-48291"))
	assert.False(t, IsReceiptNumber("chf-482913"))
	assert.False(t, IsReceiptNumber("CHF-4829135"))
}

func TestFormatDate(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	assert.Equal(t, "05/03/2025", FormatDate(time.Date(2025, time.March, 5, 23, 0, 0, 0, ist)))
}

// Stored snapshots written by the browser build use these exact keys.
func TestRecordJSONFieldNames(t *testing.T) {
	rec := Record{
		Type:      ServiceFarmerRequest,
		Name:      "Lakshmi",
		Mobile:    "9876543210",
		Village:   "Mandoddi",
		Amount:    0,
		Date:      "15/08/2025",
		ReceiptNo: "CHF-123456",
		Extra:     &Extra{Farmer: "12 workers for planting tomorrow"},
	}
	raw, err := json.Marshal(rec)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(raw, &fields))
	for _, key := range []string{"type", "name", "mobile", "village", "amount", "date", "receiptNo", "extra"} {
		assert.Contains(t, fields, key)
	}
	assert.Equal(t, "12 workers for planting tomorrow", fields["extra"].(map[string]any)["farmer"])

	worker := rec
	worker.Extra = nil
	raw, err = json.Marshal(worker)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "extra")
}

func TestCloneDetachesExtra(t *testing.T) {
	rec := Record{Extra: &Extra{Farmer: "weeding"}}
	cp := rec.Clone()
	cp.Extra.Farmer = "harvest"
	assert.Equal(t, "weeding", rec.FarmerNeed())
}

func TestBlankForms(t *testing.T) {
	assert.Equal(t, WorkerForm{Agree: true}, BlankWorkerForm())
	assert.Equal(t, FarmerForm{}, BlankFarmerForm())
}
