package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cooliehub/internal/receipts/models"
	dErrors "cooliehub/pkg/domain-errors"
)

func TestValidateWorkerAadhaar(t *testing.T) {
	base := models.WorkerForm{Name: "Ravi", Mobile: "9876543210", Village: "Mandoddi", Agree: true}

	for _, aadhaar := range []string{"", "123456789012", "1234 5678 9012", "1234-5678-9012"} {
		form := base
		form.Aadhaar = aadhaar
		_, err := ValidateWorker(form)
		assert.NoError(t, err, aadhaar)
	}

	for _, aadhaar := range []string{"12345678901", "1234567890123", "abcd-efgh-ijkl"} {
		form := base
		form.Aadhaar = aadhaar
		_, err := ValidateWorker(form)
		require.Error(t, err, aadhaar)
		de, _ := dErrors.As(err)
		assert.Contains(t, de.Fields, "aadhaar")
	}
}

func TestValidateReportsEveryField(t *testing.T) {
	_, err := ValidateWorker(models.WorkerForm{})
	de, ok := dErrors.As(err)
	require.True(t, ok)
	assert.Equal(t, dErrors.CodeValidation, de.Code)
	assert.Equal(t, map[string]string{
		"name":    "is required",
		"mobile":  "is required",
		"village": "is required",
		"agree":   "consent is required",
	}, de.Fields)

	_, err = ValidateFarmer(models.FarmerForm{Mobile: "12"})
	de, ok = dErrors.As(err)
	require.True(t, ok)
	assert.Equal(t, "must be exactly 10 digits", de.Fields["mobile"])
	assert.Len(t, de.Fields, 4)
}

func TestValidateFarmerKeepsOptionalDate(t *testing.T) {
	form, err := ValidateFarmer(models.FarmerForm{
		Name: "Lakshmi", Mobile: "9123456780", Village: "Mandoddi", Need: " weeding ", Date: " 2025-08-16 ",
	})
	require.NoError(t, err)
	assert.Equal(t, "weeding", form.Need)
	assert.Equal(t, "2025-08-16", form.Date)
}

func TestRandomReceiptNumberInRange(t *testing.T) {
	for range 1000 {
		n := randomReceiptNumber()
		require.GreaterOrEqual(t, n, models.ReceiptNumberMin)
		require.LessOrEqual(t, n, models.ReceiptNumberMax)
	}
}

func TestInflightRelease(t *testing.T) {
	f := newInflight()
	release, ok := f.acquire(models.KindWorker, "9876543210")
	require.True(t, ok)

	_, ok = f.acquire(models.KindWorker, "9876543210")
	assert.False(t, ok)
	_, ok = f.acquire(models.KindFarmer, "9876543210")
	assert.True(t, ok, "kinds are guarded separately")

	release()
	_, ok = f.acquire(models.KindWorker, "9876543210")
	assert.True(t, ok)
}
