package service

import (
	"regexp"
	"strings"

	"cooliehub/internal/receipts/models"
	dErrors "cooliehub/pkg/domain-errors"
)

var (
	mobilePattern  = regexp.MustCompile(`^[0-9]{10}$`)
	aadhaarPattern = regexp.MustCompile(`^[0-9]{4}[ -]?[0-9]{4}[ -]?[0-9]{4}$`)
)

// ValidateWorker trims the form and checks it can be submitted. The returned
// form is the normalized one; it is returned even when validation fails so
// callers can echo it back.
func ValidateWorker(form models.WorkerForm) (models.WorkerForm, error) {
	form.Name = strings.TrimSpace(form.Name)
	form.Mobile = strings.TrimSpace(form.Mobile)
	form.Village = strings.TrimSpace(form.Village)
	form.Aadhaar = strings.TrimSpace(form.Aadhaar)

	fields := map[string]string{}
	requireText(fields, "name", form.Name)
	checkMobile(fields, form.Mobile)
	requireText(fields, "village", form.Village)
	if form.Aadhaar != "" && !aadhaarPattern.MatchString(form.Aadhaar) {
		fields["aadhaar"] = "must be 12 digits"
	}
	if !form.Agree {
		fields["agree"] = "consent is required"
	}
	if len(fields) > 0 {
		return form, dErrors.Validation("worker form is incomplete", fields)
	}
	return form, nil
}

// ValidateFarmer trims the form and checks it can be submitted.
func ValidateFarmer(form models.FarmerForm) (models.FarmerForm, error) {
	form.Name = strings.TrimSpace(form.Name)
	form.Mobile = strings.TrimSpace(form.Mobile)
	form.Village = strings.TrimSpace(form.Village)
	form.Need = strings.TrimSpace(form.Need)
	form.Date = strings.TrimSpace(form.Date)

	fields := map[string]string{}
	requireText(fields, "name", form.Name)
	checkMobile(fields, form.Mobile)
	requireText(fields, "village", form.Village)
	requireText(fields, "need", form.Need)
	if len(fields) > 0 {
		return form, dErrors.Validation("farmer form is incomplete", fields)
	}
	return form, nil
}

func requireText(fields map[string]string, name, value string) {
	if value == "" {
		fields[name] = "is required"
	}
}

func checkMobile(fields map[string]string, mobile string) {
	switch {
	case mobile == "":
		fields["mobile"] = "is required"
	case !mobilePattern.MatchString(mobile):
		fields["mobile"] = "must be exactly 10 digits"
	}
}
