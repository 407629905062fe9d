package handler

import (
	"cooliehub/internal/receipts/models"
	dErrors "cooliehub/pkg/domain-errors"
)

const maxFieldLength = 200

// WorkerRequest is the HTTP request body for POST /submissions/worker.
type WorkerRequest struct {
	Name    string `json:"name"`
	Mobile  string `json:"mobile"`
	Village string `json:"village"`
	Aadhaar string `json:"aadhaar"`
	// Agree defaults to true when omitted, matching the blank form.
	Agree *bool `json:"agree"`
}

// Validate checks request shape only. Field rules live in the service.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *WorkerRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	return checkLengths(map[string]string{
		"name":    r.Name,
		"mobile":  r.Mobile,
		"village": r.Village,
		"aadhaar": r.Aadhaar,
	})
}

func (r *WorkerRequest) Form() models.WorkerForm {
	agree := true
	if r.Agree != nil {
		agree = *r.Agree
	}
	return models.WorkerForm{
		Name:    r.Name,
		Mobile:  r.Mobile,
		Village: r.Village,
		Aadhaar: r.Aadhaar,
		Agree:   agree,
	}
}

// FarmerRequest is the HTTP request body for POST /submissions/farmer.
type FarmerRequest struct {
	Name    string `json:"name"`
	Mobile  string `json:"mobile"`
	Village string `json:"village"`
	Need    string `json:"need"`
	Date    string `json:"date"`
}

func (r *FarmerRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	return checkLengths(map[string]string{
		"name":    r.Name,
		"mobile":  r.Mobile,
		"village": r.Village,
		"need":    r.Need,
		"date":    r.Date,
	})
}

func (r *FarmerRequest) Form() models.FarmerForm {
	return models.FarmerForm{
		Name:    r.Name,
		Mobile:  r.Mobile,
		Village: r.Village,
		Need:    r.Need,
		Date:    r.Date,
	}
}

func checkLengths(values map[string]string) error {
	fields := map[string]string{}
	for name, v := range values {
		if len(v) > maxFieldLength {
			fields[name] = "must be at most 200 characters"
		}
	}
	if len(fields) > 0 {
		return dErrors.Validation("request fields too long", fields)
	}
	return nil
}
