package service

import (
	"math/rand/v2"

	"cooliehub/internal/receipts/models"
)

// maxReceiptNumberAttempts bounds regeneration when a drawn number is
// already in the ledger.
const maxReceiptNumberAttempts = 5

func randomReceiptNumber() int {
	return models.ReceiptNumberMin + rand.IntN(models.ReceiptNumberMax-models.ReceiptNumberMin+1)
}

// nextReceiptNumber draws until it finds a number not already issued.
func (s *Service) nextReceiptNumber() (string, bool) {
	for range maxReceiptNumberAttempts {
		no := models.FormatReceiptNumber(s.numbers())
		if !s.ledger.Contains(no) {
			return no, true
		}
	}
	return "", false
}
