package ledger

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"cooliehub/internal/receipts/models"
)

// snapshotSchema describes the stored ledger: a JSON array of receipt objects.
// Unknown properties are tolerated so older snapshots keep loading.
const snapshotSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "array",
  "items": {
    "type": "object",
    "required": ["type", "name", "mobile", "village", "amount", "date", "receiptNo"],
    "properties": {
      "type":      {"type": "string"},
      "name":      {"type": "string"},
      "mobile":    {"type": "string"},
      "village":   {"type": "string"},
      "amount":    {"type": "integer"},
      "date":      {"type": "string"},
      "receiptNo": {"type": "string"},
      "extra": {
        "type": "object",
        "properties": {"farmer": {"type": "string"}}
      }
    }
  }
}`

var schemaLoader = gojsonschema.NewStringLoader(snapshotSchema)

// Encode serializes records in ledger order.
func Encode(records []models.Record) ([]byte, error) {
	if records == nil {
		records = []models.Record{}
	}
	return json.Marshal(records)
}

// Decode validates raw against the snapshot schema and parses it.
func Decode(raw []byte) ([]models.Record, error) {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, fmt.Errorf("snapshot does not match schema: %s", strings.Join(msgs, "; "))
	}

	var records []models.Record
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if records == nil {
		records = []models.Record{}
	}
	return records, nil
}
