package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/kailas-cloud/reflookup/internal/domain"
	"github.com/kailas-cloud/reflookup/internal/domain/search/result"
)

// decodeRecords accepts a JSON array, a single object or null.
func decodeRecords(op string, body []byte) ([]result.Record, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return []result.Record{}, nil
	}

	if body[0] == '{' {
		var rec result.Record
		if err := json.Unmarshal(body, &rec); err != nil {
			return nil, domain.NewTransportError(op, 0, fmt.Errorf("decode record: %w", err))
		}
		return []result.Record{rec}, nil
	}

	var recs []result.Record
	if err := json.Unmarshal(body, &recs); err != nil {
		return nil, domain.NewTransportError(op, 0, fmt.Errorf("decode records: %w", err))
	}
	if recs == nil {
		recs = []result.Record{}
	}
	return recs, nil
}

// decodeSuggestions accepts a list of strings or a list of objects carrying referenceCode.
func decodeSuggestions(body []byte) ([]string, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return []string{}, nil
	}

	var codes []string
	if err := json.Unmarshal(body, &codes); err == nil {
		return codes, nil
	}

	var objs []struct {
		ReferenceCode string `json:"referenceCode"`
	}
	if err := json.Unmarshal(body, &objs); err != nil {
		return nil, domain.NewTransportError(OpAutocomplete, 0, fmt.Errorf("decode suggestions: %w", err))
	}
	out := make([]string, 0, len(objs))
	for _, o := range objs {
		if o.ReferenceCode != "" {
			out = append(out, o.ReferenceCode)
		}
	}
	return out, nil
}
