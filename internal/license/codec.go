package license

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
)

// wireRecord mirrors the transport JSON for decoding.
type wireRecord struct {
	CustomerID string   `json:"customerId,omitempty"`
	StartDate  string   `json:"startDate"`
	EndDate    string   `json:"endDate"`
	Modules    []Module `json:"modules,omitempty"`
	IssuedAt   string   `json:"issuedAt,omitempty"`
	Signature  string   `json:"signature,omitempty"`
}

// MarshalJSON writes the record in canonical layout, with the signature last
// when one is set.
func (r Record) MarshalJSON() ([]byte, error) {
	return marshalRecord(r, r.Signature != ""), nil
}

// UnmarshalJSON reads a record from any JSON object with the license keys.
func (r *Record) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return errors.New("license document is not a JSON object")
	}
	var w wireRecord
	if err := json.Unmarshal(trimmed, &w); err != nil {
		return err
	}
	*r = Record(w)
	return nil
}

// Encode returns the transport form of a signed record: canonical JSON with the
// signature as the last key, encoded with padded standard Base64.
func Encode(r Record) string {
	return base64.StdEncoding.EncodeToString(marshalRecord(r, true))
}

// Decode reverses Encode. Surrounding whitespace, such as a trailing newline in
// a .lic file, is ignored. Failures are returned as a *CodecError.
func Decode(blob string) (Record, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(blob))
	if err != nil {
		return Record{}, &CodecError{Op: "decode base64", Err: err}
	}

	doc, err := DecodeJSON(raw)
	if err != nil {
		return Record{}, err
	}
	return doc, nil
}

// DecodeJSON parses the JSON document inside a license blob.
func DecodeJSON(doc []byte) (Record, error) {
	var rec Record
	if err := json.Unmarshal(doc, &rec); err != nil {
		return Record{}, &CodecError{Op: "decode json", Err: err}
	}
	return rec, nil
}
