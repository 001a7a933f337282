package license

import (
	"bytes"
	"unicode/utf8"
)

// JSON keys in canonical order. Absent fields are skipped, never reordered.
const (
	keyCustomerID = "customerId"
	keyStartDate  = "startDate"
	keyEndDate    = "endDate"
	keyModules    = "modules"
	keyIssuedAt   = "issuedAt"
	keySignature  = "signature"
)

// Canonical returns the signing payload of r: every field except the signature,
// as compact JSON with a fixed key order.
//
// Layout: keys appear as customerId, startDate, endDate, modules, issuedAt with
// no whitespace around "," or ":". Strings are raw UTF-8; only '"', '\' and
// control characters below U+0020 are escaped. The output matches
// JSON.stringify for the same record.
func Canonical(r Record) []byte {
	return marshalRecord(r, false)
}

func marshalRecord(r Record, withSignature bool) []byte {
	var buf bytes.Buffer
	w := objectWriter{buf: &buf}

	buf.WriteByte('{')
	if r.CustomerID != "" {
		w.key(keyCustomerID)
		writeString(&buf, r.CustomerID)
	}
	w.key(keyStartDate)
	writeString(&buf, r.StartDate)
	w.key(keyEndDate)
	writeString(&buf, r.EndDate)
	if len(r.Modules) > 0 {
		w.key(keyModules)
		buf.WriteByte('[')
		for i, m := range r.Modules {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeString(&buf, string(m))
		}
		buf.WriteByte(']')
	}
	if r.IssuedAt != "" {
		w.key(keyIssuedAt)
		writeString(&buf, r.IssuedAt)
	}
	if withSignature {
		w.key(keySignature)
		writeString(&buf, r.Signature)
	}
	buf.WriteByte('}')

	return buf.Bytes()
}

type objectWriter struct {
	buf   *bytes.Buffer
	count int
}

func (w *objectWriter) key(name string) {
	if w.count > 0 {
		w.buf.WriteByte(',')
	}
	w.count++
	writeString(w.buf, name)
	w.buf.WriteByte(':')
}

const hexDigits = "0123456789abcdef"

// writeString writes s as a JSON string literal. Invalid UTF-8 is replaced
// with U+FFFD so the output is always valid JSON.
func writeString(buf *bytes.Buffer, s string) {
	buf.WriteByte('"')
	for i := 0; i < len(s); {
		c := s[i]
		if c < utf8.RuneSelf {
			switch {
			case c == '"':
				buf.WriteString(`\"`)
			case c == '\\':
				buf.WriteString(`\\`)
			case c == '\b':
				buf.WriteString(`\b`)
			case c == '\f':
				buf.WriteString(`\f`)
			case c == '\n':
				buf.WriteString(`\n`)
			case c == '\r':
				buf.WriteString(`\r`)
			case c == '\t':
				buf.WriteString(`\t`)
			case c < 0x20:
				buf.WriteString(`\u00`)
				buf.WriteByte(hexDigits[c>>4])
				buf.WriteByte(hexDigits[c&0xf])
			default:
				buf.WriteByte(c)
			}
			i++
			continue
		}

		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			buf.WriteRune(utf8.RuneError)
		} else {
			buf.WriteString(s[i : i+size])
		}
		i += size
	}
	buf.WriteByte('"')
}
