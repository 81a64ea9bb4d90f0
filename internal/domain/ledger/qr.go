package ledger

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// QR payload wire format constants. The payload is exactly six
// pipe-delimited fields:
//
//	OPENINVOICE|v1|{invoice_number}|{total}|{hash_prefix}|{unix_timestamp}
const (
	QRTag     = "OPENINVOICE"
	QRVersion = "v1"

	qrFieldCount = 6
)

// FormatError reports a malformed QR payload. It carries the offending
// payload for diagnostics and never escalates to a crash.
type FormatError struct {
	Payload string
	Reason  string
}

func (e *FormatError) Error() string {
	return "invalid QR payload: " + e.Reason
}

// UnsupportedVersionError reports a payload whose version field is newer
// than this decoder understands. Decoding fails closed rather than guessing
// a layout.
type UnsupportedVersionError struct {
	Version string
}

func (e *UnsupportedVersionError) Error() string {
	return "unsupported QR payload version: " + e.Version
}

// QRPayload holds the fields parsed from a scanned QR payload
type QRPayload struct {
	Version       string
	InvoiceNumber string
	Total         decimal.Decimal
	HashPrefix    string
	Timestamp     int64
	Raw           string
}

// EncodeQR builds the verification payload for an invoice
func EncodeQR(inv *Invoice) string {
	return fmt.Sprintf("%s|%s|%s|%s|%s|%d",
		QRTag,
		QRVersion,
		inv.InvoiceNumber,
		inv.Total.StringFixed(2),
		HashPrefix(inv.CurrentHash, HashPrefixLength),
		inv.CreatedAt.Unix(),
	)
}

// DecodeQR parses a scanned payload back into its fields. It validates the
// field count, the literal tag, and the version before touching anything
// else; any deviation yields a FormatError or UnsupportedVersionError.
func DecodeQR(payload string) (*QRPayload, error) {
	parts := strings.Split(payload, "|")
	if len(parts) != qrFieldCount {
		return nil, &FormatError{Payload: payload, Reason: fmt.Sprintf("expected %d fields, got %d", qrFieldCount, len(parts))}
	}
	if parts[0] != QRTag {
		return nil, &FormatError{Payload: payload, Reason: "unrecognized tag " + strconv.Quote(parts[0])}
	}
	if parts[1] != QRVersion {
		return nil, &UnsupportedVersionError{Version: parts[1]}
	}
	if parts[2] == "" {
		return nil, &FormatError{Payload: payload, Reason: "empty invoice number"}
	}

	total, err := decimal.NewFromString(parts[3])
	if err != nil {
		return nil, &FormatError{Payload: payload, Reason: "malformed total " + strconv.Quote(parts[3])}
	}

	timestamp, err := strconv.ParseInt(parts[5], 10, 64)
	if err != nil {
		return nil, &FormatError{Payload: payload, Reason: "malformed timestamp " + strconv.Quote(parts[5])}
	}

	return &QRPayload{
		Version:       parts[1],
		InvoiceNumber: parts[2],
		Total:         total,
		HashPrefix:    parts[4],
		Timestamp:     timestamp,
		Raw:           payload,
	}, nil
}
