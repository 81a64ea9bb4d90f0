package ledger

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// GenesisHash is the sentinel previous-hash of the first ledger entry
const GenesisHash = "GENESIS"

// HashPrefixLength is the number of leading hash characters carried in the
// QR payload as a fast rejection pre-check
const HashPrefixLength = 8

// canonicalTimestampLayout is the second-precision ISO-8601 layout fed into
// the hash. Always rendered in UTC so the digest is independent of the host
// time zone.
const canonicalTimestampLayout = "2006-01-02T15:04:05Z"

// CanonicalItem is the hash-relevant subset of an invoice line
type CanonicalItem struct {
	ProductID string
	Quantity  int
	UnitPrice decimal.Decimal
	LineTotal decimal.Decimal
}

// CanonicalContent is the fixed subset of invoice fields that the chain
// hash commits to. The serialized form is part of the verification
// contract and must never change for a given payload version.
type CanonicalContent struct {
	InvoiceNumber string
	SellerID      string
	Total         decimal.Decimal
	Items         []CanonicalItem
	Timestamp     string
}

// CanonicalTimestamp renders a creation time in the canonical form used
// for hashing
func CanonicalTimestamp(t time.Time) string {
	return t.UTC().Format(canonicalTimestampLayout)
}

// ComputeHash calculates the lowercase hex SHA-256 chain hash for an
// invoice. The input is a compact JSON document with keys in lexicographic
// order and all monetary values rendered with exactly two fraction digits:
//
//	{"invoice_number":...,"items":[{"line_total":...,"product_id":...,
//	"quantity":...,"unit_price":...},...],"previous_hash":...,
//	"seller_id":...,"timestamp":...,"total":...}
//
// Any two implementations given the same field values produce byte-identical
// input, which is what makes hash comparison a valid verification mechanism.
// The function is pure: no I/O, no clock reads, no randomness.
func ComputeHash(content CanonicalContent, previousHash string) string {
	var b strings.Builder
	b.WriteString(`{"invoice_number":`)
	b.WriteString(jsonString(content.InvoiceNumber))
	b.WriteString(`,"items":[`)
	for i, item := range content.Items {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(`{"line_total":`)
		b.WriteString(item.LineTotal.StringFixed(2))
		b.WriteString(`,"product_id":`)
		b.WriteString(jsonString(item.ProductID))
		b.WriteString(`,"quantity":`)
		b.WriteString(strconv.Itoa(item.Quantity))
		b.WriteString(`,"unit_price":`)
		b.WriteString(item.UnitPrice.StringFixed(2))
		b.WriteByte('}')
	}
	b.WriteString(`],"previous_hash":`)
	b.WriteString(jsonString(previousHash))
	b.WriteString(`,"seller_id":`)
	b.WriteString(jsonString(content.SellerID))
	b.WriteString(`,"timestamp":`)
	b.WriteString(jsonString(content.Timestamp))
	b.WriteString(`,"total":`)
	b.WriteString(content.Total.StringFixed(2))
	b.WriteByte('}')

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

// HashPrefix returns the first n characters of a hash for QR payloads and
// receipt display
func HashPrefix(hash string, n int) string {
	if len(hash) < n {
		return hash
	}
	return hash[:n]
}

// jsonString renders s as a JSON string literal with standard escaping
func jsonString(s string) string {
	encoded, err := json.Marshal(s)
	if err != nil {
		// json.Marshal of a string cannot fail
		return `""`
	}
	return string(encoded)
}
