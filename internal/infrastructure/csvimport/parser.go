package csvimport

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// Parser reads header-addressed rows from a CSV stream. It strips a UTF-8
// BOM, validates the encoding, and maps each data row to its header
// columns so callers never index by position.
type Parser struct {
	reader    *csv.Reader
	headerMap map[string]int
	headers   []string
	row       int
}

// ParserOption is a functional option for Parser configuration
type ParserOption func(*csv.Reader)

// WithDelimiter sets the field delimiter (default is comma)
func WithDelimiter(d rune) ParserOption {
	return func(r *csv.Reader) {
		r.Comma = d
	}
}

// NewParser creates a new Parser from a reader
func NewParser(r io.Reader, opts ...ParserOption) (*Parser, error) {
	buf := bufio.NewReader(r)

	// Detect and strip UTF-8 BOM (0xEF 0xBB 0xBF)
	head, err := buf.Peek(3)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if len(head) >= 3 && head[0] == 0xEF && head[1] == 0xBB && head[2] == 0xBF {
		_, _ = buf.Discard(3)
	}

	if err := validateUTF8(buf); err != nil {
		return nil, err
	}

	reader := csv.NewReader(buf)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1
	for _, opt := range opts {
		opt(reader)
	}

	return &Parser{reader: reader, headerMap: make(map[string]int)}, nil
}

// validateUTF8 checks that the leading content is valid UTF-8
func validateUTF8(r *bufio.Reader) error {
	const checkSize = 4096
	content, err := r.Peek(checkSize)
	if err != nil && err != io.EOF {
		return fmt.Errorf("failed to read file for encoding validation: %w", err)
	}
	if len(content) == 0 {
		return ErrEmptyFile
	}
	// A multi-byte rune may be split at the peek boundary; trim back to the
	// last full rune before validating
	end := len(content)
	if end == checkSize {
		for end > 0 && !utf8.RuneStart(content[end-1]) {
			end--
		}
		if end > 0 {
			end--
		}
	}
	if !utf8.Valid(content[:end]) {
		return ErrInvalidEncoding
	}
	return nil
}

// ParseHeader reads the header row and verifies the required columns are
// present. Header names are matched case-insensitively.
func (p *Parser) ParseHeader(required []string) error {
	record, err := p.reader.Read()
	if err == io.EOF {
		return ErrMissingHeader
	}
	if err != nil {
		return fmt.Errorf("failed to read header: %w", err)
	}
	p.row = 1

	for i, name := range record {
		normalized := strings.ToLower(strings.TrimSpace(name))
		p.headerMap[normalized] = i
		p.headers = append(p.headers, normalized)
	}

	for _, col := range required {
		if _, ok := p.headerMap[strings.ToLower(col)]; !ok {
			return &MissingColumnError{Column: col}
		}
	}
	return nil
}

// ReadRow returns the next data row keyed by header name together with
// its 1-based row number. It returns io.EOF when the stream is exhausted.
func (p *Parser) ReadRow() (map[string]string, int, error) {
	record, err := p.reader.Read()
	if err != nil {
		return nil, p.row, err
	}
	p.row++

	fields := make(map[string]string, len(p.headers))
	for name, idx := range p.headerMap {
		if idx < len(record) {
			fields[name] = strings.TrimSpace(record[idx])
		} else {
			fields[name] = ""
		}
	}
	return fields, p.row, nil
}
