// Package common holds the streaming CSV reader shared by every
// institution import.
package common

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"strings"

	"github.com/gocarina/gocsv"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"fjacquet/bank-import/internal/logging"
	"fjacquet/bank-import/internal/parsererror"
)

const byteOrderMark = "\uFEFF"

// Options describe how a statement file is encoded.
type Options struct {
	// Delimiter separates fields; zero means ','.
	Delimiter rune
	// Encoding names the source character set; empty means UTF-8.
	Encoding string
}

// Record is one data row keyed by sanitized column name.
type Record struct {
	// Line is the 1-based line of the row in the source file.
	Line   int
	Values map[string]string
}

// Get returns the value of column, or "" when the row has no such column.
func (r Record) Get(column string) string {
	return r.Values[column]
}

// LookupEncoding returns the decoder for a supported encoding name.
func LookupEncoding(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return unicode.UTF8BOM, nil
	case "utf-16", "utf16":
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM), nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252, nil
	case "iso-8859-1", "latin1", "latin-1":
		return charmap.ISO8859_1, nil
	case "iso-8859-15", "latin9":
		return charmap.ISO8859_15, nil
	default:
		return nil, fmt.Errorf("unsupported encoding %q", name)
	}
}

// SanitizeHeader removes a leading byte-order mark, surrounding double
// quotes and surrounding whitespace from a column name.
func SanitizeHeader(name string) string {
	name = strings.TrimLeft(name, byteOrderMark)
	name = strings.TrimSpace(name)
	name = strings.Trim(name, `"`)
	return strings.TrimSpace(name)
}

// RecordReader streams the rows of one CSV file. It is single-use: Records
// can be ranged over once.
type RecordReader struct {
	path   string
	file   io.Closer
	reader *csv.Reader
	header []string
	logger logging.Logger
}

// OpenCSV opens path, decodes it and reads the header row. Header names are
// sanitized once here so rows never need it.
func OpenCSV(path string, opts Options, logger logging.Logger) (*RecordReader, error) {
	enc, err := LookupEncoding(opts.Encoding)
	if err != nil {
		return nil, &parsererror.InvalidFormatError{FilePath: path, ExpectedFormat: "CSV", Msg: "unknown encoding", Err: err}
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening CSV file: %w", err)
	}

	decoded := transform.NewReader(file, enc.NewDecoder())
	reader, ok := gocsv.LazyCSVReader(decoded).(*csv.Reader)
	if !ok {
		_ = file.Close()
		return nil, fmt.Errorf("unexpected CSV reader type")
	}
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = false
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}

	raw, err := reader.Read()
	if err != nil {
		_ = file.Close()
		msg := "unreadable header row"
		if errors.Is(err, io.EOF) {
			msg = "file is empty"
			err = nil
		}
		return nil, &parsererror.InvalidFormatError{FilePath: path, ExpectedFormat: "CSV with header row", Msg: msg, Err: err}
	}

	header := make([]string, len(raw))
	for i, name := range raw {
		header[i] = SanitizeHeader(name)
	}

	logger.Debug("Opened CSV file",
		logging.F(logging.FieldFile, path),
		logging.F("columns", strings.Join(header, "|")))

	return &RecordReader{path: path, file: file, reader: reader, header: header, logger: logger}, nil
}

// Header returns the sanitized column names.
func (r *RecordReader) Header() []string {
	out := make([]string, len(r.header))
	copy(out, r.header)
	return out
}

// Records yields rows lazily. Short rows leave trailing columns unset and
// extra fields are ignored. A read error is yielded once and ends the
// sequence.
func (r *RecordReader) Records() iter.Seq2[Record, error] {
	return func(yield func(Record, error) bool) {
		for {
			fields, err := r.reader.Read()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(Record{}, &parsererror.InvalidFormatError{FilePath: r.path, ExpectedFormat: "CSV", Msg: "unreadable row", Err: err})
				return
			}
			line, _ := r.reader.FieldPos(0)

			values := make(map[string]string, len(r.header))
			for i, name := range r.header {
				if i >= len(fields) {
					break
				}
				if _, dup := values[name]; dup {
					continue
				}
				values[name] = fields[i]
			}
			if !yield(Record{Line: line, Values: values}, nil) {
				return
			}
		}
	}
}

// Close releases the underlying file.
func (r *RecordReader) Close() error {
	return r.file.Close()
}
