package common

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"fjacquet/bank-import/internal/logging"
	"fjacquet/bank-import/internal/parsererror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "statement.csv")
	require.NoError(t, os.WriteFile(path, content, 0o600))
	return path
}

func collect(t *testing.T, r *RecordReader) []Record {
	t.Helper()
	var out []Record
	for rec, err := range r.Records() {
		require.NoError(t, err)
		out = append(out, rec)
	}
	return out
}

func TestSanitizeHeader(t *testing.T) {
	tests := map[string]string{
		"\uFEFFDate":       "Date",
		"\uFEFF\"Date\"":   "Date",
		` "Amount" `:       "Amount",
		"Payee":            "Payee",
		"  Bank Category ": "Bank Category",
	}
	for in, want := range tests {
		assert.Equal(t, want, SanitizeHeader(in), "%q", in)
	}
}

func TestOpenCSV_BOMAndQuotedHeaders(t *testing.T) {
	content := "\uFEFF\"Date\",\"Amount\",\"Payee\"\n01/15/2024,-5.75,STARBUCKS\n01/16/2024,12.00,\"ACME, INC\"\n"
	r, err := OpenCSV(writeFile(t, []byte(content)), Options{}, logging.NewMockLogger())
	require.NoError(t, err)
	defer func() { _ = r.Close() }()

	assert.Equal(t, []string{"Date", "Amount", "Payee"}, r.Header())

	rows := collect(t, r)
	require.Len(t, rows, 2)
	assert.Equal(t, "01/15/2024", rows[0].Get("Date"))
	assert.Equal(t, "STARBUCKS", rows[0].Get("Payee"))
	assert.Equal(t, 2, rows[0].Line)
	assert.Equal(t, "ACME, INC", rows[1].Get("Payee"))
}

func TestOpenCSV_DelimiterAndRaggedRows(t *testing.T) {
	content := "Date;Amount;Payee;Memo\n2024-01-01;10;SHOP\n2024-01-02;20;CAFE;lunch;extra\n"
	r, err := OpenCSV(writeFile(t, []byte(content)), Options{Delimiter: ';'}, logging.NewMockLogger())
	require.NoError(t, err)
	defer func() { _ = r.Close() }()

	rows := collect(t, r)
	require.Len(t, rows, 2)
	assert.Equal(t, "SHOP", rows[0].Get("Payee"))
	assert.Equal(t, "", rows[0].Get("Memo"))
	assert.Equal(t, "lunch", rows[1].Get("Memo"))
	assert.Equal(t, "", rows[1].Get("Nope"))
}

func TestOpenCSV_Windows1252(t *testing.T) {
	// 0xE9 is 'é' in windows-1252.
	content := []byte("Date,Amount,Payee\n2024-02-01,-3.20,CAF\xE9 DU COIN\n")
	r, err := OpenCSV(writeFile(t, content), Options{Encoding: "windows-1252"}, logging.NewMockLogger())
	require.NoError(t, err)
	defer func() { _ = r.Close() }()

	rows := collect(t, r)
	require.Len(t, rows, 1)
	assert.Equal(t, "CAFÉ DU COIN", rows[0].Get("Payee"))
}

func TestOpenCSV_Errors(t *testing.T) {
	logger := logging.NewMockLogger()

	_, err := OpenCSV(filepath.Join(t.TempDir(), "missing.csv"), Options{}, logger)
	require.Error(t, err)

	var formatErr *parsererror.InvalidFormatError
	_, err = OpenCSV(writeFile(t, nil), Options{}, logger)
	require.True(t, errors.As(err, &formatErr))
	assert.Equal(t, "file is empty", formatErr.Msg)

	_, err = OpenCSV(writeFile(t, []byte("a,b\n")), Options{Encoding: "ebcdic"}, logger)
	require.True(t, errors.As(err, &formatErr))
}

func TestRecords_StopEarly(t *testing.T) {
	r, err := OpenCSV(writeFile(t, []byte("A\n1\n2\n3\n")), Options{}, logging.NewMockLogger())
	require.NoError(t, err)
	defer func() { _ = r.Close() }()

	seen := 0
	for range r.Records() {
		seen++
		if seen == 2 {
			break
		}
	}
	assert.Equal(t, 2, seen)
}

func TestLookupEncoding(t *testing.T) {
	for _, name := range []string{"", "UTF-8", "utf-16", "windows-1252", "latin1", "iso-8859-15"} {
		_, err := LookupEncoding(name)
		assert.NoError(t, err, name)
	}
	_, err := LookupEncoding("klingon")
	assert.Error(t, err)
}
