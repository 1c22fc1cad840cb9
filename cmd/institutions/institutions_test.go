package institutions

import (
	"bytes"
	"testing"

	"fjacquet/bank-import/internal/institution"
	"fjacquet/bank-import/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstitutionsCommand_Metadata(t *testing.T) {
	assert.Equal(t, "institutions", Cmd.Use)
	assert.Contains(t, Cmd.Short, "institution keys")
	assert.NotNil(t, Cmd.RunE)
}

func TestList(t *testing.T) {
	maps := `{
		"visa": {"dateFormat": "MM/dd/yyyy", "Date": "Date", "Amount": "Amount", "Payee": "Payee",
			"account": {"name": "Visa", "type": "credit"}, "rules": [{"match": "amazon", "category": "Shopping"}]},
		"broken": {"dateFormat": "yyyy-MM-dd", "Date": "Date", "Amount": "Amount", "Payee": "Payee"}
	}`
	reg, err := institution.Parse([]byte(maps), "json", "maps.json", logging.NewMockLogger())
	require.NoError(t, err)

	var buf bytes.Buffer
	list(&buf, reg)
	out := buf.String()
	assert.Contains(t, out, "visa\tVisa (credit)\t1 rules\n")
	assert.Contains(t, out, "broken\tinvalid: ")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("broken")), bytes.Index(buf.Bytes(), []byte("visa")))
}
