package query_test

import (
	"testing"

	"fjacquet/bank-import/cmd/query"
	"fjacquet/bank-import/internal/report"

	"github.com/stretchr/testify/assert"
)

func TestQueryCommand_Metadata(t *testing.T) {
	assert.Equal(t, "query", query.Cmd.Name())
	assert.Contains(t, query.Cmd.Short, "report query")
	assert.Equal(t, report.QueryNames(), query.Cmd.ValidArgs)
	for _, name := range report.QueryNames() {
		assert.Contains(t, query.Cmd.Long, name)
	}
	assert.NotNil(t, query.Cmd.RunE)
}

func TestQueryCommand_Args(t *testing.T) {
	assert.Error(t, query.Cmd.Args(query.Cmd, nil))
	assert.NoError(t, query.Cmd.Args(query.Cmd, []string{"monthly-cash-flow"}))
	assert.Error(t, query.Cmd.Args(query.Cmd, []string{"a", "b"}))
}

func TestQueryCommand_Flags(t *testing.T) {
	for name, def := range map[string]string{"month": "", "type": "", "format": "json"} {
		f := query.Cmd.Flags().Lookup(name)
		if assert.NotNil(t, f, name) {
			assert.Equal(t, def, f.DefValue)
		}
	}
}
