package root_test

import (
	"testing"

	"fjacquet/bank-import/cmd/root"

	"github.com/stretchr/testify/assert"
)

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "bank-import", root.Cmd.Use)
	assert.Contains(t, root.Cmd.Short, "Import bank CSV exports")
	assert.Contains(t, root.Cmd.Long, "per-institution map")
	assert.NotNil(t, root.Cmd.PersistentPreRunE)
	assert.NotNil(t, root.Cmd.PersistentPostRun)
	assert.True(t, root.Cmd.SilenceUsage)
}

func TestRootCommand_Flags(t *testing.T) {
	if root.Cmd.PersistentFlags().Lookup("db") == nil {
		root.Init()
	}

	tests := []struct {
		name     string
		defValue string
	}{
		{"config", ""},
		{"db", "finance.db"},
		{"maps", "maps.json"},
		{"log-level", "info"},
		{"log-format", "text"},
		{"metrics-file", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := root.Cmd.PersistentFlags().Lookup(tt.name)
			if assert.NotNil(t, f) {
				assert.Equal(t, tt.defValue, f.DefValue)
				assert.NotEmpty(t, f.Usage)
			}
		})
	}
}

func TestGetContainer_BeforeSetup(t *testing.T) {
	assert.Nil(t, root.GetContainer())
}
