package batch_test

import (
	"testing"

	"fjacquet/bank-import/cmd/batch"

	"github.com/stretchr/testify/assert"
)

func TestImportCommand_Metadata(t *testing.T) {
	assert.Equal(t, "import", batch.Cmd.Name())
	assert.Contains(t, batch.Cmd.Aliases, "batch")
	assert.Contains(t, batch.Cmd.Short, "Import bank CSV files")
	assert.NotNil(t, batch.Cmd.RunE)
}

func TestImportCommand_LongDescription(t *testing.T) {
	assert.Contains(t, batch.Cmd.Long, "(file, institution) pairs")
	assert.Contains(t, batch.Cmd.Long, "--reset=false")
	assert.Contains(t, batch.Cmd.Long, "Example")
}

func TestImportCommand_ResetFlag(t *testing.T) {
	f := batch.Cmd.Flags().Lookup("reset")
	if assert.NotNil(t, f) {
		assert.Equal(t, "true", f.DefValue)
	}
}
