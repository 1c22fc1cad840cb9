package party_test

import (
	"testing"

	"fjacquet/bank-import/cmd/party"

	"github.com/stretchr/testify/assert"
)

func TestPartyCommand_Metadata(t *testing.T) {
	assert.Equal(t, "party", party.Cmd.Use)
	assert.True(t, party.Cmd.HasSubCommands())
	assert.Equal(t, "set-default", party.SetDefaultCmd.Name())
	assert.Contains(t, party.SetDefaultCmd.Long, "--reset=false")
	assert.NotNil(t, party.SetDefaultCmd.RunE)
}

func TestSetDefaultCommand_Args(t *testing.T) {
	assert.Error(t, party.SetDefaultCmd.Args(party.SetDefaultCmd, []string{"WHOLE FOODS"}))
	assert.NoError(t, party.SetDefaultCmd.Args(party.SetDefaultCmd, []string{"WHOLE FOODS", "Groceries"}))
}
