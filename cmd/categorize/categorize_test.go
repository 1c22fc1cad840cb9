package categorize_test

import (
	"testing"

	"fjacquet/bank-import/cmd/categorize"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
)

func TestCategorizeCommand_Metadata(t *testing.T) {
	assert.Equal(t, "categorize", categorize.Cmd.Use)
	assert.Contains(t, categorize.Cmd.Short, "categorized")
	assert.Contains(t, categorize.Cmd.Long, "Nothing is written to the database")
	assert.NotNil(t, categorize.Cmd.RunE)
}

func TestCategorizeCommand_Flags(t *testing.T) {
	tests := []struct {
		name      string
		shorthand string
		required  bool
	}{
		{"institution", "i", true},
		{"description", "d", true},
		{"bank-category", "b", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := categorize.Cmd.Flags().Lookup(tt.name)
			if !assert.NotNil(t, f) {
				return
			}
			assert.Equal(t, tt.shorthand, f.Shorthand)
			_, required := f.Annotations[cobra.BashCompOneRequiredFlag]
			assert.Equal(t, tt.required, required)
		})
	}
}
