package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogrusAdapter(t *testing.T) {
	tests := []struct {
		name        string
		level       string
		format      string
		expectLevel logrus.Level
	}{
		{name: "debug text", level: "debug", format: "text", expectLevel: logrus.DebugLevel},
		{name: "info json", level: "info", format: "json", expectLevel: logrus.InfoLevel},
		{name: "warn text", level: "warn", format: "text", expectLevel: logrus.WarnLevel},
		{name: "invalid level falls back to info", level: "loud", format: "text", expectLevel: logrus.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := NewLogrusAdapterWithOutput(tt.level, tt.format, &bytes.Buffer{})
			adapter, ok := logger.(*LogrusAdapter)
			require.True(t, ok)
			assert.Equal(t, tt.expectLevel, adapter.logger.Level)

			if tt.format == "json" {
				assert.IsType(t, &logrus.JSONFormatter{}, adapter.logger.Formatter)
			} else {
				assert.IsType(t, &logrus.TextFormatter{}, adapter.logger.Formatter)
			}
		})
	}
}

func TestNewLogrusAdapterFromLogger_Nil(t *testing.T) {
	logger := NewLogrusAdapterFromLogger(nil)
	adapter, ok := logger.(*LogrusAdapter)
	require.True(t, ok)
	assert.NotNil(t, adapter.logger)
}

func TestLogrusAdapter_JSONFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogrusAdapterWithOutput("debug", "json", &buf)

	logger.WithField(FieldRunID, "run-1").
		WithError(errors.New("boom")).
		Warn("file failed", F(FieldFile, "visa.csv"), F(FieldCount, 0))

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "file failed", entry["msg"])
	assert.Equal(t, "warning", entry["level"])
	assert.Equal(t, "run-1", entry[FieldRunID])
	assert.Equal(t, "visa.csv", entry[FieldFile])
	assert.Equal(t, "boom", entry["error"])
}

func TestLogrusAdapter_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogrusAdapterWithOutput("warn", "text", &buf)

	logger.Debug("hidden")
	logger.Info("hidden too")
	assert.Empty(t, buf.String())

	logger.Error("shown")
	assert.Contains(t, buf.String(), "shown")

	require.NoError(t, logger.(*LogrusAdapter).SetLevel("debug"))
	logger.Debug("now visible")
	assert.Contains(t, buf.String(), "now visible")
	assert.Error(t, logger.(*LogrusAdapter).SetLevel("nope"))
}

func TestMockLogger_ChildrenShareEntries(t *testing.T) {
	mock := NewMockLogger()
	child := mock.WithField(FieldInstitution, "visa")
	child.Info("imported", F(FieldCount, 3))
	mock.Warn("top level")

	entries := mock.Entries()
	require.Len(t, entries, 2)
	v, ok := entries[0].FieldValue(FieldInstitution)
	require.True(t, ok)
	assert.Equal(t, "visa", v)
	assert.True(t, mock.HasEntry("WARN", "top level"))
	assert.Len(t, mock.EntriesByLevel("INFO"), 1)
}
