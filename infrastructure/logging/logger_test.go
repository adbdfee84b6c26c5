package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLevels(t *testing.T) {
	var buf bytes.Buffer
	logger, closer := New(Options{Level: "debug", Output: &buf})
	defer closer.Close()
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())

	logger, _ = New(Options{Level: "loud", Output: &buf})
	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
	assert.Contains(t, buf.String(), "unknown log level")
}

func TestNewJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, _ := New(Options{Format: "json", Output: &buf})

	logger.WithField("actor", "Nadia").Info("activity performed")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "Nadia", entry["actor"])
	assert.Equal(t, "activity performed", entry["msg"])
}

func TestNewTeesIntoFile(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "logs", "run.log")

	logger, closer := New(Options{Level: "info", File: path, Output: &buf})
	logger.Info("scenario started")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "scenario started")
	assert.Contains(t, buf.String(), "scenario started")
}
