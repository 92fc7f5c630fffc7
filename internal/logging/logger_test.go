package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestConfigure_JSONAndLevel(t *testing.T) {
	l := logrus.New()
	configure(l, Options{Level: "warn", Format: "json"})

	var buf bytes.Buffer
	l.SetOutput(&buf)

	l.Info("dropped")
	require.Zero(t, buf.Len())

	l.WithField("task_id", "abc").Warn("kept")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "kept", entry["msg"])
	require.Equal(t, "abc", entry["task_id"])
}

func TestConfigure_UnknownLevelFallsBackToInfo(t *testing.T) {
	l := logrus.New()
	configure(l, Options{Level: "loud"})
	require.Equal(t, logrus.InfoLevel, l.GetLevel())
}

func TestConfigure_SourceOnEveryEntry(t *testing.T) {
	l := logrus.New()
	configure(l, Options{Level: "info", Format: "json", Source: "pm-assistant-api"})

	var buf bytes.Buffer
	l.SetOutput(&buf)

	l.Info("first")
	l.WithField("task_id", "abc").Warn("second")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)
	for _, line := range lines {
		var entry map[string]any
		require.NoError(t, json.Unmarshal(line, &entry))
		require.Equal(t, "pm-assistant-api", entry["source"])
	}
}
