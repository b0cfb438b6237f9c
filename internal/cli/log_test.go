package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestProgressLogsElapsedDuration(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.InfoLevel})

	p := newProgress(logger)
	p.done("downloaded network")

	out := buf.String()
	if !strings.Contains(out, "downloaded network (") {
		t.Errorf("output missing message with duration: %q", out)
	}
}

func TestSetLogLevel(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf, LogInfo)

	c.Logger.Debug("hidden")
	if strings.Contains(buf.String(), "hidden") {
		t.Error("debug message should be filtered at info level")
	}

	c.SetLogLevel(LogDebug)
	c.Logger.Debug("visible")
	if !strings.Contains(buf.String(), "visible") {
		t.Error("debug message should appear after SetLogLevel(LogDebug)")
	}
}
