package log

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name     string
		expected Level
	}{
		{"debug", Debug},
		{"INFO", Info},
		{"notice", Notice},
		{"warning", Warning},
		{"error", Error},
		{"critical", Error},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level, err := ParseLevel(tt.name)
			require.NoError(t, err)
			if level != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, level)
			}
		})
	}

	_, err := ParseLevel("chatty")
	require.Error(t, err)
}

func TestSinkAndLevel(t *testing.T) {
	var buf bytes.Buffer
	SetSink(&buf)
	defer SetSink(os.Stderr)
	defer SetLevel(Notice)

	logger := New("test")

	SetLevel(Warning)
	logger.Infof("hidden %d", 1)
	logger.Warningf("shown %d", 2)

	out := buf.String()
	require.False(t, strings.Contains(out, "hidden 1"))
	require.True(t, strings.Contains(out, "shown 2"))
	require.True(t, strings.Contains(out, "test"))

	buf.Reset()
	SetLevel(Debug)
	logger.Debugf("details")
	require.True(t, strings.Contains(buf.String(), "details"))
}
