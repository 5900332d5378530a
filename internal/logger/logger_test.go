package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		wantDebug bool
		wantWarn  bool
		wantErr   bool
	}{
		{name: "debug", level: "debug", wantDebug: true, wantWarn: true},
		{name: "upper case", level: "INFO", wantWarn: true},
		{name: "warn", level: "warn", wantWarn: true},
		{name: "error", level: "error"},
		{name: "invalid", level: "loud", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log, err := New(&buf, tt.level)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			log.Debug("debug message")
			log.Warn("warn message", "user_id", 42)

			assert.Equal(t, tt.wantDebug, bytes.Contains(buf.Bytes(), []byte("debug message")))
			assert.Equal(t, tt.wantWarn, bytes.Contains(buf.Bytes(), []byte("warn message")))
			if tt.wantWarn {
				assert.Contains(t, buf.String(), "user_id=42")
			}
		})
	}
}
