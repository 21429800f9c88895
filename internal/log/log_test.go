package log

import (
	"bytes"
	"testing"
	"time"

	"github.com/apex/log"
	"github.com/stretchr/testify/assert"
)

func TestHandlerFormat(t *testing.T) {
	var buf bytes.Buffer
	h := &Handler{Out: &buf}

	err := h.HandleLog(&log.Entry{
		Level:     log.WarnLevel,
		Message:   "producer failed",
		Timestamp: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		Fields:    log.Fields{"key": "1", "error": "boom"},
	})

	assert.NoError(t, err)
	assert.Equal(t, "2025-01-02 03:04:05 W producer failed error=boom key=1\n", buf.String())
}

func TestInitLoggerLevel(t *testing.T) {
	tests := []struct {
		env  string
		want log.Level
	}{
		{env: "", want: log.ErrorLevel},
		{env: "debug", want: log.DebugLevel},
		{env: "WARN", want: log.WarnLevel},
		{env: "nonsense", want: log.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			t.Setenv(envLogLevel, tt.env)
			InitLogger()
			assert.Equal(t, tt.want, log.Log.(*log.Logger).Level)
		})
	}
}
