package log

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/apex/log"
)

// Environment variable holding the log level of the binaries.
const envLogLevel = "MEMO_LOG"

// InitLogger sets up apex/log with Handler on stdout and a level from the
// MEMO_LOG env variable. An unknown level falls back to ERROR.
func InitLogger() {
	level := strings.ToUpper(os.Getenv(envLogLevel))
	if level == "" {
		level = "ERROR"
	}
	log.SetHandler(&Handler{Out: os.Stdout})

	l, err := log.ParseLevel(strings.ToLower(level))
	if err != nil {
		l = log.ErrorLevel
	}
	log.SetLevel(l)
}

// Handler writes one line per entry: time, level initial, message, sorted fields.
type Handler struct {
	Out io.Writer
}

// HandleLog implements the log.Handler interface
func (h *Handler) HandleLog(e *log.Entry) error {
	timestamp := e.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %.1s %s", timestamp.Format("2006-01-02 15:04:05"), strings.ToUpper(e.Level.String()), e.Message)

	names := e.Fields.Names()
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&b, " %s=%v", name, e.Fields.Get(name))
	}
	b.WriteByte('\n')

	_, err := io.WriteString(h.Out, b.String())
	return err
}
