package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
	slogmulti "github.com/samber/slog-multi"
	slogjournal "github.com/systemd/slog-journal"
)

// Init initializes the logger
func Init(debug, noColor bool) {
	log.SetDefault(log.NewWithOptions(io.MultiWriter(os.Stderr),
		log.Options{
			ReportCaller:    true,
			ReportTimestamp: false,
			TimeFormat:      time.RFC3339,
			Prefix:          "VJPL",
		}))

	if !debug {
		log.SetLevel(log.WarnLevel)
	} else {
		log.SetLevel(log.DebugLevel)
	}

	log.SetColorProfile(termenv.ANSI256)
	if noColor {
		log.SetColorProfile(termenv.Ascii)
	}
}

// Sinks lists the extra destinations invocation records are copied to.
type Sinks struct {
	JSON    io.Writer // newline-delimited JSON records, nil to skip
	Journal bool      // systemd journal, skipped with a warning when unavailable
}

// Records returns a structured logger that writes to the default charm
// logger and fans out to the configured sinks. A journal that cannot be
// reached is left out and reported through the error; the logger is usable
// either way.
func Records(sinks Sinks) (*slog.Logger, error) {
	handlers := []slog.Handler{log.Default()}

	if sinks.JSON != nil {
		handlers = append(handlers, slog.NewJSONHandler(sinks.JSON, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}

	var journalErr error
	if sinks.Journal {
		journal, err := slogjournal.NewHandler(&slogjournal.Options{
			ReplaceGroup: journalKey,
			ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
				a.Key = journalKey(a.Key)
				return a
			},
		})
		if err != nil {
			journalErr = fmt.Errorf("journal logging unavailable: %w", err)
		} else {
			handlers = append(handlers, journal)
		}
	}

	return slog.New(slogmulti.Fanout(handlers...)), journalErr
}

// journalKey maps an attribute key to the upper-case form journald accepts.
func journalKey(key string) string {
	return strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
			return r
		}
		return '_'
	}, strings.ToUpper(key))
}

// OpenJSON opens (appending) the JSON record file at path. An empty path
// yields a nil writer and a no-op closer.
func OpenJSON(path string) (io.Writer, func() error, error) {
	if path == "" {
		return nil, func() error { return nil }, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening json log %s: %w", path, err)
	}
	return f, f.Close, nil
}
