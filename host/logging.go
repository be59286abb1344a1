package host

import (
	"os"

	"github.com/charmbracelet/log"
)

// NewLogger builds the host daemon's structured logger, writing leveled,
// timestamped output to stderr. levelName accepts the usual names
// ("debug", "info", "warn", "error"); an unrecognized name falls back to
// info rather than failing startup over a typo in a config file.
func NewLogger(levelName string) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
	})
	logger.SetLevel(parseLevel(levelName))
	return logger
}

func parseLevel(name string) log.Level {
	lvl, err := log.ParseLevel(name)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}
