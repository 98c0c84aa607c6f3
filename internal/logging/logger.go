package logging

import (
	"io"
	"log/slog"
	"os"
)

// fallback never reaches DBHandler, so flush failures cannot recurse.
var fallback = slog.New(NewJSONHandler(os.Stdout))

// Setup initializes the global slog logger with JSON output to stdout.
func Setup() {
	slog.SetDefault(slog.New(NewJSONHandler(os.Stdout)))
}

func NewJSONHandler(w io.Writer) slog.Handler {
	return slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
}
