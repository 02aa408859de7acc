package utils

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitLogger configures the global zerolog logger. Development gets a colored
// console writer, everything else JSON to stdout.
func InitLogger(env string) {
	zerolog.TimeFieldFormat = time.RFC3339

	if env == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		return
	}
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

// PrintLogInfo records the outcome of a handler invocation.
func PrintLogInfo(subject *string, statusCode int, functionName string, err *error) {
	evt := log.Info()
	if statusCode >= 500 {
		evt = log.Error()
	} else if statusCode >= 400 {
		evt = log.Warn()
	}

	who := "anonymous"
	if subject != nil {
		who = *subject
	}
	if err != nil && *err != nil {
		evt = evt.Err(*err)
	}
	evt.Str("subject", who).Int("status", statusCode).Str("handler", functionName).Send()
}
