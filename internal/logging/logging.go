package logging

import (
	"encoding/hex"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitLogger initializes the zerolog logger with the specified debug mode and output format.
func InitLogger(debug, human bool) {
	zerolog.TimeFieldFormat = time.RFC3339Nano                 // always initialize base logger with timestamp.
	base := zerolog.New(os.Stdout).With().Timestamp().Logger() // initialize base logger.
	if human {
		log.Logger = base.Output(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339Nano,
		}) // select output format.
	} else {
		log.Logger = base // use JSON logger.
	}
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel) // set debug level.
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel) // set info level.
	}
}

// LogTagRequest logs a received tag command with structured fields.
func LogTagRequest(
	clientIP string,
	command string,
	algorithm string,
	nonce []byte,
	messageLen int,
	activeConns int,
) {
	log.Info().
		Str("event", "request_received").
		Str("client_ip", clientIP).
		Str("command", command).
		Str("algorithm", algorithm).
		Str("nonce_hex", hex.EncodeToString(nonce)).
		Int("message_len", messageLen).
		Int("active_connections", activeConns).
		Msg("received tag request")
}

// LogTagResponse logs a sent tag response with structured fields.
func LogTagResponse(
	clientIP string,
	command string,
	tag []byte,
	errorCode string,
	duration time.Duration,
	activeConns int,
) {
	event := log.Info()
	if errorCode != "" {
		event = log.Warn()
	}

	event.
		Str("event", "response_sent").
		Str("client_ip", clientIP).
		Str("command", command).
		Str("tag_hex", hex.EncodeToString(tag)).
		Str("error_code", errorCode).
		Dur("duration", duration).
		Int("active_connections", activeConns).
		Msg("sent tag response")
}
