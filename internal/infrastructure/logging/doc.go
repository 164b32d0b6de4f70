// Package logging provides structured logging for Cinematic Wish.
//
// It wraps the standard log/slog package so every component logs through
// the same handler with the same default fields.
//
// # Configuration
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "json"     # json, text
//	  output: "stdout"   # stdout, stderr, discard, or a file path
//
// When the terminal front end owns the screen, point output at stderr,
// a file, or discard so log lines do not tear the frame.
//
// # Usage
//
//	logger, closeLog, err := logging.Open(cfg.Logging, version)
//	defer closeLog()
//	logger.Info("experience started", "generation", 1)
package logging
