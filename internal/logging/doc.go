// Package logging provides structured logging for rdmscope.
//
// This package wraps a package-global zap logger. It is silent unless a level
// is passed to Initialize or set in RDMSCOPE_LOG_LEVEL, so the decoder can be
// used as a library without producing output.
//
// # Log Levels
//
//   - Debug: decode traces, hex dumps, websocket frames
//   - Info: server lifecycle, connections, captures
//   - Warn: clamped lengths, dropped frames
//   - Error: startup failures
//
// # Usage
//
//	if err := logging.Initialize(flagLevel); err != nil {
//	    return err
//	}
//	defer logging.Sync()
//
//	logging.Info("Capture opened", zap.String("path", path))
//
// Decoders take the logger explicitly:
//
//	dec := rdm.NewDecoder(rdm.WithLogger(logging.GetLogger()))
//
// Logs are written to stderr in console format.
package logging
