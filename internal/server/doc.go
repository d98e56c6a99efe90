// Package server implements a websocket ingest server for RDM messages.
//
// Capture tools and gateways connect to /ws and send one RDM message per
// frame: binary frames carry the raw bytes (sub-start code first), text
// frames carry hex. Every frame is answered with a JSON Reply holding the
// decoded field tree. The same decode is available as a plain HTTP POST to
// /decode for curl and scripts.
//
// # Usage Example
//
//	srv, err := server.New(&server.Config{Addr: ":8080", CaptureDir: "captures"}, nil)
//	if err != nil {
//	    return err
//	}
//	// Start blocks until SIGINT or SIGTERM
//	return srv.Start()
//
// # Capture
//
// When CaptureDir is set every received message is appended to a
// timestamped JSONL capture (see package capture) before decoding, so a
// session can be replayed later with "rdmscope replay".
//
// # Thread Safety
//
// Each websocket connection runs on its own goroutine and decodes on it.
// The decoder is shared and safe for concurrent use.
package server
