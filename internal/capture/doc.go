// Package capture stores captured RDM messages for later replay.
//
// A capture is a file of Records, either one JSON object per line (the
// default, easy to write by hand) or a CBOR sequence when the file name ends
// in ".cbor". Message bytes are stored as hex in JSON. A record may carry the
// declared message length from the capture source; bytes past it decode as
// trailer.
//
//	{"timestamp":"2026-01-02T15:04:05Z","seq":1,"source":"10.0.0.7:5568","data":"01 18 ..."}
package capture
