package capture

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fxamacker/cbor/v2"
)

// Format of a capture file
type Format int

const (
	FormatJSONL Format = iota // One JSON record per line
	FormatCBOR                // A sequence of CBOR records
)

// ErrClosed is returned by Append after Close
var ErrClosed = errors.New("capture: writer closed")

var encMode cbor.EncMode

func init() {
	var err error
	encOpts := cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
		Time:          cbor.TimeRFC3339Nano,
	}
	encMode, err = encOpts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create CBOR encoder mode: %v", err))
	}
}

// FormatFor picks the format from a file extension. ".cbor" selects CBOR,
// anything else JSONL.
func FormatFor(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".cbor") {
		return FormatCBOR
	}
	return FormatJSONL
}

type encoder interface {
	Encode(v any) error
}

// Writer appends records to a capture file. It is safe for concurrent use.
type Writer struct {
	mu     sync.Mutex
	file   *os.File
	enc    encoder
	path   string
	closed bool
}

// Open opens path for appending, creating it if needed
func Open(path string) (*Writer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open capture file: %w", err)
	}
	return &Writer{file: f, enc: newEncoder(f, FormatFor(path)), path: path}, nil
}

// Create opens a new timestamped JSONL capture in dir
func Create(dir string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create capture directory: %w", err)
	}
	name := fmt.Sprintf("capture-%s.jsonl", time.Now().Format("20060102-150405"))
	return Open(filepath.Join(dir, name))
}

func newEncoder(w io.Writer, format Format) encoder {
	if format == FormatCBOR {
		return encMode.NewEncoder(w)
	}
	return json.NewEncoder(w)
}

// Path returns the file being written
func (w *Writer) Path() string {
	return w.path
}

// Append writes one record
func (w *Writer) Append(rec Record) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrClosed
	}
	if err := w.enc.Encode(rec); err != nil {
		return fmt.Errorf("failed to write capture record %d: %w", rec.Seq, err)
	}
	return nil
}

// Close closes the file. It is safe to call more than once.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true
	return w.file.Close()
}
