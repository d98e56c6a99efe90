package capture

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fxamacker/cbor/v2"
)

// Filter selects records. Empty fields match everything.
type Filter struct {
	Source    string
	Direction Direction
}

func (f Filter) matches(rec Record) bool {
	if f.Source != "" && rec.Source != f.Source {
		return false
	}
	if f.Direction != "" && rec.Direction != f.Direction {
		return false
	}
	return true
}

// Reader iterates over the records of a capture
type Reader struct {
	next   func() (Record, error)
	closer io.Closer
	filter Filter
}

// OpenReader opens a capture file, picking the format from its extension
func OpenReader(path string, filter Filter) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open capture file: %w", err)
	}
	r := NewReader(f, FormatFor(path), filter)
	r.closer = f
	return r, nil
}

// NewReader reads records in format from r
func NewReader(r io.Reader, format Format, filter Filter) *Reader {
	if format == FormatCBOR {
		return &Reader{next: cborRecords(r), filter: filter}
	}
	return &Reader{next: jsonRecords(r), filter: filter}
}

func cborRecords(r io.Reader) func() (Record, error) {
	dec := cbor.NewDecoder(r)
	n := 0
	return func() (Record, error) {
		var rec Record
		if err := dec.Decode(&rec); err != nil {
			if errors.Is(err, io.EOF) {
				return Record{}, io.EOF
			}
			return Record{}, fmt.Errorf("record %d: %w", n+1, err)
		}
		n++
		return rec, nil
	}
}

func jsonRecords(r io.Reader) func() (Record, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	line := 0
	return func() (Record, error) {
		for sc.Scan() {
			line++
			text := bytes.TrimSpace(sc.Bytes())
			if len(text) == 0 || text[0] == '#' {
				continue
			}
			var rec Record
			if err := json.Unmarshal(text, &rec); err != nil {
				return Record{}, fmt.Errorf("line %d: %w", line, err)
			}
			return rec, nil
		}
		if err := sc.Err(); err != nil {
			return Record{}, fmt.Errorf("line %d: %w", line+1, err)
		}
		return Record{}, io.EOF
	}
}

// Next returns the next matching record, or io.EOF
func (r *Reader) Next() (Record, error) {
	for {
		rec, err := r.next()
		if err != nil {
			return Record{}, err
		}
		if r.filter.matches(rec) {
			return rec, nil
		}
	}
}

// Close closes the underlying file, if the reader opened one
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}

// ReadFile returns every record in a capture file
func ReadFile(path string) ([]Record, error) {
	r, err := OpenReader(path, Filter{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()

	var recs []Record
	for {
		rec, err := r.Next()
		if errors.Is(err, io.EOF) {
			return recs, nil
		}
		if err != nil {
			return recs, fmt.Errorf("%s: %w", path, err)
		}
		recs = append(recs, rec)
	}
}
