package capture

import (
	"bytes"
	"encoding/hex"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/muurk/rdmscope/internal/rdm"
)

func sampleMessage(t *testing.T) []byte {
	t.Helper()
	b, err := rdm.Build(rdm.Request{
		Destination:  rdm.UID{Manufacturer: 0x6574, Device: 1},
		Source:       rdm.UID{Manufacturer: 0x7a70, Device: 2},
		CommandClass: rdm.GetCommand,
		ParameterID:  rdm.PIDDeviceInfo,
	})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return b
}

func writeRecords(t *testing.T, path string, recs []Record) {
	t.Helper()
	w, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	for _, r := range recs {
		if err := w.Append(r); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
}

func TestWriterReader(t *testing.T) {
	msg := sampleMessage(t)
	recs := []Record{
		NewRecord("10.0.0.7:5568", 1, msg),
		{Timestamp: time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC), Seq: 2, Source: "file", Direction: DirectionOut, Length: 10, Data: msg},
	}

	for _, name := range []string{"capture.jsonl", "capture.cbor"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			writeRecords(t, path, recs)

			got, err := ReadFile(path)
			if err != nil {
				t.Fatalf("ReadFile() error = %v", err)
			}
			if len(got) != len(recs) {
				t.Fatalf("got %d records, want %d", len(got), len(recs))
			}
			for i := range recs {
				if !bytes.Equal(got[i].Data, recs[i].Data) {
					t.Errorf("record %d data = %x, want %x", i, got[i].Data, recs[i].Data)
				}
				if got[i].Seq != recs[i].Seq || got[i].Source != recs[i].Source || got[i].Direction != recs[i].Direction {
					t.Errorf("record %d = %+v, want %+v", i, got[i], recs[i])
				}
				if !got[i].Timestamp.Equal(recs[i].Timestamp) {
					t.Errorf("record %d timestamp = %v, want %v", i, got[i].Timestamp, recs[i].Timestamp)
				}
			}
			if m := got[1].Message(); m.Length != 10 {
				t.Errorf("declared length = %d, want 10", m.Length)
			}
			if m := got[0].Message(); m.Length != len(msg) {
				t.Errorf("default length = %d, want %d", m.Length, len(msg))
			}
		})
	}
}

func TestWriter_Appends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "capture.jsonl")
	msg := sampleMessage(t)
	writeRecords(t, path, []Record{NewRecord("a", 1, msg)})
	writeRecords(t, path, []Record{NewRecord("a", 2, msg)})

	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if len(got) != 2 || got[1].Seq != 2 {
		t.Fatalf("records = %+v, want seq 1 and 2", got)
	}
}

func TestWriter_Closed(t *testing.T) {
	w, err := Create(t.TempDir())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if !strings.HasPrefix(filepath.Base(w.Path()), "capture-") {
		t.Errorf("path = %s, want capture- prefix", w.Path())
	}
	_ = w.Close()
	if err := w.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if err := w.Append(Record{}); !errors.Is(err, ErrClosed) {
		t.Errorf("Append() after Close error = %v, want ErrClosed", err)
	}
}

func TestReader_JSONL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		filter  Filter
		wantSeq []int
		wantErr string
	}{
		{
			name:    "skips blank and comment lines",
			input:   "# bench capture\n\n{\"seq\":1,\"data\":\"cc01\"}\n  \n{\"seq\":2,\"data\":\"0x01 0x18\"}\n",
			wantSeq: []int{1, 2},
		},
		{
			name:    "filters by source",
			input:   "{\"seq\":1,\"source\":\"a\",\"data\":\"01\"}\n{\"seq\":2,\"source\":\"b\",\"data\":\"01\"}\n",
			filter:  Filter{Source: "b"},
			wantSeq: []int{2},
		},
		{
			name:    "filters by direction",
			input:   "{\"seq\":1,\"direction\":\"in\",\"data\":\"01\"}\n{\"seq\":2,\"direction\":\"out\",\"data\":\"01\"}\n",
			filter:  Filter{Direction: DirectionIn},
			wantSeq: []int{1},
		},
		{
			name:    "bad hex names the line",
			input:   "{\"seq\":1,\"data\":\"01\"}\n{\"seq\":2,\"data\":\"zz\"}\n",
			wantSeq: []int{1},
			wantErr: "line 2",
		},
		{
			name:    "bad json names the line",
			input:   "{\"seq\":1,\n",
			wantErr: "line 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReader(strings.NewReader(tt.input), FormatJSONL, tt.filter)
			defer func() { _ = r.Close() }()

			var seqs []int
			var err error
			for {
				var rec Record
				rec, err = r.Next()
				if err != nil {
					break
				}
				seqs = append(seqs, rec.Seq)
			}

			if tt.wantErr == "" && !errors.Is(err, io.EOF) {
				t.Fatalf("Next() error = %v, want io.EOF", err)
			}
			if tt.wantErr != "" && (err == nil || !strings.Contains(err.Error(), tt.wantErr)) {
				t.Fatalf("Next() error = %v, want containing %q", err, tt.wantErr)
			}
			if len(seqs) != len(tt.wantSeq) {
				t.Fatalf("seqs = %v, want %v", seqs, tt.wantSeq)
			}
			for i := range seqs {
				if seqs[i] != tt.wantSeq[i] {
					t.Errorf("seqs = %v, want %v", seqs, tt.wantSeq)
				}
			}
		})
	}
}

func TestRecord_DecodesThroughRDM(t *testing.T) {
	path := filepath.Join(t.TempDir(), "capture.jsonl")
	if err := os.WriteFile(path, []byte(`{"seq":1,"data":"`+rdmHex(t)+`"}`+"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	recs, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	res, err := rdm.NewDecoder().Decode(recs[0].Message())
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if res.ParameterName() != "DEVICE_INFO" || !res.Checksum.OK() {
		t.Errorf("decoded %s checksum %s", res.ParameterName(), res.Checksum)
	}
}

func rdmHex(t *testing.T) string {
	t.Helper()
	return hex.EncodeToString(sampleMessage(t))
}

func TestFormatFor(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"a.jsonl", FormatJSONL},
		{"a.json", FormatJSONL},
		{"a.CBOR", FormatCBOR},
		{"dir.cbor/a", FormatJSONL},
	}
	for _, tt := range tests {
		if got := FormatFor(tt.path); got != tt.want {
			t.Errorf("FormatFor(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
