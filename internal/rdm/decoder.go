package rdm

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/muurk/rdmscope/internal/logging"
)

// Decoder turns RDM messages into field trees. A Decoder holds only
// read-only tables and is safe for concurrent use.
type Decoder struct {
	table         *Table
	resolver      *VendorResolver
	logger        *zap.Logger
	manufacturers Names
}

// Option configures a Decoder
type Option func(*Decoder)

// WithTable replaces the standard parameter table
func WithTable(t *Table) Option {
	return func(d *Decoder) { d.table = t }
}

// WithResolver replaces the vendor overlay resolver
func WithResolver(r *VendorResolver) Option {
	return func(d *Decoder) { d.resolver = r }
}

// WithLogger sets the logger used for decode traces
func WithLogger(l *zap.Logger) Option {
	return func(d *Decoder) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithManufacturerNames adds manufacturer names used when rendering UIDs.
// Entries override the built-in table.
func WithManufacturerNames(names Names) Option {
	return func(d *Decoder) {
		merged := make(Names, len(d.manufacturers)+len(names))
		for k, v := range d.manufacturers {
			merged[k] = v
		}
		for k, v := range names {
			merged[k] = v
		}
		d.manufacturers = merged
	}
}

// NewDecoder creates a decoder over the standard table and built-in vendor
// overlays.
func NewDecoder(opts ...Option) *Decoder {
	d := &Decoder{
		table:         StandardTable(),
		resolver:      DefaultVendorResolver(),
		logger:        logging.GetLogger(),
		manufacturers: ManufacturerNames,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Result is the outcome of decoding one message. It is returned even when
// decoding stops early; Fields then holds what was decoded before the error.
type Result struct {
	Header     *Header
	Fields     []*Field
	Parameter  *Field // "Parameter Data" group, nil if the header was truncated
	Descriptor *Descriptor
	Vendor     *VendorOverlay
	Checksum   ChecksumResult
	Intron     []byte
	Trailer    []byte // Bytes after the checksum, including any past the declared length
}

// ParameterFields returns the fields decoded from the parameter data
func (r *Result) ParameterFields() []*Field {
	if r.Parameter == nil {
		return nil
	}
	return r.Parameter.Children
}

// ParameterName returns the descriptor name, or "UNKNOWN"
func (r *Result) ParameterName() string {
	if r.Descriptor != nil {
		return r.Descriptor.Name
	}
	return "UNKNOWN"
}

// Decode decodes one message. Errors matching ErrOutOfBounds stop the decode
// and come with the partial result. A checksum mismatch is not an error.
func (d *Decoder) Decode(msg Message) (*Result, error) {
	if msg.Length > len(msg.Data) {
		d.logger.Warn("declared length exceeds buffer, clamping",
			zap.Int("declared", msg.Length),
			zap.Int("buffer", len(msg.Data)),
		)
	}

	res := &Result{}
	env := &envelope{c: NewCursor(msg), tree: &Tree{}, manufacturers: d.manufacturers}

	err := d.decode(msg, env, res)
	res.Fields = env.tree.Fields()
	if err != nil {
		d.logger.Debug("decode stopped", zap.Error(err), zap.Int("fields", len(res.Fields)))
		return res, err
	}
	if res.Header != nil {
		logging.LogDecode(d.logger, res.Header.ParameterID, res.Header.CommandClass.String(),
			len(res.ParameterFields()), res.Checksum.Status.String())
	}
	return res, nil
}

func (d *Decoder) decode(msg Message, env *envelope, res *Result) error {
	h, err := env.header()
	res.Header = h
	if err != nil {
		return err
	}
	if err := d.dispatch(h, env.c, env.tree, res); err != nil {
		return err
	}
	if res.Vendor != nil && res.Descriptor != nil {
		env.pidField.Text = fmt.Sprintf("%s %s (0x%04x)", res.Vendor.Name, res.Descriptor.Name, h.ParameterID)
	}
	return env.trailer(msg, h, res)
}

// DecodeHex decodes a hex string using the whole buffer as declared length
func (d *Decoder) DecodeHex(s string) (*Result, error) {
	b, err := ParseHex(s)
	if err != nil {
		return nil, err
	}
	return d.Decode(NewMessage(b))
}

// ParseHex accepts hex with optional 0x prefix and whitespace, colon, comma
// or dash separators.
func ParseHex(s string) ([]byte, error) {
	s = strings.NewReplacer("0x", "", "0X", "").Replace(s)
	clean := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r', ':', ',', '-':
			return -1
		}
		return r
	}, s)
	b, err := hex.DecodeString(clean)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidHex, err)
	}
	return b, nil
}

// IsOutOfBounds reports whether err stopped a decode on a length bound
func IsOutOfBounds(err error) bool {
	return errors.Is(err, ErrOutOfBounds)
}
