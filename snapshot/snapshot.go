// Package snapshot persists search sessions as sectioned single-file
// containers.
//
// Layout: a fixed header (magic, version, compression, codec name, session
// id, creation time, section count) followed by one section per kind, each
// prefixed by a SectionHeader carrying its stored length and CRC32
// checksum. Section payloads are codec-encoded then block-compressed, so a
// reader can validate integrity before decoding anything.
package snapshot

import (
	"encoding/binary"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/hupe1980/eqsearch/codec"
)

// Options configures snapshot writing.
type Options struct {
	// Codec encodes section payloads. Defaults to codec.Default.
	Codec codec.Codec

	// Compression is applied per section payload.
	Compression CompressionType
}

// DefaultOptions returns default snapshot options.
var DefaultOptions = Options{
	Codec:       codec.Default,
	Compression: CompressionZSTD,
}

// Write persists a session to w. The stream is self-describing: codec and
// compression are recorded in the header.
func Write(w io.Writer, s *Session, optFns ...func(o *Options)) error {
	opts := DefaultOptions

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Codec == nil {
		opts.Codec = codec.Default
	}

	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}

	if err := writeFileHeader(w, s, opts); err != nil {
		return err
	}

	sections := []struct {
		kind  SectionKind
		value any
	}{
		{SectionTokens, s.Tokens},
		{SectionVertices, s.Vertices},
		{SectionEdges, s.Edges},
		{SectionResult, resultSection{Status: s.Status, Message: s.Message, LHS: s.LHS, RHS: s.RHS, Steps: s.Steps}},
	}

	for _, section := range sections {
		if err := writeSection(w, opts, section.kind, section.value); err != nil {
			return fmt.Errorf("write section %d: %w", section.kind, err)
		}
	}

	return nil
}

// Read parses a snapshot from r, verifying checksums before decoding.
func Read(r io.Reader) (*Session, error) {
	hdr, err := readFileHeader(r)
	if err != nil {
		return nil, err
	}

	c, ok := codec.ByName(hdr.codecName)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, hdr.codecName)
	}

	s := &Session{
		ID:        hdr.session,
		CreatedAt: time.Unix(0, hdr.createdAt).UTC(),
	}

	for i := uint32(0); i < hdr.sections; i++ {
		kind, payload, err := readSection(r, hdr.compression)
		if err != nil {
			return nil, err
		}

		switch kind {
		case SectionTokens:
			if err := c.Unmarshal(payload, &s.Tokens); err != nil {
				return nil, fmt.Errorf("decode tokens: %w", err)
			}
		case SectionVertices:
			if err := c.Unmarshal(payload, &s.Vertices); err != nil {
				return nil, fmt.Errorf("decode vertices: %w", err)
			}
		case SectionEdges:
			if err := c.Unmarshal(payload, &s.Edges); err != nil {
				return nil, fmt.Errorf("decode edges: %w", err)
			}
		case SectionResult:
			var res resultSection
			if err := c.Unmarshal(payload, &res); err != nil {
				return nil, fmt.Errorf("decode result: %w", err)
			}
			s.Status = res.Status
			s.Message = res.Message
			s.LHS = res.LHS
			s.RHS = res.RHS
			s.Steps = res.Steps
		default:
			return nil, fmt.Errorf("%w: %d", ErrInvalidSection, kind)
		}
	}

	return s, nil
}

type resultSection struct {
	Status  string       `json:"status"`
	Message string       `json:"message,omitempty"`
	LHS     string       `json:"lhs"`
	RHS     string       `json:"rhs"`
	Steps   []StepRecord `json:"steps,omitempty"`
}

type fileHeader struct {
	compression CompressionType
	codecName   string
	session     uuid.UUID
	createdAt   int64
	sections    uint32
}

// Header layout, little-endian:
// [Magic:4][Version:4][Compression:1][CodecLen:1][Codec:N]
// [Session:16][CreatedAtUnixNano:8][SectionCount:4]
func writeFileHeader(w io.Writer, s *Session, opts Options) error {
	name := opts.Codec.Name()
	if len(name) > 255 {
		return fmt.Errorf("codec name too long: %q", name)
	}

	buf := make([]byte, 0, 10+len(name)+28)

	var fixed [10]byte
	binary.LittleEndian.PutUint32(fixed[0:4], MagicNumber)
	binary.LittleEndian.PutUint32(fixed[4:8], Version)
	fixed[8] = byte(opts.Compression)
	fixed[9] = byte(len(name))
	buf = append(buf, fixed[:]...)
	buf = append(buf, name...)
	buf = append(buf, s.ID[:]...)

	var tail [12]byte
	binary.LittleEndian.PutUint64(tail[0:8], uint64(s.CreatedAt.UnixNano())) //nolint:gosec
	binary.LittleEndian.PutUint32(tail[8:12], 4)                             // section count
	buf = append(buf, tail[:]...)

	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("write snapshot header: %w", err)
	}

	return nil
}

func readFileHeader(r io.Reader) (fileHeader, error) {
	var fixed [10]byte
	if _, err := io.ReadFull(r, fixed[:]); err != nil {
		return fileHeader{}, fmt.Errorf("read snapshot header: %w", err)
	}

	if binary.LittleEndian.Uint32(fixed[0:4]) != MagicNumber {
		return fileHeader{}, ErrInvalidMagic
	}
	if binary.LittleEndian.Uint32(fixed[4:8]) != Version {
		return fileHeader{}, ErrInvalidVersion
	}

	hdr := fileHeader{compression: CompressionType(fixed[8])}

	nameBuf := make([]byte, fixed[9])
	if _, err := io.ReadFull(r, nameBuf); err != nil {
		return fileHeader{}, fmt.Errorf("read codec name: %w", err)
	}
	hdr.codecName = string(nameBuf)

	var tail [28]byte
	if _, err := io.ReadFull(r, tail[:]); err != nil {
		return fileHeader{}, fmt.Errorf("read snapshot header: %w", err)
	}

	copy(hdr.session[:], tail[0:16])
	hdr.createdAt = int64(binary.LittleEndian.Uint64(tail[16:24])) //nolint:gosec
	hdr.sections = binary.LittleEndian.Uint32(tail[24:28])

	return hdr, nil
}

func writeSection(w io.Writer, opts Options, kind SectionKind, value any) error {
	encoded, err := opts.Codec.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}

	stored, err := compressBlock(encoded, opts.Compression)
	if err != nil {
		return fmt.Errorf("compress payload: %w", err)
	}

	var hdr [sectionHeaderSize]byte
	hdr[0] = byte(kind)
	binary.LittleEndian.PutUint32(hdr[1:5], uint32(len(stored))) //nolint:gosec
	binary.LittleEndian.PutUint32(hdr[5:9], ComputeChecksum(stored))

	if _, err := w.Write(hdr[:]); err != nil {
		return err
	}
	if _, err := w.Write(stored); err != nil {
		return err
	}

	return nil
}

func readSection(r io.Reader, compression CompressionType) (SectionKind, []byte, error) {
	var hdr [sectionHeaderSize]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return 0, nil, fmt.Errorf("read section header: %w", err)
	}

	kind := SectionKind(hdr[0])
	length := binary.LittleEndian.Uint32(hdr[1:5])
	expected := binary.LittleEndian.Uint32(hdr[5:9])

	stored := make([]byte, length)
	if _, err := io.ReadFull(r, stored); err != nil {
		return 0, nil, fmt.Errorf("read section %d payload: %w", kind, err)
	}

	if actual := ComputeChecksum(stored); actual != expected {
		return 0, nil, &ChecksumMismatchError{Expected: expected, Actual: actual}
	}

	payload, err := decompressBlock(stored, compression)
	if err != nil {
		return 0, nil, fmt.Errorf("decompress section %d: %w", kind, err)
	}

	return kind, payload, nil
}
