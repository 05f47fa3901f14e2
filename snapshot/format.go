package snapshot

import "errors"

const (
	// MagicNumber identifies eqsearch snapshot files (ASCII: "EQS0").
	MagicNumber = 0x45515330
	// Version is the current file format version (v1.0.0).
	Version = 0x00010000
)

// SectionKind identifies a snapshot section.
type SectionKind uint8

const (
	// SectionTokens holds the interned token table.
	SectionTokens SectionKind = 1
	// SectionVertices holds the vertex arena records.
	SectionVertices SectionKind = 2
	// SectionEdges holds the edge arena records.
	SectionEdges SectionKind = 3
	// SectionResult holds the terminal outcome and step chain.
	SectionResult SectionKind = 4
)

var (
	ErrInvalidMagic   = errors.New("invalid magic number")
	ErrInvalidVersion = errors.New("unsupported version")
	ErrInvalidSection = errors.New("invalid section kind")
	ErrUnknownCodec   = errors.New("unknown codec")
)

// SectionHeader precedes every section payload.
// Layout: [Kind:1][Length:4][Checksum:4], little-endian.
type SectionHeader struct {
	Kind     SectionKind
	Length   uint32 // stored payload bytes (after block compression)
	Checksum uint32 // CRC32 of the stored payload
}

const sectionHeaderSize = 9
