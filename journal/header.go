package journal

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
)

var (
	journalMagic     = [4]byte{'E', 'Q', 'J', '0'}
	headerVersion    = uint16(1)
	headerFixedLen   = 16 // magic + version + flags + level + reserved
	headerSessionLen = 16 // uuid bytes
)

type headerInfo struct {
	Compressed       bool
	CompressionLevel int
	SessionID        uuid.UUID
	HeaderLen        int64
}

func writeHeader(w io.Writer, info headerInfo) (int64, error) {
	var flags uint16
	if info.Compressed {
		flags |= 1
	}
	level := uint8(0)
	if info.Compressed {
		level = uint8(info.CompressionLevel) //nolint:gosec
	}

	buf := make([]byte, 0, headerFixedLen+headerSessionLen)
	buf = append(buf, journalMagic[:]...)
	var fixed [12]byte
	binary.LittleEndian.PutUint16(fixed[0:2], headerVersion)
	binary.LittleEndian.PutUint16(fixed[2:4], flags)
	fixed[4] = level
	// fixed[5:12] reserved
	buf = append(buf, fixed[:]...)
	buf = append(buf, info.SessionID[:]...)

	if _, err := w.Write(buf); err != nil {
		return 0, fmt.Errorf("failed to write journal header: %w", err)
	}
	return int64(len(buf)), nil
}

func readHeader(f *os.File) (headerInfo, bool, error) {
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return headerInfo{}, false, fmt.Errorf("failed to seek journal: %w", err)
	}

	var magic [4]byte
	if _, err := io.ReadFull(f, magic[:]); err != nil {
		if err == io.EOF {
			return headerInfo{}, false, nil
		}
		return headerInfo{}, false, fmt.Errorf("failed to read journal header magic: %w", err)
	}
	if magic != journalMagic {
		return headerInfo{}, false, fmt.Errorf("unsupported journal format: invalid header magic")
	}

	fixed := make([]byte, headerFixedLen-4)
	if _, err := io.ReadFull(f, fixed); err != nil {
		return headerInfo{}, true, fmt.Errorf("failed to read journal header: %w", err)
	}

	version := binary.LittleEndian.Uint16(fixed[0:2])
	if version != headerVersion {
		return headerInfo{}, true, fmt.Errorf("unsupported journal header version: %d", version)
	}
	flags := binary.LittleEndian.Uint16(fixed[2:4])
	compressed := (flags & 1) != 0
	level := int(fixed[4])
	// fixed[5:12] reserved

	var session uuid.UUID
	if _, err := io.ReadFull(f, session[:]); err != nil {
		return headerInfo{}, true, fmt.Errorf("failed to read journal session id: %w", err)
	}

	return headerInfo{
		Compressed:       compressed,
		CompressionLevel: level,
		SessionID:        session,
		HeaderLen:        int64(headerFixedLen + headerSessionLen),
	}, true, nil
}
