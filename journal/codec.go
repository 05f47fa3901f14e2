package journal

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/hupe1980/eqsearch/core"
)

// Entry wire format, little-endian:
// [Type:1][SeqNum:8][Vertex:4][Edge:4][Side:1][Depth:4][Reversed:1]
// [RuleLen:2][Rule:N][PrettyLen:4][Pretty:N]
func (j *Journal) encodeEntry(entry *Entry) error {
	var fixed [23]byte
	fixed[0] = byte(entry.Type)
	binary.LittleEndian.PutUint64(fixed[1:9], entry.SeqNum)
	binary.LittleEndian.PutUint32(fixed[9:13], uint32(entry.Vertex))
	binary.LittleEndian.PutUint32(fixed[13:17], uint32(entry.Edge))
	fixed[17] = byte(entry.Side)
	binary.LittleEndian.PutUint32(fixed[18:22], uint32(entry.Depth)) //nolint:gosec
	if entry.Rule.Reversed {
		fixed[22] = 1
	}

	if _, err := j.writer.Write(fixed[:]); err != nil {
		return err
	}

	if len(entry.Rule.Name) > int(^uint16(0)) {
		return fmt.Errorf("rule name too long: %d bytes", len(entry.Rule.Name))
	}

	var ruleLen [2]byte
	binary.LittleEndian.PutUint16(ruleLen[:], uint16(len(entry.Rule.Name))) //nolint:gosec
	if _, err := j.writer.Write(ruleLen[:]); err != nil {
		return err
	}
	if _, err := io.WriteString(j.writer, entry.Rule.Name); err != nil {
		return err
	}

	var prettyLen [4]byte
	binary.LittleEndian.PutUint32(prettyLen[:], uint32(len(entry.Pretty))) //nolint:gosec
	if _, err := j.writer.Write(prettyLen[:]); err != nil {
		return err
	}
	if _, err := io.WriteString(j.writer, entry.Pretty); err != nil {
		return err
	}

	return nil
}

func decodeEntry(reader io.Reader, entry *Entry) error {
	var fixed [23]byte
	if _, err := io.ReadFull(reader, fixed[:]); err != nil {
		return err
	}

	entry.Type = OpType(fixed[0])
	entry.SeqNum = binary.LittleEndian.Uint64(fixed[1:9])
	entry.Vertex = core.VertexID(binary.LittleEndian.Uint32(fixed[9:13]))
	entry.Edge = core.EdgeID(binary.LittleEndian.Uint32(fixed[13:17]))
	entry.Side = core.Side(fixed[17])
	entry.Depth = int32(binary.LittleEndian.Uint32(fixed[18:22])) //nolint:gosec
	entry.Rule.Reversed = fixed[22] != 0

	var ruleLen [2]byte
	if _, err := io.ReadFull(reader, ruleLen[:]); err != nil {
		return err
	}
	if n := binary.LittleEndian.Uint16(ruleLen[:]); n > 0 {
		buf := make([]byte, n)
		if _, err := io.ReadFull(reader, buf); err != nil {
			return err
		}
		entry.Rule.Name = string(buf)
	} else {
		entry.Rule.Name = ""
	}

	var prettyLen [4]byte
	if _, err := io.ReadFull(reader, prettyLen[:]); err != nil {
		return err
	}
	if n := binary.LittleEndian.Uint32(prettyLen[:]); n > 0 {
		buf := make([]byte, n)
		if _, err := io.ReadFull(reader, buf); err != nil {
			return err
		}
		entry.Pretty = string(buf)
	} else {
		entry.Pretty = ""
	}

	return nil
}
