// Package journal provides an append-only event log for search sessions.
//
// Every discovery, duplicate discard, expansion, meeting and terminal
// outcome can be appended as a compact binary entry, giving post-mortem
// visibility into how a proof search unfolded without any ambient tracing
// state in the engine. Entries carry sequence numbers, so a replay
// reproduces the exact event order.
//
// Features:
//   - Binary little-endian entry codec with length-prefixed strings
//   - Optional zstd stream compression
//   - Configurable fsync behavior (None, Async, Sync)
//   - Session id (uuid) recorded in the file header
package journal

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
)

// Journal is an append-only, sequence-numbered log of search events.
type Journal struct {
	mu               sync.Mutex
	file             *os.File
	writer           io.Writer     // may be compressed or direct
	bufWriter        *bufio.Writer // buffered writer for performance
	compressor       *zstd.Encoder
	decompressor     *zstd.Decoder
	seqNum           uint64
	filePath         string
	sessionID        uuid.UUID
	compressed       bool
	compressionLevel int
	dataOffset       int64 // start of entry stream (after header)

	durabilityMode DurabilityMode
	syncTicker     *time.Ticker
	syncStopCh     chan struct{}
	syncWg         sync.WaitGroup

	closed bool
}

// New creates a journal in the configured directory. The file is named
// after the session id, so concurrent sessions never collide.
func New(optFns ...func(o *Options)) (*Journal, error) {
	opts := DefaultOptions

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.SessionID == uuid.Nil {
		opts.SessionID = uuid.New()
	}

	if err := os.MkdirAll(opts.Path, 0750); err != nil {
		return nil, fmt.Errorf("failed to create journal directory: %w", err)
	}

	filePath := filepath.Join(opts.Path, opts.SessionID.String()+".eqj")

	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_RDWR, 0600) //nolint:gosec // G304: Path is configurable
	if err != nil {
		return nil, fmt.Errorf("failed to open journal file: %w", err)
	}

	st, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to stat journal file: %w", err)
	}

	j := &Journal{
		file:             file,
		filePath:         filePath,
		sessionID:        opts.SessionID,
		compressionLevel: opts.CompressionLevel,
		durabilityMode:   opts.DurabilityMode,
	}

	if st.Size() == 0 {
		hdrLen, err := writeHeader(file, headerInfo{
			Compressed:       opts.Compress,
			CompressionLevel: opts.CompressionLevel,
			SessionID:        opts.SessionID,
		})
		if err != nil {
			_ = file.Close()
			return nil, err
		}
		j.dataOffset = hdrLen
		j.compressed = opts.Compress
	} else {
		hdr, valid, err := readHeader(file)
		if err != nil {
			_ = file.Close()
			return nil, err
		}
		if !valid {
			_ = file.Close()
			return nil, fmt.Errorf("invalid journal header")
		}
		j.dataOffset = hdr.HeaderLen
		j.compressed = hdr.Compressed
		j.compressionLevel = hdr.CompressionLevel
		j.sessionID = hdr.SessionID
	}

	if _, err := j.file.Seek(0, io.SeekEnd); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to seek journal end: %w", err)
	}

	if j.compressed {
		level := zstd.EncoderLevelFromZstd(j.compressionLevel)
		compressor, err := zstd.NewWriter(j.file, zstd.WithEncoderLevel(level))
		if err != nil {
			_ = file.Close()
			return nil, fmt.Errorf("failed to create compressor: %w", err)
		}
		j.compressor = compressor
		j.bufWriter = bufio.NewWriter(compressor)
		j.writer = j.bufWriter

		decompressor, err := zstd.NewReader(nil)
		if err != nil {
			_ = compressor.Close()
			_ = file.Close()
			return nil, fmt.Errorf("failed to create decompressor: %w", err)
		}
		j.decompressor = decompressor
	} else {
		j.bufWriter = bufio.NewWriter(j.file)
		j.writer = j.bufWriter
	}

	// Pick up where an existing journal left off.
	if err := j.scanForSeqNum(); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to scan journal: %w", err)
	}

	if j.durabilityMode == DurabilityAsync && opts.SyncInterval > 0 {
		j.syncStopCh = make(chan struct{})
		j.syncTicker = time.NewTicker(opts.SyncInterval)
		j.syncWg.Add(1)
		go j.syncWorker()
	}

	return j, nil
}

// SessionID returns the session id recorded in the journal header.
func (j *Journal) SessionID() uuid.UUID {
	return j.sessionID
}

// FilePath returns the path to the journal file.
func (j *Journal) FilePath() string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.filePath
}

// Append writes one entry, assigning it the next sequence number, and
// returns that number. Durability depends on the configured mode.
func (j *Journal) Append(entry Entry) (uint64, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.closed {
		return 0, fmt.Errorf("journal closed")
	}

	j.seqNum++
	entry.SeqNum = j.seqNum

	if err := j.encodeEntry(&entry); err != nil {
		return 0, fmt.Errorf("failed to append journal entry: %w", err)
	}

	if j.durabilityMode == DurabilitySync {
		if err := j.flushLocked(); err != nil {
			return 0, err
		}
		if err := j.file.Sync(); err != nil {
			return 0, fmt.Errorf("failed to sync journal: %w", err)
		}
	}

	return entry.SeqNum, nil
}

// Sync flushes buffered entries and fsyncs the file.
func (j *Journal) Sync() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.closed {
		return fmt.Errorf("journal closed")
	}

	if err := j.flushLocked(); err != nil {
		return err
	}

	if err := j.file.Sync(); err != nil {
		return fmt.Errorf("failed to sync journal: %w", err)
	}

	return nil
}

// Replay invokes callback for every entry in order. The journal stays
// usable for appending afterwards.
func (j *Journal) Replay(callback func(entry Entry) error) (err error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.closed {
		return fmt.Errorf("journal closed")
	}

	// Make everything appended so far visible to the reader.
	if err := j.flushLocked(); err != nil {
		return err
	}

	// Restore the append position however the scan ends. Bufio read-ahead
	// leaves the offset mid-file, and appending there would overwrite
	// earlier entries.
	defer func() {
		if _, serr := j.file.Seek(0, io.SeekEnd); serr != nil && err == nil {
			err = fmt.Errorf("failed to seek journal end: %w", serr)
		}
	}()

	if _, err := j.file.Seek(j.dataOffset, io.SeekStart); err != nil {
		return fmt.Errorf("failed to seek journal data offset: %w", err)
	}

	var reader io.Reader
	if j.compressed {
		if err := j.decompressor.Reset(j.file); err != nil {
			return fmt.Errorf("failed to reset decompressor: %w", err)
		}
		reader = j.decompressor
	} else {
		reader = bufio.NewReader(j.file)
	}

	for {
		var entry Entry
		if err := decodeEntry(reader, &entry); err != nil {
			if err == io.EOF {
				break
			}
			return fmt.Errorf("journal corrupted at entry: %w", err)
		}

		if err := callback(entry); err != nil {
			return fmt.Errorf("failed to replay entry %d: %w", entry.SeqNum, err)
		}
	}

	return nil
}

// Close flushes, fsyncs and closes the journal file.
func (j *Journal) Close() error {
	j.mu.Lock()
	if j.closed {
		j.mu.Unlock()
		return nil
	}
	j.closed = true

	if j.syncTicker != nil {
		j.syncTicker.Stop()
		close(j.syncStopCh)
	}
	j.mu.Unlock()

	j.syncWg.Wait()

	j.mu.Lock()
	defer j.mu.Unlock()

	var firstErr error

	if err := j.bufWriter.Flush(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("failed to flush buffer: %w", err)
	}

	if j.compressor != nil {
		if err := j.compressor.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to close compressor: %w", err)
		}
	}
	if j.decompressor != nil {
		j.decompressor.Close()
	}

	if err := j.file.Sync(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("failed to sync journal: %w", err)
	}

	if err := j.file.Close(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("failed to close journal: %w", err)
	}

	return firstErr
}

func (j *Journal) scanForSeqNum() error {
	if _, err := j.file.Seek(j.dataOffset, io.SeekStart); err != nil {
		return err
	}

	var reader io.Reader
	if j.compressed {
		if err := j.decompressor.Reset(j.file); err != nil {
			return err
		}
		reader = j.decompressor
	} else {
		reader = bufio.NewReader(j.file)
	}

	for {
		var entry Entry
		if err := decodeEntry(reader, &entry); err != nil {
			break
		}
		j.seqNum = entry.SeqNum
	}

	if _, err := j.file.Seek(0, io.SeekEnd); err != nil {
		return err
	}

	return nil
}

func (j *Journal) flushLocked() error {
	if err := j.bufWriter.Flush(); err != nil {
		return fmt.Errorf("failed to flush buffer: %w", err)
	}
	if j.compressed {
		if err := j.compressor.Flush(); err != nil {
			return fmt.Errorf("failed to flush compressor: %w", err)
		}
	}
	return nil
}

// syncWorker runs in a background goroutine and performs periodic fsync.
func (j *Journal) syncWorker() {
	defer j.syncWg.Done()

	for {
		select {
		case <-j.syncStopCh:
			return
		case <-j.syncTicker.C:
			j.mu.Lock()
			if !j.closed {
				_ = j.flushLocked()
				_ = j.file.Sync()
			}
			j.mu.Unlock()
		}
	}
}
