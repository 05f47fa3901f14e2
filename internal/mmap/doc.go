// Package mmap provides read-only memory-mapped file access.
//
// Archive files are written once and then read back front to back;
// mapping them avoids copying through kernel buffers on load, and Open
// advises the kernel for sequential access up front.
//
//	m, err := mmap.Open("session.eqs")
//	if err != nil { ... }
//	defer m.Close()
//
//	data := m.Bytes()
//
// Unix platforms use mmap(2) with a madvise(2) readahead hint; Windows
// uses CreateFileMapping/MapViewOfFile and skips the hint.
//
// Mapping is safe for concurrent readers. Close is idempotent, but
// callers must ensure no goroutine touches Bytes() after Close
// returns.
package mmap
