// Package mmapfile memory-maps a file read-only for zero-copy line
// access, grounded on golang.org/x/sys/unix's Mmap as used in
// grailbio-bio/fusion/kmer_index.go, adapted here from an anonymous
// mapping to a file-backed one (see
// original_source/PeculiarLog/SearchEngine/HyperscanEngine.cpp's init,
// which opens and mmaps the target file with PROT_READ/MAP_PRIVATE).
package mmapfile

import (
	"os"
	"sync"

	"golang.org/x/sys/unix"

	"github.com/alexhude/PeculiarLog/internal/seerrors"
)

// File is a read-only memory-mapped view of a file on disk.
type File struct {
	mu     sync.Mutex
	f      *os.File
	data   []byte
	closed bool
}

// Open opens path and maps its entire contents read-only.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, seerrors.Wrap(seerrors.FileOpenFailed, err, "open "+path)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, seerrors.Wrap(seerrors.FileStatFailed, err, "stat "+path)
	}

	size := info.Size()
	if size == 0 {
		// mmap of a zero-length file is undefined on most platforms;
		// represent it as an empty mapping instead.
		return &File{f: f, data: []byte{}}, nil
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_PRIVATE)
	if err != nil {
		f.Close()
		return nil, seerrors.Wrap(seerrors.FileMapFailed, err, "mmap "+path)
	}

	return &File{f: f, data: data}, nil
}

// Bytes returns the mapped region. The slice is valid until Close.
func (m *File) Bytes() []byte { return m.data }

// Size returns the mapped region's length.
func (m *File) Size() uint64 { return uint64(len(m.data)) }

// Close unmaps the file and closes the descriptor. Safe to call more
// than once.
func (m *File) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil
	}
	m.closed = true

	var err error
	if len(m.data) > 0 {
		err = unix.Munmap(m.data)
	}
	if cerr := m.f.Close(); err == nil {
		err = cerr
	}
	return err
}
