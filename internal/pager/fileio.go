package pager

import (
	"errors"
	"io"
	"os"
)

// FileIO is a thin positioned-I/O wrapper over a single regular file.
// It performs no buffering of its own — the Pager is the only buffer in
// this engine. Go's os.File already retries short reads/writes caused by
// EINTR internally, so there's no need for an explicit interruption-retry
// loop around ReadAt/WriteAt.
type FileIO struct {
	f *os.File
}

// OpenFlag is the {read, write, create, exclusive} flag set accepted by Open.
type OpenFlag int

const (
	FlagRead OpenFlag = 1 << iota
	FlagWrite
	FlagCreate
	FlagExclusive
)

// Open opens or creates a regular file at path according to flags.
func Open(path string, flags OpenFlag) (*FileIO, error) {
	var osFlags int
	switch {
	case flags&FlagRead != 0 && flags&FlagWrite != 0:
		osFlags = os.O_RDWR
	case flags&FlagWrite != 0:
		osFlags = os.O_WRONLY
	default:
		osFlags = os.O_RDONLY
	}
	if flags&FlagCreate != 0 {
		osFlags |= os.O_CREATE
	}
	if flags&FlagExclusive != 0 {
		osFlags |= os.O_EXCL
	}
	f, err := os.OpenFile(path, osFlags, 0o644)
	if err != nil {
		return nil, wrap(CantOpen, "open %s: %v", path, err)
	}
	return &FileIO{f: f}, nil
}

// Close releases the underlying handle.
func (fio *FileIO) Close() error {
	if fio.f == nil {
		return nil
	}
	err := fio.f.Close()
	fio.f = nil
	if err != nil {
		return wrap(IoErr, "close: %v", err)
	}
	return nil
}

// ReadAt reads exactly len(buf) bytes at offset, or fewer at EOF. A short
// read pads the remainder of buf with zeros and returns IoShortRead —
// this is relied upon when a page is requested past the current end of
// file, which RequestPage treats as a newly allocated page.
func (fio *FileIO) ReadAt(buf []byte, offset int64) error {
	n, err := fio.f.ReadAt(buf, offset)
	if n < len(buf) {
		for i := n; i < len(buf); i++ {
			buf[i] = 0
		}
		if err == nil || errors.Is(err, io.EOF) {
			return IoShortRead
		}
		return wrap(IoRead, "read at %d: %v", offset, err)
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return wrap(IoRead, "read at %d: %v", offset, err)
	}
	return nil
}

// WriteAt writes exactly len(buf) bytes at offset.
func (fio *FileIO) WriteAt(buf []byte, offset int64) error {
	n, err := fio.f.WriteAt(buf, offset)
	if err != nil {
		return wrap(IoWrite, "write at %d: %v", offset, err)
	}
	if n < len(buf) {
		return Full
	}
	return nil
}

// Size returns the current file length in bytes.
func (fio *FileIO) Size() (int64, error) {
	st, err := fio.f.Stat()
	if err != nil {
		return 0, wrap(IoFstat, "stat: %v", err)
	}
	return st.Size(), nil
}

// Sync flushes the file to stable storage.
func (fio *FileIO) Sync() error {
	if err := fio.f.Sync(); err != nil {
		return wrap(IoWrite, "sync: %v", err)
	}
	return nil
}
