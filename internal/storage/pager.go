package storage

import (
	"io"
	"os"

	"go.uber.org/zap"
)

const (
	// PageSize is the fixed size of every page in the database file.
	PageSize = 4096
	// TableMaxPages bounds how many pages a single table's pager may hold resident.
	TableMaxPages = 100
)

// Pager is a byte-exact page cache over a single file descriptor. It never
// interprets page contents; it only knows how to read, allocate, and flush
// fixed PageSize blocks.
type Pager struct {
	file     *os.File
	fileLen  uint32
	numPages uint32
	pages    [TableMaxPages]*[PageSize]byte

	log *zap.SugaredLogger
}

// OpenPager opens (creating if needed) the file at path read-write and
// computes num_pages from its length. A file length that is not a whole
// multiple of PageSize means the file is corrupt, which is fatal.
func OpenPager(path string) *Pager {
	log := newLogger()

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0600)
	if err != nil {
		log.Fatalw("unable to open database file", "path", path, "error", err)
	}
	fi, err := f.Stat()
	if err != nil {
		log.Fatalw("unable to stat database file", "path", path, "error", err)
	}
	fileLen := fi.Size()
	if fileLen%PageSize != 0 {
		log.Fatalw("db file is not a whole number of pages, corrupt file",
			"path", path, "length", fileLen, "page_size", PageSize)
	}

	return &Pager{
		file:     f,
		fileLen:  uint32(fileLen),
		numPages: uint32(fileLen / PageSize),
		log:      log,
	}
}

func newLogger() *zap.SugaredLogger {
	l, err := zap.NewProduction()
	if err != nil {
		l = zap.NewNop()
	}
	return l.Sugar()
}

// NumPages reports how many pages the file currently spans.
func (p *Pager) NumPages() uint32 { return p.numPages }

// GetPage returns the resident buffer for pageNum, reading it from disk on
// first access. Pages beyond the current on-disk extent are returned
// zero-initialized. Requesting pageNum >= TableMaxPages is fatal.
func (p *Pager) GetPage(pageNum uint32) *[PageSize]byte {
	if pageNum >= TableMaxPages {
		p.log.Fatalw("page number out of bounds", "page", pageNum, "max", TableMaxPages)
	}

	if p.pages[pageNum] == nil {
		buf := new([PageSize]byte)
		if pageNum < p.numPages {
			if _, err := p.file.ReadAt(buf[:], int64(pageNum)*PageSize); err != nil && err != io.EOF {
				p.log.Fatalw("unable to read page", "page", pageNum, "error", err)
			}
		}
		p.pages[pageNum] = buf

		if pageNum >= p.numPages {
			p.numPages = pageNum + 1
		}
	}
	return p.pages[pageNum]
}

// GetUnusedPageNum returns the page number that a subsequent GetPage call
// would materialize as a brand-new page. Allocation is append-only: there is
// no free list, matching the source's simplification.
func (p *Pager) GetUnusedPageNum() uint32 {
	return p.numPages
}

// Flush writes the resident page pageNum back to disk in full. Flushing a
// page that is not resident, or a failed write, is fatal.
func (p *Pager) Flush(pageNum uint32) error {
	if p.pages[pageNum] == nil {
		p.fatalf("tried to flush a page that is not resident", "page", pageNum)
	}
	_, err := p.file.WriteAt(p.pages[pageNum][:], int64(pageNum)*PageSize)
	if err != nil {
		p.fatalf("unable to write page", "page", pageNum, "error", err)
	}
	return nil
}

// Close flushes every resident page in [0, numPages) and releases the file
// descriptor. It is the only write-back point; there is no journal.
func (p *Pager) Close() error {
	for i := uint32(0); i < p.numPages; i++ {
		if p.pages[i] == nil {
			continue
		}
		if err := p.Flush(i); err != nil {
			return err
		}
		p.pages[i] = nil
	}
	return p.file.Close()
}

// fatalf logs a structured fatal diagnostic and terminates the process, for
// invariant violations discovered deep inside tree code that has no
// sensible error to return (see spec §7: fatal conditions).
func (p *Pager) fatalf(msg string, keysAndValues ...interface{}) {
	p.log.Fatalw(msg, keysAndValues...)
}
