// Package fs writes leadbook exports to the local filesystem.
package fs

import (
	"os"
	"path/filepath"
	"time"

	"github.com/fwojciec/leadbook"
)

// ExportFile writes a CSV export with atomic replace semantics. Rows are
// written to path.tmp and renamed onto path only when the write succeeds,
// so a failed export never leaves a truncated file behind.
type ExportFile struct {
	path string
}

// NewExportFile creates an ExportFile targeting path.
func NewExportFile(path string) *ExportFile {
	return &ExportFile{path: path}
}

func (f *ExportFile) tempPath() string {
	return f.path + ".tmp"
}

// Path returns the final location of the export.
func (f *ExportFile) Path() string {
	return f.path
}

// Write renders businesses as CSV and commits them to the target path.
// Parent directories are created as needed.
func (f *ExportFile) Write(businesses []*leadbook.Business, tracking leadbook.TrackingTable, loc *time.Location) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0755); err != nil {
		return err
	}

	if err := f.writeTemp(businesses, tracking, loc); err != nil {
		_ = f.Abort()
		return err
	}

	return f.Commit()
}

func (f *ExportFile) writeTemp(businesses []*leadbook.Business, tracking leadbook.TrackingTable, loc *time.Location) (err error) {
	out, err := os.Create(f.tempPath())
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()

	return leadbook.WriteCSV(out, businesses, tracking, loc)
}

// Commit moves the temporary file onto the target path.
func (f *ExportFile) Commit() error {
	return os.Rename(f.tempPath(), f.path)
}

// Abort removes the temporary file.
func (f *ExportFile) Abort() error {
	err := os.Remove(f.tempPath())
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
