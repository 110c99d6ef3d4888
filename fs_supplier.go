package ipx

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/afero"

	"github.com/workupsrl/ipx/afero2"
)

// forbiddenPathChars are characters that must never appear in a resolved
// filesystem path: they have no legitimate use in an asset id and several
// of them are meaningful to alternate-data-stream or device-path syntax on
// some platforms.
const forbiddenPathChars = `<>:"|?*`

// FilesystemSupplier resolves an id to a file under Root, rejecting any
// path that escapes Root or contains characters that have no place in a
// file name.
type FilesystemSupplier struct {
	FS     afero.Fs
	Root   string
	MaxAge int
}

// NewFilesystemSupplier builds a FilesystemSupplier rooted at root, reading
// through fs (use afero.NewOsFs() in production, afero.NewMemMapFs() in
// tests). The afero2 adapter tolerates ids both with and without a leading
// slash, matching the id shapes produced by the URL decoder.
func NewFilesystemSupplier(fs afero.Fs, root string, maxAge int) *FilesystemSupplier {
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	return &FilesystemSupplier{
		FS:     afero2.AferoAdapter{Inner: fs},
		Root:   filepath.Clean(root),
		MaxAge: maxAge,
	}
}

var _ Supplier = (*FilesystemSupplier)(nil)

// Fetch implements Supplier.
func (f *FilesystemSupplier) Fetch(id string, _ ReqOptions) (*SourceDescriptor, error) {
	fsPath := filepath.Clean(filepath.Join(f.Root, id))

	if strings.ContainsAny(stripDriveRoot(fsPath), forbiddenPathChars) {
		return nil, Forbidden("Forbidden path")
	}

	if !withinRoot(fsPath, f.Root) {
		return nil, Forbidden("Forbidden path")
	}

	info, err := f.FS.Stat(fsPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, NotFound("File not found")
		}
		return nil, Forbidden(fmt.Sprintf("File access error %v", err))
	}

	if !info.Mode().IsRegular() {
		return nil, BadRequest("Path should be a file")
	}

	maxAge := f.MaxAge
	mtime := info.ModTime()

	return newSourceDescriptor(mtime, true, &maxAge, func() ([]byte, error) {
		file, err := f.FS.Open(fsPath)
		if err != nil {
			return nil, Forbidden(fmt.Sprintf("File access error %v", err))
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			return nil, InternalError(err.Error())
		}
		return data, nil
	}), nil
}

// withinRoot reports whether fsPath lies at or under root.
func withinRoot(fsPath, root string) bool {
	if fsPath == root {
		return true
	}
	prefix := root
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	return strings.HasPrefix(fsPath, prefix)
}

// stripDriveRoot removes a Windows drive-letter prefix (e.g. "C:") before
// the forbidden-character check, so the colon that legitimately follows a
// drive letter doesn't trigger a false positive.
func stripDriveRoot(fsPath string) string {
	if runtime.GOOS != "windows" {
		return fsPath
	}
	if len(fsPath) >= 2 && fsPath[1] == ':' {
		return fsPath[2:]
	}
	return fsPath
}
