package filex

import (
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// MaxImageSize bounds what ReadImage accepts.
const MaxImageSize = 10 << 20

// EnsureParentDir creates the directory that will hold the file at path.
// A bare file name needs nothing.
func EnsureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return nil
}

// ReadImage loads an image file and reports its content type, sniffed from
// the bytes and falling back to the extension.
func ReadImage(path string) ([]byte, string, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, "", err
	}
	if fi.IsDir() {
		return nil, "", fmt.Errorf("%s is a directory", path)
	}
	if fi.Size() > MaxImageSize {
		return nil, "", fmt.Errorf("%s is larger than %d bytes", path, MaxImageSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", err
	}

	ct := http.DetectContentType(data)
	if !strings.HasPrefix(ct, "image/") {
		ct = mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	}
	if ct, _, _ = strings.Cut(ct, ";"); !strings.HasPrefix(ct, "image/") {
		return nil, "", fmt.Errorf("%s is not an image", path)
	}
	return data, ct, nil
}
