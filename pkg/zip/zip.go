// Package zip streams stored files into a single archive download.
package zip

import (
	"archive/zip"
	"fmt"
	"io"
	"path"
	"strings"
	"time"
)

// Entry is one file of an archive. Open is called while the archive is
// being written, so only one entry is open at a time.
type Entry struct {
	Name     string
	Modified time.Time
	Open     func() (io.ReadCloser, error)
}

// WriteArchive streams entries into w. Entries that fail to open are left
// out and reported in skipped; a failure writing to w aborts the archive.
// Duplicate names get a numeric suffix.
func WriteArchive(w io.Writer, entries []Entry) (skipped []string, err error) {
	zw := zip.NewWriter(w)
	used := make(map[string]int, len(entries))
	for _, e := range entries {
		rc, openErr := e.Open()
		if openErr != nil {
			skipped = append(skipped, e.Name)
			continue
		}
		fw, err := zw.CreateHeader(&zip.FileHeader{
			Name:     uniqueName(used, e.Name),
			Method:   zip.Deflate,
			Modified: e.Modified,
		})
		if err != nil {
			rc.Close()
			return skipped, err
		}
		_, err = io.Copy(fw, rc)
		rc.Close()
		if err != nil {
			return skipped, err
		}
	}
	return skipped, zw.Close()
}

func uniqueName(used map[string]int, name string) string {
	name = strings.TrimLeft(path.Clean("/"+strings.ReplaceAll(name, "\\", "/")), "/")
	if name == "" {
		name = "file"
	}
	n := used[name]
	used[name] = n + 1
	if n == 0 {
		return name
	}
	ext := path.Ext(name)
	return fmt.Sprintf("%s-%d%s", strings.TrimSuffix(name, ext), n+1, ext)
}
