// Package storage abstracts file persistence behind disks. The local
// driver serves development; the s3 driver holds product images and
// seller permits in production.
//
//	storage.Connect()
//	storage.Put("products/42/cover.jpg", data)
//	url := storage.URL("products/42/cover.jpg")
package storage

import "io"

// Disk is implemented by every storage driver.
type Disk interface {
	// Put writes content at path, creating parents as needed.
	Put(path string, content []byte) error

	// PutStream writes from r to path.
	PutStream(path string, r io.Reader) error

	// Get returns the full content at path.
	Get(path string) ([]byte, error)

	// GetStream returns a ReadCloser for path. Caller closes it.
	GetStream(path string) (io.ReadCloser, error)

	// Exists reports whether path holds a file.
	Exists(path string) bool

	// Size returns the byte size of the file at path.
	Size(path string) (int64, error)

	// URL returns the public URL for path.
	URL(path string) string

	// Delete removes path. Deleting a missing file is not an error.
	Delete(path string) error

	// Move renames src to dst.
	Move(src, dst string) error

	// Files lists the files directly inside directory.
	Files(directory string) ([]string, error)
}
