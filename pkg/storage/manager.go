package storage

import (
	"fmt"
	"io"
	"sync"

	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/config"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/logger"
)

var (
	mu          sync.RWMutex
	disks       = map[string]Disk{}
	defaultDisk string
)

// Connect initializes the disks named in the environment. The local
// disk always registers; s3 registers when S3_BUCKET is set. Call once
// at boot.
func Connect() {
	mu.Lock()
	defer mu.Unlock()

	disks["local"] = newLocalDisk()
	defaultDisk = config.StorageDefault()

	if config.StorageS3Bucket() != "" {
		s3d, err := newS3Disk()
		if err != nil {
			logger.Error("s3 disk unavailable", "error", err)
		} else {
			disks["s3"] = s3d
		}
	}

	if _, ok := disks[defaultDisk]; !ok {
		logger.Warn("default storage disk unavailable, using local", "disk", defaultDisk)
		defaultDisk = "local"
	}
}

// RegisterDisk adds or replaces a named disk. Used by tests.
func RegisterDisk(name string, d Disk) {
	mu.Lock()
	defer mu.Unlock()
	disks[name] = d
}

// UseDefault switches the default disk.
func UseDefault(name string) {
	mu.Lock()
	defer mu.Unlock()
	defaultDisk = name
}

// Named returns a disk by name, or an erroring stub for unknown names
// so call sites surface the misconfiguration instead of panicking.
func Named(name string) Disk {
	mu.RLock()
	defer mu.RUnlock()
	if d, ok := disks[name]; ok {
		return d
	}
	return unknownDisk{name: name}
}

// Default returns the default disk.
func Default() Disk {
	mu.RLock()
	defer mu.RUnlock()
	if d, ok := disks[defaultDisk]; ok {
		return d
	}
	return unknownDisk{name: defaultDisk}
}

// Default-disk proxies.

func Put(path string, content []byte) error        { return Default().Put(path, content) }
func PutStream(path string, r io.Reader) error     { return Default().PutStream(path, r) }
func Get(path string) ([]byte, error)              { return Default().Get(path) }
func GetStream(path string) (io.ReadCloser, error) { return Default().GetStream(path) }
func Exists(path string) bool                      { return Default().Exists(path) }
func URL(path string) string                       { return Default().URL(path) }
func DeleteFile(path string) error                 { return Default().Delete(path) }

type unknownDisk struct{ name string }

func (u unknownDisk) err() error { return fmt.Errorf("storage: disk %q is not configured", u.name) }

func (u unknownDisk) Put(string, []byte) error                { return u.err() }
func (u unknownDisk) PutStream(string, io.Reader) error       { return u.err() }
func (u unknownDisk) Get(string) ([]byte, error)              { return nil, u.err() }
func (u unknownDisk) GetStream(string) (io.ReadCloser, error) { return nil, u.err() }
func (u unknownDisk) Exists(string) bool                      { return false }
func (u unknownDisk) Size(string) (int64, error)              { return 0, u.err() }
func (u unknownDisk) URL(string) string                       { return "" }
func (u unknownDisk) Delete(string) error                     { return u.err() }
func (u unknownDisk) Move(string, string) error               { return u.err() }
func (u unknownDisk) Files(string) ([]string, error)          { return nil, u.err() }
