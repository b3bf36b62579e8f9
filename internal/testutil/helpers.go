package testutil

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/spf13/afero"
)

// WriteTree writes a map of path to content onto a filesystem, creating
// parent directories as needed. Useful for building test fixtures on an
// in-memory filesystem.
func WriteTree(fsys afero.Fs, files map[string]string) error {
	for path, content := range files {
		if i := strings.LastIndex(path, "/"); i >= 0 {
			if err := fsys.MkdirAll(path[:i], 0o755); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", path[:i], err)
			}
		}
		if err := afero.WriteFile(fsys, path, []byte(content), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
	}
	return nil
}

// GenerateRandomData creates a byte slice of random data.
func GenerateRandomData(size int) []byte {
	data := make([]byte, size)
	for i := range data {
		data[i] = byte(rand.Intn(256))
	}
	return data
}

// GenerateTestKey generates a unique object key with optional prefix.
func GenerateTestKey(prefix string) string {
	timestamp := time.Now().UnixNano()
	random := rand.Int63n(100000)
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return fmt.Sprintf("%stest-object-%d-%d", prefix, timestamp, random)
}

// GenerateTestBucketName generates a valid, DNS-compliant test bucket name.
func GenerateTestBucketName(prefix string) string {
	timestamp := time.Now().Unix()
	random := rand.Int31n(10000)
	name := fmt.Sprintf("%s-%d-%d", prefix, timestamp, random)
	name = strings.ToLower(name)
	name = strings.ReplaceAll(name, "_", "-")
	if len(name) > 63 {
		name = name[:63]
	}
	return name
}
