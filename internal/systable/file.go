package systable

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ulikunitz/xz"
	"gopkg.in/yaml.v3"
)

// ErrDuplicateStationID indicates a system-table file listed the same
// station ID twice.
var ErrDuplicateStationID = errors.New("systable: duplicate station id")

// fileDocument mirrors the hierarchical system-table file schema:
// a version integer and a list of stations.
type fileDocument struct {
	Version  int       `yaml:"version"`
	Stations []Station `yaml:"stations"`
}

// LoadFile reads a YAML system-table document from path, transparently
// decompressing it first if the path ends in ".xz".
func LoadFile(path string) (*Directory, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("systable: read %s: %w", path, err)
	}
	if strings.HasSuffix(path, ".xz") {
		raw, err = decompressXZ(raw)
		if err != nil {
			return nil, fmt.Errorf("systable: decompress %s: %w", path, err)
		}
	}

	var doc fileDocument
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("systable: parse %s: %w", path, err)
	}

	seen := make(map[int]struct{}, len(doc.Stations))
	for _, s := range doc.Stations {
		if _, dup := seen[s.ID]; dup {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateStationID, s.ID)
		}
		seen[s.ID] = struct{}{}
	}

	dir := NewDirectory()
	dir.Replace(doc.Version, doc.Stations)
	return dir, nil
}

// SaveFile writes the directory's current snapshot to path as YAML,
// transparently xz-compressing it when path ends in ".xz".
func SaveFile(dir *Directory, path string) error {
	doc := fileDocument{
		Version:  dir.Version(),
		Stations: dir.Stations(),
	}

	raw, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("systable: marshal: %w", err)
	}

	if strings.HasSuffix(path, ".xz") {
		raw, err = compressXZ(raw)
		if err != nil {
			return fmt.Errorf("systable: compress: %w", err)
		}
	}

	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("systable: write %s: %w", path, err)
	}
	return nil
}

func decompressXZ(data []byte) ([]byte, error) {
	r, err := xz.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return io.ReadAll(r)
}

func compressXZ(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := xz.NewWriter(&buf)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
