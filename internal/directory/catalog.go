package directory

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

type catalogFile struct {
	Doctors []Doctor `yaml:"doctors"`
}

// DefaultCatalog returns the built-in clinic catalog.
func DefaultCatalog() ([]Doctor, error) {
	return decodeCatalog(bytes.NewReader(defaultCatalog))
}

// LoadCatalog reads a YAML catalog from path. An empty path yields the built-in catalog.
func LoadCatalog(path string) ([]Doctor, error) {
	if path == "" {
		return DefaultCatalog()
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog %s: %w", path, err)
	}
	defer f.Close()

	doctors, err := decodeCatalog(f)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return doctors, nil
}

// WriteCatalog encodes doctors in the format LoadCatalog reads.
func WriteCatalog(w io.Writer, doctors []Doctor) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(catalogFile{Doctors: doctors}); err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	return enc.Close()
}

func decodeCatalog(r io.Reader) ([]Doctor, error) {
	var file catalogFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return file.Doctors, nil
}
