package changelog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the journal file kept in the repository folder.
const FileName = "idchangelog.yaml"

type fileDocument struct {
	Version int     `yaml:"version"`
	Entries []Entry `yaml:"entries"`
}

const fileVersion = 1

// FileStore keeps the journal as a YAML document, rewritten whole on each append.
type FileStore struct {
	path string
}

var _ Store = (*FileStore)(nil)

// NewFileStore returns a store for dir/idchangelog.yaml.
func NewFileStore(dir string) *FileStore {
	return &FileStore{path: filepath.Join(dir, FileName)}
}

// Path returns the journal file path.
func (s *FileStore) Path() string { return s.path }

func (s *FileStore) Load() ([]Entry, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.path, err)
	}
	var doc fileDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", s.path, err)
	}
	for i, e := range doc.Entries {
		if !e.Type.Valid() {
			return nil, fmt.Errorf("parsing %s: entry %d has unknown type %q", s.path, i, e.Type)
		}
	}
	return doc.Entries, nil
}

func (s *FileStore) Append(e Entry) error {
	entries, err := s.Load()
	if err != nil {
		return err
	}
	doc := fileDocument{Version: fileVersion, Entries: append(entries, e)}
	data, err := yaml.Marshal(&doc)
	if err != nil {
		return fmt.Errorf("encoding change log: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating change log directory: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replacing %s: %w", s.path, err)
	}
	return nil
}
