package benchmark

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Store defines the interface for persisting per-branch result sets.
type Store interface {
	Reset() error
	Save(branch string, results ResultSet) error
	Load(branch string) (ResultSet, error)
}

// FileStore keeps one <branch>.json file per branch inside a scratch directory.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Dir returns the scratch directory.
func (s *FileStore) Dir() string {
	return s.dir
}

// Path returns the file holding the results of branch.
// Branch names containing "/" map to nested directories.
func (s *FileStore) Path(branch string) string {
	return filepath.Join(s.dir, filepath.FromSlash(branch)+".json")
}

// Reset deletes the scratch directory and creates it again empty.
func (s *FileStore) Reset() error {
	if err := os.RemoveAll(s.dir); err != nil {
		return fmt.Errorf("failed to remove %s: %w", s.dir, err)
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", s.dir, err)
	}
	return nil
}

func (s *FileStore) Save(branch string, results ResultSet) error {
	if results == nil {
		results = ResultSet{}
	}
	path := s.Path(branch)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", branch, err)
	}

	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results for %s: %w", branch, err)
	}
	data = append(data, '\n')

	return os.WriteFile(path, data, 0644)
}

func (s *FileStore) Load(branch string) (ResultSet, error) {
	path := s.Path(branch)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read results for %s: %w", branch, err)
	}

	var results ResultSet
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return results, nil
}

// LoadAll loads the result set of every branch, in order.
func LoadAll(s Store, branches []string) ([]ResultSet, error) {
	sets := make([]ResultSet, 0, len(branches))
	for _, b := range branches {
		rs, err := s.Load(b)
		if err != nil {
			return nil, err
		}
		sets = append(sets, rs)
	}
	return sets, nil
}
