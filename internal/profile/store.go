package profile

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// ErrNotFound is returned when a named profile does not exist in the store.
var ErrNotFound = errors.New("profile not found")

// Store reads and writes the profiles TOML file. A missing file behaves
// as an empty store.
type Store struct {
	path string
}

// storeFile is the top-level TOML document: a list of [[profiles]] tables.
type storeFile struct {
	Profiles []*Profile `toml:"profiles"`
}

// NewStore returns a Store backed by the TOML file at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// List returns all profiles in file order.
func (s *Store) List() ([]*Profile, error) {
	sf, err := s.load()
	if err != nil {
		return nil, err
	}
	return sf.Profiles, nil
}

// Get returns the profile with the given name, or ErrNotFound.
func (s *Store) Get(name string) (*Profile, error) {
	sf, err := s.load()
	if err != nil {
		return nil, err
	}
	for _, p := range sf.Profiles {
		if strings.EqualFold(p.Name, name) {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
}

// Put inserts or replaces the profile by name and saves the file.
func (s *Store) Put(p *Profile) error {
	if strings.TrimSpace(p.Name) == "" {
		return errors.New("profile name is empty")
	}

	sf, err := s.load()
	if err != nil {
		return err
	}

	replaced := false
	for i, existing := range sf.Profiles {
		if strings.EqualFold(existing.Name, p.Name) {
			sf.Profiles[i] = p
			replaced = true
			break
		}
	}
	if !replaced {
		sf.Profiles = append(sf.Profiles, p)
	}

	return s.save(sf)
}

// Delete removes the profile by name and saves the file. Deleting a
// profile that does not exist returns ErrNotFound.
func (s *Store) Delete(name string) error {
	sf, err := s.load()
	if err != nil {
		return err
	}
	for i, p := range sf.Profiles {
		if strings.EqualFold(p.Name, name) {
			sf.Profiles = append(sf.Profiles[:i], sf.Profiles[i+1:]...)
			return s.save(sf)
		}
	}
	return fmt.Errorf("%w: %q", ErrNotFound, name)
}

func (s *Store) load() (*storeFile, error) {
	sf := &storeFile{}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return sf, nil
	}
	if err != nil {
		return nil, fmt.Errorf("profile store: read %q: %w", s.path, err)
	}

	if err := toml.Unmarshal(data, sf); err != nil {
		return nil, fmt.Errorf("profile store: decode %q: %w", s.path, err)
	}
	return sf, nil
}

func (s *Store) save(sf *storeFile) error {
	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("profile store: write %q: %w", s.path, err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(sf); err != nil {
		return fmt.Errorf("profile store: encode %q: %w", s.path, err)
	}
	return nil
}
