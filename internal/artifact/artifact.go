// Package artifact persists one face embedding file per registered student.
//
// File names are "<identity>-<uuid>.gob": keyed by the student identity, but
// unique per write so that a registration rolling back its own file can never
// remove a file written by a concurrent registration of the same identity.
package artifact

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/renameio"
	"github.com/google/uuid"
	"github.com/kozaktomas/face-attendance/internal/facematch"
)

const (
	fileExt        = ".gob"
	currentVersion = 1
	maxKeyLength   = 64
)

// ErrCorrupt is returned when an artifact exists but cannot be decoded.
var ErrCorrupt = errors.New("corrupt embedding artifact")

// file is the on-disk layout of an artifact.
type file struct {
	Version   int
	Identity  string
	Embedding facematch.Vector
}

// Store writes artifacts into a single directory.
type Store struct {
	dir string
}

// NewStore creates the directory if needed.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		return nil, errors.New("artifact directory is required")
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating artifact directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the artifact directory.
func (s *Store) Dir() string {
	return s.dir
}

// Save atomically writes the embedding for identity and returns its path.
func (s *Store) Save(identity string, embedding facematch.Vector) (string, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(file{
		Version:   currentVersion,
		Identity:  identity,
		Embedding: embedding,
	}); err != nil {
		return "", fmt.Errorf("encoding artifact: %w", err)
	}

	path := filepath.Join(s.dir, fileKey(identity)+"-"+uuid.NewString()+fileExt)
	if err := renameio.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		return "", fmt.Errorf("writing artifact: %w", err)
	}
	return path, nil
}

// Load reads an artifact. A missing file returns an error wrapping
// os.ErrNotExist; an undecodable one wraps ErrCorrupt.
func Load(path string) (facematch.Vector, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the students table
	if err != nil {
		return facematch.Vector{}, fmt.Errorf("reading artifact: %w", err)
	}

	var f file
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&f); err != nil {
		return facematch.Vector{}, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	if f.Version != currentVersion {
		return facematch.Vector{}, fmt.Errorf("%w: unsupported version %d", ErrCorrupt, f.Version)
	}
	return f.Embedding, nil
}

// Remove deletes an artifact. Removing a file that does not exist is not an error.
func Remove(path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing artifact: %w", err)
	}
	return nil
}

// fileKey turns an identity into a safe file name fragment.
func fileKey(identity string) string {
	var b strings.Builder
	for _, r := range identity {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
		if b.Len() >= maxKeyLength {
			break
		}
	}
	key := strings.Trim(b.String(), ".")
	if key == "" {
		key = "student"
	}
	return key
}
