// Package lockfile records what gen resolved, for drift inspection.
//
// The lockfile is write-only bookkeeping: gen always fetches fresh content
// and never consults the lockfile to skip a fetch. Its hashes let users
// diff builds and notice when a remote resource changed underneath them.
package lockfile

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const LockfileName = "urlembed-lock.toml"
const APIVersion = "1"

// Entry records one resolved embed.
// Example:
//
//	[embeds.Greeting]
//	url = "https://example.com/hello.txt"
//	format = "text"
//	hash = "sha256:<hash_value>"
type Entry struct {
	URL    string `toml:"url"`
	Format string `toml:"format"`
	Hash   string `toml:"hash"`
}

// Lockfile represents the structure of the urlembed-lock.toml file.
type Lockfile struct {
	APIVersion string           `toml:"api_version"`
	Embeds     map[string]Entry `toml:"embeds"`
}

// New creates a new Lockfile instance with default values.
func New() *Lockfile {
	return &Lockfile{
		APIVersion: APIVersion,
		Embeds:     make(map[string]Entry),
	}
}

// Load loads the lockfile from the given project root path. If the lockfile
// doesn't exist, it returns a new Lockfile instance.
func Load(projectRoot string) (*Lockfile, error) {
	lockfilePath := filepath.Join(projectRoot, LockfileName)
	lf := New()

	if _, err := os.Stat(lockfilePath); os.IsNotExist(err) {
		return lf, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to stat lockfile %s: %w", lockfilePath, err)
	}

	if _, err := toml.DecodeFile(lockfilePath, lf); err != nil {
		return nil, fmt.Errorf("failed to decode lockfile %s: %w", lockfilePath, err)
	}
	if lf.APIVersion == "" {
		lf.APIVersion = APIVersion
	}
	if lf.Embeds == nil {
		lf.Embeds = make(map[string]Entry)
	}
	return lf, nil
}

// Save saves the lockfile to the given project root path.
func Save(projectRoot string, lf *Lockfile) error {
	lockfilePath := filepath.Join(projectRoot, LockfileName)
	file, err := os.Create(lockfilePath)
	if err != nil {
		return fmt.Errorf("failed to create lockfile %s: %w", lockfilePath, err)
	}
	defer func() { _ = file.Close() }()

	if err := toml.NewEncoder(file).Encode(lf); err != nil {
		return fmt.Errorf("failed to encode lockfile %s: %w", lockfilePath, err)
	}
	return nil
}

// AddOrUpdate records the outcome of one resolved embed.
func (lf *Lockfile) AddOrUpdate(name, url, format, hash string) {
	if lf.Embeds == nil {
		lf.Embeds = make(map[string]Entry)
	}
	lf.Embeds[name] = Entry{URL: url, Format: format, Hash: hash}
}
