// Package keyring maps short key IDs to recipient public-key files. The
// ring is a JSON file; each entry pins the key's SHA-256 fingerprint so a
// swapped key file is detected on lookup.
package keyring

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"k8s.io/klog/v2"

	"example.com/rsacrypt/pkg/crypto/pubkey/rsaenc"
	"example.com/rsacrypt/pkg/util/perm"
)

// EnvPath overrides DefaultPath.
const EnvPath = "RSACRYPT_KEYRING"

const fingerprintHash = "sha256"

var (
	ErrNotFound            = errors.New("keyring: key not found")
	ErrRevoked             = errors.New("keyring: key revoked")
	ErrFingerprintMismatch = errors.New("keyring: key file fingerprint changed")
)

type Entry struct {
	KeyID       string     `json:"key_id"`
	Path        string     `json:"path"`
	Format      string     `json:"format"`
	Bits        int        `json:"bits"`
	Fingerprint string     `json:"fingerprint"`
	Created     time.Time  `json:"created"`
	Revoked     bool       `json:"revoked"`
	RevokedAt   *time.Time `json:"revoked_at,omitempty"`
}

type Store struct {
	Entries []Entry `json:"entries"`
}

// Ring is a key ring file on disk. Methods reload the file on every call;
// concurrent writers are not coordinated.
type Ring struct {
	path string
	now  func() time.Time
}

func Open(path string) *Ring {
	return &Ring{path: path, now: func() time.Time { return time.Now().UTC() }}
}

// DefaultPath is $RSACRYPT_KEYRING, or keyring.json in the user config dir.
func DefaultPath() (string, error) {
	if p := os.Getenv(EnvPath); p != "" {
		return p, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("keyring: no default location, set %s: %w", EnvPath, err)
	}
	return filepath.Join(dir, "rsacrypt", "keyring.json"), nil
}

func (r *Ring) Path() string { return r.path }

func (r *Ring) load() (*Store, error) {
	b, err := os.ReadFile(r.path)
	if errors.Is(err, os.ErrNotExist) {
		return &Store{}, nil
	}
	if err != nil {
		return nil, err
	}
	if err := perm.CheckNotWritableByOthers(r.path); err != nil {
		return nil, fmt.Errorf("keyring: %w", err)
	}
	var s Store
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("keyring: parse %s: %w", r.path, err)
	}
	return &s, nil
}

func (r *Ring) save(s *Store) error {
	sort.Slice(s.Entries, func(i, j int) bool { return s.Entries[i].KeyID < s.Entries[j].KeyID })
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(r.path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(r.path, b, 0o600)
}

func (s *Store) find(keyID string) int {
	for i := range s.Entries {
		if s.Entries[i].KeyID == keyID {
			return i
		}
	}
	return -1
}

// inspect loads the key at path and returns a populated entry for it.
func inspect(keyID, path string) (*rsaenc.PublicKey, Entry, error) {
	if err := perm.CheckNotWritableByOthers(path); err != nil {
		return nil, Entry{}, err
	}
	key, format, err := rsaenc.LoadFile(path)
	if err != nil {
		return nil, Entry{}, err
	}
	fp, err := key.Fingerprint(fingerprintHash)
	if err != nil {
		return nil, Entry{}, err
	}
	return key, Entry{
		KeyID:       keyID,
		Path:        path,
		Format:      format.String(),
		Bits:        key.BitLen(),
		Fingerprint: fp,
	}, nil
}

// Add registers the public key at keyPath under keyID. Re-adding an ID
// replaces its entry and clears any revocation.
func (r *Ring) Add(ctx context.Context, keyID, keyPath string) (Entry, error) {
	log := klog.FromContext(ctx).WithName("keyring")

	keyID = strings.TrimSpace(keyID)
	if keyID == "" {
		return Entry{}, errors.New("keyring: empty key id")
	}
	abs, err := filepath.Abs(keyPath)
	if err != nil {
		return Entry{}, err
	}
	_, e, err := inspect(keyID, abs)
	if err != nil {
		return Entry{}, fmt.Errorf("keyring: add %s: %w", keyID, err)
	}

	s, err := r.load()
	if err != nil {
		return Entry{}, err
	}
	e.Created = r.now()
	if i := s.find(keyID); i >= 0 {
		log.V(1).Info("replacing key", "keyID", keyID, "oldFingerprint", s.Entries[i].Fingerprint)
		s.Entries[i] = e
	} else {
		s.Entries = append(s.Entries, e)
	}
	if err := r.save(s); err != nil {
		return Entry{}, err
	}
	log.Info("added key", "keyID", keyID, "bits", e.Bits, "format", e.Format, "fingerprint", e.Fingerprint)
	return e, nil
}

func (r *Ring) Revoke(ctx context.Context, keyID string) error {
	s, err := r.load()
	if err != nil {
		return err
	}
	i := s.find(keyID)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, keyID)
	}
	at := r.now()
	s.Entries[i].Revoked = true
	s.Entries[i].RevokedAt = &at
	if err := r.save(s); err != nil {
		return err
	}
	klog.FromContext(ctx).WithName("keyring").Info("revoked key", "keyID", keyID)
	return nil
}

// List returns all entries sorted by key ID, revoked ones included.
func (r *Ring) List(ctx context.Context) ([]Entry, error) {
	s, err := r.load()
	if err != nil {
		return nil, err
	}
	klog.FromContext(ctx).WithName("keyring").V(2).Info("loaded key ring", "path", r.path, "entries", len(s.Entries))
	sort.Slice(s.Entries, func(i, j int) bool { return s.Entries[i].KeyID < s.Entries[j].KeyID })
	return s.Entries, nil
}

// Lookup loads the key registered under keyID. Revoked keys and key files
// whose fingerprint no longer matches the entry are refused.
func (r *Ring) Lookup(ctx context.Context, keyID string) (*rsaenc.PublicKey, Entry, error) {
	s, err := r.load()
	if err != nil {
		return nil, Entry{}, err
	}
	i := s.find(keyID)
	if i < 0 {
		return nil, Entry{}, fmt.Errorf("%w: %s", ErrNotFound, keyID)
	}
	e := s.Entries[i]
	if e.Revoked {
		return nil, e, fmt.Errorf("%w: %s", ErrRevoked, keyID)
	}
	key, err := check(e)
	if err != nil {
		return nil, e, err
	}
	klog.FromContext(ctx).WithName("keyring").V(2).Info("resolved key", "keyID", keyID, "path", e.Path)
	return key, e, nil
}

func check(e Entry) (*rsaenc.PublicKey, error) {
	key, got, err := inspect(e.KeyID, e.Path)
	if err != nil {
		return nil, fmt.Errorf("key %s: %w", e.KeyID, err)
	}
	if got.Fingerprint != e.Fingerprint {
		return nil, fmt.Errorf("%w: %s: have %s, file has %s", ErrFingerprintMismatch, e.KeyID, e.Fingerprint, got.Fingerprint)
	}
	return key, nil
}

// Verify re-reads every non-revoked key and reports all failures at once.
func (r *Ring) Verify(ctx context.Context) error {
	log := klog.FromContext(ctx).WithName("keyring")

	s, err := r.load()
	if err != nil {
		return err
	}
	var result *multierror.Error
	for _, e := range s.Entries {
		if e.Revoked {
			log.V(1).Info("skipping revoked key", "keyID", e.KeyID)
			continue
		}
		if _, err := check(e); err != nil {
			result = multierror.Append(result, err)
			continue
		}
		log.V(1).Info("key ok", "keyID", e.KeyID)
	}
	return result.ErrorOrNil()
}
