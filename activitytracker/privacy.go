package activitytracker

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LocalSalt is the local-only anonymization secret. It lives in the state dir
// (never committed anywhere) and keys the pseudonymous project ids that appear
// in reports instead of real folder names.
type LocalSalt struct {
	Value string
}

func saltPath(stateDir string) string {
	return filepath.Join(stateDir, "salt.txt")
}

// LoadOrCreateSalt returns the existing salt or creates and persists a fresh
// random one on first use.
func LoadOrCreateSalt(stateDir string) (*LocalSalt, error) {
	p := saltPath(stateDir)

	data, err := os.ReadFile(p)
	if err == nil {
		return &LocalSalt{Value: strings.TrimSpace(string(data))}, nil
	}
	if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read salt: %w", err)
	}

	raw := make([]byte, 16)
	if _, err := rand.Read(raw); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	salt := hex.EncodeToString(raw)

	if err := os.MkdirAll(stateDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}
	if err := os.WriteFile(p, []byte(salt), 0600); err != nil {
		return nil, fmt.Errorf("failed to persist salt: %w", err)
	}
	return &LocalSalt{Value: salt}, nil
}

// ProjectIDForPath produces a stable pseudonymous id for a watched project
// directory: a secret-keyed one-way hash of its resolved absolute path. Pure
// function of (path, salt); equal inputs always yield the same id.
func ProjectIDForPath(projectPath string, salt *LocalSalt) string {
	resolved, err := filepath.Abs(projectPath)
	if err != nil {
		resolved = projectPath
	}

	mac := hmac.New(sha256.New, []byte(salt.Value))
	mac.Write([]byte(resolved))
	digest := hex.EncodeToString(mac.Sum(nil))
	return "Project-" + digest[:10]
}
