package telegram

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// ErrInsecureSessionFile is returned when a session file is readable by
// group or others. The session grants full account access, so a loose mode
// is treated as a hard error rather than a warning.
var ErrInsecureSessionFile = errors.New("session file permissions too permissive, expected 0600")

const sessionFileMode = os.FileMode(0o600)

// SaveSession writes session bytes to path with owner-only permissions,
// creating parent directories as needed. An existing file is overwritten.
func SaveSession(path string, session []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create session directory %s: %w", dir, err)
	}
	if err := os.WriteFile(path, session, sessionFileMode); err != nil {
		return fmt.Errorf("write session file %s: %w", path, err)
	}
	// WriteFile only applies the mode on creation; tighten pre-existing files.
	if err := os.Chmod(path, sessionFileMode); err != nil {
		return fmt.Errorf("chmod session file %s: %w", path, err)
	}
	return nil
}

// LoadSession reads session bytes from path, refusing files that other users
// could read. The permission check is skipped on Windows, which has no unix
// mode bits.
func LoadSession(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat session file %s: %w", path, err)
	}
	if runtime.GOOS != "windows" {
		if info.Mode().Perm()&0o077 != 0 {
			return nil, fmt.Errorf("%s: %w", path, ErrInsecureSessionFile)
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read session file %s: %w", path, err)
	}
	return data, nil
}
