package initcmd

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"
)

// keepBackups is how many timestamped backups of one file are kept.
const keepBackups = 3

// Exists reports whether a file exists at path.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Backup copies path to path.<timestamp>.bak, keeping the file mode, and
// removes all but the newest backups of the same file. It returns "" when
// path does not exist.
func Backup(path string, now time.Time) (string, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", path, err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}

	backupPath := fmt.Sprintf("%s.%s.bak", path, now.Format("20060102-150405"))
	if err := os.WriteFile(backupPath, content, info.Mode().Perm()); err != nil {
		return "", fmt.Errorf("write backup: %w", err)
	}

	if err := pruneBackups(path); err != nil {
		return backupPath, err
	}
	return backupPath, nil
}

// pruneBackups removes older backups of path. Timestamps sort lexically.
func pruneBackups(path string) error {
	matches, err := filepath.Glob(path + ".*.bak")
	if err != nil {
		return err
	}
	if len(matches) <= keepBackups {
		return nil
	}

	slices.Sort(matches)
	for _, old := range matches[:len(matches)-keepBackups] {
		if err := os.Remove(old); err != nil {
			return fmt.Errorf("remove old backup: %w", err)
		}
	}
	return nil
}
