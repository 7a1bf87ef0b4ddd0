package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

const logPrefix, logSuffix = "portfolio-", ".log"

// OpenLogFile starts a fresh timestamped log in dir and prunes the oldest
// so at most keep files remain. The caller closes the file.
func OpenLogFile(dir string, keep int, now time.Time) (*os.File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	name := filepath.Join(dir, logPrefix+now.UTC().Format("20060102T150405.000")+logSuffix)
	f, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("create log file: %w", err)
	}

	// A failed prune still leaves a usable log.
	if err := pruneLogs(dir, keep); err != nil {
		fmt.Fprintf(os.Stderr, "warning: prune logs: %v\n", err)
	}
	return f, nil
}

func pruneLogs(dir string, keep int) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	var logs []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), logPrefix) && strings.HasSuffix(e.Name(), logSuffix) {
			logs = append(logs, e.Name())
		}
	}
	if len(logs) <= keep {
		return nil
	}

	// Timestamps sort lexically.
	slices.Sort(logs)

	var errs []error
	for _, name := range logs[:len(logs)-keep] {
		if err := os.Remove(filepath.Join(dir, name)); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
