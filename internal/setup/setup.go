// Package setup copies untracked setup files (.env and friends) into new
// worktrees. Existing files in the target are never overwritten.
package setup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/easy-worktree/wt/internal/log"
)

// Result lists what CopyFiles did, as paths relative to the source.
type Result struct {
	Copied  []string
	Skipped []string // already present in the target
	Missing []string // configured entries matching nothing
}

// CopyFiles copies each entry of files from sourceDir into targetDir.
// Entries are relative paths or glob patterns; a matched directory is
// copied recursively.
func CopyFiles(ctx context.Context, sourceDir, targetDir string, files []string) (Result, error) {
	l := log.FromContext(ctx)
	var res Result

	for _, entry := range files {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		matches, err := filepath.Glob(filepath.Join(sourceDir, entry))
		if err != nil {
			return res, fmt.Errorf("setup_files entry %q: %w", entry, err)
		}
		if len(matches) == 0 {
			res.Missing = append(res.Missing, entry)
			continue
		}

		for _, src := range matches {
			err := filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if d.IsDir() {
					if d.Name() == ".git" {
						return filepath.SkipDir
					}
					return nil
				}
				if !d.Type().IsRegular() {
					return nil
				}

				rel, err := filepath.Rel(sourceDir, path)
				if err != nil {
					return err
				}
				ok, err := CopyFile(path, filepath.Join(targetDir, rel))
				if err != nil {
					return fmt.Errorf("copy %s: %w", rel, err)
				}
				if ok {
					l.Debug("setup: copied file", "file", rel)
					res.Copied = append(res.Copied, rel)
				} else {
					res.Skipped = append(res.Skipped, rel)
				}
				return nil
			})
			if err != nil {
				return res, err
			}
		}
	}

	slices.Sort(res.Copied)
	return res, nil
}

// CopyFile copies src to dst, creating parent directories as needed.
// Uses O_CREATE|O_EXCL to skip files that already exist (never overwrite).
// Preserves the source file's permission bits.
// Returns true if the file was copied, false if it was skipped (already exists).
func CopyFile(src, dst string) (bool, error) {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return false, err
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return false, err
	}

	// O_EXCL: fail if file exists (never overwrite)
	dstFile, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, srcInfo.Mode().Perm())
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return false, nil
		}
		return false, err
	}
	defer dstFile.Close()

	srcFile, err := os.Open(src)
	if err != nil {
		os.Remove(dst)
		return false, err
	}
	defer srcFile.Close()

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		os.Remove(dst) // partial
		return false, err
	}
	// umask may have narrowed the mode
	if err := dstFile.Chmod(srcInfo.Mode().Perm()); err != nil {
		return true, err
	}

	return true, nil
}
