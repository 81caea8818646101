package render

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/moby/sys/atomicwriter"
)

// FileWriter writes artifacts beneath a root prefix with result tracking.
// Every file is written to a temporary sibling and renamed into place, so a
// reader never observes a partial artifact.
type FileWriter struct {
	root   string
	result *Result

	// diffs receives planned changes instead of writing when non-nil.
	diffs io.Writer
}

// WriterOption configures a FileWriter.
type WriterOption func(*FileWriter)

// WithDryRun makes the writer print diffs to w instead of touching files.
func WithDryRun(w io.Writer) WriterOption {
	return func(fw *FileWriter) {
		fw.diffs = w
	}
}

// NewFileWriter creates a file writer rooted at root.
func NewFileWriter(root string, result *Result, opts ...WriterOption) *FileWriter {
	w := &FileWriter{
		root:   root,
		result: result,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// DryRun reports whether the writer only prints diffs.
func (w *FileWriter) DryRun() bool {
	return w.diffs != nil
}

// HostPath maps an absolute artifact path beneath the root prefix.
func (w *FileWriter) HostPath(path string) string {
	return filepath.Join(w.root, path)
}

// WriteFile writes content to path with perm. Unchanged files are left
// alone apart from their permissions.
func (w *FileWriter) WriteFile(path string, content []byte, perm os.FileMode) error {
	host := w.HostPath(path)

	current, err := os.ReadFile(host)
	exists := err == nil
	if exists && bytes.Equal(current, content) {
		if !w.DryRun() {
			if err := os.Chmod(host, perm); err != nil {
				return fmt.Errorf("failed to set permissions on %s: %w", path, err)
			}
		}
		w.result.AddSkipped(path)
		slog.Debug("file unchanged", "path", path)
		return nil
	}

	if w.DryRun() {
		w.result.AddSkipped(path)
		return writeDiff(w.diffs, path, string(current), string(content))
	}

	if err := os.MkdirAll(filepath.Dir(host), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	if err := atomicwriter.WriteFile(host, content, perm); err != nil {
		return fmt.Errorf("failed to write file %s: %w", path, err)
	}

	w.result.AddFile(path, int64(len(content)))

	slog.Debug("file written",
		"path", path,
		"size_bytes", len(content),
		"permissions", perm,
	)

	return nil
}

// WriteFileString writes string content to path with perm.
func (w *FileWriter) WriteFileString(path, content string, perm os.FileMode) error {
	return w.WriteFile(path, []byte(content), perm)
}

// Symlink points path at target. The link is relative so it resolves the
// same way with or without a root prefix.
func (w *FileWriter) Symlink(path, target string) error {
	host := w.HostPath(path)
	rel, err := filepath.Rel(filepath.Dir(path), target)
	if err != nil {
		return fmt.Errorf("failed to compute link target for %s: %w", path, err)
	}

	if existing, err := os.Readlink(host); err == nil && existing == rel {
		w.result.AddLink(path)
		return nil
	}

	if w.DryRun() {
		w.result.AddSkipped(path)
		_, err := fmt.Fprintf(w.diffs, "link %s -> %s\n", path, target)
		return err
	}

	if err := os.MkdirAll(filepath.Dir(host), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	if info, err := os.Lstat(host); err == nil {
		if info.IsDir() {
			return fmt.Errorf("cannot link %s: a directory is in the way", path)
		}
		if err := os.Remove(host); err != nil {
			return fmt.Errorf("failed to replace %s: %w", path, err)
		}
	}
	if err := os.Symlink(rel, host); err != nil {
		return fmt.Errorf("failed to link %s: %w", path, err)
	}

	w.result.AddLink(path)
	slog.Debug("link created", "path", path, "target", target)
	return nil
}
