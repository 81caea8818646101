package render

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// sharedSubdirs are created beneath <deploy root>/shared, in order.
var sharedSubdirs = []string{"config", "log", "pids", "scripts", "sockets"}

// SharedDirectories returns the shared directory and its subdirectories for
// an application deployed at deployRoot.
func SharedDirectories(deployRoot string) []string {
	shared := filepath.Join(deployRoot, "shared")
	dirs := make([]string, 0, len(sharedSubdirs)+1)
	dirs = append(dirs, shared)
	for _, sub := range sharedSubdirs {
		dirs = append(dirs, filepath.Join(shared, sub))
	}
	return dirs
}

// DirectoryManager creates directories beneath the writer's root prefix.
type DirectoryManager struct {
	writer *FileWriter
}

// NewDirectoryManager creates a directory manager for w.
func NewDirectoryManager(w *FileWriter) *DirectoryManager {
	return &DirectoryManager{writer: w}
}

// CreateDirectories creates dirs with perm. In dry-run mode nothing is
// created.
func (m *DirectoryManager) CreateDirectories(dirs []string, perm os.FileMode) error {
	if m.writer.DryRun() {
		return nil
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(m.writer.HostPath(dir), perm); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// ContextChecker provides context cancellation checking.
type ContextChecker struct{}

// NewContextChecker creates a new context checker.
func NewContextChecker() *ContextChecker {
	return &ContextChecker{}
}

// Check checks if the context has been cancelled.
func (c *ContextChecker) Check(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}
