// Package filesys provides small file system helpers shared by the storage
// engine and the CLI binaries: directory creation, existence checks, and
// segment file discovery.
package filesys

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

var ErrIsNotDir = errors.New("path isn't a directory")

// CreateDir creates a directory at dirPath with the given permissions.
//
// If the directory already exists:
//   - If force is true, it proceeds without error.
//   - If force is false, it returns the stat error.
//
// It also returns an error if the existing path is a file, not a directory.
func CreateDir(dirPath string, permission os.FileMode, force bool) error {
	stat, err := os.Stat(dirPath)
	if stat != nil && !stat.IsDir() {
		return ErrIsNotDir
	}
	if !force && !os.IsNotExist(err) {
		return err
	}
	return os.MkdirAll(dirPath, permission)
}

// WriteFile writes contents to filePath with the given permission,
// creating the file if it does not exist and truncating it if it does.
func WriteFile(filePath string, permission os.FileMode, contents []byte) error {
	return os.WriteFile(filePath, contents, permission)
}

// DeleteFile removes the file at filePath.
func DeleteFile(filePath string) error {
	return os.Remove(filePath)
}

// ReadFile reads the entire content of filePath into a byte slice.
func ReadFile(filePath string) ([]byte, error) {
	return os.ReadFile(filePath)
}

// SearchFileExtensions walks sourceDir and returns the full paths of every
// regular file whose extension matches extension, skipping any path that
// contains one of excludeDirs. Used at Open to discover existing segment files.
func SearchFileExtensions(sourceDir string, excludeDirs []string, extension string) ([]string, error) {
	files := make([]string, 0)

	err := filepath.WalkDir(sourceDir, fs.WalkDirFunc(func(path string, ds fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !ds.IsDir() && !isAncestor(excludeDirs, path) && filepath.Ext(path) == extension {
			files = append(files, path)
		}
		return nil
	}))
	if err != nil {
		return nil, err
	}

	return files, nil
}

// Pwd returns the current working directory.
func Pwd() (string, error) {
	return os.Getwd()
}

// Exists reports whether a file or directory at path exists.
func Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// isAncestor reports whether path contains any of excludeDirs as a
// substring.
func isAncestor(excludeDirs []string, path string) bool {
	for _, excludeDir := range excludeDirs {
		if strings.Contains(path, excludeDir) {
			return true
		}
	}
	return false
}
