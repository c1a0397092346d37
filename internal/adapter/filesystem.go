package adapter

import (
	"os"
)

// FileSystem defines an interface for file system operations to enable mocking
//
//go:generate mockgen -source=filesystem.go -destination=../mocks/filesystem.go -package=mocks -mock_names=FileSystem=MockFileSystem
type FileSystem interface {
	// CreateTemp creates a new temporary file in the default temp directory
	CreateTemp(pattern string) (*os.File, error)

	// Remove removes the named file or directory
	Remove(name string) error
}

// RealFileSystem implements FileSystem using the standard os package
type RealFileSystem struct{}

// NewFileSystem creates a new real file system
func NewFileSystem() FileSystem {
	return &RealFileSystem{}
}

// CreateTemp creates a new temporary file in the default temp directory
func (fs *RealFileSystem) CreateTemp(pattern string) (*os.File, error) {
	return os.CreateTemp("", pattern)
}

// Remove removes the named file or directory
func (fs *RealFileSystem) Remove(name string) error {
	return os.Remove(name)
}
