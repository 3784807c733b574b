package services

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/marcobit/clawcrm/internal/models"
)

// CoreFiles are the well-known workspace documents shown first in the files
// view, in this order.
var CoreFiles = []string{
	"MEMORY.md", "SOUL.md", "USER.md", "IDENTITY.md",
	"TOOLS.md", "HEARTBEAT.md", "AGENTS.md",
}

// FileService lists and edits files inside the gateway workspace root. All
// paths are confined to that root.
type FileService struct {
	root string
}

// NewFileService creates a file service rooted at the workspace directory.
func NewFileService(root string) *FileService {
	return &FileService{root: root}
}

// List enumerates the core files that exist plus all markdown files in the
// memory subdirectory: core files first in canonical order, then memory
// files newest-first.
func (s *FileService) List() ([]models.WorkspaceFile, error) {
	var files []models.WorkspaceFile

	for _, name := range CoreFiles {
		info, err := os.Stat(filepath.Join(s.root, name))
		if err != nil {
			continue
		}
		files = append(files, models.WorkspaceFile{
			Name:         name,
			Path:         name,
			LastModified: info.ModTime().UTC().Format(time.RFC3339),
			Size:         info.Size(),
			Group:        models.GroupCore,
		})
	}

	memoryDir := filepath.Join(s.root, "memory")
	entries, err := os.ReadDir(memoryDir)
	if err == nil {
		var memory []models.WorkspaceFile
		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
				continue
			}
			info, err := entry.Info()
			if err != nil {
				continue
			}
			memory = append(memory, models.WorkspaceFile{
				Name:         entry.Name(),
				Path:         "memory/" + entry.Name(),
				LastModified: info.ModTime().UTC().Format(time.RFC3339),
				Size:         info.Size(),
				Group:        models.GroupMemory,
			})
		}
		sort.Slice(memory, func(i, j int) bool {
			return memory[i].LastModified > memory[j].LastModified
		})
		files = append(files, memory...)
	}

	if files == nil {
		files = []models.WorkspaceFile{}
	}
	return files, nil
}

// Get reads one file by workspace-relative path.
func (s *FileService) Get(path string) (*models.WorkspaceFile, error) {
	resolved, err := s.resolve(path)
	if err != nil {
		return nil, err
	}

	content, err := os.ReadFile(resolved)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errNotFound("File not found")
		}
		return nil, errUnavailable(fmt.Sprintf("failed to read file: %v", err))
	}
	info, err := os.Stat(resolved)
	if err != nil {
		return nil, errUnavailable(fmt.Sprintf("failed to stat file: %v", err))
	}

	return &models.WorkspaceFile{
		Name:         filepath.Base(resolved),
		Path:         path,
		Content:      string(content),
		LastModified: info.ModTime().UTC().Format(time.RFC3339),
		Size:         info.Size(),
	}, nil
}

// Put writes content to one file by workspace-relative path.
func (s *FileService) Put(path, content string) error {
	resolved, err := s.resolve(path)
	if err != nil {
		return err
	}
	if err := os.WriteFile(resolved, []byte(content), 0o644); err != nil {
		return errUnavailable(fmt.Sprintf("failed to write file: %v", err))
	}
	return nil
}

// resolve maps a workspace-relative path onto the filesystem and rejects
// anything that escapes the root.
func (s *FileService) resolve(path string) (string, error) {
	if path == "" {
		return "", errInput("path required")
	}
	if filepath.IsAbs(path) {
		return "", errAccessDenied("Access denied")
	}

	resolved := filepath.Join(s.root, filepath.FromSlash(path))
	rel, err := filepath.Rel(s.root, resolved)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errAccessDenied("Access denied")
	}
	return resolved, nil
}
