package models

// FileGroup classifies a workspace file for the files view.
type FileGroup string

// File groups
const (
	GroupCore   FileGroup = "core"
	GroupMemory FileGroup = "memory"
)

// WorkspaceFile describes one file in the gateway workspace. Content is only
// populated on single-file reads, never in listings.
type WorkspaceFile struct {
	Name         string    `json:"name"`
	Path         string    `json:"path"`
	Content      string    `json:"content,omitempty"`
	LastModified string    `json:"lastModified"`
	Size         int64     `json:"size"`
	Group        FileGroup `json:"group,omitempty"`
}
