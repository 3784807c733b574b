package handlers

import (
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/marcobit/clawcrm/internal/services"
)

// FilesHandler exposes the workspace files adapter over HTTP
type FilesHandler struct {
	files *services.FileService
}

// NewFilesHandler creates a new files handler
func NewFilesHandler(files *services.FileService) *FilesHandler {
	return &FilesHandler{files: files}
}

// ListFiles returns the workspace file listing
// @Summary List workspace files
// @Produce json
// @Success 200 {array} models.WorkspaceFile
// @Router /api/files [get]
func (h *FilesHandler) ListFiles(c *fiber.Ctx) error {
	files, err := h.files.List()
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(files)
}

// GetFile returns one file with its content
// @Summary Read a workspace file
// @Produce json
// @Param path path string true "Workspace-relative path"
// @Success 200 {object} models.WorkspaceFile
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/files/{path} [get]
func (h *FilesHandler) GetFile(c *fiber.Ctx) error {
	path, err := relativePath(c)
	if err != nil {
		return writeError(c, err)
	}
	file, err := h.files.Get(path)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(file)
}

// PutFile overwrites one file's content
// @Summary Write a workspace file
// @Accept json
// @Produce json
// @Param path path string true "Workspace-relative path"
// @Param body body map[string]string true "Object with 'content'"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]string
// @Router /api/files/{path} [put]
func (h *FilesHandler) PutFile(c *fiber.Ctx) error {
	path, err := relativePath(c)
	if err != nil {
		return writeError(c, err)
	}

	var payload struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
	}

	if err := h.files.Put(path, payload.Content); err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "path": path})
}

// relativePath extracts the wildcard path segment, URL-decoded.
func relativePath(c *fiber.Ctx) (string, error) {
	raw := c.Params("*")
	if raw == "" {
		return "", fiber.NewError(fiber.StatusBadRequest, "Path required")
	}
	path, err := url.PathUnescape(raw)
	if err != nil {
		return "", fiber.NewError(fiber.StatusBadRequest, "Invalid path encoding")
	}
	return path, nil
}
