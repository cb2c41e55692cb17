package handler

import (
	"fmt"
	"path/filepath"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"fdms/internal/model"
	"fdms/internal/service"
)

// uploadFields are the descriptive document columns accepted alongside an upload,
// read from the multipart form first and the query string second.
var uploadFields = []string{
	"title", "document_type", "description", "case_id", "client_name",
	"status", "visibility", "tags", "uploaded_by",
}

// UploadDocument godoc
// @Summary Upload a document file
// @Tags documents
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Document file"
// @Param title formData string true "Title"
// @Param document_type formData string true "Document type"
// @Success 201 {object} object
// @Failure 400 {object} errorPayload
// @Failure 422 {object} errorPayload
// @Router /api/documents/upload [post]
func UploadDocument(svc service.DocumentService, log *zap.Logger) fiber.Handler {
	log = orNop(log)
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}

		fields := model.Patch{}
		for _, name := range uploadFields {
			raw := c.FormValue(name)
			if raw == "" {
				raw = c.Query(name)
			}
			if raw == "" {
				continue
			}
			f, _ := model.Documents.Field(name)
			v, err := model.ParseParam(f, raw)
			if err != nil {
				return writeServiceError(c, log, err)
			}
			fields[name] = v
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/octet-stream"
		}

		doc, err := svc.Upload(c.UserContext(), service.UploadInput{
			Reader:      f,
			Filename:    filepath.Base(fh.Filename),
			ContentType: ct,
			Size:        fh.Size,
			Fields:      fields,
		})
		if err != nil {
			return writeServiceError(c, log, err)
		}
		return c.Status(fiber.StatusCreated).JSON(doc)
	}
}

// DownloadDocument godoc
// @Summary Presigned download link for a document
// @Tags documents
// @Produce json
// @Param id path int true "Document id"
// @Success 200 {object} service.DocumentLink
// @Failure 404 {object} errorPayload
// @Router /api/documents/{id}/download [get]
func DownloadDocument(svc service.DocumentService, log *zap.Logger) fiber.Handler {
	log = orNop(log)
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		link, err := svc.Download(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, log, err)
		}
		return c.JSON(link)
	}
}

// StreamDocument godoc
// @Summary Stream a document file
// @Tags documents
// @Produce octet-stream
// @Param id path int true "Document id"
// @Success 200 {file} file
// @Failure 404 {object} errorPayload
// @Router /api/documents/{id}/file [get]
func StreamDocument(svc service.DocumentService, log *zap.Logger) fiber.Handler {
	log = orNop(log)
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		rc, file, err := svc.Open(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, log, err)
		}

		c.Set(fiber.HeaderContentType, file.ContentType)
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("inline; filename=%q", file.Name))
		// fasthttp closes rc once the body is written.
		return c.SendStream(rc, int(file.Size))
	}
}
