package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"fdms/internal/model"
	"fdms/internal/storage"
)

// ErrReaderNil is returned when an upload carries no file content.
var ErrReaderNil = &Error{Kind: KindValidation, Message: "file: field required"}

// UploadInput is one uploaded file with the descriptive fields of its document row.
type UploadInput struct {
	Reader      io.Reader
	Filename    string
	ContentType string
	Size        int64
	Fields      model.Patch
}

// DocumentLink locates the stored file of a document.
type DocumentLink struct {
	FilePath string `json:"file_path"`
	FileName string `json:"file_name"`
	MimeType any    `json:"mime_type"`
	URL      string `json:"url"`
}

// DocumentFile describes a streamed document.
type DocumentFile struct {
	Name        string
	ContentType string
	Size        int64
}

// DocumentService handles the file side of documents. Metadata goes through RecordService.
type DocumentService interface {
	// Upload stores the content, then creates the document row. The object is removed
	// again if the row cannot be saved.
	// Filename is used for the extension and file_name; the object key is documents/<uuid><ext>.
	Upload(ctx context.Context, in UploadInput) (model.Record, error)

	// Download returns a presigned link to the document's file.
	Download(ctx context.Context, id int64) (*DocumentLink, error)

	// Open streams the document's file. The caller closes the reader.
	Open(ctx context.Context, id int64) (io.ReadCloser, *DocumentFile, error)
}

type documentService struct {
	store   storage.Storage
	records RecordService
	expiry  time.Duration
}

// NewDocumentService constructs a DocumentService. expiry bounds presigned links.
func NewDocumentService(store storage.Storage, records RecordService, expiry time.Duration) DocumentService {
	if expiry <= 0 {
		expiry = 15 * time.Minute
	}
	return &documentService{store: store, records: records, expiry: expiry}
}

func (s *documentService) Upload(ctx context.Context, in UploadInput) (model.Record, error) {
	if in.Reader == nil {
		return nil, ErrReaderNil
	}
	fields := in.Fields
	if fields == nil {
		fields = model.Patch{}
	}

	ext := filepath.Ext(in.Filename)
	key := filepath.ToSlash(filepath.Join("documents", uuid.New().String()+ext))

	fields["file_name"] = in.Filename
	fields["file_path"] = key
	fields["file_type"] = strings.ToUpper(strings.TrimPrefix(ext, "."))
	fields["mime_type"] = nullIfEmpty(in.ContentType)
	fields["file_size"] = in.Size

	// Reject bad metadata before anything is written.
	if err := model.Documents.CheckCreate(fields); err != nil {
		return nil, translate(model.Documents, err)
	}

	objInfo, err := s.store.Put(ctx, key, in.Reader, storage.PutObjectOptions{
		Size:        in.Size,
		ContentType: in.ContentType,
		Metadata: map[string]string{
			"original-filename": in.Filename,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}
	if objInfo.Size > 0 {
		fields["file_size"] = objInfo.Size
	}

	stored, err := s.records.Create(ctx, model.Documents, fields)
	if err != nil {
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return nil, fmt.Errorf("db save failed: %w; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}
	return stored, nil
}

func (s *documentService) Download(ctx context.Context, id int64) (*DocumentLink, error) {
	doc, err := s.records.Get(ctx, model.Documents, id)
	if err != nil {
		return nil, err
	}
	key := doc.Text("file_path")
	url, err := s.store.PresignGet(ctx, key, s.expiry)
	if err != nil {
		return nil, fmt.Errorf("presign %s: %w", key, err)
	}
	return &DocumentLink{
		FilePath: key,
		FileName: doc.Text("file_name"),
		MimeType: doc["mime_type"],
		URL:      url,
	}, nil
}

func (s *documentService) Open(ctx context.Context, id int64) (io.ReadCloser, *DocumentFile, error) {
	doc, err := s.records.Get(ctx, model.Documents, id)
	if err != nil {
		return nil, nil, err
	}
	rc, info, err := s.store.Get(ctx, doc.Text("file_path"))
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, nil, NotFound("File not found")
		}
		return nil, nil, fmt.Errorf("open object: %w", err)
	}

	file := &DocumentFile{
		Name:        doc.Text("file_name"),
		ContentType: info.ContentType,
		Size:        info.Size,
	}
	if file.ContentType == "" {
		file.ContentType = doc.Text("mime_type")
	}
	if file.ContentType == "" {
		file.ContentType = "application/octet-stream"
	}
	return rc, file, nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
