package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"fdms/docs"
	"fdms/internal/model"
	"fdms/internal/service"
	serviceMocks "fdms/internal/service/mocks"
	storeMocks "fdms/internal/storage/mocks"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func decodeError(t *testing.T, resp *http.Response) errorPayload {
	t.Helper()
	var res errorPayload
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	return res
}

func TestHealthCheck(t *testing.T) {
	db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	store := new(storeMocks.MockStorage)
	app := fiber.New()
	app.Get("/health", HealthCheck(db, store))

	t.Run("healthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(nil)
		store.On("Ping", mock.Anything).Return(nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]string
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "healthy", body["status"])
	})

	t.Run("database down", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(errors.New("db error"))

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		assert.Equal(t, "SERVICE_UNAVAILABLE", decodeError(t, resp).Error.Code)
	})

	t.Run("object store down", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(nil)
		store.On("Ping", mock.Anything).Return(errors.New("bucket missing")).Once()

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	})

	store.AssertExpectations(t)
}

func TestLivenessProbe(t *testing.T) {
	app := fiber.New()
	app.Get("/healthz", LivenessProbe())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func newRecordApp(svc *serviceMocks.MockRecordService) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
	RegisterRoutes(app, Deps{Records: svc})
	return app
}

func TestListRecords(t *testing.T) {
	mockSvc := new(serviceMocks.MockRecordService)
	app := newRecordApp(mockSvc)

	t.Run("success", func(t *testing.T) {
		mockSvc.On("List", mock.Anything, model.Vehicles, service.ListParams{
			Skip:    5,
			Limit:   10,
			Search:  "cadillac",
			Filters: map[string]string{"status": "Available"},
		}).Return([]model.Record{{"id": int64(1), "make": "Cadillac"}}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/vehicles?skip=5&limit=10&search=cadillac&status=Available&unknown=x", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var result []map[string]any
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Len(t, result, 1)
		assert.Equal(t, "Cadillac", result[0]["make"])
		mockSvc.AssertExpectations(t)
	})

	t.Run("empty list is an array", func(t *testing.T) {
		mockSvc.On("List", mock.Anything, model.Contacts, mock.Anything).Return([]model.Record{}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/contacts", nil)
		resp, _ := app.Test(req)

		body, _ := io.ReadAll(resp.Body)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "[]", string(body))
	})

	t.Run("invalid limit", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/vehicles?limit=abc", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_LIMIT", decodeError(t, resp).Error.Code)
	})

	t.Run("invalid skip", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/vehicles?skip=1.5", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_SKIP", decodeError(t, resp).Error.Code)
	})

	t.Run("bad filter value", func(t *testing.T) {
		mockSvc.On("List", mock.Anything, model.Payments, mock.Anything).
			Return(nil, service.Invalid("invoice_id: must be an integer")).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/payments?invoice_id=x", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		assert.Equal(t, "VALIDATION_ERROR", decodeError(t, resp).Error.Code)
	})

	t.Run("service error", func(t *testing.T) {
		mockSvc.On("List", mock.Anything, model.Cases, mock.Anything).Return(nil, errors.New("db down")).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/cases", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		res := decodeError(t, resp)
		assert.Equal(t, "INTERNAL_ERROR", res.Error.Code)
		assert.Equal(t, "internal server error", res.Error.Message)
	})
}

func TestGetRecord(t *testing.T) {
	mockSvc := new(serviceMocks.MockRecordService)
	app := newRecordApp(mockSvc)

	t.Run("success", func(t *testing.T) {
		mockSvc.On("Get", mock.Anything, model.Cases, int64(7)).
			Return(model.Record{"id": int64(7), "case_number": "FD-2026-0314093000"}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/cases/7", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var result map[string]any
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Equal(t, "FD-2026-0314093000", result["case_number"])
	})

	t.Run("not found", func(t *testing.T) {
		mockSvc.On("Get", mock.Anything, model.Cases, int64(999)).Return(nil, service.NotFound("Case not found")).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/cases/999", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		res := decodeError(t, resp)
		assert.Equal(t, "NOT_FOUND", res.Error.Code)
		assert.Equal(t, "Case not found", res.Error.Message)
	})

	t.Run("invalid id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/cases/abc", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_ID", decodeError(t, resp).Error.Code)
	})

	mockSvc.AssertExpectations(t)
}

func TestCreateRecord(t *testing.T) {
	mockSvc := new(serviceMocks.MockRecordService)
	app := newRecordApp(mockSvc)

	post := func(path, body string) *http.Response {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)
		return resp
	}

	t.Run("created", func(t *testing.T) {
		mockSvc.On("Create", mock.Anything, model.Contacts, model.Patch{"name": "Jane", "email": "jane@example.com"}).
			Return(model.Record{"id": int64(1), "name": "Jane"}, nil).Once()

		resp := post("/api/contacts", `{"name":"Jane","email":"jane@example.com","id":99}`)

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
	})

	t.Run("malformed body", func(t *testing.T) {
		resp := post("/api/contacts", `{"name":`)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_BODY", decodeError(t, resp).Error.Code)
	})

	t.Run("wrong type", func(t *testing.T) {
		resp := post("/api/vehicles", `{"year":"soon"}`)

		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		res := decodeError(t, resp)
		assert.Equal(t, "VALIDATION_ERROR", res.Error.Code)
		assert.Equal(t, "year: must be an integer", res.Error.Message)
	})

	t.Run("conflict", func(t *testing.T) {
		mockSvc.On("Create", mock.Anything, model.Vehicles, mock.Anything).
			Return(nil, service.Conflict("Vehicle with this VIN already exists")).Once()

		resp := post("/api/vehicles", `{"vin":"VIN1"}`)

		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		res := decodeError(t, resp)
		assert.Equal(t, "CONFLICT", res.Error.Code)
		assert.Equal(t, "Vehicle with this VIN already exists", res.Error.Message)
	})

	mockSvc.AssertExpectations(t)
}

func TestUpdateAndDeleteRecord(t *testing.T) {
	mockSvc := new(serviceMocks.MockRecordService)
	app := newRecordApp(mockSvc)

	t.Run("update", func(t *testing.T) {
		mockSvc.On("Update", mock.Anything, model.Tasks, int64(3), model.Patch{"status": "Done", "notes": nil}).
			Return(model.Record{"id": int64(3), "status": "Done"}, nil).Once()

		req := httptest.NewRequest(http.MethodPut, "/api/tasks/3", strings.NewReader(`{"status":"Done","notes":null}`))
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("update missing", func(t *testing.T) {
		mockSvc.On("Update", mock.Anything, model.Tasks, int64(999), mock.Anything).
			Return(nil, service.NotFound("Task not found")).Once()

		req := httptest.NewRequest(http.MethodPut, "/api/tasks/999", strings.NewReader(`{}`))
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("delete", func(t *testing.T) {
		mockSvc.On("Delete", mock.Anything, model.Cases, int64(4)).
			Return(map[string]any{"message": "Case deleted successfully", "case_number": "FD-2026-0314093000"}, nil).Once()

		req := httptest.NewRequest(http.MethodDelete, "/api/cases/4", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var result map[string]any
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Equal(t, "Case deleted successfully", result["message"])
		assert.Equal(t, "FD-2026-0314093000", result["case_number"])
	})

	mockSvc.AssertExpectations(t)
}

func TestStaticRoutesBeforeID(t *testing.T) {
	mockSvc := new(serviceMocks.MockRecordService)
	app := newRecordApp(mockSvc)

	mockSvc.On("Stats", mock.Anything, model.Invoices).
		Return(map[string]any{"total_invoices": int64(2)}, nil).Once()
	mockSvc.On("Distinct", mock.Anything, model.FuelLogs, model.FuelLogs.Enums[0]).
		Return([]string{"Diesel", "Gasoline"}, nil).Once()
	related := model.Payments.Related[0]
	mockSvc.On("ListBy", mock.Anything, model.Payments, related, "12").
		Return([]model.Record{}, nil).Once()

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/invoices/stats", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = app.Test(httptest.NewRequest(http.MethodGet, "/api/fuel-logs/"+model.FuelLogs.Enums[0].Path, nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var values []string
	json.NewDecoder(resp.Body).Decode(&values)
	assert.Equal(t, []string{"Diesel", "Gasoline"}, values)

	resp, _ = app.Test(httptest.NewRequest(http.MethodGet, "/api/payments/by-invoice/12", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	mockSvc.AssertExpectations(t)
	mockSvc.AssertNotCalled(t, "Get", mock.Anything, mock.Anything, mock.Anything)
}

func multipartBody(t *testing.T, filename, content string, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if filename != "" {
		part, err := writer.CreateFormFile("file", filename)
		require.NoError(t, err)
		part.Write([]byte(content))
	}
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestUploadDocument(t *testing.T) {
	mockSvc := new(serviceMocks.MockDocumentService)
	app := fiber.New()
	app.Post("/api/documents/upload", UploadDocument(mockSvc, nil))

	t.Run("success", func(t *testing.T) {
		body, ct := multipartBody(t, "test.pdf", "hello world", map[string]string{
			"title":         "Obituary",
			"document_type": "Obituary",
			"case_id":       "3",
		})

		mockSvc.On("Upload", mock.Anything, mock.MatchedBy(func(in service.UploadInput) bool {
			return in.Filename == "test.pdf" &&
				in.Size == 11 &&
				in.Fields["title"] == "Obituary" &&
				in.Fields["case_id"] == int64(3)
		})).Return(model.Record{"id": int64(1), "file_name": "test.pdf"}, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/api/documents/upload?status=Final", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("fields from query string", func(t *testing.T) {
		body, ct := multipartBody(t, "notes.txt", "x", nil)

		mockSvc.On("Upload", mock.Anything, mock.MatchedBy(func(in service.UploadInput) bool {
			return in.Fields["title"] == "Notes" && in.Fields["document_type"] == "Other"
		})).Return(model.Record{"id": int64(2)}, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/api/documents/upload?title=Notes&document_type=Other", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
	})

	t.Run("no file", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/documents/upload", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "FILE_REQUIRED", decodeError(t, resp).Error.Code)
	})

	t.Run("bad case id", func(t *testing.T) {
		body, ct := multipartBody(t, "test.pdf", "x", map[string]string{"case_id": "three"})

		req := httptest.NewRequest(http.MethodPost, "/api/documents/upload", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	})

	t.Run("service error", func(t *testing.T) {
		body, ct := multipartBody(t, "test.pdf", "hello", map[string]string{"title": "T", "document_type": "D"})
		mockSvc.On("Upload", mock.Anything, mock.Anything).Return(nil, errors.New("upload failed")).Once()

		req := httptest.NewRequest(http.MethodPost, "/api/documents/upload", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func TestDownloadAndStreamDocument(t *testing.T) {
	mockSvc := new(serviceMocks.MockDocumentService)
	app := fiber.New()
	app.Get("/api/documents/:id/download", DownloadDocument(mockSvc, nil))
	app.Get("/api/documents/:id/file", StreamDocument(mockSvc, nil))

	t.Run("download link", func(t *testing.T) {
		mockSvc.On("Download", mock.Anything, int64(5)).Return(&service.DocumentLink{
			FilePath: "documents/a.pdf", FileName: "a.pdf", MimeType: "application/pdf", URL: "https://minio/a",
		}, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/documents/5/download", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var link map[string]any
		json.NewDecoder(resp.Body).Decode(&link)
		assert.Equal(t, "https://minio/a", link["url"])
		assert.Equal(t, "documents/a.pdf", link["file_path"])
	})

	t.Run("stream", func(t *testing.T) {
		mockSvc.On("Open", mock.Anything, int64(5)).Return(
			io.NopCloser(strings.NewReader("%PDF")),
			&service.DocumentFile{Name: "a.pdf", ContentType: "application/pdf", Size: 4},
			nil,
		).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/documents/5/file", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
		assert.Contains(t, resp.Header.Get("Content-Disposition"), `filename="a.pdf"`)
		body, _ := io.ReadAll(resp.Body)
		assert.Equal(t, "%PDF", string(body))
	})

	t.Run("missing", func(t *testing.T) {
		mockSvc.On("Open", mock.Anything, int64(6)).Return(nil, nil, service.NotFound("Document not found")).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/documents/6/file", nil))

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("storage failures without a logger", func(t *testing.T) {
		mockSvc.On("Download", mock.Anything, int64(8)).Return(nil, errors.New("presign documents/b.pdf: timeout")).Once()
		mockSvc.On("Open", mock.Anything, int64(8)).Return(nil, nil, errors.New("connection reset")).Once()

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/documents/8/download", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		assert.Equal(t, "INTERNAL_ERROR", decodeError(t, resp).Error.Code)

		resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/documents/8/file", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	})

	mockSvc.AssertExpectations(t)
}

func TestRouting(t *testing.T) {
	app := fiber.New(fiber.Config{
		ErrorHandler: ErrorHandler(),
	})

	reg := prometheus.NewRegistry()
	RegisterRoutes(app, Deps{
		Records:     new(serviceMocks.MockRecordService),
		Documents:   new(serviceMocks.MockDocumentService),
		Gatherer:    reg,
		SwaggerHost: "docs.example.com",
	})

	t.Run("swagger host is fixed at registration", func(t *testing.T) {
		assert.Equal(t, "docs.example.com", docs.SwaggerInfo.Host)

		var wg sync.WaitGroup
		for i := 0; i < 4; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				req := httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil)
				req.Host = "attacker.example"
				resp, err := app.Test(req)
				if !assert.NoError(t, err) {
					return
				}
				body, _ := io.ReadAll(resp.Body)
				assert.Equal(t, http.StatusOK, resp.StatusCode)
				assert.Contains(t, string(body), "docs.example.com")
				assert.NotContains(t, string(body), "attacker.example")
			}()
		}
		wg.Wait()
	})

	t.Run("not found route", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/non-existent", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "NOT_FOUND", decodeError(t, resp).Error.Code)
	})

	t.Run("method not allowed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
		assert.Equal(t, "METHOD_NOT_ALLOWED", decodeError(t, resp).Error.Code)
	})

	t.Run("health without database", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	})

	t.Run("metrics", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("every entity is mounted", func(t *testing.T) {
		paths := map[string]bool{}
		for _, r := range app.GetRoutes() {
			paths[r.Method+" "+r.Path] = true
		}
		for _, e := range model.Catalog() {
			assert.True(t, paths["GET /api/"+e.Path+"/stats"], e.Path)
			assert.True(t, paths["PUT /api/"+e.Path+"/:id"], e.Path)
		}
		assert.True(t, paths["POST /api/documents/upload"])
		assert.True(t, paths["GET /api/documents/:id/download"])
	})
}
