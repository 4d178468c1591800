package httpserver

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	appdocs "github.com/bryanwahyu/innovation-platform/internal/application/documents"
	"github.com/bryanwahyu/innovation-platform/internal/domain"
	"github.com/bryanwahyu/innovation-platform/internal/middleware"
)

const (
	maxFileSize   = 50 << 20
	maxFiles      = 20
	memoryBuffer  = 32 << 20
	formFieldName = "files"
)

// POST /api/projects/{projectId}/documents
// multipart/form-data: files (repeated), category
func (r *Router) handleUpload(w http.ResponseWriter, req *http.Request) error {
	id, err := projectID(req)
	if err != nil {
		return err
	}

	req.Body = http.MaxBytesReader(w, req.Body, maxFiles*maxFileSize+(1<<20))
	if err := req.ParseMultipartForm(memoryBuffer); err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			return domain.Invalid("No files uploaded")
		}
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return domain.Invalid("upload exceeds %d bytes", tooBig.Limit)
		}
		return domain.Invalid("invalid multipart form: %v", err)
	}
	defer func() { _ = req.MultipartForm.RemoveAll() }()

	headers := req.MultipartForm.File[formFieldName]
	if len(headers) == 0 {
		return domain.Invalid("No files uploaded")
	}
	if len(headers) > maxFiles {
		return domain.Invalid("too many files: at most %d per upload", maxFiles)
	}

	files := make([]appdocs.UploadFile, 0, len(headers))
	for _, fh := range headers {
		if fh.Size > maxFileSize {
			return domain.Invalid("file %s exceeds the 50MB limit", fh.Filename)
		}
		data, err := readPart(fh)
		if err != nil {
			return err
		}
		mimeType := fh.Header.Get("Content-Type")
		if mimeType == "" {
			mimeType = "application/octet-stream"
		}
		files = append(files, appdocs.UploadFile{
			Filename: middleware.SanitizeFilename(fh.Filename),
			MimeType: mimeType,
			Data:     data,
		})
	}

	docs, err := r.svc.Documents.Upload(req.Context(), appdocs.UploadCommand{
		ProjectID: id,
		Category:  req.FormValue("category"),
		Files:     files,
	})
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, docs)
}

func readPart(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
