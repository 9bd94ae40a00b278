package http

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"forecourt/internal/amqp"
	"forecourt/internal/core"
	"forecourt/internal/log"
)

const maxImportUpload = 32 << 20

type importResponse struct {
	Batch core.ImportBatch  `json:"batch"`
	Files []core.ImportFile `json:"files"`
}

// handleCreateImport accepts a multipart upload of register close files
// for one business day, persists them under the import directory and
// queues the batch for the worker.
func (s *Server) handleCreateImport(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxImportUpload); err != nil {
		respondError(w, http.StatusBadRequest, "invalid multipart request")
		return
	}

	date, err := core.ParseDate(r.FormValue("date"))
	if err != nil {
		respondValidation(w, map[string][]string{
			"date": {"date must be YYYY-MM-DD"},
		})
		return
	}

	uploads := r.MultipartForm.File["files"]
	if len(uploads) == 0 {
		respondValidation(w, map[string][]string{
			"files": {"at least one file is required"},
		})
		return
	}

	if err := os.MkdirAll(s.cfg.ImportDir, 0o755); err != nil {
		respondError(w, http.StatusInternalServerError, "unable to store upload")
		return
	}
	dir, err := os.MkdirTemp(s.cfg.ImportDir, date.String()+"-")
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to store upload")
		return
	}

	names := make([]string, 0, len(uploads))
	for _, header := range uploads {
		name := filepath.Base(header.Filename)
		if name == "." || name == string(filepath.Separator) {
			respondValidation(w, map[string][]string{
				"files": {fmt.Sprintf("invalid filename %q", header.Filename)},
			})
			return
		}
		if err := saveUpload(header, filepath.Join(dir, name)); err != nil {
			respondError(w, http.StatusInternalServerError, "unable to store upload")
			return
		}
		names = append(names, name)
	}

	batch, err := s.store.CreateBatch(r.Context(), dir, names)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	if s.publisher == nil {
		respondError(w, http.StatusServiceUnavailable, "import queue unavailable")
		return
	}
	if err := s.publisher.PublishImportJob(r.Context(), amqp.NewImportJobMessage(batch.ID, date)); err != nil {
		log.FromContext(r.Context()).Error("publish import job", "batch_id", batch.ID, "error", err)
		if err := s.store.SetBatchStatus(r.Context(), batch.ID, core.BatchFailed); err != nil {
			log.FromContext(r.Context()).Error("mark batch failed", "batch_id", batch.ID, "error", err)
		}
		respondError(w, http.StatusServiceUnavailable, "import queue unavailable")
		return
	}

	files, err := s.store.BatchFiles(r.Context(), batch.ID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusAccepted, importResponse{Batch: batch, Files: files})
}

func (s *Server) handleGetImport(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	batch, err := s.store.GetBatch(r.Context(), id)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	files, err := s.store.BatchFiles(r.Context(), batch.ID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, importResponse{Batch: batch, Files: files})
}

func saveUpload(header *multipart.FileHeader, dst string) error {
	src, err := header.Open()
	if err != nil {
		return fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create upload file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		return fmt.Errorf("write upload file: %w", err)
	}
	return out.Close()
}
