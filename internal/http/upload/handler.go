package upload

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/taxwiseapp/taxwise/internal/http/auth"
	"github.com/taxwiseapp/taxwise/internal/importer/generic"
	"github.com/taxwiseapp/taxwise/internal/importer/pdfstatement"
	"github.com/taxwiseapp/taxwise/internal/upload"
)

// maxUploadBytes bounds statement file size.
const maxUploadBytes = 10 << 20

type Handler struct {
	svc *upload.Service
}

func NewHandler(svc *upload.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Post("/{id}/classify", h.classify)
}

type mappingRequiredResponse struct {
	MappingRequired bool            `json:"mapping_required"`
	Headers         []string        `json:"headers"`
	Detected        generic.Mapping `json:"detected"`
	Preview         [][]string      `json:"preview"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		http.Error(w, "failed to read file", http.StatusBadRequest)
		return
	}

	format, err := detectFormat(header.Filename)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var mapping *generic.Mapping

	if raw := r.FormValue("mapping"); raw != "" {
		mapping = &generic.Mapping{}
		if err := json.Unmarshal([]byte(raw), mapping); err != nil {
			http.Error(w, "invalid mapping: "+err.Error(), http.StatusBadRequest)
			return
		}
	}

	result, err := h.svc.Process(r.Context(), upload.ProcessParams{
		UserID:   userID,
		Filename: header.Filename,
		Format:   format,
		Data:     data,
		Mapping:  mapping,
	})
	if err != nil {
		var incomplete *generic.MappingIncompleteError
		if errors.As(err, &incomplete) {
			writeJSON(w, http.StatusOK, mappingRequiredResponse{
				MappingRequired: true,
				Headers:         incomplete.Headers,
				Detected:        incomplete.Detected,
				Preview:         incomplete.Preview,
			})

			return
		}

		if errors.Is(err, pdfstatement.ErrNoExtractableText) {
			http.Error(w, "pdf has no extractable text, upload a digital statement or a csv export", http.StatusUnprocessableEntity)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	writeJSON(w, http.StatusCreated, result)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	uploads, err := h.svc.List(r.Context(), userID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if uploads == nil {
		uploads = []*upload.Upload{}
	}

	writeJSON(w, http.StatusOK, uploads)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	up, err := h.svc.Get(r.Context(), userID, id)
	if err != nil {
		if errors.Is(err, upload.ErrNotFound) {
			http.Error(w, "upload not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	writeJSON(w, http.StatusOK, up)
}

func (h *Handler) classify(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	sum, err := h.svc.Reclassify(r.Context(), userID, id)
	if err != nil {
		if errors.Is(err, upload.ErrNotFound) {
			http.Error(w, "upload not found", http.StatusNotFound)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	writeJSON(w, http.StatusOK, sum)
}

func detectFormat(filename string) (upload.Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return upload.FormatCSV, nil
	case ".pdf":
		return upload.FormatPDF, nil
	default:
		return "", errors.New("unsupported file type, expected .csv or .pdf")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
