package file

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"fileexplorer/internal/pkg/response"
)

// Handler exposes the file corpus over HTTP: upload, list/search, get,
// download, delete.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Upload accepts one multipart file, ingests it and returns the stored
// record with its extracted text inlined.
func (h *Handler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_INPUT", "no file provided")
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_INPUT", "cannot read uploaded file")
		return
	}
	defer src.Close()

	rec, err := h.service.Ingest(c.Request.Context(), fileHeader.Filename, src)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmptyFilename):
			response.Error(c, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		case errors.Is(err, ErrDuplicateFile):
			response.Error(c, http.StatusConflict, "CONFLICT", err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL", "upload failed")
		}
		return
	}

	response.Success(c, http.StatusCreated, rec)
}

// List searches the corpus. Without a query it lists everything, newest
// first. Always returns the total match count next to the page.
func (h *Handler) List(c *gin.Context) {
	query := c.Query("query")
	limit := intQuery(c, "limit", DefaultLimit)
	offset := intQuery(c, "offset", 0)

	files, total, err := h.service.Search(c.Request.Context(), query, limit, offset)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "search failed")
		return
	}
	if files == nil {
		files = []*RecordWithText{}
	}

	response.Success(c, http.StatusOK, gin.H{
		"files": files,
		"total": total,
	})
}

func (h *Handler) GetByID(c *gin.Context) {
	rec, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrFileNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "file not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "lookup failed")
		return
	}
	response.Success(c, http.StatusOK, rec)
}

// Download streams the raw blob with the original filename suggested to
// the browser. Record-missing and blob-missing both map to 404 but carry
// distinct messages.
func (h *Handler) Download(c *gin.Context) {
	rec, err := h.service.Download(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrFileNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "file not found")
		case errors.Is(err, ErrBlobMissing):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "file is missing on disk")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL", "download failed")
		}
		return
	}

	c.FileAttachment(rec.BlobPath, rec.OriginalName)
}

func (h *Handler) Delete(c *gin.Context) {
	warning, err := h.service.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrFileNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "file not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "delete failed")
		return
	}

	payload := gin.H{"success": true, "message": "file deleted"}
	if warning != "" {
		payload["warning"] = warning
	}
	c.JSON(http.StatusOK, payload)
}

func intQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
