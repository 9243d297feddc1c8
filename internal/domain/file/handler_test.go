package file

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"fileexplorer/internal/extract"
)

type fileInfo struct {
	ID           string  `json:"id"`
	OriginalName string  `json:"original_name"`
	StoredName   string  `json:"stored_name"`
	SizeBytes    int64   `json:"size_bytes"`
	TypeTag      string  `json:"type_tag"`
	OCRContent   *string `json:"ocr_content"`
}

type uploadResponse struct {
	Success bool     `json:"success"`
	Data    fileInfo `json:"data"`
}

type listResponse struct {
	Success bool `json:"success"`
	Data    struct {
		Files []fileInfo `json:"files"`
		Total int64      `json:"total"`
	} `json:"data"`
}

type errorResponse struct {
	Success bool `json:"success"`
	Error   struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	handler := NewHandler(setupService(t))

	router := gin.New()
	v1 := router.Group("/api/v1")
	RegisterRoutes(v1, handler)
	return router
}

func uploadFile(t *testing.T, router *gin.Engine, filename, content string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/files", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func doJSON(router *gin.Engine, method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestUploadAndSearchByContent(t *testing.T) {
	router := setupRouter(t)

	rec := uploadFile(t, router, "report.csv", "quarter,figure\nthird,Q3 Revenue\n")
	require.Equal(t, http.StatusCreated, rec.Code)

	var up uploadResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &up))
	require.True(t, up.Success)
	require.Equal(t, "report.csv", up.Data.OriginalName)
	require.NotNil(t, up.Data.OCRContent)
	require.Contains(t, *up.Data.OCRContent, "Q3 Revenue")

	// "Q3" appears only in the extracted text, not in any filename
	res := doJSON(router, http.MethodGet, "/api/v1/files?query=Q3")
	require.Equal(t, http.StatusOK, res.Code)

	var list listResponse
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &list))
	require.EqualValues(t, 1, list.Data.Total)
	require.Len(t, list.Data.Files, 1)
	require.Equal(t, "report.csv", list.Data.Files[0].OriginalName)
}

// minimalPDF assembles a valid one-page PDF whose text layer holds the
// given string, cross-reference offsets computed from the object positions.
func minimalPDF(text string) []byte {
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")

	offsets := make([]int, 6)
	add := func(n int, body string) {
		offsets[n] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", n, body)
	}

	content := fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text)
	add(1, "<</Type /Catalog /Pages 2 0 R>>")
	add(2, "<</Type /Pages /Kids [3 0 R] /Count 1>>")
	add(3, "<</Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents 4 0 R /Resources <</Font <</F1 5 0 R>>>>>>")
	add(4, fmt.Sprintf("<</Length %d>>\nstream\n%s\nendstream", len(content), content))
	add(5, "<</Type /Font /Subtype /Type1 /BaseFont /Helvetica>>")

	xref := buf.Len()
	buf.WriteString("xref\n0 6\n0000000000 65535 f \n")
	for i := 1; i <= 5; i++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[i])
	}
	fmt.Fprintf(&buf, "trailer\n<</Size 6 /Root 1 0 R>>\nstartxref\n%d\n%%%%EOF\n", xref)
	return buf.Bytes()
}

func TestUploadPDFAndSearchItsTextLayer(t *testing.T) {
	router := setupRouter(t)

	rec := uploadFile(t, router, "report.pdf", string(minimalPDF("Q3 Revenue")))
	require.Equal(t, http.StatusCreated, rec.Code)

	var up uploadResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &up))
	require.Equal(t, ".pdf", up.Data.TypeTag)
	require.NotNil(t, up.Data.OCRContent)
	require.Contains(t, *up.Data.OCRContent, "Q3 Revenue")

	res := doJSON(router, http.MethodGet, "/api/v1/files?query=Q3")
	require.Equal(t, http.StatusOK, res.Code)

	var list listResponse
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &list))
	require.EqualValues(t, 1, list.Data.Total)
	require.Len(t, list.Data.Files, 1)
	require.Equal(t, "report.pdf", list.Data.Files[0].OriginalName)
}

func TestUploadImageWhileOCRUnavailable(t *testing.T) {
	router := setupRouter(t)

	rec := uploadFile(t, router, "photo.png", "pretend image bytes")
	require.Equal(t, http.StatusCreated, rec.Code)

	var up uploadResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &up))
	require.NotNil(t, up.Data.OCRContent)
	require.Equal(t, extract.OCRUnavailableText, *up.Data.OCRContent)
}

func TestUploadUnsupportedTypeSucceedsWithoutText(t *testing.T) {
	router := setupRouter(t)

	rec := uploadFile(t, router, "bundle.tar", "opaque bytes")
	require.Equal(t, http.StatusCreated, rec.Code)

	var up uploadResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &up))
	require.Nil(t, up.Data.OCRContent)
}

func TestUploadWithoutFileIsInvalidInput(t *testing.T) {
	router := setupRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/files", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var er errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &er))
	require.Equal(t, "INVALID_INPUT", er.Error.Code)
}

func TestListPagination(t *testing.T) {
	router := setupRouter(t)

	for i := 0; i < 4; i++ {
		rec := uploadFile(t, router, fmt.Sprintf("file%d.txt", i), "x")
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	res := doJSON(router, http.MethodGet, "/api/v1/files?limit=3")
	var list listResponse
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &list))
	require.EqualValues(t, 4, list.Data.Total)
	require.Len(t, list.Data.Files, 3)

	res = doJSON(router, http.MethodGet, "/api/v1/files?limit=3&offset=3")
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &list))
	require.EqualValues(t, 4, list.Data.Total)
	require.Len(t, list.Data.Files, 1)
}

func TestDuplicateOriginalNamesBothListed(t *testing.T) {
	router := setupRouter(t)

	first := uploadFile(t, router, "same.txt", "alpha")
	second := uploadFile(t, router, "same.txt", "beta")
	require.Equal(t, http.StatusCreated, first.Code)
	require.Equal(t, http.StatusCreated, second.Code)

	var a, b uploadResponse
	require.NoError(t, json.Unmarshal(first.Body.Bytes(), &a))
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &b))
	require.NotEqual(t, a.Data.ID, b.Data.ID)
	require.NotEqual(t, a.Data.StoredName, b.Data.StoredName)

	res := doJSON(router, http.MethodGet, "/api/v1/files?query=same.txt")
	var list listResponse
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &list))
	require.EqualValues(t, 2, list.Data.Total)
}

func TestGetDownloadDeleteLifecycle(t *testing.T) {
	router := setupRouter(t)

	rec := uploadFile(t, router, "doc.csv", "col\nval\n")
	var up uploadResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &up))
	id := up.Data.ID

	res := doJSON(router, http.MethodGet, "/api/v1/files/"+id)
	require.Equal(t, http.StatusOK, res.Code)

	res = doJSON(router, http.MethodGet, "/api/v1/files/"+id+"/download")
	require.Equal(t, http.StatusOK, res.Code)
	require.Contains(t, res.Header().Get("Content-Disposition"), "doc.csv")
	require.Equal(t, "col\nval\n", res.Body.String())

	res = doJSON(router, http.MethodDelete, "/api/v1/files/"+id)
	require.Equal(t, http.StatusOK, res.Code)

	for _, path := range []string{
		"/api/v1/files/" + id,
		"/api/v1/files/" + id + "/download",
	} {
		res = doJSON(router, http.MethodGet, path)
		require.Equal(t, http.StatusNotFound, res.Code, path)
	}

	res = doJSON(router, http.MethodGet, "/api/v1/files")
	var list listResponse
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &list))
	require.Zero(t, list.Data.Total)
}

func TestGetUnknownIDIsNotFound(t *testing.T) {
	router := setupRouter(t)

	res := doJSON(router, http.MethodGet, "/api/v1/files/does-not-exist")
	require.Equal(t, http.StatusNotFound, res.Code)

	var er errorResponse
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &er))
	require.Equal(t, "NOT_FOUND", er.Error.Code)
}
