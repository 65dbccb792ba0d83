package application_test

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/laybackco/backend-garments/internal/application"
)

type stubStore struct {
	inserted []application.Application
	fail     error
}

func (s *stubStore) Insert(_ context.Context, app application.Application) (int64, error) {
	if s.fail != nil {
		return 0, s.fail
	}
	s.inserted = append(s.inserted, app)
	return int64(len(s.inserted)), nil
}

func completeFields() map[string]string {
	return map[string]string{
		"firstName":  "Ada",
		"lastName":   "Lovelace",
		"email":      "ada@example.com",
		"phone":      "+2348000000000",
		"address":    "1 Analytical Way",
		"city":       "Lagos",
		"postalCode": "100001",
		"country":    "NG",
		"jobRole":    "Machinist",
		"howFound":   "referral",
	}
}

func multipartBody(t *testing.T, fields map[string]string, fileName string, fileContent []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if fileName != "" {
		fw, err := mw.CreateFormFile("resume", fileName)
		require.NoError(t, err)
		_, err = fw.Write(fileContent)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func newTestHandler(t *testing.T, store *stubStore) *application.Handler {
	t.Helper()
	return &application.Handler{
		Store:          store,
		Validate:       validator.New(),
		UploadDir:      t.TempDir(),
		MaxUploadBytes: 5 << 20,
		Log:            zerolog.Nop(),
	}
}

func submit(h *application.Handler, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/applications", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()
	h.Submit(rr, req)
	return rr
}

func TestSubmitWithoutResume(t *testing.T) {
	store := &stubStore{}
	h := newTestHandler(t, store)

	body, ct := multipartBody(t, completeFields(), "", nil)
	rr := submit(h, body, ct)

	require.Equal(t, http.StatusCreated, rr.Code)
	require.Contains(t, rr.Body.String(), `"applicationId":1`)
	require.Len(t, store.inserted, 1)
	require.Empty(t, store.inserted[0].CVFileName)
}

func TestSubmitStoresResumeOnDisk(t *testing.T) {
	store := &stubStore{}
	h := newTestHandler(t, store)

	body, ct := multipartBody(t, completeFields(), "resume.pdf", []byte("%PDF-1.4 fake"))
	rr := submit(h, body, ct)

	require.Equal(t, http.StatusCreated, rr.Code)
	require.Len(t, store.inserted, 1)

	name := store.inserted[0].CVFileName
	require.True(t, strings.HasPrefix(name, "cv-"), "got %q", name)
	require.True(t, strings.HasSuffix(name, ".pdf"), "got %q", name)

	saved, err := os.ReadFile(filepath.Join(h.UploadDir, name))
	require.NoError(t, err)
	require.Equal(t, []byte("%PDF-1.4 fake"), saved)
}

func TestSubmitRejectsDisallowedExtension(t *testing.T) {
	store := &stubStore{}
	h := newTestHandler(t, store)

	body, ct := multipartBody(t, completeFields(), "malware.exe", []byte("MZ"))
	rr := submit(h, body, ct)

	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Contains(t, rr.Body.String(), "UNSUPPORTED_FILE")
	require.Empty(t, store.inserted)

	entries, err := os.ReadDir(h.UploadDir)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestSubmitRejectsOversizedResume(t *testing.T) {
	store := &stubStore{}
	h := newTestHandler(t, store)
	h.MaxUploadBytes = 64

	body, ct := multipartBody(t, completeFields(), "resume.pdf", bytes.Repeat([]byte("a"), 65))
	rr := submit(h, body, ct)

	require.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
	require.Empty(t, store.inserted)
}

func TestSubmitMissingRequiredFields(t *testing.T) {
	store := &stubStore{}
	h := newTestHandler(t, store)

	fields := completeFields()
	delete(fields, "email")
	body, ct := multipartBody(t, fields, "", nil)
	rr := submit(h, body, ct)

	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Contains(t, rr.Body.String(), "VALIDATION_ERROR")
	require.Empty(t, store.inserted)
}

func TestSubmitStoreFailure(t *testing.T) {
	store := &stubStore{fail: errors.New("db down")}
	h := newTestHandler(t, store)

	body, ct := multipartBody(t, completeFields(), "", nil)
	rr := submit(h, body, ct)

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	require.Contains(t, rr.Body.String(), "SUBMIT_FAILED")
}
