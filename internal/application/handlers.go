package application

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/laybackco/backend-garments/internal/common"
	"github.com/laybackco/backend-garments/internal/obs"
)

const resumeFormField = "resume"

var allowedResumeExts = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
}

// Handler accepts job application submissions.
type Handler struct {
	Store    Inserter
	Validate *validator.Validate
	// UploadDir is where resume files land; it must exist at startup.
	UploadDir string
	// MaxUploadBytes caps the resume file size.
	MaxUploadBytes int64
	Log            zerolog.Logger
}

type submitForm struct {
	FirstName   string `validate:"required"`
	LastName    string `validate:"required"`
	Email       string `validate:"required,email"`
	Phone       string `validate:"required"`
	Address     string `validate:"required"`
	City        string `validate:"required"`
	PostalCode  string `validate:"required"`
	Country     string `validate:"required"`
	JobRole     string `validate:"required"`
	HowFound    string `validate:"required"`
	CoverLetter string
}

// Submit handles POST /api/applications. The body is multipart form data
// with an optional resume file.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(h.maxUploadBytes()); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid multipart payload", nil)
		return
	}

	form := submitForm{
		FirstName:   formValue(r, "firstName"),
		LastName:    formValue(r, "lastName"),
		Email:       formValue(r, "email"),
		Phone:       formValue(r, "phone"),
		Address:     formValue(r, "address"),
		City:        formValue(r, "city"),
		PostalCode:  formValue(r, "postalCode"),
		Country:     formValue(r, "country"),
		JobRole:     formValue(r, "jobRole"),
		HowFound:    formValue(r, "howFound"),
		CoverLetter: formValue(r, "coverLetter"),
	}
	if err := h.Validate.Struct(form); err != nil {
		common.JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", "missing required fields", nil)
		return
	}

	cvFileName, err := h.saveResume(r)
	if err != nil {
		var appErr *common.AppError
		if errors.As(err, &appErr) {
			common.JSONError(w, appErr.HTTPStatus, appErr.Code, appErr.Message, nil)
			return
		}
		h.Log.Error().Err(err).Msg("store resume file")
		obs.CountApplication("error")
		common.JSONError(w, http.StatusInternalServerError, "UPLOAD_FAILED", "failed to store resume", nil)
		return
	}

	id, err := h.Store.Insert(r.Context(), Application{
		FirstName:   form.FirstName,
		LastName:    form.LastName,
		Email:       form.Email,
		Phone:       form.Phone,
		Address:     form.Address,
		City:        form.City,
		PostalCode:  form.PostalCode,
		Country:     form.Country,
		JobRole:     form.JobRole,
		HowFound:    form.HowFound,
		CoverLetter: form.CoverLetter,
		CVFileName:  cvFileName,
	})
	if err != nil {
		h.Log.Error().Err(err).Str("email", form.Email).Msg("insert job application")
		obs.CountApplication("error")
		common.JSONError(w, http.StatusInternalServerError, "SUBMIT_FAILED", "failed to submit application", nil)
		return
	}

	obs.CountApplication("created")
	common.JSON(w, http.StatusCreated, map[string]any{
		"message":       "Application submitted successfully",
		"applicationId": id,
	})
}

// saveResume stores the uploaded resume, if any, and returns the stored
// filename. A missing file is not an error.
func (h *Handler) saveResume(r *http.Request) (string, error) {
	file, header, err := r.FormFile(resumeFormField)
	if errors.Is(err, http.ErrMissingFile) {
		return "", nil
	}
	if err != nil {
		return "", common.NewAppError("BAD_REQUEST", "unreadable resume upload", http.StatusBadRequest, err)
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedResumeExts[ext] {
		return "", common.NewAppError("UNSUPPORTED_FILE", "only PDF, DOC, DOCX files allowed", http.StatusBadRequest, nil)
	}
	if header.Size > h.maxUploadBytes() {
		return "", common.NewAppError("FILE_TOO_LARGE", "resume exceeds the size limit", http.StatusRequestEntityTooLarge, nil)
	}

	name := fmt.Sprintf("cv-%d-%s%s", time.Now().Unix(), uuid.NewString(), ext)
	if err := h.writeFile(name, file); err != nil {
		return "", err
	}
	return name, nil
}

func (h *Handler) writeFile(name string, src multipart.File) error {
	dst, err := os.Create(filepath.Join(h.UploadDir, name))
	if err != nil {
		return fmt.Errorf("create upload file: %w", err)
	}
	defer dst.Close()
	// +1 so a source lying about header.Size still cannot exceed the cap.
	n, err := io.Copy(dst, io.LimitReader(src, h.maxUploadBytes()+1))
	if err != nil {
		return fmt.Errorf("write upload file: %w", err)
	}
	if n > h.maxUploadBytes() {
		_ = os.Remove(dst.Name())
		return common.NewAppError("FILE_TOO_LARGE", "resume exceeds the size limit", http.StatusRequestEntityTooLarge, nil)
	}
	return nil
}

func (h *Handler) maxUploadBytes() int64 {
	if h.MaxUploadBytes > 0 {
		return h.MaxUploadBytes
	}
	return 5 << 20
}

func formValue(r *http.Request, key string) string {
	return strings.TrimSpace(r.FormValue(key))
}
