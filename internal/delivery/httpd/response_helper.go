package httpd

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/TechzoneAdademy/TechzoneAcademyFrontDeskRender/internal/service"
)

func getInt64QueryParam(r *http.Request, key string, defaultValue int64) int64 {
	value := r.URL.Query().Get(key)
	if value == "" {
		return defaultValue
	}

	intValue, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return defaultValue
	}

	return intValue
}

func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	return dec.Decode(dst)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{
			"code":    status,
			"message": message,
			"type":    http.StatusText(status),
		},
		"success":   false,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func writeValidationError(w http.ResponseWriter, verr *service.ValidationError) {
	writeJSON(w, http.StatusBadRequest, map[string]interface{}{
		"error": map[string]interface{}{
			"code":    http.StatusBadRequest,
			"message": verr.Error(),
			"type":    http.StatusText(http.StatusBadRequest),
			"fields":  verr.Fields,
		},
		"success":   false,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func writeSuccess(w http.ResponseWriter, data interface{}) {
	writeStatus(w, http.StatusOK, data)
}

func writeCreated(w http.ResponseWriter, data interface{}) {
	writeStatus(w, http.StatusCreated, data)
}

func writeStatus(w http.ResponseWriter, status int, data interface{}) {
	writeJSON(w, status, map[string]interface{}{
		"success":   true,
		"data":      data,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func writeMessage(w http.ResponseWriter, message string) {
	writeSuccess(w, map[string]interface{}{"message": message})
}

var errorStatus = []struct {
	err    error
	status int
}{
	{service.ErrStudentNotFound, http.StatusNotFound},
	{service.ErrBatchNotFound, http.StatusNotFound},
	{service.ErrFileNotFound, http.StatusNotFound},
	{service.ErrFileMissing, http.StatusNotFound},
	{service.ErrFeedbackNotFound, http.StatusNotFound},
	{service.ErrAdminNotFound, http.StatusNotFound},
	{service.ErrCourseNotFound, http.StatusNotFound},
	{service.ErrReceiptNoRecipient, http.StatusNotFound},
	{service.ErrStudentInfoMissing, http.StatusNotFound},

	{service.ErrStudentIDExists, http.StatusConflict},
	{service.ErrStudentEmailExists, http.StatusConflict},
	{service.ErrUsernameExists, http.StatusConflict},
	{service.ErrPasswordExists, http.StatusConflict},
	{service.ErrSimpleIDTaken, http.StatusConflict},
	{service.ErrAdminExists, http.StatusConflict},

	{service.ErrFileAccessDenied, http.StatusForbidden},
	{service.ErrNotFileOwner, http.StatusForbidden},
	{service.ErrOTPNotVerified, http.StatusForbidden},

	{service.ErrInvalidCredentials, http.StatusUnauthorized},

	{service.ErrFileTooLarge, http.StatusRequestEntityTooLarge},
	{service.ErrFileTypeNotAllowed, http.StatusUnsupportedMediaType},

	{service.ErrNoFileSelected, http.StatusBadRequest},
	{service.ErrNoFilePart, http.StatusBadRequest},
	{service.ErrMessageRequired, http.StatusBadRequest},
	{service.ErrNoBatch, http.StatusBadRequest},
	{service.ErrFeedbackRequired, http.StatusBadRequest},
	{service.ErrCredentialsRequired, http.StatusBadRequest},
	{service.ErrInvalidRole, http.StatusBadRequest},
	{service.ErrEmailRequired, http.StatusBadRequest},
	{service.ErrInvalidEmail, http.StatusBadRequest},
	{service.ErrInvalidOTP, http.StatusBadRequest},

	{service.ErrEmailSendFailed, http.StatusBadGateway},
	{service.ErrOTPSendFailed, http.StatusBadGateway},
}

// handleServiceError maps a service failure to a JSON error response.
// Unknown errors are logged and hidden behind a generic 500.
func (h *Handler) handleServiceError(w http.ResponseWriter, err error, op string) {
	var verr *service.ValidationError
	if errors.As(err, &verr) && len(verr.Fields) > 0 {
		writeValidationError(w, verr)
		return
	}

	for _, m := range errorStatus {
		if errors.Is(err, m.err) {
			writeError(w, m.status, m.err.Error())
			return
		}
	}

	h.logger.Error().Err(err).Str("operation", op).Msg("Request failed")
	writeError(w, http.StatusInternalServerError, "Failed to "+op)
}
