package httpx

import (
	"net/http"

	apperrors "github.com/target/fraudwatch-ui-api/internal/errors"
)

// statusForCode maps application error codes to HTTP statuses.
// An unreachable identity backend surfaces as 503 so callers can retry;
// session handling has already failed closed by the time it renders.
func statusForCode(code apperrors.ErrorCode) int {
	switch code {
	case apperrors.ErrCodeNotFound:
		return http.StatusNotFound
	case apperrors.ErrCodeConflict:
		return http.StatusConflict
	case apperrors.ErrCodeValidation, apperrors.ErrCodeForeignKey:
		return http.StatusBadRequest
	case apperrors.ErrCodeInvalidCredentials, apperrors.ErrCodeInvalidToken:
		return http.StatusUnauthorized
	case apperrors.ErrCodeUnauthorized:
		return http.StatusForbidden
	case apperrors.ErrCodeVerifierUnreachable:
		return http.StatusServiceUnavailable
	case apperrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case apperrors.ErrCodeCanceled:
		// Client went away; 499 is conventional but non-standard.
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// WriteAppError renders an application error in the JSON error shape used
// across the API. Errors without an AppError in their chain render as a
// generic 500 so internal details never leak to clients.
func WriteAppError(w http.ResponseWriter, err error) {
	code := apperrors.GetCode(err)
	if code == "" {
		code = apperrors.ErrCodeInternal
	}

	status := statusForCode(code)
	if status == http.StatusInternalServerError {
		WriteJSON(w, status, map[string]string{
			"error":   string(apperrors.ErrCodeInternal),
			"message": "Internal server error.",
		})
		return
	}

	WriteError(w, ErrorParams{Code: status, ErrCode: string(code), Err: err})
}
