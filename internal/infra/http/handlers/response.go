package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/xavierca1/leadzone/internal/usecase"
)

const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// statusPolicy maps an error code to the HTTP status an endpoint answers with.
type statusPolicy func(code string) int

func defaultStatus(code string) int {
	switch code {
	case usecase.CodeValidation, usecase.CodeNoBillingAccount:
		return http.StatusBadRequest
	case usecase.CodeUnauthorized:
		return http.StatusUnauthorized
	case usecase.CodeForbidden:
		return http.StatusForbidden
	case usecase.CodeNotFound:
		return http.StatusNotFound
	case usecase.CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// clientStatus keeps 401/403 and folds everything else into 400.
func clientStatus(code string) int {
	switch code {
	case usecase.CodeUnauthorized:
		return http.StatusUnauthorized
	case usecase.CodeForbidden:
		return http.StatusForbidden
	default:
		return http.StatusBadRequest
	}
}

func badRequestStatus(string) int {
	return http.StatusBadRequest
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError logs the full error and answers with its public code and message only.
func writeError(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error, policy statusPolicy) {
	code := usecase.CodeOf(err)
	status := policy(code)

	fields := []zap.Field{
		zap.String("path", r.URL.Path),
		zap.String("code", code),
		zap.Int("status", status),
		zap.Error(err),
	}
	if status >= http.StatusInternalServerError || usecase.IsTechnicalError(err) {
		log.Error("request failed", fields...)
	} else {
		log.Info("request rejected", fields...)
	}

	writeJSON(w, status, errorResponse{Error: code, Message: usecase.PublicMessage(err)})
}

// decodeJSON reads exactly one JSON object with no unknown fields. An empty
// body is accepted only when allowEmpty is set.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any, allowEmpty bool) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			if allowEmpty {
				return nil
			}
			return &usecase.DomainError{Code: usecase.CodeValidation, Message: "request body is required"}
		}
		return &usecase.DomainError{Code: usecase.CodeValidation, Message: describeDecodeError(err)}
	}
	if dec.More() {
		return &usecase.DomainError{Code: usecase.CodeValidation, Message: "request body must contain a single JSON object"}
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return &usecase.DomainError{Code: usecase.CodeValidation, Message: "request body must contain a single JSON object"}
	}
	return nil
}

func describeDecodeError(err error) string {
	var (
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
		maxErr    *http.MaxBytesError
	)
	switch {
	case errors.As(err, &syntaxErr):
		return fmt.Sprintf("malformed JSON at offset %d", syntaxErr.Offset)
	case errors.As(err, &typeErr):
		return fmt.Sprintf("field %q has the wrong type", typeErr.Field)
	case errors.As(err, &maxErr):
		return "request body is too large"
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		return "unknown field " + strings.TrimPrefix(err.Error(), "json: unknown field ")
	default:
		return "malformed JSON"
	}
}

// bearerToken returns the credential of an "Authorization: Bearer" header.
func bearerToken(r *http.Request) string {
	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
