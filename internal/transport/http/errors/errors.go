// Package errors переводит ошибки сервиса в JSON-ответы HTTP API:
// статус, стабильный машиночитаемый code и безопасное message.
// Внутренние детали ошибки в ответ не попадают.
package errors

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pribylovaa/go-baby-cry/internal/service"
)

// StatusClientClosedRequest - нестандартный статус "клиент ушёл".
const StatusClientClosedRequest = 499

// ErrInvalidRequest - запрос не разобран (путь, query или тело).
var ErrInvalidRequest = errors.New("invalid request")

type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// ErrorResponse - тело ответа: {"error": {...}}.
type ErrorResponse struct {
	Error APIError `json:"error"`
}

type rule struct {
	targets []error
	status  int
	code    string
	message string
}

// rules проверяются по порядку; первая совпавшая выигрывает.
var rules = []rule{
	{[]error{ErrInvalidRequest, service.ErrInvalidArgument}, http.StatusBadRequest, "invalid_argument", "invalid argument"},
	{[]error{service.ErrNotFound}, http.StatusNotFound, "not_found", "not found"},
	{[]error{service.ErrAlreadyExists}, http.StatusConflict, "already_exists", "already exists"},
	{[]error{service.ErrFailedPrecondition}, http.StatusPreconditionFailed, "failed_precondition", "baby is not saved yet"},
	{[]error{context.Canceled}, StatusClientClosedRequest, "canceled", "canceled"},
	{[]error{context.DeadlineExceeded}, http.StatusGatewayTimeout, "deadline_exceeded", "deadline exceeded"},
}

var internal = rule{status: http.StatusInternalServerError, code: "internal", message: "internal error"}

// ToHTTP возвращает статус и тело ответа для err.
// nil считается ошибкой вызова и тоже даёт 500/internal.
func ToHTTP(err error) (int, ErrorResponse) {
	r := match(err)

	return r.status, ErrorResponse{Error: APIError{Code: r.code, Message: r.message}}
}

// WriteError пишет ответ об ошибке; request_id берётся из X-Request-Id.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status, resp := ToHTTP(err)
	resp.Error.RequestID = r.Header.Get("X-Request-Id")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

func match(err error) rule {
	if err == nil {
		return internal
	}

	for _, r := range rules {
		for _, target := range r.targets {
			if errors.Is(err, target) {
				return r
			}
		}
	}

	return internal
}
