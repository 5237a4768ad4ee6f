package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	qerrors "github.com/matzehuels/quilt/pkg/errors"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    qerrors.Code `json:"code"`
	Message string       `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	code := qerrors.GetCode(err)
	msg := qerrors.UserMessage(err)
	if code == "" {
		code = qerrors.ErrCodeInternal
		if errors.Is(err, context.DeadlineExceeded) {
			code = qerrors.ErrCodeTimeout
		}
		msg = "internal error"
	}
	writeJSON(w, statusOf(err), errorBody{Error: errorDetail{Code: code, Message: msg}})
}

// statusOf extends errors.HTTPStatus with context errors.
func statusOf(err error) int {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return 499
	}
	return qerrors.HTTPStatus(err)
}

func errNotFound(r *http.Request) error {
	return qerrors.New(qerrors.ErrCodeNotFound, "no route for %s %s", r.Method, r.URL.Path)
}
