// Package handlers exposes the Lists service as a JSON HTTP API.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"spws/domain/contracts"
	"spws/infrastructure/spclient"
	"spws/logging"
)

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Error  string     `json:"error"`
	Status int        `json:"status"`
	Fault  *FaultView `json:"fault,omitempty"`
}

// FaultView carries the server fault details of a rejected SOAP call.
type FaultView struct {
	StatusCode  int    `json:"status_code,omitempty"`
	Code        string `json:"code,omitempty"`
	Message     string `json:"message,omitempty"`
	ErrorString string `json:"error_string,omitempty"`
	ErrorCode   string `json:"error_code,omitempty"`
}

// badRequestError marks errors caused by the client's input.
type badRequestError struct {
	msg string
}

func (e badRequestError) Error() string {
	return e.msg
}

func badRequest(msg string) error {
	return badRequestError{msg: msg}
}

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Default().Error("Failed to encode response", "error", err)
	}
}

// WriteError maps err to a status code and writes an ErrorResponse.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	resp := ErrorResponse{Error: err.Error(), Status: errorStatus(err)}

	var fault *spclient.FaultError
	if errors.As(err, &fault) {
		resp.Fault = &FaultView{
			StatusCode:  fault.StatusCode,
			Code:        fault.Code,
			Message:     fault.Message,
			ErrorString: fault.ErrorString,
			ErrorCode:   fault.ErrorCode,
		}
	}

	if resp.Status >= http.StatusInternalServerError {
		logging.Default().WithContext(r.Context()).Error("Request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", resp.Status,
			"error", err)
	}
	WriteJSON(w, resp.Status, resp)
}

func errorStatus(err error) int {
	var (
		fault *spclient.FaultError
		bad   badRequestError
	)
	switch {
	case errors.As(err, &bad), errors.Is(err, spclient.ErrInvalidFragment):
		return http.StatusBadRequest
	case errors.Is(err, contracts.ErrSnapshotNotFound):
		return http.StatusNotFound
	case errors.Is(err, contracts.ErrSnapshotsDisabled):
		return http.StatusServiceUnavailable
	case errors.As(err, &fault), errors.Is(err, spclient.ErrMalformedResponse):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
