package core

import (
	"encoding/json"
	"net/http"
)

// JSONResponse is the envelope every JSON endpoint answers with.
type JSONResponse struct {
	Code  string       `json:"code,omitempty"`
	Data  any          `json:"data,omitempty"`
	Error *ErrorDetail `json:"error,omitempty"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// JSON writes data with status inside the envelope.
func JSON(w http.ResponseWriter, status int, code string, data any) error {
	return writeJSON(w, status, JSONResponse{Code: code, Data: data})
}

// JSONError writes err inside the envelope. HTTPErrors keep their status and
// key; any other error is reported as an opaque internal error.
func JSONError(w http.ResponseWriter, err error) error {
	httpErr, ok := AsHTTPError(err)
	if !ok {
		httpErr = ErrInternalServerError
	}
	return writeJSON(w, httpErr.Code, JSONResponse{
		Code: httpErr.Key,
		Error: &ErrorDetail{
			Code:    httpErr.Key,
			Message: httpErr.message(),
		},
	})
}

// DecodeJSON reads a JSON body into v, rejecting unknown fields.
func DecodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return ErrBadRequest.WithMessage("invalid JSON body")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, body JSONResponse) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(body)
}
