/*
Copyright 2024 Fintrack Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package apierror

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"
)

type ErrorCode string

const (
	ErrNotFound       ErrorCode = "NOT_FOUND"
	ErrConflict       ErrorCode = "CONFLICT"
	ErrBadRequest     ErrorCode = "BAD_REQUEST"
	ErrInvalidInput   ErrorCode = "INVALID_INPUT"
	ErrInternalServer ErrorCode = "INTERNAL_SERVER_ERROR"
)

// APIError is the error shape shared by the datasource, the service and the HTTP layer.
// Details hold the underlying cause and are never rendered to clients.
type APIError struct {
	Code    ErrorCode   `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"-"`
}

func (e APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewAPIError builds an APIError and logs its details. Only server side failures are logged at
// error level; caller mistakes are logged at debug.
func NewAPIError(code ErrorCode, message string, details interface{}) APIError {
	entry := logrus.WithFields(logrus.Fields{"code": code, "message": message})
	if details != nil {
		entry = entry.WithField("details", details)
	}
	if code == ErrInternalServer {
		entry.Error("request failed")
	} else {
		entry.Debug("request rejected")
	}
	return APIError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// HasCode reports whether err is, or wraps, an APIError with the given code.
func HasCode(err error, code ErrorCode) bool {
	var apiErr APIError
	return errors.As(err, &apiErr) && apiErr.Code == code
}

func MapErrorToHTTPStatus(err error) int {
	var apiErr APIError
	if !errors.As(err, &apiErr) {
		return http.StatusInternalServerError
	}
	switch apiErr.Code {
	case ErrNotFound:
		return http.StatusNotFound
	case ErrConflict:
		return http.StatusConflict
	case ErrBadRequest, ErrInvalidInput:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
