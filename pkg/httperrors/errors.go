// Copyright 2026 Conductor OSS
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.

package httperrors

import (
	"errors"
	"net/http"

	"github.com/nicholasgasior/docconvert/internal/models"
)

// Status maps an error to the HTTP status reported to the client.
func Status(err error) int {
	switch {
	case errors.Is(err, models.ErrMissingParameter),
		errors.Is(err, models.ErrMalformedUpload),
		errors.Is(err, models.ErrNoFileFound):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrUnsupportedInput):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, models.ErrUnsupportedOutput):
		return http.StatusNotAcceptable
	case errors.Is(err, models.ErrUnsupportedFormat):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, models.ErrUploadTooLarge):
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

func Write(w http.ResponseWriter, err error) {
	http.Error(w, err.Error(), Status(err))
}
