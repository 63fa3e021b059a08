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

package converthttp

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"

	"github.com/nicholasgasior/docconvert/internal/models"
)

// uploadedItem is one part of a multipart body. Its content can be read once.
type uploadedItem struct {
	part *multipart.Part
}

// IsFormField reports whether the part is a plain form value rather than a file.
func (u *uploadedItem) IsFormField() bool {
	return u.part.FileName() == ""
}

func (u *uploadedItem) Filename() string {
	return u.part.FileName()
}

// WriteTo copies the part into the existing file at path and returns the byte count.
// Errors reading the request body and errors writing the file are reported as
// different kinds.
func (u *uploadedItem) WriteTo(path string) (int64, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC, 0)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", models.ErrUploadWrite, err)
	}

	src := &recordingReader{r: u.part}
	n, err := io.Copy(f, src)
	if closeErr := f.Close(); err == nil && closeErr != nil {
		return n, fmt.Errorf("%w: %w", models.ErrUploadWrite, closeErr)
	}
	if err != nil {
		if src.err != nil {
			return n, uploadReadError(src.err)
		}
		return n, fmt.Errorf("%w: %w", models.ErrUploadWrite, err)
	}
	return n, nil
}

// recordingReader remembers the last non-EOF error of the wrapped reader.
type recordingReader struct {
	r   io.Reader
	err error
}

func (rr *recordingReader) Read(p []byte) (int, error) {
	n, err := rr.r.Read(p)
	if err != nil && !errors.Is(err, io.EOF) {
		rr.err = err
	}
	return n, err
}

// extractUpload returns the first file part of a multipart request. Form fields before
// it are skipped; nothing after it is read.
func extractUpload(r *http.Request) (*uploadedItem, error) {
	mr, err := r.MultipartReader()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrMalformedUpload, err)
	}

	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			return nil, models.ErrNoFileFound
		}
		if err != nil {
			return nil, uploadReadError(err)
		}

		item := &uploadedItem{part: part}
		if item.IsFormField() {
			continue
		}
		return item, nil
	}
}

func uploadReadError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return fmt.Errorf("%w: limit is %d bytes", models.ErrUploadTooLarge, tooLarge.Limit)
	}
	return fmt.Errorf("%w: %w", models.ErrMalformedUpload, err)
}
