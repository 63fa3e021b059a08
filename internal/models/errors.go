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

package models

import (
	"errors"
	"fmt"
)

var (
	ErrMissingParameter  = errors.New("missing parameter")
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrMalformedUpload   = errors.New("malformed upload")
	ErrNoFileFound       = errors.New("no file found in upload")
	ErrUploadTooLarge    = errors.New("upload too large")
	ErrUploadWrite       = errors.New("failed to write upload")
	ErrConversionFailed  = errors.New("conversion failed")
	ErrTempFile          = errors.New("temp file error")
)

var (
	ErrUnsupportedInput  = fmt.Errorf("%w: input", ErrUnsupportedFormat)
	ErrUnsupportedOutput = fmt.Errorf("%w: output", ErrUnsupportedFormat)
)
