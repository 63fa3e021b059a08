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
	"fmt"
	"strings"

	"github.com/nicholasgasior/docconvert"
	"github.com/nicholasgasior/docconvert/internal/models"
)

// conversionRequest is what one request asks the engine to do.
type conversionRequest struct {
	in        docconvert.DocumentFormat
	out       docconvert.DocumentFormat
	inputPath string
}

// negotiate resolves the requested input and output formats. Both headers are
// checked for presence before either is looked up.
func (s *Server) negotiate(inputMime, outputMime string) (in, out docconvert.DocumentFormat, err error) {
	inputMime, outputMime = strings.TrimSpace(inputMime), strings.TrimSpace(outputMime)
	if inputMime == "" {
		return in, out, fmt.Errorf("%w: %s header", models.ErrMissingParameter, s.cfg.InputHeader)
	}
	if outputMime == "" {
		return in, out, fmt.Errorf("%w: %s header", models.ErrMissingParameter, s.cfg.OutputHeader)
	}

	in, ok := s.registry.FormatByMediaType(inputMime)
	if !ok {
		return in, out, fmt.Errorf("%w %q", models.ErrUnsupportedInput, inputMime)
	}
	out, ok = s.registry.FormatByMediaType(outputMime)
	if !ok {
		return in, out, fmt.Errorf("%w %q", models.ErrUnsupportedOutput, outputMime)
	}
	return in, out, nil
}
