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

package docconvert

import (
	"errors"
	"fmt"
	"strings"
)

// UnsupportedConversionError is returned when no converter accepts the requested pair
// of formats.
type UnsupportedConversionError struct {
	From DocumentFormat
	To   DocumentFormat
}

func (e *UnsupportedConversionError) Error() string {
	return fmt.Sprintf("no converter for %s -> %s", describeFormat(e.From), describeFormat(e.To))
}

func describeFormat(f DocumentFormat) string {
	if f.MediaType == "" {
		return "unknown format"
	}
	return fmt.Sprintf("%q", f.MediaType)
}

// FailedConversionAttempt records a converter that accepted a job but failed.
type FailedConversionAttempt struct {
	Converter string
	Err       error
}

// ConversionError is returned when every converter that accepted a job failed.
type ConversionError struct {
	Attempts []FailedConversionAttempt
}

func (e *ConversionError) Error() string {
	if len(e.Attempts) == 0 {
		return "conversion failed"
	}
	if len(e.Attempts) == 1 {
		return fmt.Sprintf("%s: %v", e.Attempts[0].Converter, e.Attempts[0].Err)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d converters failed:", len(e.Attempts))
	for _, a := range e.Attempts {
		fmt.Fprintf(&b, "\n  %s: %v", a.Converter, a.Err)
	}
	return b.String()
}

func (e *ConversionError) Unwrap() error {
	if len(e.Attempts) > 0 {
		return e.Attempts[len(e.Attempts)-1].Err
	}
	return nil
}

// OfficeError carries the diagnostics of a failed office process.
type OfficeError struct {
	ExitCode int
	Stderr   string
}

func (e *OfficeError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("office process exited with code %d", e.ExitCode)
	}
	return fmt.Sprintf("office process exited with code %d: %s", e.ExitCode, e.Stderr)
}

// IsUnsupportedConversion reports whether err is an UnsupportedConversionError.
func IsUnsupportedConversion(err error) bool {
	var target *UnsupportedConversionError
	return errors.As(err, &target)
}
