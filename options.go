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

import "github.com/nicholasgasior/docconvert/pkg/executer"

// Option configures an Engine.
type Option func(*Engine)

// WithKeepDataURIs configures whether to keep full data URIs in Markdown output
// (default: false, which truncates them to data:mime/type;base64...).
func WithKeepDataURIs(keep bool) Option {
	return func(e *Engine) {
		e.keepDataURIs = keep
	}
}

// WithRegistry replaces the default format registry.
func WithRegistry(r *FormatRegistry) Option {
	return func(e *Engine) {
		e.registry = r
	}
}

// WithOffice configures the office converter.
func WithOffice(cfg OfficeConfig) Option {
	return func(e *Engine) {
		e.office = cfg
	}
}

// WithoutOffice leaves the office converter out; only in-process converters are used.
func WithoutOffice() Option {
	return func(e *Engine) {
		e.officeDisabled = true
	}
}

// WithExecuter sets the command executer used to run the office process.
func WithExecuter(ex executer.Executer) Option {
	return func(e *Engine) {
		e.executer = ex
	}
}
