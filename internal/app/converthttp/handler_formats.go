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
	"net/http"

	"github.com/nicholasgasior/docconvert"
)

type formatsResp struct {
	Formats []docconvert.DocumentFormat `json:"formats"`
}

// formats lists every registered format, store filters included.
func (s *Server) formats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, formatsResp{Formats: s.registry.Formats()})
}
