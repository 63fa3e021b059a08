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

// Package converthttp serves the document conversion API:
//   - POST / and POST /convert take a multipart upload plus the inputMime and outputMime
//     headers and stream the converted document back.
//   - GET /formats lists the formats the registry knows.
//   - GET /health answers liveness probes.
//   - GET /metrics exposes Prometheus metrics.
package converthttp
