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
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/nicholasgasior/docconvert"
	"github.com/nicholasgasior/docconvert/internal/config"
	"github.com/nicholasgasior/docconvert/internal/metrics"
	"github.com/sirupsen/logrus"
)

// Registry resolves MIME types to document formats.
type Registry interface {
	FormatByMediaType(mediaType string) (docconvert.DocumentFormat, bool)
	Formats() []docconvert.DocumentFormat
}

// Converter turns the file at inputPath into outputPath. It blocks until the output is
// complete or the conversion failed.
type Converter interface {
	Convert(ctx context.Context, inputPath string, in docconvert.DocumentFormat, outputPath string, out docconvert.DocumentFormat) error
}

type Deps struct {
	Registry  Registry
	Converter Converter
	Metrics   *metrics.Collector
	Log       logrus.FieldLogger
	Cfg       *config.Config
}

// Server is the conversion HTTP API. The engine behind it is shared by all requests.
type Server struct {
	registry  Registry
	converter Converter
	metrics   *metrics.Collector
	log       logrus.FieldLogger
	cfg       *config.Config
}

// NewServer builds the router. A nil Cfg or Log falls back to defaults.
func NewServer(deps Deps) (http.Handler, *Server) {
	srv := &Server{
		registry:  deps.Registry,
		converter: deps.Converter,
		metrics:   deps.Metrics,
		log:       deps.Log,
		cfg:       deps.Cfg,
	}
	if srv.cfg == nil {
		srv.cfg = config.Default()
	}
	if srv.log == nil {
		srv.log = logrus.StandardLogger()
	}

	return srv.routes(), srv
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		requestLogger(s.log),
		middleware.Recoverer,
	)

	r.Get("/health", s.health)
	r.Get("/formats", s.formats)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.Group(func(cr chi.Router) {
		if rl := s.cfg.RateLimit; rl.Requests > 0 {
			cr.Use(rateLimiter(rl))
		}
		cr.Post("/", s.convert)
		cr.Post("/convert", s.convert)
	})

	return r
}

// rateLimiter allows rl.Requests conversions per window and client IP.
func rateLimiter(rl config.RateLimit) func(http.Handler) http.Handler {
	return httprate.Limit(
		rl.Requests,
		rl.Window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Retry-After", strconv.Itoa(int(rl.Window.Seconds())))
			http.Error(w, "too many requests", http.StatusTooManyRequests)
		}),
	)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
