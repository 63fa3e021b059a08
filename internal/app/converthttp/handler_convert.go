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
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/nicholasgasior/docconvert/internal/models"
	"github.com/nicholasgasior/docconvert/internal/workspace"
	"github.com/nicholasgasior/docconvert/pkg/httperrors"
	"github.com/nicholasgasior/docconvert/pkg/log"
	"github.com/sirupsen/logrus"
)

// streamError is a failure while copying the result to the client. The status line is
// already sent by then, so it can only be logged.
type streamError struct {
	err error
}

func (e *streamError) Error() string { return "stream output: " + e.err.Error() }
func (e *streamError) Unwrap() error { return e.err }

// convert runs negotiate, extract, acquire, write, convert, stream and release in
// that order.
func (s *Server) convert(w http.ResponseWriter, r *http.Request) {
	defer s.metrics.TrackInFlight()()

	start := time.Now()
	logger := log.WithReqIDFromCtx(r.Context(), s.log)

	in, out, err := s.negotiate(r.Header.Get(s.cfg.InputHeader), r.Header.Get(s.cfg.OutputHeader))
	if err != nil {
		s.fail(w, logger, err)
		return
	}
	logger = logger.WithFields(logrus.Fields{"input": in.MediaType, "output": out.MediaType})

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	item, err := extractUpload(r)
	if err != nil {
		s.fail(w, logger, err)
		return
	}

	ws, err := workspace.Acquire(logger, s.cfg.TempDir, in.Extension, out.Extension)
	if err != nil {
		s.fail(w, logger, err)
		return
	}
	defer ws.Release()

	size, err := item.WriteTo(ws.InputPath)
	if err != nil {
		s.fail(w, logger, err)
		return
	}
	logger = logger.WithFields(logrus.Fields{"filename": item.Filename(), "upload_bytes": size})
	sniffUpload(logger, ws.InputPath, in.MediaType)

	req := conversionRequest{in: in, out: out, inputPath: ws.InputPath}

	// The engine runs to completion even if the client goes away.
	convStart := time.Now()
	err = s.converter.Convert(context.WithoutCancel(r.Context()), req.inputPath, req.in, ws.OutputPath, req.out)
	s.metrics.ObserveConversion(in.MediaType, out.MediaType, time.Since(convStart), err)
	if err != nil {
		s.fail(w, logger, fmt.Errorf("%w: %w", models.ErrConversionFailed, err))
		return
	}

	n, err := streamOutput(w, ws.OutputPath, out.MediaType)
	if err != nil {
		var se *streamError
		if errors.As(err, &se) {
			logger.WithError(err).Warn("client did not receive the full output")
			return
		}
		s.fail(w, logger, err)
		return
	}

	logger.WithFields(logrus.Fields{
		"output_bytes": n,
		"duration":     time.Since(start),
	}).Info("conversion served")
}

func (s *Server) fail(w http.ResponseWriter, logger logrus.FieldLogger, err error) {
	status := httperrors.Status(err)
	entry := logger.WithError(err).WithField("status", status)
	if status >= http.StatusInternalServerError {
		entry.Error("conversion request failed")
	} else {
		entry.Info("conversion request rejected")
	}
	httperrors.Write(w, err)
}

// streamOutput sends the file at path as the response body. Headers are flushed before
// the copy so the body is streamed without a Content-Length.
func streamOutput(w http.ResponseWriter, path, contentType string) (int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("%w: open output: %w", models.ErrTempFile, err)
	}
	defer f.Close()

	h := w.Header()
	h.Set("Content-Type", contentType)
	h.Set("X-Content-Type-Options", "nosniff")
	h.Del("Content-Length")
	w.WriteHeader(http.StatusOK)
	_ = http.NewResponseController(w).Flush()

	n, err := io.Copy(w, f)
	if err != nil {
		return n, &streamError{err: err}
	}
	return n, nil
}

// sniffUpload compares the uploaded bytes with the declared type. A mismatch is only
// logged; the engine decides whether it can read the file.
func sniffUpload(logger logrus.FieldLogger, path, declared string) {
	detected, err := mimetype.DetectFile(path)
	if err != nil {
		logger.WithError(err).Debug("could not sniff upload")
		return
	}
	for m := detected; m != nil; m = m.Parent() {
		if m.Is(declared) {
			return
		}
	}
	logger.WithField("detected", detected.String()).Debug("upload content does not match declared type")
}
