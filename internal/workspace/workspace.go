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

// Package workspace allocates the per-request pair of temp files a conversion works on.
package workspace

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/nicholasgasior/docconvert/internal/models"
	"github.com/sirupsen/logrus"
)

const filePrefix = "document-"

// openFile is swapped in tests to simulate a filesystem that refuses the second file.
var openFile = os.OpenFile

// Workspace is a uniquely named input/output file pair. Both files exist from Acquire
// until Release.
type Workspace struct {
	InputPath  string
	OutputPath string

	log logrus.FieldLogger
}

// Acquire creates an empty input file and an empty output file in dir. Names are random
// and created exclusively, so concurrent requests never share a path. On error no file
// is left behind.
func Acquire(log logrus.FieldLogger, dir, inExt, outExt string) (*Workspace, error) {
	in, err := create(dir, inExt)
	if err != nil {
		return nil, fmt.Errorf("%w: input: %w", models.ErrTempFile, err)
	}
	out, err := create(dir, outExt)
	if err != nil {
		if rmErr := os.Remove(in); rmErr != nil {
			log.WithError(rmErr).Warnf("remove temp file %s", in)
		}
		return nil, fmt.Errorf("%w: output: %w", models.ErrTempFile, err)
	}
	return &Workspace{InputPath: in, OutputPath: out, log: log}, nil
}

func create(dir, ext string) (string, error) {
	path := filepath.Join(dir, fileName(ext))
	f, err := openFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return "", err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", err
	}
	return path, nil
}

func fileName(ext string) string {
	name := filePrefix + uuid.NewString()
	if ext = strings.TrimPrefix(ext, "."); ext != "" {
		name += "." + ext
	}
	return name
}

// Release deletes both files. Failures are logged, never returned; a file that is
// already gone is not a failure.
func (w *Workspace) Release() {
	if w == nil {
		return
	}
	for _, p := range []string{w.InputPath, w.OutputPath} {
		if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			w.log.WithError(err).Warnf("remove temp file %s", p)
		}
	}
}
