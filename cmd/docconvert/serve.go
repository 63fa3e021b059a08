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

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nicholasgasior/docconvert/internal/app/converthttp"
	"github.com/nicholasgasior/docconvert/internal/metrics"
	"github.com/nicholasgasior/docconvert/pkg/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const gracefulShutdownTimeout = 15 * time.Second

type ServeOptions struct {
	GlobalOptions
	ListenAddr string
}

func DefaultServeOptions() *ServeOptions {
	return &ServeOptions{GlobalOptions: DefaultGlobalOptions()}
}

func NewCmdServe() *cobra.Command {
	o := DefaultServeOptions()
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the conversion HTTP service.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.Run(cmd.Context())
		},
		SilenceUsage: true,
	}
	o.Bind(cmd.Flags())
	return cmd
}

func (o *ServeOptions) Bind(fs *pflag.FlagSet) {
	o.GlobalOptions.Bind(fs)
	fs.StringVarP(&o.ListenAddr, "listen", "l", o.ListenAddr, "Address to listen on, overrides the configuration.")
}

func (o *ServeOptions) Run(ctx context.Context) error {
	cfg, err := o.Load()
	if err != nil {
		return fmt.Errorf("reading configuration: %w", err)
	}
	if o.ListenAddr != "" {
		cfg.ListenAddr = o.ListenAddr
	}

	logger := log.InitLogs(cfg.LogLevel)

	if err := os.MkdirAll(cfg.TempDir, 0o700); err != nil {
		return fmt.Errorf("preparing temp dir: %w", err)
	}

	engine, err := newEngine(cfg)
	if err != nil {
		return fmt.Errorf("building engine: %w", err)
	}
	if err := engine.OfficeAvailable(); err != nil {
		logger.WithError(err).Warn("office conversions will fail until LibreOffice is installed")
	}

	handler, _ := converthttp.NewServer(converthttp.Deps{
		Registry:  engine.Registry(),
		Converter: engine,
		Metrics:   metrics.New(),
		Log:       logger,
		Cfg:       cfg,
	})

	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		<-ctx.Done()
		logger.Info("Shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
		defer cancel()

		server.SetKeepAlivesEnabled(false)
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Error("shutdown")
		}
	}()

	logger.WithField("temp_dir", cfg.TempDir).Infof("Listening on %s", cfg.ListenAddr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	// In-flight conversions finish before the process exits.
	<-shutdownDone
	return nil
}
