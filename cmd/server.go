/*
Copyright 2024 Fintrack Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"context"
	"log"
	"net/http"

	"github.com/caddyserver/certmagic"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/fintrack/fintrack/api"
	"github.com/fintrack/fintrack/config"
	trace "github.com/fintrack/fintrack/internal/traces"
)

// serveTLS serves router over HTTPS with certificates managed by CertMagic. Without a configured
// domain it falls back to localhost.
func serveTLS(r *gin.Engine, conf config.ServerConfig) error {
	certmagic.DefaultACME.Agreed = true
	certmagic.DefaultACME.Email = conf.Email
	cfg := certmagic.NewDefault()
	cfg.Storage = &certmagic.FileStorage{Path: conf.CertStorage}

	domains := []string{conf.Domain}
	if conf.Domain == "" {
		log.Println("No domain specified, defaulting to localhost")
		domains = []string{"localhost"}
	}

	if err := cfg.ManageSync(context.Background(), domains); err != nil {
		return err
	}

	server := &http.Server{
		Addr:      ":" + conf.Port,
		Handler:   r,
		TLSConfig: cfg.TLSConfig(),
	}

	log.Printf("Starting HTTPS server on %s\n", conf.Port)
	if err := server.ListenAndServeTLS("", ""); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func startServer(router *gin.Engine, cfg config.ServerConfig) error {
	if cfg.SSL {
		return serveTLS(router, cfg)
	}
	log.Printf("Starting server on http://localhost:%s", cfg.Port)
	return router.Run(":" + cfg.Port)
}

func initializeTracing(ctx context.Context, cfg *config.Configuration) (func(context.Context) error, error) {
	if !cfg.EnableTelemetry {
		return func(context.Context) error { return nil }, nil
	}
	shutdown, err := trace.SetupOTelSDK(ctx, cfg.ProjectName)
	if err != nil {
		return nil, errors.Wrap(err, "error setting up OTel SDK")
	}
	return shutdown, nil
}

func serverCommands(f *fintrackInstance) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "start fintrack server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			shutdown, err := initializeTracing(ctx, f.cnf)
			if err != nil {
				return err
			}
			defer func() {
				if err := shutdown(ctx); err != nil {
					log.Printf("Error during shutdown: %v", err)
				}
			}()

			router := api.NewAPI(f.fintrack).Router()
			return startServer(router, f.cnf.Server)
		},
	}

	return cmd
}
