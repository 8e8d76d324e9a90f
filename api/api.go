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

package api

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/fintrack/fintrack"
	"github.com/fintrack/fintrack/api/middleware"
	"github.com/fintrack/fintrack/config"
	"github.com/fintrack/fintrack/internal/apierror"
)

type Api struct {
	fintrack *fintrack.Fintrack
	router   *gin.Engine
}

func (a Api) Router() *gin.Engine {
	router := a.router

	router.GET("/reconciliation/suggestions", a.GetReconciliationSuggestions)
	router.POST("/reconciliation/apply", a.ApplyReconciliation)

	router.GET("/cashflow/projection", a.GetCashFlowProjection)

	return a.router
}

func NewAPI(f *fintrack.Fintrack) *Api {
	gin.SetMode(gin.ReleaseMode)
	conf, err := config.Fetch()
	if err != nil {
		return nil
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.AccessLog())
	r.Use(cors.New(corsConfig(conf.Server.CORSOrigins)))
	r.Use(otelgin.Middleware(conf.ProjectName))
	r.Use(middleware.RateLimitMiddleware(conf))
	if conf.Server.Secure {
		r.Use(middleware.SecretKeyAuthMiddleware())
	}

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, "server running...")
	})

	return &Api{fintrack: f, router: r}
}

// corsConfig allows the configured origins, or any origin when none are set.
func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowHeaders = append(cfg.AllowHeaders, middleware.KeyHeader, middleware.RequestIDHeader)
	cfg.ExposeHeaders = []string{middleware.RequestIDHeader}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

// respondError renders err as {"error": {"code", "message"}} with the matching status.
func respondError(c *gin.Context, err error) {
	var apiErr apierror.APIError
	if !errors.As(err, &apiErr) {
		apiErr = apierror.NewAPIError(apierror.ErrInternalServer, "An unexpected error occurred", err)
	}
	c.JSON(apierror.MapErrorToHTTPStatus(apiErr), gin.H{"error": gin.H{
		"code":    apiErr.Code,
		"message": apiErr.Message,
	}})
}

func badRequest(c *gin.Context, err error) {
	respondError(c, apierror.NewAPIError(apierror.ErrInvalidInput, err.Error(), nil))
}
