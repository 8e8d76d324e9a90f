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
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fintrack/fintrack"
	model2 "github.com/fintrack/fintrack/api/model"
)

func (a Api) GetCashFlowProjection(c *gin.Context) {
	var query model2.ProjectionQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		badRequest(c, err)
		return
	}
	if err := query.ValidateProjectionQuery(); err != nil {
		badRequest(c, err)
		return
	}

	projection, err := a.fintrack.ProjectCashFlow(c.Request.Context(), query.ToOptions(fintrack.DefaultProjectionOptions()))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, projection)
}
