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

// GetReconciliationSuggestions proposes transfer pairs and duplicate groups. Query parameters
// override the configured tolerances.
func (a Api) GetReconciliationSuggestions(c *gin.Context) {
	var query model2.SuggestionQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		badRequest(c, err)
		return
	}
	if err := query.ValidateSuggestionQuery(); err != nil {
		badRequest(c, err)
		return
	}

	suggestions, err := a.fintrack.SuggestReconciliation(c.Request.Context(), query.ToOptions(fintrack.DefaultSuggestionOptions()))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, suggestions)
}

// ApplyReconciliation commits a reviewed suggestion. Either every listed transaction is updated or none is.
func (a Api) ApplyReconciliation(c *gin.Context) {
	var request model2.ApplyReconciliation
	if err := c.ShouldBindJSON(&request); err != nil {
		badRequest(c, err)
		return
	}
	if err := request.ValidateApplyReconciliation(); err != nil {
		badRequest(c, err)
		return
	}

	result, err := a.fintrack.ApplyReconciliation(c.Request.Context(), request.Action, request.TransactionIDs)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
