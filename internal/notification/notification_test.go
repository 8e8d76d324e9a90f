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

package notification

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fintrack/fintrack/config"
	"github.com/fintrack/fintrack/model"
)

const testWebhook = "https://hooks.slack.test/services/T000/B000/XXX"

func mockWebhookConfig(url string) {
	config.MockConfig(&config.Configuration{
		ProjectName:  "Fintrack",
		Notification: config.Notification{Slack: config.SlackWebhook{WebhookUrl: url}},
	})
}

func criticalProjection(days int) *model.CashFlowProjection {
	projection := &model.CashFlowProjection{
		StartDate: "2024-01-01",
		EndDate:   "2024-01-31",
		Scenario:  "pessimistic",
		Summary:   model.ProjectionSummary{MinBalance: decimal.NewFromInt(-250)},
	}
	for i := 0; i < days; i++ {
		projection.Summary.CriticalDays = append(projection.Summary.CriticalDays, model.CriticalDay{
			Date:             "2024-01-2" + string(rune('0'+i)),
			ProjectedBalance: decimal.NewFromInt(-250),
			Shortfall:        decimal.NewFromInt(250),
		})
	}
	return projection
}

func TestCriticalBalanceAlert_PostsToSlack(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()
	mockWebhookConfig(testWebhook)

	var received slackMessage
	httpmock.RegisterResponder(http.MethodPost, testWebhook, func(req *http.Request) (*http.Response, error) {
		if err := json.NewDecoder(req.Body).Decode(&received); err != nil {
			return nil, err
		}
		return httpmock.NewStringResponse(http.StatusOK, "ok"), nil
	})

	err := CriticalBalanceAlert(context.Background(), criticalProjection(2))
	require.NoError(t, err)
	assert.Equal(t, 1, httpmock.GetTotalCallCount())

	require.Len(t, received.Blocks, 5)
	assert.Equal(t, "header", received.Blocks[0].Type)
	assert.Contains(t, received.Blocks[2].Fields[0].Text, "2024-01-01 to 2024-01-31")
	assert.Contains(t, received.Blocks[3].Fields[0].Text, "-250.00")
	assert.Contains(t, received.Blocks[4].Fields[0].Text, "2024-01-20: -250.00 (short 250.00)")
}

func TestCriticalBalanceAlert_NoCriticalDays(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()
	mockWebhookConfig(testWebhook)

	assert.NoError(t, CriticalBalanceAlert(context.Background(), criticalProjection(0)))
	assert.NoError(t, CriticalBalanceAlert(context.Background(), nil))
	assert.Equal(t, 0, httpmock.GetTotalCallCount())
}

func TestCriticalBalanceAlert_NoWebhook(t *testing.T) {
	mockWebhookConfig("")
	err := CriticalBalanceAlert(context.Background(), criticalProjection(1))
	assert.ErrorIs(t, err, ErrNoWebhook)
}

func TestCriticalBalanceAlert_SlackRejects(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()
	mockWebhookConfig(testWebhook)
	httpmock.RegisterResponder(http.MethodPost, testWebhook, httpmock.NewStringResponder(http.StatusNotFound, "no_team"))

	err := CriticalBalanceAlert(context.Background(), criticalProjection(1))
	assert.ErrorContains(t, err, "no_team")
}

func TestCriticalBalanceMessage_TruncatesDays(t *testing.T) {
	message := criticalBalanceMessage(criticalProjection(8))
	days := message.Blocks[4].Fields[0].Text
	assert.Equal(t, criticalDaysListed+1, len(strings.Split(days, "\n")))
	assert.Contains(t, days, "and 3 more")
}

func TestSlackNotification(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()
	mockWebhookConfig(testWebhook)

	var received slackMessage
	httpmock.RegisterResponder(http.MethodPost, testWebhook, func(req *http.Request) (*http.Response, error) {
		_ = json.NewDecoder(req.Body).Decode(&received)
		return httpmock.NewStringResponse(http.StatusOK, "ok"), nil
	})

	require.NoError(t, SlackNotification(errors.New("database unreachable")))
	require.Len(t, received.Blocks, 3)
	assert.Equal(t, "Error From Fintrack 🐞", received.Blocks[0].Text.Text)
	assert.Contains(t, received.Blocks[1].Fields[0].Text, "database unreachable")
}
