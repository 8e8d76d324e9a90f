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
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fintrack/fintrack/config"
	"github.com/fintrack/fintrack/internal/request"
	"github.com/fintrack/fintrack/model"
)

// ErrNoWebhook is returned when no Slack webhook is configured.
var ErrNoWebhook = errors.New("slack webhook is not configured")

// criticalDaysListed caps how many critical days go into one alert.
const criticalDaysListed = 5

type text struct {
	Type  string `json:"type"`
	Text  string `json:"text"`
	Emoji bool   `json:"emoji,omitempty"`
}

type block struct {
	Type   string `json:"type"`
	Text   *text  `json:"text,omitempty"`
	Fields []text `json:"fields,omitempty"`
}

type slackMessage struct {
	Blocks []block `json:"blocks"`
}

func header(title string) block {
	return block{Type: "header", Text: &text{Type: "plain_text", Text: title, Emoji: true}}
}

func field(label, value string) block {
	return block{Type: "section", Fields: []text{{Type: "mrkdwn", Text: fmt.Sprintf("*%s:*\n%s", label, value)}}}
}

func webhookURL() (string, error) {
	conf, err := config.Fetch()
	if err != nil {
		return "", err
	}
	if conf.Notification.Slack.WebhookUrl == "" {
		return "", ErrNoWebhook
	}
	return conf.Notification.Slack.WebhookUrl, nil
}

func send(ctx context.Context, message slackMessage) error {
	url, err := webhookURL()
	if err != nil {
		return err
	}
	_, err = request.PostJSON(ctx, url, message, nil)
	return err
}

// SlackNotification posts an error report to the configured Slack webhook.
func SlackNotification(err error) error {
	conf, cfgErr := config.Fetch()
	if cfgErr != nil {
		return cfgErr
	}
	message := slackMessage{Blocks: []block{
		header(fmt.Sprintf("Error From %s 🐞", conf.ProjectName)),
		field("Error", err.Error()),
		field("Time", time.Now().Format(time.RFC822)),
	}}
	return send(context.Background(), message)
}

// NotifyError logs systemError and, when Slack is configured, reports it there without blocking the caller.
func NotifyError(systemError error) {
	go func(systemError error) {
		logrus.Error(systemError)

		if _, err := webhookURL(); err != nil {
			return
		}
		if err := SlackNotification(systemError); err != nil {
			logrus.WithError(err).Warn("failed to send slack error notification")
		}
	}(systemError)
}

// CriticalBalanceAlert posts the projected negative-balance days of a projection to Slack.
// It is a no-op for projections without critical days.
func CriticalBalanceAlert(ctx context.Context, projection *model.CashFlowProjection) error {
	if projection == nil || !projection.HasCriticalDays() {
		return nil
	}
	return send(ctx, criticalBalanceMessage(projection))
}

func criticalBalanceMessage(projection *model.CashFlowProjection) slackMessage {
	critical := projection.Summary.CriticalDays

	lines := make([]string, 0, criticalDaysListed)
	for i, day := range critical {
		if i == criticalDaysListed {
			lines = append(lines, fmt.Sprintf("…and %d more", len(critical)-criticalDaysListed))
			break
		}
		lines = append(lines, fmt.Sprintf("%s: %s (short %s)", day.Date, day.ProjectedBalance.StringFixed(2), day.Shortfall.StringFixed(2)))
	}

	return slackMessage{Blocks: []block{
		header("Projected negative balance ⚠️"),
		field("Scenario", projection.Scenario),
		field("Window", fmt.Sprintf("%s to %s", projection.StartDate, projection.EndDate)),
		field("Minimum balance", projection.Summary.MinBalance.StringFixed(2)),
		field("Critical days", strings.Join(lines, "\n")),
	}}
}
