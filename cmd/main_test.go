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
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fintrack/fintrack/config"
)

func TestNewCLI_Commands(t *testing.T) {
	cli := NewCLI()

	var names []string
	for _, c := range cli.cmd.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"start", "migrate", "reconcile", "project", "config"})

	flag := cli.cmd.PersistentFlags().Lookup("config")
	assert.Equal(t, "./fintrack.json", flag.DefValue)
}

func TestReconcileFlagsDefaults(t *testing.T) {
	cmd := reconcileCommands(&fintrackInstance{})
	for name, want := range map[string]string{
		"tolerance-days":   "3",
		"tolerance-amount": "0.01",
		"tolerance-hours":  "24",
		"min-confidence":   "70",
		"limit":            "1000",
	} {
		assert.Equal(t, want, cmd.Flags().Lookup(name).DefValue, name)
	}
}

func TestRedactedConfig(t *testing.T) {
	cfg := config.Configuration{
		Server:       config.ServerConfig{SecretKey: "top-secret"},
		DataSource:   config.DataSourceConfig{Dns: "postgres://app:hunter2@db:5432/fintrack?sslmode=disable"},
		Redis:        config.RedisConfig{Dns: "localhost:6379"},
		Notification: config.Notification{Slack: config.SlackWebhook{WebhookUrl: "https://hooks.slack.com/x"}},
	}

	out := redactedConfig(cfg)
	assert.Equal(t, redacted, out.Server.SecretKey)
	assert.Equal(t, redacted, out.Notification.Slack.WebhookUrl)
	assert.Equal(t, "postgres://app:xxxxx@db:5432/fintrack?sslmode=disable", out.DataSource.Dns)
	assert.Equal(t, "localhost:6379", out.Redis.Dns)

	assert.Equal(t, "top-secret", cfg.Server.SecretKey, "input must not be modified")
}
