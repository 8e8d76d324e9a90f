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
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/fintrack/fintrack/config"
)

const redacted = "[redacted]"

func configCommands(f *fintrackInstance) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "config outputs your instance's computed configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return printJSON(cmd, redactedConfig(*f.cnf))
		},
	}
	return cmd
}

// redactedConfig masks credentials before the configuration is printed.
func redactedConfig(cfg config.Configuration) config.Configuration {
	if cfg.Server.SecretKey != "" {
		cfg.Server.SecretKey = redacted
	}
	if cfg.Notification.Slack.WebhookUrl != "" {
		cfg.Notification.Slack.WebhookUrl = redacted
	}
	cfg.DataSource.Dns = redactURL(cfg.DataSource.Dns)
	cfg.Redis.Dns = redactURL(cfg.Redis.Dns)
	return cfg
}

func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	if _, hasPassword := u.User.Password(); hasPassword {
		u.User = url.UserPassword(u.User.Username(), "xxxxx")
	}
	return u.String()
}

func printJSON(cmd *cobra.Command, value interface{}) error {
	data, err := json.MarshalIndent(value, "", "    ")
	if err != nil {
		return fmt.Errorf("error printing output: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
