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

package redis_db

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const pingTimeout = 500 * time.Millisecond

// Redis wraps the client shared by the projection cache and the apply lock.
type Redis struct {
	addresses []string
	client    redis.UniversalClient
}

// ParseRedisURL turns a configured address into client options. Accepted forms are a bare
// host:port (docker style), redis:// and rediss:// URLs, and redis://password@host where the
// password has no username in front of it.
func ParseRedisURL(rawURL string, skipTLSVerify bool) (*redis.Options, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil, errors.New("redis address is empty")
	}

	if !strings.Contains(rawURL, "://") {
		if strings.Contains(rawURL, "@") {
			return nil, fmt.Errorf("redis address %q has credentials but no scheme", rawURL)
		}
		return &redis.Options{Addr: rawURL}, nil
	}

	// redis://secret@host means a password, while the URL parser would read it as a username
	for _, scheme := range []string{"redis://", "rediss://"} {
		rest, ok := strings.CutPrefix(rawURL, scheme)
		if !ok {
			continue
		}
		if auth, host, found := strings.Cut(rest, "@"); found && !strings.Contains(auth, ":") {
			rawURL = fmt.Sprintf("%s:%s@%s", scheme, auth, host)
		}
	}

	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}

	if opts.TLSConfig != nil && skipTLSVerify {
		opts.TLSConfig.InsecureSkipVerify = true
	}
	return opts, nil
}

// NewRedisClient connects to a single node, or to a cluster when several addresses are given,
// and pings it before returning.
func NewRedisClient(addresses []string, skipTLSVerify bool) (*Redis, error) {
	if len(addresses) == 0 {
		return nil, errors.New("redis addresses list cannot be empty")
	}

	var client redis.UniversalClient
	if len(addresses) == 1 {
		opts, err := ParseRedisURL(addresses[0], skipTLSVerify)
		if err != nil {
			return nil, err
		}
		client = redis.NewClient(opts)
	} else {
		clusterOpts := &redis.UniversalOptions{}
		for _, addr := range addresses {
			opts, err := ParseRedisURL(addr, skipTLSVerify)
			if err != nil {
				return nil, err
			}
			clusterOpts.Addrs = append(clusterOpts.Addrs, opts.Addr)
			if clusterOpts.Password == "" {
				clusterOpts.Password = opts.Password
			}
			if opts.TLSConfig != nil && clusterOpts.TLSConfig == nil {
				clusterOpts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12, InsecureSkipVerify: skipTLSVerify}
			}
		}
		client = redis.NewUniversalClient(clusterOpts)
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}
	return &Redis{addresses: addresses, client: client}, nil
}

// Client returns the underlying universal client.
func (r *Redis) Client() redis.UniversalClient {
	return r.client
}

func (r *Redis) Close() error {
	return r.client.Close()
}
