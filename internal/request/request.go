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

package request

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultTimeout = 10 * time.Second

// ToJsonReq serializes payload into a buffer ready to be used as a request body.
func ToJsonReq(payload interface{}) (*bytes.Buffer, error) {
	c, e := json.Marshal(payload)
	if e != nil {
		return nil, e
	}
	return bytes.NewBuffer(c), nil
}

// PostJSON sends payload as a JSON POST to url. The response body, when JSON, is decoded into response.
func PostJSON(ctx context.Context, url string, payload, response interface{}) (*http.Response, error) {
	body, err := ToJsonReq(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, err
	}
	return Call(req, response)
}

// Call performs req with a JSON content type. A non 2xx status is an error. The body is decoded
// into response unless response is nil or the body is empty; webhooks such as Slack reply with
// plain text, so callers that don't care pass nil.
func Call(req *http.Request, response interface{}) (*http.Response, error) {
	req.Header.Set("Content-Type", "application/json")
	client := &http.Client{Timeout: defaultTimeout}

	resp, err := client.Do(req)
	if err != nil {
		return resp, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp, fmt.Errorf("request to %s failed with status %d: %s", req.URL.Host, resp.StatusCode, bytes.TrimSpace(raw))
	}

	if response == nil || len(bytes.TrimSpace(raw)) == 0 {
		return resp, nil
	}
	return resp, json.Unmarshal(raw, response)
}
