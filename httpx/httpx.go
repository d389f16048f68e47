// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package httpx provides the HTTP client capability: requests as
// I/O-dispatched effects over a client carried by the environment.
package httpx

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"code.hybscloud.com/effect"
)

// HasHTTPClient is satisfied by environments that carry an HTTP client.
type HasHTTPClient interface {
	HTTPClient() *http.Client
}

// Response is a fully read HTTP response.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

func do(build func(ctx context.Context) (*http.Request, error)) effect.Effect[Response] {
	return effect.AndThen(effect.Depend[HasHTTPClient](), func(env HasHTTPClient) effect.Effect[Response] {
		return effect.BlockingIO(func(ctx context.Context) (Response, error) {
			req, err := build(ctx)
			if err != nil {
				return Response{}, err
			}
			resp, err := env.HTTPClient().Do(req)
			if err != nil {
				return Response{}, err
			}
			defer resp.Body.Close()
			body, err := io.ReadAll(resp.Body)
			if err != nil {
				return Response{}, err
			}
			return Response{Status: resp.StatusCode, Header: resp.Header, Body: body}, nil
		})
	})
}

// Get requests the url and reads the whole response. The request is bound
// to the run's cancellation context.
func Get(url string) effect.Effect[Response] {
	return do(func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	})
}

// Post sends body to the url with the given content type.
func Post(url, contentType string, body []byte) effect.Effect[Response] {
	return do(func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", contentType)
		return req, nil
	})
}

// Env is a ready-made single-capability environment.
type Env struct {
	Client *http.Client
}

// HTTPClient implements HasHTTPClient.
func (e Env) HTTPClient() *http.Client { return e.Client }
