package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/metadeploy/metadeploy-sdk/pkg/util/log"
)

// ErrorHandler receives the user facing message of every failed request
type ErrorHandler func(message string)

// Fetcher - JSON requests against the API root with uniform error surfacing
type Fetcher struct {
	client  Client
	baseURL string
	onError ErrorHandler
	logger  log.FieldLogger
}

type fetchOptions struct {
	allowNotFound bool
	queryParams   map[string]string
}

// FetchOption -
type FetchOption func(*fetchOptions)

// AllowNotFound - a 404 reports the resource as absent instead of failing
func AllowNotFound() FetchOption {
	return func(o *fetchOptions) {
		o.allowNotFound = true
	}
}

// WithQuery -
func WithQuery(params map[string]string) FetchOption {
	return func(o *fetchOptions) {
		o.queryParams = params
	}
}

// NewFetcher - paths passed to Fetch are resolved against baseURL
func NewFetcher(client Client, baseURL string, onError ErrorHandler) *Fetcher {
	return &Fetcher{
		client:  client,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		onError: onError,
		logger:  log.NewFieldLogger().WithComponent("fetcher").WithPackage("api"),
	}
}

// BaseURL -
func (f *Fetcher) BaseURL() string {
	return f.baseURL
}

// Fetch sends body as JSON and decodes a 2xx response into out. An empty or 204
// response leaves out untouched. The returned bool is false only for a 404
// allowed by AllowNotFound.
func (f *Fetcher) Fetch(ctx context.Context, method, path string, body, out interface{}, opts ...FetchOption) (bool, error) {
	options := &fetchOptions{}
	for _, o := range opts {
		o(options)
	}
	target := f.url(path)

	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return false, ErrEncodeRequest.FormatError(target)
		}
	}

	res, err := f.client.Send(ctx, Request{Method: method, URL: target, QueryParams: options.queryParams, Body: payload})
	if err != nil {
		f.surface(err.Error())
		return false, ErrRequestFailed.WithCause(err).FormatError(method, target)
	}

	if res.Code == http.StatusNotFound && options.allowNotFound {
		return false, nil
	}
	if res.Code < 200 || res.Code >= 300 {
		apiErr := newAPIError(res)
		f.logger.WithField("url", target).WithField("status", res.Code).Debug(apiErr.Message)
		f.surface(apiErr.Message)
		return false, apiErr
	}

	if out == nil || res.Code == http.StatusNoContent || len(strings.TrimSpace(string(res.Body))) == 0 {
		return true, nil
	}
	if err := json.Unmarshal(res.Body, out); err != nil {
		f.surface(err.Error())
		return false, ErrDecodeResponse.WithCause(err).FormatError(target)
	}
	return true, nil
}

// Get -
func (f *Fetcher) Get(ctx context.Context, path string, out interface{}, opts ...FetchOption) (bool, error) {
	return f.Fetch(ctx, GET, path, nil, out, opts...)
}

// Post -
func (f *Fetcher) Post(ctx context.Context, path string, body, out interface{}, opts ...FetchOption) (bool, error) {
	return f.Fetch(ctx, POST, path, body, out, opts...)
}

// Patch -
func (f *Fetcher) Patch(ctx context.Context, path string, body, out interface{}, opts ...FetchOption) (bool, error) {
	return f.Fetch(ctx, PATCH, path, body, out, opts...)
}

// Delete -
func (f *Fetcher) Delete(ctx context.Context, path string, opts ...FetchOption) (bool, error) {
	return f.Fetch(ctx, DELETE, path, nil, nil, opts...)
}

func (f *Fetcher) surface(message string) {
	if f.onError != nil {
		f.onError(message)
	}
}

func (f *Fetcher) url(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return f.baseURL + "/" + strings.TrimPrefix(path, "/")
}
