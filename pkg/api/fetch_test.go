package api

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sdkerrors "github.com/metadeploy/metadeploy-sdk/pkg/util/errors"
)

type product struct {
	ID   string `json:"id"`
	Slug string `json:"slug"`
}

func TestFetch(t *testing.T) {
	tests := []struct {
		name          string
		response      MockResponse
		opts          []FetchOption
		expectedFound bool
		expectedErr   string
		expectedMsg   string
		expectedSlug  string
	}{
		{
			name:          "should decode a 2xx body",
			response:      MockResponse{RespCode: 200, RespData: `{"id":"p1","slug":"product"}`},
			expectedFound: true,
			expectedSlug:  "product",
		},
		{
			name:          "should accept an empty response",
			response:      MockResponse{RespCode: 204},
			expectedFound: true,
		},
		{
			name:          "should report an allowed 404 as absent",
			response:      MockResponse{RespCode: 404, RespData: `{"detail":"Not found."}`},
			opts:          []FetchOption{AllowNotFound()},
			expectedFound: false,
		},
		{
			name:        "should fail a 404 by default",
			response:    MockResponse{RespCode: 404, RespData: `{"detail":"Not found."}`},
			expectedErr: "404: Not found.",
			expectedMsg: "Not found.",
		},
		{
			name:        "should fall back to the status text",
			response:    MockResponse{RespCode: 500, RespData: `<html>oops</html>`},
			expectedErr: "500: Internal Server Error",
			expectedMsg: "Internal Server Error",
		},
		{
			name:        "should use the detail of a 403",
			response:    MockResponse{RespCode: 403, RespData: `{"detail":"You do not have permission."}`},
			expectedErr: "403: You do not have permission.",
			expectedMsg: "You do not have permission.",
		},
		{
			name:        "should surface transport errors",
			response:    MockResponse{ErrString: "connection refused"},
			expectedErr: "[Error Code 1200] - request GET https://example.com/api/products/get_one/ failed: connection refused",
			expectedMsg: "connection refused",
		},
		{
			name:        "should surface undecodable bodies",
			response:    MockResponse{RespCode: 200, RespData: `{"id":`},
			expectedMsg: "unexpected end of JSON input",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			client := &MockClient{}
			client.SetResponses([]MockResponse{tc.response})
			messages := []string{}
			f := NewFetcher(client, "https://example.com/", func(msg string) { messages = append(messages, msg) })

			var out product
			found, err := f.Get(context.Background(), ProductPath, &out, append(tc.opts, WithQuery(map[string]string{"slug": "product"}))...)

			require.Len(t, client.Requests, 1)
			assert.Equal(t, "https://example.com/api/products/get_one/", client.Requests[0].URL)
			assert.Equal(t, "product", client.Requests[0].QueryParams["slug"])

			assert.Equal(t, tc.expectedFound, found)
			assert.Equal(t, tc.expectedSlug, out.Slug)
			if tc.expectedMsg == "" {
				assert.Nil(t, err)
				assert.Empty(t, messages)
				return
			}
			require.NotNil(t, err)
			if tc.expectedErr != "" {
				assert.Equal(t, tc.expectedErr, err.Error())
			}
			assert.Equal(t, []string{tc.expectedMsg}, messages)
		})
	}
}

func TestFetchErrorTypes(t *testing.T) {
	client := &MockClient{}
	client.SetResponses([]MockResponse{
		{RespCode: 400, RespData: `{"detail":"bad"}`},
		{ErrString: "boom"},
	})
	f := NewFetcher(client, "https://example.com", nil)

	_, err := f.Post(context.Background(), PreflightPath("1"), map[string]string{}, nil)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 400, apiErr.Status)
	assert.False(t, apiErr.IsNotFound())
	assert.Equal(t, []byte("{}"), client.Requests[0].Body)
	assert.Equal(t, POST, client.Requests[0].Method)

	_, err = f.Delete(context.Background(), JobPath("1"))
	assert.True(t, errors.Is(err, ErrRequestFailed))
	var sdkErr *sdkerrors.SDKError
	require.True(t, errors.As(err, &sdkErr))
	assert.Equal(t, 1200, sdkErr.GetErrorCode())
	assert.Equal(t, "https://example.com/api/jobs/1/", client.Requests[1].URL)
}

func TestFetchAbsoluteURL(t *testing.T) {
	client := &MockClient{ResponseCode: 200}
	f := NewFetcher(client, "https://example.com", nil)
	found, err := f.Patch(context.Background(), "https://other.example.com/api/jobs/1/", map[string]bool{"is_public": true}, nil)
	assert.Nil(t, err)
	assert.True(t, found)
	assert.Equal(t, "https://other.example.com/api/jobs/1/", client.Requests[0].URL)
	assert.Equal(t, "https://example.com", f.BaseURL())
}
