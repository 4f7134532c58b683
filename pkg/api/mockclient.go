package api

import (
	"context"
	"fmt"
	"sync"
)

// MockClient - use for mocking the HTTP client
type MockClient struct {
	Response      *Response // this for if you want to set your own dummy response
	ResponseCode  int       // this for if only care about a particular response code
	ResponseError error

	RespCount int
	Responses []MockResponse
	Requests  []Request // lists all requests the client has received
	sync.Mutex
}

// MockResponse - one queued response, returned in order
type MockResponse struct {
	RespData  string
	RespCode  int
	ErrString string
}

// SetResponses -
func (c *MockClient) SetResponses(responses []MockResponse) {
	c.Lock()
	defer c.Unlock()
	c.RespCount = 0
	c.Responses = responses
}

// Send -
func (c *MockClient) Send(_ context.Context, request Request) (*Response, error) {
	c.Lock()
	defer c.Unlock()

	c.Requests = append(c.Requests, request)

	if len(c.Responses) > 0 {
		return c.sendMultiple(request)
	}
	if c.ResponseError != nil {
		return nil, c.ResponseError
	}
	if c.ResponseCode != 0 {
		return &Response{
			Code: c.ResponseCode,
		}, nil
	}
	if c.Response != nil {
		return c.Response, nil
	}
	return nil, fmt.Errorf("no response configured for %s %s", request.Method, request.URL)
}

func (c *MockClient) sendMultiple(request Request) (*Response, error) {
	if c.RespCount >= len(c.Responses) {
		return nil, fmt.Errorf("error: received more requests than saved responses. failed on request: %s", request.URL)
	}
	next := c.Responses[c.RespCount]
	c.RespCount++
	if next.ErrString != "" {
		return nil, fmt.Errorf("%s", next.ErrString)
	}
	return &Response{
		Code:    next.RespCode,
		Body:    []byte(next.RespData),
		Headers: map[string][]string{},
	}, nil
}
