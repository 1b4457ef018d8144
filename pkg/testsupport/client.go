package testsupport

import (
	"context"
	"net/http"
	"slices"
	"sync"

	"github.com/goliatone/go-crudconsole/pkg/client"
)

// Call is one request seen by a CountingClient.
type Call struct {
	Method string
	URL    string
	Body   any
}

// CountingClient records requests and forwards them to Next. Without Next
// every request answers an empty body.
type CountingClient struct {
	Next client.Client

	mu    sync.Mutex
	calls []Call
}

var _ client.Client = (*CountingClient)(nil)

func (c *CountingClient) Get(ctx context.Context, url string) (any, error) {
	return c.forward(Call{Method: http.MethodGet, URL: url}, func(next client.Client) (any, error) {
		return next.Get(ctx, url)
	})
}

func (c *CountingClient) Post(ctx context.Context, url string, body any) (any, error) {
	return c.forward(Call{Method: http.MethodPost, URL: url, Body: body}, func(next client.Client) (any, error) {
		return next.Post(ctx, url, body)
	})
}

func (c *CountingClient) Put(ctx context.Context, url string, body any) (any, error) {
	return c.forward(Call{Method: http.MethodPut, URL: url, Body: body}, func(next client.Client) (any, error) {
		return next.Put(ctx, url, body)
	})
}

func (c *CountingClient) Delete(ctx context.Context, url string) (any, error) {
	return c.forward(Call{Method: http.MethodDelete, URL: url}, func(next client.Client) (any, error) {
		return next.Delete(ctx, url)
	})
}

func (c *CountingClient) forward(call Call, send func(client.Client) (any, error)) (any, error) {
	c.mu.Lock()
	c.calls = append(c.calls, call)
	c.mu.Unlock()
	if c.Next == nil {
		return nil, nil
	}
	return send(c.Next)
}

func (c *CountingClient) Calls() []Call {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.calls)
}

// Count returns how many calls used method; "" counts all of them.
func (c *CountingClient) Count(method string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, call := range c.calls {
		if method == "" || call.Method == method {
			n++
		}
	}
	return n
}
