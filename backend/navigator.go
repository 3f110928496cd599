// navigator.go - A Navigator implementation backed by net/http, run on
// the host's own goroutines per ("host-initiated async work
// ... completes on the host's own threads and enqueues completion
// callbacks"). The request/response plumbing is a narrow, declared
// external collaborator; nothing here touches the VM or
// display state directly.
package backend

import (
	"bytes"
	"context"
	"io"
	"net/http"
)

// HTTPNavigator issues fetches via the standard library HTTP client and
// resolves each on its own goroutine, matching the documented "spawn(future)"
// contract.
type HTTPNavigator struct {
	Client *http.Client
}

func NewHTTPNavigator() *HTTPNavigator {
	return &HTTPNavigator{Client: http.DefaultClient}
}

func (n *HTTPNavigator) Fetch(ctx context.Context, req NavRequest) (<-chan NavResponse, error) {
	method := req.Method
	if method == "" {
 method = http.MethodGet
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, req.URL, bytes.NewReader(req.Body))
	if err != nil {
 return nil, err
	}

	ch := make(chan NavResponse, 1)
	n.Spawn(func() {
 resp, err := n.Client.Do(httpReq)
 if err != nil {
 ch <- NavResponse{Status: 0}
 close(ch)
 return
 }
 defer resp.Body.Close()
 body, _ := io.ReadAll(resp.Body)
 ch <- NavResponse{Status: resp.StatusCode, Body: body}
 close(ch)
	})
	return ch, nil
}

// Spawn runs fn on its own goroutine, the host-thread async model §5
// describes.
func (n *HTTPNavigator) Spawn(fn func()) {
	go fn()
}
