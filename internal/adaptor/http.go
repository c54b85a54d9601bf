package adaptor

import (
	"net/http"
)

// HTTPClient is interface of net/http client
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// HTTPClientFactory is interface HTTPClient constructor
type HTTPClientFactory func() HTTPClient

// NewHTTPClient returns http.Client with default transport. Timeout is not set and it is
// controlled by context of each request.
func NewHTTPClient() HTTPClient {
	return &http.Client{}
}
