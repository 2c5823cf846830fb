package customHttpClient

import (
	"net/http"
	"sync"

	"github.com/akolanti/docchat/internal/config"
)

var (
	once   sync.Once
	client *http.Client
)

var customTransport = &http.Transport{
	MaxIdleConns:        config.MaxIdleConns,
	MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
	IdleConnTimeout:     config.IdleConnTimeout,
}

// GetPooledClient returns the shared keep-alive client used for model API
// and page-fetch calls. No client-level timeout: generation calls are bounded
// by their request contexts and may legitimately stream for minutes.
func GetPooledClient() *http.Client {
	once.Do(func() {
		client = &http.Client{Transport: customTransport}
	})
	return client
}
