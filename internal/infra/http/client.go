package http

import (
	nethttp "net/http"
	"time"
)

// NewClient builds the shared outbound client. The timeout is the
// per-request socket budget; retry budgets live in the adapters.
func NewClient(timeout time.Duration) *nethttp.Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &nethttp.Client{Timeout: timeout}
}
