package drop

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/Khan/genqlient/graphql"
	"github.com/RobBrazier/audiodrop/cmd/web/utils"
	"github.com/hashicorp/go-retryablehttp"
)

type authTransport struct {
	key     string
	wrapped http.RoundTripper
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.key != "" {
		req.Header.Set("x-api-key", t.key)
	}
	req.Header.Set("User-Agent", fmt.Sprintf("audiodrop/%s (https://github.com/RobBrazier/audiodrop)", utils.Version))
	return t.wrapped.RoundTrip(req)
}

func authClient(key string) *http.Client {
	return &http.Client{
		Transport: &authTransport{
			key:     key,
			wrapped: http.DefaultTransport,
		},
	}
}

// GetHTTPClient returns a retrying client that authenticates every request.
// Only idempotent calls go through it; claims use GetClaimClient.
func GetHTTPClient(key string) *http.Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 3
	retryClient.HTTPClient = authClient(key)
	retryClient.Logger = slog.Default()
	return retryClient.StandardClient()
}

// GetClaimClient never retries: a replayed claim could mint twice.
func GetClaimClient(key string) *http.Client {
	return authClient(key)
}

func GetIndexerClient(url string, httpClient *http.Client) graphql.Client {
	return graphql.NewClient(url, httpClient)
}
