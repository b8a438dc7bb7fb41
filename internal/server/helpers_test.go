package server

import (
	"net/http"

	internalLoader "github.com/goliatone/go-leaderboard/internal/loader"
	"github.com/goliatone/go-leaderboard/pkg/source"
)

// newLoader returns a loader whose transport the test can close, so goleak
// does not see idle keep-alive goroutines.
func newLoader(transport *http.Transport) source.Loader {
	return internalLoader.New(source.NewLoaderOptions(
		source.WithHTTPClient(&http.Client{Transport: transport}),
	))
}
