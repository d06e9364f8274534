package docs

import (
	"context"

	"golang.org/x/sync/singleflight"
)

// SharedFetcher coalesces concurrent fetches of the same URL into one
// request. Nothing is kept once the request completes.
//
// The shared request does not inherit a caller's cancellation; each caller
// stops waiting when its own context ends. The fetcher's transport timeout
// bounds the request itself.
type SharedFetcher struct {
	Fetcher Fetcher
	group   singleflight.Group
}

func (s *SharedFetcher) Fetch(ctx context.Context, url string) (string, error) {
	ch := s.group.DoChan(url, func() (interface{}, error) {
		return s.Fetcher.Fetch(context.WithoutCancel(ctx), url)
	})

	select {
	case <-ctx.Done():
		return "", &FetchError{URL: url, Err: ctx.Err()}
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}
