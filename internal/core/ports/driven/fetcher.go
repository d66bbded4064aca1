package driven

import "context"

// RepoFetcher materialises a remote repository as a local working copy
// in an ephemeral directory.
type RepoFetcher interface {
	// Fetch clones the repository at url and returns the checkout
	// directory plus a cleanup function. Cleanup is always safe to call,
	// including after a failed fetch (it is a no-op then). Network, auth
	// and not-found problems wrap domain.ErrFetchFailed.
	Fetch(ctx context.Context, url string) (dir string, cleanup func(), err error)
}
