// Package git fetches remote repositories with a shallow git clone
// into an ephemeral directory.
package git

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"

	"github.com/ragweave/ragweave/internal/core/domain"
	"github.com/ragweave/ragweave/internal/core/ports/driven"
	"github.com/ragweave/ragweave/internal/logger"
)

// Ensure Fetcher implements the interface.
var _ driven.RepoFetcher = (*Fetcher)(nil)

var (
	// validGitURLPattern matches https, ssh and file clone URLs.
	validGitURLPattern = regexp.MustCompile(`^(https?://|git@|ssh://|file://)[\w.\-@:/%]+$`)

	// dangerousCharsPattern matches characters usable for command injection.
	dangerousCharsPattern = regexp.MustCompile(`[;&|$` + "`" + `\n\r\\]`)
)

// Fetcher clones repositories via the git binary.
type Fetcher struct{}

// New creates a new git fetcher.
func New() *Fetcher {
	return &Fetcher{}
}

// ValidateURL rejects URLs git clone should never see.
func ValidateURL(url string) error {
	if url == "" {
		return fmt.Errorf("%w: empty repository URL", domain.ErrInvalidInput)
	}
	if dangerousCharsPattern.MatchString(url) {
		return fmt.Errorf("%w: repository URL contains shell metacharacters", domain.ErrInvalidInput)
	}
	if !validGitURLPattern.MatchString(url) {
		return fmt.Errorf("%w: malformed repository URL %q", domain.ErrInvalidInput, url)
	}
	return nil
}

// Fetch shallow-clones the repository at url into a fresh temporary
// directory. The returned cleanup removes the checkout and is safe to
// call regardless of the fetch outcome.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, func(), error) {
	noop := func() {}

	if err := ValidateURL(url); err != nil {
		return "", noop, err
	}

	tmpDir, err := os.MkdirTemp("", "ragweave-repo-*")
	if err != nil {
		return "", noop, fmt.Errorf("creating temp dir: %w", err)
	}
	cleanup := func() {
		if err := os.RemoveAll(tmpDir); err != nil {
			logger.Warn("Failed to remove checkout %s: %v", tmpDir, err)
		}
	}

	// Only the latest commit matters for ingestion.
	// #nosec G204 -- url is validated above
	cmd := exec.CommandContext(ctx, "git", "clone", "--depth", "1", "--quiet", url, tmpDir)
	// Fail fast instead of hanging on a credential prompt.
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	logger.Debug("Cloning %s", sanitizeURL(url))
	if err := cmd.Run(); err != nil {
		cleanup()
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return "", noop, fmt.Errorf("%w: git clone: %s", domain.ErrFetchFailed, msg)
	}

	return tmpDir, cleanup, nil
}

// sanitizeURL strips credentials and query strings before logging.
func sanitizeURL(url string) string {
	if i := strings.Index(url, "?"); i >= 0 {
		url = url[:i]
	}
	if at := strings.LastIndex(url, "@"); at >= 0 {
		if scheme := strings.Index(url, "://"); scheme >= 0 && at > scheme {
			return url[:scheme+3] + "***" + url[at:]
		}
	}
	return url
}
