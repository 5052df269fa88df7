// Package update looks up how far the analysed build lags behind the latest
// published release.
package update

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/go-github/v81/github"
	"golang.org/x/sync/singleflight"

	"logmedic/internal/fields"
	gh "logmedic/internal/github"
)

// Info carries the build timestamps the staleness rule compares. Either may
// be nil when it could not be determined.
type Info struct {
	CurrentBuild *time.Time `json:"current_build,omitempty"`
	LatestBuild  *time.Time `json:"latest_build,omitempty"`
}

// Delta returns how much older the current build is than the latest one.
func (i *Info) Delta() (time.Duration, bool) {
	if i == nil || i.CurrentBuild == nil || i.LatestBuild == nil {
		return 0, false
	}
	return i.LatestBuild.Sub(*i.CurrentBuild), true
}

type Checker interface {
	// CheckForUpdate returns nil when no update is known.
	CheckForUpdate(ctx context.Context, v fields.View) (*Info, error)
}

// GitHubChecker dates the build by its commit and compares it with the
// latest release of Owner/Repo. The latest release is looked up once per
// checker; failed lookups are retried by the next caller.
type GitHubChecker struct {
	Client *gh.Client
	Owner  string
	Repo   string

	flight singleflight.Group
	mu     sync.Mutex
	latest *time.Time
	cached bool
}

// latestRelease returns the publish time of the latest release, or nil when
// it has none.
func (c *GitHubChecker) latestRelease(ctx context.Context) (*time.Time, error) {
	c.mu.Lock()
	if c.cached {
		latest := c.latest
		c.mu.Unlock()
		return latest, nil
	}
	c.mu.Unlock()

	v, err, _ := c.flight.Do("latest", func() (any, error) {
		var release *github.RepositoryRelease
		_, err := c.Client.Track(ctx, func() (*github.Response, error) {
			r, resp, err := c.Client.Client.Repositories.GetLatestRelease(ctx, c.Owner, c.Repo)
			release = r
			return resp, err
		})
		if err != nil {
			return nil, fmt.Errorf("latest release of %s/%s: %w", c.Owner, c.Repo, err)
		}

		var latest *time.Time
		if ts := release.GetPublishedAt(); !ts.IsZero() {
			t := ts.Time
			latest = &t
		}
		c.mu.Lock()
		c.latest, c.cached = latest, true
		c.mu.Unlock()
		return latest, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*time.Time), nil
}

func (c *GitHubChecker) CheckForUpdate(ctx context.Context, v fields.View) (*Info, error) {
	if c == nil || c.Client == nil {
		return nil, errors.New("update checker: github client is nil")
	}

	latest, err := c.latestRelease(ctx)
	if err != nil {
		return nil, err
	}
	info := &Info{}
	if latest != nil {
		t := *latest
		info.LatestBuild = &t
	}

	if sha := strings.TrimSpace(v.String(fields.BuildCommit)); sha != "" {
		var commit *github.RepositoryCommit
		resp, err := c.Client.Track(ctx, func() (*github.Response, error) {
			rc, resp, err := c.Client.Client.Repositories.GetCommit(ctx, c.Owner, c.Repo, sha, nil)
			commit = rc
			return resp, err
		})
		switch {
		case gh.IsNotFound(resp):
			// Local or fork builds have commits upstream never saw.
		case err != nil:
			return nil, fmt.Errorf("commit %s of %s/%s: %w", sha, c.Owner, c.Repo, err)
		default:
			if date := commit.GetCommit().GetCommitter().GetDate(); !date.IsZero() {
				current := date.Time
				info.CurrentBuild = &current
			}
		}
	}

	if d, ok := info.Delta(); ok && d <= 0 {
		return nil, nil
	}
	return info, nil
}
