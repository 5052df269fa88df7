package catalog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/google/go-github/v81/github"

	gh "logmedic/internal/github"
)

// Source loads the catalog document of one product code. A product with no
// published document returns (nil, nil).
type Source interface {
	Load(ctx context.Context, productCode string) (*Document, error)
}

// GitHubSource reads <Dir>/<code>.json from a repository through the
// contents API.
type GitHubSource struct {
	Client *gh.Client
	Owner  string
	Repo   string
	Ref    string
	Dir    string
}

func (s *GitHubSource) Load(ctx context.Context, productCode string) (*Document, error) {
	if s == nil || s.Client == nil {
		return nil, errors.New("catalog source: github client is nil")
	}
	if !ValidProductCode(productCode) {
		return nil, nil
	}
	p := path.Join(s.Dir, productCode+".json")

	var file *github.RepositoryContent
	resp, err := s.Client.Track(ctx, func() (*github.Response, error) {
		var opts *github.RepositoryContentGetOptions
		if s.Ref != "" {
			opts = &github.RepositoryContentGetOptions{Ref: s.Ref}
		}
		f, _, resp, err := s.Client.Client.Repositories.GetContents(ctx, s.Owner, s.Repo, p, opts)
		file = f
		return resp, err
	})
	if gh.IsNotFound(resp) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get %s/%s:%s: %w", s.Owner, s.Repo, p, err)
	}
	if file == nil {
		return nil, fmt.Errorf("get %s/%s:%s: path is a directory", s.Owner, s.Repo, p)
	}

	content, err := file.GetContent()
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", p, err)
	}
	return ParseDocument([]byte(content))
}

// DirSource reads <Dir>/<code>.json from the local filesystem.
type DirSource struct {
	Dir string
}

func (s DirSource) Load(ctx context.Context, productCode string) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !ValidProductCode(productCode) {
		return nil, nil
	}
	raw, err := os.ReadFile(filepath.Join(s.Dir, productCode+".json"))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return ParseDocument(raw)
}
