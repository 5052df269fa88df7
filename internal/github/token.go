package github

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"
	"time"
)

type AuthTokenSource string

const (
	AuthTokenSourceNone      AuthTokenSource = ""
	AuthTokenSourceExplicit  AuthTokenSource = "explicit"
	AuthTokenSourceEnvApp    AuthTokenSource = "env:LOGMEDIC_GITHUB_TOKEN"
	AuthTokenSourceEnv       AuthTokenSource = "env:GITHUB_TOKEN"
	AuthTokenSourceGitHubCLI AuthTokenSource = "gh"
)

var tokenEnvVars = []struct {
	name   string
	source AuthTokenSource
}{
	{name: "LOGMEDIC_GITHUB_TOKEN", source: AuthTokenSourceEnvApp},
	{name: "GITHUB_TOKEN", source: AuthTokenSourceEnv},
}

// ResolveAuthToken finds a GitHub access token, in order: provided,
// LOGMEDIC_GITHUB_TOKEN, GITHUB_TOKEN, `gh auth token`.
//
// An empty token is not an error; the catalog and release endpoints work
// unauthenticated under a lower rate limit.
func ResolveAuthToken(ctx context.Context, provided string) (string, AuthTokenSource, error) {
	if tok := strings.TrimSpace(provided); tok != "" {
		return tok, AuthTokenSourceExplicit, nil
	}
	for _, ev := range tokenEnvVars {
		if tok := strings.TrimSpace(os.Getenv(ev.name)); tok != "" {
			return tok, ev.source, nil
		}
	}

	tok, ok, err := tokenFromGitHubCLI(ctx)
	if err != nil {
		return "", AuthTokenSourceNone, err
	}
	if ok {
		return tok, AuthTokenSourceGitHubCLI, nil
	}
	return "", AuthTokenSourceNone, nil
}

func tokenFromGitHubCLI(ctx context.Context) (string, bool, error) {
	if _, err := exec.LookPath("gh"); err != nil {
		return "", false, nil
	}

	cmdCtx := ctx
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		cmdCtx, cancel = context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
	}

	cmd := exec.CommandContext(cmdCtx, "gh", "auth", "token", "-h", "github.com")
	env := make([]string, 0, len(os.Environ())+1)
	for _, entry := range os.Environ() {
		if !strings.HasPrefix(entry, "GH_PAGER=") {
			env = append(env, entry)
		}
	}
	cmd.Env = append(env, "GH_PAGER=cat")

	out, err := cmd.Output()
	if err != nil {
		if cmdCtx.Err() != nil {
			return "", false, cmdCtx.Err()
		}
		// gh present but logged out.
		return "", false, nil
	}

	tok := strings.TrimSpace(string(out))
	if tok == "" {
		return "", false, nil
	}
	if strings.ContainsAny(tok, " \t\n\r") {
		return "", false, errors.New("invalid token returned by gh: contains whitespace")
	}
	return tok, true, nil
}
