package reconcile

import (
	"os"
	"strings"

	"github.com/gitsight/go-vcsurl"
)

// ApplyEnvironmentFallbacks fills options left empty by flags from
// environment variables, including the ones CI systems export.
func ApplyEnvironmentFallbacks(o *RunOptions) {
	if o.Repository == "" {
		o.Repository = os.Getenv("TRACKERSYNC_REPOSITORY")
	}
	if o.Repository == "" {
		o.Repository = os.Getenv("GITHUB_REPOSITORY")
	}
	if o.Language == "" {
		o.Language = os.Getenv("TRACKERSYNC_LANGUAGE")
	}
	if o.ContextLabel == "" {
		o.ContextLabel = defaultContextLabel
	}
}

// normalizeRepository reduces a clone URL to the short namespace/name form
// used as a scoping label. Identifiers that are not URLs pass through.
func normalizeRepository(repository string) (string, error) {
	if !strings.Contains(repository, "://") && !strings.Contains(repository, "@") {
		return strings.TrimSuffix(repository, ".git"), nil
	}
	info, err := vcsurl.Parse(repository)
	if err != nil {
		return "", err
	}
	return info.FullName, nil
}
