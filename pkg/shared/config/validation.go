package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// ValidateConfig checks the loaded configuration, applies environment
// fallbacks and defaults, and rejects unsatisfiable policy combinations.
// Validation failures are fatal: reconciliation never starts on a bad config.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("configuration object is nil")
	}
	if err := ValidateHTTPConfig(&cfg.HTTPClient); err != nil {
		return fmt.Errorf("http_client directive is invalid: %w", err)
	}
	if err := ValidateTrackerConfig(&cfg.Tracker); err != nil {
		return fmt.Errorf("tracker directive is invalid: %w", err)
	}
	if err := ValidatePolicy(&cfg.Policy); err != nil {
		return fmt.Errorf("policy directive is invalid: %w", err)
	}
	return nil
}

// ValidateTrackerConfig checks the tracker endpoint settings.
func ValidateTrackerConfig(trackerConfig *Tracker) error {
	if trackerConfig == nil {
		return fmt.Errorf("tracker configuration is nil")
	}
	if trackerConfig.URL == "" {
		trackerConfig.URL = os.Getenv(TrackerURLEnv)
	}
	if trackerConfig.Token == "" {
		trackerConfig.Token = os.Getenv(TokenEnv)
	}
	if trackerConfig.URL == "" {
		return fmt.Errorf("url is mandatory and can't be empty")
	}
	if !strings.Contains(trackerConfig.URL, "://") {
		trackerConfig.URL = "https://" + trackerConfig.URL
	}
	trackerConfig.URL = strings.TrimRight(trackerConfig.URL, "/")
	return nil
}

// ValidatePolicy applies environment fallbacks and defaults, then enforces
// the policy invariants.
func ValidatePolicy(p *Policy) error {
	if p == nil {
		return fmt.Errorf("policy configuration is nil")
	}

	if p.Project == "" {
		p.Project = os.Getenv(ProjectEnv)
	}
	if p.Project == "" {
		return fmt.Errorf("project is mandatory and can't be empty")
	}
	if p.IssueType == "" {
		p.IssueType = os.Getenv(IssueTypeEnv)
	}
	if p.IssueType == "" {
		return fmt.Errorf("issue_type is mandatory and can't be empty")
	}
	if len(p.PriorityMap) == 0 {
		return fmt.Errorf("priority_map is mandatory and can't be empty")
	}

	if p.Users.Assignee == "" {
		p.Users.Assignee = os.Getenv(AssigneeEnv)
	}
	if len(p.Users.Subscribers) == 0 {
		if subs := os.Getenv(SubscribersEnv); subs != "" {
			for _, sub := range strings.Split(subs, ",") {
				if sub = strings.TrimSpace(sub); sub != "" {
					p.Users.Subscribers = append(p.Users.Subscribers, sub)
				}
			}
		}
	}

	if p.CustomFields == nil {
		p.CustomFields = map[string]interface{}{}
	}
	if p.Transitions == nil {
		p.Transitions = map[string][]string{}
	}

	if p.ToOpen == nil {
		p.ToOpen = defaultUpdateAction()
	}
	if p.ToClose == nil {
		p.ToClose = defaultUpdateAction()
	}
	if p.ToOpen.CommentInterval < 1 {
		p.ToOpen.CommentInterval = DefaultCommentInterval
	}
	if p.ToClose.CommentInterval < 1 {
		p.ToClose.CommentInterval = DefaultCommentInterval
	}

	// Without a closed-status list, closing must still be achievable through
	// a transition or a comment. Same for the reopen side.
	if len(p.ClosedStatuses) == 0 && (!p.ToClose.Commentable || !p.ToClose.StatusTransferable) {
		return fmt.Errorf("expecting at least one closed status when to_close cannot both transition and comment")
	}
	if len(p.ResolvedStatuses) == 0 && (!p.ToOpen.Commentable || !p.ToOpen.StatusTransferable) {
		return fmt.Errorf("expecting at least one resolved status when to_open cannot both transition and comment")
	}
	if len(p.OpenStatuses) == 0 && (!p.ToOpen.Commentable || !p.ToOpen.StatusTransferable) {
		return fmt.Errorf("expecting at least one open status when to_open cannot both transition and comment")
	}

	if err := validateStatusCategories(p); err != nil {
		return err
	}

	return nil
}

// validateStatusCategories rejects a status listed in more than one of the
// open/resolved/closed categories; overlapping membership makes the
// reopen/close decisions ambiguous.
func validateStatusCategories(p *Policy) error {
	categories := map[string][]string{
		"open_statuses":     p.OpenStatuses,
		"resolved_statuses": p.ResolvedStatuses,
		"closed_statuses":   p.ClosedStatuses,
	}
	seen := map[string]string{}
	for _, name := range []string{"open_statuses", "resolved_statuses", "closed_statuses"} {
		for _, status := range categories[name] {
			key := strings.ToLower(status)
			if prev, ok := seen[key]; ok && prev != name {
				return fmt.Errorf("status %q appears in both %s and %s", status, prev, name)
			}
			seen[key] = name
		}
	}
	return nil
}

// ValidateHTTPConfig checks if the HTTP configurations have valid values.
func ValidateHTTPConfig(httpConfig *HTTPClient) error {
	if httpConfig == nil {
		return fmt.Errorf("HTTP configuration is nil")
	}
	if httpConfig.RetryCount < 0 || httpConfig.RetryCount > 20 {
		return fmt.Errorf("retry_count must be between 0 and 20: %d", httpConfig.RetryCount)
	}

	durations := map[string]time.Duration{
		"retry_max_wait_time": httpConfig.RetryMaxWaitTime,
		"retry_wait_time":     httpConfig.RetryWaitTime,
		"timeout":             httpConfig.Timeout,
	}
	for name, duration := range durations {
		if err := validateDuration(duration, name, 100*time.Second); err != nil {
			return err
		}
	}

	return validateProxy(&httpConfig.Proxy)
}

// validateDuration checks that a time.Duration is valid and within a specified maximum duration.
func validateDuration(d time.Duration, name string, max time.Duration) error {
	if d < 0 {
		return fmt.Errorf("invalid duration for %q: %v cannot be negative", name, d)
	}
	if d > max {
		return fmt.Errorf("%q duration is too long: %v exceeds maximum of %v", name, d, max)
	}
	return nil
}

// validateProxy checks if the given Proxy settings are valid.
func validateProxy(proxy *Proxy) error {
	if proxy == nil {
		return fmt.Errorf("proxy configuration is nil")
	}

	// If host or port is not set, skip further validation
	if proxy.Host == "" || proxy.Port == 0 {
		return nil
	}

	if !strings.Contains(proxy.Host, "://") {
		proxy.Host = "http://" + proxy.Host
	}
	proxy.Host = strings.TrimRight(proxy.Host, "/")

	if proxy.Port < 1 || proxy.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", proxy.Port)
	}

	return nil
}
