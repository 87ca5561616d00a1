package config

// Environment variables consulted as fallbacks for policy fields that are
// absent from the configuration file.
const (
	ProjectEnv     = "TRACKERSYNC_PROJECT"
	IssueTypeEnv   = "TRACKERSYNC_ISSUETYPE"
	AssigneeEnv    = "TRACKERSYNC_ASSIGNEE"
	SubscribersEnv = "TRACKERSYNC_SUBSCRIBERS"
	TrackerURLEnv  = "TRACKERSYNC_TRACKER_URL"
	TokenEnv       = "TRACKERSYNC_TRACKER_TOKEN"
)
