package rest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scan-io-git/trackersync/pkg/shared/config"
	"github.com/scan-io-git/trackersync/pkg/tracker"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := &config.Config{
		Tracker: config.Tracker{URL: server.URL, Token: "secret"},
		Policy: config.Policy{
			PriorityMap: map[string]int{"Low": 1, "High": 3},
		},
	}
	return New(cfg, nil)
}

func TestClientSearch(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v2/issues/search/", r.URL.Path)
		assert.Equal(t, "Token secret", r.Header.Get("Authorization"))

		var req searchRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "SEC", req.Project)
		require.NotEmpty(t, req.Clauses)
		assert.Equal(t, "type", req.Clauses[0].Condition)

		json.NewEncoder(w).Encode(searchResult{
			Count:   1,
			Results: []tracker.Issue{{Key: "SEC-1", Status: "Open"}},
		})
	}))

	var query tracker.Query
	query.Add(tracker.ConditionType, tracker.Matching, "Bug")
	query.Add(tracker.ConditionLabel, tracker.Matching, "CVE-1")

	issues, err := client.Search("SEC", query)
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, "SEC-1", issues[0].Key)
}

func TestClientCreate(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v2/issues/", r.URL.Path)

		var spec tracker.IssueSpec
		require.NoError(t, json.NewDecoder(r.Body).Decode(&spec))
		assert.Equal(t, "Bug", spec.IssueType)

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(tracker.Issue{Key: "SEC-2", Title: spec.Title})
	}))

	issue, err := client.Create(tracker.IssueSpec{Project: "SEC", IssueType: "Bug", Title: "finding"})
	require.NoError(t, err)
	assert.Equal(t, "SEC-2", issue.Key)
}

func TestClientCreateRejected(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))

	_, err := client.Create(tracker.IssueSpec{Title: "finding"})
	assert.Error(t, err)
}

func TestClientUpdateAndRefresh(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPatch:
			assert.Equal(t, "/api/v2/issues/SEC-3/", r.URL.Path)
			json.NewEncoder(w).Encode(tracker.Issue{Key: "SEC-3", Status: "Closed"})
		case http.MethodGet:
			assert.Equal(t, "comments", r.URL.Query().Get("expand"))
			json.NewEncoder(w).Encode(tracker.Issue{
				Key:      "SEC-3",
				Status:   "Closed",
				Comments: []tracker.Comment{{Body: "done"}},
			})
		default:
			t.Errorf("unexpected method %s", r.Method)
		}
	}))

	issue := &tracker.Issue{Key: "SEC-3", Status: "Open"}
	status := "Closed"
	updated, err := client.Update(issue, tracker.Delta{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, "Closed", updated.Status)

	require.NoError(t, client.Refresh(issue))
	assert.Equal(t, "Closed", issue.Status)
	require.Len(t, issue.Comments, 1)
}

func TestClientAddComment(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v2/issues/SEC-4/comments/", r.URL.Path)
		w.WriteHeader(http.StatusCreated)
	}))

	assert.NoError(t, client.AddComment(&tracker.Issue{Key: "SEC-4"}, "This issue has been fixed."))
}

func TestClientPriorityName(t *testing.T) {
	client := newTestClient(t, http.NewServeMux())

	name, err := client.PriorityName(3)
	require.NoError(t, err)
	assert.Equal(t, "High", name)

	_, err = client.PriorityName(9)
	assert.Error(t, err)
}

func TestNormalizeContent(t *testing.T) {
	testCases := []struct {
		name string
		a    string
		b    string
		same bool
	}{
		{"markdown decoration ignored", "**Severity**: High", "Severity: High", true},
		{"whitespace collapsed", "a  b\n\nc", "a b c", true},
		{"case folded", "Fixed In Release", "fixed in release", true},
		{"different text differs", "open redirect", "sql injection", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.same, normalizeContent(tc.a) == normalizeContent(tc.b))
		})
	}
}
