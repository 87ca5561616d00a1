// Package rest is the HTTP implementation of the tracker collaborator.
// Transport policy (auth, retries, timeouts, proxy) lives here; the
// reconciliation core never retries on its own.
package rest

import (
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-hclog"

	"github.com/scan-io-git/trackersync/pkg/shared/config"
	"github.com/scan-io-git/trackersync/pkg/shared/httpclient"
	"github.com/scan-io-git/trackersync/pkg/tracker"
)

type Client struct {
	httpc         *resty.Client
	priorityNames map[int]string
}

// New builds a tracker client from the process configuration. The policy's
// priority map provides the rank-to-name mapping served by PriorityName.
func New(cfg *config.Config, logger hclog.Logger) *Client {
	httpc := httpclient.InitializeRestyClient(logger, cfg)
	httpc.SetBaseURL(cfg.Tracker.URL)
	if cfg.Tracker.Token != "" {
		httpc.SetHeader("Authorization", fmt.Sprintf("Token %s", cfg.Tracker.Token))
	}

	priorityNames := make(map[int]string, len(cfg.Policy.PriorityMap))
	for name, rank := range cfg.Policy.PriorityMap {
		priorityNames[rank] = name
	}

	return &Client{
		httpc:         httpc,
		priorityNames: priorityNames,
	}
}

type searchClause struct {
	Condition string   `json:"condition"`
	Operator  string   `json:"operator"`
	Values    []string `json:"values"`
}

type searchRequest struct {
	Project string         `json:"project"`
	Clauses []searchClause `json:"clauses"`
}

type searchResult struct {
	Count   int             `json:"count"`
	Results []tracker.Issue `json:"results"`
}

func (c *Client) Search(project string, query tracker.Query) ([]tracker.Issue, error) {
	req := searchRequest{Project: project}
	for _, clause := range query.Clauses {
		req.Clauses = append(req.Clauses, searchClause{
			Condition: string(clause.Condition),
			Operator:  string(clause.Operator),
			Values:    clause.Values,
		})
	}

	var r searchResult
	resp, err := c.httpc.R().
		SetBody(req).
		SetResult(&r).
		Post("/api/v2/issues/search/")
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("%d on searching issues in project '%s'", resp.StatusCode(), project)
	}
	return r.Results, nil
}

func (c *Client) Create(spec tracker.IssueSpec) (*tracker.Issue, error) {
	var created tracker.Issue
	resp, err := c.httpc.R().
		SetBody(spec).
		SetResult(&created).
		Post("/api/v2/issues/")
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() != http.StatusCreated {
		return nil, fmt.Errorf("%d on creating issue '%s'", resp.StatusCode(), spec.Title)
	}
	return &created, nil
}

func (c *Client) Update(issue *tracker.Issue, delta tracker.Delta) (*tracker.Issue, error) {
	var updated tracker.Issue
	resp, err := c.httpc.R().
		SetBody(delta).
		SetResult(&updated).
		Patch(fmt.Sprintf("/api/v2/issues/%s/", issue.Key))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("%d on updating issue '%s'", resp.StatusCode(), issue.Key)
	}
	return &updated, nil
}

func (c *Client) AddComment(issue *tracker.Issue, body string) error {
	resp, err := c.httpc.R().
		SetBody(map[string]string{"body": body}).
		Post(fmt.Sprintf("/api/v2/issues/%s/comments/", issue.Key))
	if err != nil {
		return err
	}
	if resp.StatusCode() != http.StatusCreated {
		return fmt.Errorf("%d on commenting issue '%s'", resp.StatusCode(), issue.Key)
	}
	return nil
}

func (c *Client) Refresh(issue *tracker.Issue) error {
	var fresh tracker.Issue
	resp, err := c.httpc.R().
		SetQueryParam("expand", "comments").
		SetResult(&fresh).
		Get(fmt.Sprintf("/api/v2/issues/%s/", issue.Key))
	if err != nil {
		return err
	}
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("%d on refreshing issue '%s'", resp.StatusCode(), issue.Key)
	}
	*issue = fresh
	return nil
}

func (c *Client) PriorityName(rank int) (string, error) {
	name, ok := c.priorityNames[rank]
	if !ok {
		return "", fmt.Errorf("no priority name configured for rank %d", rank)
	}
	return name, nil
}

// ContentsMatch compares two bodies after stripping markdown decoration, so
// tracker-side rendering differences do not count as content changes.
func (c *Client) ContentsMatch(a, b string) (bool, error) {
	return normalizeContent(a) == normalizeContent(b), nil
}
