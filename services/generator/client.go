package generatorsvc

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"github.com/sendgrid/rest"

	"github.com/xuandat7/tkb-ptit-react-sub000/core"
	"github.com/xuandat7/tkb-ptit-react-sub000/core/batch"
)

var (
	endpoint = "/generate"

	// NoResultNote is reported for items the generation service did not answer.
	NoResultNote = "no result returned"

	ErrUnexpectedStatus = errors.New("unexpected status from generation service")
)

type (
	generateRequest struct {
		Items []batch.GenerationItem `json:"items"`
	}

	generateResponse struct {
		Results []itemResult `json:"results"`
	}

	itemResult struct {
		Index    int                      `json:"index"`
		Sessions []batch.ScheduledSession `json:"sessions"`
		Note     string                   `json:"note"`
	}
)

// Client talks to the remote timetable generation service.
type Client struct {
	baseURL string
	apiKey  string
	rest    *rest.Client
}

var _ batch.Generator = (*Client)(nil)

func NewClient(conf core.RemoteConfig) *Client {
	return &Client{
		baseURL: strings.TrimRight(conf.BaseURL, "/"),
		apiKey:  conf.APIKey,
		rest:    &rest.Client{HTTPClient: &http.Client{Timeout: conf.Timeout}},
	}
}

// Generate submits the items and pairs every item with its result, in item order.
// Failures of single items come back as notes; only transport and protocol
// failures are returned as errors.
func (c *Client) Generate(ctx context.Context, items []batch.GenerationItem) ([]batch.GenerationResult, error) {
	body, err := json.Marshal(generateRequest{Items: items})
	if err != nil {
		return nil, errors.Wrap(err, "encoding generation request")
	}

	req := rest.Request{
		Method:  rest.Post,
		BaseURL: c.baseURL + endpoint,
		Headers: c.headers(),
		Body:    body,
	}
	res, err := c.rest.SendWithContext(ctx, req)
	if err != nil {
		return nil, errors.Wrap(err, "sending generation request")
	}
	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		return nil, errors.Wrapf(ErrUnexpectedStatus, "status: %d - body: %s", res.StatusCode, res.Body)
	}

	var resp generateResponse
	if err = json.Unmarshal([]byte(res.Body), &resp); err != nil {
		return nil, errors.Wrap(err, "decoding generation response")
	}

	results := make([]batch.GenerationResult, len(items))
	for i, item := range items {
		results[i] = batch.GenerationResult{Item: item, Note: NoResultNote}
	}
	for _, r := range resp.Results {
		if r.Index < 0 || r.Index >= len(items) {
			continue
		}
		results[r.Index].Sessions = r.Sessions
		results[r.Index].Note = r.Note
	}
	return results, nil
}

func (c *Client) headers() map[string]string {
	h := map[string]string{
		"Accept":       "application/json",
		"Content-Type": "application/json",
	}
	if c.apiKey != "" {
		h["Authorization"] = "Bearer " + c.apiKey
	}
	return h
}
