package catalogsvc

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
	endpoint = "/subjects"

	ErrUnexpectedStatus = errors.New("unexpected status from subject catalog")
)

// subject is the catalog's representation of one teaching demand.
type subject struct {
	SubjectCode string      `json:"subject_code"`
	SubjectName string      `json:"subject_name"`
	PeriodCount batch.Input `json:"period_count"`
	Headcount   batch.Input `json:"headcount"`
	ClassSize   batch.Input `json:"class_size"`
	Major       string      `json:"major"`
	ClassYear   string      `json:"class_year"`
	ProgramType string      `json:"program_type"`
}

// Client reads teaching demands from the subject catalog REST API.
type Client struct {
	baseURL string
	apiKey  string
	rest    *rest.Client
}

var _ batch.SubjectSource = (*Client)(nil)

func NewClient(conf core.RemoteConfig) *Client {
	return &Client{
		baseURL: strings.TrimRight(conf.BaseURL, "/"),
		apiKey:  conf.APIKey,
		rest:    &rest.Client{HTTPClient: &http.Client{Timeout: conf.Timeout}},
	}
}

// Subjects lists the rows of a selection in catalog order.
func (c *Client) Subjects(ctx context.Context, sel batch.Selection) ([]batch.Row, error) {
	params := map[string]string{
		"semester":      sel.Semester,
		"academic_year": sel.AcademicYear,
		"program_type":  sel.ProgramType,
	}
	if sel.MajorGroup != "" {
		params["major_group"] = sel.MajorGroup
	}

	headers := map[string]string{"Accept": "application/json"}
	if c.apiKey != "" {
		headers["Authorization"] = "Bearer " + c.apiKey
	}

	res, err := c.rest.SendWithContext(ctx, rest.Request{
		Method:      rest.Get,
		BaseURL:     c.baseURL + endpoint,
		Headers:     headers,
		QueryParams: params,
	})
	if err != nil {
		return nil, errors.Wrap(err, "requesting subjects")
	}
	if res.StatusCode != http.StatusOK {
		return nil, errors.Wrapf(ErrUnexpectedStatus, "status: %d - body: %s", res.StatusCode, res.Body)
	}

	var subjects []subject
	if err = json.Unmarshal([]byte(res.Body), &subjects); err != nil {
		return nil, errors.Wrap(err, "decoding subjects")
	}

	rows := make([]batch.Row, 0, len(subjects))
	for _, s := range subjects {
		programType := s.ProgramType
		if programType == "" {
			programType = sel.ProgramType
		}
		rows = append(rows, batch.Row{
			SubjectCode: s.SubjectCode,
			SubjectName: s.SubjectName,
			PeriodCount: s.PeriodCount.Int(),
			Headcount:   s.Headcount.Int(),
			ClassSize:   s.ClassSize.Int(),
			Major:       s.Major,
			ClassYear:   s.ClassYear,
			ProgramType: programType,
		})
	}
	return rows, nil
}
