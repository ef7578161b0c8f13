package temrin

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/bigredeye/temrin/api"
	"github.com/bigredeye/temrin/internal/analysis"
	"github.com/bigredeye/temrin/internal/models"
	"github.com/bigredeye/temrin/internal/stats"
)

type Client struct {
	client *resty.Client
}

func NewClient(endpoint string) (*Client, error) {
	client := resty.New().
		SetBaseURL(endpoint).
		SetTimeout(time.Second * 10).
		SetRetryCount(3).
		AddRetryCondition(retryIdempotent)

	return &Client{client}, nil
}

// retryIdempotent never replays POST requests.
func retryIdempotent(resp *resty.Response, err error) bool {
	if resp != nil && resp.Request != nil && resp.Request.Method == http.MethodPost {
		return false
	}
	if err != nil {
		return true
	}
	return resp != nil && resp.StatusCode() >= http.StatusInternalServerError
}

func failed(status *api.Status, what string, code int) error {
	if status.Error != "" {
		return fmt.Errorf("failed to %s: %s", what, status.Error)
	}
	return fmt.Errorf("failed to %s: http status %d", what, code)
}

func (c *Client) ListStudents(query string) ([]models.Student, error) {
	res := &api.ListStudentsResponse{}
	resp, err := c.client.R().
		SetResult(res).
		SetError(res).
		SetQueryParam("q", query).
		Get("/api/students")
	if err != nil {
		return nil, err
	}

	if !res.Ok {
		return nil, failed(&res.Status, "list students", resp.StatusCode())
	}

	return res.Students, nil
}

func (c *Client) GetStudent(id string) (*models.Student, error) {
	res := &api.StudentResponse{}
	resp, err := c.client.R().
		SetResult(res).
		SetError(res).
		SetPathParam("id", id).
		Get("/api/students/{id}")
	if err != nil {
		return nil, err
	}

	if !res.Ok {
		return nil, failed(&res.Status, "get student", resp.StatusCode())
	}

	return res.Student, nil
}

func (c *Client) AddStudent(form models.StudentForm) (*models.Student, error) {
	res := &api.StudentResponse{}
	resp, err := c.client.R().
		SetResult(res).
		SetError(res).
		SetBody(api.StudentRequest(form)).
		Post("/api/students")
	if err != nil {
		return nil, err
	}

	if !res.Ok {
		return nil, failed(&res.Status, "add student", resp.StatusCode())
	}

	return res.Student, nil
}

func (c *Client) UpdateStudent(id string, form models.StudentForm) (*models.Student, error) {
	res := &api.StudentResponse{}
	resp, err := c.client.R().
		SetResult(res).
		SetError(res).
		SetPathParam("id", id).
		SetBody(api.StudentRequest(form)).
		Put("/api/students/{id}")
	if err != nil {
		return nil, err
	}

	if !res.Ok {
		return nil, failed(&res.Status, "update student", resp.StatusCode())
	}

	return res.Student, nil
}

func (c *Client) DeleteStudent(id string) error {
	res := &api.DeleteStudentResponse{}
	resp, err := c.client.R().
		SetResult(res).
		SetError(res).
		SetPathParam("id", id).
		Delete("/api/students/{id}")
	if err != nil {
		return err
	}

	if !res.Ok {
		return failed(&res.Status, "delete student", resp.StatusCode())
	}

	return nil
}

// LoadStats returns nil stats for an empty class.
func (c *Client) LoadStats() (*stats.ClassStats, error) {
	res := &api.StatsResponse{}
	resp, err := c.client.R().
		SetResult(res).
		SetError(res).
		Get("/api/stats")
	if err != nil {
		return nil, err
	}

	if !res.Ok {
		return nil, failed(&res.Status, "load stats", resp.StatusCode())
	}

	return res.Stats, nil
}

// Analyze runs an analysis; fresh bypasses the server's cached result.
func (c *Client) Analyze(fresh bool) (*analysis.Analysis, error) {
	res := &api.AnalysisResponse{}
	resp, err := c.client.R().
		SetResult(res).
		SetError(res).
		SetQueryParam("fresh", strconv.FormatBool(fresh)).
		Post("/api/analysis")
	if err != nil {
		return nil, err
	}

	if !res.Ok {
		return nil, failed(&res.Status, "analyze class", resp.StatusCode())
	}

	return res.Analysis, nil
}
