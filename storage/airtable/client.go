// Package airtable is the record store backing identities and campuses.
package airtable

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/sendgrid/rest"

	"github.com/kowsik11/GradeKart-Dev-sub000/core"
)

const serviceName = "airtable"

type (
	Client struct {
		rest    *rest.Client
		apiKey  string
		baseID  string
		baseURL string
	}

	Record struct {
		ID          string                 `json:"id,omitempty"`
		CreatedTime string                 `json:"createdTime,omitempty"`
		Fields      map[string]interface{} `json:"fields"`
	}

	ListResult struct {
		Records []Record `json:"records"`
		Offset  string   `json:"offset,omitempty"`
	}

	RequestOptions struct {
		Method rest.Method // GET when empty
		Query  map[string]string
		Body   interface{}
	}

	apiError struct {
		Error json.RawMessage `json:"error"`
	}

	apiErrorDetail struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	}
)

func NewClient(conf core.AirtableConfig) *Client {
	return &Client{
		rest:    &rest.Client{HTTPClient: &http.Client{Timeout: conf.Timeout}},
		apiKey:  conf.APIKey,
		baseID:  conf.BaseID,
		baseURL: strings.TrimRight(conf.BaseURL, "/"),
	}
}

func (c *Client) checkConfig() error {
	switch {
	case c.apiKey == "":
		return core.NewConfigError("Airtable API key is not configured")
	case c.baseID == "":
		return core.NewConfigError("Airtable base id is not configured")
	}
	return nil
}

// Request calls the table endpoint. Single-record responses are returned as a one-record list.
func (c *Client) Request(ctx context.Context, table string, opts RequestOptions) (ListResult, error) {
	if err := c.checkConfig(); err != nil {
		return ListResult{}, err
	}

	req := rest.Request{
		Method:      opts.Method,
		BaseURL:     fmt.Sprintf("%s/v0/%s/%s", c.baseURL, url.PathEscape(c.baseID), url.PathEscape(table)),
		Headers:     map[string]string{"Authorization": "Bearer " + c.apiKey},
		QueryParams: opts.Query,
	}
	if req.Method == "" {
		req.Method = rest.Get
	}
	if opts.Body != nil {
		body, err := json.Marshal(opts.Body)
		if err != nil {
			return ListResult{}, errors.Wrap(err, "airtable.Request")
		}
		req.Body = body
		req.Headers["Content-Type"] = "application/json"
	}

	resp, err := c.rest.SendWithContext(ctx, req)
	if err != nil {
		return ListResult{}, core.NewRemoteError(serviceName, 0, err.Error())
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return ListResult{}, core.NewRemoteError(serviceName, resp.StatusCode, errorMessage(resp))
	}
	return decodeResult(resp.Body)
}

func decodeResult(body string) (ListResult, error) {
	var payload struct {
		ListResult
		Record
	}
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		return ListResult{}, core.NewRemoteError(serviceName, 0, "malformed response: "+err.Error())
	}
	res := payload.ListResult
	if res.Records == nil && payload.Record.ID != "" {
		res.Records = []Record{payload.Record}
	}
	if res.Records == nil {
		res.Records = []Record{}
	}
	return res, nil
}

func errorMessage(resp *rest.Response) string {
	var ae apiError
	if err := json.Unmarshal([]byte(resp.Body), &ae); err == nil && len(ae.Error) > 0 {
		var detail apiErrorDetail
		if err := json.Unmarshal(ae.Error, &detail); err == nil && (detail.Message != "" || detail.Type != "") {
			if detail.Message == "" {
				return detail.Type
			}
			return detail.Message
		}
		var code string
		if err := json.Unmarshal(ae.Error, &code); err == nil && code != "" {
			return code
		}
	}
	if text := http.StatusText(resp.StatusCode); text != "" {
		return text
	}
	return "unexpected response"
}

// Field helpers

func stringField(fields map[string]interface{}, name string) string {
	switch v := fields[name].(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case []interface{}:
		// linked records and lookups come back as arrays
		if len(v) > 0 {
			if s, ok := v[0].(string); ok {
				return s
			}
		}
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// attachmentURL reads the first attachment url, or a plain url string.
func attachmentURL(fields map[string]interface{}, name string) string {
	switch v := fields[name].(type) {
	case string:
		return v
	case []interface{}:
		if len(v) == 0 {
			return ""
		}
		if att, ok := v[0].(map[string]interface{}); ok {
			if u, ok := att["url"].(string); ok {
				return u
			}
		}
	}
	return ""
}
