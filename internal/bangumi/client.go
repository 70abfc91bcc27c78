package bangumi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Service is the bgm.tv API surface used by the UI.
// It is implemented by *Client and can be faked in tests.
type Service interface {
	Collection(ctx context.Context) ([]CollectionEntry, error)
	CollectionDetail(ctx context.Context, subjectID int) (*CollectionDetail, error)
	UpdateCollectionDetail(ctx context.Context, subjectID int, status CollectionStatus, detail *CollectionDetail) (CollectionDetail, error)
	Subject(ctx context.Context, subjectID int) (Subject, error)
	UpdateProgress(ctx context.Context, entry CollectionEntry, ep, vol *int) error
	Search(ctx context.Context, query string, count, skip int) (SearchResult, error)
}

// Ensure Client implements Service at compile time.
var _ Service = (*Client)(nil)

// APIError reports a failed API call.
type APIError struct {
	Endpoint string
	Status   int
	Message  string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api %s returned status %d: %s", e.Endpoint, e.Status, e.Message)
	}
	return fmt.Sprintf("api %s returned status %d", e.Endpoint, e.Status)
}

// IsNotFound reports whether err is an APIError for a missing resource.
func IsNotFound(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Status == http.StatusNotFound || apiErr.Status == http.StatusBadRequest
}

// Client talks to the bgm.tv HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	token     string
	userID    int
}

const (
	DefaultBaseURL   = "https://api.bgm.tv"
	defaultUserAgent = "bgmtty/0.2"
	requestTimeout   = 10 * time.Second
	maxBodyBytes     = 8 << 20
)

// ClientOptions configure a Client.
type ClientOptions struct {
	BaseURL     string // empty uses DefaultBaseURL
	AccessToken string
	UserID      int
	HTTPClient  *http.Client
}

// NewClient builds a Client for the given account.
func NewClient(opts ClientOptions) (*Client, error) {
	base, err := parseBaseURL(opts.BaseURL)
	if err != nil {
		return nil, err
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: requestTimeout}
	}
	return &Client{
		baseURL:   base,
		http:      httpClient,
		userAgent: defaultUserAgent,
		token:     strings.TrimSpace(opts.AccessToken),
		userID:    opts.UserID,
	}, nil
}

// Collection retrieves the subjects the user is currently watching.
func (c *Client) Collection(ctx context.Context) ([]CollectionEntry, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	if c.userID <= 0 {
		return nil, fmt.Errorf("user id required")
	}
	values := url.Values{}
	values.Set("cat", "watching")
	values.Set("responseGroup", "medium")
	rel := &url.URL{Path: "/user/" + strconv.Itoa(c.userID) + "/collection", RawQuery: values.Encode()}
	var payload []CollectionEntry
	if err := c.doURL(ctx, http.MethodGet, rel, nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// CollectionDetail retrieves the user's record for a subject. A nil detail
// means the subject is not in the collection.
func (c *Client) CollectionDetail(ctx context.Context, subjectID int) (*CollectionDetail, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload CollectionDetail
	err := c.do(ctx, http.MethodGet, "/collection/"+strconv.Itoa(subjectID), nil, &payload)
	if IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &payload, nil
}

// UpdateCollectionDetail writes the collection record for a subject. When
// detail is nil only the status is sent.
func (c *Client) UpdateCollectionDetail(ctx context.Context, subjectID int, status CollectionStatus, detail *CollectionDetail) (CollectionDetail, error) {
	if c == nil {
		return CollectionDetail{}, fmt.Errorf("client is nil")
	}
	form := url.Values{}
	form.Set("status", string(status))
	if detail != nil {
		form.Set("comment", detail.Comment)
		form.Set("tags", strings.Join(detail.Tag, " "))
		form.Set("rating", strconv.Itoa(detail.Rating))
		form.Set("privacy", strconv.Itoa(detail.Private))
	}
	var payload CollectionDetail
	path := "/collection/" + strconv.Itoa(subjectID) + "/update"
	if err := c.do(ctx, http.MethodPost, path, form, &payload); err != nil {
		return CollectionDetail{}, err
	}
	return payload, nil
}

// Subject retrieves a subject by id.
func (c *Client) Subject(ctx context.Context, subjectID int) (Subject, error) {
	if c == nil {
		return Subject{}, fmt.Errorf("client is nil")
	}
	values := url.Values{}
	values.Set("responseGroup", "small")
	rel := &url.URL{Path: "/subject/" + strconv.Itoa(subjectID), RawQuery: values.Encode()}
	var payload Subject
	if err := c.doURL(ctx, http.MethodGet, rel, nil, &payload); err != nil {
		return Subject{}, err
	}
	return payload, nil
}

// UpdateProgress sets the watched episode and/or read volume count of an
// entry. Nil values are left unchanged.
func (c *Client) UpdateProgress(ctx context.Context, entry CollectionEntry, ep, vol *int) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	if ep == nil && vol == nil {
		return nil
	}
	form := url.Values{}
	if ep != nil {
		form.Set("watched_eps", strconv.Itoa(*ep))
	}
	if vol != nil {
		form.Set("watched_vols", strconv.Itoa(*vol))
	}
	path := "/subject/" + strconv.Itoa(entry.Subject.ID) + "/update/watched_eps"
	return c.do(ctx, http.MethodPost, path, form, nil)
}

// Search looks subjects up by keyword. count is the page size and skip the
// number of results before the page.
func (c *Client) Search(ctx context.Context, query string, count, skip int) (SearchResult, error) {
	if c == nil {
		return SearchResult{}, fmt.Errorf("client is nil")
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return SearchResult{}, fmt.Errorf("query required")
	}
	values := url.Values{}
	values.Set("responseGroup", "small")
	values.Set("start", strconv.Itoa(max(skip, 0)))
	if count > 0 {
		values.Set("max_results", strconv.Itoa(count))
	}
	path := "/search/subject/" + query
	rel := &url.URL{Path: path, RawPath: "/search/subject/" + url.PathEscape(query), RawQuery: values.Encode()}
	var payload SearchResult
	err := c.doURL(ctx, http.MethodGet, rel, nil, &payload)
	if IsNotFound(err) {
		return SearchResult{}, nil
	}
	if err != nil {
		return SearchResult{}, err
	}
	return payload, nil
}

func (c *Client) do(ctx context.Context, method, path string, form url.Values, dest any) error {
	rel := &url.URL{Path: path}
	return c.doURL(ctx, method, rel, form, dest)
}

func (c *Client) doURL(ctx context.Context, method string, rel *url.URL, form url.Values, dest any) error {
	reqURL := c.baseURL.ResolveReference(rel)
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return &APIError{Endpoint: rel.Path, Status: resp.StatusCode, Message: envelopeMessage(data)}
	}

	// The API reports some failures inside a 200 response.
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var status apiStatus
		if err := json.Unmarshal(trimmed, &status); err == nil && status.Code >= 400 {
			return &APIError{Endpoint: rel.Path, Status: status.Code, Message: status.Error}
		}
	}

	if dest == nil || len(trimmed) == 0 {
		return nil
	}
	if err := json.Unmarshal(trimmed, dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func envelopeMessage(data []byte) string {
	var status apiStatus
	if err := json.Unmarshal(data, &status); err != nil {
		return ""
	}
	return status.Error
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse base url %q: %w", raw, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
