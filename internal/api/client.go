package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var (
	ErrNotFound     = errors.New("resource not found")
	ErrUnauthorized = errors.New("unauthorized")
)

// Client talks to the remote shop API. It is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient builds a client for baseURL. A nil httpClient gets a default
// with a 10 second timeout.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

func (c *Client) newRequest(ctx context.Context, method, path, token string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

func (c *Client) roundTrip(req *http.Request) (int, []byte, error) {
	res, err := c.http.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer res.Body.Close()

	b, err := io.ReadAll(res.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("read %s %s: %w", req.Method, req.URL.Path, err)
	}
	return res.StatusCode, b, nil
}

// send issues one JSON request and classifies the response.
func send[T any](ctx context.Context, c *Client, method, path, token string, payload any) (Result[T], error) {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return Result[T]{}, fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := c.newRequest(ctx, method, path, token, body)
	if err != nil {
		return Result[T]{}, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	status, b, err := c.roundTrip(req)
	if err != nil {
		return Result[T]{}, err
	}
	return decodeResult[T](status, b)
}

// upload posts data as the multipart field "file".
func (c *Client) upload(ctx context.Context, path, token, filename string, data []byte) (Result[Status], error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return Result[Status]{}, fmt.Errorf("build upload: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return Result[Status]{}, fmt.Errorf("build upload: %w", err)
	}
	if err := w.Close(); err != nil {
		return Result[Status]{}, fmt.Errorf("build upload: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, path, token, &buf)
	if err != nil {
		return Result[Status]{}, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	status, b, err := c.roundTrip(req)
	if err != nil {
		return Result[Status]{}, err
	}
	return decodeResult[Status](status, b)
}

// download fetches a binary blob. 401 and 404 map to sentinel errors.
func (c *Client) download(ctx context.Context, path, token string) ([]byte, string, error) {
	req, err := c.newRequest(ctx, http.MethodGet, path, token, nil)
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("Accept", "*/*")

	res, err := c.http.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("GET %s: %w", path, err)
	}
	defer res.Body.Close()

	switch {
	case res.StatusCode == http.StatusUnauthorized:
		return nil, "", ErrUnauthorized
	case res.StatusCode == http.StatusNotFound:
		return nil, "", ErrNotFound
	case res.StatusCode >= http.StatusBadRequest:
		return nil, "", fmt.Errorf("GET %s: unexpected status %d", path, res.StatusCode)
	}

	b, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", path, err)
	}
	if len(b) == 0 {
		return nil, "", ErrNotFound
	}
	ct := res.Header.Get("Content-Type")
	if ct == "" {
		ct = http.DetectContentType(b)
	}
	return b, ct, nil
}

func escape(s string) string { return url.PathEscape(s) }

func pageQuery(v url.Values, page, size int) url.Values {
	if page < 0 {
		page = 0
	}
	v.Set("page", fmt.Sprint(page))
	if size > 0 {
		v.Set("size", fmt.Sprint(size))
	}
	return v
}
