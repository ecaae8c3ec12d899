// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package apiclient talks to the folio REST API. Client implements
// category.Source, so a category.Service can run against a remote server.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"folio/internal/category"
	"folio/internal/models"
)

// maxErrorBody caps how much of a failed response is kept in the error.
const maxErrorBody = 512

// Client is an HTTP client for the /api endpoints.
type Client struct {
	baseURL string
	client  *http.Client
}

// New creates a client for the API rooted at baseURL
// (for example http://localhost:8080/api).
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// WithHTTPClient replaces the underlying http.Client.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.client = hc
	return c
}

// List fetches the flat category list.
func (c *Client) List(ctx context.Context) ([]models.Category, error) {
	var list []models.Category
	if err := c.do(ctx, http.MethodGet, "/categories", nil, &list, category.KindFetch, 0); err != nil {
		return nil, err
	}
	if list == nil {
		return nil, &category.Error{Kind: category.KindFetch, Message: "empty response payload"}
	}
	return list, nil
}

// Create posts a new category.
func (c *Client) Create(ctx context.Context, in models.CategoryInput) (*models.Category, error) {
	var out *models.Category
	if err := c.do(ctx, http.MethodPost, "/categories", in, &out, category.KindCreate, 0); err != nil {
		return nil, err
	}
	if out == nil {
		return nil, &category.Error{Kind: category.KindCreate, Message: "empty response payload"}
	}
	return out, nil
}

// Update replaces the category with the given id.
func (c *Client) Update(ctx context.Context, id int64, in models.CategoryInput) (*models.Category, error) {
	var out *models.Category
	if err := c.do(ctx, http.MethodPut, categoryPath(id), in, &out, category.KindUpdate, id); err != nil {
		return nil, err
	}
	if out == nil {
		return nil, &category.Error{Kind: category.KindUpdate, CategoryID: id, Message: "empty response payload"}
	}
	return out, nil
}

// Delete removes the category with the given id.
func (c *Client) Delete(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, categoryPath(id), nil, nil, category.KindDelete, id)
}

func categoryPath(id int64) string {
	return "/categories/" + strconv.FormatInt(id, 10)
}

// do performs one request. Unexpected statuses and undecodable bodies are
// reported as errors of the given kind. Transport failures are returned
// as plain wrapped errors so callers classify them as unknown. Error
// responses that carry a category code are decoded back into that code.
func (c *Client) do(ctx context.Context, method, path string, body, out any, kind category.Kind, id int64) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("apiclient marshal: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("apiclient request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("apiclient %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("apiclient read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp.StatusCode, respBody, kind, id)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return &category.Error{Kind: kind, CategoryID: id, Message: "decode response", Err: err}
	}
	return nil
}

// errorBody mirrors the API's error envelope.
type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeError(status int, body []byte, kind category.Kind, id int64) error {
	if status == http.StatusNotFound {
		return fmt.Errorf("api status %d: %w", status, category.ErrNotFound)
	}

	var eb errorBody
	if json.Unmarshal(body, &eb) == nil {
		switch code := category.Kind(eb.Error.Code); code {
		case category.KindInvalidCategory, category.KindCircularReference:
			return &category.Error{Kind: code, CategoryID: id, Message: eb.Error.Message}
		}
	}

	text := string(body)
	if len(text) > maxErrorBody {
		text = text[:maxErrorBody]
	}
	return &category.Error{
		Kind:       kind,
		CategoryID: id,
		Message:    fmt.Sprintf("api status %d", status),
		Err:        errors.New(strings.TrimSpace(text)),
	}
}
