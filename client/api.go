package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type Post struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type postBody struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// StatusError is returned for any non 2xx answer of the API
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("status: %d", e.Code)
	}
	return fmt.Sprintf("status: %d, %s", e.Code, e.Message)
}

// API talks to the posts resource over HTTP
type API struct {
	base string
	http *http.Client
}

// NewAPI returns an API for base, e.g. "http://127.0.0.1:8080". A nil client means http.DefaultClient
func NewAPI(base string, httpClient *http.Client) *API {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &API{base: strings.TrimRight(base, "/"), http: httpClient}
}

func (a *API) List(ctx context.Context) (posts []Post, err error) {
	err = a.do(ctx, http.MethodGet, "/api/posts", nil, &posts)
	return
}

func (a *API) Create(ctx context.Context, title, content string) (post Post, err error) {
	err = a.do(ctx, http.MethodPost, "/api/posts", postBody{title, content}, &post)
	return
}

func (a *API) Update(ctx context.Context, id, title, content string) (post Post, err error) {
	err = a.do(ctx, http.MethodPut, "/api/posts/"+url.PathEscape(id), postBody{title, content}, &post)
	return
}

func (a *API) Delete(ctx context.Context, id string) error {
	return a.do(ctx, http.MethodDelete, "/api/posts/"+url.PathEscape(id), nil, nil)
}

func (a *API) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf := bytes.Buffer{}
		if err := json.NewEncoder(&buf).Encode(in); err != nil {
			return err
		}
		body = &buf
	}
	req, err := http.NewRequestWithContext(ctx, method, a.base+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	resp, err := a.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		e := struct {
			Error string `json:"error"`
		}{}
		_ = json.NewDecoder(resp.Body).Decode(&e)
		return &StatusError{Code: resp.StatusCode, Message: e.Error}
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
