// client - HTTP-адаптер babies-service, реализующий profilesync.Remote.
//
// 404 отображается в profilesync.ErrNotFound, прочие не-2xx - в *APIError.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pribylovaa/go-baby-cry/internal/profilesync"
)

// DefaultTimeout - таймаут одного HTTP-запроса по умолчанию.
const DefaultTimeout = 30 * time.Second

// APIError - ответ сервиса вне 2xx (кроме 404, см. profilesync.ErrNotFound).
type APIError struct {
	Status    int
	Code      string
	Message   string
	RequestID string
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("babies-service: status %d", e.Status)
	if e.Code != "" {
		msg += " " + e.Code
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.RequestID != "" {
		msg += " (request_id=" + e.RequestID + ")"
	}

	return msg
}

// Client - адаптер удалённого сервиса профилей.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

var _ profilesync.Remote = (*Client)(nil)

// Option настраивает Client.
type Option func(*Client)

// WithHTTPClient подменяет http.Client (тесты, кастомный транспорт).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// New создаёт клиент для baseURL вида "http://host:port" (или с префиксом "/api").
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		log:        slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

type createRequest struct {
	Name      string  `json:"name"`
	BirthDate *string `json:"birth_date,omitempty"`
	Gender    *string `json:"gender,omitempty"`
	Notes     *string `json:"notes,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

type deleteResponse struct {
	RowDeleted  bool   `json:"row_deleted"`
	BlobDeleted bool   `json:"blob_deleted"`
	BlobError   string `json:"blob_error"`
}

type avatarResponse struct {
	StoragePath string `json:"storage_path"`
	PreviewURL  string `json:"preview_url"`
}

type signRequest struct {
	StoragePath string `json:"storage_path"`
	TTLSeconds  int64  `json:"ttl_seconds"`
}

type signResponse struct {
	URL string `json:"url"`
}

type errorEnvelope struct {
	Error struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		RequestID string `json:"request_id"`
	} `json:"error"`
}

// List возвращает профили владельца, новые первыми.
func (c *Client) List(ctx context.Context, ownerID string) ([]profilesync.Record, error) {
	const op = "client/List"

	var out []profilesync.Record
	if err := c.doJSON(ctx, http.MethodGet, "/owners/"+url.PathEscape(ownerID)+"/babies", nil, &out); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

func (c *Client) Get(ctx context.Context, id string) (profilesync.Record, error) {
	const op = "client/Get"

	var out profilesync.Record
	if err := c.doJSON(ctx, http.MethodGet, "/babies/"+url.PathEscape(id), nil, &out); err != nil {
		return profilesync.Record{}, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

// Insert создаёт строку; id и временные метки записи игнорируются - их выдаёт сервис.
func (c *Client) Insert(ctx context.Context, ownerID string, rec profilesync.Record) (profilesync.Record, error) {
	const op = "client/Insert"

	body := createRequest{
		Name:      rec.Name,
		BirthDate: rec.BirthDate,
		Gender:    rec.Gender,
		Notes:     rec.Notes,
		AvatarURL: rec.AvatarURL,
	}

	var out profilesync.Record
	if err := c.doJSON(ctx, http.MethodPost, "/owners/"+url.PathEscape(ownerID)+"/babies", body, &out); err != nil {
		return profilesync.Record{}, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

func (c *Client) Update(ctx context.Context, id string, patch profilesync.Patch) (profilesync.Record, error) {
	const op = "client/Update"

	var out profilesync.Record
	if err := c.doJSON(ctx, http.MethodPatch, "/babies/"+url.PathEscape(id), patch, &out); err != nil {
		return profilesync.Record{}, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

// Delete - 404 отдаётся как RowErr с profilesync.ErrNotFound.
func (c *Client) Delete(ctx context.Context, id string) profilesync.DeleteResult {
	const op = "client/Delete"

	res, err := c.delete(ctx, "/babies/"+url.PathEscape(id))
	if err != nil {
		return profilesync.DeleteResult{RowErr: fmt.Errorf("%s: %w", op, err)}
	}

	return res
}

// UploadBlob загружает локальный файл аватара. Тип содержимого - по расширению.
func (c *Client) UploadBlob(ctx context.Context, localPath, ownerID string) (profilesync.UploadResult, error) {
	const op = "client/UploadBlob"

	contentType, ok := avatarType(localPath)
	if !ok {
		return profilesync.UploadResult{}, fmt.Errorf("%s: unsupported avatar file %q", op, localPath)
	}

	data, err := readLocal(localPath)
	if err != nil {
		return profilesync.UploadResult{}, fmt.Errorf("%s: %w", op, err)
	}

	var out avatarResponse
	path := "/owners/" + url.PathEscape(ownerID) + "/avatars"
	if err := c.doRaw(ctx, http.MethodPost, path, contentType, data, &out); err != nil {
		return profilesync.UploadResult{}, fmt.Errorf("%s: %w", op, err)
	}

	return profilesync.UploadResult{StoragePath: out.StoragePath, PreviewURL: out.PreviewURL}, nil
}

// SignBlobURL возвращает "" при любой ошибке: вызывающая сторона откатывается к пути.
func (c *Client) SignBlobURL(ctx context.Context, storagePath string, ttl time.Duration) string {
	var out signResponse
	err := c.doJSON(ctx, http.MethodPost, "/avatars/sign", signRequest{
		StoragePath: storagePath,
		TTLSeconds:  int64(ttl / time.Second),
	}, &out)
	if err != nil {
		c.log.Debug("sign_failed", "path", storagePath, "err", err)
		return ""
	}

	return out.URL
}

func (c *Client) delete(ctx context.Context, path string) (profilesync.DeleteResult, error) {
	var out deleteResponse
	if err := c.doJSON(ctx, http.MethodDelete, path, nil, &out); err != nil {
		return profilesync.DeleteResult{}, err
	}

	res := profilesync.DeleteResult{RowDeleted: out.RowDeleted, BlobDeleted: out.BlobDeleted}
	if out.BlobError != "" {
		res.BlobErr = errors.New(out.BlobError)
	}

	return res, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	if in == nil {
		return c.doRaw(ctx, method, path, "", nil, out)
	}

	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	return c.doRaw(ctx, method, path, "application/json", body, out)
}

func (c *Client) doRaw(ctx context.Context, method, path, contentType string, body []byte, out any) error {
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var env errorEnvelope
	_ = json.Unmarshal(raw, &env)

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("status 404 %s: %w", env.Error.Code, profilesync.ErrNotFound)
	}

	apiErr := &APIError{
		Status:    resp.StatusCode,
		Code:      env.Error.Code,
		Message:   env.Error.Message,
		RequestID: env.Error.RequestID,
	}
	if apiErr.Message == "" && env.Error.Code == "" {
		apiErr.Message = strings.TrimSpace(string(raw))
	}

	return apiErr
}
