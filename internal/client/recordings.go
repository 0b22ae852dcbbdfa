package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pribylovaa/go-baby-cry/internal/profilesync"
)

// Recording - запись плача в форме ответа сервиса.
type Recording struct {
	ID          string         `json:"id"`
	UserID      string         `json:"user_id"`
	BabyID      string         `json:"baby_id"`
	ObjectKey   string         `json:"object_key"`
	URL         string         `json:"url"`
	ContentType string         `json:"content_type"`
	SizeBytes   int64          `json:"size_bytes"`
	Notes       *string        `json:"notes"`
	Meta        map[string]any `json:"meta"`
	CreatedAt   time.Time      `json:"created_at"`
}

// ListRecordings - babyID == "" возвращает записи всех профилей владельца.
func (c *Client) ListRecordings(ctx context.Context, ownerID, babyID string) ([]Recording, error) {
	const op = "client/ListRecordings"

	path := "/owners/" + url.PathEscape(ownerID) + "/recordings"
	if babyID != "" {
		path += "?baby_id=" + url.QueryEscape(babyID)
	}

	var out []Recording
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

// UploadRecording загружает локальный аудиофайл; расширение берётся из имени файла.
func (c *Client) UploadRecording(ctx context.Context, ownerID, babyID, localPath, notes string) (Recording, error) {
	const op = "client/UploadRecording"

	data, err := readLocal(localPath)
	if err != nil {
		return Recording{}, fmt.Errorf("%s: %w", op, err)
	}

	q := url.Values{}
	q.Set("ext", strings.TrimPrefix(strings.ToLower(filepath.Ext(localPath)), "."))
	if notes != "" {
		q.Set("notes", notes)
	}

	path := "/owners/" + url.PathEscape(ownerID) + "/babies/" + url.PathEscape(babyID) + "/recordings?" + q.Encode()

	var out Recording
	if err := c.doRaw(ctx, http.MethodPost, path, "application/octet-stream", data, &out); err != nil {
		return Recording{}, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

func (c *Client) DeleteRecording(ctx context.Context, id string) (profilesync.DeleteResult, error) {
	const op = "client/DeleteRecording"

	res, err := c.delete(ctx, "/recordings/"+url.PathEscape(id))
	if err != nil {
		return profilesync.DeleteResult{RowErr: err}, fmt.Errorf("%s: %w", op, err)
	}

	return res, nil
}

// avatarType - тип содержимого аватара по расширению файла.
func avatarType(path string) (string, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return "image/jpeg", true
	case ".png":
		return "image/png", true
	case ".webp":
		return "image/webp", true
	default:
		return "", false
	}
}

// readLocal читает локальный файл; допускается префикс "file://".
func readLocal(path string) ([]byte, error) {
	path = strings.TrimPrefix(path, "file://")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return data, nil
}
