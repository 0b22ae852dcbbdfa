package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/pribylovaa/go-baby-cry/internal/profilesync"
	"github.com/stretchr/testify/require"
)

// fakeService - минимальная in-memory реализация маршрутов babies-service.
type fakeService struct {
	mu       sync.Mutex
	rows     map[string]profilesync.Record
	seq      int
	lastBody map[string]any
	lastCT   string
	lastRaw  []byte
	lastURL  string
	blobErr  bool
	failSign bool
}

func newFakeService(t *testing.T) (*fakeService, *Client) {
	t.Helper()

	f := &fakeService{rows: map[string]profilesync.Record{}}

	r := chi.NewRouter()
	r.Get("/owners/{owner}/babies", f.list)
	r.Post("/owners/{owner}/babies", f.create)
	r.Get("/babies/{id}", f.get)
	r.Patch("/babies/{id}", f.update)
	r.Delete("/babies/{id}", f.delete)
	r.Post("/owners/{owner}/avatars", f.avatar)
	r.Post("/avatars/sign", f.sign)
	r.Get("/owners/{owner}/recordings", f.listRecordings)
	r.Post("/owners/{owner}/babies/{id}/recordings", f.uploadRecording)
	r.Delete("/recordings/{id}", f.deleteRecording)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return f, New(srv.URL+"/", WithHTTPClient(srv.Client()))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]any{"error": map[string]string{
		"code": code, "message": code, "request_id": "rid-1",
	}})
}

func (f *fakeService) list(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := []profilesync.Record{}
	for _, row := range f.rows {
		if row.UserID == chi.URLParam(r, "owner") {
			out = append(out, row)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (f *fakeService) create(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var body map[string]any
	_ = json.NewDecoder(r.Body).Decode(&body)
	f.lastBody = body

	name, _ := body["name"].(string)
	if name == "" {
		writeErr(w, http.StatusBadRequest, "invalid_argument")
		return
	}

	f.seq++
	id := "row-" + string(rune('0'+f.seq))
	gender := "unspecified"
	if g, ok := body["gender"].(string); ok {
		gender = g
	}
	row := profilesync.Record{ID: id, UserID: chi.URLParam(r, "owner"), Name: name, Gender: &gender, CreatedAt: time.Now()}
	f.rows[id] = row
	writeJSON(w, http.StatusCreated, row)
}

func (f *fakeService) get(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	row, ok := f.rows[chi.URLParam(r, "id")]
	if !ok {
		writeErr(w, http.StatusNotFound, "not_found")
		return
	}
	writeJSON(w, http.StatusOK, row)
}

func (f *fakeService) update(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var body map[string]any
	_ = json.NewDecoder(r.Body).Decode(&body)
	f.lastBody = body

	row, ok := f.rows[chi.URLParam(r, "id")]
	if !ok {
		writeErr(w, http.StatusNotFound, "not_found")
		return
	}
	if name, ok := body["name"].(string); ok {
		row.Name = name
	}
	if notes, ok := body["notes"].(string); ok {
		if notes == "" {
			row.Notes = nil
		} else {
			row.Notes = &notes
		}
	}
	f.rows[row.ID] = row
	writeJSON(w, http.StatusOK, row)
}

func (f *fakeService) delete(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := chi.URLParam(r, "id")
	if id == "boom" {
		writeErr(w, http.StatusInternalServerError, "internal")
		return
	}
	if _, ok := f.rows[id]; !ok {
		writeErr(w, http.StatusNotFound, "not_found")
		return
	}
	delete(f.rows, id)

	resp := map[string]any{"row_deleted": true, "blob_deleted": !f.blobErr}
	if f.blobErr {
		resp["blob_error"] = "blob cleanup failed"
	}
	writeJSON(w, http.StatusOK, resp)
}

func (f *fakeService) avatar(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.lastCT = r.Header.Get("Content-Type")
	f.lastRaw, _ = io.ReadAll(r.Body)
	path := "avatars/" + chi.URLParam(r, "owner") + "/k.png"
	writeJSON(w, http.StatusCreated, map[string]string{"storage_path": path, "preview_url": "https://cdn.test/" + path})
}

func (f *fakeService) sign(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	fail := f.failSign
	f.mu.Unlock()

	var body signRequest
	_ = json.NewDecoder(r.Body).Decode(&body)

	if fail {
		writeErr(w, http.StatusInternalServerError, "internal")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": "https://cdn.test/" + body.StoragePath + "?ttl=" + time.Duration(body.TTLSeconds*int64(time.Second)).String()})
}

func (f *fakeService) listRecordings(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.lastURL = r.URL.String()
	f.mu.Unlock()

	writeJSON(w, http.StatusOK, []Recording{{ID: "rec-1", BabyID: r.URL.Query().Get("baby_id"), ObjectKey: "o/1.wav"}})
}

func (f *fakeService) uploadRecording(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.lastURL = r.URL.String()
	f.lastRaw, _ = io.ReadAll(r.Body)

	if chi.URLParam(r, "id") == "temp-1" {
		writeErr(w, http.StatusPreconditionFailed, "failed_precondition")
		return
	}
	writeJSON(w, http.StatusCreated, Recording{ID: "rec-2", BabyID: chi.URLParam(r, "id"), SizeBytes: int64(len(f.lastRaw))})
}

func (f *fakeService) deleteRecording(w http.ResponseWriter, r *http.Request) {
	if chi.URLParam(r, "id") == "missing" {
		writeErr(w, http.StatusNotFound, "not_found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"row_deleted": true, "blob_deleted": true})
}

// seen возвращает последние захваченные сервером тело/тип/сырые байты/URL.
func (f *fakeService) seen() (map[string]any, string, []byte, string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.lastBody, f.lastCT, f.lastRaw, f.lastURL
}

func (f *fakeService) set(fn func(f *fakeService)) {
	f.mu.Lock()
	defer f.mu.Unlock()

	fn(f)
}

func strp(s string) *string { return &s }

func TestClient_InsertListGet(t *testing.T) {
	f, c := newFakeService(t)
	ctx := context.Background()

	rec := profilesync.ToRecord(profilesync.Profile{ID: "temp-1", Name: "Alice", Gender: profilesync.GenderFemale}, "owner-1")
	got, err := c.Insert(ctx, "owner-1", rec)
	require.NoError(t, err)
	require.Equal(t, "row-1", got.ID)
	require.Equal(t, "female", *got.Gender)

	// id/user_id/метки времени не уходят в тело создания.
	body, _, _, _ := f.seen()
	require.NotContains(t, body, "id")
	require.NotContains(t, body, "user_id")
	require.NotContains(t, body, "notes")

	list, err := c.List(ctx, "owner-1")
	require.NoError(t, err)
	require.Len(t, list, 1)

	one, err := c.Get(ctx, "row-1")
	require.NoError(t, err)
	require.Equal(t, "Alice", one.Name)
}

func TestClient_NotFoundMapsToSentinel(t *testing.T) {
	_, c := newFakeService(t)

	_, err := c.Get(context.Background(), "nope")
	require.ErrorIs(t, err, profilesync.ErrNotFound)

	_, err = c.Update(context.Background(), "nope", profilesync.Patch{Name: strp("x")})
	require.ErrorIs(t, err, profilesync.ErrNotFound)

	res := c.Delete(context.Background(), "nope")
	require.False(t, res.RowDeleted)
	require.ErrorIs(t, res.RowErr, profilesync.ErrNotFound)
}

func TestClient_APIError(t *testing.T) {
	_, c := newFakeService(t)

	_, err := c.Insert(context.Background(), "owner-1", profilesync.Record{})
	require.Error(t, err)
	require.NotErrorIs(t, err, profilesync.ErrNotFound)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusBadRequest, apiErr.Status)
	require.Equal(t, "invalid_argument", apiErr.Code)
	require.Equal(t, "rid-1", apiErr.RequestID)
	require.Contains(t, apiErr.Error(), "rid-1")

	res := c.Delete(context.Background(), "boom")
	require.False(t, res.RowDeleted)
	require.ErrorAs(t, res.RowErr, &apiErr)
}

func TestClient_UpdateSendsOnlySetFields(t *testing.T) {
	f, c := newFakeService(t)
	ctx := context.Background()

	row, err := c.Insert(ctx, "o", profilesync.Record{Name: "A"})
	require.NoError(t, err)

	got, err := c.Update(ctx, row.ID, profilesync.Patch{Notes: strp(""), AvatarFile: "/tmp/x.png"})
	require.NoError(t, err)
	require.Nil(t, got.Notes)
	body, _, _, _ := f.seen()
	require.Equal(t, map[string]any{"notes": ""}, body)
}

func TestClient_DeleteFlags(t *testing.T) {
	f, c := newFakeService(t)
	ctx := context.Background()

	row, err := c.Insert(ctx, "o", profilesync.Record{Name: "A"})
	require.NoError(t, err)

	f.set(func(f *fakeService) { f.blobErr = true })
	res := c.Delete(ctx, row.ID)
	require.True(t, res.RowDeleted)
	require.False(t, res.BlobDeleted)
	require.NoError(t, res.RowErr)
	require.Error(t, res.BlobErr)
}

func TestClient_UploadBlob(t *testing.T) {
	f, c := newFakeService(t)

	dir := t.TempDir()
	file := filepath.Join(dir, "face.PNG")
	require.NoError(t, os.WriteFile(file, []byte("png-bytes"), 0o600))

	res, err := c.UploadBlob(context.Background(), "file://"+file, "owner-1")
	require.NoError(t, err)
	require.Equal(t, "avatars/owner-1/k.png", res.StoragePath)
	require.NotEmpty(t, res.PreviewURL)
	_, ct, raw, _ := f.seen()
	require.Equal(t, "image/png", ct)
	require.Equal(t, []byte("png-bytes"), raw)

	_, err = c.UploadBlob(context.Background(), filepath.Join(dir, "a.gif"), "owner-1")
	require.Error(t, err)

	_, err = c.UploadBlob(context.Background(), filepath.Join(dir, "missing.jpg"), "owner-1")
	require.Error(t, err)
}

func TestClient_SignBlobURL(t *testing.T) {
	f, c := newFakeService(t)

	url := c.SignBlobURL(context.Background(), "avatars/a/1.png", time.Hour)
	require.Equal(t, "https://cdn.test/avatars/a/1.png?ttl=1h0m0s", url)

	f.set(func(f *fakeService) { f.failSign = true })
	require.Equal(t, "", c.SignBlobURL(context.Background(), "avatars/a/1.png", time.Hour))
}

func TestClient_TransportFailure(t *testing.T) {
	c := New("http://127.0.0.1:1", WithHTTPClient(&http.Client{Timeout: time.Second}))

	_, err := c.List(context.Background(), "o")
	require.Error(t, err)
	require.NotErrorIs(t, err, profilesync.ErrNotFound)

	var apiErr *APIError
	require.False(t, errors.As(err, &apiErr))
	require.Equal(t, "", c.SignBlobURL(context.Background(), "p", time.Minute))
}

func TestClient_Recordings(t *testing.T) {
	f, c := newFakeService(t)
	ctx := context.Background()

	list, err := c.ListRecordings(ctx, "o", "b-1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "b-1", list[0].BabyID)
	_, _, _, seenURL := f.seen()
	require.Contains(t, seenURL, "baby_id=b-1")

	file := filepath.Join(t.TempDir(), "cry.M4A")
	require.NoError(t, os.WriteFile(file, make([]byte, 2048), 0o600))

	rec, err := c.UploadRecording(ctx, "o", "b-1", file, "night")
	require.NoError(t, err)
	require.EqualValues(t, 2048, rec.SizeBytes)
	_, _, _, seenURL = f.seen()
	require.Contains(t, seenURL, "ext=m4a")
	require.Contains(t, seenURL, "notes=night")

	_, err = c.UploadRecording(ctx, "o", "temp-1", file, "")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusPreconditionFailed, apiErr.Status)

	res, err := c.DeleteRecording(ctx, "rec-2")
	require.NoError(t, err)
	require.True(t, res.RowDeleted)

	_, err = c.DeleteRecording(ctx, "missing")
	require.ErrorIs(t, err, profilesync.ErrNotFound)
}
