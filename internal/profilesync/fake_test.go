package profilesync

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

var errRemote = errors.New("remote unavailable")

// fakeRemote - in-memory Remote с инъекцией ошибок.
type fakeRemote struct {
	mu   sync.Mutex
	rows []Record
	seq  int

	listErr   error
	insertErr error
	updateErr error
	uploadErr error

	// deleteResult подменяет результат Delete, если задан.
	deleteResult *DeleteResult

	// updateStarted/updateGate позволяют остановить Update посреди полёта.
	updateStarted chan struct{}
	updateGate    chan struct{}

	signed map[string]string
	calls  map[string]int
}

func newFakeRemote(rows ...Record) *fakeRemote {
	return &fakeRemote{rows: rows, signed: map[string]string{}, calls: map[string]int{}}
}

func (f *fakeRemote) called(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.calls[name]
}

func (f *fakeRemote) hit(name string) {
	f.mu.Lock()
	f.calls[name]++
	f.mu.Unlock()
}

func (f *fakeRemote) List(_ context.Context, ownerID string) ([]Record, error) {
	f.hit("list")

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.listErr != nil {
		return nil, f.listErr
	}

	var out []Record
	for _, r := range f.rows {
		if r.UserID == ownerID {
			out = append(out, r)
		}
	}

	return out, nil
}

func (f *fakeRemote) Get(_ context.Context, id string) (Record, error) {
	f.hit("get")

	f.mu.Lock()
	defer f.mu.Unlock()

	for _, r := range f.rows {
		if r.ID == id {
			return r, nil
		}
	}

	return Record{}, ErrNotFound
}

func (f *fakeRemote) Insert(_ context.Context, ownerID string, rec Record) (Record, error) {
	f.hit("insert")

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.insertErr != nil {
		return Record{}, f.insertErr
	}

	f.seq++
	rec.ID = fmt.Sprintf("r%d", f.seq)
	rec.UserID = ownerID
	rec.CreatedAt = time.Date(2024, 1, 1, 0, 0, f.seq, 0, time.UTC)
	rec.UpdatedAt = rec.CreatedAt
	f.rows = append(f.rows, rec)

	return rec, nil
}

func (f *fakeRemote) Update(ctx context.Context, id string, p Patch) (Record, error) {
	f.hit("update")

	if f.updateStarted != nil {
		f.updateStarted <- struct{}{}
	}

	if f.updateGate != nil {
		select {
		case <-f.updateGate:
		case <-ctx.Done():
			return Record{}, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.updateErr != nil {
		return Record{}, f.updateErr
	}

	for i, r := range f.rows {
		if r.ID != id {
			continue
		}

		prof := p.Apply(FromRecord(r))
		upd := ToRecord(prof, r.UserID)
		upd.CreatedAt = r.CreatedAt
		upd.UpdatedAt = r.UpdatedAt.Add(time.Second)
		f.rows[i] = upd

		return upd, nil
	}

	return Record{}, ErrNotFound
}

func (f *fakeRemote) Delete(_ context.Context, id string) DeleteResult {
	f.hit("delete")

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.deleteResult != nil {
		return *f.deleteResult
	}

	for i, r := range f.rows {
		if r.ID == id {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return DeleteResult{RowDeleted: true, BlobDeleted: r.AvatarURL != nil}
		}
	}

	return DeleteResult{RowErr: ErrNotFound}
}

func (f *fakeRemote) UploadBlob(_ context.Context, localPath, ownerID string) (UploadResult, error) {
	f.hit("upload")

	if f.uploadErr != nil {
		return UploadResult{}, f.uploadErr
	}

	path := "avatars/" + ownerID + "/" + localPath
	return UploadResult{StoragePath: path, PreviewURL: "https://cdn.test/" + path + "?sig=up"}, nil
}

func (f *fakeRemote) SignBlobURL(_ context.Context, path string, _ time.Duration) string {
	f.hit("sign")

	f.mu.Lock()
	defer f.mu.Unlock()

	return f.signed[path]
}

type note struct {
	level Level
	msg   string
}

// recNotifier запоминает уведомления.
type recNotifier struct {
	mu    sync.Mutex
	notes []note
}

func (r *recNotifier) Notify(level Level, message string) {
	r.mu.Lock()
	r.notes = append(r.notes, note{level, message})
	r.mu.Unlock()
}

func (r *recNotifier) last() note {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.notes) == 0 {
		return note{}
	}

	return r.notes[len(r.notes)-1]
}

// recPersister запоминает сохранённые id.
type recPersister struct {
	mu    sync.Mutex
	saved []string
}

func (p *recPersister) TrySave(id string) {
	p.mu.Lock()
	p.saved = append(p.saved, id)
	p.mu.Unlock()
}

func (p *recPersister) all() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	return append([]string(nil), p.saved...)
}

type staticLoader struct {
	id  string
	err error
}

func (l staticLoader) Load(context.Context) (string, error) {
	return l.id, l.err
}

func ids(ps []Profile) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.ID
	}

	return out
}

func prof(id, name string) Profile {
	return Profile{ID: id, Name: name, Gender: GenderUnspecified}
}

func row(id, owner, name string) Record {
	g := string(GenderUnspecified)
	return Record{ID: id, UserID: owner, Name: name, Gender: &g}
}
