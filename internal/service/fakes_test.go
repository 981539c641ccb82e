package service

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/deppfellow/bizlist/internal/errs"
	"github.com/deppfellow/bizlist/internal/lib/storage"
	"github.com/deppfellow/bizlist/internal/model"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

type fakeRecords struct {
	mu         sync.Mutex
	businesses map[uuid.UUID]*model.Business

	appendErr error
	calls     []string
}

func newFakeRecords(businesses ...*model.Business) *fakeRecords {
	f := &fakeRecords{businesses: map[uuid.UUID]*model.Business{}}
	for _, b := range businesses {
		if b.Images == nil {
			b.Images = []string{}
		}
		f.businesses[b.ID] = b
	}
	return f
}

func cloneBusiness(b *model.Business) *model.Business {
	c := *b
	c.Images = slices.Clone(b.Images)
	return &c
}

func (f *fakeRecords) record(call string) {
	f.calls = append(f.calls, call)
}

func (f *fakeRecords) mutated() bool {
	for _, c := range f.calls {
		if c != "GetByID" && c != "List" {
			return true
		}
	}
	return false
}

func (f *fakeRecords) Insert(_ context.Context, b *model.Business) (*model.Business, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("Insert")

	c := cloneBusiness(b)
	c.ID = uuid.New()
	if c.Images == nil {
		c.Images = []string{}
	}
	f.businesses[c.ID] = c
	return cloneBusiness(c), nil
}

func (f *fakeRecords) GetByID(_ context.Context, id uuid.UUID) (*model.Business, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("GetByID")

	b, ok := f.businesses[id]
	if !ok {
		return nil, errs.NotFound("Business not found")
	}
	return cloneBusiness(b), nil
}

func (f *fakeRecords) Update(_ context.Context, id uuid.UUID, patch model.BusinessPatch) (*model.Business, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("Update")

	b, ok := f.businesses[id]
	if !ok {
		return nil, errs.NotFound("Business not found")
	}
	if patch.Name != nil {
		b.Name = *patch.Name
	}
	if patch.Rating != nil {
		b.Rating = *patch.Rating
	}
	return cloneBusiness(b), nil
}

func (f *fakeRecords) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("Delete")

	if _, ok := f.businesses[id]; !ok {
		return errs.NotFound("Business not found")
	}
	delete(f.businesses, id)
	return nil
}

func (f *fakeRecords) List(_ context.Context, q model.ListBusinessesQuery) ([]model.Business, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("List")

	var out []model.Business
	for _, b := range f.businesses {
		if q.OwnerID != "" && b.OwnerID != q.OwnerID {
			continue
		}
		out = append(out, *cloneBusiness(b))
	}
	total := len(out)
	start := min((q.Page-1)*q.Limit, total)
	end := min(start+q.Limit, total)
	return out[start:end], total, nil
}

func (f *fakeRecords) AppendToArrayField(_ context.Context, id uuid.UUID, field model.ArrayField, value string) (*model.Business, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("AppendToArrayField")

	if f.appendErr != nil {
		return nil, f.appendErr
	}
	if field != model.FieldImages {
		return nil, errors.New("unsupported array field")
	}
	b, ok := f.businesses[id]
	if !ok {
		return nil, errs.NotFound("Business not found")
	}
	if !slices.Contains(b.Images, value) {
		b.Images = append(b.Images, value)
	}
	return cloneBusiness(b), nil
}

func (f *fakeRecords) RemoveFromArrayField(_ context.Context, id uuid.UUID, field model.ArrayField, value string) (*model.Business, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("RemoveFromArrayField")

	if field != model.FieldImages {
		return nil, errors.New("unsupported array field")
	}
	b, ok := f.businesses[id]
	if !ok {
		return nil, errs.NotFound("Business not found")
	}
	b.Images = slices.DeleteFunc(b.Images, func(p string) bool { return p == value })
	return cloneBusiness(b), nil
}

type fakeBlobs struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string

	putErr    error
	deleteErr error
	puts      int
	deletes   int
}

func newFakeBlobs() *fakeBlobs {
	return &fakeBlobs{objects: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeBlobs) Put(_ context.Context, path string, data []byte, contentType string) (storage.PutResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.puts++

	if f.putErr != nil {
		return storage.PutResult{}, f.putErr
	}
	f.objects[path] = slices.Clone(data)
	f.types[path] = contentType
	return storage.PutResult{Path: path}, nil
}

func (f *fakeBlobs) Delete(_ context.Context, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes++

	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.objects, path)
	return nil
}

func (f *fakeBlobs) PublicURL(path string) string {
	return "https://cdn.example.com/" + path
}

func (f *fakeBlobs) has(path string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.objects[path]
	return ok
}

type fakeUsers struct {
	users   map[string]*model.User
	getErr  error
	inserts int
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{users: map[string]*model.User{}}
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*model.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.users[id]
	if !ok {
		return nil, errs.NotFound("User not found")
	}
	c := *u
	return &c, nil
}

func (f *fakeUsers) Insert(_ context.Context, u *model.User) (*model.User, bool, error) {
	f.inserts++
	if existing, ok := f.users[u.ID]; ok {
		c := *existing
		return &c, false, nil
	}
	c := *u
	f.users[u.ID] = &c
	out := c
	return &out, true, nil
}

func (f *fakeUsers) UpdateProfile(_ context.Context, id string, firstName, lastName *string) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, errs.NotFound("User not found")
	}
	if firstName != nil {
		u.FirstName = firstName
	}
	if lastName != nil {
		u.LastName = lastName
	}
	c := *u
	return &c, nil
}

type fakeIdentities struct {
	identity *Identity
	err      error
	calls    int
}

func (f *fakeIdentities) GetIdentity(_ context.Context, userID string) (*Identity, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	id := *f.identity
	id.ID = userID
	return &id, nil
}

type fakeEnqueuer struct {
	tasks []*asynq.Task
	err   error
}

func (f *fakeEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.tasks = append(f.tasks, task)
	return &asynq.TaskInfo{ID: "task_1", Type: task.Type()}, nil
}
