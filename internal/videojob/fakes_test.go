package videojob

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"videostudio/internal/domain"
	videoprovider "videostudio/internal/providers/video"
)

type fakeRemote struct {
	mu          sync.Mutex
	jobs        map[string]*videoprovider.Job
	content     map[domain.Variant][]byte
	downloadErr map[domain.Variant]error
	downloads   map[domain.Variant]int
	retrieveErr error
	deleteErr   error
	deleted     []string
	created     *videoprovider.Job
	lastCreate  videoprovider.CreateRequest
	// gate, when set, blocks downloads until closed.
	gate chan struct{}
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		jobs: map[string]*videoprovider.Job{},
		content: map[domain.Variant][]byte{
			domain.VariantVideo:       []byte("mp4"),
			domain.VariantThumbnail:   []byte("webp"),
			domain.VariantSpritesheet: []byte("jpg"),
		},
		downloadErr: map[domain.Variant]error{},
		downloads:   map[domain.Variant]int{},
	}
}

func (f *fakeRemote) setJob(job videoprovider.Job) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.jobs[job.ID] = &job
}

func (f *fakeRemote) Retrieve(ctx context.Context, id string) (*videoprovider.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.retrieveErr != nil {
		return nil, f.retrieveErr
	}
	job, ok := f.jobs[id]
	if !ok {
		return nil, &domain.ProviderError{StatusCode: 404, Message: "Video not found"}
	}
	cp := *job
	return &cp, nil
}

func (f *fakeRemote) DownloadContent(ctx context.Context, id string, variant domain.Variant) ([]byte, error) {
	if f.gate != nil {
		<-f.gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.downloads[variant]++
	if err := f.downloadErr[variant]; err != nil {
		return nil, err
	}
	return f.content[variant], nil
}

func (f *fakeRemote) Delete(ctx context.Context, id string) (*videoprovider.DeleteResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return nil, f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return &videoprovider.DeleteResult{ID: id, Object: "video.deleted", Deleted: true}, nil
}

func (f *fakeRemote) Create(ctx context.Context, req videoprovider.CreateRequest) (*videoprovider.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastCreate = req
	if f.created == nil {
		return nil, errors.New("create not stubbed")
	}
	cp := *f.created
	return &cp, nil
}

func (f *fakeRemote) Remix(ctx context.Context, id, prompt string) (*videoprovider.Job, error) {
	return f.Create(ctx, videoprovider.CreateRequest{Prompt: prompt})
}

// memRepo mirrors the conditional writes of the SQL repository.
type memRepo struct {
	mu          sync.Mutex
	rows        map[string]domain.VideoRecord
	upserts     int
	updateErr   error
	getErr      error
	deleteErr   error
	completions int
	// seq orders rows by last write, like updated_at.
	seq       int64
	touched   map[string]int64
	claimedAt map[string]time.Time
	claims    int
	releases  []string
}

func newMemRepo() *memRepo {
	return &memRepo{
		rows:      map[string]domain.VideoRecord{},
		touched:   map[string]int64{},
		claimedAt: map[string]time.Time{},
	}
}

func (r *memRepo) touch(id string) {
	r.seq++
	r.touched[id] = r.seq
}

func (r *memRepo) Upsert(ctx context.Context, rec domain.NewVideoRecord, cost *domain.CostDetails) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.upserts++
	if existing, ok := r.rows[rec.ID]; ok {
		existing.Prompt = rec.Prompt
		existing.Model = rec.Model
		existing.Size = rec.Size
		existing.Seconds = rec.Seconds
		if rec.Progress > existing.Progress {
			existing.Progress = rec.Progress
		}
		r.rows[rec.ID] = existing
		r.touch(rec.ID)
		return nil
	}
	var remixOf *string
	if rec.RemixOf != "" {
		v := rec.RemixOf
		remixOf = &v
	}
	now := time.Now().UTC()
	r.rows[rec.ID] = domain.VideoRecord{
		ID: rec.ID, Mode: rec.Mode, Prompt: rec.Prompt, Model: rec.Model, Size: rec.Size,
		Seconds: rec.Seconds, RemixOf: remixOf, Status: domain.VideoStatusProcessing,
		Progress: rec.Progress, CostDetails: cost, StorageMode: rec.StorageMode,
		JobCreatedAt: rec.JobCreatedAt, CreatedAt: now, UpdatedAt: now,
	}
	r.touch(rec.ID)
	return nil
}

func (r *memRepo) UpdateStatus(ctx context.Context, id string, status domain.VideoStatus, progress int, errMsg *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return r.updateErr
	}
	row, ok := r.rows[id]
	if !ok || row.Status != domain.VideoStatusProcessing {
		return nil
	}
	row.Status = status
	if progress > row.Progress {
		row.Progress = progress
	}
	row.Error = errMsg
	r.rows[id] = row
	r.touch(id)
	return nil
}

func (r *memRepo) MarkCompleted(ctx context.Context, in domain.CompletedVideo) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return false, r.updateErr
	}
	row, ok := r.rows[in.ID]
	if !ok || row.Status != domain.VideoStatusProcessing {
		return false, nil
	}
	r.completions++
	url := in.VideoURL
	completedAt := in.CompletedAt
	duration := in.DurationMs
	row.Status = domain.VideoStatusCompleted
	row.Progress = 100
	row.Error = nil
	row.VideoURL = &url
	row.ThumbnailURL = in.ThumbnailURL
	row.SpritesheetURL = in.SpritesheetURL
	row.DurationMs = &duration
	row.StorageMode = in.StorageMode
	row.CompletedAt = &completedAt
	row.HasAssets = true
	r.rows[in.ID] = row
	delete(r.claimedAt, in.ID)
	r.touch(in.ID)
	return true, nil
}

func (r *memRepo) ClaimMirror(ctx context.Context, id string, lease time.Duration) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return false, r.updateErr
	}
	row, ok := r.rows[id]
	if !ok || row.Status != domain.VideoStatusProcessing {
		return false, nil
	}
	if at, held := r.claimedAt[id]; held && time.Since(at) < lease {
		return false, nil
	}
	r.claimedAt[id] = time.Now()
	r.claims++
	return true, nil
}

func (r *memRepo) ReleaseMirror(ctx context.Context, id string, reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return r.updateErr
	}
	row, ok := r.rows[id]
	if !ok || row.Status != domain.VideoStatusProcessing {
		return nil
	}
	delete(r.claimedAt, id)
	r.releases = append(r.releases, id)
	row.Progress = 100
	r.rows[id] = row
	r.touch(id)
	return nil
}

func (r *memRepo) MarkFailed(ctx context.Context, id string, errMsg *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return r.updateErr
	}
	row, ok := r.rows[id]
	if !ok || row.Status == domain.VideoStatusCompleted {
		return nil
	}
	row.Status = domain.VideoStatusFailed
	row.Progress = 0
	row.Error = errMsg
	r.rows[id] = row
	delete(r.claimedAt, id)
	r.touch(id)
	return nil
}

func (r *memRepo) GetByID(ctx context.Context, id string) (*domain.VideoRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return nil, r.getErr
	}
	row, ok := r.rows[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &row, nil
}

func (r *memRepo) DeleteByID(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.deleteErr != nil {
		return r.deleteErr
	}
	delete(r.rows, id)
	return nil
}

func (r *memRepo) DeleteAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = map[string]domain.VideoRecord{}
	return nil
}

func (r *memRepo) ListRecent(ctx context.Context, limit int) ([]domain.VideoRecord, error) {
	return r.ListByStatus(ctx, "", limit)
}

func (r *memRepo) ListByStatus(ctx context.Context, status domain.VideoStatus, limit int) ([]domain.VideoRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.VideoRecord
	for _, row := range r.rows {
		if status != "" && row.Status != status {
			continue
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return r.touched[out[i].ID] < r.touched[out[j].ID] })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeStore struct {
	mu        sync.Mutex
	mode      domain.StorageMode
	objects   map[string][]byte
	puts      map[domain.Variant]int
	putErr    map[domain.Variant]error
	removeErr map[domain.Variant]error
	removed   []domain.Variant
}

func newFakeStore(mode domain.StorageMode) *fakeStore {
	return &fakeStore{
		mode:      mode,
		objects:   map[string][]byte{},
		puts:      map[domain.Variant]int{},
		putErr:    map[domain.Variant]error{},
		removeErr: map[domain.Variant]error{},
	}
}

func (s *fakeStore) Mode() domain.StorageMode { return s.mode }

func (s *fakeStore) Put(ctx context.Context, jobID string, variant domain.Variant, data []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.putErr[variant]; err != nil {
		return "", err
	}
	s.puts[variant]++
	key := variant.ObjectKey(jobID)
	s.objects[key] = data
	return "https://cdn.test/" + key, nil
}

func (s *fakeStore) Remove(ctx context.Context, jobID string, variant domain.Variant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removed = append(s.removed, variant)
	if err := s.removeErr[variant]; err != nil {
		return err
	}
	delete(s.objects, variant.ObjectKey(jobID))
	return nil
}
