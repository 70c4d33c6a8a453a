package photo_test

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"net/textproto"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gearshare/internal/item"
	"gearshare/internal/photo"
)

// fakeRepository is an in-memory photo.Repository for service tests.
type fakeRepository struct {
	photos map[string]*photo.Photo
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{photos: make(map[string]*photo.Photo)}
}

func (r *fakeRepository) Create(ctx context.Context, p *photo.Photo) error {
	p.CreatedAt = time.Now().UTC()
	stored := *p
	r.photos[p.ID] = &stored
	return nil
}

func (r *fakeRepository) GetByID(ctx context.Context, id string) (*photo.Photo, error) {
	p, ok := r.photos[id]
	if !ok {
		return nil, photo.ErrNotFound
	}
	out := *p
	return &out, nil
}

func (r *fakeRepository) ListByItem(ctx context.Context, itemID string) ([]*photo.Photo, error) {
	var out []*photo.Photo
	for _, p := range r.photos {
		if p.ItemID == itemID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeRepository) Delete(ctx context.Context, id string) error {
	if _, ok := r.photos[id]; !ok {
		return photo.ErrNotFound
	}
	delete(r.photos, id)
	return nil
}

// fakeStorage keeps saved files in memory.
type fakeStorage struct {
	mu    sync.Mutex
	files map[string][]byte
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{files: make(map[string][]byte)}
}

func (s *fakeStorage) Save(ctx context.Context, path string, content io.Reader) error {
	data, err := io.ReadAll(content)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[path] = data
	return nil
}

func (s *fakeStorage) Get(ctx context.Context, path string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.files[path]
	if !ok {
		return nil, errors.New("file not found")
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *fakeStorage) Delete(ctx context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, path)
	return nil
}

func (s *fakeStorage) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.files)
}

type stubItemService struct {
	items map[string]*item.Item
}

func (s *stubItemService) Create(ctx context.Context, req item.CreateRequest) (*item.Item, error) {
	return nil, errors.New("not implemented")
}

func (s *stubItemService) GetByID(ctx context.Context, id string) (*item.Item, error) {
	it, ok := s.items[id]
	if !ok {
		return nil, item.ErrNotFound
	}
	out := *it
	return &out, nil
}

func (s *stubItemService) Update(ctx context.Context, id string, req item.UpdateRequest, updaterUserID string) (*item.Item, error) {
	return nil, errors.New("not implemented")
}

func (s *stubItemService) ListByOwner(ctx context.Context, ownerID string, from, size int) ([]*item.Item, int, error) {
	return nil, 0, errors.New("not implemented")
}

func (s *stubItemService) Search(ctx context.Context, text string, from, size int) ([]*item.Item, int, error) {
	return nil, 0, errors.New("not implemented")
}

func newTestService() (photo.Service, *fakeRepository, *fakeStorage) {
	repo := newFakeRepository()
	store := newFakeStorage()
	items := &stubItemService{items: map[string]*item.Item{
		"item-1": {ID: "item-1", OwnerID: "owner-1", Name: "Power Drill", Available: true},
	}}
	return photo.NewService(repo, items, store), repo, store
}

// makeFileHeader builds a real multipart.FileHeader the way gin would hand it
// to the handler.
func makeFileHeader(t *testing.T, filename, contentType string, content []byte) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="photo"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(32<<20))

	return req.MultipartForm.File["photo"][0]
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 400, 300))
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestUploadPhoto(t *testing.T) {
	ctx := context.Background()

	t.Run("Owner Uploads Image", func(t *testing.T) {
		svc, repo, store := newTestService()
		fh := makeFileHeader(t, "drill.png", "image/png", pngBytes(t))

		p, err := svc.Upload(ctx, fh, "item-1", "owner-1")
		require.NoError(t, err)

		assert.NotEmpty(t, p.ID)
		assert.Equal(t, "item-1", p.ItemID)
		assert.Equal(t, "drill.png", p.Filename)
		assert.Equal(t, "image/png", p.ContentType)
		require.NotNil(t, p.ThumbnailPath, "A decodable image should get a thumbnail")

		_, err = uuid.Parse(p.ID)
		assert.NoError(t, err)

		// Original plus thumbnail on disk, one record in the repository.
		assert.Equal(t, 2, store.count())
		_, err = repo.GetByID(ctx, p.ID)
		assert.NoError(t, err)
	})

	t.Run("Non-Owner Denied", func(t *testing.T) {
		svc, _, _ := newTestService()
		fh := makeFileHeader(t, "drill.png", "image/png", pngBytes(t))

		_, err := svc.Upload(ctx, fh, "item-1", "stranger")
		assert.ErrorIs(t, err, photo.ErrPermissionDenied)
	})

	t.Run("Unknown Item", func(t *testing.T) {
		svc, _, _ := newTestService()
		fh := makeFileHeader(t, "drill.png", "image/png", pngBytes(t))

		_, err := svc.Upload(ctx, fh, "missing", "owner-1")
		assert.ErrorIs(t, err, item.ErrNotFound)
	})

	t.Run("Non-Image Content Type Rejected", func(t *testing.T) {
		svc, _, store := newTestService()
		fh := makeFileHeader(t, "notes.txt", "text/plain", []byte("not an image"))

		_, err := svc.Upload(ctx, fh, "item-1", "owner-1")
		assert.ErrorIs(t, err, photo.ErrNotAnImage)
		assert.Zero(t, store.count())
	})

	t.Run("Undecodable Image Skips Thumbnail", func(t *testing.T) {
		svc, _, store := newTestService()
		fh := makeFileHeader(t, "broken.png", "image/png", []byte("corrupt bytes"))

		p, err := svc.Upload(ctx, fh, "item-1", "owner-1")
		require.NoError(t, err)
		assert.Nil(t, p.ThumbnailPath)
		assert.Equal(t, 1, store.count())
	})
}

func TestDownloadPhoto(t *testing.T) {
	ctx := context.Background()

	svc, _, _ := newTestService()
	content := pngBytes(t)
	fh := makeFileHeader(t, "drill.png", "image/png", content)

	p, err := svc.Upload(ctx, fh, "item-1", "owner-1")
	require.NoError(t, err)

	t.Run("Original", func(t *testing.T) {
		rc, got, err := svc.Download(ctx, p.ID)
		require.NoError(t, err)
		defer rc.Close()

		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		assert.Equal(t, content, data)
		assert.Equal(t, p.ID, got.ID)
	})

	t.Run("Thumbnail", func(t *testing.T) {
		rc, _, err := svc.DownloadThumbnail(ctx, p.ID)
		require.NoError(t, err)
		defer rc.Close()

		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		assert.NotEmpty(t, data)
	})

	t.Run("Unknown Photo", func(t *testing.T) {
		_, _, err := svc.Download(ctx, "missing")
		assert.ErrorIs(t, err, photo.ErrNotFound)
	})
}

func TestDeletePhoto(t *testing.T) {
	ctx := context.Background()

	t.Run("Owner Deletes", func(t *testing.T) {
		svc, repo, store := newTestService()
		fh := makeFileHeader(t, "drill.png", "image/png", pngBytes(t))

		p, err := svc.Upload(ctx, fh, "item-1", "owner-1")
		require.NoError(t, err)

		require.NoError(t, svc.Delete(ctx, p.ID, "owner-1"))

		_, err = repo.GetByID(ctx, p.ID)
		assert.ErrorIs(t, err, photo.ErrNotFound)
		assert.Zero(t, store.count(), "Storage should be cleaned up")
	})

	t.Run("Non-Owner Denied", func(t *testing.T) {
		svc, _, _ := newTestService()
		fh := makeFileHeader(t, "drill.png", "image/png", pngBytes(t))

		p, err := svc.Upload(ctx, fh, "item-1", "owner-1")
		require.NoError(t, err)

		err = svc.Delete(ctx, p.ID, "stranger")
		assert.ErrorIs(t, err, photo.ErrPermissionDenied)
	})
}

func TestListPhotosByItem(t *testing.T) {
	ctx := context.Background()

	svc, _, _ := newTestService()
	for i := 0; i < 2; i++ {
		fh := makeFileHeader(t, "drill.png", "image/png", pngBytes(t))
		_, err := svc.Upload(ctx, fh, "item-1", "owner-1")
		require.NoError(t, err)
	}

	photos, err := svc.ListByItem(ctx, "item-1")
	require.NoError(t, err)
	assert.Len(t, photos, 2)

	_, err = svc.ListByItem(ctx, "missing")
	assert.ErrorIs(t, err, item.ErrNotFound)
}
