package media_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shaqyru-backend/internal/media"
	"shaqyru-backend/internal/models"
)

type memObjects struct {
	files map[string][]byte
}

func newMemObjects() *memObjects {
	return &memObjects{files: make(map[string][]byte)}
}

func (m *memObjects) Upload(path string, data []byte, contentType string) (string, error) {
	m.files[path] = data
	return m.PublicURL(path), nil
}

func (m *memObjects) Download(path string) ([]byte, error) {
	data, ok := m.files[path]
	if !ok {
		return nil, fmt.Errorf("object %s not found", path)
	}
	return data, nil
}

func (m *memObjects) Delete(path string) error {
	delete(m.files, path)
	return nil
}

func (m *memObjects) PublicURL(path string) string {
	return "https://storage.example.com/" + path
}

type memStore struct {
	records map[uuid.UUID]*models.InvitationImage
}

func newMemStore() *memStore {
	return &memStore{records: make(map[uuid.UUID]*models.InvitationImage)}
}

func (m *memStore) UpsertInvitationImage(img *models.InvitationImage) error {
	copied := *img
	m.records[img.SiteID] = &copied
	return nil
}

func (m *memStore) GetInvitationImage(siteID, userID uuid.UUID) (*models.InvitationImage, error) {
	img, ok := m.records[siteID]
	if !ok || img.UserID != userID {
		return nil, fmt.Errorf("image for site %s not found", siteID)
	}
	copied := *img
	return &copied, nil
}

type fakeRemover struct {
	calls  int
	output []byte
}

func (f *fakeRemover) RemoveBackground(ctx context.Context, image []byte, filename, bgColor string) ([]byte, error) {
	f.calls++
	return f.output, nil
}

func pipelineFixture(t *testing.T) (*media.Pipeline, *memObjects, *memStore, *fakeRemover) {
	t.Helper()
	objects := newMemObjects()
	store := newMemStore()
	remover := &fakeRemover{output: []byte("segmented")}
	return media.NewPipeline(objects, store, remover), objects, store, remover
}

func cropUpload(t *testing.T, p *media.Pipeline, userID, siteID uuid.UUID) *models.InvitationImage {
	t.Helper()
	src := pngImage(t, 100, 100)
	img, err := p.CropAndUpload(context.Background(), userID, siteID, src,
		media.Rect{X: 0, Y: 0, Width: 50, Height: 50}, 100, 100)
	require.NoError(t, err)
	return img
}

func TestPipeline_CropUploadsImmediately(t *testing.T) {
	p, objects, _, _ := pipelineFixture(t)
	userID, siteID := uuid.New(), uuid.New()

	img := cropUpload(t, p, userID, siteID)

	assert.Equal(t, media.StageOptions, img.Stage)
	assert.False(t, img.BgRemoved)
	finalKey := fmt.Sprintf("users/%s/sites/%s/invitation.jpg", userID, siteID)
	assert.Contains(t, objects.files, finalKey, "crop must be stored at the final path right away")
}

func TestPipeline_ConfirmOverwritesFinal(t *testing.T) {
	p, objects, _, remover := pipelineFixture(t)
	userID, siteID := uuid.New(), uuid.New()
	cropUpload(t, p, userID, siteID)

	finalKey := fmt.Sprintf("users/%s/sites/%s/invitation.jpg", userID, siteID)
	candKey := fmt.Sprintf("users/%s/sites/%s/invitation_candidate.jpg", userID, siteID)
	cropped := objects.files[finalKey]

	img, err := p.RemoveBackground(context.Background(), userID, siteID)
	require.NoError(t, err)
	assert.Equal(t, media.StageResult, img.Stage)
	assert.Equal(t, 1, remover.calls)
	assert.Equal(t, cropped, objects.files[finalKey], "final image stays untouched while a candidate is pending")
	assert.Equal(t, []byte("segmented"), objects.files[candKey])

	img, err = p.Confirm(context.Background(), userID, siteID)
	require.NoError(t, err)
	assert.Equal(t, media.StageFinal, img.Stage)
	assert.True(t, img.BgRemoved)
	assert.Equal(t, []byte("segmented"), objects.files[finalKey], "confirm promotes the candidate over the crop")
	assert.NotContains(t, objects.files, candKey)
}

func TestPipeline_DiscardKeepsCrop(t *testing.T) {
	p, objects, _, _ := pipelineFixture(t)
	userID, siteID := uuid.New(), uuid.New()
	cropUpload(t, p, userID, siteID)

	finalKey := fmt.Sprintf("users/%s/sites/%s/invitation.jpg", userID, siteID)
	candKey := fmt.Sprintf("users/%s/sites/%s/invitation_candidate.jpg", userID, siteID)
	cropped := objects.files[finalKey]

	_, err := p.RemoveBackground(context.Background(), userID, siteID)
	require.NoError(t, err)

	img, err := p.Discard(context.Background(), userID, siteID)
	require.NoError(t, err)
	assert.Equal(t, media.StageOptions, img.Stage)
	assert.False(t, img.BgRemoved)
	assert.Equal(t, cropped, objects.files[finalKey], "discard leaves the original crop as final")
	assert.NotContains(t, objects.files, candKey)
}

func TestPipeline_RecropReplacesPendingCandidate(t *testing.T) {
	p, objects, _, _ := pipelineFixture(t)
	userID, siteID := uuid.New(), uuid.New()
	cropUpload(t, p, userID, siteID)

	_, err := p.RemoveBackground(context.Background(), userID, siteID)
	require.NoError(t, err)

	candKey := fmt.Sprintf("users/%s/sites/%s/invitation_candidate.jpg", userID, siteID)
	require.Contains(t, objects.files, candKey)

	img := cropUpload(t, p, userID, siteID)
	assert.Equal(t, media.StageOptions, img.Stage)
	assert.NotContains(t, objects.files, candKey, "a new crop drops the stale candidate")
}

func TestPipeline_ConfirmWithoutCandidateFails(t *testing.T) {
	p, _, _, _ := pipelineFixture(t)
	userID, siteID := uuid.New(), uuid.New()
	cropUpload(t, p, userID, siteID)

	_, err := p.Confirm(context.Background(), userID, siteID)
	assert.Error(t, err)
	_, err = p.Discard(context.Background(), userID, siteID)
	assert.Error(t, err)
}
