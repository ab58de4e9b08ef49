package media

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"shaqyru-backend/internal/models"
)

// Stages of the image pipeline, in order. "options" means a cropped image
// has been uploaded and is the current final; "result" means a
// background-removed candidate is awaiting a confirm or discard decision.
const (
	StageOptions = "options"
	StageResult  = "result"
	StageFinal   = "final"
)

const whiteBackground = "FFFFFF"

// ObjectStore is the slice of the storage client the pipeline uses.
type ObjectStore interface {
	Upload(path string, data []byte, contentType string) (string, error)
	Download(path string) ([]byte, error)
	Delete(path string) error
	PublicURL(path string) string
}

// Store persists pipeline records.
type Store interface {
	UpsertInvitationImage(img *models.InvitationImage) error
	GetInvitationImage(siteID, userID uuid.UUID) (*models.InvitationImage, error)
}

// BackgroundRemover is satisfied by *photoroom.Client.
type BackgroundRemover interface {
	RemoveBackground(ctx context.Context, image []byte, filename, bgColor string) ([]byte, error)
}

// Pipeline implements the crop / optional background removal / confirm
// flow. The crop is uploaded to the final storage path as soon as it is
// made, so an abandoned flow still leaves a usable image; a confirmed
// background-removed variant overwrites that same object.
type Pipeline struct {
	objects ObjectStore
	store   Store
	remover BackgroundRemover
}

func NewPipeline(objects ObjectStore, store Store, remover BackgroundRemover) *Pipeline {
	return &Pipeline{
		objects: objects,
		store:   store,
		remover: remover,
	}
}

func finalPath(userID, siteID uuid.UUID) string {
	return fmt.Sprintf("users/%s/sites/%s/invitation.jpg", userID, siteID)
}

func candidatePath(userID, siteID uuid.UUID) string {
	return fmt.Sprintf("users/%s/sites/%s/invitation_candidate.jpg", userID, siteID)
}

// CropAndUpload crops the source image and immediately uploads the result
// as the provisional final image. Re-running it for the same site resets
// the pipeline: the previous crop and any pending candidate are replaced.
func (p *Pipeline) CropAndUpload(ctx context.Context, userID, siteID uuid.UUID, src []byte, rect Rect, dispW, dispH float64) (*models.InvitationImage, error) {
	cropped, err := Crop(src, rect, dispW, dispH)
	if err != nil {
		return nil, err
	}

	path := finalPath(userID, siteID)
	url, err := p.objects.Upload(path, cropped, "image/jpeg")
	if err != nil {
		return nil, fmt.Errorf("failed to upload cropped image: %w", err)
	}

	// Drop any stale candidate from an earlier run. Best effort.
	_ = p.objects.Delete(candidatePath(userID, siteID))

	img := &models.InvitationImage{
		ID:          uuid.New(),
		UserID:      userID,
		SiteID:      siteID,
		Stage:       StageOptions,
		StoragePath: path,
		StorageURL:  url,
		FileSize:    sql.NullInt64{Int64: int64(len(cropped)), Valid: true},
		MimeType:    "image/jpeg",
		BgRemoved:   false,
	}
	if err := p.store.UpsertInvitationImage(img); err != nil {
		return nil, fmt.Errorf("failed to save image record: %w", err)
	}

	return img, nil
}

// RemoveBackground runs the stored crop through segmentation with a white
// background and uploads the result as a candidate. The final image is
// untouched until Confirm.
func (p *Pipeline) RemoveBackground(ctx context.Context, userID, siteID uuid.UUID) (*models.InvitationImage, error) {
	img, err := p.store.GetInvitationImage(siteID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load image record: %w", err)
	}
	if img.Stage != StageOptions {
		return nil, fmt.Errorf("background removal requires a cropped image, current stage is %q", img.Stage)
	}

	cropped, err := p.objects.Download(img.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("failed to download cropped image: %w", err)
	}

	processed, err := p.remover.RemoveBackground(ctx, cropped, "invitation.jpg", whiteBackground)
	if err != nil {
		return nil, fmt.Errorf("failed to remove background: %w", err)
	}

	candURL, err := p.objects.Upload(candidatePath(userID, siteID), processed, "image/jpeg")
	if err != nil {
		return nil, fmt.Errorf("failed to upload candidate image: %w", err)
	}

	img.Stage = StageResult
	img.StorageURL = candURL // preview the candidate
	img.FileSize = sql.NullInt64{Int64: int64(len(processed)), Valid: true}
	if err := p.store.UpsertInvitationImage(img); err != nil {
		return nil, fmt.Errorf("failed to save image record: %w", err)
	}

	return img, nil
}

// Confirm promotes the background-removed candidate: it overwrites the
// final object and becomes the served image.
func (p *Pipeline) Confirm(ctx context.Context, userID, siteID uuid.UUID) (*models.InvitationImage, error) {
	img, err := p.store.GetInvitationImage(siteID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load image record: %w", err)
	}
	if img.Stage != StageResult {
		return nil, fmt.Errorf("nothing to confirm, current stage is %q", img.Stage)
	}

	cand := candidatePath(userID, siteID)
	processed, err := p.objects.Download(cand)
	if err != nil {
		return nil, fmt.Errorf("failed to download candidate image: %w", err)
	}

	path := finalPath(userID, siteID)
	url, err := p.objects.Upload(path, processed, "image/jpeg")
	if err != nil {
		return nil, fmt.Errorf("failed to upload final image: %w", err)
	}
	_ = p.objects.Delete(cand)

	img.Stage = StageFinal
	img.StoragePath = path
	img.StorageURL = url
	img.BgRemoved = true
	img.FileSize = sql.NullInt64{Int64: int64(len(processed)), Valid: true}
	if err := p.store.UpsertInvitationImage(img); err != nil {
		return nil, fmt.Errorf("failed to save image record: %w", err)
	}

	return img, nil
}

// Discard throws the candidate away; the crop uploaded earlier stays the
// final image.
func (p *Pipeline) Discard(ctx context.Context, userID, siteID uuid.UUID) (*models.InvitationImage, error) {
	img, err := p.store.GetInvitationImage(siteID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load image record: %w", err)
	}
	if img.Stage != StageResult {
		return nil, fmt.Errorf("nothing to discard, current stage is %q", img.Stage)
	}

	_ = p.objects.Delete(candidatePath(userID, siteID))

	img.Stage = StageOptions
	img.StoragePath = finalPath(userID, siteID)
	img.StorageURL = p.objects.PublicURL(img.StoragePath)
	img.BgRemoved = false
	if err := p.store.UpsertInvitationImage(img); err != nil {
		return nil, fmt.Errorf("failed to save image record: %w", err)
	}

	return img, nil
}
