package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"shaqyru-backend/internal/models"
	"shaqyru-backend/internal/render"
)

const (
	courseListTTL   = 10 * time.Minute
	courseDetailTTL = time.Hour
)

// Cache is a read-through Redis cache over the course catalog, plus the
// pub/sub channel that render jobs publish progress on.
type Cache struct {
	rdb *redis.Client
	db  *DatabaseClient
}

func NewCache(addr, password string, db *DatabaseClient) (*Cache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &Cache{rdb: rdb, db: db}, nil
}

func (c *Cache) Close() error {
	return c.rdb.Close()
}

type courseListPage struct {
	Courses []models.Course `json:"courses"`
	Total   int64           `json:"total"`
}

// ListCourses serves the catalog page from Redis when present, falling
// back to the database and repopulating the cache.
func (c *Cache) ListCourses(ctx context.Context, search, language string, limit, offset int) ([]models.Course, int64, error) {
	key := fmt.Sprintf("courses:list:%s:%s:%d:%d", search, language, limit, offset)

	if val, err := c.rdb.Get(ctx, key).Result(); err == nil {
		var page courseListPage
		if json.Unmarshal([]byte(val), &page) == nil {
			return page.Courses, page.Total, nil
		}
	}

	courses, total, err := c.db.ListCourses(search, language, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	if data, err := json.Marshal(courseListPage{Courses: courses, Total: total}); err == nil {
		// Cache write failures only cost us a later DB read.
		c.rdb.Set(ctx, key, data, courseListTTL)
	}

	return courses, total, nil
}

// GetCourse serves one course tree, cached for an hour. Courses change
// rarely so TTL expiry is the only invalidation.
func (c *Cache) GetCourse(ctx context.Context, courseID int64) (*models.Course, error) {
	key := fmt.Sprintf("course:detail:%d", courseID)

	if val, err := c.rdb.Get(ctx, key).Result(); err == nil {
		var course models.Course
		if json.Unmarshal([]byte(val), &course) == nil {
			return &course, nil
		}
	}

	course, err := c.db.GetCourse(courseID)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(course); err == nil {
		c.rdb.Set(ctx, key, data, courseDetailTTL)
	}

	return course, nil
}

type renderEvent struct {
	RenderID string   `json:"render_id"`
	Phase    string   `json:"phase"`
	Status   string   `json:"status"`
	DesignID string   `json:"design_id,omitempty"`
	URLs     []string `json:"urls,omitempty"`
	Error    string   `json:"error,omitempty"`
}

// PublishRenderEvent pushes a render state change onto the job's pub/sub
// channel so connected clients can stop polling early. Implements
// render.EventPublisher.
func (c *Cache) PublishRenderEvent(ctx context.Context, renderID uuid.UUID, snap render.Snapshot) error {
	payload, err := json.Marshal(renderEvent{
		RenderID: renderID.String(),
		Phase:    string(snap.Phase),
		Status:   string(snap.State),
		DesignID: snap.DesignID,
		URLs:     snap.URLs,
		Error:    snap.Err,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal render event: %w", err)
	}

	if err := c.rdb.Publish(ctx, "render:"+renderID.String(), payload).Err(); err != nil {
		return fmt.Errorf("failed to publish render event: %w", err)
	}
	return nil
}
