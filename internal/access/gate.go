// Package access decides which catalog entries a caller may watch.
package access

import (
	"context"

	"github.com/fitflix/backend/internal/apperr"
	"github.com/fitflix/backend/internal/catalog"
	"github.com/fitflix/backend/internal/logging"
	"github.com/fitflix/backend/internal/models"
)

const (
	MsgVideoNotFound = "Video not found."
	MsgAccessDenied  = "Access denied. Please purchase the video to watch."
)

// Decision is the outcome of an access check.
type Decision string

const (
	DecisionGranted  Decision = "granted"
	DecisionDenied   Decision = "denied"
	DecisionNotFound Decision = "not_found"
)

// URLResolver maps a stored media URL to the one handed to clients.
type URLResolver interface {
	Resolve(ctx context.Context, raw string) (string, error)
}

// Recorder observes access decisions.
type Recorder interface {
	RecordAccess(decision Decision, videoType models.VideoType)
}

// Gate guards catalog URLs behind the caller's purchase set.
type Gate struct {
	Catalog  *catalog.Catalog
	URLs     URLResolver
	Recorder Recorder
}

// ListVideos returns every catalog entry with paid URLs stripped. Free URLs
// are resolved like GetVideo does; one that cannot be resolved is dropped
// rather than exposing the stored location.
func (g Gate) ListVideos(ctx context.Context) []models.Video {
	videos := g.Catalog.All()
	for i := range videos {
		if videos[i].IsPaid() {
			videos[i].URL = ""
			continue
		}
		if g.URLs == nil {
			continue
		}
		resolved, err := g.URLs.Resolve(ctx, videos[i].URL)
		if err != nil {
			logging.FromContext(ctx).Warn("free video url unavailable", "videoId", videos[i].ID, "error", err)
			resolved = ""
		}
		videos[i].URL = resolved
	}
	return videos
}

// GetVideo returns the full record when identity may watch it.
func (g Gate) GetVideo(ctx context.Context, id int, identity models.Identity) (models.Video, error) {
	logger := logging.FromContext(ctx)

	video, ok := g.Catalog.Find(id)
	if !ok {
		g.record(DecisionNotFound, "")
		return models.Video{}, apperr.NotFound(MsgVideoNotFound)
	}

	if video.IsPaid() && !identity.Purchases.Contains(id) {
		logger.Info("paid video access denied", "videoId", id, "userId", identity.ID)
		g.record(DecisionDenied, video.Type)
		return models.Video{}, apperr.Forbidden(MsgAccessDenied)
	}

	if g.URLs != nil {
		resolved, err := g.URLs.Resolve(ctx, video.URL)
		if err != nil {
			return models.Video{}, apperr.Internal("Unable to prepare video.", err)
		}
		video.URL = resolved
	}

	g.record(DecisionGranted, video.Type)
	return video, nil
}

func (g Gate) record(decision Decision, videoType models.VideoType) {
	if g.Recorder != nil {
		g.Recorder.RecordAccess(decision, videoType)
	}
}
