// Package catalog holds the fixed list of workout videos served by the site.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"

	"github.com/fitflix/backend/internal/models"
)

const sampleURL = "https://test-videos.co.uk/vids/bigbuckbunny/mp4/h264/360/Big_Buck_Bunny_360_10s_1MB.mp4"

// Catalog is an immutable, ordered set of videos.
type Catalog struct {
	videos []models.Video
	byID   map[int]int
}

// New builds a catalog from the provided records. Later duplicates of an id
// are ignored.
func New(videos []models.Video) *Catalog {
	c := &Catalog{byID: make(map[int]int, len(videos))}
	for _, v := range videos {
		if _, dup := c.byID[v.ID]; dup {
			continue
		}
		c.byID[v.ID] = len(c.videos)
		c.videos = append(c.videos, v)
	}
	return c
}

// Default returns the catalog the site ships with.
func Default() *Catalog {
	return New([]models.Video{
		{ID: 1, Title: "Free Yoga Basics", Description: "Learn the fundamentals of yoga.", URL: sampleURL, Type: models.VideoTypeFree},
		{ID: 2, Title: "Advanced HIIT Workout", Description: "High-intensity interval training for advanced users.", URL: sampleURL, Type: models.VideoTypePaid, Price: price(499)},
		{ID: 3, Title: "Beginner Cardio", Description: "Easy cardio exercises for beginners.", URL: sampleURL, Type: models.VideoTypeFree},
		{ID: 4, Title: "Strength Training Pro", Description: "Build muscle with professional techniques.", URL: sampleURL, Type: models.VideoTypePaid, Price: price(799)},
	})
}

// Load reads a JSON array of videos from path. Every entry needs a positive id,
// a title and a known type; paid entries also need a price.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}

	var videos []models.Video
	if err := json.Unmarshal(data, &videos); err != nil {
		return nil, fmt.Errorf("decode catalog %s: %w", path, err)
	}

	for i, v := range videos {
		switch {
		case v.ID <= 0:
			return nil, fmt.Errorf("catalog entry %d: id must be positive", i)
		case v.Title == "":
			return nil, fmt.Errorf("catalog entry %d: title is required", i)
		case v.Type != models.VideoTypeFree && v.Type != models.VideoTypePaid:
			return nil, fmt.Errorf("catalog entry %d: unknown type %q", i, v.Type)
		case v.IsPaid() && v.Price == nil:
			return nil, fmt.Errorf("catalog entry %d: paid video needs a price", i)
		}
	}

	return New(videos), nil
}

// All returns a copy of every record in catalog order.
func (c *Catalog) All() []models.Video {
	return slices.Clone(c.videos)
}

// Find returns the video with the given id.
func (c *Catalog) Find(id int) (models.Video, bool) {
	idx, ok := c.byID[id]
	if !ok {
		return models.Video{}, false
	}
	return c.videos[idx], true
}

// Len reports the number of videos.
func (c *Catalog) Len() int {
	return len(c.videos)
}

func price(v float64) *float64 {
	return &v
}
