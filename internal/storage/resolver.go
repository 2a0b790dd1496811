package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// ErrStorageUnavailable indicates an s3:// URL was requested but no object
// store is configured.
var ErrStorageUnavailable = errors.New("media storage unavailable")

// Location addresses an object in a bucket.
type Location struct {
	Bucket string
	Key    string
}

func (l Location) String() string {
	return "s3://" + l.Bucket + "/" + l.Key
}

// ParseLocation parses an s3://bucket/key URL. ok is false for any other
// scheme.
func ParseLocation(raw string) (loc Location, ok bool, err error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Location{}, false, fmt.Errorf("parse media url: %w", err)
	}
	if u.Scheme != "s3" {
		return Location{}, false, nil
	}
	key := strings.TrimLeft(u.Path, "/")
	if u.Host == "" || key == "" {
		return Location{}, true, fmt.Errorf("media url %q must name a bucket and key", raw)
	}
	return Location{Bucket: u.Host, Key: key}, true, nil
}

// Presigner issues time-limited download URLs.
type Presigner interface {
	Presign(ctx context.Context, loc Location, ttl time.Duration) (string, error)
}

// URLResolver turns catalog URLs into playable ones. Plain http(s) URLs pass
// through; s3:// URLs are presigned and cached for half their lifetime.
type URLResolver struct {
	presigner Presigner
	ttl       time.Duration
	cache     *gocache.Cache
}

// NewURLResolver returns a resolver. presigner may be nil when no object store
// is configured.
func NewURLResolver(presigner Presigner, ttl time.Duration) *URLResolver {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &URLResolver{
		presigner: presigner,
		ttl:       ttl,
		cache:     gocache.New(ttl/2, ttl),
	}
}

// Resolve returns the URL a client should use to play the video.
func (r *URLResolver) Resolve(ctx context.Context, raw string) (string, error) {
	loc, isS3, err := ParseLocation(raw)
	if err != nil {
		return "", err
	}
	if !isS3 {
		return raw, nil
	}
	if r == nil || r.presigner == nil {
		return "", ErrStorageUnavailable
	}

	if cached, ok := r.cache.Get(raw); ok {
		return cached.(string), nil
	}

	signed, err := r.presigner.Presign(ctx, loc, r.ttl)
	if err != nil {
		return "", err
	}
	r.cache.Set(raw, signed, gocache.DefaultExpiration)
	return signed, nil
}
