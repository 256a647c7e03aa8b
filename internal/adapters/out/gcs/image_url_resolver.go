// internal/adapters/out/gcs/image_url_resolver.go
package gcs

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"cloud.google.com/go/storage"
)

const defaultSignedURLTTL = 15 * time.Minute

// signFunc matches (*storage.BucketHandle).SignedURL.
type signFunc func(bucket, object string, opts *storage.SignedURLOptions) (string, error)

// ImageURLResolver turns a product's stored image reference into a URL the
// storefront can render.
//
// stored can be:
// - http(s)://... (returned as-is, unless it points at GCS)
// - gs://bucket/object or https://storage.googleapis.com/bucket/object
// - objectPath (treated as object path within Bucket)
//
// With a storage client the URL is a V4 signed GET; without one (or if signing
// fails) it is the public storage.googleapis.com URL.
type ImageURLResolver struct {
	Bucket string
	TTL    time.Duration

	sign signFunc
	now  func() time.Time
}

func NewImageURLResolver(client *storage.Client, bucket string) *ImageURLResolver {
	r := &ImageURLResolver{
		Bucket: strings.TrimSpace(bucket),
		TTL:    defaultSignedURLTTL,
		now:    time.Now,
	}
	if client != nil {
		r.sign = func(b, obj string, opts *storage.SignedURLOptions) (string, error) {
			return client.Bucket(b).SignedURL(obj, opts)
		}
	}
	return r
}

func (r *ImageURLResolver) ResolveImageURL(_ context.Context, stored string) (string, error) {
	p := strings.TrimSpace(stored)
	if p == "" {
		return "", nil
	}

	bucket, obj, ok := ParseGCSURL(p)
	if !ok {
		if strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://") {
			return p, nil
		}
		bucket, obj = r.Bucket, strings.TrimLeft(p, "/")
	}
	if bucket == "" {
		return "", fmt.Errorf("gcs: no bucket for image %q", p)
	}

	if r.sign != nil {
		u, err := r.sign(bucket, obj, &storage.SignedURLOptions{
			Scheme:  storage.SigningSchemeV4,
			Method:  "GET",
			Expires: r.now().UTC().Add(r.ttl()),
		})
		if err == nil {
			return u, nil
		}
	}
	return PublicURL(bucket, obj), nil
}

func (r *ImageURLResolver) ttl() time.Duration {
	if r.TTL <= 0 {
		return defaultSignedURLTTL
	}
	return r.TTL
}

// PublicURL builds https://storage.googleapis.com/<bucket>/<object>.
func PublicURL(bucket, objectPath string) string {
	obj := strings.TrimLeft(strings.TrimSpace(objectPath), "/")
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", strings.TrimSpace(bucket), obj)
}

// ParseGCSURL returns (bucket, objectPath, ok) for:
//   - gs://<bucket>/<object>
//   - https://storage.googleapis.com/<bucket>/<object>
//   - https://storage.cloud.google.com/<bucket>/<object>
func ParseGCSURL(u string) (string, string, bool) {
	parsed, err := url.Parse(strings.TrimSpace(u))
	if err != nil {
		return "", "", false
	}

	var p string
	switch {
	case parsed.Scheme == "gs":
		p = parsed.Host + "/" + strings.TrimLeft(parsed.EscapedPath(), "/")
	case strings.EqualFold(parsed.Host, "storage.googleapis.com"), strings.EqualFold(parsed.Host, "storage.cloud.google.com"):
		p = strings.TrimLeft(parsed.EscapedPath(), "/")
	default:
		return "", "", false
	}

	parts := strings.SplitN(p, "/", 2)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	objectPath, err := url.PathUnescape(parts[1])
	if err != nil {
		return "", "", false
	}
	return parts[0], objectPath, true
}
