package source

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/vango-dev/vbind/internal/errors"
)

// S3Scheme prefixes locations stored in S3.
const S3Scheme = "s3://"

// ObjectStore is the subset of *s3.Client the loader needs.
type ObjectStore interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Location is a parsed source location.
type Location struct {
	// Bucket and Key are set for s3:// locations.
	Bucket string
	Key    string

	// Path is set for local files.
	Path string
}

// IsS3 reports whether the location is in S3.
func (l Location) IsS3() bool {
	return l.Bucket != ""
}

// String returns the location in the form it was parsed from.
func (l Location) String() string {
	if l.IsS3() {
		return S3Scheme + l.Bucket + "/" + l.Key
	}
	return l.Path
}

// ParseLocation parses a file path or an s3://bucket/key URL.
func ParseLocation(s string) (Location, error) {
	if s == "" {
		return Location{}, errors.New(errors.CodeSourceNotFound).WithDetail("empty location")
	}
	rest, ok := strings.CutPrefix(s, S3Scheme)
	if !ok {
		return Location{Path: s}, nil
	}
	bucket, key, _ := strings.Cut(rest, "/")
	if bucket == "" || key == "" {
		return Location{}, errors.New(errors.CodeSourceNotFound).
			WithDetail(fmt.Sprintf("%q is not of the form s3://bucket/key", s))
	}
	return Location{Bucket: bucket, Key: key}, nil
}

// Loader reads and writes templates, data and rendered output on the local
// filesystem or in S3.
type Loader struct {
	store    ObjectStore
	region   string
	endpoint string
	logger   *slog.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithObjectStore sets the S3 client. Tests pass a fake.
func WithObjectStore(store ObjectStore) Option {
	return func(l *Loader) {
		l.store = store
	}
}

// WithS3Config sets the region and an optional endpoint override used when
// the loader builds its own client.
func WithS3Config(region, endpoint string) Option {
	return func(l *Loader) {
		l.region = region
		l.endpoint = endpoint
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// New creates a Loader. The S3 client is built on first use unless one was
// provided.
func New(opts ...Option) *Loader {
	l := &Loader{logger: slog.Default()}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Read returns the contents at loc.
func (l *Loader) Read(ctx context.Context, loc string) ([]byte, error) {
	parsed, err := ParseLocation(loc)
	if err != nil {
		return nil, err
	}
	if !parsed.IsS3() {
		data, err := os.ReadFile(parsed.Path)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, errors.New(errors.CodeSourceNotFound).
					WithLocation(parsed.Path, 0, 0).
					Wrap(err)
			}
			return nil, errors.New(errors.CodeSourceFetch).Wrap(err)
		}
		return data, nil
	}

	store, err := l.objectStore(ctx)
	if err != nil {
		return nil, err
	}
	l.logger.Debug("source: get object", "bucket", parsed.Bucket, "key", parsed.Key)
	out, err := store.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(parsed.Bucket),
		Key:    aws.String(parsed.Key),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if stderrors.As(err, &noKey) {
			return nil, errors.New(errors.CodeSourceNotFound).
				WithDetail(parsed.String() + " does not exist").
				Wrap(err)
		}
		return nil, errors.New(errors.CodeSourceFetch).Wrap(err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, errors.New(errors.CodeSourceFetch).Wrap(err)
	}
	return data, nil
}

// ReadData reads a JSON object from loc.
func (l *Loader) ReadData(ctx context.Context, loc string) (map[string]any, error) {
	raw, err := l.Read(ctx, loc)
	if err != nil {
		return nil, err
	}
	return DecodeData(loc, raw)
}

// DecodeData decodes raw as a JSON object. loc is only used to locate
// syntax errors. JSON null decodes to an empty object.
func DecodeData(loc string, raw []byte) (map[string]any, error) {
	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		e := errors.New(errors.CodeNotMapping).Wrap(err)
		var syntaxErr *json.SyntaxError
		if stderrors.As(err, &syntaxErr) {
			e.WithOffset(loc, raw, syntaxErr.Offset)
		}
		return nil, e
	}
	if data == nil {
		data = map[string]any{}
	}
	return data, nil
}

// Write stores data at loc. Local parent directories are created.
func (l *Loader) Write(ctx context.Context, loc string, data []byte, contentType string) error {
	parsed, err := ParseLocation(loc)
	if err != nil {
		return err
	}
	if !parsed.IsS3() {
		if dir := filepath.Dir(parsed.Path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return errors.New(errors.CodeSourceFetch).Wrap(err)
			}
		}
		if err := os.WriteFile(parsed.Path, data, 0644); err != nil {
			return errors.New(errors.CodeSourceFetch).Wrap(err)
		}
		return nil
	}

	in := &s3.PutObjectInput{
		Bucket: aws.String(parsed.Bucket),
		Key:    aws.String(parsed.Key),
		Body:   bytes.NewReader(data),
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}
	store, err := l.objectStore(ctx)
	if err != nil {
		return err
	}
	l.logger.Debug("source: put object", "bucket", parsed.Bucket, "key", parsed.Key, "bytes", len(data))
	if _, err := store.PutObject(ctx, in); err != nil {
		return errors.New(errors.CodeSourceFetch).
			WithDetail("The object could not be written to S3.").
			Wrap(err)
	}
	return nil
}

func (l *Loader) objectStore(ctx context.Context) (ObjectStore, error) {
	if l.store == nil {
		client, err := NewS3Client(ctx, l.region, l.endpoint)
		if err != nil {
			return nil, errors.New(errors.CodeSourceFetch).
				WithDetail("The AWS configuration could not be loaded.").
				Wrap(err)
		}
		l.store = client
	}
	return l.store, nil
}

// NewS3Client builds an S3 client from the default AWS configuration chain
// (environment, shared config and credentials files, SSO, instance roles).
// A non-empty region overrides the configured one. A non-empty endpoint
// switches to path-style addressing, as S3-compatible stores such as MinIO
// expect.
func NewS3Client(ctx context.Context, region, endpoint string) (*s3.Client, error) {
	var opts []func(*config.LoadOptions) error
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	}), nil
}
