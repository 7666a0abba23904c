package source

import (
	"context"
	stderrors "errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/vango-dev/vbind/internal/errors"
)

type fakeStore struct {
	objects map[string]string
	types   map[string]string
	getErr  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: map[string]string{}, types: map[string]string{}}
}

func (f *fakeStore) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	body, ok := f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{Message: aws.String("not found")}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(body))}, nil
}

func (f *fakeStore) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	key := aws.ToString(in.Bucket) + "/" + aws.ToString(in.Key)
	f.objects[key] = string(data)
	f.types[key] = aws.ToString(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func code(err error) string {
	var ve *errors.VbindError
	if stderrors.As(err, &ve) {
		return ve.Code
	}
	return ""
}

func TestParseLocation(t *testing.T) {
	tests := []struct {
		in      string
		want    Location
		wantErr bool
	}{
		{in: "index.html", want: Location{Path: "index.html"}},
		{in: "s3://bucket/a/b.json", want: Location{Bucket: "bucket", Key: "a/b.json"}},
		{in: "s3://bucket", wantErr: true},
		{in: "s3:///key", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseLocation(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseLocation(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseLocation(%q) = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseLocation(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
		if got.String() != tt.in {
			t.Errorf("String() = %q, want %q", got.String(), tt.in)
		}
	}
}

func TestReadLocalFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "index.html")
	if err := os.WriteFile(path, []byte("<p>{{a}}</p>"), 0644); err != nil {
		t.Fatal(err)
	}

	l := New()
	data, err := l.Read(context.Background(), path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(data) != "<p>{{a}}</p>" {
		t.Errorf("data = %q", data)
	}

	_, err = l.Read(context.Background(), filepath.Join(dir, "missing.html"))
	if code(err) != errors.CodeSourceNotFound {
		t.Errorf("missing file err = %v", err)
	}
}

func TestReadS3(t *testing.T) {
	store := newFakeStore()
	store.objects["fixtures/data.json"] = `{"msg": "hi"}`
	l := New(WithObjectStore(store))

	data, err := l.ReadData(context.Background(), "s3://fixtures/data.json")
	if err != nil {
		t.Fatalf("ReadData: %v", err)
	}
	if data["msg"] != "hi" {
		t.Errorf("data = %v", data)
	}

	_, err = l.Read(context.Background(), "s3://fixtures/nope.json")
	if code(err) != errors.CodeSourceNotFound {
		t.Errorf("missing key err = %v", err)
	}

	store.getErr = stderrors.New("access denied")
	_, err = l.Read(context.Background(), "s3://fixtures/data.json")
	if code(err) != errors.CodeSourceFetch {
		t.Errorf("fetch err = %v", err)
	}
}

func TestReadDataRejectsNonObjects(t *testing.T) {
	store := newFakeStore()
	store.objects["b/list.json"] = `[1, 2]`
	store.objects["b/bad.json"] = "{\n  oops\n}"
	store.objects["b/null.json"] = `null`
	l := New(WithObjectStore(store))

	if _, err := l.ReadData(context.Background(), "s3://b/list.json"); code(err) != errors.CodeNotMapping {
		t.Errorf("list err = %v", err)
	}
	_, err := l.ReadData(context.Background(), "s3://b/bad.json")
	var ve *errors.VbindError
	if !stderrors.As(err, &ve) || ve.Location == nil || ve.Location.Line != 2 {
		t.Errorf("syntax err = %v", err)
	}
	data, err := l.ReadData(context.Background(), "s3://b/null.json")
	if err != nil || data == nil || len(data) != 0 {
		t.Errorf("null data = %v, %v", data, err)
	}
}

func TestWrite(t *testing.T) {
	store := newFakeStore()
	l := New(WithObjectStore(store))

	if err := l.Write(context.Background(), "s3://out/page.html", []byte("<p>1</p>"), "text/html"); err != nil {
		t.Fatalf("Write s3: %v", err)
	}
	if store.objects["out/page.html"] != "<p>1</p>" || store.types["out/page.html"] != "text/html" {
		t.Errorf("stored = %q (%q)", store.objects["out/page.html"], store.types["out/page.html"])
	}

	path := filepath.Join(t.TempDir(), "nested", "page.html")
	if err := l.Write(context.Background(), path, []byte("ok"), ""); err != nil {
		t.Fatalf("Write file: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil || string(got) != "ok" {
		t.Errorf("file = %q, %v", got, err)
	}
}

// isolateAWS points the SDK at files under a temp dir and clears the
// environment credential chain.
func isolateAWS(t *testing.T, credentials, cfg string) {
	t.Helper()
	dir := t.TempDir()
	credsPath := filepath.Join(dir, "credentials")
	cfgPath := filepath.Join(dir, "config")
	if err := os.WriteFile(credsPath, []byte(credentials), 0600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(cfgPath, []byte(cfg), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", credsPath)
	t.Setenv("AWS_CONFIG_FILE", cfgPath)
	for _, k := range []string{
		"AWS_ACCESS_KEY_ID", "AWS_SECRET_ACCESS_KEY", "AWS_SESSION_TOKEN",
		"AWS_PROFILE", "AWS_DEFAULT_PROFILE", "AWS_REGION", "AWS_DEFAULT_REGION",
		"AWS_ROLE_ARN", "AWS_WEB_IDENTITY_TOKEN_FILE",
	} {
		t.Setenv(k, "")
	}
	t.Setenv("AWS_EC2_METADATA_DISABLED", "true")
}

func TestNewS3ClientSharedCredentials(t *testing.T) {
	isolateAWS(t,
		"[default]\naws_access_key_id = AKIDSHARED\naws_secret_access_key = shared-secret\n",
		"[default]\nregion = eu-west-1\n",
	)

	ctx := context.Background()
	c, err := NewS3Client(ctx, "", "")
	if err != nil {
		t.Fatal(err)
	}
	opts := c.Options()
	if opts.Region != "eu-west-1" {
		t.Errorf("region = %q, want the configured eu-west-1", opts.Region)
	}
	if opts.UsePathStyle || opts.BaseEndpoint != nil {
		t.Errorf("path-style %v endpoint %q, want virtual-hosted defaults", opts.UsePathStyle, aws.ToString(opts.BaseEndpoint))
	}
	creds, err := opts.Credentials.Retrieve(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if creds.AccessKeyID != "AKIDSHARED" || creds.SecretAccessKey != "shared-secret" {
		t.Errorf("creds = %q/%q", creds.AccessKeyID, creds.SecretAccessKey)
	}
}

func TestNewS3ClientOverrides(t *testing.T) {
	isolateAWS(t, "", "[default]\nregion = eu-west-1\n")
	t.Setenv("AWS_ACCESS_KEY_ID", "AKIDENV")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "env-secret")

	ctx := context.Background()
	c, err := NewS3Client(ctx, "us-east-1", "http://localhost:9000")
	if err != nil {
		t.Fatal(err)
	}
	opts := c.Options()
	if opts.Region != "us-east-1" || !opts.UsePathStyle || aws.ToString(opts.BaseEndpoint) != "http://localhost:9000" {
		t.Errorf("options = region %q path-style %v endpoint %q", opts.Region, opts.UsePathStyle, aws.ToString(opts.BaseEndpoint))
	}
	creds, err := opts.Credentials.Retrieve(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if creds.AccessKeyID != "AKIDENV" {
		t.Errorf("access key = %q, want AKIDENV", creds.AccessKeyID)
	}
}
