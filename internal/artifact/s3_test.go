package artifact

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sbenjam1n/rescuegen/internal/ledger"
	"github.com/sbenjam1n/rescuegen/internal/world"
)

type putRecord struct {
	path    string
	body    string
	headers http.Header
}

// recordingTransport answers every request with 200 and remembers PUTs.
type recordingTransport struct {
	mu   sync.Mutex
	puts []putRecord
}

func (rt *recordingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Method == http.MethodPut {
		var body []byte
		if req.Body != nil {
			body, _ = io.ReadAll(req.Body)
		}
		rt.mu.Lock()
		rt.puts = append(rt.puts, putRecord{path: req.URL.Path, body: string(body), headers: req.Header.Clone()})
		rt.mu.Unlock()
	}
	return &http.Response{
		StatusCode: http.StatusOK,
		Header:     http.Header{"Etag": []string{`"etag"`}},
		Body:       io.NopCloser(strings.NewReader("")),
		Request:    req,
	}, nil
}

func header(h http.Header, name string) string {
	for k, v := range h {
		if strings.EqualFold(k, name) && len(v) > 0 {
			return v[0]
		}
	}
	return ""
}

func newMockMirror(t *testing.T, root string) (*S3, *recordingTransport) {
	t.Helper()
	rt := &recordingTransport{}
	cfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithRegion("us-east-1"),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("AKIA", "SECRET", "")),
	)
	require.NoError(t, err)
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.HTTPClient = &http.Client{Transport: rt}
		o.UsePathStyle = true
		o.BaseEndpoint = aws.String("https://mock.s3.local")
	})
	return NewS3WithClient(client, "corpus-bucket", "corpora/v1", root), rt
}

func TestS3Key(t *testing.T) {
	root := filepath.Join("out", "corpus")
	m, _ := newMockMirror(t, root)
	key, err := m.Key(filepath.Join(root, "searchandrescue_test", "problem12.pddl"))
	require.NoError(t, err)
	assert.Equal(t, "corpora/v1/searchandrescue_test/problem12.pddl", key)
}

func TestS3PublishUploadsProblem(t *testing.T) {
	root := t.TempDir()
	local := filepath.Join(root, "searchandrescue", "problem0.pddl")
	require.NoError(t, os.MkdirAll(filepath.Dir(local), 0o755))
	require.NoError(t, os.WriteFile(local, []byte("(define (problem searchandrescue))"), 0o644))

	m, rt := newMockMirror(t, root)
	fp := world.Identify([]world.Fact{world.Dropoff()}, world.Goal{})
	err := m.Publish(context.Background(), ledger.Entry{
		Fingerprint: fp,
		Split:       ledger.Train,
		Index:       0,
		Path:        local,
		RunID:       "run-1",
	})
	require.NoError(t, err)

	require.Len(t, rt.puts, 1)
	put := rt.puts[0]
	assert.Equal(t, "/corpus-bucket/corpora/v1/searchandrescue/problem0.pddl", put.path)
	assert.Contains(t, put.body, "(define (problem searchandrescue))")
	assert.Equal(t, fp.String(), header(put.headers, "x-amz-meta-fingerprint"))
	assert.Equal(t, "train", header(put.headers, "x-amz-meta-split"))
}

func TestS3PublishMissingFile(t *testing.T) {
	m, rt := newMockMirror(t, t.TempDir())
	err := m.Publish(context.Background(), ledger.Entry{Path: filepath.Join(t.TempDir(), "missing.pddl")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read problem file")
	assert.Empty(t, rt.puts)
}

func TestNewS3RequiresBucket(t *testing.T) {
	_, err := NewS3(context.Background(), Config{}, ".")
	assert.Error(t, err)
}
