package version

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsNewer(t *testing.T) {
	tests := []struct {
		current, latest string
		want            bool
	}{
		{"1.2.0", "1.10.0", true},
		{"1.10.0", "1.9.9", false},
		{"v1.0.0", "1.0.0", false},
		{"1.0.0-dirty", "1.0.0", true},
		{"1.0.0", "not-a-version", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, isNewer(tt.current, tt.latest), "%s -> %s", tt.current, tt.latest)
	}
}

func TestLatestRelease(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"tag_name":"v2.3.4"}`))
	}))
	defer srv.Close()

	tag, err := latestRelease(context.Background(), srv.Client(), srv.URL+"/latest")
	require.NoError(t, err)
	assert.Equal(t, "2.3.4", tag)

	_, err = latestRelease(context.Background(), srv.Client(), srv.URL+"/missing")
	assert.Error(t, err)
}

func TestFormatVersion(t *testing.T) {
	oldVersion, oldCommit, oldBuild := Version, Commit, BuildTime
	t.Cleanup(func() { Version, Commit, BuildTime = oldVersion, oldCommit, oldBuild })

	Version, Commit, BuildTime = "1.2.3", "", ""
	assert.Equal(t, "1.2.3 (development)", FormatVersion())

	Commit = "abc1234"
	assert.Equal(t, "1.2.3 (commit: abc1234)", FormatVersion())

	BuildTime = "2024-03-01T10:00:00Z"
	assert.Equal(t, "1.2.3 (commit: abc1234, built at: 2024-03-01T10:00:00Z)", FormatVersion())

	Version = ""
	Commit = ""
	assert.Equal(t, "0.0.0-dev (built at: 2024-03-01T10:00:00Z)", FormatVersion())
}
