package remote

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"edat-cli/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := New(Config{Server: srv.URL + "/", User: "owner-1", Timeout: 2 * time.Second})
	require.NoError(t, err)
	return c
}

func TestNew_RequiresServer(t *testing.T) {
	_, err := New(Config{})
	require.ErrorIs(t, err, ErrNoServer)

	_, err = New(Config{Server: "ftp://example.org"})
	require.Error(t, err)
}

func TestSend_PostsWireCommand(t *testing.T) {
	var (
		gotMethod, gotPath, gotType, gotCookie, gotReqID string
		gotBody                                          []byte
	)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		gotType = r.Header.Get("Content-Type")
		gotReqID = r.Header.Get("X-Request-Id")
		if ck, err := r.Cookie(UserCookie); err == nil {
			gotCookie = ck.Value
		}
		gotBody, _ = io.ReadAll(r.Body)
		_, _ = w.Write([]byte(`<p>ok</p>`))
	})

	body, err := c.Send(context.Background(), model.SectionStatus{ID: 5, Status: model.StatusComplete})
	require.NoError(t, err)

	assert.Equal(t, "<p>ok</p>", string(body))
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/cmd", gotPath)
	assert.Equal(t, "application/json", gotType)
	assert.Equal(t, "owner-1", gotCookie)
	assert.NotEmpty(t, gotReqID)
	assert.JSONEq(t, `{"SectionStatus":{"id":5,"status":"Complete"}}`, string(gotBody))
}

func TestSend_UnitVariantIsBareString(t *testing.T) {
	var gotBody []byte
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		_, _ = w.Write([]byte("17"))
	})

	body, err := c.Send(context.Background(), model.NextSectionID{})
	require.NoError(t, err)
	assert.Equal(t, `"NextSectionId"`, string(gotBody))
	assert.Equal(t, "17", string(body))
}

func TestSend_ReturnsErrorPagesVerbatim(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`<p class="error">no such volume</p>`))
	})

	body, err := c.Send(context.Background(), model.GetVolume{ID: "nope"})
	require.NoError(t, err)
	assert.Equal(t, `<p class="error">no such volume</p>`, string(body))
}

func TestSend_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	c, err := New(Config{Server: srv.URL, Timeout: 50 * time.Millisecond})
	require.NoError(t, err)

	_, err = c.Send(context.Background(), model.Volumes{})
	require.Error(t, err)
}

func TestSend_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := New(Config{Server: url})
	require.NoError(t, err)
	_, err = c.Send(context.Background(), model.Images{})
	require.Error(t, err)
}

func TestUpload_PostsRawBytes(t *testing.T) {
	var gotPath, gotType string
	var gotBody []byte
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		_, _ = w.Write([]byte("<p>stored</p>"))
	})

	path := filepath.Join(t.TempDir(), "cat.png")
	require.NoError(t, os.WriteFile(path, []byte("\x89PNG\r\n\x1a\nrest"), 0o644))

	body, err := c.UploadFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "<p>stored</p>", string(body))
	assert.Equal(t, "/image/cat.png", gotPath)
	assert.Equal(t, "image/png", gotType)
	assert.Equal(t, "\x89PNG\r\n\x1a\nrest", string(gotBody))
}

func TestImageURLAndFetch(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/image/sunset.jpg" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write([]byte("jpegdata"))
	})

	assert.Equal(t, c.Server()+"/image/sunset.jpg", c.ImageURL(" sunset "))

	data, ct, err := c.FetchImage(context.Background(), "sunset")
	require.NoError(t, err)
	assert.Equal(t, "jpegdata", string(data))
	assert.Equal(t, "image/jpeg", ct)

	_, _, err = c.FetchImage(context.Background(), "missing")
	require.Error(t, err)
}

func TestImageNamesAreEscapedOnce(t *testing.T) {
	var gotPath, gotRawPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotRawPath = r.URL.Path, r.URL.EscapedPath()
		_, _ = w.Write([]byte("<p>stored</p>"))
	})

	_, err := c.Upload(context.Background(), "my photo #2.jpg", "image/jpeg", strings.NewReader("x"))
	require.NoError(t, err)
	assert.Equal(t, "/image/my photo #2.jpg", gotPath)
	assert.Equal(t, "/image/my%20photo%20%232.jpg", gotRawPath)

	assert.Equal(t, c.Server()+"/image/my%20pic.jpg", c.ImageURL("my pic"))
	assert.Equal(t, c.Server()+"/image/50%25%3F.jpg", c.ImageURL("50%?"))

	_, _, err = c.FetchImage(context.Background(), "my pic")
	require.NoError(t, err)
	assert.Equal(t, "/image/my pic.jpg", gotPath)
}

func TestSend_RejectsOversizedResponse(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(bytes.Repeat([]byte("x"), maxResponseSize+1))
	})

	_, err := c.Send(context.Background(), model.Volumes{})
	require.ErrorIs(t, err, ErrResponseTooLarge)
}

func TestSend_AcceptsResponseAtLimit(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(bytes.Repeat([]byte("x"), maxResponseSize))
	})

	body, err := c.Send(context.Background(), model.Volumes{})
	require.NoError(t, err)
	assert.Len(t, body, maxResponseSize)
}
