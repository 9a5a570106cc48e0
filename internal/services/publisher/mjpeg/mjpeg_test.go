package mjpeg

import (
	"bufio"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishJPEG_StoresCopy(t *testing.T) {
	p := NewPublisher()
	assert.Nil(t, p.Latest())

	frame := []byte{0xFF, 0xD8, 0x01, 0xFF, 0xD9}
	p.PublishJPEG(frame)
	frame[2] = 0x02

	assert.Equal(t, []byte{0xFF, 0xD8, 0x01, 0xFF, 0xD9}, p.Latest())
}

func TestStreamMJPEGHTTP_ServesLatestFrame(t *testing.T) {
	p := NewPublisher()
	p.PublishJPEG([]byte("first-jpeg"))

	srv := httptest.NewServer(http.HandlerFunc(p.StreamMJPEGHTTP))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL, nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "multipart/x-mixed-replace; boundary=frame", resp.Header.Get("Content-Type"))

	rd := bufio.NewReader(resp.Body)
	part := readPart(t, rd)
	assert.Equal(t, "first-jpeg", part)

	require.Eventually(t, func() bool { return p.Clients() == 1 }, time.Second, 10*time.Millisecond)
	p.PublishJPEG([]byte("second-jpeg"))
	assert.Equal(t, "second-jpeg", readPart(t, rd))
}

func TestShutdown_EndsOpenStreams(t *testing.T) {
	p := NewPublisher()
	p.PublishJPEG([]byte("only-jpeg"))

	srv := httptest.NewServer(http.HandlerFunc(p.StreamMJPEGHTTP))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL, nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	rd := bufio.NewReader(resp.Body)
	assert.Equal(t, "only-jpeg", readPart(t, rd))
	require.Eventually(t, func() bool { return p.Clients() == 1 }, time.Second, 10*time.Millisecond)

	p.Shutdown()
	p.Shutdown()

	_, err = io.ReadAll(rd)
	require.NoError(t, err, "the stream ends cleanly instead of waiting for the client")
	require.Eventually(t, func() bool { return p.Clients() == 0 }, time.Second, 10*time.Millisecond)

	late, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer late.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, late.StatusCode)
}

// readPart reads one multipart section and returns its body.
func readPart(t *testing.T, rd *bufio.Reader) string {
	t.Helper()

	line, err := rd.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "--frame\r\n", line)

	var length int
	for {
		line, err = rd.ReadString('\n')
		require.NoError(t, err)
		if line == "\r\n" {
			break
		}
		if strings.HasPrefix(line, "Content-Length: ") {
			length, err = strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, "Content-Length: ")))
			require.NoError(t, err)
		}
	}

	body := make([]byte, length)
	_, err = io.ReadFull(rd, body)
	require.NoError(t, err)
	_, err = rd.ReadString('\n')
	require.NoError(t, err)
	return string(body)
}
