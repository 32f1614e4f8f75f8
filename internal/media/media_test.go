package media

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectURLRoundTrip(t *testing.T) {
	key := ObjectKey(KindVideo, "abc", ".mp4")
	assert.Equal(t, "video/abc.mp4", key)

	url := ObjectURL("http://localhost:9000/", "vidtube", key)
	assert.Equal(t, "http://localhost:9000/vidtube/video/abc.mp4", url)

	got, ok := KeyFromURL("http://localhost:9000", "vidtube", url)
	require.True(t, ok)
	assert.Equal(t, key, got)
}

func TestKeyFromURLRejectsForeignURL(t *testing.T) {
	_, ok := KeyFromURL("http://localhost:9000", "vidtube", "https://res.cloudinary.com/demo/video.mp4")
	assert.False(t, ok)
	_, ok = KeyFromURL("http://localhost:9000", "vidtube", "http://localhost:9000/vidtube/")
	assert.False(t, ok)
	_, ok = KeyFromURL("http://localhost:9000", "vidtube", "http://localhost:9000/other/video/a.mp4")
	assert.False(t, ok)
}

func TestParseProbeDuration(t *testing.T) {
	d, err := parseProbeDuration(`{"streams":[],"format":{"filename":"a.mp4","duration":"12.480000"}}`)
	require.NoError(t, err)
	assert.InDelta(t, 12.48, d, 1e-9)

	_, err = parseProbeDuration(`{"format":{}}`)
	assert.Error(t, err)
	_, err = parseProbeDuration(`not json`)
	assert.Error(t, err)
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "video/mp4", contentType(".unknownext", KindVideo))
	assert.Equal(t, "application/octet-stream", contentType("", KindImage))
	assert.Equal(t, "image/png", contentType(".png", KindImage))
}
