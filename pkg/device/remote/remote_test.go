package remote

import (
	"image"
	"net/http/httptest"
	"net/rpc"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"inkarrow/pkg/bitmap"
	"inkarrow/pkg/device/virtual"
)

func TestClientRoundTrip(t *testing.T) {
	fs := afero.NewMemMapFs()
	mock := virtual.Mock(zap.NewNop(), virtual.WithSnapshots(fs, 1))

	srv := rpc.NewServer()
	require.NoError(t, srv.Register(NewService(mock)))
	ts := httptest.NewServer(srv)
	defer ts.Close()

	c, err := New(strings.TrimPrefix(ts.URL, "http://"))
	require.NoError(t, err)
	defer c.Close()

	frame := bitmap.NewTriColor(image.Rect(0, 0, 16, 16))
	frame.Set(3, 3, bitmap.Red)

	require.NoError(t, c.Startup())
	require.NoError(t, c.ClearFrame())
	assert.Error(t, c.DisplayFrame(), "nothing uploaded yet")
	require.NoError(t, c.UpdateFrame(frame))
	require.NoError(t, c.DisplayFrame())
	require.NoError(t, c.Sleep())

	assert.Len(t, mock.Snapshots(), 1)
}

func TestServiceRejects(t *testing.T) {
	s := NewService(virtual.Mock(zap.NewNop()))
	assert.Error(t, s.Command("reboot", nil))
	assert.Error(t, s.UpdateFrame(&UpdateFrameRequest{Width: 8, Height: 8, Black: []byte{1}}, nil))
}
