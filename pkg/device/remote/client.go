package remote

import (
	"net/rpc"

	"inkarrow/pkg/bitmap"
)

func New(addr string) (*Client, error) {
	client, err := rpc.DialHTTP("tcp", addr)
	if err != nil {
		return nil, err
	}

	return &Client{rpc: client}, nil
}

// Client drives a panel attached to another host running Proxy.
type Client struct {
	rpc *rpc.Client
}

func (c *Client) Startup() error {
	return c.rpc.Call("Service.Command", "startup", nil)
}

func (c *Client) Sleep() error {
	return c.rpc.Call("Service.Command", "sleep", nil)
}

func (c *Client) ClearFrame() error {
	return c.rpc.Call("Service.Command", "clear", nil)
}

func (c *Client) DisplayFrame() error {
	return c.rpc.Call("Service.Command", "display", nil)
}

func (c *Client) UpdateFrame(frame *bitmap.TriColor) error {
	return c.rpc.Call("Service.UpdateFrame", &UpdateFrameRequest{
		Width:  frame.Bounds().Dx(),
		Height: frame.Bounds().Dy(),
		Black:  frame.Black(),
		Red:    frame.Red(),
	}, nil)
}

func (c *Client) Close() error {
	return c.rpc.Close()
}
