package remote

import (
	"context"
	"net/http"
	"net/rpc"

	"github.com/pkg/errors"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"inkarrow/pkg/bitmap"
	"inkarrow/pkg/proto"
)

// Proxy serves dev over HTTP-RPC for the lifetime of the fx app. The panel
// is started with the server and put to sleep when it stops.
func Proxy(dev proto.Control, srv *http.Server, logger *zap.Logger, lifecycle fx.Lifecycle) error {
	svc := NewService(dev)
	if err := rpc.Register(svc); err != nil {
		return err
	}

	rpc.HandleHTTP()

	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := dev.Startup(); err != nil {
				return errors.Wrap(err, "panel startup")
			}
			go func() {
				if err := srv.ListenAndServe(); err != http.ErrServerClosed {
					logger.With(zap.Error(err)).Fatal("serve failed")
				}
			}()
			logger.With(zap.String("addr", srv.Addr)).Info("panel proxy listening")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if err := srv.Shutdown(ctx); err != nil {
				return err
			}
			return dev.Sleep()
		},
	})

	return nil
}

func NewService(dev proto.Control) *Service {
	return &Service{dev: dev}
}

type Service struct {
	dev proto.Control
}

func (s *Service) Command(name string, _ *EmptyResponse) error {
	switch name {
	case "startup":
		return s.dev.Startup()
	case "sleep":
		return s.dev.Sleep()
	case "clear":
		return s.dev.ClearFrame()
	case "display":
		return s.dev.DisplayFrame()
	}

	return errors.New("unknown command")
}

func (s *Service) UpdateFrame(req *UpdateFrameRequest, _ *EmptyResponse) error {
	frame, err := bitmap.FromPlanes(req.Width, req.Height, req.Black, req.Red)
	if err != nil {
		return err
	}

	return s.dev.UpdateFrame(frame)
}
