package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"

	"inkarrow/pkg/event"
	"inkarrow/pkg/shape"
)

// Snapshot reads the arrow as the control loop last left it.
type Snapshot func() shape.Arrow

func New(token string, producer *event.Producer, snapshot Snapshot, distance int, logger *zap.Logger) (*Bot, error) {
	pref := tele.Settings{
		Token: token,
		Poller: &tele.LongPoller{
			Timeout: 30 * time.Second,
		},
	}

	b, err := tele.NewBot(pref)
	if err != nil {
		return nil, err
	}

	return newBot(b, producer, snapshot, distance, logger), nil
}

func newBot(b *tele.Bot, producer *event.Producer, snapshot Snapshot, distance int, logger *zap.Logger) *Bot {
	return &Bot{
		b:        b,
		producer: producer,
		snapshot: snapshot,
		distance: distance,
		logger:   logger.With(zap.String("via", "telegram")),
	}
}

// Bot is a remote pair of buttons: it feeds the same queue as the GPIO lines.
type Bot struct {
	b        *tele.Bot
	producer *event.Producer
	snapshot Snapshot
	distance int
	logger   *zap.Logger
}

func (b *Bot) handle() {
	b.b.Handle("/rotate", func(context tele.Context) error {
		return context.Reply(b.rotate())
	})

	b.b.Handle("/move", func(context tele.Context) error {
		return context.Reply(b.move(context.Message().Payload))
	})

	b.b.Handle("/where", func(context tele.Context) error {
		return context.Reply(b.where())
	})
}

func (b *Bot) rotate() string {
	if err := b.producer.Send(event.Rotate()); err != nil {
		return fmt.Sprintf("rotate failed: %s", err)
	}
	return "OK"
}

func (b *Bot) move(payload string) string {
	in := strings.TrimSpace(payload)
	d, err := strconv.Atoi(in)
	if in != "" && err != nil {
		return fmt.Sprintf("bad distance: %s", in)
	}

	if err := b.producer.Send(event.MoveForward(lo.Ternary(in == "", b.distance, d))); err != nil {
		return fmt.Sprintf("move failed: %s", err)
	}
	return "OK"
}

func (b *Bot) where() string {
	a := b.snapshot()
	return fmt.Sprintf("x: %d, y: %d, heading: %s", a.X, a.Y, a.Heading)
}

// Run polls telegram until ctx is done, then releases the producer.
func (b *Bot) Run(ctx context.Context) error {
	defer func() {
		_ = b.producer.Close()
	}()

	b.handle()
	go b.b.Start()
	b.logger.Info("bot started")

	<-ctx.Done()
	// telebot Stop waits for the pending long poll, do not hold shutdown on it
	go b.b.Stop()
	return nil
}
