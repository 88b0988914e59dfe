package telegram

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/starkproject/stark/internal/router"
)

const unknownSender = "Onbekend"

// Dispatcher receives converted inbound events.
type Dispatcher func(ctx context.Context, ev router.Event)

// Poller drives the getUpdates loop and dispatches each text message in
// its own goroutine. The router serializes per conversation, so unrelated
// chats interleave while a hung model call only stalls its own chat.
type Poller struct {
	client   *Client
	dispatch Dispatcher
	timeout  time.Duration
}

func NewPoller(client *Client, dispatch Dispatcher, timeout time.Duration) *Poller {
	if timeout <= 0 {
		timeout = 50 * time.Second
	}
	return &Poller{client: client, dispatch: dispatch, timeout: timeout}
}

// Run polls until the context is cancelled. Poll errors are logged and the
// loop continues after a short pause.
func (p *Poller) Run(ctx context.Context) error {
	var offset int64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		updates, err := p.client.GetUpdates(ctx, offset, p.timeout)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Printf("telegram: poll error: %v", err)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(2 * time.Second):
			}
			continue
		}

		for _, u := range updates {
			if u.UpdateID >= offset {
				offset = u.UpdateID + 1
			}
			ev, ok := eventFromUpdate(u)
			if !ok {
				continue
			}
			go p.dispatch(ctx, ev)
		}
	}
}

// eventFromUpdate converts a Bot API update into a router event. Non-text
// updates are skipped.
func eventFromUpdate(u Update) (router.Event, bool) {
	msg := u.Message
	if msg == nil || msg.Text == "" {
		return router.Event{}, false
	}
	return router.Event{
		ChatID:     strconv.FormatInt(msg.Chat.ID, 10),
		SenderName: senderName(msg.From),
		Text:       msg.Text,
		Kind:       msg.Chat.Type,
		ReplyToBot: isReplyToBot(msg),
	}, true
}

func senderName(u *User) string {
	if u == nil {
		return unknownSender
	}
	if u.FirstName != "" {
		return u.FirstName
	}
	if u.Username != "" {
		return u.Username
	}
	return unknownSender
}

func isReplyToBot(msg *Message) bool {
	return msg.ReplyToMessage != nil &&
		msg.ReplyToMessage.From != nil &&
		msg.ReplyToMessage.From.IsBot
}
