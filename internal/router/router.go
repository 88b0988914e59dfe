// Package router classifies inbound chat events and dispatches them to the
// command fast path or the conversation session, then delivers the reply.
package router

import (
	"context"
	"log"
	"regexp"
	"strings"
	"sync"

	"github.com/starkproject/stark/internal/events"
	"github.com/starkproject/stark/internal/markers"
	"github.com/starkproject/stark/internal/observability"
	"github.com/starkproject/stark/internal/session"
	"github.com/starkproject/stark/internal/todo"
)

// Conversation kinds as reported by the transport.
const (
	KindPrivate    = "private"
	KindGroup      = "group"
	KindSupergroup = "supergroup"
)

// Formatting modes for outbound sends.
const (
	ModeMarkdown = "markdown"
	ModePlain    = "plain"
)

// chunkLimit is the transport's single-message size limit in runes.
const chunkLimit = 4000

// botDisplayName attributes to-dos the model creates through markers.
const botDisplayName = "Stark"

// todoPattern detects natural-language to-do requests. Anchored at message
// start with a required colon so ordinary sentences containing "taak" or
// "task" do not create phantom to-dos.
var todoPattern = regexp.MustCompile(`(?is)^(?:voeg toe|add|nieuwe taak|todo|taak|task):\s*(.+)`)

// Event is one inbound transport message.
type Event struct {
	ChatID     string
	SenderName string
	Text       string
	Kind       string
	ReplyToBot bool
}

// Transport delivers outbound messages and typing signals.
type Transport interface {
	SendMessage(ctx context.Context, chatID, text, mode string) error
	SendTyping(ctx context.Context, chatID string) error
}

// Router is the single entry point for inbound events. Turn handling is
// serialized per conversation; unrelated conversations proceed in parallel.
type Router struct {
	botUsername string
	mentionRe   *regexp.Regexp
	transport   Transport
	session     *session.Session
	todos       *todo.Ledger
	metrics     *observability.Metrics
	bus         *events.Bus

	locks sync.Map // chatID -> *sync.Mutex
}

func New(botUsername string, transport Transport, sess *session.Session, todos *todo.Ledger, metrics *observability.Metrics, bus *events.Bus) *Router {
	username := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(botUsername)), "@")
	return &Router{
		botUsername: username,
		mentionRe:   regexp.MustCompile(`(?i)` + regexp.QuoteMeta("@"+username)),
		transport:   transport,
		session:     sess,
		todos:       todos,
		metrics:     metrics,
		bus:         bus,
	}
}

// Handle processes one inbound event end to end.
func (r *Router) Handle(ctx context.Context, ev Event) {
	if ev.Kind != KindPrivate && !r.addressed(ev) {
		r.metrics.InboundMessages.WithLabelValues("ignored").Inc()
		return
	}

	text := r.stripMention(ev.Text)
	if text == "" {
		r.metrics.InboundMessages.WithLabelValues("empty").Inc()
		return
	}

	mu := r.chatLock(ev.ChatID)
	mu.Lock()
	defer mu.Unlock()

	if r.dispatchCommand(ctx, ev.ChatID, text, ev.Kind) {
		r.metrics.InboundMessages.WithLabelValues("command").Inc()
		return
	}

	if err := r.transport.SendTyping(ctx, ev.ChatID); err != nil {
		log.Printf("router: typing signal failed for chat %s: %v", ev.ChatID, err)
	}

	reply := r.session.HandleTurn(ctx, ev.ChatID, text, ev.SenderName)
	if reply == session.Apology {
		r.bus.Publish(events.Event{Type: events.TypeModelError, ChatID: ev.ChatID})
	}

	// Natural-language to-do detection runs on the inbound text regardless
	// of what the model replied.
	if m := todoPattern.FindStringSubmatch(text); m != nil {
		item := r.todos.Add(ctx, ev.ChatID, m[1], ev.SenderName)
		r.bus.Publish(events.Event{Type: events.TypeTodoAdded, ChatID: ev.ChatID, Detail: item.Text})
	}

	r.applyTodoMarkers(ctx, ev.ChatID, reply)

	final := markers.Strip(reply)
	if facts := markers.Facts(reply); len(facts) > 0 {
		r.bus.Publish(events.Event{Type: events.TypeFactStored, ChatID: ev.ChatID, Detail: strings.Join(facts, "; ")})
	}

	r.deliver(ctx, ev.ChatID, final)
	r.metrics.InboundMessages.WithLabelValues("model_turn").Inc()
	r.bus.Publish(events.Event{Type: events.TypeMessageHandled, ChatID: ev.ChatID})
}

// addressed reports whether a group message mentions the bot or replies to
// one of its messages.
func (r *Router) addressed(ev Event) bool {
	if ev.ReplyToBot {
		return true
	}
	return r.mentionRe.MatchString(ev.Text)
}

// stripMention removes every case-insensitive @mention of the bot. Matching
// runs on the text as-is; lowercasing a copy first is unsafe because ToLower
// can change byte offsets for some runes.
func (r *Router) stripMention(text string) string {
	return strings.TrimSpace(r.mentionRe.ReplaceAllString(text, ""))
}

func (r *Router) dispatchCommand(ctx context.Context, chatID, text, kind string) bool {
	switch strings.ToLower(text) {
	case "/todos", "/taken":
		r.send(ctx, chatID, r.todos.Render(chatID))
	case "/help":
		r.send(ctx, chatID, helpText(r.botUsername, kind))
	case "/reset":
		r.session.Reset(ctx, chatID)
		r.send(ctx, chatID, "🔄 Gespreksgeschiedenis gereset! Mijn geheugen en to-dos zijn bewaard.")
	default:
		return false
	}
	r.bus.Publish(events.Event{Type: events.TypeCommand, ChatID: chatID, Detail: strings.ToLower(text)})
	return true
}

func (r *Router) applyTodoMarkers(ctx context.Context, chatID, reply string) {
	for _, task := range markers.TodoAdds(reply) {
		item := r.todos.Add(ctx, chatID, task, botDisplayName)
		r.bus.Publish(events.Event{Type: events.TypeTodoAdded, ChatID: chatID, Detail: item.Text})
	}
	for _, idx := range markers.TodoDones(reply) {
		if r.todos.Complete(ctx, chatID, idx) {
			r.bus.Publish(events.Event{Type: events.TypeTodoCompleted, ChatID: chatID})
		}
	}
}

// deliver splits the text into transport-sized chunks and sends them in
// order. A markdown rejection triggers one plain-text resend of that chunk.
func (r *Router) deliver(ctx context.Context, chatID, text string) {
	if text == "" {
		return
	}
	for _, chunk := range splitChunks(text, chunkLimit) {
		r.send(ctx, chatID, chunk)
	}
}

func (r *Router) send(ctx context.Context, chatID, text string) {
	r.metrics.OutboundChunks.Inc()
	if err := r.transport.SendMessage(ctx, chatID, text, ModeMarkdown); err == nil {
		return
	}
	if err := r.transport.SendMessage(ctx, chatID, text, ModePlain); err != nil {
		log.Printf("router: send failed for chat %s: %v", chatID, err)
	}
}

func (r *Router) chatLock(chatID string) *sync.Mutex {
	v, _ := r.locks.LoadOrStore(chatID, &sync.Mutex{})
	return v.(*sync.Mutex)
}

// splitChunks cuts text into sequential rune-bounded chunks whose
// concatenation equals the input.
func splitChunks(text string, limit int) []string {
	runes := []rune(text)
	if len(runes) <= limit {
		return []string{text}
	}
	var out []string
	for start := 0; start < len(runes); start += limit {
		end := start + limit
		if end > len(runes) {
			end = len(runes)
		}
		out = append(out, string(runes[start:end]))
	}
	return out
}

func helpText(username, kind string) string {
	usage := "Stuur gewoon een bericht!"
	if kind != KindPrivate {
		usage = "Tag me met @" + username + " of reply op mijn berichten."
	}
	return `🤖 *Stark - Project Assistent*

Ik ben jullie AI teamlid voor Project Stark (Fysio Assistent).

*Wat kan ik?*
• Meedenken over het project, features, en beslissingen
• To-do lijst bijhouden (voeg toe, vink af, verwijder)
• Onthouden wat we bespreken
• Technische vragen beantwoorden over de stack
• Brainstormen over nieuwe features

*Commando's:*
/todos - Toon de to-do lijst
/help - Dit bericht
/reset - Reset gespreksgeschiedenis

*Gebruik:*
` + usage
}
