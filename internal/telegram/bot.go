// Package telegram serves the tutor as a Telegram bot. Every plain message
// is treated as a topic and answered in the chat's current mode.
package telegram

import (
	"context"
	"fmt"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/abhisek/tutorpro/internal/logger"
	"github.com/abhisek/tutorpro/internal/modes"
	"github.com/abhisek/tutorpro/internal/render"
	"github.com/abhisek/tutorpro/internal/tutor"
)

const (
	cmdStart = "start"
	cmdHelp  = "help"
	cmdModes = "modes"
	cmdMode  = "mode"
)

// Sender is the subset of *tgbotapi.BotAPI the bot uses.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Bot answers topics sent to it with rendered tutor responses.
type Bot struct {
	api Sender
	svc tutor.Service
	log *logger.Logger

	mu    sync.Mutex
	modes map[int64]modes.Mode
	busy  map[int64]bool

	wg sync.WaitGroup
}

// New creates a Bot replying through api.
func New(api Sender, svc tutor.Service, log *logger.Logger) *Bot {
	if log == nil {
		log = logger.Nop()
	}
	return &Bot{
		api:   api,
		svc:   svc,
		log:   log,
		modes: make(map[int64]modes.Mode),
		busy:  make(map[int64]bool),
	}
}

// Connect authenticates with the Bot API.
func Connect(cfg Config) (*tgbotapi.BotAPI, error) {
	api, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot API: %w", err)
	}
	api.Debug = cfg.Debug
	return api, nil
}

// Run long-polls for updates until ctx is cancelled, handling each message
// in its own goroutine, then waits for in-flight replies.
func (b *Bot) Run(ctx context.Context, api *tgbotapi.BotAPI, pollTimeout int) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = pollTimeout
	updates := api.GetUpdatesChan(u)

	b.log.Info("telegram bot polling", "user", api.Self.UserName)
	defer b.wg.Wait()
	for {
		select {
		case <-ctx.Done():
			api.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil || update.Message.Text == "" {
				continue
			}
			msg := update.Message
			b.wg.Add(1)
			go func() {
				defer b.wg.Done()
				b.HandleMessage(ctx, msg.Chat.ID, msg.Text)
			}()
		}
	}
}

// HandleMessage processes one incoming text message from chatID.
func (b *Bot) HandleMessage(ctx context.Context, chatID int64, text string) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		b.answerTopic(ctx, chatID, text)
		return
	}

	cmd, arg, _ := strings.Cut(strings.TrimPrefix(text, "/"), " ")
	// Commands in groups arrive as /mode@botname.
	cmd, _, _ = strings.Cut(cmd, "@")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(cmd) {
	case cmdStart, cmdHelp:
		b.sendHTML(chatID, helpText(b.modeFor(chatID)))
	case cmdModes:
		b.sendHTML(chatID, modesText(b.modeFor(chatID)))
	case cmdMode:
		b.handleMode(chatID, arg)
	default:
		b.sendHTML(chatID, "Unknown command. Send /help for the list of commands.")
	}
}

func (b *Bot) handleMode(chatID int64, arg string) {
	if arg == "" {
		m := b.modeFor(chatID)
		b.sendHTML(chatID, fmt.Sprintf("Current mode: <b>%s</b>", m.DisplayName()))
		return
	}
	m, err := modes.Parse(arg)
	if err != nil {
		b.sendHTML(chatID, "Unknown mode. Send /modes to see the available modes.")
		return
	}
	b.mu.Lock()
	b.modes[chatID] = m
	b.mu.Unlock()
	b.sendHTML(chatID, fmt.Sprintf("Mode set to <b>%s</b>. Send me a topic.", m.DisplayName()))
}

func (b *Bot) answerTopic(ctx context.Context, chatID int64, topic string) {
	if topic == "" {
		b.sendHTML(chatID, "Send me a topic to learn about.")
		return
	}
	if !b.acquire(chatID) {
		b.sendHTML(chatID, "Still working on your previous topic, please wait.")
		return
	}
	defer b.release(chatID)

	if _, err := b.api.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)); err != nil {
		b.log.Debug("chat action failed", "chat_id", chatID, "error", err)
	}

	mode := b.modeFor(chatID)
	resp, err := b.svc.GetTutorResponse(ctx, topic, mode)
	if err != nil {
		te := tutor.AsError(err)
		b.log.Warn("tutor request failed", "chat_id", chatID, "mode", mode, "kind", te.Kind, "error", err)
		b.sendHTML(chatID, "Error: "+tgbotapi.EscapeText(tgbotapi.ModeHTML, te.Message))
		return
	}

	for _, part := range SplitMessages(render.Sections(render.TelegramHTML{}, resp), MaxMessageLen) {
		if !b.sendHTML(chatID, part) {
			return
		}
	}
}

func (b *Bot) modeFor(chatID int64) modes.Mode {
	b.mu.Lock()
	defer b.mu.Unlock()
	if m, ok := b.modes[chatID]; ok {
		return m
	}
	return modes.Default
}

// acquire marks chatID busy. It returns false if a request is in flight.
func (b *Bot) acquire(chatID int64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.busy[chatID] {
		return false
	}
	b.busy[chatID] = true
	return true
}

func (b *Bot) release(chatID int64) {
	b.mu.Lock()
	delete(b.busy, chatID)
	b.mu.Unlock()
}

func (b *Bot) sendHTML(chatID int64, text string) bool {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("send message failed", "chat_id", chatID, "error", err)
		return false
	}
	return true
}

func helpText(current modes.Mode) string {
	return fmt.Sprintf(`<b>AI Tutor Pro</b>
Send me any topic and I will teach it in the current mode (<b>%s</b>).

/modes - list learning modes
/mode &lt;name&gt; - switch mode, e.g. /mode quiz
/help - show this message

Hints, answers and flashcard backs are hidden; tap them to reveal.`, current.DisplayName())
}

func modesText(current modes.Mode) string {
	var sb strings.Builder
	sb.WriteString("<b>Learning modes</b>")
	for _, m := range modes.All() {
		marker := ""
		if m == current {
			marker = " (current)"
		}
		fmt.Fprintf(&sb, "\n<b>%s</b>%s: /mode %s\n%s",
			m.DisplayName(), marker, strings.ToLower(string(m)),
			tgbotapi.EscapeText(tgbotapi.ModeHTML, m.Description()))
	}
	return sb.String()
}
