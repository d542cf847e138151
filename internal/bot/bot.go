package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/xaenox/coach-bot/internal/engine"
	"github.com/xaenox/coach-bot/internal/models"
	"go.uber.org/zap"
)

// SessionFactory builds the engine session of one chat around sink.
type SessionFactory func(chatID, userID int64, sink engine.Transcript) *engine.Session

type Bot struct {
	api        *tgbotapi.BotAPI
	newSession SessionFactory
	logger     *zap.Logger

	mu       sync.Mutex
	sessions map[int64]*engine.Session
}

func New(token string, newSession SessionFactory, logger *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	return &Bot{
		api:        api,
		newSession: newSession,
		logger:     logger,
		sessions:   make(map[int64]*engine.Session),
	}, nil
}

// Start polls for updates until ctx is done, then stops every session.
func (b *Bot) Start(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	defer b.closeSessions()

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			go b.handleMessage(ctx, update.Message)
		}
	}
}

func (b *Bot) session(chatID, userID int64) *engine.Session {
	b.mu.Lock()
	defer b.mu.Unlock()

	if s, ok := b.sessions[chatID]; ok {
		return s
	}

	s := b.newSession(chatID, userID, &chatTranscript{bot: b, chatID: chatID})
	typing := &typingIndicator{
		every:   typingRefresh,
		loading: s.Engine().Loading,
		send: func() {
			if _, err := b.api.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)); err != nil {
				b.logger.Debug("Failed to send typing action", zap.Error(err))
			}
		},
	}
	s.Engine().OnLoading(func(loading bool) {
		if loading {
			typing.start()
		}
	})
	b.sessions[chatID] = s
	b.logger.Info("Session started", zap.Int64("chat_id", chatID), zap.Int64("user_id", userID))
	return s
}

func (b *Bot) closeSessions() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, s := range b.sessions {
		s.Close()
		delete(b.sessions, id)
	}
}

func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	if message.From == nil {
		return
	}
	s := b.session(message.Chat.ID, message.From.ID)

	// Handle commands
	if message.IsCommand() {
		b.handleCommand(s, message)
		return
	}

	// Get content from message
	content := message.Text
	if message.Caption != "" {
		content = message.Caption
	}

	s.Submit(ctx, content)
}

func (b *Bot) handleCommand(s *engine.Session, message *tgbotapi.Message) {
	switch message.Command() {
	case "start":
		b.handleStart(message)
	case "help":
		b.handleHelp(message)
	case "threshold":
		b.handleThreshold(s, message)
	case "insights":
		b.handleInsights(s, message)
	case "status":
		b.handleStatus(s, message)
	default:
		b.sendMessage(message.Chat.ID, "Unknown command. Use /help to see available commands.")
	}
}

func (b *Bot) handleStart(message *tgbotapi.Message) {
	welcome := `Welcome to CoachBot! ⚽
I'm your assistant coach. Ask me about your squad, the next match, injuries, training plans, tactics or the transfer market.

Use /help to see all available commands.`

	b.sendMessage(message.Chat.ID, welcome)
}

func (b *Bot) handleHelp(message *tgbotapi.Message) {
	help := `Available commands:
/start - Start the bot
/help - Show this help message
/threshold <0-100> - Minimum confidence for automatic insights
/insights on|off - Toggle automatic insights
/status - Show the current settings

Try asking:
- Show me all players
- Add player John Doe as striker age 22
- Predict next match
- Create a 2 week high intensity attacking training plan
- What's the injury risk?`

	b.sendMessage(message.Chat.ID, help)
}

func (b *Bot) handleThreshold(s *engine.Session, message *tgbotapi.Message) {
	value, err := parseThreshold(message.CommandArguments())
	if err != nil {
		b.sendMessage(message.Chat.ID, "Usage: /threshold <0-100>")
		return
	}
	s.SetConfidenceThreshold(value)
	b.sendMessage(message.Chat.ID, fmt.Sprintf("Insight threshold set to %d%%.", value))
}

func (b *Bot) handleInsights(s *engine.Session, message *tgbotapi.Message) {
	enabled, err := parseToggle(message.CommandArguments())
	if err != nil {
		b.sendMessage(message.Chat.ID, "Usage: /insights on|off")
		return
	}
	s.SetAutoAnalysisEnabled(enabled)
	if enabled {
		b.sendMessage(message.Chat.ID, "Automatic insights are on.")
	} else {
		b.sendMessage(message.Chat.ID, "Automatic insights are off.")
	}
}

func (b *Bot) handleStatus(s *engine.Session, message *tgbotapi.Message) {
	state := "off"
	if s.Insights().Enabled() {
		state = "on"
	}
	b.sendMessage(message.Chat.ID, fmt.Sprintf("Insights: %s\nThreshold: %d%%\nWorking: %t",
		state, s.Insights().Threshold(), s.Engine().Loading()))
}

func parseThreshold(arg string) (int, error) {
	value, err := strconv.Atoi(strings.TrimSuffix(strings.TrimSpace(arg), "%"))
	if err != nil {
		return 0, err
	}
	if value < 0 || value > 100 {
		return 0, fmt.Errorf("threshold %d out of range", value)
	}
	return value, nil
}

func parseToggle(arg string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(arg)) {
	case "on", "yes", "true", "1":
		return true, nil
	case "off", "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("unknown toggle %q", arg)
	}
}

// escapeMarkdown escapes special characters for MarkdownV2
func escapeMarkdown(text string) string {
	specialChars := []string{"\\", "_", "*", "[", "]", "(", ")", "~", "`", ">", "#", "+", "-", "=", "|", "{", "}", ".", "!"}
	escaped := text
	for _, char := range specialChars {
		escaped = strings.ReplaceAll(escaped, char, "\\"+char)
	}
	return escaped
}

var priorityMarks = map[models.Priority]string{
	models.PriorityHigh:     "⚠️ ",
	models.PriorityCritical: "🚨 ",
}

// formatMessage renders an engine message as MarkdownV2.
func formatMessage(msg models.Message) string {
	text := priorityMarks[msg.Priority] + escapeMarkdown(msg.Content)
	if msg.Confidence != nil {
		text += fmt.Sprintf("\n\n_%s_", escapeMarkdown(fmt.Sprintf("confidence %d%%", *msg.Confidence)))
	}
	return text
}

func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("Failed to send message",
			zap.Error(err),
			zap.Int64("chat_id", chatID))
	}
}

// chatTranscript shows engine messages in a Telegram chat. User messages are
// already visible there and are skipped.
type chatTranscript struct {
	bot    *Bot
	chatID int64
}

func (t *chatTranscript) Append(m models.Message) {
	if m.Sender != models.SenderEngine {
		return
	}

	msg := tgbotapi.NewMessage(t.chatID, formatMessage(m))
	msg.ParseMode = "MarkdownV2"
	if _, err := t.bot.api.Send(msg); err != nil {
		t.bot.logger.Error("Failed to send engine message",
			zap.Error(err),
			zap.Int64("chat_id", t.chatID),
			zap.String("message_id", m.ID))
	}
}
