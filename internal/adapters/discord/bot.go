package discord

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/okarv/pricetracker/internal/ports"
)

// messageLimit is Discord's hard cap on message length; longer replies are
// chunked.
const messageLimit = 2000

const defaultCommandTimeout = 2 * time.Minute

// Bot is the chat front-end. It parses slash-style commands out of raw
// messages, invokes one service operation with already-parsed arguments,
// and renders the operation's result back into the channel.
type Bot struct {
	session        *discordgo.Session
	tracking       ports.TrackingService
	updates        ports.UpdateService
	queries        ports.QueryService
	channelID      string
	commandTimeout time.Duration
	logger         *slog.Logger
}

// BotOption configures the bot
type BotOption func(*Bot)

// WithChannelID restricts the bot to a single channel
func WithChannelID(channelID string) BotOption {
	return func(b *Bot) {
		b.channelID = channelID
	}
}

// WithCommandTimeout bounds the handling of a single command
func WithCommandTimeout(timeout time.Duration) BotOption {
	return func(b *Bot) {
		if timeout > 0 {
			b.commandTimeout = timeout
		}
	}
}

// NewBot creates the bot and registers its message handler. Start must be
// called to open the gateway connection.
func NewBot(
	token string,
	tracking ports.TrackingService,
	updates ports.UpdateService,
	queries ports.QueryService,
	logger *slog.Logger,
	opts ...BotOption,
) (*Bot, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, err
	}

	b := &Bot{
		session:        session,
		tracking:       tracking,
		updates:        updates,
		queries:        queries,
		commandTimeout: defaultCommandTimeout,
		logger:         logger.With("component", "discord_bot"),
	}
	for _, opt := range opts {
		opt(b)
	}

	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentMessageContent
	session.AddHandler(b.onReady)
	session.AddHandler(b.onMessage)

	return b, nil
}

// Start opens the gateway connection
func (b *Bot) Start() error {
	return b.session.Open()
}

// Stop closes the gateway connection
func (b *Bot) Stop() error {
	return b.session.Close()
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	b.logger.Info("logged in", "username", r.User.Username)
}

func (b *Bot) onMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author.ID == s.State.User.ID {
		return
	}
	if b.channelID != "" && m.ChannelID != b.channelID {
		return
	}
	if !strings.HasPrefix(m.Content, "/") {
		return
	}

	command, params := parseCommand(m.Content)

	ctx, cancel := context.WithTimeout(context.Background(), b.commandTimeout)
	defer cancel()

	identity := m.Author.ID
	username := m.Author.Username

	var reply string
	switch command {
	case "/help":
		reply = helpMessage()
	case "/register":
		reply = RenderRegister(b.tracking.Register(ctx, identity, username), username)
	case "/add":
		reply = RenderAddProduct(b.tracking.AddProduct(ctx, identity, param(params, 0), param(params, 1)), param(params, 0))
	case "/remove":
		reply = RenderRemoveProduct(b.tracking.RemoveProduct(ctx, identity, param(params, 0)), param(params, 0))
	case "/update":
		reply = RenderUpdate(b.updates.UpdatePrices(ctx, identity))
	case "/list":
		reply = RenderList(b.queries.ListProducts(ctx, identity))
	case "/history":
		reply = RenderHistory(b.queries.GetHistory(ctx, identity, param(params, 0)), param(params, 0))
	default:
		b.logger.Debug("unknown command", "command", command)
		return
	}

	b.send(m.ChannelID, reply)
}

func (b *Bot) send(channelID, message string) {
	for _, chunk := range ChunkMessage(message, messageLimit) {
		if _, err := b.session.ChannelMessageSend(channelID, chunk); err != nil {
			b.logger.Error("failed to send message", "channel", channelID, "error", err)
			return
		}
	}
}

// parseCommand splits a raw message into the command token and its
// comma-separated parameters: "/add name, url" -> "/add", ["name", "url"].
func parseCommand(content string) (string, []string) {
	command, rest, _ := strings.Cut(content, " ")
	params := strings.Split(rest, ",")
	for i := range params {
		params[i] = strings.TrimSpace(params[i])
	}
	return command, params
}

func param(params []string, i int) string {
	if i < len(params) {
		return params[i]
	}
	return ""
}
