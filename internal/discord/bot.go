package discord

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/kaymanhq/kayman/internal/ledger"
	"github.com/kaymanhq/kayman/internal/quickentry"
	"github.com/kaymanhq/kayman/internal/storage"
)

// Bot is an optional Discord companion. It posts a confirmation whenever
// a payment is created and answers balance and history commands on one
// configured channel. Quick-entry lines create payments through the same
// ledger path as the HTTP API.
type Bot struct {
	session   *discordgo.Session
	db        *storage.Database
	ledger    *ledger.Service
	channelID string
	timezone  string
	log       zerolog.Logger
}

func NewBot(token, channelID string, db *storage.Database, svc *ledger.Service, log zerolog.Logger) (*Bot, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}

	bot := &Bot{
		session:   session,
		db:        db,
		ledger:    svc,
		channelID: channelID,
		timezone:  "UTC",
		log:       log.With().Str("component", "discord").Logger(),
	}

	session.AddHandler(bot.handleMessage)
	session.Identify.Intents = discordgo.IntentGuildMessages

	return bot, nil
}

func (b *Bot) Start() error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}
	return nil
}

func (b *Bot) Stop() {
	b.session.Close()
}

// NotifyPayment posts a one-line confirmation for a created payment.
func (b *Bot) NotifyPayment(payment *storage.Payment) {
	total := "?"
	if payment.Total != nil {
		total = payment.Total.String()
	}
	msg := fmt.Sprintf("Recorded %s #%d: %s (%s)",
		strings.ToLower(string(payment.Type)), payment.ID, payment.Description, total)
	if _, err := b.session.ChannelMessageSend(b.channelID, msg); err != nil {
		b.log.Warn().Err(err).Msg("failed to send payment notification")
	}
}

func (b *Bot) handleMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author.ID == s.State.User.ID {
		return //bot's messages
	}
	if m.ChannelID != b.channelID {
		return //specific to the channel
	}

	content := strings.TrimSpace(m.Content)
	switch {
	case strings.HasPrefix(content, "!balances"):
		b.handleBalances(s, m)
	case strings.HasPrefix(content, "!recent"):
		b.handleRecent(s, m)
	default:
		b.handleQuickEntry(s, m, content)
	}
}

func (b *Bot) handleBalances(s *discordgo.Session, m *discordgo.MessageCreate) {
	accounts, err := b.db.ListAccounts(nil)
	if err != nil {
		s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("Failed to list accounts: %v", err))
		return
	}
	if len(accounts) == 0 {
		s.ChannelMessageSend(m.ChannelID, "No accounts found.")
		return
	}

	response := "**Account Balances**\n\n"
	for _, account := range accounts {
		response += fmt.Sprintf("**%s**: %s %s\n", account.Name, account.Balance, account.CurrencyCode)
	}
	s.ChannelMessageSend(m.ChannelID, response)
}

func (b *Bot) handleRecent(s *discordgo.Session, m *discordgo.MessageCreate) {
	limit := 5
	args := strings.Fields(m.Content)
	if len(args) == 2 {
		n, err := strconv.Atoi(args[1])
		if err != nil || n < 1 {
			s.ChannelMessageSend(m.ChannelID, "Usage: !recent [count]")
			return
		}
		limit = n
	}

	payments, err := b.db.ListPayments(nil, nil)
	if err != nil {
		s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("Failed to list payments: %v", err))
		return
	}
	if len(payments) == 0 {
		s.ChannelMessageSend(m.ChannelID, "No payments found.")
		return
	}

	if limit > len(payments) {
		limit = len(payments)
	}
	response := "**Recent Payments**\n\n"
	for _, payment := range payments[len(payments)-limit:] {
		total := "?"
		if payment.Total != nil {
			total = payment.Total.String()
		}
		response += fmt.Sprintf("#%d **%s** %s - %s\n  %s\n",
			payment.ID, payment.Type, total, payment.Description,
			payment.Timestamp.Format("Jan 2, 2006 3:04 PM"))
	}
	s.ChannelMessageSend(m.ChannelID, response)
}

func (b *Bot) handleQuickEntry(s *discordgo.Session, m *discordgo.MessageCreate, content string) {
	draft, err := quickentry.Parse(content)
	if err != nil {
		s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("Invalid quick-entry line: %v\nExample: spent 120 TWD on lunch from account 2 category 5", err))
		return
	}

	lineTotal := draft.Amount.Mul(decimal.NewFromInt(int64(draft.Quantity)))
	delta := lineTotal.Neg()
	if draft.Type == storage.PaymentTypeIncome {
		delta = lineTotal
	}

	payment, err := b.ledger.CreatePayment(ledger.CreatePaymentInput{
		Payment: ledger.PaymentInput{
			Type:        draft.Type,
			Timestamp:   time.Now().UTC(),
			Timezone:    b.timezone,
			Description: draft.Description,
		},
		Entries: []ledger.EntryInput{{
			CategoryID:   draft.CategoryID,
			Amount:       draft.Amount,
			Quantity:     draft.Quantity,
			CurrencyCode: draft.CurrencyCode,
			Description:  draft.Description,
		}},
		Transactions: []ledger.TransactionInput{{
			AccountID: draft.AccountID,
			Amount:    delta,
		}},
	})
	if err != nil {
		s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("Failed to record payment: %v", err))
		return
	}

	s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("Tracked #%d: %s %s %s (account %d)",
		payment.ID, lineTotal, draft.CurrencyCode, draft.Description, draft.AccountID))
}
