// Package notify delivers owner notifications for incoming guest inquiries.
// Email delivery is handled outside this service; Telegram is the owners'
// day-to-day channel.
package notify

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"adriastay/internal/events"
	"adriastay/internal/models"
)

// sender is the part of the Telegram bot API the notifier uses.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier sends inquiry alerts to the configured owner chats.
type TelegramNotifier struct {
	bot     sender
	chatIDs []int64
	limiter *rate.Limiter
	logger  *zerolog.Logger
}

// NewTelegramNotifier creates a notifier from a bot token.
func NewTelegramNotifier(token string, chatIDs []int64, logger *zerolog.Logger) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	return newTelegramNotifier(bot, chatIDs, logger), nil
}

func newTelegramNotifier(bot sender, chatIDs []int64, logger *zerolog.Logger) *TelegramNotifier {
	return &TelegramNotifier{
		bot:     bot,
		chatIDs: chatIDs,
		// Telegram allows roughly one message per second per chat.
		limiter: rate.NewLimiter(rate.Limit(1), 3),
		logger:  logger,
	}
}

// SubscribeTo wires the notifier into the event bus. Delivery happens on its
// own goroutine: bus handlers run inside the publishing HTTP handler, and a
// slow Telegram API must not hold up the inquiry response.
func (n *TelegramNotifier) SubscribeTo(bus *events.Bus) {
	bus.Subscribe(events.TypeInquiryReceived, func(event events.Event) error {
		inquiry, ok := event.Payload.(models.Inquiry)
		if !ok {
			return fmt.Errorf("unexpected payload type %T", event.Payload)
		}
		go func() {
			if err := n.NotifyInquiry(context.Background(), inquiry); err != nil && n.logger != nil {
				n.logger.Error().Err(err).Str("reference", inquiry.Reference).Msg("deliver inquiry notification")
			}
		}()
		return nil
	})
}

// NotifyInquiry sends the inquiry summary to every owner chat.
func (n *TelegramNotifier) NotifyInquiry(ctx context.Context, inquiry models.Inquiry) error {
	text := formatInquiry(inquiry)

	for _, chatID := range n.chatIDs {
		if err := n.limiter.Wait(ctx); err != nil {
			return err
		}
		msg := tgbotapi.NewMessage(chatID, text)
		if _, err := n.bot.Send(msg); err != nil {
			if n.logger != nil {
				n.logger.Error().Err(err).Int64("chat_id", chatID).Msg("send inquiry notification")
			}
			// Keep delivering to the remaining chats.
			continue
		}
	}
	return nil
}

func formatInquiry(inquiry models.Inquiry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "New inquiry %s\n", inquiry.Reference)
	fmt.Fprintf(&b, "Apartment: %s\n", inquiry.Apartment)
	fmt.Fprintf(&b, "Dates: %s to %s\n",
		inquiry.StartDate.Format("2006-01-02"), inquiry.EndDate.Format("2006-01-02"))
	fmt.Fprintf(&b, "Guest: %s (%s)\n", inquiry.GuestName, inquiry.Email)
	if inquiry.Phone != "" {
		fmt.Fprintf(&b, "Phone: %s\n", inquiry.Phone)
	}
	fmt.Fprintf(&b, "Quoted total: %d\n", inquiry.QuoteTotal)
	if !inquiry.Available {
		b.WriteString("WARNING: requested dates are not available\n")
	} else if inquiry.Degraded {
		b.WriteString("Note: availability checked without the external calendar feed\n")
	}
	if inquiry.Message != "" {
		fmt.Fprintf(&b, "Message: %s", inquiry.Message)
	}
	return b.String()
}
