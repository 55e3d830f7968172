package bot

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/shubhDEV-11/TWITTER-SELLER-2.0/internal/domain"
	"github.com/shubhDEV-11/TWITTER-SELLER-2.0/internal/payment"
	"github.com/shubhDEV-11/TWITTER-SELLER-2.0/internal/service"
	"github.com/shubhDEV-11/TWITTER-SELLER-2.0/internal/storage"
)

// Sender is the slice of the Telegram client the handlers need; tests
// substitute a recording fake.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// FileFetcher downloads an uploaded Telegram file by its file id.
type FileFetcher interface {
	Fetch(ctx context.Context, fileID string) ([]byte, error)
}

// Bot routes incoming updates to the shop.
type Bot struct {
	api     Sender
	files   FileFetcher
	shop    *service.Shop
	store   *storage.FileDB
	upi     payment.UPI
	adminID int64
	contact string
	logger  *logrus.Logger
}

func New(api Sender, files FileFetcher, shop *service.Shop, store *storage.FileDB, upi payment.UPI, adminID int64, contact string, logger *logrus.Logger) *Bot {
	return &Bot{
		api:     api,
		files:   files,
		shop:    shop,
		store:   store,
		upi:     upi,
		adminID: adminID,
		contact: contact,
		logger:  logger,
	}
}

// Run consumes updates until the channel closes or the context is done.
func (b *Bot) Run(ctx context.Context, updates <-chan tgbotapi.Update) {
	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.HandleUpdate(ctx, update)
		}
	}
}

// HandleUpdate classifies one update and dispatches it. Errors end up as a
// reply to the user or a log line; they never stop the loop.
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch ev := classify(update); ev {
	case eventDecision:
		b.handleDecision(ctx, update.CallbackQuery)
	case eventCommand:
		b.handleCommand(ctx, update.Message)
	case eventPhoto:
		b.handleScreenshot(ctx, update.Message)
	case eventDocument:
		b.handleStockUpload(ctx, update.Message)
	case eventText:
		b.handleText(ctx, update.Message)
	default:
		// service messages, edits and the like
	}
}

func (b *Bot) isAdmin(id int64) bool { return id == b.adminID }

func userID(id int64) domain.UserID {
	return domain.UserID(strconv.FormatInt(id, 10))
}

func chatID(id domain.UserID) int64 {
	n, _ := strconv.ParseInt(string(id), 10, 64)
	return n
}

func (b *Bot) reply(chat int64, text string) {
	msg := tgbotapi.NewMessage(chat, text)
	b.send(msg)
}

func (b *Bot) replyMarkdown(chat int64, text string) {
	msg := tgbotapi.NewMessage(chat, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	b.send(msg)
}

func (b *Bot) replyWithKeyboard(chat int64, text string, kb interface{}) {
	msg := tgbotapi.NewMessage(chat, text)
	msg.ReplyMarkup = kb
	b.send(msg)
}

// send is best-effort: a blocked user or a flaky network must not take the
// handler down.
func (b *Bot) send(c tgbotapi.Chattable) {
	if _, err := b.api.Send(c); err != nil {
		b.logger.WithError(err).Debug("send failed")
	}
}

func (b *Bot) answerCallback(id, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(id, text)); err != nil {
		b.logger.WithError(err).Debug("answer callback failed")
	}
}

// APIFileFetcher fetches files through the Bot API file endpoint.
type APIFileFetcher struct {
	API    *tgbotapi.BotAPI
	Client *http.Client
}

func (f *APIFileFetcher) Fetch(ctx context.Context, fileID string) ([]byte, error) {
	url, err := f.API.GetFileDirectURL(fileID)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("file download: %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}
