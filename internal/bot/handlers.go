package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/shubhDEV-11/TWITTER-SELLER-2.0/internal/domain"
	"github.com/shubhDEV-11/TWITTER-SELLER-2.0/internal/service"
)

func (b *Bot) handleCommand(ctx context.Context, m *tgbotapi.Message) {
	uid := userID(m.From.ID)
	chat := m.Chat.ID
	if _, err := b.shop.EnsureUser(ctx, uid, m.From.UserName); err != nil {
		b.logger.WithError(err).Error("ensure user")
		b.reply(chat, "⚠️ Something went wrong, try again.")
		return
	}

	switch m.Command() {
	case "start":
		b.reply(chat, welcomeText())
		b.replyWithKeyboard(chat, "🔥 Main Menu:", mainKeyboard())
		b.reply(chat, randomTip())
	case "help":
		b.reply(chat, helpText(b.isAdmin(m.From.ID)))
	case "cancel":
		if err := b.shop.SetMode(ctx, uid, domain.ModeIdle); err != nil {
			b.logger.WithError(err).Error("cancel")
		}
		b.reply(chat, "✖️ Cancelled. Back to the main menu.")
	case "addaccount", "addstock", "stock", "list", "broadcast", "export", "backup":
		if !b.isAdmin(m.From.ID) {
			b.reply(chat, "❌ Only admin")
			return
		}
		b.handleAdminCommand(ctx, m)
	default:
		b.reply(chat, "Unknown command. Try /help")
	}
}

func (b *Bot) handleAdminCommand(ctx context.Context, m *tgbotapi.Message) {
	chat := m.Chat.ID
	args := strings.TrimSpace(m.CommandArguments())

	switch m.Command() {
	case "addaccount":
		accounts, _ := service.ParseStockLines(args)
		if len(accounts) != 1 {
			b.reply(chat, "❌ Usage: /addaccount username,password,email")
			return
		}
		if _, err := b.shop.AddStock(ctx, accounts); err != nil {
			b.logger.WithError(err).Error("add stock")
			b.reply(chat, "⚠️ Could not add the account.")
			return
		}
		acc := accounts[0]
		b.reply(chat, fmt.Sprintf("✅ Added account: %s, %s, %s", acc.Username, acc.Password, acc.Email))

	case "addstock":
		accounts, skipped := service.ParseStockLines(args)
		if len(accounts) == 0 {
			b.reply(chat, "❌ Usage: /addstock with one username,password,email per line, or upload a .txt file.")
			return
		}
		added, err := b.shop.AddStock(ctx, accounts)
		if err != nil {
			b.logger.WithError(err).Error("add stock")
			b.reply(chat, "⚠️ Could not add the accounts.")
			return
		}
		b.reply(chat, fmt.Sprintf("✅ Added %d account(s), skipped %d malformed line(s). Stock: %d", added, skipped, b.shop.StockCount()))

	case "stock":
		b.reply(chat, fmt.Sprintf("📦 Current stock: %d account(s) available.", b.shop.StockCount()))

	case "list":
		b.reply(chat, renderUserList(b.shop.Users()))

	case "broadcast":
		if args == "" {
			b.reply(chat, "❌ Usage: /broadcast <message>")
			return
		}
		sent, failed := b.broadcast(args)
		b.reply(chat, fmt.Sprintf("✅ Broadcast sent to %d users (%d failed)", sent, failed))

	case "export":
		csv, err := b.shop.ExportTransactionsCSV()
		if err != nil {
			b.logger.WithError(err).Error("export transactions")
			b.reply(chat, "⚠️ Export failed.")
			return
		}
		doc := tgbotapi.NewDocument(chat, tgbotapi.FileBytes{Name: "transactions.csv", Bytes: csv})
		b.send(doc)

	case "backup":
		path, err := b.store.BackupNow()
		if err != nil {
			b.logger.WithError(err).Error("backup")
			b.reply(chat, "⚠️ Backup failed.")
			return
		}
		b.reply(chat, "✅ Backup written: "+path)
	}
}

// broadcast delivers best-effort: blocked users are counted and skipped.
func (b *Bot) broadcast(text string) (sent, failed int) {
	for _, u := range b.shop.Users() {
		if _, err := b.api.Send(tgbotapi.NewMessage(chatID(u.ID), text)); err != nil {
			b.logger.WithError(err).WithField("user", u.ID).Debug("broadcast delivery failed")
			failed++
			continue
		}
		sent++
	}
	return sent, failed
}

func (b *Bot) handleText(ctx context.Context, m *tgbotapi.Message) {
	uid := userID(m.From.ID)
	chat := m.Chat.ID
	text := strings.TrimSpace(m.Text)

	u, err := b.shop.EnsureUser(ctx, uid, m.From.UserName)
	if err != nil {
		b.logger.WithError(err).Error("ensure user")
		b.reply(chat, "⚠️ Something went wrong, try again.")
		return
	}

	switch text {
	case btnBuy:
		if err := b.shop.SetMode(ctx, uid, domain.ModeAwaitQty); err != nil {
			b.logger.WithError(err).Error("set mode")
			return
		}
		b.reply(chat, "🛒 How many Twitter accounts would you like to purchase? Enter a number.")
	case btnStock:
		b.replyWithKeyboard(chat, fmt.Sprintf("📦 Current stock: %d account(s) available.", b.shop.StockCount()), mainKeyboard())
		b.reply(chat, randomTip())
	case btnWallet:
		b.replyWithKeyboard(chat, fmt.Sprintf("💰 Your wallet balance: %s", domain.FormatPaise(u.Wallet)), mainKeyboard())
	case btnTopup:
		if err := b.shop.SetMode(ctx, uid, domain.ModeAwaitAmount); err != nil {
			b.logger.WithError(err).Error("set mode")
			return
		}
		b.reply(chat, "💳 Enter the amount you want to add to your wallet (e.g., 100)")
	case btnContact:
		msg := tgbotapi.NewMessage(chat, "📩 Contact the admin:")
		msg.ReplyMarkup = contactKeyboard(b.contact)
		b.send(msg)
	case btnCancel:
		if err := b.shop.SetMode(ctx, uid, domain.ModeIdle); err != nil {
			b.logger.WithError(err).Error("set mode")
		}
		b.reply(chat, "✖️ Cancelled. Back to the main menu.")
	default:
		switch u.Mode {
		case domain.ModeAwaitQty:
			b.finishPurchase(ctx, chat, uid, text)
		case domain.ModeAwaitAmount:
			b.finishTopupRequest(ctx, chat, uid, text)
		default:
			b.reply(chat, "ℹ️ Use the menu buttons or /help")
		}
	}
}

// finishPurchase settles a purchase for the quantity the user typed.
// Invalid input and rejections keep the user in the quantity prompt;
// /cancel leaves it.
func (b *Bot) finishPurchase(ctx context.Context, chat int64, uid domain.UserID, text string) {
	qty, err := strconv.Atoi(text)
	if err != nil || qty <= 0 {
		b.reply(chat, "❌ Please enter a valid number.")
		return
	}
	accounts, cost, err := b.shop.Purchase(ctx, uid, qty)
	var oos *service.ErrOutOfStock
	switch {
	case errors.As(err, &oos):
		b.reply(chat, fmt.Sprintf("❌ Only %d account(s) in stock.", oos.Available))
	case errors.Is(err, service.ErrInsufficientFunds):
		b.reply(chat, "❌ Insufficient balance.")
	case err != nil:
		b.logger.WithError(err).Error("purchase")
		b.reply(chat, "⚠️ Purchase failed, nothing was charged.")
	default:
		b.replyMarkdown(chat, renderAccounts(accounts, cost))
	}
}

func (b *Bot) finishTopupRequest(ctx context.Context, chat int64, uid domain.UserID, text string) {
	amount, err := domain.ParseRupees(text)
	if err != nil || amount <= 0 {
		b.reply(chat, "❌ Enter a valid amount.")
		return
	}
	t, err := b.shop.RequestTopup(ctx, uid, amount)
	if err != nil {
		b.logger.WithError(err).Error("request topup")
		b.reply(chat, "⚠️ Could not start the top-up, try again.")
		return
	}
	b.logger.WithField("topup", t.ID).Info("top-up requested")

	png, err := b.upi.QRPNG(amount)
	if err != nil {
		b.logger.WithError(err).Error("qr render")
		b.reply(chat, "⚠️ Could not generate the payment QR, try again.")
		return
	}
	photo := tgbotapi.NewPhoto(chat, tgbotapi.FileBytes{Name: "qr.png", Bytes: png})
	photo.Caption = fmt.Sprintf("💳 Scan QR to pay %s", domain.FormatPaise(amount))
	b.send(photo)
	b.reply(chat, "📸 After payment, send the screenshot here to verify.")
}

// handleScreenshot forwards a payment screenshot to the admin with the
// verify/decline buttons for the user's unresolved top-up.
func (b *Bot) handleScreenshot(ctx context.Context, m *tgbotapi.Message) {
	uid := userID(m.From.ID)
	chat := m.Chat.ID
	// last PhotoSize is the largest rendition
	fileID := m.Photo[len(m.Photo)-1].FileID

	t, err := b.shop.AttachScreenshot(ctx, uid, fileID)
	if errors.Is(err, service.ErrNoPendingTopup) {
		b.reply(chat, "ℹ️ No pending top-up. Use 💳 Add Funds first.")
		return
	}
	if err != nil {
		b.logger.WithError(err).Error("attach screenshot")
		b.reply(chat, "⚠️ Something went wrong, try again.")
		return
	}

	photo := tgbotapi.NewPhoto(b.adminID, tgbotapi.FileID(fileID))
	photo.Caption = screenshotCaption(m.From.UserName, uid, t.Amount)
	photo.ReplyMarkup = decisionKeyboard(t.ID)
	b.send(photo)

	b.reply(chat, "✅ Screenshot sent to admin for verification.")
}

// handleStockUpload bulk-imports credentials from an admin-uploaded
// line-delimited file.
func (b *Bot) handleStockUpload(ctx context.Context, m *tgbotapi.Message) {
	if !b.isAdmin(m.From.ID) {
		return
	}
	chat := m.Chat.ID
	data, err := b.files.Fetch(ctx, m.Document.FileID)
	if err != nil {
		b.logger.WithError(err).Error("fetch stock file")
		b.reply(chat, "⚠️ Could not download the file.")
		return
	}
	accounts, skipped := service.ParseStockLines(string(data))
	if len(accounts) == 0 {
		b.reply(chat, "❌ No valid username,password,email lines in the file.")
		return
	}
	added, err := b.shop.AddStock(ctx, accounts)
	if err != nil {
		b.logger.WithError(err).Error("add stock")
		b.reply(chat, "⚠️ Could not add the accounts.")
		return
	}
	b.reply(chat, fmt.Sprintf("✅ Added %d account(s) from %s, skipped %d malformed line(s). Stock: %d",
		added, m.Document.FileName, skipped, b.shop.StockCount()))
}

// handleDecision settles an admin verify/decline callback. A decision on an
// already resolved top-up answers "already processed" and changes nothing.
func (b *Bot) handleDecision(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	if cq.From == nil || cq.Data == "" {
		return
	}
	if !b.isAdmin(cq.From.ID) {
		b.answerCallback(cq.ID, "❌ Only admin")
		return
	}
	action, rawID, ok := strings.Cut(cq.Data, ":")
	if !ok {
		b.answerCallback(cq.ID, "")
		return
	}
	id := domain.TopupID(rawID)

	switch action {
	case "verify":
		t, err := b.shop.ApproveTopup(ctx, id)
		if errors.Is(err, service.ErrAlreadyProcessed) || errors.Is(err, service.ErrNoPendingTopup) {
			b.answerCallback(cq.ID, "❌ Already processed")
			return
		}
		if err != nil {
			b.logger.WithError(err).Error("approve topup")
			b.answerCallback(cq.ID, "⚠️ Failed")
			return
		}
		b.answerCallback(cq.ID, "✅ Verified")
		b.editDecisionCaption(cq, fmt.Sprintf("✅ Verified payment. %s added to user wallet.", domain.FormatPaise(t.Amount)))
		b.reply(chatID(t.UserID), fmt.Sprintf("✅ Your payment of %s has been verified and added to your wallet.", domain.FormatPaise(t.Amount)))

	case "decline":
		t, err := b.shop.DeclineTopup(ctx, id)
		if errors.Is(err, service.ErrAlreadyProcessed) || errors.Is(err, service.ErrNoPendingTopup) {
			b.answerCallback(cq.ID, "❌ Already processed")
			return
		}
		if err != nil {
			b.logger.WithError(err).Error("decline topup")
			b.answerCallback(cq.ID, "⚠️ Failed")
			return
		}
		b.answerCallback(cq.ID, "❌ Declined")
		b.editDecisionCaption(cq, "❌ Payment declined.")
		b.reply(chatID(t.UserID), "❌ Your payment has been declined by the admin.")

	default:
		b.answerCallback(cq.ID, "")
	}
}

func (b *Bot) editDecisionCaption(cq *tgbotapi.CallbackQuery, caption string) {
	if cq.Message == nil {
		return
	}
	b.send(tgbotapi.NewEditMessageCaption(cq.Message.Chat.ID, cq.Message.MessageID, caption))
}
