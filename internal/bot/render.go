package bot

import (
	"fmt"
	"math/rand"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/shubhDEV-11/TWITTER-SELLER-2.0/internal/domain"
)

const (
	btnBuy     = "🛒 Buy Account"
	btnStock   = "📦 Check Stock"
	btnWallet  = "💰 Wallet"
	btnTopup   = "💳 Add Funds"
	btnContact = "📩 Contact Admin"
	btnCancel  = "✖️ Cancel"
)

func mainKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnBuy),
			tgbotapi.NewKeyboardButton(btnStock),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnWallet),
			tgbotapi.NewKeyboardButton(btnTopup),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnContact),
			tgbotapi.NewKeyboardButton(btnCancel),
		),
	)
}

func contactKeyboard(contact string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL("Message Admin", contact),
		),
	)
}

func decisionKeyboard(id domain.TopupID) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Verify", "verify:"+string(id)),
			tgbotapi.NewInlineKeyboardButtonData("❌ Decline", "decline:"+string(id)),
		),
	)
}

var tips = []string{
	"💡 Tip: Buy accounts now to dominate Twitter! 🚀",
	"🔥 Hot Deal: Accounts are limited, grab yours! 🛒",
	"💎 Keep your wallet topped up for instant access!",
	"✨ Every account you buy is a step closer to Twitter growth!",
}

func randomTip() string {
	return tips[rand.Intn(len(tips))]
}

func welcomeText() string {
	return "✨✨✨ WELCOME ✨✨✨\n" +
		"🎉 Ultimate Twitter Seller Bot 🎉\n" +
		"🚀 Get premium accounts instantly 🚀\n" +
		"💎 Manage wallet | Buy | Add Funds | Check Stock 💎"
}

func helpText(admin bool) string {
	s := "Use the menu buttons, or:\n" +
		"/start — main menu\n" +
		"/help — this message\n" +
		"/cancel — leave the current flow"
	if admin {
		s += "\n\nAdmin:\n" +
			"/addaccount username,password,email\n" +
			"/addstock <one username,password,email per line> (or upload a .txt)\n" +
			"/stock — stock count\n" +
			"/list — registered users\n" +
			"/broadcast <message>\n" +
			"/export — transactions CSV\n" +
			"/backup — snapshot the store"
	}
	return s
}

// renderAccounts formats allocated credentials as copyable code blocks,
// the way the storefront always delivered them.
func renderAccounts(accounts []domain.Account, cost int64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "✅ Payment of %s has been deducted from your wallet.\n\nHere are your %d account(s):\n\n",
		domain.FormatPaise(cost), len(accounts))
	for i, acc := range accounts {
		fmt.Fprintf(&b, "Account %d:\n```\n%s, %s, %s\n```\n\n", i+1, acc.Username, acc.Password, acc.Email)
	}
	return b.String()
}

func renderUserList(users []*domain.User) string {
	if len(users) == 0 {
		return "👥 No users yet."
	}
	var b strings.Builder
	b.WriteString("👥 Registered Users:\n\n")
	for _, u := range users {
		fmt.Fprintf(&b, "ID: %s, Wallet: %s, Spent: %s\n",
			u.ID, domain.FormatPaise(u.Wallet), domain.FormatPaise(u.TotalSpent))
	}
	return b.String()
}

func screenshotCaption(username string, id domain.UserID, amount int64) string {
	if username == "" {
		username = "N/A"
	}
	return fmt.Sprintf("💳 Payment screenshot from @%s (ID: %s) Amount: %s",
		username, id, domain.FormatPaise(amount))
}
