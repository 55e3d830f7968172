package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// eventKind is the tagged classification of an inbound update, so dispatch
// happens in one place instead of duck-typing the payload in every handler.
type eventKind int

const (
	eventIgnore eventKind = iota
	eventCommand
	eventText
	eventPhoto
	eventDocument
	eventDecision
)

func classify(update tgbotapi.Update) eventKind {
	if update.CallbackQuery != nil {
		return eventDecision
	}
	m := update.Message
	if m == nil || m.From == nil || m.Chat == nil {
		return eventIgnore
	}
	switch {
	case m.IsCommand():
		return eventCommand
	case len(m.Photo) > 0:
		return eventPhoto
	case m.Document != nil:
		return eventDocument
	case m.Text != "":
		return eventText
	}
	return eventIgnore
}
