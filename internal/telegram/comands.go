package telegram

import (
	"context"
	"log"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"TimezoneBot/internal/engine"
	"TimezoneBot/internal/model"
	"TimezoneBot/internal/storage"
	"TimezoneBot/internal/timeparse"
	"TimezoneBot/internal/tzdata"
)

// Platform identifies this adapter in storage rows and metrics.
const Platform = "telegram"

func Reply(bot *tgbotapi.BotAPI, chatID int64, replyTo int, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if replyTo != 0 {
		msg.ReplyToMessageID = replyTo
	}
	if _, err := bot.Send(msg); err != nil {
		log.Printf("reply send error (chatID=%d): %v", chatID, err)
	}
}

type Handler struct {
	Bot    *tgbotapi.BotAPI
	Store  *storage.Storage
	Engine *engine.Engine
}

func msgLanguage(message *tgbotapi.Message) model.Language {
	if message.From != nil && message.From.LanguageCode == "ru" {
		return model.LangRU
	}
	return timeparse.DetectLanguage(message.Text)
}

func isGroup(message *tgbotapi.Message) bool {
	return message.Chat.IsGroup() || message.Chat.IsSuperGroup()
}

func HandleUpdate(h *Handler, upd tgbotapi.Update) {
	// Edited messages would produce duplicate replies; skip them.
	if upd.EditedMessage != nil {
		return
	}
	message := upd.Message
	if message == nil || message.From == nil {
		return
	}
	if message.IsCommand() {
		HandleCommand(h, message)
		return
	}
	HandleMessage(h, message)
}

// HandleMessage runs incoming chat text through the conversion engine.
func HandleMessage(h *Handler, message *tgbotapi.Message) {
	if message.Text == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	em := engine.Message{
		Platform: Platform,
		ChatID:   strconv.FormatInt(message.Chat.ID, 10),
		UserID:   strconv.FormatInt(message.From.ID, 10),
		Text:     message.Text,
		FromBot:  message.From.IsBot,
	}

	var reply *engine.Reply
	var err error
	if isGroup(message) {
		reply, err = h.Engine.HandleGroupMessage(ctx, em)
	} else {
		reply, err = h.Engine.HandleDirectMessage(ctx, em)
	}
	if err != nil {
		log.Printf("engine error (chatID=%d): %v", message.Chat.ID, err)
		return
	}
	if reply == nil {
		return
	}
	replyTo := 0
	if isGroup(message) {
		replyTo = message.MessageID
	}
	Reply(h.Bot, message.Chat.ID, replyTo, reply.Text)
}

func HandleCommand(h *Handler, message *tgbotapi.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	chatID := message.Chat.ID
	userID := strconv.FormatInt(message.From.ID, 10)
	chatKey := strconv.FormatInt(chatID, 10)
	lang := msgLanguage(message)
	arg := strings.TrimSpace(message.CommandArguments())

	switch message.Command() {
	case "start", "help":
		Reply(h.Bot, chatID, 0, startText(lang))

	case "tz":
		if arg == "" {
			Reply(h.Bot, chatID, 0, pick(lang,
				"Пример: /tz Амстердам или /tz Europe/Amsterdam. Сбросить: /tz clear",
				"Example: /tz Amsterdam or /tz Europe/Amsterdam. Reset: /tz clear"))
			return
		}
		if strings.EqualFold(arg, "clear") {
			if err := h.Store.Profiles().SetTimezone(ctx, Platform, userID, ""); err != nil {
				replyStorageError(h.Bot, chatID, lang, err)
				return
			}
			Reply(h.Bot, chatID, 0, pick(lang, "Часовой пояс сброшен", "Timezone cleared"))
			return
		}
		tz, ok := engine.ResolveTimezoneToken(arg)
		if !ok {
			Reply(h.Bot, chatID, 0, pick(lang,
				"Не удалось распознать часовой пояс: "+arg,
				"Couldn't recognize that timezone: "+arg))
			return
		}
		if err := h.Store.Profiles().SetTimezone(ctx, Platform, userID, tz); err != nil {
			replyStorageError(h.Bot, chatID, lang, err)
			return
		}
		Reply(h.Bot, chatID, 0, pick(lang,
			"Часовой пояс обновлён: "+tzdata.DisplayName(tz, lang),
			"Timezone updated: "+tzdata.DisplayName(tz, lang)))

	case "monitor":
		if !isGroup(message) {
			Reply(h.Bot, chatID, 0, pick(lang, "Эта команда работает только в группах", "This command only works in groups"))
			return
		}
		enabled, ok := parseOnOff(arg)
		if !ok {
			Reply(h.Bot, chatID, 0, "Usage: /monitor on | off")
			return
		}
		if err := h.Store.Groups().SetMonitor(ctx, Platform, chatKey, enabled); err != nil {
			replyStorageError(h.Bot, chatID, lang, err)
			return
		}
		if enabled {
			Reply(h.Bot, chatID, 0, pick(lang, "Слежу за временем в этом чате", "Now watching this chat for times"))
		} else {
			Reply(h.Bot, chatID, 0, pick(lang, "Больше не слежу за этим чатом", "No longer watching this chat"))
		}

	case "tzlist":
		handleTzList(h, ctx, message, lang, arg)

	case "dm":
		enabled, ok := parseOnOff(arg)
		if !ok {
			Reply(h.Bot, chatID, 0, "Usage: /dm on | off")
			return
		}
		if err := h.Store.Profiles().SetDMEnabled(ctx, Platform, userID, enabled); err != nil {
			replyStorageError(h.Bot, chatID, lang, err)
			return
		}
		Reply(h.Bot, chatID, 0, pick(lang, "Настройка личных сообщений сохранена", "DM preference saved"))

	case "mute":
		muted := true
		if arg != "" {
			on, ok := parseOnOff(arg)
			if !ok {
				Reply(h.Bot, chatID, 0, "Usage: /mute [on | off]")
				return
			}
			muted = on
		}
		if err := h.Store.Profiles().SetMuted(ctx, Platform, userID, muted); err != nil {
			replyStorageError(h.Bot, chatID, lang, err)
			return
		}
		if muted {
			Reply(h.Bot, chatID, 0, pick(lang, "Больше не реагирую на ваши сообщения. Вернуть: /mute off", "I'll stop reacting to your messages. Undo with /mute off"))
		} else {
			Reply(h.Bot, chatID, 0, pick(lang, "Снова реагирую на ваши сообщения", "Reacting to your messages again"))
		}

	case "feedback":
		if arg == "" {
			Reply(h.Bot, chatID, 0, pick(lang, "Напишите отзыв после команды: /feedback ...", "Write your feedback after the command: /feedback ..."))
			return
		}
		if err := h.Store.Feedback().Add(ctx, Platform, userID, arg); err != nil {
			replyStorageError(h.Bot, chatID, lang, err)
			return
		}
		Reply(h.Bot, chatID, 0, pick(lang, "Спасибо за отзыв!", "Thanks for the feedback!"))

	case "delete_me":
		if err := h.Store.Profiles().Delete(ctx, Platform, userID); err != nil {
			replyStorageError(h.Bot, chatID, lang, err)
			return
		}
		if isGroup(message) {
			_ = h.Store.Members().Remove(ctx, Platform, chatKey, userID)
		}
		Reply(h.Bot, chatID, 0, pick(lang, "Ваши данные удалены", "Your data has been deleted"))

	default:
	}
}

func handleTzList(h *Handler, ctx context.Context, message *tgbotapi.Message, lang model.Language, arg string) {
	chatID := message.Chat.ID
	if !isGroup(message) {
		Reply(h.Bot, chatID, 0, pick(lang, "Эта команда работает только в группах", "This command only works in groups"))
		return
	}
	chatKey := strconv.FormatInt(chatID, 10)

	fields := strings.Fields(arg)
	sub := "show"
	if len(fields) > 0 {
		sub = strings.ToLower(fields[0])
	}

	switch sub {
	case "show":
		active, err := h.Store.ActiveTimezones(ctx, Platform, chatKey)
		if err != nil {
			replyStorageError(h.Bot, chatID, lang, err)
			return
		}
		if len(active) == 0 {
			Reply(h.Bot, chatID, 0, pick(lang, "Список часовых поясов пуст", "The timezone list is empty"))
			return
		}
		var b strings.Builder
		b.WriteString(pick(lang, "Часовые пояса чата:\n", "Chat timezones:\n"))
		for _, tz := range active {
			b.WriteString("• " + tzdata.DisplayName(tz, lang) + " (" + tz + ")\n")
		}
		Reply(h.Bot, chatID, 0, b.String())

	case "add", "remove":
		if len(fields) < 2 {
			Reply(h.Bot, chatID, 0, "Usage: /tzlist add <zone> | remove <zone> | show")
			return
		}
		tz, ok := engine.ResolveTimezoneToken(strings.Join(fields[1:], " "))
		if !ok {
			Reply(h.Bot, chatID, 0, pick(lang, "Не удалось распознать часовой пояс", "Couldn't recognize that timezone"))
			return
		}
		mode := storage.OverrideAdd
		if sub == "remove" {
			mode = storage.OverrideRemove
		}
		if err := h.Store.Overrides().Set(ctx, Platform, chatKey, tz, mode); err != nil {
			replyStorageError(h.Bot, chatID, lang, err)
			return
		}
		Reply(h.Bot, chatID, 0, pick(lang, "Список часовых поясов обновлён", "Timezone list updated"))

	default:
		Reply(h.Bot, chatID, 0, "Usage: /tzlist add <zone> | remove <zone> | show")
	}
}

func parseOnOff(arg string) (bool, bool) {
	switch strings.ToLower(arg) {
	case "on", "вкл":
		return true, true
	case "off", "выкл":
		return false, true
	}
	return false, false
}

func pick(lang model.Language, ru, en string) string {
	if lang == model.LangRU {
		return ru
	}
	return en
}

func replyStorageError(bot *tgbotapi.BotAPI, chatID int64, lang model.Language, err error) {
	log.Printf("storage error (chatID=%d): %v", chatID, err)
	Reply(bot, chatID, 0, pick(lang, "Не удалось сохранить, попробуйте позже", "Couldn't save that, try again later"))
}

func startText(lang model.Language) string {
	if lang == model.LangRU {
		return "Привет! Я перевожу время между часовыми поясами прямо в чате.\n" +
			"Напишите «встреча в 15:00», и я покажу это время в поясах участников.\n" +
			"Команды:\n" +
			"• /tz <город или зона> — задать свой часовой пояс\n" +
			"• /monitor on|off — следить за временем в группе\n" +
			"• /tzlist add|remove|show — пояса группы\n" +
			"• /dm on|off — личные сообщения от бота\n" +
			"• /mute — не реагировать на мои сообщения\n" +
			"• /feedback <текст> — отзыв\n" +
			"• /delete_me — удалить мои данные"
	}
	return "Hi! I convert times between timezones right in the chat.\n" +
		"Write \"meeting at 3pm\" and I'll show that time in everyone's zones.\n" +
		"Commands:\n" +
		"• /tz <city or zone> — set your timezone\n" +
		"• /monitor on|off — watch this group for times\n" +
		"• /tzlist add|remove|show — the group's zones\n" +
		"• /dm on|off — direct messages from the bot\n" +
		"• /mute — stop reacting to my messages\n" +
		"• /feedback <text> — send feedback\n" +
		"• /delete_me — delete my data"
}
