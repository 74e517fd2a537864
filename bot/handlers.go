package bot

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fiffu/matchday/telegram"
)

const (
	menuText = "⚽ <b>Matchday</b>\n\nPick an option:"

	helpText = `⚽ <b>Matchday bot</b>

<b>Commands:</b>
/menu - Show the menu buttons
/update - Full match update
/help - Show this help

<b>Buttons:</b>
📋 Full update - standing, fixtures and results
📆 Next fixtures - the next 5 matches
📊 Recent results - the last 5 results
🏆 League table - current standings
🔔 Notifications - notification settings`

	startText = `⚽ Welcome to the <b>Matchday</b> notifier!

Use the buttons below to look up fixtures, results and standings,
or /help for the command list.`

	settingsText = "<b>🔔 Notification settings</b>\n\nUse the buttons below to adjust your alerts."
)

func (b *Bot) handleCommand(ctx context.Context, msg *telegram.Message) {
	chatID := strconv.FormatInt(msg.Chat.ID, 10)
	username := ""
	if msg.From != nil {
		username = msg.From.Username
	}
	if _, err := b.store.GetOrCreate(ctx, chatID, username); err != nil {
		b.log.Sugar().Errorw("Failed to upsert subscriber", "chat_id", chatID, "err", err)
	}

	command := strings.Fields(msg.Text)[0]
	if at := strings.Index(command, "@"); at > 0 {
		command = command[:at]
	}
	b.log.Sugar().Infow("Received command", "command", command, "chat_id", chatID)

	switch command {
	case "/start":
		b.reply(ctx, chatID, startText, menuKeyboard())
	case "/help":
		b.reply(ctx, chatID, helpText, menuKeyboard())
	case "/menu":
		b.reply(ctx, chatID, menuText, menuKeyboard())
	case "/update":
		b.sendFullUpdate(ctx, chatID)
	case "/restart":
		b.restart(ctx, chatID)
	default:
		b.reply(ctx, chatID, "Unknown command. Try /help.", menuKeyboard())
	}
}

func (b *Bot) sendFullUpdate(ctx context.Context, chatID string) {
	loadingID, err := b.api.SendMessage(ctx, chatID, "⏳ Fetching match data...", nil)
	if err != nil {
		b.log.Sugar().Warnw("Failed to send loading message", "chat_id", chatID, "err", err)
		return
	}

	message := b.fullUpdateView(ctx)

	if err := b.api.DeleteMessage(ctx, chatID, loadingID); err != nil {
		b.log.Sugar().Debugw("Failed to delete loading message", "chat_id", chatID, "err", err)
	}
	b.reply(ctx, chatID, message, menuKeyboard())
}

// restart is admin-only: it records which chat asked, then asks the process
// to exit so the supervisor restarts it. announceRestart picks up the flag
// on the next boot.
func (b *Bot) restart(ctx context.Context, chatID string) {
	if chatID != b.cfg.AdminChatID {
		b.log.Sugar().Warnw("Unauthorized /restart attempt", "chat_id", chatID)
		b.reply(ctx, chatID, "⛔ No permission.", menuKeyboard())
		return
	}

	b.log.Sugar().Infow("Restart requested by admin", "chat_id", chatID)
	b.reply(ctx, chatID, "🔄 Restarting the bot...", nil)

	if err := os.WriteFile(b.cfg.RestartFlagPath, []byte(chatID), 0o644); err != nil {
		b.log.Sugar().Warnw("Failed to write restart flag", "err", err)
	}
	if err := b.shutdowner.Shutdown(); err != nil {
		b.log.Sugar().Errorw("Failed to shut down", "err", err)
	}
}

func (b *Bot) handleCallback(ctx context.Context, query *telegram.CallbackQuery) {
	if err := b.api.AnswerCallbackQuery(ctx, query.ID); err != nil {
		b.log.Sugar().Debugw("Failed to answer callback query", "err", err)
	}
	if query.Message == nil {
		return
	}

	chatID := strconv.FormatInt(query.Message.Chat.ID, 10)
	messageID := query.Message.MessageID
	username := ""
	if query.From != nil {
		username = query.From.Username
	}
	if _, err := b.store.GetOrCreate(ctx, chatID, username); err != nil {
		b.log.Sugar().Errorw("Failed to upsert subscriber", "chat_id", chatID, "err", err)
	}

	data := query.Data
	b.log.Sugar().Infow("Button pressed", "data", data, "chat_id", chatID)

	switch {
	case data == "main_menu":
		b.edit(ctx, chatID, messageID, menuText, menuKeyboard())

	case data == "notifications":
		b.editSettings(ctx, chatID, messageID, settingsText)

	case data == "toggle_morning":
		b.toggleSetting(ctx, chatID, messageID, "morning", "Morning digest")

	case data == "toggle_goal":
		b.toggleSetting(ctx, chatID, messageID, "goal", "Goal alerts")

	case data == "toggle_lineup":
		b.toggleSetting(ctx, chatID, messageID, "lineup", "Lineup alerts")

	case data == "morning_hour_settings":
		b.edit(ctx, chatID, messageID,
			"<b>🕐 Digest hour</b>\n\nWhen should the morning digest arrive?", morningHourKeyboard())

	case strings.HasPrefix(data, "set_morning_hour_"):
		b.setMorningHour(ctx, chatID, messageID, strings.TrimPrefix(data, "set_morning_hour_"))

	case data == "reminder_settings":
		b.edit(ctx, chatID, messageID,
			"<b>⏰ Kickoff reminder</b>\n\nHow long before kickoff should the reminder arrive?", reminderKeyboard())

	case strings.HasPrefix(data, "set_reminder_"):
		b.setReminderLead(ctx, chatID, messageID, strings.TrimPrefix(data, "set_reminder_"))

	case data == "all" || data == "future" || data == "recent" || data == "standings":
		b.sendInfoView(ctx, chatID, messageID, data)

	default:
		b.edit(ctx, chatID, messageID, "Unknown action.", menuKeyboard())
	}
}

func (b *Bot) toggleSetting(ctx context.Context, chatID string, messageID int, setting, label string) {
	newValue, ok, err := b.store.Toggle(ctx, chatID, setting)
	if err != nil || !ok {
		b.log.Sugar().Errorw("Failed to toggle setting", "chat_id", chatID, "setting", setting, "err", err)
		b.editSettings(ctx, chatID, messageID, settingsText)
		return
	}

	status := "off ❌"
	if newValue {
		status = "on ✅"
	}
	b.editSettings(ctx, chatID, messageID,
		fmt.Sprintf("%s\n\n%s is now %s.", settingsText, label, status))
}

func (b *Bot) setMorningHour(ctx context.Context, chatID string, messageID int, raw string) {
	hour, err := strconv.Atoi(raw)
	if err != nil || hour < 0 || hour > 23 {
		b.editSettings(ctx, chatID, messageID, settingsText)
		return
	}

	if _, err := b.store.SetMorningHour(ctx, chatID, hour); err != nil {
		b.log.Sugar().Errorw("Failed to set morning hour", "chat_id", chatID, "err", err)
	}
	b.editSettings(ctx, chatID, messageID,
		fmt.Sprintf("%s\n\nMorning digest moved to %02d:00.", settingsText, hour))
}

func (b *Bot) setReminderLead(ctx context.Context, chatID string, messageID int, raw string) {
	minutes, err := strconv.Atoi(raw)
	if err != nil || minutes < 0 {
		b.editSettings(ctx, chatID, messageID, settingsText)
		return
	}

	if _, err := b.store.SetReminderLead(ctx, chatID, minutes); err != nil {
		b.log.Sugar().Errorw("Failed to set reminder lead", "chat_id", chatID, "err", err)
	}

	status := fmt.Sprintf("Kickoff reminders will arrive %d minutes before the match.", minutes)
	if minutes == 0 {
		status = "Kickoff reminders are now off."
	}
	b.editSettings(ctx, chatID, messageID, fmt.Sprintf("%s\n\n%s", settingsText, status))
}

func (b *Bot) sendInfoView(ctx context.Context, chatID string, messageID int, view string) {
	b.edit(ctx, chatID, messageID, "⏳ Fetching match data...", nil)

	var message string
	switch view {
	case "all":
		message = b.fullUpdateView(ctx)
	case "future":
		standing := b.gateway.TeamStanding(ctx)
		message = futureView(b.gateway.FutureMatches(ctx, 5), standing, b.cfg.Location(), b.gateway.TeamID())
	case "recent":
		message = recentView(b.gateway.RecentResults(ctx, 5), b.cfg.Location(), b.gateway.TeamID())
	case "standings":
		message = standingsView(b.gateway.LeagueTable(ctx), b.gateway.TeamID())
	}

	b.edit(ctx, chatID, messageID, message, menuKeyboard())
}

func (b *Bot) fullUpdateView(ctx context.Context) string {
	standing := b.gateway.TeamStanding(ctx)
	upcoming := b.gateway.UpcomingMatches(ctx, 2)
	future := b.gateway.FutureMatches(ctx, 3)
	recent := b.gateway.RecentResults(ctx, 5)

	return fullUpdateMessage(time.Now().In(b.cfg.Location()), standing, upcoming, future, recent,
		b.cfg.Location(), b.gateway.TeamID())
}

func (b *Bot) editSettings(ctx context.Context, chatID string, messageID int, text string) {
	sub, err := b.store.Get(ctx, chatID)
	if err != nil || sub == nil {
		b.log.Sugar().Errorw("Failed to load subscriber for settings view", "chat_id", chatID, "err", err)
		b.edit(ctx, chatID, messageID, text, menuKeyboard())
		return
	}
	b.edit(ctx, chatID, messageID, text, notificationKeyboard(sub))
}

func (b *Bot) reply(ctx context.Context, chatID, text string, keyboard *telegram.InlineKeyboardMarkup) {
	if _, err := b.api.SendMessage(ctx, chatID, text, keyboard); err != nil {
		b.log.Sugar().Warnw("Failed to send reply", "chat_id", chatID, "err", err)
	}
}

func (b *Bot) edit(ctx context.Context, chatID string, messageID int, text string, keyboard *telegram.InlineKeyboardMarkup) {
	if err := b.api.EditMessageText(ctx, chatID, messageID, text, keyboard); err != nil {
		b.log.Sugar().Warnw("Failed to edit message", "chat_id", chatID, "err", err)
	}
}
