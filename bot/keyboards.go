package bot

import (
	"fmt"

	"github.com/fiffu/matchday/models"
	"github.com/fiffu/matchday/telegram"
)

func menuKeyboard() *telegram.InlineKeyboardMarkup {
	return &telegram.InlineKeyboardMarkup{
		InlineKeyboard: [][]telegram.InlineKeyboardButton{
			{{Text: "📋 Full update", CallbackData: "all"}},
			{
				{Text: "📆 Next fixtures", CallbackData: "future"},
				{Text: "📊 Recent results", CallbackData: "recent"},
			},
			{{Text: "🏆 League table", CallbackData: "standings"}},
			{{Text: "🔔 Notifications", CallbackData: "notifications"}},
		},
	}
}

func notificationKeyboard(sub *models.Subscriber) *telegram.InlineKeyboardMarkup {
	morning := "🔕 Morning digest: off"
	if sub.MorningEnabled {
		morning = "🔔 Morning digest: on"
	}
	goal := "⚽ Goal alerts: off"
	if sub.GoalEnabled {
		goal = "⚽ Goal alerts: on"
	}
	lineup := "📋 Lineup alerts: off"
	if sub.LineupEnabled {
		lineup = "📋 Lineup alerts: on"
	}
	reminder := "⏰ Kickoff reminder: off"
	if sub.ReminderLeadMinutes > 0 {
		reminder = fmt.Sprintf("⏰ Kickoff reminder: %d min before", sub.ReminderLeadMinutes)
	}

	return &telegram.InlineKeyboardMarkup{
		InlineKeyboard: [][]telegram.InlineKeyboardButton{
			{{Text: morning, CallbackData: "toggle_morning"}},
			{{Text: fmt.Sprintf("🕐 Digest hour: %02d:00", sub.MorningHour), CallbackData: "morning_hour_settings"}},
			{{Text: reminder, CallbackData: "reminder_settings"}},
			{{Text: goal, CallbackData: "toggle_goal"}},
			{{Text: lineup, CallbackData: "toggle_lineup"}},
			{{Text: "🔙 Menu", CallbackData: "main_menu"}},
		},
	}
}

func morningHourKeyboard() *telegram.InlineKeyboardMarkup {
	return &telegram.InlineKeyboardMarkup{
		InlineKeyboard: [][]telegram.InlineKeyboardButton{
			{
				{Text: "07:00", CallbackData: "set_morning_hour_7"},
				{Text: "08:00", CallbackData: "set_morning_hour_8"},
				{Text: "09:00", CallbackData: "set_morning_hour_9"},
			},
			{
				{Text: "10:00", CallbackData: "set_morning_hour_10"},
				{Text: "11:00", CallbackData: "set_morning_hour_11"},
			},
			{{Text: "🔙 Notifications", CallbackData: "notifications"}},
		},
	}
}

func reminderKeyboard() *telegram.InlineKeyboardMarkup {
	return &telegram.InlineKeyboardMarkup{
		InlineKeyboard: [][]telegram.InlineKeyboardButton{
			{
				{Text: "5 min", CallbackData: "set_reminder_5"},
				{Text: "10 min", CallbackData: "set_reminder_10"},
				{Text: "15 min", CallbackData: "set_reminder_15"},
			},
			{
				{Text: "30 min", CallbackData: "set_reminder_30"},
				{Text: "60 min", CallbackData: "set_reminder_60"},
				{Text: "Off", CallbackData: "set_reminder_0"},
			},
			{{Text: "🔙 Notifications", CallbackData: "notifications"}},
		},
	}
}
