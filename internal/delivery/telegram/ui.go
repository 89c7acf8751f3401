package telegram

import (
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/quitflow-bot/internal/domain/entities"
)

// baselineChoices are the quick answers offered for the daily count.
var baselineChoices = []int{5, 10, 15, 20, 25, 30}

// buildStatusKeyboard builds the main action keyboard under the status screen.
func buildStatusKeyboard(complete bool) tgbotapi.InlineKeyboardMarkup {
	if complete {
		return buildFeedbackKeyboard()
	}

	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🚬 I smoked", buildLogCallback(true)),
			tgbotapi.NewInlineKeyboardButtonData("💪 I skipped", buildLogCallback(false)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🫁 Breathe", buildBreatheCallback()),
			tgbotapi.NewInlineKeyboardButtonData("⏱ Countdown", buildCountdownCallback()),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📅 Week", buildWeekCallback(weekShow)),
			tgbotapi.NewInlineKeyboardButtonData("🔄 Refresh", buildStatusCallback()),
		),
	)
}

// buildBaselineKeyboard offers quick answers; build picks the callback flavor.
func buildBaselineKeyboard(build func(n int) string) tgbotapi.InlineKeyboardMarkup {
	var row1, row2 []tgbotapi.InlineKeyboardButton
	for i, n := range baselineChoices {
		btn := tgbotapi.NewInlineKeyboardButtonData(strconv.Itoa(n), build(n))
		if i < len(baselineChoices)/2 {
			row1 = append(row1, btn)
		} else {
			row2 = append(row2, btn)
		}
	}
	return tgbotapi.NewInlineKeyboardMarkup(row1, row2)
}

func buildSymptomsKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Skip ⏭", buildOnboardingSkipCallback()),
		),
	)
}

func buildNotifyPromptKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔔 Yes, notify me", buildNotifyCallback(notifyYes)),
			tgbotapi.NewInlineKeyboardButtonData("🔕 No thanks", buildNotifyCallback(notifyNo)),
		),
	)
}

func buildNotifySettingsKeyboard(enabled bool) tgbotapi.InlineKeyboardMarkup {
	label := "🔔 Turn on"
	if enabled {
		label = "🔕 Turn off"
	}
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, buildNotifyCallback(notifyToggle)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("« Back to status", buildStatusCallback()),
		),
	)
}

func buildWeekConfirmKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Start next week", buildWeekCallback(weekConfirm)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⏳ Not yet", buildWeekCallback(weekLater)),
		),
	)
}

func buildBackToStatusKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("« Back to status", buildStatusCallback()),
		),
	)
}

func buildRestartConfirmKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Yes, restart", buildRestartCallback(restartConfirm)),
			tgbotapi.NewInlineKeyboardButtonData("❌ Cancel", buildRestartCallback(restartCancel)),
		),
	)
}

func buildFeedbackKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("😊 Feeling great", buildFeedbackCallback(feedbackGreat)),
			tgbotapi.NewInlineKeyboardButtonData("😔 Not great", buildFeedbackCallback(feedbackNotGreat)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🫁 Breathe", buildBreatheCallback()),
			tgbotapi.NewInlineKeyboardButtonData("🔄 Restart", buildRestartCallback(restartAsk)),
		),
	)
}

// buildNotificationKeyboard maps a notification route to a button.
func buildNotificationKeyboard(target string) *tgbotapi.InlineKeyboardMarkup {
	var btn tgbotapi.InlineKeyboardButton
	switch target {
	case entities.RouteWeek:
		btn = tgbotapi.NewInlineKeyboardButtonData("📅 Review next week", buildWeekCallback(weekShow))
	case entities.RouteHome:
		btn = tgbotapi.NewInlineKeyboardButtonData("📊 Open status", buildStatusCallback())
	default:
		return nil
	}

	kb := tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(btn))
	return &kb
}
