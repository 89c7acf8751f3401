// messages.go contains message templates and formatting functions for Telegram.

package telegram

import (
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/quitflow-bot/internal/domain/breathing"
	"github.com/aliskhannn/quitflow-bot/internal/domain/entities"
	"github.com/aliskhannn/quitflow-bot/internal/domain/pacing"
	"github.com/aliskhannn/quitflow-bot/internal/service"
)

// Error messages.
const (
	msgInternalError     = "Something went wrong. Please try again later."
	msgUnknownCommand    = "Unknown command. Send /help to see what I can do."
	msgInvalidBaseline   = "Please send a whole number from 1 to 100."
	msgNotRegistered     = "You have not started a program yet. Send /start to begin."
	msgProgramComplete   = "Your program is complete. There is nothing left to log. Send /restart to begin again."
	msgNoWeekTransition  = "The next week is not available yet."
	msgAlreadyRegistered = "You already have a program running."
)

// Plain texts.
const (
	msgRestartCancelled = "Restart cancelled. Keep going!"
	msgNotifyOn         = "🔔 Notifications are on."
	msgNotifyOff        = "🔕 Notifications are off."
	msgFeedbackGreat    = "🎉 Amazing work. You did it! Keep breathing, keep moving, and stay smoke-free."
	msgFeedbackNotGreat = "That is okay. Quitting often takes more than one try. Let's set a new starting point."
	msgWeekLater        = "No rush. Confirm the next week whenever you are ready."
)

const (
	progressBarLength = 10
	breathingBarLen   = 14
)

// md escapes plain text for MarkdownV2.
func md(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdownV2, s)
}

func bold(s string) string {
	return "*" + md(s) + "*"
}

func italic(s string) string {
	return "_" + md(s) + "_"
}

// newMessage creates a message with MarkdownV2 parse mode.
func newMessage(chatID int64, text string) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	return msg
}

// newPlainMessage creates a plain message without MarkdownV2 parse mode.
func newPlainMessage(chatID int64, text string) tgbotapi.MessageConfig {
	return tgbotapi.NewMessage(chatID, text)
}

// newEdit creates an edit with MarkdownV2 parse mode.
func newEdit(chatID int64, msgID int, text string) tgbotapi.EditMessageTextConfig {
	edit := tgbotapi.NewEditMessageText(chatID, msgID, text)
	edit.ParseMode = tgbotapi.ModeMarkdownV2
	return edit
}

func welcomeMessage() string {
	var sb strings.Builder

	sb.WriteString(bold("Welcome to QuitFlow 🌿"))
	sb.WriteString("\n\n")
	sb.WriteString(md("I will help you quit smoking over six weeks by spacing out your cigarettes and lowering your daily limit step by step."))
	sb.WriteString("\n\n")
	sb.WriteString(md("• A daily allowance that shrinks every week\n"))
	sb.WriteString(md("• A cooldown timer between cigarettes\n"))
	sb.WriteString(md("• XP and levels for every skipped cigarette\n"))
	sb.WriteString(md("• A breathing exercise for cravings\n"))
	sb.WriteString("\n")
	sb.WriteString(bold("How many cigarettes do you smoke per day?"))
	sb.WriteString("\n")
	sb.WriteString(md("Pick a number or type your own (1 to 100)."))

	return sb.String()
}

func symptomsMessage(baseline int) string {
	var sb strings.Builder

	sb.WriteString(md(fmt.Sprintf("Got it: %d per day.", baseline)))
	sb.WriteString("\n\n")
	sb.WriteString(bold("Anything you want to improve?"))
	sb.WriteString("\n")
	sb.WriteString(md("For example: morning cough, shortness of breath, poor sleep. Type it in one message or tap Skip."))

	return sb.String()
}

func notifyPromptMessage() string {
	return bold("Should I notify you?") + "\n\n" +
		md("I can tell you when your cooldown is over and when a new week is ready.")
}

func restartPromptMessage() string {
	return bold("Start over?") + "\n\n" +
		md("Your week goes back to 1 with a new daily count. Your XP and level stay.")
}

func restartBaselineMessage() string {
	return bold("How many cigarettes per day do you smoke now?") + "\n" +
		md("Pick a number or type your own (1 to 100).")
}

func helpMessage() string {
	var sb strings.Builder

	sb.WriteString(bold("Commands"))
	sb.WriteString("\n\n")
	sb.WriteString(md("/status: today's allowance, cooldown and level\n"))
	sb.WriteString(md("/smoked: log a cigarette\n"))
	sb.WriteString(md("/skip: log a skipped cigarette (+10 XP)\n"))
	sb.WriteString(md("/breathe: 60 second breathing exercise (+5 XP)\n"))
	sb.WriteString(md("/week: check the next week\n"))
	sb.WriteString(md("/notifications: turn reminders on or off\n"))
	sb.WriteString(md("/restart: start over with a new daily count\n"))

	return sb.String()
}

// formatStatus renders the home screen.
func formatStatus(st *service.JourneyStatus) string {
	snap := st.Snapshot
	var sb strings.Builder

	if snap.Complete {
		return formatCompletion(st)
	}

	sb.WriteString(bold(fmt.Sprintf("Day %d · %s", min(snap.Day, entities.ProgramDays), st.WeekInfo.Title)))
	sb.WriteString("\n")
	sb.WriteString(italic(st.WeekInfo.Reduction))
	sb.WriteString("\n\n")

	sb.WriteString(md(fmt.Sprintf("🎯 Allowed today: %d", snap.Allowed)))
	sb.WriteString("\n")
	sb.WriteString(md(fmt.Sprintf("🚬 Smoked today: %d   💪 Skipped today: %d", st.Stats.SmokedToday, st.Stats.SkippedToday)))
	sb.WriteString("\n")
	sb.WriteString(formatCooldownLine(snap))
	sb.WriteString("\n\n")

	sb.WriteString(formatLevel(snap))

	if snap.Transition.Available {
		sb.WriteString("\n\n")
		sb.WriteString(bold(fmt.Sprintf("📅 Week %d is ready!", snap.Transition.To)))
		sb.WriteString(md(" Tap Week to move on."))
	}

	return sb.String()
}

func formatCompletion(st *service.JourneyStatus) string {
	var sb strings.Builder

	sb.WriteString(bold("🏁 You made it to zero!"))
	sb.WriteString("\n\n")
	sb.WriteString(md(fmt.Sprintf("Six weeks done. You started at %d cigarettes per day.", st.Record.BaselineDailyCount)))
	sb.WriteString("\n\n")
	sb.WriteString(formatLevel(st.Snapshot))
	sb.WriteString("\n\n")
	sb.WriteString(bold("How are you feeling?"))

	return sb.String()
}

func formatCooldownLine(snap pacing.Snapshot) string {
	switch {
	case snap.Allowed == 0:
		return md("⛔ No cigarettes today")
	case snap.CanSmokeNow:
		return md("✅ You can smoke now")
	default:
		return md("⏱ Next cigarette in ") + bold(pacing.FormatTime(snap.Cooldown))
	}
}

func formatLevel(snap pacing.Snapshot) string {
	next := pacing.LevelThreshold(snap.Level + 1)
	return md(fmt.Sprintf("⭐ Level %d · %d XP", snap.Level, snap.XP)) + "\n" +
		md(fmt.Sprintf("%s %d/%d XP", buildProgressBar(snap.LevelProgress, progressBarLength), snap.XP, next))
}

// formatLogResult renders the reply to a logged activity.
func formatLogResult(res *service.LogResult) string {
	var sb strings.Builder

	switch res.Kind {
	case entities.ActivitySmoked:
		sb.WriteString(bold("🚬 Logged"))
		if res.EarlyBy > 0 {
			sb.WriteString("\n")
			sb.WriteString(md(fmt.Sprintf("That was %s early. Try to wait out the next one.", pacing.FormatTime(res.EarlyBy))))
		}
	case entities.ActivitySkipped:
		sb.WriteString(bold("💪 Skipped! Great job."))
	case entities.ActivityBreathing:
		sb.WriteString(bold("🫁 Breathing complete"))
	}

	sb.WriteString("\n")
	sb.WriteString(md(fmt.Sprintf("+%d XP", res.XPAwarded)))

	if res.LeveledUp() {
		sb.WriteString("\n\n")
		sb.WriteString(bold(fmt.Sprintf("🎉 Level up! You reached level %d.", res.LevelAfter)))
	}

	if res.Kind != entities.ActivityBreathing {
		sb.WriteString("\n\n")
		sb.WriteString(formatCooldownLine(res.Snapshot))
	}

	return sb.String()
}

// formatWeekOffer renders the week-advance confirmation.
func formatWeekOffer(info entities.WeekInfo) string {
	var sb strings.Builder

	sb.WriteString(bold(fmt.Sprintf("📅 %s is ready", info.Title)))
	sb.WriteString("\n")
	sb.WriteString(italic(info.Reduction))
	sb.WriteString("\n\n")
	sb.WriteString(md("What to expect:"))
	sb.WriteString("\n")
	for _, b := range info.Benefits {
		sb.WriteString(md("• " + b))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	sb.WriteString(md("Ready to move on?"))

	return sb.String()
}

// formatWeekWait explains when the next week unlocks.
func formatWeekWait(tr pacing.WeekTransition, daysSinceStart int) string {
	if tr.From >= entities.LastWeek {
		return md("You are in the final week. Keep it at zero!")
	}

	left := 7 - daysSinceStart%7
	if tr.Candidate > tr.From {
		// a boundary was missed; the next one is the earliest chance
		return md(fmt.Sprintf("The next week unlocks at your next weekly checkpoint, in %s.", pluralDays(left)))
	}
	return md(fmt.Sprintf("Week %d unlocks in %s.", tr.From+1, pluralDays(left)))
}

func formatNotification(n entities.Notification) string {
	return bold(n.Title) + "\n\n" + md(n.Body)
}

// formatCountdown renders one tick of the live cooldown message.
func formatCountdown(snap pacing.Snapshot) string {
	switch {
	case snap.Allowed == 0:
		return md("⛔ No cigarettes today. You've got this.")
	case snap.CanSmokeNow:
		return bold("✅ Cooldown over") + "\n" + md("You can smoke now if you need to. Skipping earns +10 XP.")
	default:
		interval := pacing.CooldownInterval(snap.Allowed)
		done := 1 - float64(snap.Cooldown)/float64(interval)
		return md("⏱ Next cigarette in") + "\n" +
			bold(pacing.FormatTime(snap.Cooldown)) + "\n" +
			md(buildProgressBar(done, progressBarLength))
	}
}

var phaseLabels = map[breathing.Phase]string{
	breathing.PhaseIdle:     "Get ready",
	breathing.PhaseInhale:   "Breathe in",
	breathing.PhaseHold:     "Hold",
	breathing.PhaseExhale:   "Breathe out",
	breathing.PhaseComplete: "Done",
}

// formatBreathing renders one tick of the breathing exercise.
func formatBreathing(st breathing.State, cycles int) string {
	if st.Done {
		return bold("🫁 Well done") + "\n" + md("Notice how your body feels now.")
	}

	secs := int((st.PhaseLeft + time.Second - 1) / time.Second)

	return bold("🫁 "+phaseLabels[st.Phase]) + md(fmt.Sprintf(" · %d", secs)) + "\n" +
		md(fmt.Sprintf("Round %d of %d", st.Cycle, cycles)) + "\n" +
		md(buildProgressBar(st.Progress, breathingBarLen))
}

// buildProgressBar draws a bar for a fraction in [0,1].
func buildProgressBar(fraction float64, length int) string {
	fraction = min(max(fraction, 0), 1)
	filled := int(fraction * float64(length))

	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", length-filled) + "]"
}

func pluralDays(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}
