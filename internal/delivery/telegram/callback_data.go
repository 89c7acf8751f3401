package telegram

import (
	"strconv"
	"strings"
)

// Callback action constants.
const (
	actionStatus     = "status"
	actionLog        = "log"
	actionCountdown  = "countdown"
	actionBreathe    = "breathe"
	actionWeek       = "week"
	actionOnboarding = "onboard"
	actionRestart    = "restart"
	actionNotify     = "notify"
	actionFeedback   = "feedback"
)

// Log sub-actions.
const (
	logSmoked  = "smoked"
	logSkipped = "skipped"
)

// Week sub-actions.
const (
	weekShow    = "show"
	weekConfirm = "confirm"
	weekLater   = "later"
)

// Onboarding sub-actions.
const (
	onboardingBaseline = "baseline"
	onboardingSkip     = "skip" // skip the symptoms question
)

// Restart sub-actions.
const (
	restartAsk      = "ask"
	restartConfirm  = "confirm"
	restartCancel   = "cancel"
	restartBaseline = "baseline"
)

// Notification sub-actions.
const (
	notifyToggle = "toggle"
	notifyYes    = "yes"
	notifyNo     = "no"
)

// Feedback answers after the last week.
const (
	feedbackGreat    = "great"
	feedbackNotGreat = "notgreat"
)

// callbackData represents structured callback data.
type callbackData struct {
	Action string
	Params []string
	Raw    string
}

// encode creates callback string.
func (cd callbackData) encode() string {
	if len(cd.Params) == 0 {
		return cd.Action
	}
	return cd.Action + ":" + strings.Join(cd.Params, ":")
}

// param returns the i-th parameter or an empty string.
func (cd callbackData) param(i int) string {
	if i < 0 || i >= len(cd.Params) {
		return ""
	}
	return cd.Params[i]
}

// intParam parses the i-th parameter as an integer.
func (cd callbackData) intParam(i int) (int, bool) {
	n, err := strconv.Atoi(cd.param(i))
	if err != nil {
		return 0, false
	}
	return n, true
}

// decodeCallback parses callback data string.
func decodeCallback(data string) callbackData {
	if data == "" {
		return callbackData{Raw: data}
	}

	parts := strings.Split(data, ":")
	return callbackData{
		Action: parts[0],
		Params: parts[1:],
		Raw:    data,
	}
}

func buildStatusCallback() string {
	return actionStatus
}

func buildLogCallback(smoked bool) string {
	kind := logSkipped
	if smoked {
		kind = logSmoked
	}
	return callbackData{Action: actionLog, Params: []string{kind}}.encode()
}

func buildCountdownCallback() string {
	return actionCountdown
}

func buildBreatheCallback() string {
	return actionBreathe
}

func buildWeekCallback(sub string) string {
	return callbackData{Action: actionWeek, Params: []string{sub}}.encode()
}

func buildOnboardingBaselineCallback(n int) string {
	return callbackData{
		Action: actionOnboarding,
		Params: []string{onboardingBaseline, strconv.Itoa(n)},
	}.encode()
}

func buildOnboardingSkipCallback() string {
	return callbackData{Action: actionOnboarding, Params: []string{onboardingSkip}}.encode()
}

func buildRestartCallback(sub string) string {
	return callbackData{Action: actionRestart, Params: []string{sub}}.encode()
}

func buildRestartBaselineCallback(n int) string {
	return callbackData{
		Action: actionRestart,
		Params: []string{restartBaseline, strconv.Itoa(n)},
	}.encode()
}

func buildNotifyCallback(sub string) string {
	return callbackData{Action: actionNotify, Params: []string{sub}}.encode()
}

func buildFeedbackCallback(answer string) string {
	return callbackData{Action: actionFeedback, Params: []string{answer}}.encode()
}
