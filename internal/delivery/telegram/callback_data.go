package telegram

import (
	"strconv"
	"strings"

	"github.com/aliskhannn/wordplan/internal/domain/entities"
	"github.com/aliskhannn/wordplan/internal/service"
)

// Callback action constants.
const (
	actionLearn  = "learn"
	actionReview = "review"
	actionTest   = "test"
	actionStats  = "stats"
	actionRemind = "remind"
)

// callbackData represents structured callback data. The word, if any, is
// always the last parameter so it may itself contain separators.
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

// decodeCallback parses callback data with a known number of parameters.
func decodeCallback(data string) callbackData {
	action, rest, _ := strings.Cut(data, ":")
	cd := callbackData{Action: action, Raw: data}

	n := 0
	switch action {
	case actionLearn, actionTest:
		n = 2
	case actionReview:
		n = 3
	}
	if rest != "" && n > 0 {
		cd.Params = strings.SplitN(rest, ":", n)
	} else if rest != "" {
		cd.Params = []string{rest}
	}
	return cd
}

func buildLearnCallback(outcome entities.Outcome, word string) string {
	return callbackData{
		Action: actionLearn,
		Params: []string{string(outcome), word},
	}.encode()
}

func buildReviewCallback(mode service.ReviewMode, outcome entities.Outcome, word string) string {
	return callbackData{
		Action: actionReview,
		Params: []string{string(mode), string(outcome), word},
	}.encode()
}

func buildTestAnswerCallback(question, option int) string {
	return callbackData{
		Action: actionTest,
		Params: []string{strconv.Itoa(question), strconv.Itoa(option)},
	}.encode()
}

func buildRemindCallback(op string) string {
	return callbackData{Action: actionRemind, Params: []string{op}}.encode()
}

func buildStatsCallback() string {
	return actionStats
}
