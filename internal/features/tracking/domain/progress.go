package domain

import "strings"

// Stage indexes along the shipping pipeline.
const (
	StageReceived       = 0
	StageProcessing     = 1
	StageInTransit      = 2
	StageOutForDelivery = 3
	StageDelivered      = 4
)

// progressRule maps a status keyword to its pipeline position.
type progressRule struct {
	Keyword  string
	Progress int
	Stage    int
}

// progressRules is evaluated top to bottom; the first keyword contained in
// the normalized status wins.
var progressRules = []progressRule{
	{Keyword: "delivered", Progress: 100, Stage: StageDelivered},
	{Keyword: "out for delivery", Progress: 80, Stage: StageOutForDelivery},
	{Keyword: "in transit", Progress: 40, Stage: StageInTransit},
	{Keyword: "processing", Progress: 20, Stage: StageProcessing},
	{Keyword: "received", Progress: 0, Stage: StageReceived},
	{Keyword: "exception", Progress: 0, Stage: StageReceived},
}

// baselineRule applies to text no rule matches.
var baselineRule = progressRule{Progress: 0, Stage: StageReceived}

func matchProgress(status string) progressRule {
	text := normalizeStatus(status)
	for _, rule := range progressRules {
		if strings.Contains(text, rule.Keyword) {
			return rule
		}
	}
	return baselineRule
}

// ProgressOf returns the delivery progress percentage (0-100) for a status.
// Unknown text degrades to 0.
func ProgressOf(status string) int {
	return matchProgress(status).Progress
}

// StageOf returns the pipeline stage index (0-4) for a status.
// Unknown text degrades to StageReceived.
func StageOf(status string) int {
	return matchProgress(status).Stage
}
