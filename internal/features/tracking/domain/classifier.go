package domain

import "strings"

// Color is a display color token for a status.
type Color string

const (
	ColorGreen  Color = "green"
	ColorPurple Color = "purple"
	ColorBlue   Color = "blue"
	ColorOrange Color = "orange"
	ColorGray   Color = "gray"
	ColorRed    Color = "red"
)

var colorHex = map[Color]string{
	ColorGreen:  "#22c55e",
	ColorPurple: "#8b5cf6",
	ColorBlue:   "#0070f3",
	ColorOrange: "#f59e0b",
	ColorGray:   "#6b7280",
	ColorRed:    "#ef4444",
}

// Hex returns the CSS hex value used to paint the color.
func (c Color) Hex() string {
	if hex, ok := colorHex[c]; ok {
		return hex
	}
	return colorHex[ColorRed]
}

// Icon is a glyph token for a status.
type Icon string

const (
	IconDelivered      Icon = "check-circle"
	IconOutForDelivery Icon = "map-pin"
	IconInTransit      Icon = "truck"
	IconProcessing     Icon = "cog"
	IconReceived       Icon = "inbox"
	IconAlert          Icon = "alert-triangle"
)

type classifierRule struct {
	Keyword string
	Color   Color
	Icon    Icon
}

// classifierRules is independent from progressRules: "Exception" shares its
// progress with "Package Received" but is painted red.
var classifierRules = []classifierRule{
	{Keyword: "delivered", Color: ColorGreen, Icon: IconDelivered},
	{Keyword: "out for delivery", Color: ColorPurple, Icon: IconOutForDelivery},
	{Keyword: "in transit", Color: ColorBlue, Icon: IconInTransit},
	{Keyword: "processing", Color: ColorOrange, Icon: IconProcessing},
	{Keyword: "received", Color: ColorGray, Icon: IconReceived},
}

var fallbackClassifier = classifierRule{Color: ColorRed, Icon: IconAlert}

func classify(status string) classifierRule {
	text := normalizeStatus(status)
	for _, rule := range classifierRules {
		if strings.Contains(text, rule.Keyword) {
			return rule
		}
	}
	return fallbackClassifier
}

// ColorOf returns the display color for a status.
func ColorOf(status string) Color {
	return classify(status).Color
}

// IconOf returns the display glyph for a status.
func IconOf(status string) Icon {
	return classify(status).Icon
}
