// Package device classifies the submission channel from client signals.
package device

import (
	"strings"

	"github.com/mikepea/boxfinder/pkg/boxfinder/models"
	"github.com/mssola/useragent"
)

// Probe carries the capability signals reported by the client
type Probe struct {
	UserAgent     string `json:"user_agent"`
	TouchPoints   int    `json:"touch_points"`
	ViewportWidth int    `json:"viewport_width"`
}

const (
	minTabletWidth = 600
	maxTabletWidth = 1366
)

// tabletMarkers are product tokens only tablets send
var tabletMarkers = []string{"tablet", "kindle", "silk"}

// Classify returns ChannelTablet for tablet-class devices and
// ChannelWebform for everything else.
func Classify(p Probe) models.Channel {
	ua := useragent.New(p.UserAgent)
	if ua.Bot() {
		return models.ChannelWebform
	}

	raw := strings.ToLower(p.UserAgent)
	for _, m := range tabletMarkers {
		if strings.Contains(raw, m) {
			return models.ChannelTablet
		}
	}

	// Android phones add a Mobile token; the parser flags every Android
	// device as mobile.
	phone := strings.Contains(raw, "mobile")

	platform := ua.Platform()
	switch {
	case platform == "iPad":
		return models.ChannelTablet
	case strings.HasPrefix(ua.OS(), "Android") && !phone:
		return models.ChannelTablet
	case platform == "Macintosh" && p.TouchPoints > 1:
		// iPadOS reports a desktop Safari user agent but exposes touch points.
		return models.ChannelTablet
	}

	if p.TouchPoints > 0 && p.ViewportWidth >= minTabletWidth && p.ViewportWidth <= maxTabletWidth &&
		!phone && !ua.Mobile() && platform != "Windows" {
		return models.ChannelTablet
	}

	return models.ChannelWebform
}
