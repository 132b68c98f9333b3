package platform

import (
	"fmt"
	"log/slog"

	"github.com/shanebrain/postbot/app/cfg"
)

// Load builds the active platform set from the enable toggles, in fixed
// priority order: facebook, instagram, linkedin. The order is declaration
// order, not configuration order, so runs and audit records stay
// deterministic. A misconfigured enabled platform aborts loading; an empty
// result is not an error; the caller decides whether that is fatal.
func Load(c *cfg.Cfg) ([]Platform, error) {
	var platforms []Platform

	if c.PostToFacebook {
		fb, err := NewFacebook(c.FacebookPageID, c.FacebookAccessToken)
		if err != nil {
			return nil, fmt.Errorf("facebook: %w", err)
		}
		platforms = append(platforms, fb)
	}

	if c.PostToInstagram {
		ig, err := NewInstagram(c.InstagramUserID, c.InstagramAccessToken, c.InstagramDefaultImageURL)
		if err != nil {
			return nil, fmt.Errorf("instagram: %w", err)
		}
		platforms = append(platforms, ig)
	}

	if c.PostToLinkedIn {
		li, err := NewLinkedIn(c.LinkedInAccessToken, c.LinkedInPersonURN)
		if err != nil {
			return nil, fmt.Errorf("linkedin: %w", err)
		}
		platforms = append(platforms, li)
	}

	for _, p := range platforms {
		slog.Debug("Platform enabled", "platform", p.Name(), "max_length", p.MaxLength())
	}

	return platforms, nil
}
