package domain

// Platform identifies an external advertising/analytics platform. The set is
// closed: dispatching happens through a connector registry keyed by Platform,
// never through string branching.
type Platform string

const (
	PlatformMeta                Platform = "Meta"
	PlatformGoogleAds           Platform = "Google"
	PlatformGoogleSearchConsole Platform = "GoogleSearchConsole"
	PlatformGoogleAnalytics     Platform = "GoogleAnalytics"
	PlatformTikTok              Platform = "TikTok"
	PlatformLinkedIn            Platform = "LinkedIn"
	PlatformReddit              Platform = "Reddit"
	PlatformMicrosoftAds        Platform = "MicrosoftAds"
)

// Platforms lists every supported platform.
func Platforms() []Platform {
	return []Platform{
		PlatformMeta,
		PlatformGoogleAds,
		PlatformGoogleSearchConsole,
		PlatformGoogleAnalytics,
		PlatformTikTok,
		PlatformLinkedIn,
		PlatformReddit,
		PlatformMicrosoftAds,
	}
}

// ParsePlatform validates a raw platform identifier against the closed set.
func ParsePlatform(raw string) (Platform, bool) {
	for _, p := range Platforms() {
		if string(p) == raw {
			return p, true
		}
	}
	return "", false
}

func (p Platform) String() string {
	return string(p)
}
