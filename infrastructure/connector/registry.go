package connector

import (
	"github.com/ziaflow/marketing-lens/infrastructure/httpclient"
	"github.com/ziaflow/marketing-lens/internal/config"
	"github.com/ziaflow/marketing-lens/internal/domain"
)

// Factory builds a connector bound to one resolved access token. Connectors
// are constructed per request because credentials are resolved per request.
type Factory func(token string) Connector

// Registry is the closed platform→factory table. Adding a platform is a
// table entry, not a branch.
type Registry struct {
	factories map[domain.Platform]Factory
}

// NewRegistry wires every supported platform against the shared resilient
// HTTP client and the configured base URLs.
func NewRegistry(cfg *config.Config, requester httpclient.Requester) *Registry {
	return &Registry{
		factories: map[domain.Platform]Factory{
			domain.PlatformMeta: func(token string) Connector {
				return NewMeta(cfg.Platforms.MetaURL, token, requester)
			},
			domain.PlatformGoogleAds: func(token string) Connector {
				return NewGoogleAds(cfg.Platforms.GoogleAdsURL, token, requester)
			},
			domain.PlatformGoogleSearchConsole: func(token string) Connector {
				return NewSearchConsole(cfg.Platforms.SearchConsoleURL, token, requester)
			},
			domain.PlatformGoogleAnalytics: func(token string) Connector {
				return NewGoogleAnalytics(cfg.Platforms.AnalyticsDataURL, token, requester)
			},
			domain.PlatformTikTok: func(token string) Connector {
				return NewTikTok(cfg.Platforms.TikTokURL, token, requester)
			},
			domain.PlatformLinkedIn: func(token string) Connector {
				return NewLinkedIn(cfg.Platforms.LinkedInURL, token, requester)
			},
			domain.PlatformReddit: func(token string) Connector {
				return NewReddit(cfg.Platforms.RedditURL, token, requester)
			},
			domain.PlatformMicrosoftAds: func(token string) Connector {
				return NewMicrosoftAds(
					cfg.Platforms.MicrosoftURL,
					token,
					cfg.Platforms.MicrosoftDeveloperToken,
					cfg.Platforms.MicrosoftCustomerID,
					requester,
				)
			},
		},
	}
}

// New builds the connector for a platform, reporting false for platforms
// outside the table.
func (r *Registry) New(platform domain.Platform, token string) (Connector, bool) {
	factory, ok := r.factories[platform]
	if !ok {
		return nil, false
	}
	return factory(token), true
}
