package providers

import "strings"

const (
	facebookAuthURL  = "https://www.facebook.com/v16.0/dialog/oauth"
	facebookTokenURL = "https://graph.facebook.com/v16.0/oauth/access_token"
)

// Catalog devuelve la tabla estática de plataformas sin credenciales.
// baseURL es la URL pública de la app (sin "/" final).
func Catalog(baseURL string) []ProviderConfig {
	base := strings.TrimRight(baseURL, "/")
	redirect := func(p Platform) string { return base + CallbackPath(p) }

	return []ProviderConfig{
		{
			Platform:        Facebook,
			AuthURL:         facebookAuthURL,
			TokenURL:        facebookTokenURL,
			ProfileURL:      "https://graph.facebook.com/v16.0/me?fields=id,name",
			Scope:           "pages_show_list,pages_read_engagement,pages_manage_posts,pages_manage_metadata,instagram_basic,instagram_content_publish",
			RedirectURI:     redirect(Facebook),
			ClientIDEnv:     "FACEBOOK_APP_ID",
			ClientSecretEnv: "FACEBOOK_APP_SECRET",
		},
		{
			// Instagram se conecta a través de páginas de Facebook.
			Platform:        Instagram,
			AuthURL:         facebookAuthURL,
			TokenURL:        facebookTokenURL,
			ProfileURL:      "https://graph.facebook.com/v16.0/me/accounts",
			Scope:           "instagram_basic,instagram_content_publish,pages_show_list",
			RedirectURI:     redirect(Instagram),
			ClientIDEnv:     "INSTAGRAM_APP_ID",
			ClientSecretEnv: "INSTAGRAM_APP_SECRET",
		},
		{
			Platform:        Twitter,
			AuthURL:         "https://twitter.com/i/oauth2/authorize",
			TokenURL:        "https://api.twitter.com/2/oauth2/token",
			ProfileURL:      "https://api.twitter.com/2/users/me",
			Scope:           "tweet.read tweet.write users.read offline.access",
			RedirectURI:     redirect(Twitter),
			ClientIDEnv:     "TWITTER_API_KEY",
			ClientSecretEnv: "TWITTER_API_SECRET_KEY",
			TokenAuth:       TokenAuthBasic,
		},
		{
			Platform:        TikTok,
			AuthURL:         "https://www.tiktok.com/auth/authorize/",
			TokenURL:        "https://open-api.tiktok.com/oauth/access_token/",
			ProfileURL:      "https://open-api.tiktok.com/oauth/userinfo/",
			Scope:           "user.info.basic,video.publish",
			RedirectURI:     redirect(TikTok),
			ClientIDEnv:     "TIKTOK_API_KEY",
			ClientSecretEnv: "TIKTOK_APP_SECRET",
			ProfileAuth:     ProfileAuthQuery,
		},
		{
			Platform:        YouTube,
			AuthURL:         "https://accounts.google.com/o/oauth2/v2/auth",
			TokenURL:        "https://oauth2.googleapis.com/token",
			ProfileURL:      "https://www.googleapis.com/youtube/v3/channels?part=snippet&mine=true",
			Scope:           "https://www.googleapis.com/auth/youtube.upload",
			RedirectURI:     redirect(YouTube),
			ClientIDEnv:     "YOUTUBE_CLIENT_ID",
			ClientSecretEnv: "YOUTUBE_CLIENT_SECRET",
		},
	}
}
