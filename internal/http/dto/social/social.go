// Package social contiene los DTOs de publicación y del canje de tokens de Facebook.
package social

// FacebookTokenRequest es el body de POST /api/auth/facebook/token.
type FacebookTokenRequest struct {
	AccessToken string `json:"accessToken"`
	UserID      string `json:"userID"`
}

type FacebookTokenResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type PostContent struct {
	Text      string   `json:"text"`
	MediaURLs []string `json:"mediaUrls,omitempty"`
	Hashtags  []string `json:"hashtags,omitempty"`
}

// PostRequest es el body de POST /api/social/post.
type PostRequest struct {
	Platforms []string    `json:"platforms"`
	Content   PostContent `json:"content"`
}

type PlatformResult struct {
	Success bool   `json:"success"`
	PostID  string `json:"postId,omitempty"`
	Error   string `json:"error,omitempty"`
}

type PostResponse struct {
	Results map[string]PlatformResult `json:"results"`
}
