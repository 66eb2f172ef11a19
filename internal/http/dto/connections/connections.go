// Package connections contiene los DTOs de /api/connections.
package connections

import "time"

// ConnectionResponse es una conexión sin material de tokens.
type ConnectionResponse struct {
	Platform    string    `json:"platform"`
	Connected   bool      `json:"connected"`
	ProfileID   string    `json:"profileId"`
	ProfileName string    `json:"profileName,omitempty"`
	ExpiresAt   *int64    `json:"expiresAt,omitempty"`
	HasRefresh  bool      `json:"hasRefreshToken"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type ListResponse struct {
	Connections []ConnectionResponse `json:"connections"`
}
