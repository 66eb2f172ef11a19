package oauth

import (
	"encoding/json"

	"github.com/JackVitick/Socialync/internal/providers"
)

// normalizer proyecta el JSON de perfil de una plataforma a ProfileIdentity.
// Un id vacío no es error acá; FetchProfile lo convierte en ProfileFetchError.
type normalizer func(body []byte) (ProfileIdentity, error)

var normalizers = map[providers.Platform]normalizer{
	providers.Facebook:  normalizeFacebook,
	providers.Instagram: normalizeInstagram,
	providers.Twitter:   normalizeTwitter,
	providers.TikTok:    normalizeTikTok,
	providers.YouTube:   normalizeYouTube,
}

// firstNonEmpty devuelve el primer valor no vacío en orden de prioridad.
func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

type idName struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Graph /me responde {id, name}; se acepta también el sobre {data:{id, name}}.
func normalizeFacebook(body []byte) (ProfileIdentity, error) {
	var p struct {
		idName
		Data *idName `json:"data"`
	}
	if err := json.Unmarshal(body, &p); err != nil {
		return ProfileIdentity{}, err
	}
	if p.ID == "" && p.Data != nil {
		return ProfileIdentity{ID: p.Data.ID, Name: p.Data.Name}, nil
	}
	return ProfileIdentity{ID: p.ID, Name: p.Name}, nil
}

// /me/accounts: la primera página listada identifica la cuenta.
func normalizeInstagram(body []byte) (ProfileIdentity, error) {
	var p struct {
		Data []idName `json:"data"`
	}
	if err := json.Unmarshal(body, &p); err != nil {
		return ProfileIdentity{}, err
	}
	if len(p.Data) == 0 {
		return ProfileIdentity{}, nil
	}
	return ProfileIdentity{ID: p.Data[0].ID, Name: p.Data[0].Name}, nil
}

func normalizeTwitter(body []byte) (ProfileIdentity, error) {
	var p struct {
		Data struct {
			ID       string `json:"id"`
			Username string `json:"username"`
			Name     string `json:"name"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &p); err != nil {
		return ProfileIdentity{}, err
	}
	return ProfileIdentity{ID: p.Data.ID, Name: firstNonEmpty(p.Data.Username, p.Data.Name)}, nil
}

func normalizeTikTok(body []byte) (ProfileIdentity, error) {
	var p struct {
		Data struct {
			OpenID      string `json:"open_id"`
			UserID      string `json:"user_id"`
			DisplayName string `json:"display_name"`
			Nickname    string `json:"nickname"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &p); err != nil {
		return ProfileIdentity{}, err
	}
	return ProfileIdentity{
		ID:   firstNonEmpty(p.Data.OpenID, p.Data.UserID),
		Name: firstNonEmpty(p.Data.DisplayName, p.Data.Nickname),
	}, nil
}

func normalizeYouTube(body []byte) (ProfileIdentity, error) {
	var p struct {
		Items []struct {
			ID      string `json:"id"`
			Snippet struct {
				Title string `json:"title"`
			} `json:"snippet"`
		} `json:"items"`
	}
	if err := json.Unmarshal(body, &p); err != nil {
		return ProfileIdentity{}, err
	}
	if len(p.Items) == 0 {
		return ProfileIdentity{}, nil
	}
	return ProfileIdentity{ID: p.Items[0].ID, Name: p.Items[0].Snippet.Title}, nil
}
