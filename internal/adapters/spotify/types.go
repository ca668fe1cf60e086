package spotify

// Wire shapes for the subset of the Spotify Web API the fetcher uses.

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

type playlistResponse struct {
	ID     string    `json:"id"`
	Name   string    `json:"name"`
	Tracks trackPage `json:"tracks"`
}

type trackPage struct {
	Items []playlistItem `json:"items"`
	Next  string         `json:"next"`
}

type playlistItem struct {
	AddedAt string       `json:"added_at"`
	Track   *trackObject `json:"track"`
}

type trackObject struct {
	ID      string      `json:"id"`
	Name    string      `json:"name"`
	Artists []artistRef `json:"artists"`
}

type artistRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type artistsResponse struct {
	Artists []artistObject `json:"artists"`
}

type artistObject struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Popularity int       `json:"popularity"`
	Followers  followers `json:"followers"`
}

type followers struct {
	Total int `json:"total"`
}
