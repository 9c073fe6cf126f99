package handler

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/showrunner-ai/orchestrator-platform/pkg/logger"
)

const (
	youtubeAuthURL  = "https://accounts.google.com/o/oauth2/v2/auth"
	youtubeTokenURL = "https://oauth2.googleapis.com/token"
	youtubeAPIURL   = "https://www.googleapis.com/youtube/v3"
)

var youtubeScopes = strings.Join([]string{
	"https://www.googleapis.com/auth/youtube.upload",
	"https://www.googleapis.com/auth/youtube.readonly",
	"https://www.googleapis.com/auth/youtube",
}, " ")

// OAuthHandler handles the YouTube OAuth flow for publishing episodes.
type OAuthHandler struct {
	clientID     string
	clientSecret string
	httpClient   *http.Client
	tokenURL     string
	apiURL       string
	logger       *logger.Logger
}

// NewOAuthHandler creates a new OAuth handler.
func NewOAuthHandler(clientID, clientSecret string, log *logger.Logger) *OAuthHandler {
	return &OAuthHandler{
		clientID:     clientID,
		clientSecret: clientSecret,
		httpClient:   &http.Client{Timeout: 15 * time.Second},
		tokenURL:     youtubeTokenURL,
		apiURL:       youtubeAPIURL,
		logger:       log,
	}
}

// AuthorizeRequest asks for an authorization URL.
type AuthorizeRequest struct {
	RedirectURI string `json:"redirectUri"`
}

// ExchangeRequest exchanges an authorization code for tokens.
type ExchangeRequest struct {
	Code        string `json:"code"`
	RedirectURI string `json:"redirectUri"`
}

// ExchangeResponse carries the tokens and the connected channel back
// to the caller.
type ExchangeResponse struct {
	Success      bool   `json:"success"`
	ChannelID    string `json:"channelId"`
	ChannelName  string `json:"channelName"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
	ExpiresIn    int    `json:"expiresIn"`
}

func (h *OAuthHandler) writeNotConfigured(w http.ResponseWriter) {
	writeJSON(w, http.StatusBadRequest, map[string]interface{}{
		"error":   "YouTube OAuth not configured",
		"message": "Please set YOUTUBE_CLIENT_ID and YOUTUBE_CLIENT_SECRET",
		"setupInstructions": []string{
			"1. Go to console.cloud.google.com",
			"2. Create OAuth 2.0 credentials (Web application)",
			"3. Add your app URL to Authorized JavaScript origins",
			"4. Add your app URL to Authorized redirect URIs",
			"5. Set the Client ID and Client Secret in the server environment",
		},
	})
}

// Authorize handles POST /api/v1/oauth/youtube/authorize
func (h *OAuthHandler) Authorize(w http.ResponseWriter, r *http.Request) {
	if h.clientID == "" {
		h.writeNotConfigured(w)
		return
	}

	var req AuthorizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.RedirectURI == "" {
		writeError(w, http.StatusBadRequest, "redirectUri is required")
		return
	}

	params := url.Values{
		"client_id":     {h.clientID},
		"redirect_uri":  {req.RedirectURI},
		"response_type": {"code"},
		"scope":         {youtubeScopes},
		"access_type":   {"offline"},
		"state":         {"youtube_oauth"},
		"prompt":        {"consent"},
	}

	h.logger.Info("generated YouTube auth URL", zap.String("redirect_uri", req.RedirectURI))

	writeJSON(w, http.StatusOK, map[string]string{
		"authUrl": youtubeAuthURL + "?" + params.Encode(),
	})
}

// Exchange handles POST /api/v1/oauth/youtube/exchange
func (h *OAuthHandler) Exchange(w http.ResponseWriter, r *http.Request) {
	if h.clientID == "" || h.clientSecret == "" {
		h.writeNotConfigured(w)
		return
	}

	var req ExchangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Code == "" {
		writeError(w, http.StatusBadRequest, "authorization code required")
		return
	}

	form := url.Values{
		"client_id":     {h.clientID},
		"client_secret": {h.clientSecret},
		"code":          {req.Code},
		"grant_type":    {"authorization_code"},
		"redirect_uri":  {req.RedirectURI},
	}

	tokenReq, err := http.NewRequestWithContext(r.Context(), http.MethodPost, h.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to build token request")
		return
	}
	tokenReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := h.httpClient.Do(tokenReq)
	if err != nil {
		h.logger.Error("token exchange request failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, "token exchange failed")
		return
	}
	defer resp.Body.Close()

	var tokenData struct {
		AccessToken      string `json:"access_token"`
		RefreshToken     string `json:"refresh_token"`
		ExpiresIn        int    `json:"expires_in"`
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tokenData); err != nil {
		writeError(w, http.StatusBadGateway, "invalid token response")
		return
	}

	if tokenData.Error != "" {
		h.logger.Warn("token exchange rejected", zap.String("reason", tokenData.Error))
		msg := tokenData.ErrorDescription
		if msg == "" {
			msg = "token exchange failed"
		}
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	channelID, channelName, err := h.lookupChannel(r, tokenData.AccessToken)
	if err != nil {
		h.logger.Error("channel lookup failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, "channel lookup failed")
		return
	}
	if channelID == "" {
		writeError(w, http.StatusBadRequest, "No YouTube channel found for this account")
		return
	}

	h.logger.Info("YouTube OAuth success", zap.String("channel", channelName))

	writeJSON(w, http.StatusOK, ExchangeResponse{
		Success:      true,
		ChannelID:    channelID,
		ChannelName:  channelName,
		AccessToken:  tokenData.AccessToken,
		RefreshToken: tokenData.RefreshToken,
		ExpiresIn:    tokenData.ExpiresIn,
	})
}

// lookupChannel resolves the channel behind the freshly issued token.
// An empty id means the account has no channel.
func (h *OAuthHandler) lookupChannel(r *http.Request, accessToken string) (id, name string, err error) {
	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet,
		h.apiURL+"/channels?part=snippet&mine=true", nil)
	if err != nil {
		return "", "", err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()

	var channelData struct {
		Items []struct {
			ID      string `json:"id"`
			Snippet struct {
				Title string `json:"title"`
			} `json:"snippet"`
		} `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&channelData); err != nil {
		return "", "", err
	}
	if len(channelData.Items) == 0 {
		return "", "", nil
	}
	return channelData.Items[0].ID, channelData.Items[0].Snippet.Title, nil
}
