package dispatch

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"weddinglead_backend/internal/messaging/domain"
	"weddinglead_backend/platform/config"
	"weddinglead_backend/platform/logger"
)

const sendTimeout = 10 * time.Second

// Client talks to the messaging provider's HTTP API with HMAC auth.
type Client struct {
	baseURL        string
	apiKey         string
	apiSecret      string
	senderPhone    string
	kakaoChannelID string
	httpClient     *http.Client
	log            *logger.Logger
}

// New selects the gateway implementation from configuration: the HTTP
// client when credentials are present, the no-op otherwise.
func New(cfg config.DispatchConfig, log *logger.Logger) Dispatcher {
	if !cfg.IsDispatchEnabled() {
		return NewNoop(log)
	}
	return &Client{
		baseURL:        cfg.GetDispatchBaseURL(),
		apiKey:         cfg.GetDispatchAPIKey(),
		apiSecret:      cfg.GetDispatchAPISecret(),
		senderPhone:    cfg.GetDispatchSenderPhone(),
		kakaoChannelID: cfg.GetDispatchKakaoChannelID(),
		httpClient:     &http.Client{Timeout: sendTimeout},
		log:            log,
	}
}

type kakaoOptions struct {
	PFID       string            `json:"pfId"`
	TemplateID string            `json:"templateId"`
	Variables  map[string]string `json:"variables,omitempty"`
}

type providerMessage struct {
	To           string        `json:"to"`
	From         string        `json:"from"`
	Text         string        `json:"text,omitempty"`
	Type         string        `json:"type,omitempty"`
	KakaoOptions *kakaoOptions `json:"kakaoOptions,omitempty"`
}

type sendRequest struct {
	Message providerMessage `json:"message"`
}

type sendResponse struct {
	MessageID     string `json:"messageId"`
	StatusCode    string `json:"statusCode"`
	StatusMessage string `json:"statusMessage"`
	ErrorMessage  string `json:"errorMessage"`
}

// Send attempts the Alimtalk template first, then at most one SMS
// fallback. There are no retries beyond that.
func (c *Client) Send(ctx context.Context, params Params) Result {
	canAlimtalk := params.TemplateRef != "" && c.kakaoChannelID != ""

	if canAlimtalk {
		res, err := c.post(ctx, providerMessage{
			To:   params.To,
			From: c.senderPhone,
			Type: "ATA",
			KakaoOptions: &kakaoOptions{
				PFID:       c.kakaoChannelID,
				TemplateID: params.TemplateRef,
				Variables:  providerVariables(params.Variables),
			},
		})
		if err == nil {
			return Result{Success: true, ProviderMessageID: res.MessageID, Method: domain.ChannelAlimtalk}
		}
		c.log.Warn("alimtalk send failed", "to", params.To, "error", err.Error())
	}

	if params.FallbackText == "" {
		if canAlimtalk {
			return Result{Error: "alimtalk send failed and no fallback text provided", Method: domain.ChannelAlimtalk}
		}
		return Result{Error: "no provider template configured and no fallback text provided", Method: domain.ChannelSMS}
	}

	res, err := c.post(ctx, providerMessage{
		To:   params.To,
		From: c.senderPhone,
		Text: params.FallbackText,
	})
	if err != nil {
		return Result{Error: err.Error(), Method: domain.ChannelSMS}
	}
	return Result{Success: true, ProviderMessageID: res.MessageID, Method: domain.ChannelSMS}
}

func (c *Client) post(ctx context.Context, msg providerMessage) (sendResponse, error) {
	body, err := json.Marshal(sendRequest{Message: msg})
	if err != nil {
		return sendResponse{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/messages/v4/send", bytes.NewReader(body))
	if err != nil {
		return sendResponse{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", c.authorization())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return sendResponse{}, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return sendResponse{}, err
	}

	var parsed sendResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return sendResponse{}, fmt.Errorf("provider returned status %d with unreadable body", resp.StatusCode)
	}

	if resp.StatusCode != http.StatusOK {
		msgText := parsed.ErrorMessage
		if msgText == "" {
			msgText = parsed.StatusMessage
		}
		return sendResponse{}, fmt.Errorf("provider returned status %d: %s", resp.StatusCode, msgText)
	}
	return parsed, nil
}

// authorization builds the provider's HMAC-SHA256 header: the signature
// covers the ISO date concatenated with a random salt.
func (c *Client) authorization() string {
	date := time.Now().UTC().Format(time.RFC3339)
	salt := randomHex(16)

	mac := hmac.New(sha256.New, []byte(c.apiSecret))
	mac.Write([]byte(date + salt))
	signature := hex.EncodeToString(mac.Sum(nil))

	return fmt.Sprintf("HMAC-SHA256 apiKey=%s, date=%s, salt=%s, signature=%s",
		c.apiKey, date, salt, signature)
}

func randomHex(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return hex.EncodeToString([]byte(time.Now().String()))[:n*2]
	}
	return hex.EncodeToString(buf)
}

// providerVariables rewrites the variable keys into the provider's
// #{name} placeholder convention.
func providerVariables(vars map[string]string) map[string]string {
	if len(vars) == 0 {
		return nil
	}
	out := make(map[string]string, len(vars))
	for k, v := range vars {
		out["#{"+k+"}"] = v
	}
	return out
}
