package dispatch

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"weddinglead_backend/internal/messaging/domain"
	"weddinglead_backend/platform/logger"
)

type testConfig struct {
	baseURL string
	enabled bool
}

func (c testConfig) GetDispatchBaseURL() string        { return c.baseURL }
func (c testConfig) GetDispatchAPIKey() string         { return "test-key" }
func (c testConfig) GetDispatchAPISecret() string      { return "test-secret" }
func (c testConfig) GetDispatchSenderPhone() string    { return "0215441234" }
func (c testConfig) GetDispatchKakaoChannelID() string { return "pf-channel" }
func (c testConfig) IsDispatchEnabled() bool           { return c.enabled }

func newTestClient(t *testing.T, handler http.HandlerFunc) Dispatcher {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(testConfig{baseURL: server.URL, enabled: true}, logger.New("development"))
}

func TestSendAlimtalk(t *testing.T) {
	var got sendRequest
	var auth string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/messages/v4/send" {
			t.Fatalf("path = %q", r.URL.Path)
		}
		auth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(sendResponse{MessageID: "pm-42", StatusCode: "2000"})
	})

	result := client.Send(context.Background(), Params{
		To:           "01012345678",
		TemplateRef:  "KA01TP777",
		Variables:    map[string]string{"name": "김민지"},
		FallbackText: "fallback",
	})

	if !result.Success || result.ProviderMessageID != "pm-42" || result.Method != domain.ChannelAlimtalk {
		t.Fatalf("result = %+v", result)
	}
	if got.Message.Type != "ATA" || got.Message.KakaoOptions == nil {
		t.Fatalf("message = %+v, want ATA with kakao options", got.Message)
	}
	if got.Message.KakaoOptions.PFID != "pf-channel" || got.Message.KakaoOptions.TemplateID != "KA01TP777" {
		t.Fatalf("kakao options = %+v", got.Message.KakaoOptions)
	}
	if got.Message.KakaoOptions.Variables["#{name}"] != "김민지" {
		t.Fatalf("variables = %v, want #{name} key", got.Message.KakaoOptions.Variables)
	}

	pattern := regexp.MustCompile(`^HMAC-SHA256 apiKey=test-key, date=(\S+), salt=(\S+), signature=([0-9a-f]{64})$`)
	m := pattern.FindStringSubmatch(auth)
	if m == nil {
		t.Fatalf("authorization header = %q", auth)
	}
	mac := hmac.New(sha256.New, []byte("test-secret"))
	mac.Write([]byte(m[1] + m[2]))
	if want := hex.EncodeToString(mac.Sum(nil)); m[3] != want {
		t.Fatalf("signature = %s, want %s", m[3], want)
	}
}

func TestSendFallsBackToSMS(t *testing.T) {
	calls := 0
	var last sendRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		last = sendRequest{}
		_ = json.NewDecoder(r.Body).Decode(&last)
		if calls == 1 {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(sendResponse{ErrorMessage: "template rejected"})
			return
		}
		_ = json.NewEncoder(w).Encode(sendResponse{MessageID: "pm-sms"})
	})

	result := client.Send(context.Background(), Params{
		To:           "01012345678",
		TemplateRef:  "KA01TP777",
		FallbackText: "김민지님, 문의 감사합니다.",
	})

	if calls != 2 {
		t.Fatalf("provider calls = %d, want 2", calls)
	}
	if !result.Success || result.Method != domain.ChannelSMS || result.ProviderMessageID != "pm-sms" {
		t.Fatalf("result = %+v", result)
	}
	if last.Message.Text != "김민지님, 문의 감사합니다." || last.Message.KakaoOptions != nil {
		t.Fatalf("fallback message = %+v", last.Message)
	}
}

func TestSendNoFallbackTextFails(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(sendResponse{ErrorMessage: "template rejected"})
	})

	result := client.Send(context.Background(), Params{
		To:          "01012345678",
		TemplateRef: "KA01TP777",
	})
	if result.Success || result.Error == "" {
		t.Fatalf("result = %+v, want failure without fallback", result)
	}
}

func TestSendWithoutTemplateUsesSMSDirectly(t *testing.T) {
	calls := 0
	var last sendRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		_ = json.NewDecoder(r.Body).Decode(&last)
		_ = json.NewEncoder(w).Encode(sendResponse{MessageID: "pm-1"})
	})

	result := client.Send(context.Background(), Params{To: "01012345678", FallbackText: "안녕하세요"})
	if calls != 1 || !result.Success || result.Method != domain.ChannelSMS {
		t.Fatalf("calls = %d, result = %+v", calls, result)
	}
	if last.Message.Type != "" {
		t.Fatalf("plain SMS should carry no type, got %q", last.Message.Type)
	}
}

func TestNewReturnsNoopWhenDisabled(t *testing.T) {
	d := New(testConfig{enabled: false}, logger.New("development"))
	result := d.Send(context.Background(), Params{To: "01012345678", FallbackText: "안녕하세요"})
	if !result.Success || result.ProviderMessageID == "" {
		t.Fatalf("noop result = %+v", result)
	}
}
