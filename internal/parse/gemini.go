package parse

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"weddinglead_backend/platform/config"
	"weddinglead_backend/platform/logger"

	"google.golang.org/genai"
)

const extractionPrompt = `웨딩 업체에 들어온 고객 문의입니다. 아래 JSON 스키마로만 응답하세요.
{
  "summary": "한 문장 요약",
  "inquiryType": "wedding_hall | studio | dress | general 중 하나",
  "desiredDate": "YYYY-MM-DD 또는 null",
  "guestCount": 숫자 또는 null,
  "budgetRange": "문자열 또는 null",
  "urgency": "LOW | MEDIUM | HIGH"
}

문의 내용:
`

type geminiPayload struct {
	Summary     string  `json:"summary"`
	InquiryType string  `json:"inquiryType"`
	DesiredDate *string `json:"desiredDate"`
	GuestCount  *int    `json:"guestCount"`
	BudgetRange *string `json:"budgetRange"`
	Urgency     string  `json:"urgency"`
}

// Gemini asks the configured model for a JSON extraction.
type Gemini struct {
	client *genai.Client
	model  string
	log    *logger.Logger
}

// New builds the parser from configuration: the Gemini client when an
// API key is present, the static fallback otherwise.
func New(ctx context.Context, cfg config.ParserConfig, log *logger.Logger) (Parser, error) {
	if !cfg.IsParserEnabled() {
		log.Info("inquiry parser disabled, using static fallback")
		return NewStatic(), nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GetGeminiAPIKey(),
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Gemini{client: client, model: cfg.GetParserModel(), log: log}, nil
}

func (g *Gemini) Parse(ctx context.Context, raw string) (Parsed, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model,
		genai.Text(extractionPrompt+raw),
		&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
		},
	)
	if err != nil {
		return Parsed{}, fmt.Errorf("generate content: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	var payload geminiPayload
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		return Parsed{}, fmt.Errorf("decode model output: %w", err)
	}

	parsed := Parsed{
		Summary:     payload.Summary,
		InquiryType: payload.InquiryType,
		GuestCount:  payload.GuestCount,
		BudgetRange: payload.BudgetRange,
		Urgency:     normalizeUrgency(payload.Urgency),
	}
	if payload.DesiredDate != nil {
		if t, err := time.Parse("2006-01-02", *payload.DesiredDate); err == nil {
			parsed.DesiredDate = &t
		}
	}
	return parsed, nil
}

func normalizeUrgency(u string) string {
	switch strings.ToUpper(strings.TrimSpace(u)) {
	case "LOW":
		return "LOW"
	case "HIGH":
		return "HIGH"
	}
	return "MEDIUM"
}
