package domain

import (
	"strings"
	"testing"
	"time"
)

func TestRenderReplacesAllKnownPlaceholders(t *testing.T) {
	body := "{{name}}님, {{business_name}}에 문의해주셔서 감사합니다. 희망일: {{date}}, 인원: {{guest_count}}명"
	vars := map[string]string{
		"name":          "김철수",
		"business_name": "더채플 웨딩홀",
		"date":          "10월 24일",
		"guest_count":   "200",
	}

	got := Render(body, vars)

	want := "김철수님, 더채플 웨딩홀에 문의해주셔서 감사합니다. 희망일: 10월 24일, 인원: 200명"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestRenderMissingVariableBecomesEmptyString(t *testing.T) {
	got := Render("안녕하세요 {{name}}님, {{unknown}} 확인 부탁드립니다.", map[string]string{"name": "이영희"})

	if got != "안녕하세요 이영희님,  확인 부탁드립니다." {
		t.Fatalf("missing variable should render empty, got %q", got)
	}
	if strings.Contains(got, "{{") || strings.Contains(got, "}}") {
		t.Fatalf("placeholder syntax leaked into output: %q", got)
	}
}

func TestRenderNoPlaceholderSyntaxSurvives(t *testing.T) {
	bodies := []string{
		"{{a}}{{b}}{{c}}",
		"prefix {{x}} middle {{y}} suffix",
		"{{name}} {{name}} {{name}}",
		"no placeholders at all",
	}

	for _, body := range bodies {
		got := Render(body, nil)
		if strings.Contains(got, "{{") {
			t.Fatalf("body %q rendered with leftover placeholder: %q", body, got)
		}
	}
}

func TestRenderRepeatedPlaceholder(t *testing.T) {
	got := Render("{{name}}/{{name}}", map[string]string{"name": "a"})
	if got != "a/a" {
		t.Fatalf("expected a/a, got %q", got)
	}
}

func TestRenderIsDeterministic(t *testing.T) {
	vars := map[string]string{"name": "홍길동", "date": "3월 1일"}
	first := Render("{{name}} {{date}}", vars)
	second := Render("{{name}} {{date}}", vars)
	if first != second {
		t.Fatalf("render not deterministic: %q vs %q", first, second)
	}
}

func TestFormatKoreanDate(t *testing.T) {
	d := time.Date(2026, time.October, 24, 0, 0, 0, 0, time.UTC)
	if got := FormatKoreanDate(d); got != "10월 24일" {
		t.Fatalf("expected 10월 24일, got %q", got)
	}
}

func TestBuildVariables(t *testing.T) {
	date := time.Date(2026, time.May, 9, 0, 0, 0, 0, time.UTC)
	guests := 150

	vars := BuildVariables("김철수", &date, &guests, "스튜디오 봄")

	if vars["name"] != "김철수" {
		t.Fatalf("name = %q", vars["name"])
	}
	if vars["date"] != "5월 9일" {
		t.Fatalf("date = %q", vars["date"])
	}
	if vars["guest_count"] != "150" {
		t.Fatalf("guest_count = %q", vars["guest_count"])
	}
	if vars["business_name"] != "스튜디오 봄" {
		t.Fatalf("business_name = %q", vars["business_name"])
	}
}

func TestBuildVariablesNilOptionalsRenderEmpty(t *testing.T) {
	vars := BuildVariables("이영희", nil, nil, "더가든")

	if vars["date"] != "" || vars["guest_count"] != "" {
		t.Fatalf("nil optionals should be empty strings, got date=%q guest_count=%q",
			vars["date"], vars["guest_count"])
	}
}

func TestValidateStepsBasic(t *testing.T) {
	valid := []Step{
		{DelayDays: 3, TemplateTrigger: TriggerFollowupD3},
		{DelayDays: 7, TemplateTrigger: TriggerFollowupD7},
	}
	if err := ValidateSteps(valid); err != nil {
		t.Fatalf("valid steps rejected: %v", err)
	}

	if err := ValidateSteps(nil); err == nil {
		t.Fatal("empty step list should be rejected")
	}
	if err := ValidateSteps([]Step{{DelayDays: 0, TemplateTrigger: TriggerFollowupD3}}); err == nil {
		t.Fatal("zero delay should be rejected")
	}
	if err := ValidateSteps([]Step{{DelayDays: -1, TemplateTrigger: TriggerFollowupD3}}); err == nil {
		t.Fatal("negative delay should be rejected")
	}
	if err := ValidateSteps([]Step{{DelayDays: 3, TemplateTrigger: Trigger("typo")}}); err == nil {
		t.Fatal("unknown trigger should be rejected")
	}
}
