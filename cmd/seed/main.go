// Command seed provisions a vendor with the default message templates and
// follow-up sequence from a YAML seed file.
//
//	go run ./cmd/seed -file seed.yaml -vendor <uuid>
//
// Without -vendor a new vendor row is created from the file's vendor block.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	fudomain "weddinglead_backend/internal/followup/domain"
	furepo "weddinglead_backend/internal/followup/repository"
	"weddinglead_backend/platform/config"
	"weddinglead_backend/platform/db"
	"weddinglead_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"gopkg.in/yaml.v3"
)

type seedFile struct {
	Vendor    seedVendor     `yaml:"vendor"`
	Templates []seedTemplate `yaml:"templates"`
	Sequence  seedSequence   `yaml:"sequence"`
}

type seedVendor struct {
	Name            string `yaml:"name"`
	Phone           string `yaml:"phone"`
	Email           string `yaml:"email"`
	SlackWebhookURL string `yaml:"slackWebhookUrl"`
	BusinessType    string `yaml:"businessType"`
}

type seedTemplate struct {
	Name               string `yaml:"name"`
	Trigger            string `yaml:"trigger"`
	Content            string `yaml:"content"`
	ProviderTemplateID string `yaml:"providerTemplateId"`
}

type seedSequence struct {
	Name  string     `yaml:"name"`
	Steps []seedStep `yaml:"steps"`
}

type seedStep struct {
	DelayDays       int    `yaml:"delayDays"`
	TemplateTrigger string `yaml:"templateTrigger"`
}

func main() {
	var (
		filePath = flag.String("file", "seed.yaml", "path to the YAML seed file")
		vendorID = flag.String("vendor", "", "existing vendor UUID; created from the file when empty")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fatal("load config", err)
	}
	log := logger.New(cfg.Env)

	raw, err := os.ReadFile(*filePath)
	if err != nil {
		fatal("read seed file", err)
	}
	var seed seedFile
	if err := yaml.Unmarshal(raw, &seed); err != nil {
		fatal("parse seed file", err)
	}

	steps := make([]fudomain.Step, 0, len(seed.Sequence.Steps))
	for _, s := range seed.Sequence.Steps {
		steps = append(steps, fudomain.Step{
			DelayDays:       s.DelayDays,
			TemplateTrigger: fudomain.Trigger(s.TemplateTrigger),
		})
	}
	if err := fudomain.ValidateSteps(steps); err != nil {
		fatal("validate sequence steps", err)
	}
	for _, t := range seed.Templates {
		if !fudomain.Trigger(t.Trigger).Valid() {
			fatal("validate templates", fmt.Errorf("unknown trigger %q in template %q", t.Trigger, t.Name))
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		fatal("connect to database", err)
	}
	defer pool.Close()

	id, err := resolveVendor(ctx, pool, *vendorID, seed.Vendor)
	if err != nil {
		fatal("resolve vendor", err)
	}
	log.Info("seeding vendor", "vendorId", id.String(), "templates", len(seed.Templates))

	repo := furepo.New(pool)
	for _, t := range seed.Templates {
		var providerID *string
		if t.ProviderTemplateID != "" {
			ref := t.ProviderTemplateID
			providerID = &ref
		}
		created, err := repo.CreateTemplate(ctx, furepo.CreateTemplateParams{
			VendorID:           id,
			Name:               t.Name,
			Trigger:            fudomain.Trigger(t.Trigger),
			Content:            t.Content,
			ProviderTemplateID: providerID,
			IsActive:           true,
		})
		if err != nil {
			fatal("create template "+t.Name, err)
		}
		log.Info("template created", "id", created.ID.String(), "trigger", t.Trigger)
	}

	seq, err := repo.CreateSequence(ctx, furepo.CreateSequenceParams{
		VendorID: id,
		Name:     seed.Sequence.Name,
		Steps:    steps,
		IsActive: false,
	})
	if err != nil {
		fatal("create sequence", err)
	}
	if _, err := repo.ActivateSequence(ctx, seq.ID, id); err != nil {
		fatal("activate sequence", err)
	}
	log.Info("sequence activated", "id", seq.ID.String(), "steps", len(steps))
}

func resolveVendor(ctx context.Context, pool *pgxpool.Pool, flagValue string, v seedVendor) (uuid.UUID, error) {
	if flagValue != "" {
		return uuid.Parse(flagValue)
	}
	if v.Name == "" || v.Phone == "" {
		return uuid.Nil, fmt.Errorf("seed file must define vendor name and phone when -vendor is not set")
	}

	var email, webhook *string
	if v.Email != "" {
		email = &v.Email
	}
	if v.SlackWebhookURL != "" {
		webhook = &v.SlackWebhookURL
	}
	businessType := v.BusinessType
	if businessType == "" {
		businessType = "wedding_hall"
	}

	var id uuid.UUID
	err := pool.QueryRow(ctx, `
		INSERT INTO vendors (name, phone, email, slack_webhook_url, business_type)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		v.Name, v.Phone, email, webhook, businessType,
	).Scan(&id)
	return id, err
}

func fatal(op string, err error) {
	fmt.Fprintf(os.Stderr, "seed: %s: %v\n", op, err)
	os.Exit(1)
}
