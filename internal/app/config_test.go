package app

import (
	"testing"

	"github.com/anastasia-gushchina/topdj-bot/internal/adapters/secondary/telegram"
)

func TestValidateWebhook(t *testing.T) {
	cases := []struct {
		name    string
		cfg     telegram.Config
		wantErr bool
	}{
		{name: "polling", cfg: telegram.Config{}},
		{name: "webhook", cfg: telegram.Config{UseWebhook: "true", WebhookURL: "https://bot.example", WebhookSecret: "s"}},
		{name: "no url", cfg: telegram.Config{UseWebhook: "true", WebhookSecret: "s"}, wantErr: true},
		{name: "no secret", cfg: telegram.Config{UseWebhook: "true", WebhookURL: "https://bot.example"}, wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := validateWebhook(&tc.cfg)
			if (err != nil) != tc.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}
