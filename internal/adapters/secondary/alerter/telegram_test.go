package alerter

import (
	"context"
	"errors"
	"testing"

	"github.com/anastasia-gushchina/topdj-bot/internal/adapters/secondary/telegram"
	"github.com/anastasia-gushchina/topdj-bot/internal/pkg/logger"
)

type fakeSender struct {
	req telegram.SendMessageRequest
	err error
}

func (f *fakeSender) SendMessageWithRequest(_ context.Context, req telegram.SendMessageRequest) (int64, error) {
	f.req = req
	return 1, f.err
}

func TestSendAlertFallsBackToAdminChat(t *testing.T) {
	sender := &fakeSender{}
	c := NewClient(&Config{}, sender, 777, logger.Discard())

	if err := c.SendAlert(context.Background(), "hello"); err != nil {
		t.Fatalf("send alert: %v", err)
	}
	if sender.req.ChatID != 777 || sender.req.Text != "hello" {
		t.Fatalf("unexpected request %+v", sender.req)
	}
}

func TestSendAlertUsesConfiguredChatAndThread(t *testing.T) {
	sender := &fakeSender{}
	thread := int64(5)
	c := NewClient(&Config{ChatID: -100, MessageThreadID: &thread}, sender, 777, logger.Discard())

	if err := c.SendAlert(context.Background(), "x"); err != nil {
		t.Fatalf("send alert: %v", err)
	}
	if sender.req.ChatID != -100 || *sender.req.MessageThreadID != 5 {
		t.Fatalf("unexpected request %+v", sender.req)
	}
}

func TestSendAlertErrors(t *testing.T) {
	if err := NewClient(nil, &fakeSender{}, 0, logger.Discard()).SendAlert(context.Background(), "x"); err == nil {
		t.Fatal("expected error without chat")
	}
	c := NewClient(nil, &fakeSender{err: errors.New("down")}, 1, logger.Discard())
	if err := c.SendAlert(context.Background(), "x"); err == nil {
		t.Fatal("expected send error")
	}
}
