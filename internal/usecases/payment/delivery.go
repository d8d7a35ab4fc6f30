package payment

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/anastasia-gushchina/topdj-bot/internal/domain"
	"github.com/anastasia-gushchina/topdj-bot/internal/ports/service"
	"github.com/anastasia-gushchina/topdj-bot/internal/ports/storage"
	"github.com/anastasia-gushchina/topdj-bot/internal/ports/telegram"
)

const alertPurchased = "Пользователь %s успешно купил пак %s"

// Delivery отправка оплаченного пака пользователю
type Delivery struct {
	Messenger telegram.IClient
	Files     storage.IFileSource
	Notifier  service.INotifier
	Log       *slog.Logger
}

func NewDelivery(messenger telegram.IClient, files storage.IFileSource, notifier service.INotifier, log *slog.Logger) *Delivery {
	return &Delivery{
		Messenger: messenger,
		Files:     files,
		Notifier:  notifier,
		Log:       log,
	}
}

// Deliver отправляет подтверждение и архив с защитой от пересылки.
// Любая ошибка отправки возвращается, уведомление оператору только после успеха
func (d *Delivery) Deliver(ctx context.Context, chatID int64, buyer string, pack *domain.Pack) error {
	doc, err := d.document(ctx, pack)
	if err != nil {
		return err
	}

	if err := d.Messenger.SendMessage(ctx, chatID, fmt.Sprintf(textThanks, pack.HumanName)); err != nil {
		return fmt.Errorf("failed to send confirmation: %w", err)
	}
	if err := d.Messenger.SendDocument(ctx, chatID, doc); err != nil {
		return fmt.Errorf("failed to send document: %w", err)
	}

	d.Log.Info("pack delivered",
		"chat_id", chatID,
		"pack_name", pack.Name,
		"by_file_id", doc.FileID != "")
	d.Notifier.Notify(ctx, fmt.Sprintf(alertPurchased, buyer, pack.HumanName))
	return nil
}

// document загруженный ранее file_id, иначе содержимое файла
func (d *Delivery) document(ctx context.Context, pack *domain.Pack) (domain.OutgoingDocument, error) {
	if pack.HasContentRef() {
		return domain.OutgoingDocument{FileID: pack.DocumentID, Protect: true}, nil
	}
	if d.Files == nil {
		return domain.OutgoingDocument{}, fmt.Errorf("pack %s: no file source configured", pack.Name)
	}

	content, err := d.Files.ReadFile(ctx, pack.FileName)
	if err != nil {
		return domain.OutgoingDocument{}, fmt.Errorf("failed to read pack file %q: %w", pack.FileName, err)
	}
	return domain.OutgoingDocument{
		FileName: pack.FileName,
		Content:  content,
		Protect:  true,
	}, nil
}
