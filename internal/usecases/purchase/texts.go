package purchase

import (
	"fmt"
	"strings"

	"github.com/anastasia-gushchina/topdj-bot/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	textGreeting       = "Мы рады, что тебя заинтересовал наш TOPDJ MUSIC PACK!\n\nВыбери интересующий тебя жанр🤩"
	textCategoryHeader = "Вот доступные паки в категории %s"
	textChoosePack     = "Пожалуйста, выбери пак из списка"
	textBuyButton      = "Беру этот pack"
	textNewPackButton  = "🎵 Хочу другой пак"
	textNewPackLabel   = "Хочу другой пак"
	textNewPackPrompt  = "Опиши одним сообщением, какой пак ты хочешь: жанр, количество треков, примеры артистов. Я передам запрос администратору"
	textNewPackThanks  = "Спасибо! Запрос передан администратору, он свяжется с тобой"
	textNewPackEmpty   = "Пришли описание пака текстом"
	textNewPackAlert   = "Пользователь %s хочет новый пак:\n\n%s"
	textAwaitPayment   = "Счёт уже выставлен, оплати его или отправь /start, чтобы выбрать другой пак"
	textUseStart       = "Отправь /start, чтобы посмотреть доступные паки"

	invoiceTitle       = "Оплата музыкального пака"
	invoiceDescription = "Внеси оплату за пак %s и я пришлю тебе его"
	invoicePriceLabel  = "Оплата за музыкальный пак %s"
)

// FormatPrice переводит копейки в рубли: 500000 -> "5000"
func FormatPrice(minor int64) string {
	return decimal.New(minor, -2).String()
}

func packDescription(p *domain.Pack, currency string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s - отличный выбор!\nЗдесь собраны самые свежие треки в отличном качестве🎧", p.HumanName)
	if p.Description != "" {
		b.WriteString("\n\n")
		b.WriteString(p.Description)
	}
	fmt.Fprintf(&b, "\n\nКоличество треков в паке: %d\nСтоимость: %s %s",
		p.TrackCount, FormatPrice(p.Price), strings.ToUpper(currency))
	return b.String()
}
