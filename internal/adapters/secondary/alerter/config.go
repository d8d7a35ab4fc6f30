package alerter

// Config отдельный чат для алертов; если ChatID не задан, алерты уходят админу
type Config struct {
	ChatID          int64  `envconfig:"CHAT_ID"`
	MessageThreadID *int64 `envconfig:"MESSAGE_THREAD_ID"`
}
