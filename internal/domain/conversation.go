package domain

import "strconv"

// State состояние диалога
type State string

// StateNone диалог не начат или завершён
const StateNone State = ""

// Ключи данных диалога
const (
	DataPackName = "pack_name"
	DataPage     = "page"
	DataCategory = "category"
)

// Conversation состояние диалога пользователя и временные данные
type Conversation struct {
	State State             `json:"state"`
	Data  map[string]string `json:"data"`
}

func NewConversation() *Conversation {
	return &Conversation{Data: make(map[string]string)}
}

// Value возвращает значение из данных диалога
func (c *Conversation) Value(key string) (string, bool) {
	if c == nil || c.Data == nil {
		return "", false
	}
	v, ok := c.Data[key]
	return v, ok && v != ""
}

// Page номер текущей страницы списка, 0 если не сохранён
func (c *Conversation) Page() int {
	v, ok := c.Value(DataPage)
	if !ok {
		return 0
	}
	page, err := strconv.Atoi(v)
	if err != nil || page < 0 {
		return 0
	}
	return page
}
