package domain

import "strings"

// Pack музыкальный пак из каталога
type Pack struct {
	Name        string // машинное имя, например house_30
	HumanName   string
	Price       int64 // в копейках
	Category    string
	FileName    string
	DocumentID  string // file_id заранее загруженного документа
	TrackCount  int
	Description string
}

// MachineName переводит человекочитаемое имя в машинное
func MachineName(humanName string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(humanName), " ", "_"))
}

// HasContentRef есть ли у пака загруженный в Telegram документ
func (p *Pack) HasContentRef() bool {
	return p.DocumentID != ""
}
