package model

import (
	"time"

	"github.com/google/uuid"
)

// Document — JSON ответ Helix API без схемы, в том виде, как он пришёл.
type Document map[string]any

// Cursor возвращает pagination.cursor. Отсутствующие pagination или cursor дают
// пустой курсор; ok ложно, если поле есть, но имеет не тот тип.
func (d Document) Cursor() (cursor string, ok bool) {
	raw, present := d["pagination"]
	if !present || raw == nil {
		return "", true
	}
	pagination, isObject := raw.(map[string]any)
	if !isObject {
		return "", false
	}

	rawCursor, present := pagination["cursor"]
	if !present || rawCursor == nil {
		return "", true
	}
	cursor, ok = rawCursor.(string)
	return cursor, ok
}

// User — первый элемент ответа /users вместе с исходным документом.
type User struct {
	ID       string
	Login    string
	Document Document
}

// Kind обозначает вид запроса, результатом которого стал документ.
type Kind string

const (
	KindUser    Kind = "user"
	KindChannel Kind = "channel"
	KindStream  Kind = "stream"
)

// Snapshot описывает документ, полученный за один запуск.
type Snapshot struct {
	RunID     uuid.UUID
	Kind      Kind
	Query     string
	Page      int
	Document  Document
	FetchedAt time.Time
}
