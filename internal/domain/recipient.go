package domain

import (
	"strings"
	"unicode/utf8"
)

// MinHandleLength минимальная длина хендла (без @), с которой имеет смысл идти в Telegram
const MinHandleLength = 3

// DefaultDisplayName имя по умолчанию, если у чата нет first_name
const DefaultDisplayName = "Telegram User"

// RecipientIdentity получатель звёзд/премиума, найденный через Telegram
type RecipientIdentity struct {
	ID          int64  `json:"id"`
	DisplayName string `json:"name"`
	Handle      string `json:"username"` // всегда с ведущим @
	AvatarURL   string `json:"avatar"`
}

// NormalizeHandle убирает пробелы по краям и все ведущие @
// "  @@alice " -> "alice", "@ alice" -> "alice"
func NormalizeHandle(raw string) string {
	return strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(raw), "@"))
}

// IsSearchableHandle проверяет, что нормализованный хендл достаточно длинный для поиска
func IsSearchableHandle(normalized string) bool {
	return utf8.RuneCountInString(normalized) >= MinHandleLength
}

// CanonicalHandle возвращает хендл в отображаемой форме "@name"
func CanonicalHandle(normalized string) string {
	return "@" + normalized
}
