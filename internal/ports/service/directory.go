package service

import (
	"context"

	"github.com/YusufBro01/ymastar/internal/domain"
)

// IDirectoryService поиск получателя по нормализованному хендлу (без @).
// Нет такого пользователя - domain.ErrRecipientNotFound, любая другая ошибка - сбой поиска.
type IDirectoryService interface {
	Lookup(ctx context.Context, handle string) (*domain.RecipientIdentity, error)
}
