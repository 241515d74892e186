package directory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/YusufBro01/ymastar/internal/domain"
	"github.com/YusufBro01/ymastar/internal/ports/cache"
	"github.com/YusufBro01/ymastar/internal/ports/service"
	"github.com/YusufBro01/ymastar/internal/ports/storage"
	"github.com/YusufBro01/ymastar/internal/ports/telegram"
)

const (
	DefaultPlaceholderAvatar = "https://via.placeholder.com/150"
	DefaultFoundTTL          = 10 * time.Minute
	DefaultNotFoundTTL       = time.Minute
	DefaultAvatarURLTTL      = time.Hour
	DefaultFetchTimeout      = 10 * time.Second

	cacheKeyPrefix = "recipient:"
	notFoundMarker = "-"
)

type Config struct {
	PlaceholderAvatar string
	FoundTTL          time.Duration
	NotFoundTTL       time.Duration
	AvatarURLTTL      time.Duration // срок presigned ссылки, должен быть больше FoundTTL
	FetchTimeout      time.Duration // общий запрос в Telegram не зависит от отмены отдельного вызывающего
}

// Service поиск получателя через getChat Bot API. Кэш и S3 необязательны.
type Service struct {
	chats   telegram.IChatClient
	cache   cache.Cache
	avatars storage.IS3Client
	cfg     Config
	group   singleflight.Group
	log     *slog.Logger
}

func New(chats telegram.IChatClient, c cache.Cache, avatars storage.IS3Client, cfg Config, log *slog.Logger) *Service {
	if cfg.PlaceholderAvatar == "" {
		cfg.PlaceholderAvatar = DefaultPlaceholderAvatar
	}
	if cfg.FoundTTL <= 0 {
		cfg.FoundTTL = DefaultFoundTTL
	}
	if cfg.NotFoundTTL <= 0 {
		cfg.NotFoundTTL = DefaultNotFoundTTL
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = DefaultFetchTimeout
	}
	if cfg.AvatarURLTTL <= cfg.FoundTTL {
		cfg.AvatarURLTTL = max(DefaultAvatarURLTTL, 2*cfg.FoundTTL)
	}

	return &Service{
		chats:   chats,
		cache:   c,
		avatars: avatars,
		cfg:     cfg,
		log:     log,
	}
}

var _ service.IDirectoryService = (*Service)(nil)

// Lookup одинаковые параллельные запросы схлопываются в один вызов Telegram.
// Отмена ctx прерывает ожидание только этого вызывающего, общий запрос продолжается.
func (s *Service) Lookup(ctx context.Context, handle string) (*domain.RecipientIdentity, error) {
	handle = domain.NormalizeHandle(handle)
	if !domain.IsSearchableHandle(handle) {
		return nil, domain.ErrRecipientNotFound
	}
	key := cacheKeyPrefix + strings.ToLower(handle)

	if identity, hit := s.fromCache(ctx, key); hit {
		if identity == nil {
			return nil, domain.ErrRecipientNotFound
		}
		return identity, nil
	}

	ch := s.group.DoChan(key, func() (interface{}, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.FetchTimeout)
		defer cancel()
		return s.fetch(fetchCtx, key, handle)
	})

	select {
	case <-ctx.Done():
		return nil, domain.WrapLookupFailed(ctx.Err())
	case res := <-ch:
		if res.Shared {
			s.log.Debug("recipient lookup coalesced", "handle", handle)
		}
		if res.Err != nil {
			return nil, res.Err
		}
		identity := *res.Val.(*domain.RecipientIdentity)
		return &identity, nil
	}
}

func (s *Service) fetch(ctx context.Context, key, handle string) (*domain.RecipientIdentity, error) {
	chat, err := s.chats.GetChat(ctx, domain.CanonicalHandle(handle))
	if err != nil {
		if !isNotFound(err) {
			return nil, domain.WrapLookupFailed(err)
		}
		s.store(ctx, key, notFoundMarker, s.cfg.NotFoundTTL)
		return nil, domain.ErrRecipientNotFound
	}

	if !chat.IsPrivate() {
		s.store(ctx, key, notFoundMarker, s.cfg.NotFoundTTL)
		return nil, domain.ErrRecipientNotFound
	}

	identity := &domain.RecipientIdentity{
		ID:          chat.ID,
		DisplayName: displayName(chat),
		Handle:      domain.CanonicalHandle(handle),
		AvatarURL:   s.avatarURL(ctx, chat),
	}
	if chat.Username != nil && *chat.Username != "" {
		identity.Handle = domain.CanonicalHandle(*chat.Username)
	}

	if data, err := json.Marshal(identity); err == nil {
		s.store(ctx, key, string(data), s.cfg.FoundTTL)
	}
	return identity, nil
}

// avatarURL зеркалирует аватар в S3 и отдаёт presigned ссылку; без S3 ссылка Telegram; без фото заглушка
func (s *Service) avatarURL(ctx context.Context, chat *domain.Chat) string {
	if chat.Photo == nil || chat.Photo.BigFileID == "" {
		return s.cfg.PlaceholderAvatar
	}

	file, err := s.chats.GetFile(ctx, chat.Photo.BigFileID)
	if err != nil || file.FilePath == "" {
		s.log.Warn("failed to get avatar file", "chat_id", chat.ID, "error", err)
		return s.cfg.PlaceholderAvatar
	}

	if s.avatars == nil {
		return s.chats.FileURL(file.FilePath)
	}

	url, err := s.mirrorAvatar(ctx, chat, file)
	if err != nil {
		s.log.Warn("failed to mirror avatar", "chat_id", chat.ID, "error", err)
		return s.cfg.PlaceholderAvatar
	}
	return url
}

func (s *Service) mirrorAvatar(ctx context.Context, chat *domain.Chat, file *domain.File) (string, error) {
	path := fmt.Sprintf("avatars/%d/%s.jpg", chat.ID, chat.Photo.BigFileUniqueID)

	exists, err := s.avatars.Exists(ctx, path)
	if err != nil {
		return "", err
	}

	if !exists {
		data, err := s.chats.DownloadFile(ctx, file.FilePath)
		if err != nil {
			return "", err
		}
		if err := s.avatars.PutFile(ctx, path, data, "image/jpeg"); err != nil {
			return "", err
		}
	}

	return s.avatars.GetPresignedURL(ctx, path, s.cfg.AvatarURLTTL)
}

// fromCache hit=false - в кэше ничего нет или кэш недоступен; hit=true и nil - закэшированное "не найден"
func (s *Service) fromCache(ctx context.Context, key string) (*domain.RecipientIdentity, bool) {
	if s.cache == nil {
		return nil, false
	}

	value, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.log.Warn("recipient cache get failed", "key", key, "error", err)
		}
		return nil, false
	}

	if value == notFoundMarker {
		return nil, true
	}

	var identity domain.RecipientIdentity
	if err := json.Unmarshal([]byte(value), &identity); err != nil {
		s.log.Warn("broken recipient cache entry", "key", key, "error", err)
		return nil, false
	}
	return &identity, true
}

func (s *Service) store(ctx context.Context, key, value string, ttl time.Duration) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value, ttl); err != nil {
		s.log.Warn("recipient cache set failed", "key", key, "error", err)
	}
}

// isNotFound Bot API отвечает 400 "chat not found" на несуществующий username
func isNotFound(err error) bool {
	var apiErr *domain.TelegramAPIError
	return errors.As(err, &apiErr) && apiErr.Code == http.StatusBadRequest
}

func displayName(chat *domain.Chat) string {
	var parts []string
	if chat.FirstName != nil && *chat.FirstName != "" {
		parts = append(parts, *chat.FirstName)
	}
	if chat.LastName != nil && *chat.LastName != "" {
		parts = append(parts, *chat.LastName)
	}
	if len(parts) == 0 {
		return domain.DefaultDisplayName
	}
	return strings.Join(parts, " ")
}
