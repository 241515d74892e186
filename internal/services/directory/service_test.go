package directory

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/YusufBro01/ymastar/internal/adapters/secondary/storage/inmemory"
	"github.com/YusufBro01/ymastar/internal/domain"
	"github.com/YusufBro01/ymastar/internal/pkg/logger"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func ptr(s string) *string { return &s }

type chatStub struct {
	chats     map[string]*domain.Chat
	err       error
	gate      chan struct{}
	getChat   atomic.Int32
	downloads atomic.Int32
}

func (c *chatStub) GetChat(ctx context.Context, chatID string) (*domain.Chat, error) {
	c.getChat.Add(1)
	if c.gate != nil {
		select {
		case <-c.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if c.err != nil {
		return nil, c.err
	}
	chat, ok := c.chats[chatID]
	if !ok {
		return nil, &domain.TelegramAPIError{Method: "getChat", Code: 400, Description: "Bad Request: chat not found"}
	}
	return chat, nil
}

func (c *chatStub) GetFile(_ context.Context, fileID string) (*domain.File, error) {
	return &domain.File{FileID: fileID, FilePath: "photos/" + fileID + ".jpg"}, nil
}

func (c *chatStub) DownloadFile(context.Context, string) ([]byte, error) {
	c.downloads.Add(1)
	return []byte("jpeg"), nil
}

func (c *chatStub) FileURL(filePath string) string {
	return "https://api.telegram.org/file/botTOKEN/" + filePath
}

type s3Stub struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (s *s3Stub) PutFile(_ context.Context, path string, data []byte, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[path] = data
	return nil
}

func (s *s3Stub) Exists(_ context.Context, path string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[path]
	return ok, nil
}

func (s *s3Stub) GetPresignedURL(_ context.Context, path string, _ time.Duration) (string, error) {
	return "https://s3.local/" + path + "?sig=1", nil
}

func validChats() map[string]*domain.Chat {
	return map[string]*domain.Chat{
		"@validuser": {
			ID: 42, Type: "private", Username: ptr("ValidUser"), FirstName: ptr("Valid"), LastName: ptr("User"),
			Photo: &domain.ChatPhoto{BigFileID: "big1", BigFileUniqueID: "ubig1"},
		},
		"@nophoto": {ID: 43, Type: "private"},
		"@somechannel": {
			ID: -100, Type: "channel", Title: ptr("News"),
		},
	}
}

func TestService_LookupFound(t *testing.T) {
	chats := &chatStub{chats: validChats()}
	s := New(chats, nil, nil, Config{}, logger.Nop())

	got, err := s.Lookup(context.Background(), "@validuser")
	require.NoError(t, err)
	assert.Equal(t, &domain.RecipientIdentity{
		ID:          42,
		DisplayName: "Valid User",
		Handle:      "@ValidUser",
		AvatarURL:   "https://api.telegram.org/file/botTOKEN/photos/big1.jpg",
	}, got)

	got, err = s.Lookup(context.Background(), "nophoto")
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultDisplayName, got.DisplayName)
	assert.Equal(t, "@nophoto", got.Handle)
	assert.Equal(t, DefaultPlaceholderAvatar, got.AvatarURL)
}

func TestService_LookupNotFound(t *testing.T) {
	chats := &chatStub{chats: validChats()}
	s := New(chats, nil, nil, Config{}, logger.Nop())

	_, err := s.Lookup(context.Background(), "@ghost")
	assert.ErrorIs(t, err, domain.ErrRecipientNotFound)

	_, err = s.Lookup(context.Background(), "@somechannel")
	assert.ErrorIs(t, err, domain.ErrRecipientNotFound)

	_, err = s.Lookup(context.Background(), "@ab")
	assert.ErrorIs(t, err, domain.ErrRecipientNotFound)
	assert.Equal(t, int32(2), chats.getChat.Load())
}

func TestService_LookupFailed(t *testing.T) {
	chats := &chatStub{err: errors.New("dial tcp: i/o timeout")}
	s := New(chats, nil, nil, Config{}, logger.Nop())

	_, err := s.Lookup(context.Background(), "@validuser")
	require.Error(t, err)
	assert.Equal(t, domain.KindLookupFailed, domain.KindOf(err))
	assert.NotErrorIs(t, err, domain.ErrRecipientNotFound)

	chats.err = &domain.TelegramAPIError{Method: "getChat", Code: 429, Description: "Too Many Requests"}
	_, err = s.Lookup(context.Background(), "@validuser")
	assert.Equal(t, domain.KindLookupFailed, domain.KindOf(err))
}

func TestService_CacheHitsAndNegativeCache(t *testing.T) {
	fc := clockwork.NewFakeClock()
	chats := &chatStub{chats: validChats()}
	s := New(chats, inmemory.NewCache(fc), nil, Config{FoundTTL: 10 * time.Minute, NotFoundTTL: time.Minute}, logger.Nop())
	ctx := context.Background()

	first, err := s.Lookup(ctx, "@validuser")
	require.NoError(t, err)
	second, err := s.Lookup(ctx, "@VALIDUSER")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), chats.getChat.Load())

	_, err = s.Lookup(ctx, "ghost")
	assert.ErrorIs(t, err, domain.ErrRecipientNotFound)
	_, err = s.Lookup(ctx, "ghost")
	assert.ErrorIs(t, err, domain.ErrRecipientNotFound)
	assert.Equal(t, int32(2), chats.getChat.Load())

	fc.Advance(2 * time.Minute)
	_, err = s.Lookup(ctx, "ghost")
	assert.ErrorIs(t, err, domain.ErrRecipientNotFound)
	assert.Equal(t, int32(3), chats.getChat.Load(), "negative entry expired")

	fc.Advance(10 * time.Minute)
	_, err = s.Lookup(ctx, "validuser")
	require.NoError(t, err)
	assert.Equal(t, int32(4), chats.getChat.Load(), "positive entry expired")
}

func TestService_FailureIsNotCached(t *testing.T) {
	fc := clockwork.NewFakeClock()
	chats := &chatStub{chats: validChats(), err: errors.New("boom")}
	s := New(chats, inmemory.NewCache(fc), nil, Config{}, logger.Nop())

	_, err := s.Lookup(context.Background(), "validuser")
	require.Error(t, err)

	chats.err = nil
	got, err := s.Lookup(context.Background(), "validuser")
	require.NoError(t, err)
	assert.Equal(t, int64(42), got.ID)
}

func TestService_AvatarMirroredToS3(t *testing.T) {
	chats := &chatStub{chats: validChats()}
	store := &s3Stub{objects: make(map[string][]byte)}
	s := New(chats, nil, store, Config{}, logger.Nop())

	got, err := s.Lookup(context.Background(), "validuser")
	require.NoError(t, err)
	assert.Equal(t, "https://s3.local/avatars/42/ubig1.jpg?sig=1", got.AvatarURL)
	assert.Equal(t, []byte("jpeg"), store.objects["avatars/42/ubig1.jpg"])

	_, err = s.Lookup(context.Background(), "validuser")
	require.NoError(t, err)
	assert.Equal(t, int32(1), chats.downloads.Load(), "existing object is not downloaded again")
}

func TestService_ConcurrentLookupsAreCoalesced(t *testing.T) {
	chats := &chatStub{chats: validChats(), gate: make(chan struct{})}
	s := New(chats, inmemory.NewCache(clockwork.NewFakeClock()), nil, Config{}, logger.Nop())

	const callers = 8
	var wg sync.WaitGroup
	results := make([]*domain.RecipientIdentity, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = s.Lookup(context.Background(), "validuser")
		}()
	}

	require.Eventually(t, func() bool { return chats.getChat.Load() == 1 }, time.Second, 5*time.Millisecond)
	close(chats.gate)
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, int64(42), results[i].ID)
	}
	assert.Equal(t, int32(1), chats.getChat.Load())
}

func TestService_CallerCancelDoesNotFailSharedLookup(t *testing.T) {
	chats := &chatStub{chats: validChats(), gate: make(chan struct{})}
	c := inmemory.NewCache(clockwork.NewFakeClock())
	s := New(chats, c, nil, Config{}, logger.Nop())

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err := s.Lookup(ctxA, "validuser")
		errA <- err
	}()
	require.Eventually(t, func() bool { return chats.getChat.Load() == 1 }, time.Second, 5*time.Millisecond)

	var (
		wg   sync.WaitGroup
		gotB *domain.RecipientIdentity
		errB error
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		gotB, errB = s.Lookup(context.Background(), "validuser")
	}()

	cancelA()
	err := <-errA
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, domain.KindLookupFailed, domain.KindOf(err))

	close(chats.gate)
	wg.Wait()

	require.NoError(t, errB)
	assert.Equal(t, int64(42), gotB.ID)
	assert.Equal(t, "@ValidUser", gotB.Handle)

	// общий запрос завершился и попал в кэш, несмотря на отмену первого вызывающего
	calls := chats.getChat.Load()
	_, err = s.Lookup(context.Background(), "validuser")
	require.NoError(t, err)
	assert.Equal(t, calls, chats.getChat.Load())
}
