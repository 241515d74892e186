package telegram

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/YusufBro01/ymastar/internal/domain"
)

// maxDownloadSize Bot API отдаёт файлы до 20 МБ
const maxDownloadSize = 20 << 20

// GetChat информация о чате по id или @username
func (c *Client) GetChat(ctx context.Context, chatID string) (*domain.Chat, error) {
	reqBody := struct {
		ChatID string `json:"chat_id"`
	}{
		ChatID: chatID,
	}

	var chat domain.Chat
	if err := c.call(ctx, "getChat", reqBody, &chat); err != nil {
		return nil, err
	}
	return &chat, nil
}

// GetFile метаданные файла и путь для скачивания
func (c *Client) GetFile(ctx context.Context, fileID string) (*domain.File, error) {
	reqBody := struct {
		FileID string `json:"file_id"`
	}{
		FileID: fileID,
	}

	var file domain.File
	if err := c.call(ctx, "getFile", reqBody, &file); err != nil {
		return nil, err
	}
	return &file, nil
}

// FileURL прямая ссылка на файл. Содержит токен бота, наружу отдавать только если нет S3.
func (c *Client) FileURL(filePath string) string {
	return c.apiURL + "/file/bot" + c.token + "/" + filePath
}

// DownloadFile скачивает файл по file_path из GetFile
func (c *Client) DownloadFile(ctx context.Context, filePath string) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.FileURL(filePath), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create download request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download file failed with status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDownloadSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read file body: %w", err)
	}
	if len(data) > maxDownloadSize {
		return nil, fmt.Errorf("file %s is larger than %d bytes", filePath, maxDownloadSize)
	}
	return data, nil
}
