package logging

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/jaculashoppingflores-creator/clonador-chesmin-a-jacula/internal/config"
)

type telegramClient struct {
	creds config.TelegramBotConfig
}

type telegramRequest struct {
	ChatId string `json:"chat_id"`
	Text   string `json:"text"`
}

func newTelegramClient(cfg config.TelegramBotConfig) *telegramClient {
	return &telegramClient{creds: cfg}
}

func formatMessage(icon, level, value string) string {
	v := strings.TrimSpace(value)
	if v == "" {
		v = "-"
	}
	return fmt.Sprintf("%s %s: %s", icon, level, v)
}

func (c *telegramClient) send(value string) error {
	url := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", c.creds.Token)

	reqBody := telegramRequest{
		ChatId: c.creds.ChatId,
		Text:   value,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return err
	}

	resp, err := http.Post(url, "application/json", bytes.NewReader(bodyBytes))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("telegram send failed: %s: %s", resp.Status, string(respBody))
	}

	return nil
}
