package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Harmonybod/Event-Ticketing-System/internal/config"
)

// WhatsAppClient sends ticket notifications through the Cloud API.
type WhatsAppClient struct {
	cfg    config.WhatsAppConfig
	client *http.Client
}

func NewWhatsAppClient(cfg config.WhatsAppConfig) *WhatsAppClient {
	return &WhatsAppClient{
		cfg:    cfg,
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

func (w *WhatsAppClient) Configured() bool {
	return w.cfg.Token != "" && w.cfg.PhoneID != ""
}

func (w *WhatsAppClient) send(ctx context.Context, payload map[string]interface{}) error {
	if !w.Configured() {
		return fmt.Errorf("whatsapp client is not configured")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/%s/messages", w.cfg.BaseURL, w.cfg.PhoneID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+w.cfg.Token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("whatsapp request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("whatsapp API returned %d: %s", resp.StatusCode, string(respBody))
	}
	return nil
}

// SendText delivers a plain text message to a phone number.
func (w *WhatsAppClient) SendText(ctx context.Context, phone, body string) error {
	return w.send(ctx, map[string]interface{}{
		"messaging_product": "whatsapp",
		"to":                phone,
		"type":              "text",
		"text":              map[string]string{"body": body},
	})
}

// SendImage delivers an image by public URL.
func (w *WhatsAppClient) SendImage(ctx context.Context, phone, imageURL string) error {
	return w.send(ctx, map[string]interface{}{
		"messaging_product": "whatsapp",
		"to":                phone,
		"type":              "image",
		"image":             map[string]string{"link": imageURL},
	})
}
