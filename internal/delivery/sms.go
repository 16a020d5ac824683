package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultMSG91URL = "https://control.msg91.com/api/v5/flow/"
	defaultTimeout  = 15 * time.Second
)

// SMSClient sends codes through the MSG91 flow API. The template must carry
// the code in VAR1.
type SMSClient struct {
	AuthKey    string
	TemplateID string
	Sender     string
	BaseURL    string
	HTTPClient *http.Client
}

// NewSMSClient returns a client for the given credentials. An empty baseURL
// selects the public MSG91 endpoint.
func NewSMSClient(authKey, templateID, sender, baseURL string) *SMSClient {
	if baseURL == "" {
		baseURL = defaultMSG91URL
	}
	return &SMSClient{
		AuthKey:    authKey,
		TemplateID: templateID,
		Sender:     sender,
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: defaultTimeout},
	}
}

type flowRequest struct {
	TemplateID string `json:"template_id"`
	Sender     string `json:"sender"`
	ShortURL   string `json:"short_url"`
	Mobiles    string `json:"mobiles"`
	Var1       string `json:"VAR1"`
}

// Send posts the code to MSG91. The code is never logged.
func (c *SMSClient) Send(ctx context.Context, message Message) error {
	if c.AuthKey == "" {
		return fmt.Errorf("sms: auth key not configured: %w", ErrChannelUnavailable)
	}
	raw, err := json.Marshal(flowRequest{
		TemplateID: c.TemplateID,
		Sender:     c.Sender,
		ShortURL:   "0",
		Mobiles:    strings.TrimPrefix(message.Destination, "+"),
		Var1:       message.Code,
	})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("authkey", c.AuthKey)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("sms: request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("sms: request failed status=%d body=%s", resp.StatusCode, string(b))
	}
	return nil
}
