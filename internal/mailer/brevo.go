package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

const brevoAPIURL = "https://api.brevo.com/v3/smtp/email"

// Brevo sends transactional mail through the Brevo REST API.
type Brevo struct {
	apiKey     string
	fromEmail  string
	fromName   string
	httpClient *http.Client
}

func NewBrevo(apiKey, fromEmail, fromName string) *Brevo {
	return &Brevo{
		apiKey:     apiKey,
		fromEmail:  fromEmail,
		fromName:   fromName,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type sendEmailReq struct {
	Sender      map[string]string   `json:"sender"`
	To          []map[string]string `json:"to"`
	Subject     string              `json:"subject"`
	TextContent string              `json:"textContent"`
}

// SendMail delivers a plain-text message. Single attempt, no retries.
func (b *Brevo) SendMail(ctx context.Context, toEmail, subject, body string) error {
	if toEmail == "" || subject == "" || body == "" {
		return errors.New("toEmail, subject and body cannot be empty")
	}

	reqBody := sendEmailReq{
		Sender:      map[string]string{"email": b.fromEmail, "name": b.fromName},
		To:          []map[string]string{{"email": toEmail}},
		Subject:     subject,
		TextContent: body,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("failed to marshal email request body: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, brevoAPIURL, bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("failed to create brevo request: %w", err)
	}
	httpReq.Header.Set("api-key", b.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := b.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("brevo send email request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errorBody map[string]interface{}
		if decodeErr := json.NewDecoder(resp.Body).Decode(&errorBody); decodeErr != nil {
			return fmt.Errorf("brevo API error: status %d", resp.StatusCode)
		}
		return fmt.Errorf("brevo API error: status %d, body: %v", resp.StatusCode, errorBody)
	}

	return nil
}
