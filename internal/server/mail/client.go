package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ClientConfig holds the email provider settings.
type ClientConfig struct {
	Endpoint    string // provider send endpoint, e.g. https://send.api.mailtrap.io/api/send
	Token       string // provider API token
	SenderEmail string
	SenderName  string
}

// Client is a Sender backed by a Mailtrap-compatible HTTP send API.
type Client struct {
	httpClient *http.Client
	cfg        ClientConfig
}

// NewClient creates a new mail API client.
func NewClient(cfg ClientConfig) *Client {
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// address identifies a sender or recipient on the wire.
type address struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// sendPayload is the provider's send request body.
type sendPayload struct {
	From     address   `json:"from"`
	To       []address `json:"to"`
	Subject  string    `json:"subject"`
	HTML     string    `json:"html"`
	Category string    `json:"category,omitempty"`
}

// SendVerification mails the 6-digit verification code.
func (c *Client) SendVerification(ctx context.Context, toEmail, code string) error {
	body, err := renderTemplate(verificationTmpl, struct{ Code string }{Code: code})
	if err != nil {
		return err
	}

	return c.send(ctx, toEmail, "Verify your email", body, "email_verification")
}

// SendWelcome mails the welcome message after verification.
func (c *Client) SendWelcome(ctx context.Context, toEmail, name string) error {
	body, err := renderTemplate(welcomeTmpl, struct{ Name string }{Name: name})
	if err != nil {
		return err
	}

	return c.send(ctx, toEmail, "Welcome!", body, "welcome")
}

// SendResetRequest mails the password reset link.
func (c *Client) SendResetRequest(ctx context.Context, toEmail, resetURL string) error {
	body, err := renderTemplate(resetRequestTmpl, struct{ ResetURL string }{ResetURL: resetURL})
	if err != nil {
		return err
	}

	return c.send(ctx, toEmail, "Reset your password", body, "password_reset")
}

// SendResetSuccess confirms a completed password reset.
func (c *Client) SendResetSuccess(ctx context.Context, toEmail string) error {
	body, err := renderTemplate(resetSuccessTmpl, nil)
	if err != nil {
		return err
	}

	return c.send(ctx, toEmail, "Password reset successfully", body, "password_reset")
}

// send performs one provider API call.
func (c *Client) send(ctx context.Context, toEmail, subject, html, category string) error {
	payload := sendPayload{
		From:     address{Email: c.cfg.SenderEmail, Name: c.cfg.SenderName},
		To:       []address{{Email: toEmail}},
		Subject:  subject,
		HTML:     html,
		Category: category,
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal mail payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create mail request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.Token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("mail request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("mail provider returned status %d: %s", resp.StatusCode, string(respBody))
	}

	return nil
}
