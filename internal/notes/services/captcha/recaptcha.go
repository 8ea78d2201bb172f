// Package captcha verifies reCAPTCHA tokens submitted with the sign-up form.
package captcha

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/Leopold1975/notes_app/internal/pkg/config"
	"github.com/Leopold1975/notes_app/pkg/logger"
)

var ErrCaptcha = errors.New("captcha verification failed")

type verifyResponse struct {
	Success    bool     `json:"success"`
	Score      *float64 `json:"score"`
	Action     string   `json:"action"`
	Hostname   string   `json:"hostname"`
	ErrorCodes []string `json:"error-codes"` //nolint:tagliatelle
}

type Recaptcha struct {
	cfg    config.Recaptcha
	client *http.Client
	lg     logger.Logger
}

func New(cfg config.Recaptcha, lg logger.Logger) *Recaptcha {
	return &Recaptcha{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout}, //nolint:exhaustruct
		lg:     lg,
	}
}

func (r *Recaptcha) Enabled() bool {
	return r.cfg.Enabled
}

func (r *Recaptcha) SiteKey() string {
	if !r.cfg.Enabled {
		return ""
	}

	return r.cfg.SiteKey
}

// Verify checks token against the siteverify endpoint. A disabled verifier
// accepts everything. Tokens carrying a score (v3) must reach MinScore.
func (r *Recaptcha) Verify(ctx context.Context, token, remoteIP string) error {
	if !r.cfg.Enabled {
		return nil
	}

	if token == "" {
		return ErrCaptcha
	}

	form := url.Values{}
	form.Set("secret", r.cfg.Secret)
	form.Set("response", token)

	if remoteIP != "" {
		form.Set("remoteip", remoteIP)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.cfg.VerifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("new request error: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := r.client.Do(req)
	if err != nil {
		r.lg.Error("recaptcha request failed", "error", err)

		return fmt.Errorf("recaptcha request error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		r.lg.Error("recaptcha unexpected status", "status", resp.StatusCode)

		return fmt.Errorf("recaptcha status %d: %w", resp.StatusCode, ErrCaptcha)
	}

	var vr verifyResponse

	if err := json.NewDecoder(resp.Body).Decode(&vr); err != nil {
		r.lg.Error("recaptcha response decode failed", "error", err)

		return fmt.Errorf("decode error: %w", err)
	}

	if !vr.Success {
		return fmt.Errorf("%w: %s", ErrCaptcha, strings.Join(vr.ErrorCodes, ","))
	}

	if vr.Score != nil && *vr.Score < r.cfg.MinScore {
		return fmt.Errorf("%w: score %.2f", ErrCaptcha, *vr.Score)
	}

	return nil
}
