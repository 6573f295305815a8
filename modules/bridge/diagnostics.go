package bridge

import (
	"errors"
	"net/http"
	"time"

	"github.com/camtang26/cre8tiveCA/handler"
	"github.com/camtang26/cre8tiveCA/pkg/config"
	"github.com/camtang26/cre8tiveCA/pkg/graph"
	"github.com/camtang26/cre8tiveCA/pkg/logger"
)

const tokenPreviewLen = 20

// envPresence never carries a value, only whether it is usable. Length is
// reported for secrets so a truncated paste is visible.
type envPresence struct {
	Exists     bool `json:"exists"`
	Configured bool `json:"configured"`
	Length     *int `json:"length,omitempty"`
}

var diagnosedEnv = []struct {
	name   string
	secret bool
}{
	{"AZURE_TENANT_ID", false},
	{"AZURE_CLIENT_ID", false},
	{"AZURE_CLIENT_SECRET", true},
	{"SENDER_UPN", false},
	{"CAL_COM_API_KEY", true},
	{"ELEVENLABS_WEBHOOK_SECRET", true},
}

func (s *Service) presence(name string, secret bool) envPresence {
	v := s.getenv(name)
	p := envPresence{Exists: v != "", Configured: config.Configured(v)}
	if secret {
		n := len(v)
		p.Length = &n
	}
	return p
}

func (s *Service) debugEnv(w http.ResponseWriter, r *http.Request) {
	env := make(map[string]envPresence, len(diagnosedEnv))
	for _, e := range diagnosedEnv {
		env[e.name] = s.presence(e.name, e.secret)
	}
	s.render(w, r, handler.JSON(map[string]any{
		"message":   "Environment variables debug info",
		"env":       env,
		"timestamp": s.now().UTC().Format(time.RFC3339),
	}))
}

type tokenResult struct {
	Success          bool   `json:"success"`
	Message          string `json:"message,omitempty"`
	TokenPreview     string `json:"token_preview,omitempty"`
	ExpiresAt        string `json:"expires_at,omitempty"`
	Error            string `json:"error,omitempty"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// testAzureAuth always answers 200; the outcome is in token_result.
func (s *Service) testAzureAuth(w http.ResponseWriter, r *http.Request) {
	creds := map[string]envPresence{
		"AZURE_TENANT_ID":     s.presence("AZURE_TENANT_ID", false),
		"AZURE_CLIENT_ID":     s.presence("AZURE_CLIENT_ID", false),
		"AZURE_CLIENT_SECRET": s.presence("AZURE_CLIENT_SECRET", true),
	}

	var result tokenResult
	if s.tokens == nil {
		result = tokenResult{Error: "not_configured", ErrorDescription: graph.ErrMisconfigured.Error()}
	} else if tok, err := s.tokens.FetchUncached(r.Context()); err != nil {
		result = tokenResult{Error: "request_failed", ErrorDescription: err.Error()}
		var te *graph.AuthTokenError
		if errors.As(err, &te) {
			result.Error = te.ErrorCode
			result.ErrorDescription = te.Description
		}
		s.log.WarnContext(r.Context(), "azure auth probe failed", logger.Error(err))
	} else {
		preview := tok.Value
		if len(preview) > tokenPreviewLen {
			preview = preview[:tokenPreviewLen]
		}
		result = tokenResult{
			Success:      true,
			Message:      "Token obtained successfully",
			TokenPreview: preview + "...",
			ExpiresAt:    tok.ExpiresAt.UTC().Format(time.RFC3339),
		}
	}

	s.render(w, r, handler.JSON(map[string]any{
		"credentials":  creds,
		"token_result": result,
	}))
}
