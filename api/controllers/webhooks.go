package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/taskercompanyofficial/taskercompany-api/api/responses"
	"github.com/taskercompanyofficial/taskercompany-api/internal/intake"
	"github.com/taskercompanyofficial/taskercompany-api/pkg/config"
	pkgerrors "github.com/taskercompanyofficial/taskercompany-api/pkg/errors"
	"github.com/taskercompanyofficial/taskercompany-api/pkg/logger"
)

// WhatsAppVerify answers the gateway's subscription handshake: echo the
// challenge when the verify token matches, 403 otherwise.
func WhatsAppVerify(cfg config.WhatsAppConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		token := query.Get("hub.verify_token")
		challenge := query.Get("hub.challenge")

		if cfg.VerifyToken == "" || token != cfg.VerifyToken {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "verification token mismatch"))
			return
		}

		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(challenge))
	}
}

// WhatsAppWebhook feeds inbound messages to the intake bot. The gateway
// retries on non-2xx, so per-message handling errors are logged and
// acknowledged rather than surfaced.
func WhatsAppWebhook(svc intake.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "intake service unavailable"))
			return
		}

		// The gateway envelope carries fields beyond the messages we
		// consume, so unknown fields are tolerated here.
		var payload intake.WebhookPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid webhook payload"))
			return
		}

		for _, msg := range payload.Messages() {
			if err := svc.HandleMessage(r.Context(), msg.From, msg.Text); err != nil && logg != nil {
				ctx := logg.WithFields(r.Context(), map[string]any{"from": msg.From})
				logg.Error(ctx, "intake.webhook.message", err)
			}
		}
		responses.WriteSuccess(w, map[string]string{"status": "received"})
	}
}
