package worker

// cobranca_worker.go
// Processes invoice-message delivery jobs from QueueCobranca: mails the
// rendered cobrança text to the patient with the invoice PDF attached.

import (
	"context"
	"encoding/json"

	"github.com/marvingbh/clinica-sub005/internal/infra"

	"github.com/rs/zerolog/log"
)

// CobrancaJobPayload is the job envelope sent to QueueCobranca.
type CobrancaJobPayload struct {
	FaturaID string `json:"fatura_id"`
	ToEmail  string `json:"to_email"`
	Subject  string `json:"subject"`
	Body     string `json:"body"`
	PDFPath  string `json:"pdf_path"`
}

// CobrancaWorker sends cobrança emails via SMTP.
type CobrancaWorker struct {
	mailer *infra.Mailer
}

func NewCobrancaWorker(mailer *infra.Mailer) *CobrancaWorker {
	return &CobrancaWorker{mailer: mailer}
}

// Process sends the cobrança email, attaching the PDF when available.
// Best-effort: a failed delivery is logged, never retried here — the invoice
// stays ENVIADO and the secretary can resend from the UI.
func (w *CobrancaWorker) Process(_ context.Context, raw json.RawMessage) {
	var payload CobrancaJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("cobranca_worker: invalid payload")
		return
	}
	if payload.ToEmail == "" {
		log.Warn().Str("fatura", payload.FaturaID).Msg("cobranca_worker: paciente sem email — skipping")
		return
	}

	if err := w.mailer.SendCobranca(payload.ToEmail, payload.Subject, payload.Body, payload.PDFPath); err != nil {
		log.Error().Err(err).Str("to", payload.ToEmail).Str("fatura", payload.FaturaID).
			Msg("cobranca_worker: failed to send email")
		return
	}
	log.Info().Str("to", payload.ToEmail).Str("fatura", payload.FaturaID).
		Msg("cobranca_worker: cobrança sent")
}
