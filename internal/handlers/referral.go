package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/accredian/referral-api/internal/mail"
	"github.com/accredian/referral-api/internal/metrics"
	"github.com/accredian/referral-api/internal/middleware"
	"github.com/accredian/referral-api/internal/models"
	"github.com/accredian/referral-api/internal/repo"
)

// ==========================
// Referral Handler
// ==========================
type ReferralHandler struct {
	Referrals *repo.ReferralRepo

	// Mailer may be nil when outbound mail is disabled.
	Mailer mail.Mailer

	// MailFailureFatal: when true, a failed notification send turns the request
	// into a 500 even though the referral row was already inserted. The row is
	// never rolled back in either mode.
	MailFailureFatal bool
}

// ==========================
// Create Referral (referrer taken from the verified token, never the body)
// ==========================
func (h *ReferralHandler) Create(w http.ResponseWriter, r *http.Request) {
	referrerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		JSONError(w, "missing authorization", http.StatusUnauthorized)
		return
	}

	var input struct {
		RefereeName  string `json:"refereeName"`
		RefereeEmail string `json:"refereeEmail"`
		Message      string `json:"message"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, ErrMessageMissingFields, http.StatusBadRequest)
		return
	}

	if input.RefereeName == "" || input.RefereeEmail == "" {
		JSONError(w, ErrMessageMissingFields, http.StatusBadRequest)
		return
	}

	referral, err := h.Referrals.Create(r.Context(), referrerID, input.RefereeName, input.RefereeEmail, input.Message)
	if err != nil {
		slog.Error("referral: create failed", "error", err, "referrer_id", referrerID)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}
	metrics.IncReferralsCreated()

	if err := h.notifyReferee(r, input.RefereeEmail, input.RefereeName, input.Message); err != nil {
		if h.MailFailureFatal {
			JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
			return
		}
		// Best-effort mode: the referral stands, the client still gets a 201.
	}

	JSONResponse(w, map[string]interface{}{
		"message":  "Referral created successfully",
		"referral": referral,
	}, http.StatusCreated)
}

func (h *ReferralHandler) notifyReferee(r *http.Request, to, refereeName, message string) error {
	if h.Mailer == nil {
		metrics.IncReferralEmails("disabled")
		return nil
	}

	err := h.Mailer.Send(r.Context(), to, mail.ReferralSubject, mail.ReferralBody(refereeName, message))
	if err != nil {
		slog.Error("referral: notification send failed", "error", err, "to", to)
		metrics.IncReferralEmails("error")
		return err
	}
	metrics.IncReferralEmails("sent")
	return nil
}

// ==========================
// List Referrals (authenticated user's own)
// ==========================
func (h *ReferralHandler) List(w http.ResponseWriter, r *http.Request) {
	referrerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		JSONError(w, "missing authorization", http.StatusUnauthorized)
		return
	}

	referrals, err := h.Referrals.ListByReferrer(r.Context(), referrerID)
	if err != nil {
		slog.Error("referral: list failed", "error", err, "referrer_id", referrerID)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}
	if referrals == nil {
		referrals = []models.Referral{}
	}

	JSONResponse(w, map[string]interface{}{
		"referrals": referrals,
	}, http.StatusOK)
}
