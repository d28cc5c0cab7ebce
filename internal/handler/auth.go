package handler

import (
	"net/http"

	"github.com/opsgate/opsgate/internal/errors"
	"github.com/opsgate/opsgate/internal/middleware"
	"github.com/opsgate/opsgate/internal/utils"
)

type requestLinkBody struct {
	Email string `validate:"required" json:"email"`
}

type verifyBody struct {
	Email string `validate:"required" json:"email"`
	Token string `validate:"required" json:"token"`
}

const genericLinkResponse = "If the address is eligible, a sign-in link has been sent"

// RequestLink emails a magic link. A denied email gets the same 200
// response as an allowed one so whitelist membership cannot be probed.
func (h *Handler) RequestLink(w http.ResponseWriter, r *http.Request) {
	var body requestLinkBody
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := h.auth.RequestLink(body.Email); err != nil {
		if e, ok := err.(*errors.ErrorWithStatusCode); ok && e.StatusCode == http.StatusForbidden {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(genericLinkResponse))
			return
		}
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(genericLinkResponse))
}

// Verify exchanges a magic-link token for a session cookie. The user
// account is created on the first successful verification.
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	var body verifyBody
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	accessToken, user, err := h.auth.Verify(body.Email, body.Token)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	cookie := &http.Cookie{
		Path:     "/",
		Name:     "accessToken",
		Value:    accessToken,
		MaxAge:   int(h.cfg.JwtTTL().Seconds()),
		HttpOnly: true,
		Secure:   h.cfg.Public.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	}
	http.SetCookie(w, cookie)

	utils.WriteJSON(w, user)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	cookie := &http.Cookie{
		Path:     "/",
		Name:     "accessToken",
		Value:    "",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cfg.Public.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	}
	http.SetCookie(w, cookie)

	w.WriteHeader(http.StatusOK)
}

// Me returns the session's user claims.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r)
	if user == nil {
		http.Error(w, "Please sign-in", http.StatusUnauthorized)
		return
	}
	utils.WriteJSON(w, user)
}
