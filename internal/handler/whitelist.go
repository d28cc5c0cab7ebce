package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/opsgate/opsgate/internal/logger"
	"github.com/opsgate/opsgate/internal/middleware"
	"github.com/opsgate/opsgate/internal/utils"
)

type addWhitelistBody struct {
	Email string  `validate:"required" json:"email"`
	Notes *string `json:"notes"`
}

type updateNotesBody struct {
	// null clears the notes
	Notes *string `json:"notes"`
}

func (h *Handler) WhitelistEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := h.whitelist.List()
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, entries)
}

func (h *Handler) AddWhitelistEntry(w http.ResponseWriter, r *http.Request) {
	var body addWhitelistBody
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	acting := middleware.GetUserFromContext(r)
	if acting == nil {
		http.Error(w, "Please sign-in", http.StatusUnauthorized)
		return
	}

	entry, err := h.whitelist.Add(body.Email, body.Notes, acting.Id)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(entry); err != nil {
		logger.Log.Error("failed to encode whitelist entry", "error", err)
	}
}

func (h *Handler) DeleteWhitelistEntry(w http.ResponseWriter, r *http.Request) {
	if err := h.whitelist.Delete(chi.URLParam(r, "id")); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) UpdateWhitelistNotes(w http.ResponseWriter, r *http.Request) {
	var body updateNotesBody
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := h.whitelist.UpdateNotes(chi.URLParam(r, "id"), body.Notes); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}
