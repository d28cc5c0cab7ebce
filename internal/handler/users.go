package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/opsgate/opsgate/internal/domain"
	"github.com/opsgate/opsgate/internal/errors"
	"github.com/opsgate/opsgate/internal/middleware"
	"github.com/opsgate/opsgate/internal/utils"
)

type setAdminBody struct {
	// pointer so an explicit false passes required validation
	Admin *bool `validate:"required" json:"admin"`
}

func (h *Handler) Users(w http.ResponseWriter, r *http.Request) {
	users, err := h.auth.Users()
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, users)
}

func (h *Handler) SetUserAdmin(w http.ResponseWriter, r *http.Request) {
	targetId, err := userIdParam(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	var body setAdminBody
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	acting := middleware.GetUserFromContext(r)
	if acting == nil {
		http.Error(w, "Please sign-in", http.StatusUnauthorized)
		return
	}

	if err := h.auth.SetAdmin(acting.Id, targetId, *body.Admin); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	targetId, err := userIdParam(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := h.auth.DeleteUser(targetId); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func userIdParam(r *http.Request) (domain.UserId, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, &errors.ErrorWithStatusCode{Message: "Invalid user id", StatusCode: http.StatusBadRequest}
	}
	return id, nil
}
