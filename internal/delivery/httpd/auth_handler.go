package httpd

import (
	"net/http"
	"time"

	"github.com/TechzoneAdademy/TechzoneAcademyFrontDeskRender/internal/models"
)

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validator.Check(&req); err != nil {
		h.handleServiceError(w, err, "log in")
		return
	}

	resp, err := h.svc.Auth.Login(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err, "log in")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    resp.Token,
		Path:     "/",
		Expires:  time.Now().Add(h.cookie.TTL),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})

	writeSuccess(w, resp)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	writeMessage(w, "Logged out successfully")
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, sessionOf(r))
}

func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.svc.Dashboard.Dashboard(r.Context(), sessionOf(r))
	if err != nil {
		h.handleServiceError(w, err, "load dashboard")
		return
	}
	writeSuccess(w, d)
}
