package httpd

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/TechzoneAdademy/TechzoneAcademyFrontDeskRender/internal/models"
)

func (h *Handler) ListAdmins(w http.ResponseWriter, r *http.Request) {
	admins, err := h.svc.Credentials.ListAdmins(r.Context())
	if err != nil {
		h.handleServiceError(w, err, "list admins")
		return
	}
	writeSuccess(w, admins)
}

func (h *Handler) AddAdmin(w http.ResponseWriter, r *http.Request) {
	var req models.AdminRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	admin, err := h.svc.Credentials.AddAdmin(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err, "add admin")
		return
	}
	writeCreated(w, admin)
}

func (h *Handler) UpdateAdmin(w http.ResponseWriter, r *http.Request) {
	var req models.AdminRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	admin, err := h.svc.Credentials.UpdateAdmin(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		h.handleServiceError(w, err, "update admin")
		return
	}
	writeSuccess(w, admin)
}

func (h *Handler) DeleteAdmin(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Credentials.DeleteAdmin(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.handleServiceError(w, err, "delete admin")
		return
	}
	writeMessage(w, "Admin deleted successfully!")
}

func (h *Handler) AddCourseRecord(w http.ResponseWriter, r *http.Request) {
	var req models.CourseRecordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validator.Check(&req); err != nil {
		h.handleServiceError(w, err, "add course record")
		return
	}

	rec, err := h.svc.Courses.AddRecord(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err, "add course record")
		return
	}
	writeCreated(w, rec)
}

func (h *Handler) ListCourseRecords(w http.ResponseWriter, r *http.Request) {
	records, err := h.svc.Courses.ListRecords(r.Context())
	if err != nil {
		h.handleServiceError(w, err, "list course records")
		return
	}
	writeSuccess(w, records)
}

func (h *Handler) UpdateCourseRecord(w http.ResponseWriter, r *http.Request) {
	var req models.CourseRecordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validator.Check(&req); err != nil {
		h.handleServiceError(w, err, "update course record")
		return
	}

	rec, err := h.svc.Courses.UpdateRecord(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		h.handleServiceError(w, err, "update course record")
		return
	}
	writeSuccess(w, rec)
}

func (h *Handler) DeleteCourseRecord(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Courses.DeleteRecord(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.handleServiceError(w, err, "delete course record")
		return
	}
	writeMessage(w, "Course record deleted successfully!")
}
