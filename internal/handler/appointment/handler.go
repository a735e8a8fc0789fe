package appointment

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/hospital-api/internal/handler"
	"github.com/jwalitptl/hospital-api/internal/model"
	appointmentService "github.com/jwalitptl/hospital-api/internal/service/appointment"
	"github.com/jwalitptl/hospital-api/pkg/httputil"
)

type Handler struct {
	service appointmentService.AppointmentServicer
}

func NewHandler(service appointmentService.AppointmentServicer) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	appointments := r.Group("/appointments")
	{
		appointments.GET("/", h.ListAppointments)
		appointments.POST("/", h.BookAppointment)
		appointments.GET("/:id/", h.GetAppointment)
		appointments.PUT("/:id/", h.ReplaceAppointment)
		appointments.PATCH("/:id/", h.UpdateAppointment)
		appointments.DELETE("/:id/", h.DeleteAppointment)
		appointments.POST("/:id/confirm/", h.ConfirmAppointment)
		appointments.POST("/:id/cancel/", h.CancelAppointment)
		appointments.POST("/:id/complete/", h.CompleteAppointment)
	}
}

func (h *Handler) BookAppointment(c *gin.Context) {
	var req model.BookAppointmentRequest
	if err := handler.Bind(c, &req); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	appointment, err := h.service.BookAppointment(c.Request.Context(), req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithCreated(c, appointment)
}

func (h *Handler) GetAppointment(c *gin.Context) {
	id, err := handler.ParseID(c, "Appointment")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	appointment, err := h.service.GetAppointment(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, appointment)
}

func (h *Handler) ReplaceAppointment(c *gin.Context) {
	id, err := handler.ParseID(c, "Appointment")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	var req model.ReplaceAppointmentRequest
	if err := handler.Bind(c, &req); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	h.update(c, id, req.ToUpdate())
}

func (h *Handler) UpdateAppointment(c *gin.Context) {
	id, err := handler.ParseID(c, "Appointment")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	var req model.UpdateAppointmentRequest
	if err := handler.Bind(c, &req); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	h.update(c, id, req)
}

func (h *Handler) update(c *gin.Context, id int64, req model.UpdateAppointmentRequest) {
	appointment, err := h.service.UpdateAppointment(c.Request.Context(), id, req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, appointment)
}

func (h *Handler) DeleteAppointment(c *gin.Context) {
	id, err := handler.ParseID(c, "Appointment")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	if err := h.service.DeleteAppointment(c.Request.Context(), id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithNoContent(c)
}

func (h *Handler) ListAppointments(c *gin.Context) {
	filter, err := appointmentService.ParseFilter(c.Query("patient_id"), c.Query("doctor_id"), c.Query("status"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	page, err := handler.Page(c)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	appointments, total, err := h.service.ListAppointments(c.Request.Context(), filter, page)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	handler.RespondWithPage(c, appointments, page, total)
}

func (h *Handler) ConfirmAppointment(c *gin.Context) {
	id, err := handler.ParseID(c, "Appointment")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	appointment, err := h.service.ConfirmAppointment(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, appointment)
}

func (h *Handler) CancelAppointment(c *gin.Context) {
	id, err := handler.ParseID(c, "Appointment")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	appointment, err := h.service.CancelAppointment(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, appointment)
}

// CompleteAppointment accepts optional notes and prescription; missing
// values clear the stored ones.
func (h *Handler) CompleteAppointment(c *gin.Context) {
	id, err := handler.ParseID(c, "Appointment")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	var req model.CompleteAppointmentRequest
	if err := handler.Bind(c, &req); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	appointment, err := h.service.CompleteAppointment(c.Request.Context(), id, req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, appointment)
}
