package timeslot

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/hospital-api/internal/handler"
	"github.com/jwalitptl/hospital-api/internal/model"
	doctorService "github.com/jwalitptl/hospital-api/internal/service/doctor"
	"github.com/jwalitptl/hospital-api/pkg/httputil"
)

type Handler struct {
	service doctorService.DoctorServicer
}

func NewHandler(service doctorService.DoctorServicer) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	slots := r.Group("/time-slots")
	{
		slots.GET("/", h.ListTimeSlots)
		slots.POST("/", h.CreateTimeSlot)
		slots.GET("/:id/", h.GetTimeSlot)
		slots.PUT("/:id/", h.ReplaceTimeSlot)
		slots.PATCH("/:id/", h.UpdateTimeSlot)
		slots.DELETE("/:id/", h.DeleteTimeSlot)
	}
}

func (h *Handler) CreateTimeSlot(c *gin.Context) {
	var req model.CreateTimeSlotRequest
	if err := handler.Bind(c, &req); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	slot, err := h.service.CreateTimeSlot(c.Request.Context(), req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithCreated(c, slot)
}

func (h *Handler) GetTimeSlot(c *gin.Context) {
	id, err := handler.ParseID(c, "Time slot")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	slot, err := h.service.GetTimeSlot(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, slot)
}

func (h *Handler) ReplaceTimeSlot(c *gin.Context) {
	id, err := handler.ParseID(c, "Time slot")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	var req model.CreateTimeSlotRequest
	if err := handler.Bind(c, &req); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	h.update(c, id, req.ToUpdate())
}

func (h *Handler) UpdateTimeSlot(c *gin.Context) {
	id, err := handler.ParseID(c, "Time slot")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	var req model.UpdateTimeSlotRequest
	if err := handler.Bind(c, &req); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	h.update(c, id, req)
}

func (h *Handler) update(c *gin.Context, id int64, req model.UpdateTimeSlotRequest) {
	slot, err := h.service.UpdateTimeSlot(c.Request.Context(), id, req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, slot)
}

func (h *Handler) DeleteTimeSlot(c *gin.Context) {
	id, err := handler.ParseID(c, "Time slot")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	if err := h.service.DeleteTimeSlot(c.Request.Context(), id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithNoContent(c)
}

func (h *Handler) ListTimeSlots(c *gin.Context) {
	doctorID, err := handler.ParseOptionalID(c, "doctor_id")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	page, err := handler.Page(c)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	slots, total, err := h.service.ListTimeSlots(c.Request.Context(), model.TimeSlotFilter{DoctorID: doctorID}, page)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	handler.RespondWithPage(c, slots, page, total)
}
