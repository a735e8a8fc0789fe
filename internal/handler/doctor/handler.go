package doctor

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/hospital-api/internal/handler"
	"github.com/jwalitptl/hospital-api/internal/model"
	doctorService "github.com/jwalitptl/hospital-api/internal/service/doctor"
	apperrors "github.com/jwalitptl/hospital-api/pkg/errors"
	"github.com/jwalitptl/hospital-api/pkg/httputil"
)

type Handler struct {
	service doctorService.DoctorServicer
}

func NewHandler(service doctorService.DoctorServicer) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	doctors := r.Group("/doctors")
	{
		doctors.GET("/", h.ListDoctors)
		doctors.POST("/", h.CreateDoctor)
		doctors.GET("/available/", h.ListAvailableDoctors)
		doctors.GET("/:id/", h.GetDoctor)
		doctors.PUT("/:id/", h.ReplaceDoctor)
		doctors.PATCH("/:id/", h.UpdateDoctor)
		doctors.DELETE("/:id/", h.DeleteDoctor)
		doctors.GET("/:id/available_slots/", h.AvailableSlots)
	}
}

func (h *Handler) CreateDoctor(c *gin.Context) {
	var req model.CreateDoctorRequest
	if err := handler.Bind(c, &req); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	doctor, err := h.service.CreateDoctor(c.Request.Context(), req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithCreated(c, doctor)
}

func (h *Handler) GetDoctor(c *gin.Context) {
	id, err := handler.ParseID(c, "Doctor")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	doctor, err := h.service.GetDoctor(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, doctor)
}

func (h *Handler) ReplaceDoctor(c *gin.Context) {
	id, err := handler.ParseID(c, "Doctor")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	var req model.CreateDoctorRequest
	if err := handler.Bind(c, &req); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	h.update(c, id, req.ToUpdate())
}

func (h *Handler) UpdateDoctor(c *gin.Context) {
	id, err := handler.ParseID(c, "Doctor")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	var req model.UpdateDoctorRequest
	if err := handler.Bind(c, &req); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	h.update(c, id, req)
}

func (h *Handler) update(c *gin.Context, id int64, req model.UpdateDoctorRequest) {
	doctor, err := h.service.UpdateDoctor(c.Request.Context(), id, req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, doctor)
}

func (h *Handler) DeleteDoctor(c *gin.Context) {
	id, err := handler.ParseID(c, "Doctor")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	if err := h.service.DeleteDoctor(c.Request.Context(), id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithNoContent(c)
}

func (h *Handler) ListDoctors(c *gin.Context) {
	filter, err := parseFilter(c)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	page, err := handler.Page(c)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	doctors, total, err := h.service.ListDoctors(c.Request.Context(), filter, page)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	handler.RespondWithPage(c, doctors, page, total)
}

// ListAvailableDoctors returns every available doctor, unpaginated.
func (h *Handler) ListAvailableDoctors(c *gin.Context) {
	doctors, err := h.service.ListAvailableDoctors(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, doctors)
}

func (h *Handler) AvailableSlots(c *gin.Context) {
	id, err := handler.ParseID(c, "Doctor")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	slots, err := h.service.AvailableSlots(c.Request.Context(), id, c.Query("date"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, slots)
}

func parseFilter(c *gin.Context) (model.DoctorFilter, error) {
	filter := model.DoctorFilter{Search: c.Query("search")}

	if raw := c.Query("specialty"); raw != "" {
		specialty := model.Specialty(raw)
		if !specialty.Valid() {
			return filter, apperrors.Validation("specialty",
				fmt.Sprintf("Select a valid choice. %s is not one of the available choices.", raw))
		}
		filter.Specialty = &specialty
	}

	available, err := handler.ParseOptionalBool(c, "is_available")
	if err != nil {
		return filter, err
	}
	filter.IsAvailable = available

	return filter, nil
}
