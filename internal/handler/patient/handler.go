package patient

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/hospital-api/internal/handler"
	"github.com/jwalitptl/hospital-api/internal/model"
	patientService "github.com/jwalitptl/hospital-api/internal/service/patient"
	"github.com/jwalitptl/hospital-api/pkg/httputil"
)

type Handler struct {
	service patientService.PatientServicer
}

func NewHandler(service patientService.PatientServicer) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	patients := r.Group("/patients")
	{
		patients.GET("/", h.ListPatients)
		patients.POST("/", h.CreatePatient)
		patients.GET("/by_email/", h.GetPatientByEmail)
		patients.GET("/:id/", h.GetPatient)
		patients.PUT("/:id/", h.ReplacePatient)
		patients.PATCH("/:id/", h.UpdatePatient)
		patients.DELETE("/:id/", h.DeletePatient)
	}
}

func (h *Handler) CreatePatient(c *gin.Context) {
	var req model.CreatePatientRequest
	if err := handler.Bind(c, &req); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	patient, err := h.service.CreatePatient(c.Request.Context(), req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithCreated(c, patient)
}

func (h *Handler) GetPatient(c *gin.Context) {
	id, err := handler.ParseID(c, "Patient")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	patient, err := h.service.GetPatient(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, patient)
}

func (h *Handler) GetPatientByEmail(c *gin.Context) {
	patient, err := h.service.GetPatientByEmail(c.Request.Context(), c.Query("email"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, patient)
}

func (h *Handler) ReplacePatient(c *gin.Context) {
	id, err := handler.ParseID(c, "Patient")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	var req model.CreatePatientRequest
	if err := handler.Bind(c, &req); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	h.update(c, id, req.ToUpdate())
}

func (h *Handler) UpdatePatient(c *gin.Context) {
	id, err := handler.ParseID(c, "Patient")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	var req model.UpdatePatientRequest
	if err := handler.Bind(c, &req); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	h.update(c, id, req)
}

func (h *Handler) update(c *gin.Context, id int64, req model.UpdatePatientRequest) {
	patient, err := h.service.UpdatePatient(c.Request.Context(), id, req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, patient)
}

func (h *Handler) DeletePatient(c *gin.Context) {
	id, err := handler.ParseID(c, "Patient")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	if err := h.service.DeletePatient(c.Request.Context(), id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithNoContent(c)
}

func (h *Handler) ListPatients(c *gin.Context) {
	page, err := handler.Page(c)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	patients, total, err := h.service.ListPatients(c.Request.Context(), model.PatientFilter{Search: c.Query("search")}, page)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	handler.RespondWithPage(c, patients, page, total)
}
