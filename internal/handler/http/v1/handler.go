package v1

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shenikar/accident_dispatch_system/internal/config"
	"github.com/shenikar/accident_dispatch_system/internal/models"
	"github.com/shenikar/accident_dispatch_system/internal/service"
	"github.com/sirupsen/logrus"
)

// LinkVerifier проверяет подпись ссылки принятия
type LinkVerifier interface {
	Verify(incidentID uuid.UUID, responderID int64, signature string) bool
}

type Handler struct {
	dispatchService service.DispatchService
	links           LinkVerifier
	logger          *logrus.Logger
	validate        *validator.Validate
	cfg             *config.Config
}

func NewHandler(dispatchService service.DispatchService, links LinkVerifier, logger *logrus.Logger, cfg *config.Config) *Handler {
	return &Handler{
		dispatchService: dispatchService,
		links:           links,
		logger:          logger,
		validate:        validator.New(),
		cfg:             cfg,
	}
}

// @Summary Report an accident
// @Description Register an accident, alert the nearest hospitals and the oversight address.
// @Tags Accidents
// @Accept json
// @Produce json
// @Param accident body ReportAccidentRequest true "Accident location"
// @Success 200 {object} ReportAccidentResponse
// @Failure 400 {object} map[string]string "Missing location data or validation error"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /report-accident [post]
func (h *Handler) reportAccident(c *gin.Context) {
	incident, ok := h.report(c, "reportAccident")
	if !ok {
		return
	}
	c.JSON(http.StatusOK, ReportAccidentResponse{
		Status:     "success",
		Message:    "Accident reported and alerts sent.",
		AccidentID: incident.ID,
	})
}

// @Summary Create a new incident
// @Description Register an accident through the API. Requires API key.
// @Tags Incidents
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param incident body ReportAccidentRequest true "Accident location"
// @Success 201 {object} IncidentResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /api/v1/incidents [post]
func (h *Handler) createIncident(c *gin.Context) {
	incident, ok := h.report(c, "createIncident")
	if !ok {
		return
	}
	c.JSON(http.StatusCreated, ModelToIncidentResponse(incident))
}

func (h *Handler) report(c *gin.Context, method string) (*models.Incident, bool) {
	var input ReportAccidentRequest
	log := h.logger.WithField("method", method)

	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return nil, false
	}

	if input.Latitude == nil || input.Longitude == nil {
		log.Warn("Location data missing")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing location data"})
		return nil, false
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}

	incident, err := h.dispatchService.ReportIncident(c.Request.Context(), *input.Latitude, *input.Longitude)
	if err != nil {
		if errors.Is(err, models.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return nil, false
		}
		log.WithError(err).Error("Failed to report incident in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return nil, false
	}
	return incident, true
}

// acceptTarget разбирает происшествие и больницу из ссылки и проверяет подпись
func (h *Handler) acceptTarget(c *gin.Context, log *logrus.Entry) (uuid.UUID, int64, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.renderResult(c, http.StatusNotFound, pageView{Title: "Not Found", Message: "⚠️ Accident not found.", Class: "warning"})
		return uuid.Nil, 0, false
	}

	hospitalID, err := strconv.ParseInt(c.Query("hospital_id"), 10, 64)
	if err != nil {
		h.renderResult(c, http.StatusBadRequest, pageView{Title: "Invalid Link", Message: "Invalid link (missing hospital ID)", Class: "warning"})
		return uuid.Nil, 0, false
	}

	if !h.links.Verify(id, hospitalID, c.Query("sig")) {
		log.WithField("incident_id", id).WithField("responder_id", hospitalID).Warn("Accept link signature mismatch")
		h.renderResult(c, http.StatusForbidden, pageView{Title: "Invalid Link", Message: "⚠️ This link is not valid for your hospital.", Class: "warning"})
		return uuid.Nil, 0, false
	}
	return id, hospitalID, true
}

// @Summary Accept form
// @Description Show the Accept / Reject form for a dispatched hospital.
// @Tags Accidents
// @Produce html
// @Param id path string true "Accident ID"
// @Param hospital_id query int true "Hospital ID"
// @Param sig query string false "Link signature"
// @Success 200 {string} string "HTML form"
// @Failure 400 {string} string "Invalid link"
// @Failure 403 {string} string "Invalid signature"
// @Failure 404 {string} string "Accident not found"
// @Router /accept/{id} [get]
func (h *Handler) acceptForm(c *gin.Context) {
	log := h.logger.WithField("method", "acceptForm")
	id, hospitalID, ok := h.acceptTarget(c, log)
	if !ok {
		return
	}

	details, err := h.dispatchService.GetIncident(c.Request.Context(), id)
	if err != nil {
		h.renderError(c, log, err)
		return
	}

	hospital := fmt.Sprintf("Hospital ID %d", hospitalID)
	if responder, err := h.dispatchService.GetResponder(c.Request.Context(), hospitalID); err == nil {
		hospital = responder.Name
	}

	c.Render(http.StatusOK, render.HTML{
		Template: pages,
		Name:     "accept.html",
		Data: acceptFormView{
			Hospital:  hospital,
			Latitude:  details.Incident.Latitude,
			Longitude: details.Incident.Longitude,
			Time:      details.Incident.CreatedAt.Format(timeLayout),
			Resolved:  details.Incident.IsResolved(),
		},
	})
}

// @Summary Respond to an accident
// @Description Accept or reject an accident. The first hospital to accept wins.
// @Tags Accidents
// @Accept x-www-form-urlencoded
// @Produce html
// @Param id path string true "Accident ID"
// @Param hospital_id query int true "Hospital ID"
// @Param sig query string false "Link signature"
// @Param action formData string true "Accept or Reject"
// @Success 200 {string} string "Confirmation page"
// @Failure 400 {string} string "Invalid action or link"
// @Failure 403 {string} string "Hospital not dispatched or invalid signature"
// @Failure 404 {string} string "Accident not found"
// @Failure 409 {string} string "Already accepted by another hospital"
// @Router /accept/{id} [post]
func (h *Handler) acceptResponse(c *gin.Context) {
	log := h.logger.WithField("method", "acceptResponse")
	id, hospitalID, ok := h.acceptTarget(c, log)
	if !ok {
		return
	}

	var form AcceptForm
	if err := c.ShouldBind(&form); err != nil || h.validate.Struct(form) != nil {
		h.renderResult(c, http.StatusBadRequest, pageView{Title: "Invalid Action", Message: "⚠️ Invalid action submitted.", Class: "warning"})
		return
	}

	if form.Action == "Reject" {
		responder, err := h.dispatchService.RecordRejection(c.Request.Context(), id, hospitalID)
		if err != nil {
			h.renderError(c, log, err)
			return
		}
		h.renderResult(c, http.StatusOK, pageView{Title: "Case Rejected", Message: "❌", Strong: responder.Name, Suffix: " has rejected the case.", Class: "failure"})
		return
	}

	responder, err := h.dispatchService.TryAccept(c.Request.Context(), id, hospitalID)
	if err != nil {
		h.renderError(c, log, err)
		return
	}
	h.renderResult(c, http.StatusOK, pageView{Title: "Case Accepted", Message: "✅ Thank you.", Strong: responder.Name, Suffix: " has accepted the case.", Class: "success"})
}

// @Summary Dashboard
// @Description HTML table of recent accidents with their dispatch status.
// @Tags Accidents
// @Produce html
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Number of items per page" default(20)
// @Success 200 {string} string "HTML dashboard"
// @Failure 500 {string} string "Internal server error"
// @Router /dashboard [get]
func (h *Handler) dashboard(c *gin.Context) {
	log := h.logger.WithField("method", "dashboard")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))

	summaries, err := h.dispatchService.Dashboard(c.Request.Context(), page, pageSize)
	if err != nil {
		h.renderError(c, log, err)
		return
	}

	c.Render(http.StatusOK, render.HTML{
		Template: pages,
		Name:     "dashboard.html",
		Data:     summariesToDashboardRows(summaries),
	})
}

// @Summary Get a list of incidents
// @Description Get a paginated list of incidents with their dispatch status. Requires API key.
// @Tags Incidents
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Number of items per page" default(20)
// @Success 200 {array} IncidentSummaryResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /api/v1/incidents [get]
func (h *Handler) listIncidents(c *gin.Context) {
	log := h.logger.WithField("method", "listIncidents")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))

	summaries, err := h.dispatchService.Dashboard(c.Request.Context(), page, pageSize)
	if err != nil {
		log.WithError(err).Error("Failed to list incidents from service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, SummariesToResponses(summaries))
}

// @Summary Get incident by ID
// @Description Get an incident with its dispatch records. Requires API key.
// @Tags Incidents
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Incident ID"
// @Success 200 {object} IncidentDetailsResponse
// @Failure 400 {object} map[string]string "Invalid incident ID"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Incident not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /api/v1/incidents/{id} [get]
func (h *Handler) getIncident(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid incident ID"})
		return
	}
	log := h.logger.WithField("method", "getIncident").WithField("id", id)

	details, err := h.dispatchService.GetIncident(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrIncidentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "incident not found"})
			return
		}
		log.WithError(err).Error("Failed to get incident from service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, DetailsToResponse(details))
}

// @Summary Get application health status
// @Description Get health status of the application
// @Tags System
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string "Status OK"
// @Router /api/v1/system/health [get]
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) root(c *gin.Context) {
	c.String(http.StatusOK, "🚑 Accident Alert Backend is Running!")
}

// renderError переводит доменную ошибку в HTML-страницу с нужным статусом
func (h *Handler) renderError(c *gin.Context, log *logrus.Entry, err error) {
	var resolved *models.AlreadyResolvedError
	switch {
	case errors.As(err, &resolved):
		winner := resolved.WinnerName
		if winner == "" {
			winner = "another hospital"
		}
		h.renderResult(c, http.StatusConflict, pageView{Title: "Already Accepted", Message: "❌ This case has already been accepted by", Strong: winner, Suffix: ".", Class: "failure"})
	case errors.Is(err, models.ErrIncidentNotFound):
		h.renderResult(c, http.StatusNotFound, pageView{Title: "Not Found", Message: "⚠️ Accident not found.", Class: "warning"})
	case errors.Is(err, models.ErrNotEligible):
		h.renderResult(c, http.StatusForbidden, pageView{Title: "Not Eligible", Message: "⚠️ Your hospital cannot respond to this case.", Class: "warning"})
	default:
		log.WithError(err).Error("Request failed in service")
		h.renderResult(c, http.StatusInternalServerError, pageView{Title: "Error", Message: "⚠️ Something went wrong. Please try again.", Class: "warning"})
	}
}

func (h *Handler) renderResult(c *gin.Context, status int, view pageView) {
	c.Render(status, render.HTML{Template: pages, Name: "result.html", Data: view})
}
