package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/healthday/events-api/internal/core/domain"
	"github.com/healthday/events-api/internal/core/ports"
)

// RegistrationHandler handles event registrations, cancellation and feedback.
type RegistrationHandler struct {
	registrationService ports.RegistrationService
}

func NewRegistrationHandler(registrationService ports.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{registrationService: registrationService}
}

// Create registers the caller for an event.
//
// @Summary      Register for an event
// @Tags         registrations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createRegistrationRequest  true  "Registration details"
// @Success      201   {object}  dataResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/registrations [post]
func (h *RegistrationHandler) Create(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req createRegistrationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	registration, err := h.registrationService.Register(c.Request().Context(), identity, ports.CreateRegistrationInput{
		EventID:             req.EventID,
		DietaryRestrictions: req.DietaryRestrictions,
		SpecialRequirements: req.SpecialRequirements,
		EmergencyContact:    domain.EmergencyContact(req.EmergencyContact),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, dataResponse{Success: true, Data: registration})
}

// Mine lists the caller's registrations, newest first.
//
// @Summary      List own registrations
// @Tags         registrations
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listResponse
// @Router       /api/registrations/my-registrations [get]
func (h *RegistrationHandler) Mine(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	registrations, err := h.registrationService.ListMine(c.Request().Context(), identity.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listResponse{Success: true, Count: len(registrations), Data: registrations})
}

// Get returns one registration, for its owner or an admin.
//
// @Summary      Get a registration
// @Tags         registrations
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Registration id"
// @Success      200  {object}  dataResponse
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/registrations/{id} [get]
func (h *RegistrationHandler) Get(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	registration, err := h.registrationService.Get(c.Request().Context(), identity, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dataResponse{Success: true, Data: registration})
}

// Cancel cancels a registration and frees its seat.
//
// @Summary      Cancel a registration
// @Tags         registrations
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Registration id"
// @Success      200  {object}  dataResponse
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /api/registrations/{id}/cancel [put]
func (h *RegistrationHandler) Cancel(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	registration, err := h.registrationService.Cancel(c.Request().Context(), identity, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "Registration cancelled successfully", Data: registration})
}

// Feedback records the caller's one-time feedback on a registration.
//
// @Summary      Submit feedback
// @Tags         registrations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string           true  "Registration id"
// @Param        body  body      feedbackRequest  true  "Rating and comment"
// @Success      200   {object}  dataResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/registrations/{id}/feedback [post]
func (h *RegistrationHandler) Feedback(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req feedbackRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	registration, err := h.registrationService.SubmitFeedback(c.Request().Context(), identity, c.Param("id"), req.Rating, req.Comment)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dataResponse{Success: true, Data: registration})
}

// ForEvent lists all registrations for an event, for its organizer or an admin.
//
// @Summary      List an event's registrations
// @Tags         registrations
// @Produce      json
// @Security     BearerAuth
// @Param        eventId  path      string  true  "Event id"
// @Success      200      {object}  listResponse
// @Failure      403      {object}  map[string]string
// @Failure      404      {object}  map[string]string
// @Router       /api/registrations/event/{eventId} [get]
func (h *RegistrationHandler) ForEvent(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	registrations, err := h.registrationService.ListForEvent(c.Request().Context(), identity, c.Param("eventId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listResponse{Success: true, Count: len(registrations), Data: registrations})
}
