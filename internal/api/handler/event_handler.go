package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/healthday/events-api/internal/core/domain"
	"github.com/healthday/events-api/internal/core/ports"
)

// EventHandler handles event CRUD and the public listing surface.
type EventHandler struct {
	eventService ports.EventService
}

func NewEventHandler(eventService ports.EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

// List returns a page of active events, soonest first.
//
// @Summary      List active events
// @Tags         events
// @Produce      json
// @Param        page   query     int  false  "Page number"
// @Param        limit  query     int  false  "Page size"
// @Success      200    {object}  listResponse
// @Router       /api/events [get]
func (h *EventHandler) List(c echo.Context) error {
	page, limit := queryPage(c)

	result, err := h.eventService.List(c.Request().Context(), page, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listResponse{
		Success:    true,
		Count:      len(result.Items),
		Total:      result.Total,
		Pagination: paginate(result.Page, result.Limit, result.Total),
		Data:       result.Items,
	})
}

// Get returns one event by id.
//
// @Summary      Get an event
// @Tags         events
// @Produce      json
// @Param        id   path      string  true  "Event id"
// @Success      200  {object}  dataResponse
// @Failure      404  {object}  map[string]string
// @Router       /api/events/{id} [get]
func (h *EventHandler) Get(c echo.Context) error {
	event, err := h.eventService.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dataResponse{Success: true, Data: event})
}

// Create creates a new event with the caller as organizer.
//
// @Summary      Create an event
// @Tags         events
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createEventRequest  true  "Event details"
// @Success      201   {object}  dataResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /api/events [post]
func (h *EventHandler) Create(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req createEventRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	event, err := h.eventService.Create(c.Request().Context(), identity, toCreateEventInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, dataResponse{Success: true, Data: event})
}

// Update applies partial changes to an event.
//
// @Summary      Update an event
// @Tags         events
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string              true  "Event id"
// @Param        body  body      updateEventRequest  true  "Fields to update"
// @Success      200   {object}  dataResponse
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/events/{id} [put]
func (h *EventHandler) Update(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req updateEventRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	event, err := h.eventService.Update(c.Request().Context(), identity, c.Param("id"), toUpdateEventInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dataResponse{Success: true, Data: event})
}

// Delete deactivates an event.
//
// @Summary      Delete an event
// @Tags         events
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Event id"
// @Success      200  {object}  messageResponse
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/events/{id} [delete]
func (h *EventHandler) Delete(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	if err := h.eventService.Delete(c.Request().Context(), identity, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "Event deleted successfully"})
}

// ByCategory returns active events in a category.
//
// @Summary      List events by category
// @Tags         events
// @Produce      json
// @Param        category  path      string  true  "Category"
// @Success      200       {object}  listResponse
// @Router       /api/events/category/{category} [get]
func (h *EventHandler) ByCategory(c echo.Context) error {
	events, err := h.eventService.ByCategory(c.Request().Context(), c.Param("category"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listResponse{Success: true, Count: len(events), Data: events})
}

// Search returns active events matching the query parameters.
//
// @Summary      Search events
// @Tags         events
// @Produce      json
// @Param        q         query     string  false  "Text query over title, description and tags"
// @Param        category  query     string  false  "Category filter"
// @Param        date      query     string  false  "Date filter (YYYY-MM-DD)"
// @Success      200       {object}  listResponse
// @Router       /api/events/search [get]
func (h *EventHandler) Search(c echo.Context) error {
	input := ports.SearchEventsInput{
		Query:    c.QueryParam("q"),
		Category: c.QueryParam("category"),
	}
	if raw := c.QueryParam("date"); raw != "" {
		date, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "date must be formatted YYYY-MM-DD")
		}
		input.Date = date
	}

	events, err := h.eventService.Search(c.Request().Context(), input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listResponse{Success: true, Count: len(events), Data: events})
}

// toCreateEventInput maps the HTTP request to the service DTO.
func toCreateEventInput(req createEventRequest) ports.CreateEventInput {
	in := ports.CreateEventInput{
		Title:              req.Title,
		Description:        req.Description,
		Date:               req.Date,
		StartTime:          req.StartTime,
		EndTime:            req.EndTime,
		Location:           toLocation(req.Location),
		Category:           req.Category,
		MaxParticipants:    req.MaxParticipants,
		IsVirtual:          req.IsVirtual,
		VirtualMeetingLink: req.VirtualMeetingLink,
		Tags:               req.Tags,
		Image:              req.Image,
		Requirements:       req.Requirements,
		Agenda:             req.Agenda,
	}
	for _, s := range req.Speakers {
		in.Speakers = append(in.Speakers, domain.Speaker(s))
	}
	for _, s := range req.Sponsors {
		in.Sponsors = append(in.Sponsors, domain.Sponsor(s))
	}
	return in
}

func toUpdateEventInput(req updateEventRequest) ports.UpdateEventInput {
	in := ports.UpdateEventInput{
		Title:              req.Title,
		Description:        req.Description,
		Date:               req.Date,
		StartTime:          req.StartTime,
		EndTime:            req.EndTime,
		Category:           req.Category,
		MaxParticipants:    req.MaxParticipants,
		IsActive:           req.IsActive,
		IsVirtual:          req.IsVirtual,
		VirtualMeetingLink: req.VirtualMeetingLink,
		Tags:               req.Tags,
		Image:              req.Image,
		Requirements:       req.Requirements,
		Agenda:             req.Agenda,
	}
	if req.Location != nil {
		loc := toLocation(*req.Location)
		in.Location = &loc
	}
	return in
}

func toLocation(req locationRequest) domain.Location {
	return domain.Location(req)
}
