package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/healthday/events-api/internal/core/domain"
	"github.com/healthday/events-api/internal/core/ports"
)

// UserHandler handles profile self-service and admin user management.
type UserHandler struct {
	userService ports.UserService
}

func NewUserHandler(userService ports.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Profile returns the caller's own account.
//
// @Summary      Get own profile
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dataResponse
// @Router       /api/users/profile [get]
func (h *UserHandler) Profile(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	user, err := h.userService.Profile(c.Request().Context(), identity.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dataResponse{Success: true, Data: user})
}

// UpdateProfile applies the caller's profile changes. Absent fields are left
// untouched.
//
// @Summary      Update own profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateProfileRequest  true  "Profile fields to update"
// @Success      200   {object}  dataResponse
// @Failure      400   {object}  map[string]string
// @Router       /api/users/profile [put]
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.userService.UpdateProfile(c.Request().Context(), identity.UserID, toProfileInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dataResponse{Success: true, Data: user})
}

// ChangePassword verifies the current password and replaces it.
//
// @Summary      Change own password
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      changePasswordRequest  true  "Current and new password"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  map[string]string
// @Router       /api/users/change-password [put]
func (h *UserHandler) ChangePassword(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.userService.ChangePassword(c.Request().Context(), identity.UserID, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "Password updated successfully"})
}

// SetProfilePicture stores the caller's profile picture URL.
//
// @Summary      Set own profile picture
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      profilePictureRequest  true  "Picture URL"
// @Success      200   {object}  dataResponse
// @Router       /api/users/profile-picture [post]
func (h *UserHandler) SetProfilePicture(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req profilePictureRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.userService.UpdateProfile(c.Request().Context(), identity.UserID, ports.UpdateProfileInput{
		ProfilePicture: &req.ProfilePicture,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dataResponse{Success: true, Data: user})
}

// List returns a page of all users.
//
// @Summary      List users (admin)
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page number"
// @Param        limit  query     int  false  "Page size"
// @Success      200    {object}  listResponse
// @Failure      403    {object}  map[string]string
// @Router       /api/users [get]
func (h *UserHandler) List(c echo.Context) error {
	page, limit := queryPage(c)

	result, err := h.userService.List(c.Request().Context(), page, limit)
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

// Get returns one user by id.
//
// @Summary      Get a user (admin)
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  dataResponse
// @Failure      404  {object}  map[string]string
// @Router       /api/users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	user, err := h.userService.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dataResponse{Success: true, Data: user})
}

// SetRole changes a user's role.
//
// @Summary      Update a user's role (admin)
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "User id"
// @Param        body  body      updateRoleRequest  true  "New role"
// @Success      200   {object}  dataResponse
// @Failure      404   {object}  map[string]string
// @Router       /api/users/{id}/role [put]
func (h *UserHandler) SetRole(c echo.Context) error {
	var req updateRoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.userService.SetRole(c.Request().Context(), c.Param("id"), req.Role)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dataResponse{Success: true, Data: user})
}

// Delete removes a user account.
//
// @Summary      Delete a user (admin)
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  map[string]string
// @Router       /api/users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	if err := h.userService.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "User deleted successfully"})
}

// toProfileInput maps the HTTP request to the service DTO.
func toProfileInput(req updateProfileRequest) ports.UpdateProfileInput {
	in := ports.UpdateProfileInput{
		Name:         req.Name,
		Organization: req.Organization,
		Position:     req.Position,
		Phone:        req.Phone,
	}
	if req.Address != nil {
		addr := domain.Address{}
		if req.Address.Street != nil {
			addr.Street = *req.Address.Street
		}
		if req.Address.City != nil {
			addr.City = *req.Address.City
		}
		if req.Address.State != nil {
			addr.State = *req.Address.State
		}
		if req.Address.ZipCode != nil {
			addr.ZipCode = *req.Address.ZipCode
		}
		if req.Address.Country != nil {
			addr.Country = *req.Address.Country
		}
		in.Address = &addr
	}
	if req.Preferences != nil {
		// Unspecified flags default to the model defaults.
		prefs := domain.Preferences{Notifications: true, Newsletter: false}
		if req.Preferences.Notifications != nil {
			prefs.Notifications = *req.Preferences.Notifications
		}
		if req.Preferences.Newsletter != nil {
			prefs.Newsletter = *req.Preferences.Newsletter
		}
		in.Preferences = &prefs
	}
	return in
}

// queryPage parses page/limit query parameters with the listing defaults.
func queryPage(c echo.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.QueryParam("page"))
	limit, _ = strconv.Atoi(c.QueryParam("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	return page, limit
}
