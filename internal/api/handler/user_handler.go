package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tradeyard/marketplace-api/internal/core/domain"
	"github.com/tradeyard/marketplace-api/internal/core/ports"
)

// UserHandler handles account management and the seller approval endpoints.
type UserHandler struct {
	service ports.AccountService
}

func NewUserHandler(service ports.AccountService) *UserHandler {
	return &UserHandler{service: service}
}

type updateUserRequest struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=6"`
	Role     *string `json:"role,omitempty" validate:"omitempty,oneof=BUYER SELLER ADMIN"`
}

type rejectSellerRequest struct {
	Reason string `json:"reason" validate:"required"`
}

type userDetailResponse struct {
	User           *domain.User `json:"user"`
	OrderCount     int          `json:"order_count"`
	TotalSpend     float64      `json:"total_spend"`
	ProductCount   int64        `json:"product_count"`
	RejectionCount int          `json:"rejection_count"`
}

// Get returns a single account; admin or the account itself.
//
// @Summary      Get a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  domain.User
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /v1/users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	actorID, _, err := ctxActor(c)
	if err != nil {
		return err
	}

	user, err := h.service.GetUser(c.Request().Context(), actorID, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// List returns all accounts; admin only.
//
// @Summary      List all users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.User
// @Failure      403  {object}  map[string]string
// @Router       /v1/users [get]
func (h *UserHandler) List(c echo.Context) error {
	actorID, _, err := ctxActor(c)
	if err != nil {
		return err
	}

	users, err := h.service.GetAllUsers(c.Request().Context(), actorID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

// Details returns the account with per-role activity aggregates.
//
// @Summary      Get a user with activity details
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  userDetailResponse
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /v1/users/{id}/details [get]
func (h *UserHandler) Details(c echo.Context) error {
	actorID, _, err := ctxActor(c)
	if err != nil {
		return err
	}

	detail, err := h.service.GetUserDetails(c.Request().Context(), actorID, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userDetailResponse{
		User:           detail.User,
		OrderCount:     detail.OrderCount,
		TotalSpend:     detail.TotalSpend,
		ProductCount:   detail.ProductCount,
		RejectionCount: detail.RejectionCount,
	})
}

// Update applies a partial account update.
//
// @Summary      Update a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "User ID"
// @Param        body  body      updateUserRequest  true  "Fields to update"
// @Success      200   {object}  domain.User
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /v1/users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	actorID, _, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	input := ports.UpdateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	}
	if req.Role != nil {
		role := domain.Role(*req.Role)
		input.Role = &role
	}

	user, err := h.service.UpdateUser(c.Request().Context(), actorID, c.Param("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Delete removes an account.
//
// @Summary      Delete a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User ID"
// @Success      204  "deleted"
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /v1/users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	actorID, _, err := ctxActor(c)
	if err != nil {
		return err
	}

	if err := h.service.DeleteUser(c.Request().Context(), actorID, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ListPendingSellers returns all sellers awaiting an admin decision.
//
// @Summary      List pending sellers
// @Tags         sellers
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.User
// @Failure      403  {object}  map[string]string
// @Router       /v1/sellers/pending [get]
func (h *UserHandler) ListPendingSellers(c echo.Context) error {
	actorID, _, err := ctxActor(c)
	if err != nil {
		return err
	}

	sellers, err := h.service.ListPendingSellers(c.Request().Context(), actorID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sellers)
}

// RequestApproval opens an approval request for the authenticated seller.
//
// @Summary      Request seller approval
// @Tags         sellers
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.User
// @Failure      403  {object}  map[string]string
// @Failure      422  {object}  map[string]string
// @Router       /v1/sellers/request-approval [post]
func (h *UserHandler) RequestApproval(c echo.Context) error {
	actorID, _, err := ctxActor(c)
	if err != nil {
		return err
	}

	seller, err := h.service.RequestApproval(c.Request().Context(), actorID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, seller)
}

// ApproveSeller approves a pending seller; admin only.
//
// @Summary      Approve a seller
// @Tags         sellers
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Seller ID"
// @Success      200  {object}  domain.User
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      422  {object}  map[string]string
// @Router       /v1/sellers/{id}/approve [post]
func (h *UserHandler) ApproveSeller(c echo.Context) error {
	actorID, _, err := ctxActor(c)
	if err != nil {
		return err
	}

	seller, err := h.service.ApproveSeller(c.Request().Context(), actorID, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, seller)
}

// RejectSeller rejects a pending seller with a reason; admin only.
//
// @Summary      Reject a seller
// @Tags         sellers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Seller ID"
// @Param        body  body      rejectSellerRequest  true  "Rejection reason"
// @Success      200   {object}  domain.User
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /v1/sellers/{id}/reject [post]
func (h *UserHandler) RejectSeller(c echo.Context) error {
	actorID, _, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req rejectSellerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	seller, err := h.service.RejectSeller(c.Request().Context(), actorID, c.Param("id"), req.Reason)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, seller)
}
