package handlers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/item-service/internal/api/dto"
	"github.com/spec-kit/item-service/internal/service"
	apperrors "github.com/spec-kit/item-service/pkg/util"
)

// ItemsHandler exposes CRUD over items.
type ItemsHandler struct {
	items *service.ItemService
}

// NewItemsHandler constructs handler.
func NewItemsHandler(itemService *service.ItemService) *ItemsHandler {
	return &ItemsHandler{items: itemService}
}

// Create handles POST /api/items.
func (h *ItemsHandler) Create(c *fiber.Ctx) error {
	var req dto.ItemRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload")
	}
	if details, ok := dto.Validate(req); !ok {
		return apperrors.NewValidationError(details)
	}

	item, err := h.items.CreateItem(c.UserContext(), req.Name, req.Description)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewItemResponse(item))
}

// List handles GET /api/items.
func (h *ItemsHandler) List(c *fiber.Ctx) error {
	items, err := h.items.ListItems(c.UserContext())
	if err != nil {
		return err
	}
	out := make([]dto.ItemResponse, 0, len(items))
	for i := range items {
		out = append(out, dto.NewItemResponse(&items[i]))
	}
	return c.JSON(out)
}

// Get handles GET /api/items/:id.
func (h *ItemsHandler) Get(c *fiber.Ctx) error {
	item, err := h.items.GetItem(c.UserContext(), c.Params("id"))
	if err != nil {
		return mapItemError(err)
	}
	return c.JSON(dto.NewItemResponse(item))
}

// Update handles PUT /api/items/:id.
func (h *ItemsHandler) Update(c *fiber.Ctx) error {
	var req dto.ItemRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload")
	}
	if details, ok := dto.Validate(req); !ok {
		return apperrors.NewValidationError(details)
	}

	item, err := h.items.UpdateItem(c.UserContext(), c.Params("id"), req.Name, req.Description)
	if err != nil {
		return mapItemError(err)
	}
	return c.JSON(dto.NewItemResponse(item))
}

// Delete handles DELETE /api/items/:id.
func (h *ItemsHandler) Delete(c *fiber.Ctx) error {
	item, err := h.items.DeleteItem(c.UserContext(), c.Params("id"))
	if err != nil {
		return mapItemError(err)
	}
	return c.JSON(dto.NewItemResponse(item))
}

func mapItemError(err error) error {
	if errors.Is(err, service.ErrItemNotFound) {
		return apperrors.NewNotFound("Item")
	}
	return err
}
