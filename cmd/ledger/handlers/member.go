package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shelfwise/lending/cmd/ledger/service"
	"github.com/shelfwise/lending/common/lending"
	"github.com/shelfwise/lending/common/validation"
)

// MemberHandler handles member-related requests
type MemberHandler struct {
	ledger *service.LedgerService
}

// NewMemberHandler creates a new member handler
func NewMemberHandler(ledger *service.LedgerService) *MemberHandler {
	return &MemberHandler{
		ledger: ledger,
	}
}

// ListMembers lists all members in creation order
// GET /api/v1/members
func (h *MemberHandler) ListMembers(c echo.Context) error {
	members, err := h.ledger.ListMembers(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, http.StatusOK, members)
}

// AddMember registers a new member
// POST /api/v1/members
func (h *MemberHandler) AddMember(c echo.Context) error {
	var in validation.AddMemberInput
	if err := c.Bind(&in); err != nil {
		return respondError(c, lending.Validation(map[string]string{
			"body": "malformed request body",
		}))
	}

	member, err := h.ledger.AddMember(c.Request().Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, http.StatusCreated, member)
}
