package routes

import (
	"github.com/labstack/echo/v4"
	"github.com/shelfwise/lending/cmd/ledger/container"
	"github.com/shelfwise/lending/cmd/ledger/handlers"
)

// RegisterBookRoutes registers book and lending routes
func RegisterBookRoutes(e *echo.Echo, c *container.Container) {
	h := handlers.NewBookHandler(c.LedgerService)

	books := e.Group("/api/v1/books")
	{
		books.GET("", h.ListBooks)             // GET /api/v1/books
		books.POST("", h.AddBook)              // POST /api/v1/books
		books.GET("/:id", h.GetBook)           // GET /api/v1/books/{id}
		books.POST("/:id/borrow", h.BorrowBook) // POST /api/v1/books/{id}/borrow
		books.POST("/:id/return", h.ReturnBook) // POST /api/v1/books/{id}/return
	}
}

// RegisterMemberRoutes registers member routes
func RegisterMemberRoutes(e *echo.Echo, c *container.Container) {
	h := handlers.NewMemberHandler(c.LedgerService)

	members := e.Group("/api/v1/members")
	{
		members.GET("", h.ListMembers) // GET /api/v1/members
		members.POST("", h.AddMember)  // POST /api/v1/members
	}
}
