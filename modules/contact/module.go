package contact

import (
	"gig-roster-api/core/database"
	"gig-roster-api/core/middleware"
	"gig-roster-api/modules/contact/controller"
	"gig-roster-api/modules/contact/repository"
	"gig-roster-api/modules/contact/router"
	"gig-roster-api/modules/contact/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the contact module and registers routes
func Init(e *echo.Echo, db database.IDatabase, mw *middleware.Middleware) service.ContactServiceInterface {
	repo := repository.NewContactRepository(db)
	svc := service.NewContactService(repo)
	ctrl := controller.NewContactController(svc)
	rtr := router.NewContactRouter(ctrl)

	rtr.Setup(e, mw)
	return svc
}
