package httptransport

import (
	"log/slog"

	"github.com/HalleluyahGirl/ExpenseApp/internal/domain"
	"github.com/HalleluyahGirl/ExpenseApp/internal/transport/http/handler"
	"github.com/HalleluyahGirl/ExpenseApp/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"

	sloggin "github.com/samber/slog-gin"
)

func NewRouter(logger *slog.Logger, authHandler *handler.AuthHandler, recordHandler *handler.RecordHandler, jwtKey []byte) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Security())
	r.Use(sloggin.New(logger))
	r.Use(middleware.Metrics())

	auth := r.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	authMW := middleware.Auth(jwtKey)

	// One CRUD surface per record kind, all owner-scoped.
	collections := map[string]domain.Kind{
		"/reminders":  domain.KindReminder,
		"/expenses":   domain.KindExpense,
		"/categories": domain.KindCategory,
	}
	for path, kind := range collections {
		g := r.Group(path, authMW)
		g.POST("", recordHandler.Create(kind))
		g.GET("", recordHandler.List(kind))
		g.GET("/:id", recordHandler.GetByID(kind))
		g.PUT("/:id", recordHandler.Update(kind))
		g.DELETE("/:id", recordHandler.Delete(kind))
	}

	return r
}
