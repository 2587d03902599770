package routes

import (
	"net/http"

	"restaurant/configs"
	"restaurant/controllers"
	"restaurant/middlewares"
	"restaurant/pkg/metrics"
	"restaurant/repository"
	"restaurant/services"
	"restaurant/tasks"
	"restaurant/ws"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds the long-running parts main needs to start and stop.
type App struct {
	Menu    *services.MenuService
	Users   *services.UserService
	Hub     *ws.ChatHub
	Limiter *middlewares.RateLimiter
}

// RegisterRoutes builds the services, registers the chat reply task on queue
// and mounts every route on r.
func RegisterRoutes(r *gin.Engine, cfg *configs.Config, db *gorm.DB, log logrus.FieldLogger, queue *tasks.Queue, llm services.Completer) *App {
	r.Use(middlewares.RequestLogger(log), middlewares.CORSMiddleware(cfg.CORSOrigins))
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	// Repositories
	menuRepo := repository.NewMenuRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	chatRepo := repository.NewChatRepository(db)
	tokenRepo := repository.NewTokenRepository(db)
	userRepo := repository.NewUserRepository(db)

	// Services
	users := services.NewUserService(userRepo)
	ledger := services.NewTokenLedger(tokenRepo, nil)
	menuSvc := services.NewMenuService(menuRepo)
	reviewSvc := services.NewReviewService(reviewRepo, menuRepo)
	orderSvc := services.NewOrderService(orderRepo, menuRepo)
	chatSvc := services.NewChatService(db, chatRepo, ledger, queue, llm, log)

	limiter := middlewares.NewRateLimiter(cfg.ChatRatePerSec, cfg.ChatRateBurst)
	hub := ws.NewChatHub(chatSvc, limiter, log)
	chatSvc.SetNotifier(hub)
	queue.Register(services.ReplyTaskKind, chatSvc.HandleReplyTask)

	// Controllers
	menuCtrl := controllers.NewMenuController(menuSvc)
	reviewCtrl := controllers.NewReviewController(reviewSvc)
	orderCtrl := controllers.NewOrderController(orderSvc)
	chatCtrl := controllers.NewChatController(chatSvc, ledger)

	optional := middlewares.OptionalAuth(cfg.JWTSecret, users)
	required := middlewares.AuthMiddleware(cfg.JWTSecret, users)

	// Menu (public)
	m := r.Group("/menu")
	{
		m.GET("", menuCtrl.List)
		m.GET("/:id", menuCtrl.Detail)
		m.POST("/seed", menuCtrl.Seed)
		m.POST("", middlewares.AuthMiddleware(cfg.JWTSecret, users, "admin"), menuCtrl.Create)

		m.GET("/:id/reviews", reviewCtrl.List)
		m.GET("/:id/reviews/me", optional, reviewCtrl.Mine)
		m.POST("/:id/reviews", required, reviewCtrl.Submit)
	}

	// Orders
	o := r.Group("/orders")
	{
		o.POST("", required, orderCtrl.Create)
		o.GET("", optional, orderCtrl.ListForMe)
		o.GET("/:id", required, orderCtrl.Detail)
	}

	// Chat
	ch := r.Group("/chat")
	{
		ch.POST("/messages", required, limiter.Handler(), chatCtrl.Send)
		ch.GET("/messages", optional, chatCtrl.List)
		ch.GET("/tokens", required, chatCtrl.Tokens)
	}

	r.GET("/ws/chat", middlewares.WSAuthMiddleware(cfg.JWTSecret, users), hub.HandleWebSocket)

	return &App{Menu: menuSvc, Users: users, Hub: hub, Limiter: limiter}
}
