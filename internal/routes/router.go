package routes

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"go-todo-web/internal/config"
	"go-todo-web/internal/handlers"
	"go-todo-web/internal/metrics"
	"go-todo-web/internal/ratelimit"
	"go-todo-web/internal/repositories"
	"go-todo-web/internal/services"
)

// SetupRouter はGinルーターをセットアップし、すべてのエンドポイントを登録します。
func SetupRouter(cfg *config.Config, db *sql.DB, limiter ratelimit.Limiter, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(RequestLogger(logger))
	r.Use(gin.Recovery())

	// CORS対策
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.AllowedOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "X-Requested-With", "X-CSRF-Token"}
	corsConfig.AllowCredentials = true
	corsConfig.MaxAge = 12 * time.Hour
	r.Use(cors.New(corsConfig))

	r.Use(metrics.GinMiddleware())

	// テンプレートと静的ファイル (クライアントコントローラーのJSを含む)
	r.LoadHTMLGlob(cfg.TemplatesGlob)
	r.Static("/static", cfg.StaticDir)

	// リポジトリ
	taskRepo := repositories.NewTaskRepository(db, logger)
	userRepo := repositories.NewUserRepository(db, logger)
	contactRepo := repositories.NewContactRepository(db, logger)

	// サービス
	taskService := services.NewTaskService(taskRepo, logger)
	userService := services.NewUserService(userRepo, logger)
	contactService := services.NewContactService(contactRepo, logger)
	jwtService := services.NewJWTService(cfg.JWTSecret)

	// ハンドラー
	taskHandler := handlers.NewTaskHandler(taskService, logger)
	userHandler := handlers.NewUserHandler(userService, jwtService, logger)
	contactHandler := handlers.NewContactHandler(contactService, logger)

	// 運用エンドポイント (CSRF・認証の外側)
	r.GET("/healthz", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Database connection failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// ページとミューテーション
	pages := r.Group("/")
	pages.Use(handlers.ResponseModeMiddleware())
	pages.Use(CSRFMiddleware())
	pages.Use(CurrentUserMiddleware(jwtService))
	{
		pages.GET("/", func(c *gin.Context) { c.Redirect(http.StatusFound, "/tasks") })
		pages.GET("/tasks", taskHandler.TaskListHandler)
		pages.GET("/calendar", taskHandler.CalendarHandler)

		pages.GET("/contact", contactHandler.ContactPageHandler)
		pages.POST("/contact", contactHandler.ContactSubmitHandler)

		pages.GET("/register", userHandler.RegisterPageHandler)
		pages.POST("/register", userHandler.RegisterSubmitHandler)
		pages.GET("/login", userHandler.LoginPageHandler)
		pages.POST("/login", userHandler.LoginSubmitHandler)
		pages.POST("/logout", userHandler.LogoutHandler)

		// タスクのミューテーションのみレート制限の対象
		mutations := pages.Group("/tasks")
		mutations.Use(ratelimit.Middleware(limiter, cfg.MutationLimit, cfg.MutationWindow, logger))
		{
			mutations.POST("", taskHandler.CreateTaskHandler)
			mutations.POST("/:id/toggle", taskHandler.ToggleTaskHandler)
			mutations.POST("/:id/delete", taskHandler.DeleteTaskHandler)
		}
	}

	return r
}
