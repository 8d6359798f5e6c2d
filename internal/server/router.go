// Package server assembles the HTTP surface of the site.
package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/tutoring-site/api/swagger"
	"github.com/noah-isme/tutoring-site/internal/handler"
	"github.com/noah-isme/tutoring-site/internal/middleware"
	"github.com/noah-isme/tutoring-site/internal/models"
	"github.com/noah-isme/tutoring-site/internal/service"
	"github.com/noah-isme/tutoring-site/internal/session"
	"github.com/noah-isme/tutoring-site/internal/web"
	"github.com/noah-isme/tutoring-site/pkg/config"
	"github.com/noah-isme/tutoring-site/pkg/logger"
	corsmiddleware "github.com/noah-isme/tutoring-site/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/tutoring-site/pkg/middleware/requestid"
	"github.com/noah-isme/tutoring-site/pkg/ratelimit"
)

const (
	loginPath = "/login"
	homePath  = "/home"
)

// IdentityLookup re-reads the account behind a session.
type IdentityLookup interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// Handlers groups the HTTP handlers mounted by NewRouter.
type Handlers struct {
	Pages     *handler.PageHandler
	Auth      *handler.AuthHandler
	Dashboard *handler.DashboardHandler
	News      *handler.NewsHandler
	Users     *handler.UserHandler
	Students  *handler.StudentHandler
	Contact   *handler.ContactHandler
	Lessons   *handler.LessonHandler
	API       *handler.APIHandler
	Metrics   *handler.MetricsHandler
}

// Options carries everything the router needs.
type Options struct {
	Config       *config.Config
	Logger       *zap.Logger
	Metrics      *service.MetricsService
	Sessions     *session.Manager
	SessionStore sessions.Store
	Users        IdentityLookup
	Limiter      ratelimit.Limiter
	UploadDir    string
	Handlers     Handlers
}

// NewRouter builds the gin engine with every route and middleware attached.
func NewRouter(opts Options) (*gin.Engine, error) {
	cfg := opts.Config
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	h := opts.Handlers

	templates, err := web.Templates()
	if err != nil {
		return nil, err
	}

	r := gin.New()
	r.MaxMultipartMemory = 8 << 20
	r.SetHTMLTemplate(templates)
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(log, web.UploadsPath+"/"))
	r.Use(middleware.Metrics(opts.Metrics))

	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Ready)
	r.GET("/metrics", h.Metrics.Prometheus)
	r.Static(web.UploadsPath, opts.UploadDir)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	limits := cfg.RateLimit
	general := middleware.RateLimit(middleware.RateLimitConfig{
		Limiter: opts.Limiter,
		Rules:   []ratelimit.Rule{ratelimit.PerHour(limits.PerHour), ratelimit.PerDay(limits.PerDay)},
		Skip:    isLoginAttempt,
		Metrics: opts.Metrics,
		Logger:  log,
	})
	loginLimit := middleware.RateLimit(middleware.RateLimitConfig{
		Limiter:    opts.Limiter,
		Rules:      []ratelimit.Rule{{Name: "login", Limit: limits.LoginPerMinute, Window: time.Minute}},
		OnThrottle: h.Auth.LoginThrottled,
		Metrics:    opts.Metrics,
		Logger:     log,
	})

	api := r.Group("/api/v1", corsmiddleware.New(cfg.CORS.AllowedOrigins), general)
	api.OPTIONS("/*path", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	api.GET("/news", h.API.ListNews)
	api.GET("/grades", h.API.ListGrades)
	api.GET("/lessons/:grade_code/:topic", h.API.GetLesson)

	site := r.Group("/", opts.Sessions.Middleware(opts.SessionStore), middleware.LoadIdentity(opts.Sessions, opts.Users, log), general)

	site.GET("/", h.Pages.Root)
	site.GET("/home", h.Pages.Static("home.html", "Home"))
	site.GET("/teaching", h.Pages.Static("teaching.html", "Teaching"))
	site.GET("/about", h.Pages.Static("about.html", "About"))
	site.GET("/class", h.Pages.Static("class.html", "Classes"))
	site.GET("/news", h.Pages.News)
	if name := cfg.Site.VerificationFile; name != "" {
		site.GET("/"+name, h.Pages.Verification(name))
	}

	site.GET("/contact", h.Contact.Page)
	site.POST("/contact", h.Contact.Send)

	site.GET("/register", h.Auth.RegisterPage)
	site.POST("/register", h.Auth.Register)
	site.GET(loginPath, h.Auth.LoginPage)
	site.POST(loginPath, loginLimit, h.Auth.Login)
	site.GET("/logout", h.Auth.Logout)

	account := site.Group("/", middleware.RequireLogin(loginPath))
	account.GET("/account/password", h.Auth.PasswordPage)
	account.POST("/account/password", h.Auth.ChangePassword)
	account.GET("/dashboard", h.Dashboard.Show)

	admin := site.Group("/admin", middleware.RequireAdmin(loginPath, homePath))
	admin.GET("/news/new", h.News.NewPage)
	admin.POST("/news/new", h.News.Create)
	admin.POST("/news/delete/:id", h.News.Delete)
	admin.GET("/users", h.Users.List)
	admin.POST("/users", h.Users.ChangeRole)
	admin.POST("/students/:user_id/grade", h.Students.SetGrade)
	admin.POST("/students/:user_id/courses", h.Students.UpsertCourse)
	admin.POST("/students/:user_id/scores", h.Students.UpsertScore)

	site.GET("/lessons", h.Lessons.Index)
	site.GET("/:grade_code/:topic", h.Lessons.Show)

	return r, nil
}

func isLoginAttempt(c *gin.Context) bool {
	return c.Request.Method == http.MethodPost && strings.TrimSuffix(c.FullPath(), "/") == loginPath
}
