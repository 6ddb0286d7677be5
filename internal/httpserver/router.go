package httpserver

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/afero"
	"gorm.io/gorm"

	carthttp "github.com/Skotchmaster/storefront/internal/cart/httpserver"
	cataloghttp "github.com/Skotchmaster/storefront/internal/catalog/httpserver"
	"github.com/Skotchmaster/storefront/internal/db"
	"github.com/Skotchmaster/storefront/internal/media"
	"github.com/Skotchmaster/storefront/internal/middleware/auth"
	"github.com/Skotchmaster/storefront/internal/middleware/csrf"
	loggingmw "github.com/Skotchmaster/storefront/internal/middleware/logging"
	metricsmw "github.com/Skotchmaster/storefront/internal/middleware/metrics"
	"github.com/Skotchmaster/storefront/internal/validation"
)

const APIPrefix = "/api/v1"

type Deps struct {
	DB             *gorm.DB
	CatalogHandler *cataloghttp.CatalogHTTP
	CartHandler    *carthttp.CartHTTP
	JWTSecret      []byte
	Media          *media.FSStorage
	MediaURL       string
}

// New builds the echo instance with the shared middleware chain and all routes.
func New(logger *slog.Logger, d *Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = JSONSerializer{}
	e.Validator = validation.EchoValidator{}

	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(metricsmw.Prometheus())

	Register(e, d)
	return e
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if err := db.Ping(c.Request().Context(), d.DB); err != nil {
			return echo.NewHTTPError(http.StatusServiceUnavailable, "database unavailable").SetInternal(err)
		}
		return c.NoContent(http.StatusOK)
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// media is only served here when MEDIA_URL is a local path
	if d.Media != nil && strings.HasPrefix(d.MediaURL, "/") {
		prefix := strings.TrimSuffix(d.MediaURL, "/")
		files := http.StripPrefix(prefix, http.FileServer(afero.NewHttpFs(d.Media.Fs).Dir("/")))
		e.GET(prefix+"/*", echo.WrapHandler(files))
	}

	authMW := auth.New(d.JWTSecret)
	api := e.Group(APIPrefix, csrf.Middleware(csrf.Config{AuthCookie: auth.AccessCookie}))
	cataloghttp.Register(api, d.CatalogHandler, authMW)
	carthttp.Register(api, d.CartHandler, authMW)
}
