package auth

import (
	"github.com/labstack/echo/v4"
)

// publicPaths bypass authentication.
var publicPaths = map[string]bool{
	"/health":    true,
	"/health/db": true,
}

// AuthSkipper reports whether the matched route is a public infrastructure
// endpoint. Pass it as JWTConfig.Skipper.
func AuthSkipper(c echo.Context) bool {
	return publicPaths[c.Path()]
}
