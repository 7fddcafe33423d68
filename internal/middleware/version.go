package middleware

import (
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

const (
	VersionStatusActive     = "active"
	VersionStatusDeprecated = "deprecated"
	VersionStatusSunset     = "sunset"
)

// APIVersion represents API version information
type APIVersion struct {
	Version    string     `json:"version"`
	Status     string     `json:"status"`
	SunsetDate *time.Time `json:"sunset_date,omitempty"`
	Message    string     `json:"message,omitempty"`
}

// VersionMiddleware provides API versioning functionality
type VersionMiddleware struct {
	supported      map[string]APIVersion
	defaultVersion string
}

func NewVersionMiddleware() *VersionMiddleware {
	return &VersionMiddleware{
		supported: map[string]APIVersion{
			"v1": {Version: "v1", Status: VersionStatusActive, Message: "Current stable API version"},
		},
		defaultVersion: "v1",
	}
}

// VersionHeader adds version information to response headers
func (vm *VersionMiddleware) VersionHeader(version string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()
			h.Set("X-API-Version", version)
			if ver, ok := vm.supported[version]; ok {
				if ver.Status == VersionStatusDeprecated && ver.SunsetDate != nil {
					setDeprecation(h, "This API version", ver.SunsetDate)
				}
				if ver.Message != "" {
					h.Set("X-API-Message", ver.Message)
				}
			}
			return next(c)
		}
	}
}

// VersionRoute creates a version-specific route group
func (vm *VersionMiddleware) VersionRoute(e *echo.Echo, version string) *echo.Group {
	return e.Group("/"+version, vm.VersionHeader(version))
}

// APIVersionResolver rejects unknown /vN prefixes and records the resolved
// version under "api_version".
func (vm *VersionMiddleware) APIVersionResolver() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			version := versionFromPath(c.Request().URL.Path)
			if version == "" {
				c.Set("api_version", vm.defaultVersion)
				return next(c)
			}
			if ver, ok := vm.supported[version]; !ok || ver.Status == VersionStatusSunset {
				details := map[string]string{"supported_versions": strings.Join(vm.SupportedVersions(), ", ")}
				return c.JSON(http.StatusNotFound, map[string]any{
					"error": map[string]any{
						"code":    "UNSUPPORTED_VERSION",
						"message": "Unsupported API version",
						"details": details,
					},
				})
			}
			c.Set("api_version", version)
			return next(c)
		}
	}
}

// DeprecationNotice marks a single route as deprecated.
func (vm *VersionMiddleware) DeprecationNotice(message string, sunsetDate *time.Time) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()
			setDeprecation(h, "This endpoint", sunsetDate)
			if message != "" {
				h.Set("X-API-Deprecation-Message", message)
			}
			return next(c)
		}
	}
}

// AddVersion registers or replaces an API version.
func (vm *VersionMiddleware) AddVersion(version, status, message string, sunsetDate *time.Time) {
	vm.supported[version] = APIVersion{
		Version:    version,
		Status:     status,
		SunsetDate: sunsetDate,
		Message:    message,
	}
}

// SupportedVersions lists versions that still accept traffic, sorted.
func (vm *VersionMiddleware) SupportedVersions() []string {
	var versions []string
	for version, info := range vm.supported {
		if info.Status != VersionStatusSunset {
			versions = append(versions, version)
		}
	}
	sort.Strings(versions)
	return versions
}

func (vm *VersionMiddleware) CurrentVersion() string {
	return vm.defaultVersion
}

func setDeprecation(h http.Header, subject string, sunset *time.Time) {
	h.Set("X-API-Deprecated", "true")
	if sunset == nil {
		return
	}
	h.Set("X-API-Sunset", sunset.Format(time.RFC3339))
	h.Set("Warning", `299 adsyclub "`+subject+` is deprecated and will be removed on `+sunset.Format("2006-01-02")+`"`)
}

// versionFromPath returns "vN" for paths like /v1/... and "" otherwise.
func versionFromPath(path string) string {
	if !strings.HasPrefix(path, "/v") {
		return ""
	}
	segment := strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(segment, '/'); i >= 0 {
		segment = segment[:i]
	}
	digits := segment[1:]
	if digits == "" {
		return ""
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return ""
		}
	}
	if strings.TrimLeft(digits, "0") == "" {
		return ""
	}
	return segment
}
