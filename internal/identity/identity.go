package identity

import (
	"encoding/json"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

type Role string

const (
	RoleDoctor  Role = "doctor"
	RolePatient Role = "patient"
)

// Identity is whoever the request claims to be. Cookies are taken at
// face value beyond presence checks; issuing them is not this
// service's job.
type Identity struct {
	ID   string
	Name string
	Role Role
}

// Settings is the per-user client settings cookie payload.
type Settings struct {
	DarkMode bool `json:"darkMode"`
}

const (
	localsIdentity = "identity"
	localsSettings = "settings"

	cookieDoctorID   = "doctorId"
	cookieDoctorName = "doctorName"
	cookieUserEmail  = "userEmail"
	cookieSettings   = "user-settings"
	headerBearerPref = "Bearer "
)

// Middleware resolves the caller's identity from cookies or a bearer
// token and parses the settings cookie once per request. Browser
// requests without identity are redirected to the login route; API
// requests get a 401.
func Middleware(jwtSecret, loginPath string, log *zap.SugaredLogger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(localsSettings, parseSettings(c, log))

		if id, ok := fromCookies(c); ok {
			c.Locals(localsIdentity, id)
			return c.Next()
		}
		if id, ok := fromBearer(c, jwtSecret); ok {
			c.Locals(localsIdentity, id)
			return c.Next()
		}

		if strings.Contains(c.Get(fiber.HeaderAccept), "text/html") {
			return c.Redirect(loginPath, fiber.StatusFound)
		}
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "not signed in"})
	}
}

func fromCookies(c *fiber.Ctx) (Identity, bool) {
	if docID := c.Cookies(cookieDoctorID); docID != "" {
		name := c.Cookies(cookieDoctorName)
		if name == "" {
			return Identity{}, false
		}
		return Identity{ID: docID, Name: name, Role: RoleDoctor}, true
	}
	if email := c.Cookies(cookieUserEmail); email != "" {
		return Identity{ID: email, Name: email, Role: RolePatient}, true
	}
	return Identity{}, false
}

func fromBearer(c *fiber.Ctx, secret string) (Identity, bool) {
	if secret == "" {
		return Identity{}, false
	}
	h := c.Get(fiber.HeaderAuthorization)
	if !strings.HasPrefix(h, headerBearerPref) {
		return Identity{}, false
	}
	tok, err := jwt.Parse(h[len(headerBearerPref):], func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return Identity{}, false
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, false
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return Identity{}, false
	}
	name, _ := claims["name"].(string)
	role, _ := claims["role"].(string)
	if role == "" {
		role = string(RolePatient)
	}
	return Identity{ID: sub, Name: name, Role: Role(role)}, true
}

func parseSettings(c *fiber.Ctx, log *zap.SugaredLogger) Settings {
	var s Settings
	raw := c.Cookies(cookieSettings)
	if raw == "" {
		return s
	}
	// Browser clients store the JSON percent-encoded.
	if dec, err := url.QueryUnescape(raw); err == nil {
		raw = dec
	}
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		log.Debugw("malformed settings cookie", "err", err)
		return Settings{}
	}
	return s
}

// From returns the identity the middleware resolved for this request.
func From(c *fiber.Ctx) Identity {
	if id, ok := c.Locals(localsIdentity).(Identity); ok {
		return id
	}
	return Identity{}
}

// SettingsFrom returns the request's parsed settings.
func SettingsFrom(c *fiber.Ctx) Settings {
	if s, ok := c.Locals(localsSettings).(Settings); ok {
		return s
	}
	return Settings{}
}
