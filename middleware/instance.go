package middleware

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"beforeafter/models"
	"beforeafter/utils"
)

// LocalsSession is the fiber.Ctx Locals key holding the *models.HostSession
const LocalsSession = "session"

var (
	ErrMalformedInstance = errors.New("malformed instance")
	ErrInvalidSignature  = errors.New("invalid instance signature")
)

var segmentParser = jwt.NewParser(jwt.WithPaddingAllowed())

// ParseInstance verifies a signed "signature.payload" instance and decodes
// its payload. Both parts are base64url; the signature is HMAC-SHA256 of the
// payload segment under secret.
func ParseInstance(instance, secret string) (*models.HostSession, error) {
	if secret == "" {
		// HMAC under an empty key is forgeable by anyone
		return nil, ErrInvalidSignature
	}
	sigSeg, payloadSeg, ok := strings.Cut(strings.TrimSpace(instance), ".")
	if !ok || sigSeg == "" || payloadSeg == "" {
		return nil, ErrMalformedInstance
	}

	sig, err := segmentParser.DecodeSegment(sigSeg)
	if err != nil {
		return nil, ErrMalformedInstance
	}
	if err := jwt.SigningMethodHS256.Verify(payloadSeg, sig, []byte(secret)); err != nil {
		return nil, ErrInvalidSignature
	}

	payload, err := segmentParser.DecodeSegment(payloadSeg)
	if err != nil {
		return nil, ErrMalformedInstance
	}
	var session models.HostSession
	if err := json.Unmarshal(payload, &session); err != nil {
		return nil, ErrMalformedInstance
	}
	return &session, nil
}

// InstanceMiddleware reads the host's signed instance from the "instance"
// query parameter or the Authorization header and stores the session in
// Locals. With required set, requests without a valid instance are rejected;
// otherwise they continue with an anonymous session.
func InstanceMiddleware(secret string, required bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		instance := c.Query("instance")
		if instance == "" {
			instance = c.Get(fiber.HeaderAuthorization)
		}

		var session *models.HostSession
		if instance != "" {
			s, err := ParseInstance(instance, secret)
			if err != nil {
				utils.Log.Warn("Rejected instance from %s: %v", c.IP(), err)
				if required {
					return utils.UnauthorizedError("Invalid instance", err)
				}
			}
			session = s
		} else if required {
			return utils.UnauthorizedError("Missing instance", nil)
		}

		if session == nil {
			session = &models.HostSession{}
		}
		if locale := c.Query("locale"); locale != "" {
			session.Locale = locale
		}
		if mode := c.Query("viewMode"); mode != "" {
			session.ViewMode = models.ViewMode(mode)
		}
		if session.ViewMode == "" {
			session.ViewMode = models.ViewModeSite
		}

		c.Locals(LocalsSession, session)
		return c.Next()
	}
}

// GetSession returns the session stored by InstanceMiddleware
func GetSession(c *fiber.Ctx) *models.HostSession {
	if s, ok := c.Locals(LocalsSession).(*models.HostSession); ok && s != nil {
		return s
	}
	return &models.HostSession{ViewMode: models.ViewModeSite}
}
