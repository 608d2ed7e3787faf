package session

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// APIController serves the issuer over the HTTP/JSON wire contract:
//
//	POST /login     {identifier, secret}  -> 200 {token}   | 4xx {message}
//	POST /register  {...newUserData}      -> 201 {}        | 4xx {message}
//	GET  /user/me   Authorization: Bearer -> 200 {user}    | 401 {}
type APIController struct {
	Issuer *Issuer
	Logger Logger
}

// APIControllerOption customizes the controller.
type APIControllerOption func(*APIController)

// WithAPILogger overrides the controller logger.
func WithAPILogger(logger Logger) APIControllerOption {
	return func(c *APIController) {
		if logger != nil {
			c.Logger = logger
		}
	}
}

// RegisterRoutes mounts the wire contract on the fiber app.
func RegisterRoutes(app *fiber.App, issuer *Issuer, opts ...APIControllerOption) *APIController {
	controller := &APIController{
		Issuer: issuer,
		Logger: defLogger{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(controller)
		}
	}

	app.Post("/login", controller.LoginPost).Name("login.post")
	app.Post("/register", controller.RegisterPost).Name("register.post")
	app.Get("/user/me", controller.MeGet).Name("me.get")

	return controller
}

// LoginPost exchanges credentials for a bearer token.
func (a *APIController) LoginPost(c *fiber.Ctx) error {
	payload := new(loginRequest)

	if err := c.BodyParser(payload); err != nil {
		a.Logger.Debug("login parse payload", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "malformed request body",
		})
	}

	token, err := a.Issuer.Login(c.Context(), payload.Identifier, payload.Secret)
	if err != nil {
		a.Logger.Info("login rejected", "identifier", payload.Identifier)
		return c.Status(statusForError(err)).JSON(fiber.Map{
			"message": ErrorMessage(err),
		})
	}

	return c.JSON(loginResponse{Token: token})
}

// RegisterPost persists a new credential/identity pair. It never emits a
// token.
func (a *APIController) RegisterPost(c *fiber.Ctx) error {
	payload := new(RegisterUserMessage)

	if err := c.BodyParser(payload); err != nil {
		a.Logger.Debug("register parse payload", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "malformed request body",
		})
	}

	if err := a.Issuer.Register(c.Context(), *payload); err != nil {
		a.Logger.Info("registration rejected", "username", payload.Username, "error", err)
		return c.Status(statusForError(err)).JSON(fiber.Map{
			"message": ErrorMessage(err),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{})
}

// MeGet resolves the bearer token into its identity. Auth failures answer
// 401 with an empty JSON body.
func (a *APIController) MeGet(c *fiber.Ctx) error {
	token := bearerToken(c.Get(fiber.HeaderAuthorization))
	if token == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{})
	}

	identity, err := a.Issuer.ResolveIdentity(c.Context(), token)
	if err != nil {
		if IsInvalidToken(err) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{})
		}

		a.Logger.Error("identity resolution failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "internal error",
		})
	}

	return c.JSON(profileResponse{User: NewProfile(identity)})
}

// bearerToken extracts the token from an Authorization header value.
func bearerToken(header string) string {
	const scheme = "Bearer "
	if len(header) > len(scheme) && strings.EqualFold(header[:len(scheme)], scheme) {
		return strings.TrimSpace(header[len(scheme):])
	}
	return ""
}

func statusForError(err error) int {
	switch {
	case IsInvalidCredentials(err), IsInvalidToken(err):
		return http.StatusUnauthorized
	case IsDuplicateIdentifier(err):
		return http.StatusConflict
	case hasTextCode(err, TextCodeInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
