package auth

import (
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-print"
)

// AuthControllerRoutes holds the paths the controller mounts its handlers at.
type AuthControllerRoutes struct {
	Signup         string
	Login          string
	Logout         string
	VerifyEmail    string
	ForgotPassword string
	ResetPassword  string
	DeleteAccount  string
	CheckAuth      string
}

// AuthController exposes the account lifecycle as a JSON API.
type AuthController struct {
	Debug    bool
	Logger   Logger
	Repo     RepositoryManager
	Auth     Authenticator
	Tokens   TokenService
	Notifier Notifier
	Config   Config
	Routes   *AuthControllerRoutes

	// ClientURL is the base the emailed reset link points at.
	ClientURL string

	cookieDuration time.Duration
}

// NewAuthController builds a controller with default routes and a cookie
// lifetime derived from the token expiration.
func NewAuthController(auther *Auther, repo RepositoryManager, cfg Config) *AuthController {
	cookieDuration := 7 * 24 * time.Hour
	if cfg.GetTokenExpiration() > 0 {
		cookieDuration = time.Duration(cfg.GetTokenExpiration()) * time.Hour
	}

	return &AuthController{
		Logger:   defLogger{},
		Repo:     repo,
		Auth:     auther,
		Tokens:   auther.TokenService(),
		Notifier: noopNotifier{},
		Config:   cfg,
		Routes: &AuthControllerRoutes{
			Signup:         "/signup",
			Login:          "/login",
			Logout:         "/logout",
			VerifyEmail:    "/verify-email",
			ForgotPassword: "/forgot-password",
			ResetPassword:  "/reset-password/:token",
			DeleteAccount:  "/delete-account",
			CheckAuth:      "/check-auth",
		},
		cookieDuration: cookieDuration,
	}
}

// WithNotifier sets the notifier the lifecycle handlers deliver through.
func (a *AuthController) WithNotifier(n Notifier) *AuthController {
	a.Notifier = normalizeNotifier(n)
	return a
}

// WithLogger overrides the controller logger.
func (a *AuthController) WithLogger(logger Logger) *AuthController {
	if logger != nil {
		a.Logger = logger
	}
	return a
}

// WithClientURL sets the base URL embedded in password reset links.
func (a *AuthController) WithClientURL(base string) *AuthController {
	a.ClientURL = base
	return a
}

// RegisterAuthRoutes mounts the controller on the given router, usually an
// /api/auth group.
func RegisterAuthRoutes(app fiber.Router, controller *AuthController) {
	app.Post(controller.Routes.Signup, controller.Signup)
	app.Post(controller.Routes.Login, controller.Login)
	app.Post(controller.Routes.Logout, controller.Logout)
	app.Post(controller.Routes.VerifyEmail, controller.VerifyEmail)
	app.Post(controller.Routes.ForgotPassword, controller.ForgotPassword)
	app.Post(controller.Routes.ResetPassword, controller.ResetPassword)
	app.Delete(controller.Routes.DeleteAccount, controller.DeleteAccount)
	app.Get(controller.Routes.CheckAuth, controller.CheckAuth)
}

// SignupPayload is the registration request body.
type SignupPayload struct {
	Email       string `json:"email"`
	DisplayName string `json:"name"`
	Password    string `json:"password"`
}

// Validate will validate the payload
func (r SignupPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, validation.Length(6, 100), is.Email),
		validation.Field(&r.DisplayName, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Password, validation.Required, validation.Length(6, 100)),
	)
}

func (a *AuthController) Signup(c *fiber.Ctx) error {
	payload := new(SignupPayload)

	if err := c.BodyParser(payload); err != nil {
		a.Logger.Error("signup parse payload: %s", err)
		return RespondError(c, ErrUnableToParseData)
	}

	if err := payload.Validate(); err != nil {
		a.Logger.Error("signup validate payload: %s", err)
		return c.Status(fiber.StatusBadRequest).JSON(APIResponse{
			Success: false,
			Error:   err.Error(),
			Code:    TextCodeValidation,
		})
	}

	var res *RegisterAccountResponse

	msg := RegisterAccountMessage{
		Email:       payload.Email,
		DisplayName: payload.DisplayName,
		Password:    payload.Password,
		OnResponse: func(resp *RegisterAccountResponse) {
			res = resp
		},
	}

	handler := NewRegisterAccountHandler(a.Repo).
		WithNotifier(a.Notifier).
		WithLogger(a.Logger)

	if err := handler.Execute(c.Context(), msg); err != nil {
		a.Logger.Error("signup error: %s", err)
		return RespondError(c, err)
	}

	if a.Debug {
		fmt.Println(print.MaybePrettyJSON(res))
	}

	token, err := a.Tokens.Generate(NewIdentityFromAccount(res.Account))
	if err != nil {
		a.Logger.Error("signup token error: %s", err)
		return RespondError(c, err)
	}

	setSessionCookie(c, a.Config, token, a.cookieDuration)

	return c.Status(fiber.StatusCreated).JSON(APIResponse{
		Success: true,
		Message: "Account created successfully",
		Account: res.Account,
	})
}

// LoginPayload is the credential check request body.
type LoginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate will validate the payload
func (r LoginPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

func (a *AuthController) Login(c *fiber.Ctx) error {
	payload := new(LoginPayload)

	if err := c.BodyParser(payload); err != nil {
		a.Logger.Error("login parse payload: %s", err)
		return RespondError(c, ErrUnableToParseData)
	}

	if err := payload.Validate(); err != nil {
		a.Logger.Error("login validate payload: %s", err)
		return c.Status(fiber.StatusBadRequest).JSON(APIResponse{
			Success: false,
			Error:   err.Error(),
			Code:    TextCodeValidation,
		})
	}

	token, err := a.Auth.Login(c.Context(), payload.Email, payload.Password)
	if err != nil {
		a.Logger.Error("login error: %s", err)
		return RespondError(c, err)
	}

	account, err := a.Repo.Accounts().GetByEmail(c.Context(), payload.Email)
	if err != nil {
		a.Logger.Error("login account lookup error: %s", err)
		return RespondError(c, err)
	}

	setSessionCookie(c, a.Config, token, a.cookieDuration)

	return c.JSON(APIResponse{
		Success: true,
		Message: "Logged in successfully",
		Account: account,
	})
}

func (a *AuthController) Logout(c *fiber.Ctx) error {
	clearSessionCookie(c, a.Config)

	return c.JSON(APIResponse{
		Success: true,
		Message: "Logged out successfully",
	})
}

// VerifyEmailPayload carries the emailed verification token.
type VerifyEmailPayload struct {
	Token string `json:"token"`
}

// Validate will validate the payload
func (r VerifyEmailPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Token, validation.Required, is.Hexadecimal),
	)
}

func (a *AuthController) VerifyEmail(c *fiber.Ctx) error {
	payload := new(VerifyEmailPayload)

	if err := c.BodyParser(payload); err != nil {
		a.Logger.Error("verify email parse payload: %s", err)
		return RespondError(c, ErrUnableToParseData)
	}

	if err := payload.Validate(); err != nil {
		a.Logger.Error("verify email validate payload: %s", err)
		return c.Status(fiber.StatusBadRequest).JSON(APIResponse{
			Success: false,
			Error:   err.Error(),
			Code:    TextCodeValidation,
		})
	}

	var res *VerifyEmailResponse

	msg := VerifyEmailMessage{
		Token: payload.Token,
		OnResponse: func(resp *VerifyEmailResponse) {
			res = resp
		},
	}

	handler := NewVerifyEmailHandler(a.Repo).
		WithNotifier(a.Notifier).
		WithLogger(a.Logger)

	if err := handler.Execute(c.Context(), msg); err != nil {
		a.Logger.Error("verify email error: %s", err)
		return RespondError(c, err)
	}

	return c.JSON(APIResponse{
		Success: true,
		Message: "Email verified successfully",
		Account: res.Account,
	})
}

// ForgotPasswordPayload carries the email a reset link should go to.
type ForgotPasswordPayload struct {
	Email string `json:"email"`
}

// Validate will validate the payload
func (r ForgotPasswordPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
	)
}

func (a *AuthController) ForgotPassword(c *fiber.Ctx) error {
	payload := new(ForgotPasswordPayload)

	if err := c.BodyParser(payload); err != nil {
		a.Logger.Error("forgot password parse payload: %s", err)
		return RespondError(c, ErrUnableToParseData)
	}

	if err := payload.Validate(); err != nil {
		a.Logger.Error("forgot password validate payload: %s", err)
		return c.Status(fiber.StatusBadRequest).JSON(APIResponse{
			Success: false,
			Error:   err.Error(),
			Code:    TextCodeValidation,
		})
	}

	msg := InitializePasswordResetMessage{
		Email: payload.Email,
	}

	handler := NewInitializePasswordResetHandler(a.Repo).
		WithNotifier(a.Notifier).
		WithLogger(a.Logger).
		WithBaseURL(a.ClientURL)

	if err := handler.Execute(c.Context(), msg); err != nil {
		a.Logger.Error("forgot password error: %s", err)
		return RespondError(c, err)
	}

	return c.JSON(APIResponse{
		Success: true,
		Message: "Password reset link sent to your email",
	})
}

// ResetPasswordPayload carries the replacement password; the token rides in
// the URL.
type ResetPasswordPayload struct {
	Password string `json:"password"`
}

// Validate will validate the payload
func (r ResetPasswordPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Password, validation.Required, validation.Length(6, 100)),
	)
}

func (a *AuthController) ResetPassword(c *fiber.Ctx) error {
	token := c.Params("token")
	payload := new(ResetPasswordPayload)

	if err := c.BodyParser(payload); err != nil {
		a.Logger.Error("reset password parse payload: %s", err)
		return RespondError(c, ErrUnableToParseData)
	}

	if err := payload.Validate(); err != nil {
		a.Logger.Error("reset password validate payload: %s", err)
		return c.Status(fiber.StatusBadRequest).JSON(APIResponse{
			Success: false,
			Error:   err.Error(),
			Code:    TextCodeValidation,
		})
	}

	msg := FinalizePasswordResetMessage{
		Token:    token,
		Password: payload.Password,
	}

	handler := NewFinalizePasswordResetHandler(a.Repo).
		WithNotifier(a.Notifier).
		WithLogger(a.Logger)

	if err := handler.Execute(c.Context(), msg); err != nil {
		a.Logger.Error("reset password error: %s", err)
		return RespondError(c, err)
	}

	return c.JSON(APIResponse{
		Success: true,
		Message: "Password reset successful",
	})
}

// DeleteAccountPayload identifies the account to remove.
type DeleteAccountPayload struct {
	Email string `json:"email"`
}

// Validate will validate the payload
func (r DeleteAccountPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
	)
}

func (a *AuthController) DeleteAccount(c *fiber.Ctx) error {
	payload := new(DeleteAccountPayload)

	if err := c.BodyParser(payload); err != nil {
		a.Logger.Error("delete account parse payload: %s", err)
		return RespondError(c, ErrUnableToParseData)
	}

	if err := payload.Validate(); err != nil {
		a.Logger.Error("delete account validate payload: %s", err)
		return c.Status(fiber.StatusBadRequest).JSON(APIResponse{
			Success: false,
			Error:   err.Error(),
			Code:    TextCodeValidation,
		})
	}

	handler := NewDeleteAccountHandler(a.Repo)

	if err := handler.Execute(c.Context(), DeleteAccountMessage{Email: payload.Email}); err != nil {
		a.Logger.Error("delete account error: %s", err)
		return RespondError(c, err)
	}

	return c.JSON(APIResponse{
		Success: true,
		Message: "Account deleted successfully",
	})
}

func (a *AuthController) CheckAuth(c *fiber.Ctx) error {
	token := GetSessionToken(c, a.Config)

	identity, err := a.Auth.VerifySession(c.Context(), token)
	if err != nil {
		a.Logger.Error("check auth error: %s", err)
		return RespondError(c, err)
	}

	account, err := a.Repo.Accounts().GetByIdentifier(c.Context(), identity.ID())
	if err != nil {
		a.Logger.Error("check auth account lookup error: %s", err)
		return RespondError(c, ErrInvalidSession)
	}

	return c.JSON(APIResponse{
		Success: true,
		Account: account,
	})
}
