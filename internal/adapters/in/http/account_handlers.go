package http

import (
	"errors"
	"fmt"
	"net/http"

	"fastship/internal/core/application/usecases/commands"
	"fastship/internal/core/domain/model/account"
	"fastship/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// signup handles POST /{seller|partner}/signup.
func (s *Server) signup(role account.Role) echo.HandlerFunc {
	return func(c echo.Context) error {
		var (
			cmd commands.RegisterAccountCommand
			err error
		)

		switch role {
		case account.RoleSeller:
			var body SellerSignupRequest
			if err = c.Bind(&body); err != nil {
				return badRequest("Invalid request body")
			}
			cmd, err = commands.NewRegisterSellerCommand(body.Name, body.Email, body.Password, body.Address, body.ZipCode)
		case account.RolePartner:
			var body PartnerSignupRequest
			if err = c.Bind(&body); err != nil {
				return badRequest("Invalid request body")
			}
			cmd, err = commands.NewRegisterPartnerCommand(
				body.Name, body.Email, body.Password, body.ServiceableZipCodes, body.MaxHandlingCapacity)
		default:
			return fmt.Errorf("no signup for role %s", role)
		}
		if err != nil {
			return err
		}

		acc, err := s.handlers.RegisterAccount.Handle(c.Request().Context(), cmd)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusCreated, newAccountResponse(acc))
	}
}

// login handles POST /{seller|partner}/login with form fields username and password.
func (s *Server) login(role account.Role) echo.HandlerFunc {
	return func(c echo.Context) error {
		cmd, err := commands.NewLoginCommand(role, c.FormValue("username"), c.FormValue("password"))
		if err != nil {
			return err
		}

		token, err := s.handlers.Login.Handle(c.Request().Context(), cmd)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, TokenResponse{
			AccessToken: token.Token,
			TokenType:   "bearer",
			ExpiresAt:   token.ExpiresAt,
		})
	}
}

// verifyEmail handles GET /{seller|partner}/verify?token=. A bad link is the
// caller's input, so it is a 400 rather than an authentication failure.
func (s *Server) verifyEmail(role account.Role) echo.HandlerFunc {
	return func(c echo.Context) error {
		cmd, err := commands.NewVerifyEmailCommand(role, c.QueryParam("token"))
		if err != nil {
			return err
		}

		err = s.handlers.VerifyEmail.Handle(c.Request().Context(), cmd)
		if errors.Is(err, errs.ErrInvalidToken) {
			return badRequest("Verification link is invalid")
		}
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, DetailResponse{Detail: "Account is verified"})
	}
}

// forgotPassword handles GET /{seller|partner}/forgot_password?email=.
func (s *Server) forgotPassword(role account.Role) echo.HandlerFunc {
	return func(c echo.Context) error {
		cmd, err := commands.NewRequestPasswordResetCommand(role, c.QueryParam("email"))
		if err != nil {
			return err
		}
		if err = s.handlers.RequestPasswordReset.Handle(c.Request().Context(), cmd); err != nil {
			return err
		}
		return c.JSON(http.StatusOK, DetailResponse{Detail: "Check email for password reset link"})
	}
}

// resetPasswordForm handles GET /{seller|partner}/reset_password_form?token=.
func (s *Server) resetPasswordForm(role account.Role) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := c.QueryParam("token")
		if token == "" {
			return badRequest("token is required")
		}
		return c.Render(http.StatusOK, pageResetForm, formPage{
			Action: s.link("/"+role.String()+"/reset_password", token),
		})
	}
}

// resetPassword handles POST /{seller|partner}/reset_password?token= with form
// field password and renders the outcome page.
func (s *Server) resetPassword(role account.Role) echo.HandlerFunc {
	return func(c echo.Context) error {
		cmd, err := commands.NewResetPasswordCommand(role, c.QueryParam("token"), c.FormValue("password"))
		if err != nil {
			return c.Render(http.StatusUnprocessableEntity, pageResetResult, resetResultPage{Message: err.Error()})
		}

		ok, err := s.handlers.ResetPassword.Handle(c.Request().Context(), cmd)
		if err != nil {
			return err
		}
		if !ok {
			return c.Render(http.StatusBadRequest, pageResetResult, resetResultPage{
				Message: "The reset link is invalid or has expired.",
			})
		}
		return c.Render(http.StatusOK, pageResetResult, resetResultPage{Success: true})
	}
}

// Logout handles GET /{seller|partner}/logout and revokes the presented token.
func (s *Server) Logout(c echo.Context) error {
	claims, err := claimsFrom(c)
	if err != nil {
		return err
	}

	cmd, err := commands.NewLogoutCommand(claims.JTI, claims.ExpiresAt)
	if err != nil {
		return err
	}
	if err = s.handlers.Logout.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, DetailResponse{Detail: "Successfully logged out"})
}

// UpdatePartner handles POST /partner for the logged in partner.
func (s *Server) UpdatePartner(c echo.Context) error {
	claims, err := claimsFrom(c)
	if err != nil {
		return err
	}

	var body PartnerUpdateRequest
	if err = c.Bind(&body); err != nil {
		return badRequest("Invalid request body")
	}

	cmd, err := commands.NewUpdatePartnerCommand(claims.ID, commands.PartnerUpdate{
		Name:        body.Name,
		ServiceArea: body.ServiceableZipCodes,
		MaxCapacity: body.MaxHandlingCapacity,
	})
	if err != nil {
		return err
	}

	p, err := s.handlers.UpdatePartner.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newPartnerResponse(p))
}
