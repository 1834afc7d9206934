package commands

import (
	"context"
	"errors"
	"time"

	"fastship/internal/pkg/errs"
	"fastship/internal/pkg/guard"
)

var ErrLogoutCommandIsNotConstructed = errors.New(
	"LogoutCommand must be created via NewLogoutCommand constructor",
)

// LogoutCommand revokes the access token the caller presented.
type LogoutCommand struct { //nolint:recvcheck //using for validation
	jti       string
	expiresAt time.Time

	guard guard.ConstructorGuard
}

func NewLogoutCommand(jti string, expiresAt time.Time) (LogoutCommand, error) {
	if jti == "" {
		return LogoutCommand{}, errs.NewValueIsRequiredError("jti")
	}
	return LogoutCommand{jti: jti, expiresAt: expiresAt, guard: guard.NewConstructorGuard()}, nil
}

func (c LogoutCommand) Validate() error {
	return c.guard.Validate(ErrLogoutCommandIsNotConstructed)
}

func (c LogoutCommand) JTI() string {
	return c.jti
}

type LogoutCommandHandler struct {
	tokens AccessTokenRevoker
}

func NewLogoutCommandHandler(tokens AccessTokenRevoker) LogoutCommandHandler {
	return LogoutCommandHandler{tokens: tokens}
}

func (h *LogoutCommandHandler) Handle(ctx context.Context, cmd LogoutCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	return h.tokens.Revoke(ctx, cmd.jti, cmd.expiresAt)
}
