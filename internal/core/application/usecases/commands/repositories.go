// Package commands contains business operations that modify system state.
// Every command is a validated value built by its constructor and executed by
// a handler inside one unit of work. Side effects (e-mails, event stream)
// start only after a successful commit.
package commands

import (
	"context"
	"time"

	"fastship/internal/core/application/auth"
	"fastship/internal/core/application/views"
	"fastship/internal/core/domain/model/account"
	"fastship/internal/core/domain/model/kernel"
	"fastship/internal/core/domain/model/shipment"
	"fastship/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	ShipmentRepoFactory interface {
		ShipmentRepository() ports.ShipmentRepository
	}

	PartnerRepoFactory interface {
		PartnerRepository() ports.PartnerRepository
	}

	SellerRepoFactory interface {
		SellerRepository() ports.SellerRepository
	}

	ReviewRepoFactory interface {
		ReviewRepository() ports.ReviewRepository
	}

	// ShipmentUoW manages transactions of the shipment lifecycle. Partners are
	// part of it because assignment and terminal transitions move their
	// reservation counters; sellers because every result is a hydrated view.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   s, err := uow.ShipmentRepository().GetForUpdate(ctx, id)
	//   // ... append events, release capacity
	//
	//   err = uow.Commit(ctx)
	ShipmentUoW interface {
		TxManager
		ShipmentRepoFactory
		PartnerRepoFactory
		SellerRepoFactory
	}

	ShipmentUoWFactory interface {
		Create() ShipmentUoW
	}

	// ReviewUoW manages transactions for review submission.
	ReviewUoW interface {
		TxManager
		ShipmentRepoFactory
		ReviewRepoFactory
	}

	ReviewUoWFactory interface {
		Create() ReviewUoW
	}

	// AccountUoW manages transactions for seller and partner accounts.
	AccountUoW interface {
		TxManager
		SellerRepoFactory
		PartnerRepoFactory
	}

	AccountUoWFactory interface {
		Create() AccountUoW
	}
)

// Collaborators that run outside of the transaction.
type (
	// ShipmentNotifier runs the after-commit side effects of a shipment change.
	ShipmentNotifier interface {
		ShipmentChanged(ctx context.Context, view views.ShipmentView, appended []*shipment.Event)
	}

	// AccountMailer sends the account e-mails.
	AccountMailer interface {
		SendVerification(ctx context.Context, role account.Role, acc account.Account, token string)
		SendPasswordReset(ctx context.Context, role account.Role, acc account.Account, token string)
	}

	AccessTokenIssuer interface {
		IssueAccess(subject auth.Subject) (auth.AccessToken, error)
	}

	AccessTokenRevoker interface {
		Revoke(ctx context.Context, jti string, expiresAt time.Time) error
	}

	VerificationTokens interface {
		IssueVerificationToken(id kernel.UUID, email kernel.Email) (string, error)
		VerifyVerificationToken(token string) (kernel.UUID, bool)
	}

	ResetTokens interface {
		IssueResetToken(id kernel.UUID) (string, error)
		VerifyResetToken(token string) (kernel.UUID, bool)
	}

	ReviewTokenVerifier interface {
		VerifyReviewToken(token string) (kernel.UUID, bool)
	}
)
