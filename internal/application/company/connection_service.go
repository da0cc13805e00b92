package company

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/supplychain/backend/internal/application/access"
	"github.com/supplychain/backend/internal/domain/company"
	"github.com/supplychain/backend/internal/domain/identity"
	"github.com/supplychain/backend/internal/domain/partner"
	"github.com/supplychain/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ConnectionService handles retailer requests to trade with a company
type ConnectionService struct {
	companies   company.CompanyRepository
	connections company.ConnectionRepository
	profiles    partner.RetailerProfileRepository
	retailers   partner.RetailerRepository
	guard       *access.Guard
	tx          shared.TxManager
	events      shared.EventPublisher
	logger      *zap.Logger
}

// NewConnectionService creates a new ConnectionService
func NewConnectionService(
	companies company.CompanyRepository,
	connections company.ConnectionRepository,
	profiles partner.RetailerProfileRepository,
	retailers partner.RetailerRepository,
	guard *access.Guard,
	tx shared.TxManager,
	events shared.EventPublisher,
	logger *zap.Logger,
) *ConnectionService {
	return &ConnectionService{
		companies:   companies,
		connections: connections,
		profiles:    profiles,
		retailers:   retailers,
		guard:       guard,
		tx:          tx,
		events:      events,
		logger:      logger,
	}
}

// Request asks a company to accept the caller's retailer profile
func (s *ConnectionService) Request(ctx context.Context, actor identity.Actor, companyID uuid.UUID, message string) (*ConnectionResponse, error) {
	profile, err := s.callerProfile(ctx, actor)
	if err != nil {
		return nil, err
	}
	if _, err := s.companies.FindByID(ctx, companyID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewNotFoundError("Company")
		}
		return nil, err
	}

	open, err := s.connections.FindOpen(ctx, companyID, profile.ID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if open != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A request to this company is already pending or approved")
	}

	conn, err := company.NewConnectionRequest(companyID, profile.ID, message)
	if err != nil {
		return nil, err
	}
	if err := s.connections.Save(ctx, conn); err != nil {
		return nil, err
	}
	if err := shared.PublishAndClear(ctx, s.events, conn); err != nil {
		s.logger.Error("Failed to publish connection events", zap.Error(err))
	}
	s.logger.Info("Connection requested",
		zap.String("company_id", companyID.String()),
		zap.String("retailer_profile_id", profile.ID.String()))

	resp := ToConnectionResponse(conn)
	return &resp, nil
}

// Respond approves or rejects a pending request. Approval creates the
// company's retailer record for the profile.
func (s *ConnectionService) Respond(ctx context.Context, actor identity.Actor, connectionID uuid.UUID, input RespondInput) (*ConnectionResponse, error) {
	conn, err := s.connections.FindByID(ctx, connectionID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewNotFoundError("Connection")
		}
		return nil, err
	}
	c, err := s.guard.AuthorizeCompany(ctx, actor, conn.CompanyID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && !c.IsOwnedBy(actor.UserID) {
		return nil, shared.ErrForbidden
	}

	resp := ToConnectionResponse(conn)
	switch company.ConnectionStatus(input.Status) {
	case company.ConnectionApproved:
		retailer, err := s.approve(ctx, actor, conn, input)
		if err != nil {
			return nil, err
		}
		resp = ToConnectionResponse(conn)
		resp.RetailerID = &retailer.ID
	case company.ConnectionRejected:
		if err := conn.Reject(); err != nil {
			return nil, err
		}
		if err := s.connections.Save(ctx, conn); err != nil {
			return nil, err
		}
		resp = ToConnectionResponse(conn)
	default:
		return nil, shared.NewDomainError("INVALID_STATUS", "Status must be approved or rejected")
	}

	if err := shared.PublishAndClear(ctx, s.events, conn); err != nil {
		s.logger.Error("Failed to publish connection events", zap.Error(err))
	}
	s.logger.Info("Connection answered",
		zap.String("connection_id", conn.ID.String()),
		zap.String("status", string(conn.Status)))
	return &resp, nil
}

func (s *ConnectionService) approve(ctx context.Context, actor identity.Actor, conn *company.Connection, input RespondInput) (*partner.Retailer, error) {
	profile, err := s.profiles.FindByID(ctx, conn.RetailerProfileID)
	if err != nil {
		return nil, err
	}
	if err := conn.Approve(actor.UserID, input.CreditLimit, input.PaymentTerms); err != nil {
		return nil, err
	}
	retailer, err := partner.NewRetailerFromProfile(conn.CompanyID, profile, decimal.Zero)
	if err != nil {
		return nil, err
	}
	retailer.SetCreatedBy(actor.UserID)

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.connections.Save(ctx, conn); err != nil {
			return err
		}
		return s.retailers.Save(ctx, retailer)
	})
	if err != nil {
		return nil, err
	}
	return retailer, nil
}

// ListForCompany lists a company's connections, optionally by status
func (s *ConnectionService) ListForCompany(ctx context.Context, actor identity.Actor, companyID uuid.UUID, status string) ([]ConnectionResponse, error) {
	if _, err := s.guard.AuthorizeCompany(ctx, actor, companyID); err != nil {
		return nil, err
	}
	st := company.ConnectionStatus(status)
	if status != "" && !st.IsValid() {
		return nil, shared.NewDomainError("INVALID_STATUS", "Unknown connection status: "+status)
	}
	connections, err := s.connections.FindByCompany(ctx, companyID, st)
	if err != nil {
		return nil, err
	}
	return ToConnectionResponses(connections), nil
}

// ListMine lists the caller's own connection requests
func (s *ConnectionService) ListMine(ctx context.Context, actor identity.Actor) ([]ConnectionResponse, error) {
	profile, err := s.callerProfile(ctx, actor)
	if err != nil {
		return nil, err
	}
	connections, err := s.connections.FindByProfile(ctx, profile.ID)
	if err != nil {
		return nil, err
	}
	return ToConnectionResponses(connections), nil
}

func (s *ConnectionService) callerProfile(ctx context.Context, actor identity.Actor) (*partner.RetailerProfile, error) {
	if !actor.HasRole(identity.RoleRetailer) {
		return nil, shared.ErrForbidden
	}
	profile, err := s.profiles.FindByUserID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("PROFILE_REQUIRED", "Create a retailer profile first")
		}
		return nil, err
	}
	return profile, nil
}
