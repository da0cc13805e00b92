package partner

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/supplychain/backend/internal/domain/company"
	"github.com/supplychain/backend/internal/domain/identity"
	"github.com/supplychain/backend/internal/domain/partner"
	"github.com/supplychain/backend/internal/domain/shared"
	"github.com/supplychain/backend/internal/domain/trade"
	"go.uber.org/zap"
)

// ProfileService lets retailer users manage their own business profile
type ProfileService struct {
	profiles    partner.RetailerProfileRepository
	users       identity.UserRepository
	retailers   partner.RetailerRepository
	connections company.ConnectionRepository
	orders      trade.OrderRepository
	logger      *zap.Logger
}

// NewProfileService creates a new ProfileService
func NewProfileService(
	profiles partner.RetailerProfileRepository,
	users identity.UserRepository,
	retailers partner.RetailerRepository,
	connections company.ConnectionRepository,
	orders trade.OrderRepository,
	logger *zap.Logger,
) *ProfileService {
	return &ProfileService{
		profiles:    profiles,
		users:       users,
		retailers:   retailers,
		connections: connections,
		orders:      orders,
		logger:      logger,
	}
}

// Create registers the caller's profile; a user has at most one.
// The account e-mail is used when the input has none.
func (s *ProfileService) Create(ctx context.Context, actor identity.Actor, input ProfileInput) (*ProfileResponse, error) {
	if !actor.HasRole(identity.RoleRetailer) {
		return nil, shared.ErrForbidden
	}
	existing, err := s.profiles.FindByUserID(ctx, actor.UserID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Retailer profile already exists")
	}
	if strings.TrimSpace(input.Email) == "" {
		user, err := s.users.FindByID(ctx, actor.UserID)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		if user != nil {
			input.Email = user.Email
		}
	}

	p, err := partner.NewRetailerProfile(actor.UserID, input.details())
	if err != nil {
		return nil, err
	}
	if err := s.profiles.Save(ctx, p); err != nil {
		return nil, err
	}
	s.logger.Info("Retailer profile created", zap.String("profile_id", p.ID.String()), zap.String("user_id", actor.UserID.String()))
	resp := ToProfileResponse(p)
	return &resp, nil
}

// Get returns the caller's profile
func (s *ProfileService) Get(ctx context.Context, actor identity.Actor) (*ProfileResponse, error) {
	p, err := s.load(ctx, actor)
	if err != nil {
		return nil, err
	}
	resp := ToProfileResponse(p)
	return &resp, nil
}

// Update replaces the caller's profile details
func (s *ProfileService) Update(ctx context.Context, actor identity.Actor, input ProfileInput) (*ProfileResponse, error) {
	p, err := s.load(ctx, actor)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Email) == "" {
		input.Email = p.Email
	}
	if err := p.Update(input.details()); err != nil {
		return nil, err
	}
	if err := s.profiles.Save(ctx, p); err != nil {
		return nil, err
	}
	resp := ToProfileResponse(p)
	return &resp, nil
}

// Counts returns connected companies, open requests and orders placed through the caller's retailer records
func (s *ProfileService) Counts(ctx context.Context, actor identity.Actor) (*RetailerCounts, error) {
	p, err := s.load(ctx, actor)
	if err != nil {
		return nil, err
	}
	connected, err := s.connections.CountByProfile(ctx, p.ID, company.ConnectionApproved)
	if err != nil {
		return nil, err
	}
	pending, err := s.connections.CountByProfile(ctx, p.ID, company.ConnectionPending)
	if err != nil {
		return nil, err
	}

	counts := &RetailerCounts{ConnectedCompanies: connected, PendingRequests: pending}
	retailerIDs, err := s.RetailerIDs(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	if len(retailerIDs) > 0 {
		counts.TotalOrders, err = s.orders.Count(ctx, shared.Filter{}.With("retailer_id", retailerIDs))
		if err != nil {
			return nil, err
		}
	}
	return counts, nil
}

// RetailerIDs returns the retailer records bound to a profile
func (s *ProfileService) RetailerIDs(ctx context.Context, profileID uuid.UUID) ([]uuid.UUID, error) {
	retailers, err := s.retailers.FindByProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, len(retailers))
	for i, r := range retailers {
		ids[i] = r.ID
	}
	return ids, nil
}

func (s *ProfileService) load(ctx context.Context, actor identity.Actor) (*partner.RetailerProfile, error) {
	if !actor.HasRole(identity.RoleRetailer) {
		return nil, shared.ErrForbidden
	}
	p, err := s.profiles.FindByUserID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewNotFoundError("Retailer profile")
		}
		return nil, err
	}
	return p, nil
}
