package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/vedran77/jobly/internal/authz"
	"github.com/vedran77/jobly/internal/domain"
	"github.com/vedran77/jobly/internal/repository"
	"github.com/vedran77/jobly/pkg/validator"
)

type ListingService struct {
	listingRepo repository.ListingRepository
	logger      *slog.Logger
}

func NewListingService(listingRepo repository.ListingRepository, logger *slog.Logger) *ListingService {
	return &ListingService{listingRepo: listingRepo, logger: resolveLogger(logger)}
}

// CreateListingInput describes a new listing. HostUsername defaults to the
// acting admin.
type CreateListingInput struct {
	Name         string `json:"name" validate:"required,max=100"`
	Description  string `json:"description" validate:"max=2000"`
	Price        int    `json:"price" validate:"gte=0"`
	Zipcode      string `json:"zipcode" validate:"required,max=10"`
	Capacity     int    `json:"capacity" validate:"gte=1"`
	PhotoURL     string `json:"photoUrl" validate:"omitempty,url"`
	Amenities    string `json:"amenities" validate:"max=2000"`
	HostUsername string `json:"hostUsername" validate:"omitempty,max=25"`
}

func (s *ListingService) Create(ctx context.Context, p *domain.Principal, input CreateListingInput) (*domain.Listing, error) {
	if err := authz.RequireAdmin(p); err != nil {
		return nil, err
	}
	if errs := validator.Struct(input); errs.HasErrors() {
		return nil, errs
	}

	host := input.HostUsername
	if host == "" {
		host = p.Username
	}

	listing := &domain.Listing{
		Name:         input.Name,
		Description:  input.Description,
		Price:        input.Price,
		Zipcode:      input.Zipcode,
		Capacity:     input.Capacity,
		PhotoURL:     input.PhotoURL,
		Amenities:    input.Amenities,
		HostUsername: host,
	}
	if err := s.listingRepo.Create(ctx, listing); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, validator.ValidationErrors{"hostUsername": "must name an existing user"}
		}
		return nil, fmt.Errorf("creating listing: %w", err)
	}

	s.logger.Info("listing created", "listing_id", listing.ID, "host", host, "by", p.Username)
	return listing, nil
}

func (s *ListingService) List(ctx context.Context) ([]domain.ListingSummary, error) {
	listings, err := s.listingRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing listings: %w", err)
	}
	return listings, nil
}

// Search returns listings whose name contains term, ignoring case. An empty
// term matches every listing.
func (s *ListingService) Search(ctx context.Context, term string) ([]domain.Listing, error) {
	listings, err := s.listingRepo.Search(ctx, strings.TrimSpace(term))
	if err != nil {
		return nil, fmt.Errorf("searching listings: %w", err)
	}
	return listings, nil
}

func (s *ListingService) Get(ctx context.Context, id int) (*domain.Listing, error) {
	listing, err := s.listingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading listing: %w", err)
	}
	if listing == nil {
		return nil, domain.ErrListingNotFound
	}
	return listing, nil
}

func (s *ListingService) Remove(ctx context.Context, p *domain.Principal, id int) (int, error) {
	if err := authz.RequireAdmin(p); err != nil {
		return 0, err
	}

	if err := s.listingRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return 0, err
		}
		return 0, fmt.Errorf("deleting listing: %w", err)
	}

	s.logger.Info("listing removed", "listing_id", id, "by", p.Username)
	return id, nil
}
