package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/neupaneprasanna/prasannarent-sub002/internal/apperr"
	"github.com/neupaneprasanna/prasannarent-sub002/internal/model"
	"github.com/neupaneprasanna/prasannarent-sub002/internal/repository"
	"github.com/neupaneprasanna/prasannarent-sub002/internal/utils"
)

const similarListingsLimit = 8

// ListingService handles the listing catalogue
type ListingService struct {
	store       ListingStore
	settings    *SettingsService
	pageSize    int
	maxPageSize int
	logger      *zap.Logger
}

// NewListingService creates a new listing service
func NewListingService(store ListingStore, settings *SettingsService, pageSize, maxPageSize int, logger *zap.Logger) *ListingService {
	return &ListingService{
		store:       store,
		settings:    settings,
		pageSize:    pageSize,
		maxPageSize: maxPageSize,
		logger:      logger,
	}
}

// Browse returns one page of ACTIVE listings, newest first
func (s *ListingService) Browse(ctx context.Context, category string, page, pageSize int) (*model.ListingPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = s.pageSize
	}
	if pageSize > s.maxPageSize {
		pageSize = s.maxPageSize
	}
	if c, ok := utils.MatchCategory(category, model.Categories, nil); ok {
		category = c
	}

	items, total, err := s.store.BrowseListings(ctx, model.BrowseFilter{
		Category: strings.TrimSpace(category),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		return nil, err
	}
	return &model.ListingPage{
		Items:    items,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
		HasMore:  page*pageSize < total,
	}, nil
}

// Get returns a listing. Listings that are not ACTIVE are only visible to their owner.
func (s *ListingService) Get(ctx context.Context, viewerID, id string) (*model.Listing, error) {
	l, err := s.store.GetListing(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.NotFound("listing not found")
	}
	if err != nil {
		return nil, err
	}
	if l.Status != model.ListingActive && l.OwnerID != viewerID {
		return nil, apperr.NotFound("listing not found")
	}
	return l, nil
}

// Create adds a listing owned by ownerID
func (s *ListingService) Create(ctx context.Context, ownerID string, in model.ListingInput) (*model.Listing, error) {
	title := strings.TrimSpace(in.Title)
	description := strings.TrimSpace(in.Description)
	if title == "" || description == "" {
		return nil, apperr.BadRequest("title and description are required")
	}
	category, ok := utils.MatchCategory(in.Category, model.Categories, nil)
	if !ok {
		return nil, apperr.BadRequest("category must be one of %s", strings.Join(model.Categories, ", "))
	}
	if in.Price == nil || *in.Price < 0 {
		return nil, apperr.BadRequest("price must be zero or more")
	}

	status := model.ListingActive
	if in.Status != "" {
		status = model.ListingStatus(strings.ToUpper(in.Status))
		if status != model.ListingActive && status != model.ListingDraft {
			return nil, apperr.BadRequest("status must be ACTIVE or DRAFT")
		}
	}
	available := true
	if in.Available != nil {
		available = *in.Available
	}

	count, err := s.store.CountOwnerListings(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	limit, err := s.settings.Int(ctx, SettingMaxListingsPerUser)
	if err != nil {
		return nil, err
	}
	if limit > 0 && count >= limit {
		return nil, apperr.BadRequest("listing limit of %d reached", limit)
	}

	ts := time.Now().UTC()
	l := &model.Listing{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		Title:       title,
		Description: description,
		Category:    category,
		Price:       *in.Price,
		Tags:        pq.StringArray(cleanList(in.Tags)),
		Location:    in.Location,
		Images:      pq.StringArray(cleanList(in.Images)),
		Status:      status,
		Available:   available,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}
	if err := s.store.CreateListing(ctx, l); err != nil {
		return nil, err
	}

	s.logger.Info("listing created", zap.String("listing_id", l.ID), zap.String("category", l.Category))
	return l, nil
}

// Update applies a partial update by the listing's owner
func (s *ListingService) Update(ctx context.Context, ownerID, id string, p model.ListingPatch) (*model.Listing, error) {
	l, err := s.ownedListing(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if p.Title != nil {
		if l.Title = strings.TrimSpace(*p.Title); l.Title == "" {
			return nil, apperr.BadRequest("title cannot be empty")
		}
	}
	if p.Description != nil {
		if l.Description = strings.TrimSpace(*p.Description); l.Description == "" {
			return nil, apperr.BadRequest("description cannot be empty")
		}
	}
	if p.Category != nil {
		c, ok := utils.MatchCategory(*p.Category, model.Categories, nil)
		if !ok {
			return nil, apperr.BadRequest("category must be one of %s", strings.Join(model.Categories, ", "))
		}
		l.Category = c
	}
	if p.Price != nil {
		if *p.Price < 0 {
			return nil, apperr.BadRequest("price must be zero or more")
		}
		l.Price = *p.Price
	}
	if p.Tags != nil {
		l.Tags = pq.StringArray(cleanList(*p.Tags))
	}
	if p.Location != nil {
		l.Location = p.Location
	}
	if p.Images != nil {
		l.Images = pq.StringArray(cleanList(*p.Images))
	}
	if p.Status != nil {
		status := model.ListingStatus(strings.ToUpper(*p.Status))
		if !status.Valid() || status == model.ListingBlocked {
			return nil, apperr.BadRequest("status must be ACTIVE, DRAFT or ARCHIVED")
		}
		l.Status = status
	}
	if p.Available != nil {
		l.Available = *p.Available
	}

	l.UpdatedAt = time.Now().UTC()
	if err := s.store.UpdateListing(ctx, l); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("listing not found")
		}
		return nil, err
	}
	return l, nil
}

// Archive hides a listing from search and browse
func (s *ListingService) Archive(ctx context.Context, ownerID, id string) error {
	if _, err := s.ownedListing(ctx, ownerID, id); err != nil {
		return err
	}
	err := s.store.SetListingStatus(ctx, id, model.ListingArchived)
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound("listing not found")
	}
	return err
}

// Similar returns ACTIVE listings nearest to id by embedding. The source
// listing must be visible to viewerID, as in Get.
func (s *ListingService) Similar(ctx context.Context, viewerID, id string) ([]model.Listing, error) {
	if _, err := s.Get(ctx, viewerID, id); err != nil {
		return nil, err
	}
	listings, err := s.store.SimilarListings(ctx, id, similarListingsLimit)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.NotFound("listing not found")
	}
	return listings, err
}

// Mine returns every listing of ownerID in any status
func (s *ListingService) Mine(ctx context.Context, ownerID string) ([]model.Listing, error) {
	return s.store.ListOwnerListings(ctx, ownerID)
}

func (s *ListingService) ownedListing(ctx context.Context, ownerID, id string) (*model.Listing, error) {
	l, err := s.store.GetListing(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.NotFound("listing not found")
	}
	if err != nil {
		return nil, err
	}
	if l.OwnerID != ownerID {
		return nil, apperr.Forbidden("only the owner can change this listing")
	}
	if l.Status == model.ListingBlocked {
		return nil, apperr.Forbidden("this listing was blocked by a moderator")
	}
	return l, nil
}

// cleanList trims entries and drops empty ones.
func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
