package handler

import (
	"log/slog"

	"github.com/nursenav/listings-be/internal/listing"
	"github.com/nursenav/listings-be/internal/listing/query"
	"github.com/nursenav/listings-be/internal/taxonomy"
)

// Dependencies holds everything the handlers need.
type Dependencies struct {
	Logger   *slog.Logger
	Registry *taxonomy.Registry
	Resolver *query.Resolver
	Pages    *listing.Service
}

// ListingHandler serves the listing-page endpoints.
type ListingHandler struct {
	logger   *slog.Logger
	registry *taxonomy.Registry
	resolver *query.Resolver
	pages    *listing.Service
}

// NewListingHandler creates a ListingHandler instance.
func NewListingHandler(deps *Dependencies) *ListingHandler {
	return &ListingHandler{
		logger:   deps.Logger,
		registry: deps.Registry,
		resolver: deps.Resolver,
		pages:    deps.Pages,
	}
}
