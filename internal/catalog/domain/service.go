package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/cirrusops/revenue/internal/pricing"
)

type Service interface {
	// Snapshot assembles the organization's full static pricing configuration.
	Snapshot(ctx context.Context, orgID snowflake.ID) (*pricing.Catalog, error)
	// Template assembles one active quote template with its ordered sections,
	// products, and tiers.
	Template(ctx context.Context, orgID snowflake.ID, key string) (*pricing.Template, error)
	ListTemplates(ctx context.Context, orgID snowflake.ID) ([]QuoteTemplate, error)
}

var (
	ErrTemplateNotFound = errors.New("template_not_found")
)
