package scan

import (
	"context"
	"errors"

	"assetscan/models"
)

var ErrCodeNotFound = errors.New("no asset found for code")

// Resolver turns a decoded code into the assets it identifies. An asset
// code yields one asset; a kit code yields every kit member with KitID set.
type Resolver interface {
	Resolve(ctx context.Context, code string) ([]models.ResolvedAsset, error)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(ctx context.Context, code string) ([]models.ResolvedAsset, error)

func (f ResolverFunc) Resolve(ctx context.Context, code string) ([]models.ResolvedAsset, error) {
	return f(ctx, code)
}
