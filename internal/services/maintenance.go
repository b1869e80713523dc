package services

import (
	"context"
	"fmt"

	"realestatecrm/internal/attachments"
	"realestatecrm/internal/repositories"
)

// PruneUploads removes stored files that no listing photo or user avatar
// references. With dryRun it only reports them.
func PruneUploads(ctx context.Context, listings repositories.ListingRepository, users repositories.UserRepository, files *attachments.Manager, dryRun bool) ([]string, error) {
	var referenced []string

	all, err := listings.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load listings: %w", err)
	}
	for _, l := range all {
		referenced = append(referenced, l.ImageURLs...)
	}

	accounts, err := users.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}
	for _, u := range accounts {
		if u.AvatarURL != "" {
			referenced = append(referenced, u.AvatarURL)
		}
	}

	return files.Prune(ctx, referenced, dryRun)
}
