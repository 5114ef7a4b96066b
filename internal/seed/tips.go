package seed

import (
	"context"
	_ "embed"
	"fmt"

	"wastewatch/internal/store"
	"wastewatch/pkg/types"

	"gopkg.in/yaml.v3"
)

//go:embed tips.yaml
var tipsYAML []byte

// LoadTips parses the embedded tip definitions.
func LoadTips() ([]*types.Tip, error) {
	var tips []*types.Tip
	if err := yaml.Unmarshal(tipsYAML, &tips); err != nil {
		return nil, fmt.Errorf("failed to parse tips.yaml: %w", err)
	}

	seen := make(map[string]bool, len(tips))
	for _, tip := range tips {
		if tip.ID == "" {
			return nil, fmt.Errorf("tip %q has no id", tip.Title)
		}
		if seen[tip.ID] {
			return nil, fmt.Errorf("duplicate tip id %s", tip.ID)
		}
		seen[tip.ID] = true
	}

	return tips, nil
}

// SyncTips makes the tips collection match tips.yaml:
// - Inserts tips that don't exist
// - Updates tips that have changed
// - Deletes tips that aren't in the file
func SyncTips(ctx context.Context, repo store.TipStore) error {
	tips, err := LoadTips()
	if err != nil {
		return err
	}

	fmt.Println("Starting tip sync...")
	fmt.Printf("  Seed file contains %d tips\n", len(tips))

	seedIDs := make(map[string]bool)
	for _, tip := range tips {
		seedIDs[tip.ID] = true
	}

	existing, err := repo.Tips(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch existing tips: %w", err)
	}
	fmt.Printf("  Store contains %d tips\n", len(existing))

	deletedCount := 0
	for _, existingTip := range existing {
		if !seedIDs[existingTip.ID] {
			fmt.Printf("  Deleting tip: %s (id: %s)\n", existingTip.Title, existingTip.ID)
			if err := repo.DeleteTip(ctx, existingTip.ID); err != nil {
				return fmt.Errorf("failed to delete tip %s: %w", existingTip.ID, err)
			}
			deletedCount++
		}
	}

	upsertedCount := 0
	for _, tip := range tips {
		if err := repo.UpsertTip(ctx, tip); err != nil {
			return fmt.Errorf("failed to upsert tip %s: %w", tip.ID, err)
		}
		upsertedCount++
	}

	fmt.Printf("Tip sync complete: %d upserted, %d deleted\n", upsertedCount, deletedCount)

	return nil
}
