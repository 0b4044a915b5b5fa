package invoice

import (
	"context"
	"fmt"

	"oflo/internal/core/id"
	"oflo/internal/core/tx"
	"oflo/pkg/logger"
)

// UpgradeStore exposes the rows that data upgrades rewrite.
type UpgradeStore interface {
	// VersionsWithoutSummary returns versions whose summary row was never stored.
	VersionsWithoutSummary(ctx context.Context) ([]*Version, error)

	// SetVersionSummary stores the summary row of one version.
	SetVersionSummary(ctx context.Context, versionID id.ID, s *SummaryItem) error

	// NormalizeStatus sets status to final on invoices and versions that have
	// no recognised status. Returns the number of rows changed.
	NormalizeStatus(ctx context.Context) (int64, error)
}

// UpgradeReport counts rows touched by Upgrade.
type UpgradeReport struct {
	SummariesBuilt  int
	StatusesChanged int64
}

// Upgrader brings rows written by older schema versions up to date.
// Running it again on upgraded data changes nothing.
type Upgrader struct {
	store     UpgradeStore
	txManager tx.Manager
}

// NewUpgrader creates a data upgrader.
func NewUpgrader(store UpgradeStore, txManager tx.Manager) *Upgrader {
	return &Upgrader{store: store, txManager: txManager}
}

// Run executes every backfill in one transaction.
func (u *Upgrader) Run(ctx context.Context) (UpgradeReport, error) {
	var report UpgradeReport

	err := u.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		n, err := u.backfillSummary(ctx)
		if err != nil {
			return err
		}
		report.SummariesBuilt = n

		changed, err := u.store.NormalizeStatus(ctx)
		if err != nil {
			return fmt.Errorf("normalize status: %w", err)
		}
		report.StatusesChanged = changed
		return nil
	})
	if err != nil {
		return UpgradeReport{}, err
	}

	logger.Info(ctx, "invoice data upgraded",
		"summaries_built", report.SummariesBuilt,
		"statuses_changed", report.StatusesChanged)
	return report, nil
}

func (u *Upgrader) backfillSummary(ctx context.Context) (int, error) {
	versions, err := u.store.VersionsWithoutSummary(ctx)
	if err != nil {
		return 0, fmt.Errorf("list versions without summary: %w", err)
	}

	built := 0
	for _, v := range versions {
		s := BuildSummary(v.Items)
		if s == nil {
			// nothing to summarise
			continue
		}
		if err := u.store.SetVersionSummary(ctx, v.ID, s); err != nil {
			return built, fmt.Errorf("set summary of version %d: %w", v.ID, err)
		}
		built++
	}
	return built, nil
}
