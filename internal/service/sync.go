package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/ewalker114/lifelog/internal/logger"
	"github.com/ewalker114/lifelog/internal/store"
	"github.com/ewalker114/lifelog/models"
)

// SyncReport summarises one completed sync cycle.
type SyncReport struct {
	Pushed int
	Media  int
}

// SyncService pushes pending local entries to the sync server.
type SyncService struct {
	local  store.Backend
	remote store.Backend
}

// NewSyncService constructs a [SyncService]. local is the on-device store
// holding pending entries; remote is the server-facing backend the batch is
// pushed through.
func NewSyncService(local, remote store.Backend, log *logger.Logger) *SyncService {
	log.Debug().Msg("creating sync service")
	return &SyncService{local: local, remote: remote}
}

// Push uploads every pending local entry in one batch and records the
// server's confirmations. Entries stay pending until the server has
// confirmed them, so a cycle interrupted at any point is retried in full on
// the next run.
//
// An unreachable server surfaces as [store.ErrNetworkUnavailable]; callers
// on a timer are expected to treat it as a skipped cycle.
func (s *SyncService) Push(ctx context.Context) (SyncReport, error) {
	log := logger.FromContext(ctx)

	pending, err := s.local.PendingEntries(ctx)
	if err != nil {
		return SyncReport{}, fmt.Errorf("load pending entries: %w", err)
	}
	if len(pending) == 0 {
		return SyncReport{}, nil
	}

	resp, err := s.remote.PushSync(ctx, models.SyncPushRequest{Entries: pending, Length: len(pending)})
	if err != nil {
		if errors.Is(err, store.ErrNetworkUnavailable) {
			log.Debug().Str("func", "SyncService.Push").Msg("server unreachable, skipping sync cycle")
		}
		return SyncReport{}, fmt.Errorf("push entries: %w", err)
	}

	byLocalID := make(map[string]models.SyncEntry, len(pending))
	for _, item := range pending {
		byLocalID[item.Entry.LocalID] = item
	}

	report := SyncReport{}
	for _, result := range resp.Results {
		if err = s.local.MarkEntrySynced(ctx, result.LocalID, result.SyncedAt); err != nil {
			log.Err(err).
				Str("func", "SyncService.Push").
				Str("local_id", result.LocalID).
				Msg("failed to record sync confirmation")
			return report, fmt.Errorf("mark entry synced: %w", err)
		}
		report.Pushed++

		// Media confirmations come back in the order the attachments were
		// uploaded within the entry.
		item := byLocalID[result.LocalID]
		for i, remoteURL := range result.MediaURLs {
			if i >= len(item.Media) {
				break
			}
			if err = s.local.MarkMediaSynced(ctx, item.Media[i].ID, remoteURL, result.SyncedAt); err != nil {
				log.Err(err).
					Str("func", "SyncService.Push").
					Int64("media_id", item.Media[i].ID).
					Msg("failed to record media sync confirmation")
				return report, fmt.Errorf("mark media synced: %w", err)
			}
			report.Media++
		}
	}

	log.Info().
		Str("func", "SyncService.Push").
		Int("entries_count", report.Pushed).
		Int("media_count", report.Media).
		Msg("sync cycle completed")

	return report, nil
}
