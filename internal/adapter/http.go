package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/ewalker114/lifelog/internal/config"
	"github.com/ewalker114/lifelog/internal/logger"
	"github.com/ewalker114/lifelog/internal/store"
	"github.com/ewalker114/lifelog/models"
)

type remoteBackend struct {
	client *resty.Client
}

// NewRemoteBackend constructs the HTTP implementation of [store.Backend].
// It normalises and validates the base URL and configures the underlying
// client with the request timeout and bearer token from cfg. No connection
// is established here; the first failing call reports
// [store.ErrNetworkUnavailable].
func NewRemoteBackend(cfg config.ClientAdapter, log *logger.Logger) (store.Backend, error) {
	baseURL, err := normalizeBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter base url: %w", err)
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(cfg.RequestTimeout).
		SetHeader("Content-Type", "application/json")
	if token := strings.TrimSpace(cfg.Token); token != "" {
		client.SetAuthToken(token)
	}

	log.Debug().Str("base_url", baseURL).Msg("remote backend configured")

	return &remoteBackend{client: client}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

func (h *remoteBackend) EntriesSnapshot(ctx context.Context) (models.EntriesSnapshot, error) {
	resp, err := h.client.R().SetContext(ctx).Get("/api/entries")
	if err != nil {
		return models.EntriesSnapshot{}, fmt.Errorf("%w: %w", store.ErrNetworkUnavailable, err)
	}
	if err = mapHTTPError(resp, store.ErrEntryNotFound); err != nil {
		return models.EntriesSnapshot{}, err
	}

	var snapshot models.EntriesSnapshot
	if err = json.Unmarshal(resp.Body(), &snapshot); err != nil {
		return models.EntriesSnapshot{}, fmt.Errorf("decode entries response: %w", err)
	}

	return snapshot, nil
}

func (h *remoteBackend) SaveEntry(ctx context.Context, entry *models.Entry, tagIDs []int64) error {
	resp, err := h.client.R().
		SetContext(ctx).
		SetBody(models.SaveEntryRequest{Entry: *entry, TagIDs: tagIDs}).
		Post("/api/entries")
	if err != nil {
		return fmt.Errorf("%w: %w", store.ErrNetworkUnavailable, err)
	}
	if err = mapHTTPError(resp, store.ErrTagNotFound); err != nil {
		return err
	}

	var saved models.Entry
	if err = json.Unmarshal(resp.Body(), &saved); err != nil {
		return fmt.Errorf("decode save entry response: %w", err)
	}
	*entry = saved

	return nil
}

func (h *remoteBackend) EntryTags(ctx context.Context, entryID int64) ([]models.Tag, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		Get("/api/entries/" + strconv.FormatInt(entryID, 10) + "/tags")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", store.ErrNetworkUnavailable, err)
	}
	if err = mapHTTPError(resp, store.ErrEntryNotFound); err != nil {
		return nil, err
	}

	var tags []models.Tag
	if err = json.Unmarshal(resp.Body(), &tags); err != nil {
		return nil, fmt.Errorf("decode entry tags response: %w", err)
	}

	return tags, nil
}

func (h *remoteBackend) DeleteEntry(ctx context.Context, entryID int64) error {
	resp, err := h.client.R().
		SetContext(ctx).
		Delete("/api/entries/" + strconv.FormatInt(entryID, 10))
	if err != nil {
		return fmt.Errorf("%w: %w", store.ErrNetworkUnavailable, err)
	}

	return mapHTTPError(resp, store.ErrEntryNotFound)
}

func (h *remoteBackend) ListTags(ctx context.Context) ([]models.Tag, error) {
	resp, err := h.client.R().SetContext(ctx).Get("/api/tags")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", store.ErrNetworkUnavailable, err)
	}
	if err = mapHTTPError(resp, store.ErrTagNotFound); err != nil {
		return nil, err
	}

	var tags []models.Tag
	if err = json.Unmarshal(resp.Body(), &tags); err != nil {
		return nil, fmt.Errorf("decode tags response: %w", err)
	}

	return tags, nil
}

func (h *remoteBackend) FindTagByName(ctx context.Context, name string) (models.Tag, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		SetQueryParam("name", name).
		Get("/api/tags/by-name")
	if err != nil {
		return models.Tag{}, fmt.Errorf("%w: %w", store.ErrNetworkUnavailable, err)
	}
	if err = mapHTTPError(resp, store.ErrTagNotFound); err != nil {
		return models.Tag{}, err
	}

	var tag models.Tag
	if err = json.Unmarshal(resp.Body(), &tag); err != nil {
		return models.Tag{}, fmt.Errorf("decode tag response: %w", err)
	}

	return tag, nil
}

func (h *remoteBackend) SaveTag(ctx context.Context, tag *models.Tag) error {
	resp, err := h.client.R().
		SetContext(ctx).
		SetBody(models.CreateTagRequest{Name: tag.Name}).
		Post("/api/tags")
	if err != nil {
		return fmt.Errorf("%w: %w", store.ErrNetworkUnavailable, err)
	}
	if err = mapHTTPError(resp, store.ErrTagNotFound); err != nil {
		return err
	}

	var saved models.Tag
	if err = json.Unmarshal(resp.Body(), &saved); err != nil {
		return fmt.Errorf("decode save tag response: %w", err)
	}
	*tag = saved

	return nil
}

func (h *remoteBackend) DeleteTag(ctx context.Context, tagID int64) error {
	resp, err := h.client.R().
		SetContext(ctx).
		Delete("/api/tags/" + strconv.FormatInt(tagID, 10))
	if err != nil {
		return fmt.Errorf("%w: %w", store.ErrNetworkUnavailable, err)
	}

	return mapHTTPError(resp, store.ErrTagNotFound)
}

func (h *remoteBackend) SaveMedia(ctx context.Context, media *models.Media) error {
	resp, err := h.client.R().
		SetContext(ctx).
		SetBody(media).
		Post("/api/entries/" + strconv.FormatInt(media.EntryID, 10) + "/media")
	if err != nil {
		return fmt.Errorf("%w: %w", store.ErrNetworkUnavailable, err)
	}
	if err = mapHTTPError(resp, store.ErrEntryNotFound); err != nil {
		return err
	}

	var saved models.Media
	if err = json.Unmarshal(resp.Body(), &saved); err != nil {
		return fmt.Errorf("decode save media response: %w", err)
	}
	*media = saved

	return nil
}

func (h *remoteBackend) MediaForEntry(ctx context.Context, entryID int64) ([]models.Media, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		Get("/api/entries/" + strconv.FormatInt(entryID, 10) + "/media")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", store.ErrNetworkUnavailable, err)
	}
	if err = mapHTTPError(resp, store.ErrEntryNotFound); err != nil {
		return nil, err
	}

	var media []models.Media
	if err = json.Unmarshal(resp.Body(), &media); err != nil {
		return nil, fmt.Errorf("decode media response: %w", err)
	}

	return media, nil
}

// PendingEntries always reports an empty backlog: every write through this
// backend is already remotely persisted, so there is nothing to sync.
func (h *remoteBackend) PendingEntries(_ context.Context) ([]models.SyncEntry, error) {
	return nil, nil
}

// MarkEntrySynced is a no-op for the remote backend; see [remoteBackend.PendingEntries].
func (h *remoteBackend) MarkEntrySynced(_ context.Context, _ string, _ time.Time) error {
	return nil
}

// MarkMediaSynced is a no-op for the remote backend; see [remoteBackend.PendingEntries].
func (h *remoteBackend) MarkMediaSynced(_ context.Context, _ int64, _ string, _ time.Time) error {
	return nil
}

func (h *remoteBackend) PushSync(ctx context.Context, req models.SyncPushRequest) (models.SyncPushResponse, error) {
	req.Length = len(req.Entries)

	resp, err := h.client.R().
		SetContext(ctx).
		SetBody(req).
		Post("/api/sync/entries")
	if err != nil {
		return models.SyncPushResponse{}, fmt.Errorf("%w: %w", store.ErrNetworkUnavailable, err)
	}
	if err = mapHTTPError(resp, store.ErrEntryNotFound); err != nil {
		return models.SyncPushResponse{}, err
	}

	var pushResp models.SyncPushResponse
	if err = json.Unmarshal(resp.Body(), &pushResp); err != nil {
		return models.SyncPushResponse{}, fmt.Errorf("decode sync push response: %w", err)
	}

	return pushResp, nil
}

func (h *remoteBackend) Ping(ctx context.Context) error {
	resp, err := h.client.R().SetContext(ctx).Get("/api/ping")
	if err != nil {
		return fmt.Errorf("%w: %w", store.ErrNetworkUnavailable, err)
	}

	return mapHTTPError(resp, store.ErrStorageUnavailable)
}

func (h *remoteBackend) Close() error {
	return nil
}
