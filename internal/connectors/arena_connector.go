package connectors

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"plm-connector/internal/common/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	arenaSessionHeader   = "arena_session_id"
	arenaCompletedChange = "COMPLETED"
	arenaPageSize        = 400
	maxArenaResponseSize = 10 * 1024 * 1024
)

// ArenaConnector reads items from the Arena PLM REST API.
type ArenaConnector struct {
	baseURL    string
	creds      ArenaCredentials
	httpClient *http.Client
	logger     *zap.Logger

	mu        sync.Mutex
	sessionID string
}

func NewArenaConnector(baseURL string, creds ArenaCredentials, client *http.Client, logger *zap.Logger) *ArenaConnector {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ArenaConnector{
		baseURL:    strings.TrimRight(baseURL, "/"),
		creds:      creds,
		httpClient: client,
		logger:     logger,
	}
}

// Arena wire shapes

type arenaLoginRequest struct {
	WorkspaceID string `json:"workspaceId"`
	Email       string `json:"email"`
	Password    string `json:"password"`
}

type arenaLoginResponse struct {
	SessionID string `json:"arenaSessionId"`
}

type arenaList[T any] struct {
	Count   int `json:"count"`
	Results []T `json:"results"`
}

type arenaChange struct {
	GUID            string `json:"guid"`
	Number          string `json:"number"`
	LifecycleStatus struct {
		Type string `json:"type"`
	} `json:"lifecycleStatus"`
}

type arenaRef struct {
	GUID   string `json:"guid"`
	Number string `json:"number"`
}

type arenaAffectedItem struct {
	NewRevisionItem arenaRef `json:"newRevisionItem"`
}

type arenaNamed struct {
	Name string `json:"name"`
}

type arenaAttribute struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type arenaItem struct {
	GUID                 string           `json:"guid"`
	Number               string           `json:"number"`
	Name                 string           `json:"name"`
	Description          string           `json:"description"`
	RevisionNumber       string           `json:"revisionNumber"`
	Category             arenaNamed       `json:"category"`
	UOM                  string           `json:"uom"`
	LifecyclePhase       arenaNamed       `json:"lifecyclePhase"`
	AdditionalAttributes []arenaAttribute `json:"additionalAttributes"`
}

type arenaBOMLine struct {
	LineNumber int             `json:"lineNumber"`
	Quantity   decimal.Decimal `json:"quantity"`
	Item       arenaRef        `json:"item"`
}

func (a arenaItem) toModel(status string, bom []arenaBOMLine) models.Item {
	item := models.Item{
		GUID:           a.GUID,
		Number:         a.Number,
		Status:         status,
		Name:           a.Name,
		Description:    a.Description,
		Category:       a.Category.Name,
		Revision:       a.RevisionNumber,
		UnitOfMeasure:  a.UOM,
		LifecyclePhase: a.LifecyclePhase.Name,
	}
	if len(a.AdditionalAttributes) > 0 {
		item.Attributes = make(map[string]string, len(a.AdditionalAttributes))
		for _, attr := range a.AdditionalAttributes {
			item.Attributes[attr.Name] = attr.Value
		}
	}
	for _, line := range bom {
		item.BOM = append(item.BOM, models.BOMLine{
			LineNumber: line.LineNumber,
			ItemGUID:   line.Item.GUID,
			ItemNumber: line.Item.Number,
			Quantity:   line.Quantity,
		})
	}
	return item
}

// TestConnection logs in with the stored credentials.
func (c *ArenaConnector) TestConnection(ctx context.Context) error {
	return c.login(ctx)
}

// ListCompletedItems fails only when the change listings themselves cannot be read.
// An affected item that cannot be loaded is returned with LoadError set so the batch can continue.
func (c *ArenaConnector) ListCompletedItems(ctx context.Context) ([]models.Item, error) {
	changes, err := listAll[arenaChange](ctx, c, "/changes?lifecycleStatus.type="+arenaCompletedChange)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var items []models.Item
	for _, change := range changes {
		if !strings.EqualFold(change.LifecycleStatus.Type, arenaCompletedChange) {
			continue
		}

		affected, err := listAll[arenaAffectedItem](ctx, c, "/changes/"+url.PathEscape(change.GUID)+"/items")
		if err != nil {
			return nil, err
		}

		for _, a := range affected {
			ref := a.NewRevisionItem
			if ref.GUID == "" || seen[ref.GUID] {
				continue
			}
			seen[ref.GUID] = true

			item, err := c.loadItem(ctx, ref.GUID, models.ItemStatusCompleted)
			if err != nil {
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				c.logger.Warn("Arena item could not be loaded",
					zap.String("change", change.Number),
					zap.String("item_guid", ref.GUID),
					zap.String("item_number", ref.Number),
					zap.Error(err),
				)
				items = append(items, models.Item{
					GUID:      ref.GUID,
					Number:    ref.Number,
					Status:    models.ItemStatusCompleted,
					LoadError: err.Error(),
				})
				continue
			}
			items = append(items, *item)
		}
	}

	c.logger.Debug("Arena completed items listed", zap.Int("changes", len(changes)), zap.Int("items", len(items)))
	return items, nil
}

// listAll follows offset/limit paging until the reported count is reached or a short page arrives.
func listAll[T any](ctx context.Context, c *ArenaConnector, path string) ([]T, error) {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}

	var all []T
	for offset := 0; ; offset += arenaPageSize {
		var page arenaList[T]
		if err := c.getJSON(ctx, fmt.Sprintf("%s%soffset=%d&limit=%d", path, sep, offset, arenaPageSize), &page); err != nil {
			return nil, err
		}
		all = append(all, page.Results...)
		if len(page.Results) < arenaPageSize || len(all) >= page.Count {
			return all, nil
		}
	}
}

func (c *ArenaConnector) GetItemByNumber(ctx context.Context, number string) (*models.Item, error) {
	var found arenaList[arenaItem]
	if err := c.getJSON(ctx, "/items?number="+url.QueryEscape(number), &found); err != nil {
		return nil, err
	}

	for _, candidate := range found.Results {
		if candidate.Number == number {
			return c.loadItem(ctx, candidate.GUID, models.ItemStatusCompleted)
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrItemNotFound, number)
}

func (c *ArenaConnector) GetRawItem(ctx context.Context, guid string) (*RawItem, error) {
	var raw RawItem
	if err := c.getJSON(ctx, "/items/"+url.PathEscape(guid), &raw.Item); err != nil {
		return nil, err
	}
	if err := c.getJSON(ctx, "/items/"+url.PathEscape(guid)+"/bom", &raw.BOM); err != nil {
		return nil, err
	}
	return &raw, nil
}

func (c *ArenaConnector) loadItem(ctx context.Context, guid, status string) (*models.Item, error) {
	var detail arenaItem
	if err := c.getJSON(ctx, "/items/"+url.PathEscape(guid), &detail); err != nil {
		return nil, err
	}

	var bom arenaList[arenaBOMLine]
	if err := c.getJSON(ctx, "/items/"+url.PathEscape(guid)+"/bom", &bom); err != nil {
		return nil, err
	}

	item := detail.toModel(status, bom.Results)
	return &item, nil
}

func (c *ArenaConnector) login(ctx context.Context) error {
	body, err := json.Marshal(arenaLoginRequest{
		WorkspaceID: c.creds.WorkspaceID,
		Email:       c.creds.Email,
		Password:    c.creds.Password,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/login", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: arena login: %v", ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: arena rejected the credentials", ErrConfiguration)
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("%w: arena login returned %d", ErrSourceUnavailable, resp.StatusCode)
	}

	var out arenaLoginResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxArenaResponseSize)).Decode(&out); err != nil {
		return fmt.Errorf("%w: arena login response: %v", ErrSourceUnavailable, err)
	}
	if out.SessionID == "" {
		return fmt.Errorf("%w: arena login returned no session", ErrSourceUnavailable)
	}

	c.mu.Lock()
	c.sessionID = out.SessionID
	c.mu.Unlock()

	c.logger.Debug("Arena login successful", zap.String("workspace_id", c.creds.WorkspaceID))
	return nil
}

func (c *ArenaConnector) session(ctx context.Context) (string, error) {
	c.mu.Lock()
	id := c.sessionID
	c.mu.Unlock()
	if id != "" {
		return id, nil
	}
	if err := c.login(ctx); err != nil {
		return "", err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionID, nil
}

// getJSON issues an authenticated GET, logging in again once if the session expired.
func (c *ArenaConnector) getJSON(ctx context.Context, path string, out interface{}) error {
	for attempt := 0; ; attempt++ {
		sessionID, err := c.session(ctx)
		if err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
		if err != nil {
			return err
		}
		req.Header.Set(arenaSessionHeader, sessionID)
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("%w: GET %s: %v", ErrSourceUnavailable, path, err)
		}

		data, readErr := io.ReadAll(io.LimitReader(resp.Body, maxArenaResponseSize))
		resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusUnauthorized && attempt == 0:
			c.mu.Lock()
			c.sessionID = ""
			c.mu.Unlock()
			continue
		case resp.StatusCode == http.StatusNotFound:
			return fmt.Errorf("%w: GET %s", ErrItemNotFound, path)
		case resp.StatusCode != http.StatusOK:
			return fmt.Errorf("%w: GET %s returned %d", ErrSourceUnavailable, path, resp.StatusCode)
		}
		if readErr != nil {
			return fmt.Errorf("%w: GET %s: %v", ErrSourceUnavailable, path, readErr)
		}

		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("%w: GET %s: decode: %v", ErrSourceUnavailable, path, err)
		}
		return nil
	}
}

