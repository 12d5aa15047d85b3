package connectors

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"plm-connector/internal/common/models"
	"plm-connector/internal/config"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var (
	// ErrConfiguration means credentials are missing or rejected. Fails a pass before any item.
	ErrConfiguration = errors.New("configuration error")
	// ErrSourceUnavailable means the PLM system could not be read.
	ErrSourceUnavailable = errors.New("source unavailable")
	// ErrItemNotFound means no PLM item has the requested number or GUID.
	ErrItemNotFound = errors.New("item not found")
)

// DestinationError is a failed write or lookup against the commerce system.
type DestinationError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *DestinationError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("cin7 %s failed: %s", e.Op, e.Message)
	}
	return fmt.Sprintf("cin7 %s failed: %d %s", e.Op, e.StatusCode, e.Message)
}

// ItemSource reads items from the PLM system.
type ItemSource interface {
	// ListCompletedItems returns the items affected by completed changes, in change order.
	ListCompletedItems(ctx context.Context) ([]models.Item, error)
	// GetItemByNumber looks an item up by its business key.
	GetItemByNumber(ctx context.Context, number string) (*models.Item, error)
	// GetRawItem returns the unmapped item document and its BOM for inspection.
	GetRawItem(ctx context.Context, guid string) (*RawItem, error)
	TestConnection(ctx context.Context) error
}

// ProductDestination writes products to the commerce system.
type ProductDestination interface {
	// FindProductByCode returns nil, nil when no product carries the code.
	FindProductByCode(ctx context.Context, code string) (*Product, error)
	CreateProduct(ctx context.Context, payload *models.Payload) (*Product, error)
	UpdateProduct(ctx context.Context, id int, payload *models.Payload) error
	SaveBOM(ctx context.Context, productID int, lines []models.PayloadBOMLine) error
	TestConnection(ctx context.Context) error
}

// Product is the destination record identity.
type Product struct {
	ID   int    `json:"id"`
	Code string `json:"code"`
}

// RawItem is the passthrough view used by the testing tools.
type RawItem struct {
	Item json.RawMessage `json:"item"`
	BOM  json.RawMessage `json:"bom"`
}

type ArenaCredentials struct {
	WorkspaceID string
	Email       string
	Password    string
}

func (c ArenaCredentials) Validate() error {
	if c.WorkspaceID == "" || c.Email == "" || c.Password == "" {
		return fmt.Errorf("%w: arena workspace id, email and password are required", ErrConfiguration)
	}
	return nil
}

type Cin7Credentials struct {
	APIUser string
	APIKey  string
}

func (c Cin7Credentials) Validate() error {
	if c.APIUser == "" || c.APIKey == "" {
		return fmt.Errorf("%w: cin7 api user and api key are required", ErrConfiguration)
	}
	return nil
}

// Factory builds connectors from the credentials stored in settings.
type Factory interface {
	Source(creds ArenaCredentials) (ItemSource, error)
	Destination(creds Cin7Credentials) (ProductDestination, error)
}

type HTTPFactory struct {
	cfg         *config.Config
	logger      *zap.Logger
	client      *http.Client
	cin7Limiter *rate.Limiter
}

// NewFactory shares one HTTP client and one Cin7 token bucket across every connector it builds.
func NewFactory(cfg *config.Config, logger *zap.Logger) Factory {
	limit := cfg.Cin7RateLimit
	if limit <= 0 {
		limit = 3
	}
	return &HTTPFactory{
		cfg:         cfg,
		logger:      logger,
		client:      &http.Client{Timeout: cfg.UpstreamTimeout},
		cin7Limiter: rate.NewLimiter(rate.Limit(limit), 1),
	}
}

func (f *HTTPFactory) Source(creds ArenaCredentials) (ItemSource, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	return NewArenaConnector(f.cfg.ArenaBaseURL, creds, f.client, f.logger), nil
}

func (f *HTTPFactory) Destination(creds Cin7Credentials) (ProductDestination, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	return NewCin7Connector(f.cfg.Cin7BaseURL, creds, f.client, f.cin7Limiter, f.logger), nil
}
