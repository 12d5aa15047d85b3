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

	"plm-connector/internal/common/models"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const maxCin7ResponseSize = 10 * 1024 * 1024

// Cin7Connector writes products to the Cin7 Omni REST API.
// Every request first takes a token from the shared limiter.
type Cin7Connector struct {
	baseURL    string
	creds      Cin7Credentials
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *zap.Logger
}

func NewCin7Connector(baseURL string, creds Cin7Credentials, client *http.Client, limiter *rate.Limiter, logger *zap.Logger) *Cin7Connector {
	if client == nil {
		client = http.DefaultClient
	}
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 1)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cin7Connector{
		baseURL:    strings.TrimRight(baseURL, "/"),
		creds:      creds,
		httpClient: client,
		limiter:    limiter,
		logger:     logger,
	}
}

// Cin7 batch endpoints answer with one status entry per submitted record.
type cin7WriteResult struct {
	Index   int      `json:"index"`
	Success bool     `json:"success"`
	ID      int      `json:"id"`
	Code    string   `json:"code"`
	Errors  []string `json:"errors"`
}

type cin7ProductUpdate struct {
	ID int `json:"id"`
	*models.Payload
}

type cin7BOM struct {
	ProductID  int                     `json:"productId"`
	Components []models.PayloadBOMLine `json:"components"`
}

func (c *Cin7Connector) TestConnection(ctx context.Context) error {
	var products []Product
	return c.do(ctx, "test connection", http.MethodGet, "/Products?rows=1&fields=id,code", nil, &products)
}

func (c *Cin7Connector) FindProductByCode(ctx context.Context, code string) (*Product, error) {
	where := fmt.Sprintf("code='%s'", strings.ReplaceAll(code, "'", "''"))
	path := "/Products?rows=1&fields=id,code&where=" + url.QueryEscape(where)

	var products []Product
	if err := c.do(ctx, "find product", http.MethodGet, path, nil, &products); err != nil {
		return nil, err
	}
	for _, p := range products {
		if p.Code == code {
			product := p
			return &product, nil
		}
	}
	return nil, nil
}

func (c *Cin7Connector) CreateProduct(ctx context.Context, payload *models.Payload) (*Product, error) {
	res, err := c.write(ctx, "create product", http.MethodPost, "/Products", []*models.Payload{payload})
	if err != nil {
		return nil, err
	}
	c.logger.Info("Cin7 product created", zap.String("product_code", payload.ProductCode), zap.Int("product_id", res.ID))
	return &Product{ID: res.ID, Code: payload.ProductCode}, nil
}

func (c *Cin7Connector) UpdateProduct(ctx context.Context, id int, payload *models.Payload) error {
	_, err := c.write(ctx, "update product", http.MethodPut, "/Products", []cin7ProductUpdate{{ID: id, Payload: payload}})
	if err != nil {
		return err
	}
	c.logger.Info("Cin7 product updated", zap.String("product_code", payload.ProductCode), zap.Int("product_id", id))
	return nil
}

func (c *Cin7Connector) SaveBOM(ctx context.Context, productID int, lines []models.PayloadBOMLine) error {
	_, err := c.write(ctx, "save bom", http.MethodPost, "/BillsOfMaterials", []cin7BOM{{ProductID: productID, Components: lines}})
	return err
}

// write submits a single-record batch and unwraps its status entry.
func (c *Cin7Connector) write(ctx context.Context, op, method, path string, body interface{}) (*cin7WriteResult, error) {
	var results []cin7WriteResult
	if err := c.do(ctx, op, method, path, body, &results); err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, &DestinationError{Op: op, Message: "empty response"}
	}
	if !results[0].Success {
		msg := strings.Join(results[0].Errors, "; ")
		if msg == "" {
			msg = "rejected"
		}
		return nil, &DestinationError{Op: op, Message: msg}
	}
	return &results[0], nil
}

func (c *Cin7Connector) do(ctx context.Context, op, method, path string, body, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return &DestinationError{Op: op, Message: err.Error()}
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.SetBasicAuth(c.creds.APIUser, c.creds.APIKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &DestinationError{Op: op, Message: err.Error()}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxCin7ResponseSize))
	if err != nil {
		return &DestinationError{Op: op, StatusCode: resp.StatusCode, Message: err.Error()}
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: cin7 rejected the credentials", ErrConfiguration)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return &DestinationError{Op: op, StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(data))}
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &DestinationError{Op: op, StatusCode: resp.StatusCode, Message: "decode response: " + err.Error()}
	}
	return nil
}
