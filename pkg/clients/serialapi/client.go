package serialapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/mamadbah2/serialpro/internal/domain/models"
)

// ErrNothingPending mirrors the server's 409 answer to a confirm without a staged action.
var ErrNothingPending = errors.New("nothing pending")

// ProductSummary is a catalog entry with its shipment count.
type ProductSummary struct {
	models.Product
	RecordCount int `json:"recordCount"`
}

// Download is an exported file as served by the API.
type Download struct {
	FileName string
	Body     []byte
}

// APIClient is a resty-backed client for the serialpro HTTP API.
type APIClient struct {
	httpClient *resty.Client
}

// NewClient builds an API client for the server at baseURL.
func NewClient(baseURL string) *APIClient {
	restyClient := resty.New()
	restyClient.
		SetBaseURL(strings.TrimSuffix(baseURL, "/") + "/api").
		SetHeader("Accept", "application/json").
		SetTimeout(15 * time.Second)

	return &APIClient{httpClient: restyClient}
}

type apiError struct {
	Error string `json:"error"`
}

func (c *APIClient) check(resp *resty.Response, err error, op string) error {
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if resp.StatusCode() < http.StatusBadRequest {
		return nil
	}

	message := resp.Status()
	if apiErr, ok := resp.Error().(*apiError); ok && apiErr.Error != "" {
		message = apiErr.Error
	}
	if resp.StatusCode() == http.StatusConflict {
		return fmt.Errorf("%s: %w: %s", op, ErrNothingPending, message)
	}
	return fmt.Errorf("%s: api error: code=%d, message=%s", op, resp.StatusCode(), message)
}

// SearchRecords returns records whose serial contains term, ignoring case.
func (c *APIClient) SearchRecords(ctx context.Context, term string) ([]models.ShipmentRecord, error) {
	var result struct {
		Records []models.ShipmentRecord `json:"records"`
	}
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParam("serial", term).
		SetResult(&result).
		SetError(&apiError{}).
		Get("/records")
	if err := c.check(resp, err, "search records"); err != nil {
		return nil, err
	}
	return result.Records, nil
}

// CreateRecord registers a shipped serial.
func (c *APIClient) CreateRecord(ctx context.Context, in models.RecordInput) (*models.ShipmentRecord, error) {
	result := new(models.ShipmentRecord)
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(in).
		SetResult(result).
		SetError(&apiError{}).
		Post("/records")
	if err := c.check(resp, err, "create record"); err != nil {
		return nil, err
	}
	return result, nil
}

// ListProducts returns the catalog.
func (c *APIClient) ListProducts(ctx context.Context) ([]ProductSummary, error) {
	var result struct {
		Products []ProductSummary `json:"products"`
	}
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetResult(&result).
		SetError(&apiError{}).
		Get("/products")
	if err := c.check(resp, err, "list products"); err != nil {
		return nil, err
	}
	return result.Products, nil
}

// CreateProduct adds a catalog entry.
func (c *APIClient) CreateProduct(ctx context.Context, in models.ProductInput) (*models.Product, error) {
	result := new(models.Product)
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(in).
		SetResult(result).
		SetError(&apiError{}).
		Post("/products")
	if err := c.check(resp, err, "create product"); err != nil {
		return nil, err
	}
	return result, nil
}

// RequestDeleteProduct stages a deletion on the server.
func (c *APIClient) RequestDeleteProduct(ctx context.Context, id string) error {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetPathParam("id", id).
		SetError(&apiError{}).
		Delete("/products/{id}")
	return c.check(resp, err, "request product deletion")
}

// ConfirmDeleteProduct applies the staged deletion and returns the removed id.
func (c *APIClient) ConfirmDeleteProduct(ctx context.Context) (string, error) {
	var result struct {
		Deleted string `json:"deleted"`
	}
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetResult(&result).
		SetError(&apiError{}).
		Post("/products/delete/confirm")
	if err := c.check(resp, err, "confirm product deletion"); err != nil {
		return "", err
	}
	return result.Deleted, nil
}

// CancelDeleteProduct drops the staged deletion.
func (c *APIClient) CancelDeleteProduct(ctx context.Context) error {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetError(&apiError{}).
		Post("/products/delete/cancel")
	return c.check(resp, err, "cancel product deletion")
}

// Stats fetches the dashboard aggregates.
func (c *APIClient) Stats(ctx context.Context) (*models.Dashboard, error) {
	result := new(models.Dashboard)
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetResult(result).
		SetError(&apiError{}).
		Get("/stats")
	if err := c.check(resp, err, "fetch stats"); err != nil {
		return nil, err
	}
	return result, nil
}

// Export downloads the backup ("json") or the report ("csv").
func (c *APIClient) Export(ctx context.Context, format string) (*Download, error) {
	if format != "json" && format != "csv" {
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetError(&apiError{}).
		Get("/export/" + format)
	if err := c.check(resp, err, "export "+format); err != nil {
		return nil, err
	}
	return &Download{
		FileName: fileNameFromDisposition(resp.Header().Get("Content-Disposition")),
		Body:     resp.Body(),
	}, nil
}

// Import uploads a backup file and returns the staged restore summary.
func (c *APIClient) Import(ctx context.Context, name string, r io.Reader) (*models.RestorePreview, error) {
	result := new(models.RestorePreview)
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetFileReader("file", name, r).
		SetResult(result).
		SetError(&apiError{}).
		Post("/import")
	if err := c.check(resp, err, "import backup"); err != nil {
		return nil, err
	}
	return result, nil
}

// ConfirmRestore applies the staged restore.
func (c *APIClient) ConfirmRestore(ctx context.Context) (*models.RestorePreview, error) {
	result := new(models.RestorePreview)
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetResult(result).
		SetError(&apiError{}).
		Post("/restore/confirm")
	if err := c.check(resp, err, "confirm restore"); err != nil {
		return nil, err
	}
	return result, nil
}

// CancelRestore drops the staged restore.
func (c *APIClient) CancelRestore(ctx context.Context) error {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetError(&apiError{}).
		Post("/restore/cancel")
	return c.check(resp, err, "cancel restore")
}

// fileNameFromDisposition returns the bare file name offered by the server.
// Directory parts are dropped.
func fileNameFromDisposition(header string) string {
	_, params, err := mime.ParseMediaType(header)
	if err != nil {
		return ""
	}
	name := filepath.Base(strings.ReplaceAll(params["filename"], `\`, "/"))
	if name == "." || name == "/" || name == ".." {
		return ""
	}
	return name
}
