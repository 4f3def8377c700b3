package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"ncdash/pkg/contracts/domain"
)

// Config describes the Google Sheets source.
type Config struct {
	SpreadsheetID   string
	Worksheet       string
	CredentialsFile string
	FetchTimeout    time.Duration
}

// Client reads the non-conformance worksheet through the Sheets API
// using service-account credentials.
type Client struct {
	service *sheets.Service
	cfg     Config
	logger  *slog.Logger
}

// NewClient builds a Sheets API client. Credentials come from the
// configured service-account file; when the path is empty the Google
// default credential chain is used.
func NewClient(ctx context.Context, cfg Config, logger *slog.Logger) (*Client, error) {
	if cfg.SpreadsheetID == "" {
		return nil, fmt.Errorf("sheets: spreadsheet ID is required")
	}
	if cfg.Worksheet == "" {
		return nil, fmt.Errorf("sheets: worksheet name is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	opts := []option.ClientOption{option.WithScopes(sheets.SpreadsheetsReadonlyScope)}
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("sheets: failed to create service: %w", err)
	}

	return &Client{
		service: service,
		cfg:     cfg,
		logger:  logger.With(slog.String("component", "sheets_client")),
	}, nil
}

// FetchRows reads the whole worksheet and returns header-keyed rows.
// Network or auth failures surface as a wrapped error with no rows; the
// caller treats that as "no data available", not a crash.
func (c *Client) FetchRows(ctx context.Context) ([]domain.Row, error) {
	if c.cfg.FetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.FetchTimeout)
		defer cancel()
	}

	resp, err := c.service.Spreadsheets.Values.Get(c.cfg.SpreadsheetID, c.cfg.Worksheet).
		Context(ctx).
		ValueRenderOption("FORMATTED_VALUE").
		Do()
	if err != nil {
		return nil, fmt.Errorf("sheets: failed to read worksheet %q: %w", c.cfg.Worksheet, err)
	}

	rows := rowsFromValues(resp.Values)
	c.logger.InfoContext(ctx, "worksheet fetched",
		slog.String("worksheet", c.cfg.Worksheet),
		slog.Int("rows", len(rows)))
	return rows, nil
}
