package sheets

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Client is a minimal Google Sheets writer used for report export.
type Client struct {
	service *sheets.Service
}

type Config struct {
	CredentialsPath string
	CredentialsJSON []byte
}

func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	var opts []option.ClientOption

	switch {
	case cfg.CredentialsPath != "":
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsPath))
	case len(cfg.CredentialsJSON) > 0:
		opts = append(opts, option.WithCredentialsJSON(cfg.CredentialsJSON))
	default:
		return nil, fmt.Errorf("sheets: credentials path or JSON is required")
	}

	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("sheets: failed to create service: %w", err)
	}

	return &Client{service: service}, nil
}

// Append adds rows below the last non-empty row of the given range.
func (c *Client) Append(ctx context.Context, spreadsheetID, rng string, rows [][]any) error {
	if c == nil || c.service == nil {
		return fmt.Errorf("sheets: service is nil")
	}

	_, err := c.service.Spreadsheets.Values.Append(spreadsheetID, rng, &sheets.ValueRange{Values: rows}).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	return err
}

// Clear empties the given range without touching formatting.
func (c *Client) Clear(ctx context.Context, spreadsheetID, rng string) error {
	if c == nil || c.service == nil {
		return fmt.Errorf("sheets: service is nil")
	}

	_, err := c.service.Spreadsheets.Values.Clear(spreadsheetID, rng, &sheets.ClearValuesRequest{}).
		Context(ctx).
		Do()
	return err
}
