// Package google appends daily-sales rows to a Google Sheet using the
// OAuth token produced by cmd/oauth-init.
package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/oauth2"
	googleauth "golang.org/x/oauth2/google"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"forecourt/internal/config"
	"forecourt/internal/core"
	"forecourt/internal/export"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

var _ export.SaleWriter = (*Client)(nil)

// NewFromConfig builds a Sheets client from the export configuration.
// Credentials come from the OAuth client JSON plus the stored token;
// inline JSON wins over file paths so containers need no mounts.
func NewFromConfig(ctx context.Context, cfg config.Config) (*Client, error) {
	if strings.TrimSpace(cfg.GoogleSpreadsheetID) == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	clientJSON, err := readCredential(cfg.GoogleOAuthClientJSON, cfg.GoogleOAuthClientFile)
	if err != nil {
		return nil, fmt.Errorf("oauth client credentials: %w", err)
	}
	oauthCfg, err := googleauth.ConfigFromJSON(clientJSON, gsheet.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("oauth config: %w", err)
	}

	tokenJSON, err := readCredential(cfg.GoogleOAuthTokenJSON, cfg.GoogleOAuthTokenFile)
	if err != nil {
		return nil, fmt.Errorf("oauth token (run oauth-init first): %w", err)
	}
	var token oauth2.Token
	if err := json.Unmarshal(tokenJSON, &token); err != nil {
		return nil, fmt.Errorf("parse oauth token: %w", err)
	}

	svc, err := gsheet.NewService(ctx, goption.WithHTTPClient(oauthCfg.Client(ctx, &token)))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	slog.InfoContext(ctx, "Google Sheets export client ready",
		"spreadsheet_id", cfg.GoogleSpreadsheetID,
		"sheet", cfg.GoogleSheetName)

	return &Client{
		svc:           svc,
		spreadsheetID: cfg.GoogleSpreadsheetID,
		sheetName:     cfg.GoogleSheetName,
	}, nil
}

func readCredential(inline, file string) ([]byte, error) {
	switch {
	case strings.TrimSpace(inline) != "":
		return []byte(inline), nil
	case strings.TrimSpace(file) != "":
		b, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", file, err)
		}
		return b, nil
	}
	return nil, errors.New("not configured")
}

// AppendSales appends one row per sale below the existing data.
func (c *Client) AppendSales(ctx context.Context, sales []core.DailySale) (int, error) {
	if c.svc == nil {
		return 0, errors.New("sheets service not initialized")
	}
	if len(sales) == 0 {
		return 0, nil
	}

	rows := make([][]interface{}, 0, len(sales))
	for _, s := range sales {
		rows = append(rows, []interface{}{
			s.Date.String(),
			s.FuelGallons,
			s.FuelRevenue.Dollars(),
			s.InsideSales.Dollars(),
			s.LotterySales.Dollars(),
			s.LotteryPaid.Dollars(),
			s.Tax.Dollars(),
			s.CardTotal.Dollars(),
			s.CashTotal.Dollars(),
			string(s.Status),
			s.Notes,
		})
	}

	rng := fmt.Sprintf("%s!A:K", c.sheetName)
	_, err := c.svc.Spreadsheets.Values.
		Append(c.spreadsheetID, rng, &gsheet.ValueRange{Values: rows}).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return 0, fmt.Errorf("append sales rows: %w", err)
	}

	slog.InfoContext(ctx, "Appended sales to Google Sheet",
		"rows", len(rows),
		"sheet", c.sheetName)

	return len(rows), nil
}
