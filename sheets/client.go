// Package sheets is a thin JSON client for the tabular data source. It knows
// the two wire shapes the source produces: {"sheets":[...]} for spreadsheet
// metadata and {"values":[[...]]} for range queries.
package sheets

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	apperrors "github.com/atravisjones/Arizona-Roofers-Scheduler/errors"
	"github.com/atravisjones/Arizona-Roofers-Scheduler/fetcher"
)

// Client retrieves metadata and cell ranges for one spreadsheet.
type Client struct {
	BaseURL       string
	SpreadsheetID string
	APIKey        string
	Fetcher       *fetcher.Fetcher
}

// NewClient creates a Client for the given spreadsheet.
func NewClient(baseURL, spreadsheetID, apiKey string, f *fetcher.Fetcher) *Client {
	return &Client{
		BaseURL:       strings.TrimRight(baseURL, "/"),
		SpreadsheetID: spreadsheetID,
		APIKey:        apiKey,
		Fetcher:       f,
	}
}

type sheetProperties struct {
	Title string `json:"title"`
}

type sheetDescriptor struct {
	Properties sheetProperties `json:"properties"`
}

type metadataResponse struct {
	Sheets []sheetDescriptor `json:"sheets"`
}

type valuesResponse struct {
	Values [][]any `json:"values"`
}

// SheetTitles fetches the spreadsheet metadata and returns all sheet titles
// in document order.
func (c *Client) SheetTitles(ctx context.Context) ([]string, error) {
	u := fmt.Sprintf("%s/%s?fields=sheets.properties.title&key=%s",
		c.BaseURL, c.SpreadsheetID, url.QueryEscape(c.APIKey))

	var meta metadataResponse
	if err := c.getJSON(ctx, u, &meta); err != nil {
		return nil, err
	}

	titles := make([]string, 0, len(meta.Sheets))
	for _, s := range meta.Sheets {
		titles = append(titles, s.Properties.Title)
	}
	return titles, nil
}

// Range fetches a cell range and returns it as a grid of strings. Boolean
// cells become "TRUE"/"FALSE" and numeric cells keep their plain decimal
// form, matching how the sheet renders them.
func (c *Client) Range(ctx context.Context, rangeRef string) ([][]string, error) {
	u := fmt.Sprintf("%s/%s/values/%s?key=%s",
		c.BaseURL, c.SpreadsheetID, url.PathEscape(rangeRef), url.QueryEscape(c.APIKey))

	var body valuesResponse
	if err := c.getJSON(ctx, u, &body); err != nil {
		return nil, err
	}

	grid := make([][]string, len(body.Values))
	for i, row := range body.Values {
		grid[i] = make([]string, len(row))
		for j, cell := range row {
			grid[i][j] = cellString(cell)
		}
	}
	return grid, nil
}

// Cell fetches a single cell from the named sheet. Blank and missing cells
// come back as the literal "(empty)" so the caller can render something.
func (c *Client) Cell(ctx context.Context, cellRef, sheetName string) (string, error) {
	if strings.TrimSpace(sheetName) == "" {
		return "", apperrors.ErrMissingSheetName
	}
	grid, err := c.Range(ctx, fmt.Sprintf("'%s'!%s", sheetName, cellRef))
	if err != nil {
		return "", err
	}
	if len(grid) == 0 || len(grid[0]) == 0 || strings.TrimSpace(grid[0][0]) == "" {
		return "(empty)", nil
	}
	return grid[0][0], nil
}

func (c *Client) getJSON(ctx context.Context, u string, out any) error {
	resp, err := c.Fetcher.Get(ctx, u)
	if err != nil {
		return err
	}
	if err := fetcher.CheckStatus(resp); err != nil {
		return err
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response from %s: %w", c.BaseURL, err)
	}
	return nil
}

func cellString(cell any) string {
	switch v := cell.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		if v {
			return "TRUE"
		}
		return "FALSE"
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}
