package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/arielw/tablemend/internal/common"
	"github.com/arielw/tablemend/internal/grid"
)

const azureAPIVersion = "2024-11-30"

// AzureClient talks to the Azure Document Intelligence layout model over
// its async REST surface: submit the document, then poll the operation
// until it settles.
type AzureClient struct {
	endpoint  string
	apiKey    string
	modelID   string
	pollEvery time.Duration
	hc        *http.Client
	logger    *slog.Logger
}

func NewAzureClient(cfg common.OCRConfig, logger *slog.Logger) (*AzureClient, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("%w: azure endpoint is required", common.ErrInvalidInput)
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: azure api key is required", common.ErrInvalidInput)
	}
	modelID := cfg.ModelID
	if modelID == "" {
		modelID = "prebuilt-layout"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AzureClient{
		endpoint:  strings.TrimRight(cfg.Endpoint, "/"),
		apiKey:    cfg.APIKey,
		modelID:   modelID,
		pollEvery: pollSchedule(cfg.PollEvery),
		hc:        &http.Client{Timeout: 60 * time.Second},
		logger:    logger,
	}, nil
}

func (c *AzureClient) Name() string { return "azure" }

// wire shapes for the analyze result. Azure uses camelCase on the wire;
// the cache payload uses the snake_case grid encoding instead.
type azureAnalyzeResponse struct {
	Status        string `json:"status"`
	AnalyzeResult struct {
		Content string `json:"content"`
		Tables  []struct {
			RowCount    int `json:"rowCount"`
			ColumnCount int `json:"columnCount"`
			Cells       []struct {
				RowIndex    int    `json:"rowIndex"`
				ColumnIndex int    `json:"columnIndex"`
				Content     string `json:"content"`
			} `json:"cells"`
		} `json:"tables"`
	} `json:"analyzeResult"`
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// AnalyzeTables submits the document bytes and polls until the analysis
// succeeds or fails. Transient poll errors are retried on the next tick;
// only a terminal "failed" status or an exhausted context aborts.
func (c *AzureClient) AnalyzeTables(ctx context.Context, path string) (Result, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return Result{}, common.WrapError(err, "reading document")
	}

	opURL, err := c.submit(ctx, body)
	if err != nil {
		return Result{}, err
	}
	c.logger.Debug("azure analysis submitted", "path", path, "operation", opURL)

	ticker := time.NewTicker(c.pollEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return Result{}, ctx.Err()
		case <-ticker.C:
		}

		resp, err := c.poll(ctx, opURL)
		if err != nil {
			c.logger.Warn("azure poll failed, retrying", "error", err)
			continue
		}
		switch resp.Status {
		case "succeeded":
			return c.toResult(resp), nil
		case "failed":
			return Result{}, common.NewAppError("OCR_FAILED",
				fmt.Sprintf("azure analysis failed: %s: %s", resp.Error.Code, resp.Error.Message), nil)
		default:
			// notStarted or running; keep polling.
		}
	}
}

func (c *AzureClient) submit(ctx context.Context, body []byte) (string, error) {
	url := fmt.Sprintf("%s/documentintelligence/documentModels/%s:analyze?api-version=%s",
		c.endpoint, c.modelID, azureAPIVersion)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	req.Header.Set("Ocp-Apim-Subscription-Key", c.apiKey)

	resp, err := c.hc.Do(req)
	if err != nil {
		return "", common.WrapError(err, "submitting document for analysis")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusAccepted {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", common.NewAppError("OCR_FAILED",
			fmt.Sprintf("analyze request rejected: status %d: %s", resp.StatusCode, payload), nil)
	}
	opURL := resp.Header.Get("Operation-Location")
	if opURL == "" {
		return "", common.NewAppError("OCR_FAILED", "analyze response missing Operation-Location", nil)
	}
	return opURL, nil
}

func (c *AzureClient) poll(ctx context.Context, opURL string) (*azureAnalyzeResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, opURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", c.apiKey)

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("poll returned status %d", resp.StatusCode)
	}
	var out azureAnalyzeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, common.WrapError(err, "decoding analyze result")
	}
	return &out, nil
}

func (c *AzureClient) toResult(resp *azureAnalyzeResponse) Result {
	res := Result{Text: resp.AnalyzeResult.Content}
	for i, t := range resp.AnalyzeResult.Tables {
		table := grid.RawTable{
			TableIndex:  i,
			RowCount:    t.RowCount,
			ColumnCount: t.ColumnCount,
			Cells:       make([]grid.Cell, 0, len(t.Cells)),
		}
		for _, cell := range t.Cells {
			table.Cells = append(table.Cells, grid.Cell{
				RowIndex:    cell.RowIndex,
				ColumnIndex: cell.ColumnIndex,
				Content:     cell.Content,
			})
		}
		res.Tables = append(res.Tables, table)
	}
	return res
}
