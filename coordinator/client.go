package coordinator

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	logger "github.com/sirupsen/logrus"
)

const RouteTransaction = "/transaction"

// Client reads bridge transactions from the coordinator. Requests are never
// retried, callers decide whether to ask again.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(cfg *Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (p *ListParams) values() url.Values {
	q := url.Values{}
	if p == nil {
		return q
	}
	if p.TxID != "" {
		q.Set("txId", p.TxID)
	}
	if p.SenderAddress != "" {
		q.Set("senderAddress", p.SenderAddress)
	}
	if p.Type != nil {
		q.Set("type", strconv.Itoa(int(*p.Type)))
	}
	if p.Status != nil {
		q.Set("status", strconv.Itoa(int(*p.Status)))
	}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	return q
}

// ListTransactions fetches one page of transactions matching params.
func (c *Client) ListTransactions(ctx context.Context, params *ListParams) (*TransactionPage, error) {
	u := c.baseURL + RouteTransaction
	if q := params.values(); len(q) > 0 {
		u += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build coordinator request")
	}
	req.Header.Set("Accept", "application/json")

	logger.WithField("url", u).Debug("coordinator request")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "coordinator request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read coordinator response")
	}

	var decoded listResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body))}
		}
		return nil, errors.Wrap(err, "decode coordinator response")
	}

	if len(decoded.Err) > 0 && string(decoded.Err) != "null" {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: errMessage(decoded.Err)}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}
	if decoded.Ok == nil {
		return nil, ErrEmptyResponse
	}

	page := 1
	if params != nil && params.Page > 0 {
		page = params.Page
	}
	txs := decoded.Ok.Transactions
	if txs == nil {
		txs = []Transaction{}
	}

	return &TransactionPage{
		Transactions: txs,
		TotalPages:   decoded.Ok.TotalPages,
		Page:         page,
	}, nil
}

// GetTransaction looks a single transaction up by id.
func (c *Client) GetTransaction(ctx context.Context, txID string) (*Transaction, error) {
	page, err := c.ListTransactions(ctx, &ListParams{TxID: txID})
	if err != nil {
		return nil, err
	}
	if len(page.Transactions) == 0 {
		return nil, errors.Wrapf(ErrTransactionNotFound, "txId=%s", txID)
	}
	return &page.Transactions[0], nil
}

// WaitForStatus polls a transaction until the coordinator reports a final
// status or ctx is done. Lookups that fail are logged and polled again on
// the next tick.
func (c *Client) WaitForStatus(ctx context.Context, txID string, interval time.Duration) (*Transaction, error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		tx, err := c.GetTransaction(ctx, txID)
		switch {
		case err == nil && tx.Status.Final():
			return tx, nil
		case err == nil:
			logger.WithFields(logger.Fields{"txId": txID, "status": tx.Status}).Debug("waiting for coordinator")
		default:
			logger.WithField("txId", txID).Debugf("coordinator lookup failed: %v", err)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

// Err is either a plain string or an object carrying a message.
func errMessage(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var obj struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		if obj.Message != "" {
			return obj.Message
		}
		if obj.Error != "" {
			return obj.Error
		}
	}
	return string(raw)
}
