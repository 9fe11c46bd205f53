// Reader is a client of the http reporter, used by the command line tools
// and by tests.

package reporter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Liberdus/token-bridge-go/bridgein"
	"github.com/Liberdus/token-bridge-go/explorer"
	"github.com/Liberdus/token-bridge-go/state"
)

type HttpReader struct {
	serverIP   string // listen ip
	serverPort string // listen port
	client     *http.Client
}

func NewHttpReader(serverIP string, serverPort string) *HttpReader {
	return &HttpReader{
		serverIP:   serverIP,
		serverPort: serverPort,
		client:     &http.Client{Timeout: 2 * time.Minute},
	}
}

type TransactionsResponse struct {
	Transactions []*explorer.TransactionView `json:"transactions"`
	Page         int                         `json:"page"`
	TotalPages   int                         `json:"totalPages"`
	HasPrev      bool                        `json:"hasPrev"`
	HasNext      bool                        `json:"hasNext"`
}

type BalanceResponse struct {
	Address   string `json:"address"`
	Value     string `json:"value"`
	Formatted string `json:"formatted"`
	Symbol    string `json:"symbol"`
}

type ConvertResponse struct {
	Ethereum string `json:"ethereum"`
	Shardus  string `json:"shardus"`
}

type BridgeOutResponse struct {
	TxHash      string `json:"txHash"`
	Status      string `json:"status"`
	BlockNumber uint64 `json:"blockNumber"`
	Events      int    `json:"events"`
}

// ResponseError is a non 200 answer of the reporter.
type ResponseError struct {
	StatusCode int
	Message    string
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("reporter error (status=%d): %s", e.StatusCode, e.Message)
}

func (hr *HttpReader) url(route string, q url.Values) string {
	u := "http://" + hr.serverIP + ":" + hr.serverPort + route
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return u
}

func (hr *HttpReader) GetHello() (string, error) {
	resp, err := hr.client.Get(hr.url(ROUTE_HELLO, nil))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	// Read the response body
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	// Convert the body to a string
	return string(body), nil
}

func (hr *HttpReader) GetBridgeIn() (*bridgein.View, error) {
	out := &bridgein.View{}
	return out, hr.getJSON(hr.url(ROUTE_BRIDGE_IN, nil), out)
}

func (hr *HttpReader) ConvertAddress(addr string) (*ConvertResponse, error) {
	out := &ConvertResponse{}
	return out, hr.getJSON(hr.url(ROUTE_ADDRESS_CONVERT, url.Values{"address": {addr}}), out)
}

// GetBalance reads the balance of addr, or of the connected account when
// addr is empty.
func (hr *HttpReader) GetBalance(addr string) (*BalanceResponse, error) {
	q := url.Values{}
	if addr != "" {
		q.Set("address", addr)
	}
	out := &BalanceResponse{}
	return out, hr.getJSON(hr.url(ROUTE_BALANCE, q), out)
}

func (hr *HttpReader) GetTransactions(mode explorer.SearchMode, query string, page int) (*TransactionsResponse, error) {
	q := url.Values{"mode": {mode.String()}, "page": {strconv.Itoa(page)}}
	if query != "" {
		q.Set("query", query)
	}
	out := &TransactionsResponse{}
	return out, hr.getJSON(hr.url(ROUTE_TRANSACTIONS, q), out)
}

func (hr *HttpReader) GetBridgeOutHistory(limit int) ([]*state.JSONBridgeOut, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var out struct {
		Data []*state.JSONBridgeOut `json:"data"`
	}
	if err := hr.getJSON(hr.url(ROUTE_BRIDGE_OUT, q), &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (hr *HttpReader) PostBridgeOut(amount string) (*BridgeOutResponse, error) {
	body, err := json.Marshal(bridgeOutRequest{Amount: amount})
	if err != nil {
		return nil, err
	}
	resp, err := hr.client.Post(hr.url(ROUTE_BRIDGE_OUT, nil), "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	out := &BridgeOutResponse{}
	return out, decodeResponse(resp, out)
}

func (hr *HttpReader) getJSON(u string, out interface{}) error {
	resp, err := hr.client.Get(u)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return decodeResponse(resp, out)
}

func decodeResponse(resp *http.Response, out interface{}) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK {
		var e struct {
			Error string `json:"error"`
		}
		msg := string(body)
		if json.Unmarshal(body, &e) == nil && e.Error != "" {
			msg = e.Error
		}
		return &ResponseError{StatusCode: resp.StatusCode, Message: msg}
	}

	return json.Unmarshal(body, out)
}
