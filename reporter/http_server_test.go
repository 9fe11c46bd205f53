package reporter

import (
	"context"
	"math/big"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Liberdus/token-bridge-go/bridgein"
	"github.com/Liberdus/token-bridge-go/bridgeout"
	"github.com/Liberdus/token-bridge-go/common"
	"github.com/Liberdus/token-bridge-go/coordinator"
	"github.com/Liberdus/token-bridge-go/explorer"
	"github.com/Liberdus/token-bridge-go/notify"
	"github.com/Liberdus/token-bridge-go/state"
	ethcommon "github.com/ethereum/go-ethereum/common"
)

var (
	ethAddr = "0x4EA46e5dD276eeB5D423465b4aFf646AC3f7bd74"
	txID64  = strings.Repeat("cd", 32)
)

type fakeCoordinator struct {
	mu     sync.Mutex
	params []*coordinator.ListParams
	err    error
}

func (f *fakeCoordinator) ListTransactions(_ context.Context, params *coordinator.ListParams) (*coordinator.TransactionPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.params = append(f.params, params)
	if f.err != nil {
		return nil, f.err
	}
	return &coordinator.TransactionPage{
		Transactions: []coordinator.Transaction{{
			TxID:   txID64,
			Sender: common.ToShardusAddress(ethAddr),
			Value:  "2000000000000000000",
			Type:   coordinator.BridgeOut,
			Status: coordinator.StatusCompleted,
		}},
		TotalPages: 3,
		Page:       params.Page,
	}, nil
}

type fakeBridgeOut struct {
	connected bool
	address   ethcommon.Address
	history   []*state.BridgeOut
	submitErr error
	amounts   []string
}

func (f *fakeBridgeOut) Connected() bool { return f.connected }

func (f *fakeBridgeOut) Address() (ethcommon.Address, error) {
	if !f.connected {
		return ethcommon.Address{}, bridgeout.ErrWalletNotConnected
	}
	return f.address, nil
}

func (f *fakeBridgeOut) BalanceOf(_ context.Context, addr ethcommon.Address) (*bridgeout.Balance, error) {
	wei := new(big.Int).Mul(big.NewInt(3), big.NewInt(1e18))
	return &bridgeout.Balance{Wei: wei, Value: wei.String(), Formatted: "3"}, nil
}

func (f *fakeBridgeOut) Submit(_ context.Context, amount string) (*bridgeout.Result, error) {
	f.amounts = append(f.amounts, amount)
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	return &bridgeout.Result{
		TxHash:      ethcommon.HexToHash("0x01"),
		BlockNumber: 9,
		Status:      state.BridgeOutStatusMined,
	}, nil
}

func (f *fakeBridgeOut) History(limit int) ([]*state.BridgeOut, error) {
	return f.history, nil
}

type testServer struct {
	coord  *fakeCoordinator
	bo     *fakeBridgeOut
	hub    *notify.Hub
	reader *HttpReader
	srv    *httptest.Server
}

func newTestServer(t *testing.T, bo *fakeBridgeOut) *testServer {
	gin.SetMode(gin.TestMode)

	coord := &fakeCoordinator{}
	hub := notify.NewHub(4)
	var svc BridgeOutService
	if bo != nil {
		svc = bo
	}
	h := NewHttpReporter("", "", coord, svc, bridgein.NewInstructions("bridge-acc"), hub)
	srv := httptest.NewServer(h.SetupRouter())
	t.Cleanup(srv.Close)

	u, err := url.Parse(srv.URL)
	require.NoError(t, err)

	return &testServer{
		coord:  coord,
		bo:     bo,
		hub:    hub,
		reader: NewHttpReader(u.Hostname(), u.Port()),
		srv:    srv,
	}
}

func TestHello(t *testing.T) {
	ts := newTestServer(t, nil)
	body, err := ts.reader.GetHello()
	require.NoError(t, err)
	assert.JSONEq(t, `{"message":"world"}`, body)
}

func TestBridgeIn(t *testing.T) {
	ts := newTestServer(t, nil)
	v, err := ts.reader.GetBridgeIn()
	require.NoError(t, err)
	assert.Equal(t, "bridge-acc", v.BridgeAccount)
	assert.Len(t, v.Steps, 3)
}

func TestConvertAddress(t *testing.T) {
	ts := newTestServer(t, nil)

	out, err := ts.reader.ConvertAddress(ethAddr)
	require.NoError(t, err)
	assert.Equal(t, ethAddr, out.Ethereum)
	assert.Equal(t, common.ToShardusAddress(ethAddr), out.Shardus)

	out, err = ts.reader.ConvertAddress(common.ToShardusAddress(ethAddr))
	require.NoError(t, err)
	assert.Equal(t, ethAddr, out.Ethereum)

	_, err = ts.reader.ConvertAddress("0x12")
	var respErr *ResponseError
	require.ErrorAs(t, err, &respErr)
	assert.Equal(t, http.StatusBadRequest, respErr.StatusCode)
}

func TestTransactions(t *testing.T) {
	ts := newTestServer(t, nil)

	out, err := ts.reader.GetTransactions(explorer.ModeSender, ethAddr, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, out.Page)
	assert.Equal(t, 3, out.TotalPages)
	assert.True(t, out.HasPrev)
	assert.True(t, out.HasNext)
	require.Len(t, out.Transactions, 1)
	assert.Equal(t, "2.000000 LIB", out.Transactions[0].FormattedValue)
	assert.Equal(t, "BRIDGE_OUT", out.Transactions[0].Type)
	assert.Equal(t, ethAddr, out.Transactions[0].SenderEthereum)

	require.Len(t, ts.coord.params, 1)
	assert.Equal(t, common.ToShardusAddress(ethAddr), ts.coord.params[0].SenderAddress)

	out, err = ts.reader.GetTransactions(explorer.ModeTxID, "", 3)
	require.NoError(t, err)
	assert.False(t, out.HasNext)
}

func TestTransactionsErrors(t *testing.T) {
	ts := newTestServer(t, nil)
	var respErr *ResponseError

	_, err := ts.reader.GetTransactions(explorer.ModeStatus, "9", 1)
	require.ErrorAs(t, err, &respErr)
	assert.Equal(t, http.StatusBadRequest, respErr.StatusCode)

	_, err = ts.reader.GetTransactions(explorer.ModeTxID, "0x1234", 1)
	require.ErrorAs(t, err, &respErr)
	assert.Equal(t, http.StatusBadRequest, respErr.StatusCode)

	_, err = ts.reader.GetTransactions(explorer.ModeTxID, "", 0)
	require.ErrorAs(t, err, &respErr)
	assert.Equal(t, http.StatusBadRequest, respErr.StatusCode)
	assert.Empty(t, ts.coord.params)

	ts.coord.err = &coordinator.APIError{StatusCode: 500, Message: "db down"}
	_, err = ts.reader.GetTransactions(explorer.ModeTxID, "", 1)
	require.ErrorAs(t, err, &respErr)
	assert.Equal(t, http.StatusBadGateway, respErr.StatusCode)
	assert.Contains(t, respErr.Message, "db down")

	resp, err := http.Get(ts.srv.URL + ROUTE_TRANSACTIONS + "?mode=receipt")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestBridgeOutWithoutWallet(t *testing.T) {
	ts := newTestServer(t, &fakeBridgeOut{})
	var respErr *ResponseError

	_, err := ts.reader.PostBridgeOut("1")
	require.ErrorAs(t, err, &respErr)
	assert.Equal(t, http.StatusServiceUnavailable, respErr.StatusCode)

	_, err = ts.reader.GetBridgeOutHistory(0)
	require.ErrorAs(t, err, &respErr)
	assert.Equal(t, http.StatusServiceUnavailable, respErr.StatusCode)

	_, err = ts.reader.GetBalance("")
	require.ErrorAs(t, err, &respErr)
	assert.Equal(t, http.StatusBadRequest, respErr.StatusCode)

	bal, err := ts.reader.GetBalance(common.ToShardusAddress(ethAddr))
	require.NoError(t, err)
	assert.Equal(t, ethAddr, bal.Address)
	assert.Equal(t, "3", bal.Formatted)
	assert.Equal(t, common.TokenSymbol, bal.Symbol)

	noContract := newTestServer(t, nil)
	_, err = noContract.reader.GetBalance(ethAddr)
	require.ErrorAs(t, err, &respErr)
	assert.Equal(t, http.StatusServiceUnavailable, respErr.StatusCode)
}

func TestBridgeOut(t *testing.T) {
	b := state.RandBridgeOut(5, state.BridgeOutStatusMined)
	bo := &fakeBridgeOut{connected: true, address: b.Sender, history: []*state.BridgeOut{b}}
	ts := newTestServer(t, bo)

	bal, err := ts.reader.GetBalance("")
	require.NoError(t, err)
	assert.Equal(t, b.Sender.Hex(), bal.Address)

	out, err := ts.reader.PostBridgeOut("1.5")
	require.NoError(t, err)
	assert.Equal(t, ethcommon.HexToHash("0x01").Hex(), out.TxHash)
	assert.Equal(t, "mined", out.Status)
	assert.Equal(t, uint64(9), out.BlockNumber)
	assert.Equal(t, []string{"1.5"}, bo.amounts)

	history, err := ts.reader.GetBridgeOutHistory(10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, b.ToJSON(), history[0])

	var respErr *ResponseError
	bo.submitErr = bridgeout.ErrInsufficientBalance
	_, err = ts.reader.PostBridgeOut("100")
	require.ErrorAs(t, err, &respErr)
	assert.Equal(t, http.StatusBadRequest, respErr.StatusCode)

	bo.submitErr = bridgeout.ErrSubmissionInFlight
	_, err = ts.reader.PostBridgeOut("1")
	require.ErrorAs(t, err, &respErr)
	assert.Equal(t, http.StatusConflict, respErr.StatusCode)

	resp, err := http.Post(ts.srv.URL+ROUTE_BRIDGE_OUT, "application/json", strings.NewReader(`{}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestNotificationsWebsocket(t *testing.T) {
	ts := newTestServer(t, nil)

	wsURL := "ws" + strings.TrimPrefix(ts.srv.URL, "http") + ROUTE_WS
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	assert.Eventually(t, func() bool { return ts.hub.Len() == 1 }, time.Second, 5*time.Millisecond)
	ts.hub.Notify(notify.Success("Submitted Signature: 0xabc"))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var got notify.Notification
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, notify.LevelSuccess, got.Level)
	assert.Equal(t, "Submitted Signature: 0xabc", got.Message)

	ts.hub.Close()
	_, _, err = conn.ReadMessage()
	assert.Error(t, err)
}
