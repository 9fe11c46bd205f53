// This is a http type of reporter.
// It serves the bridge data (coordinator transactions, the local
// bridge-out journal, balances) and the bridge actions on http routes.

package reporter

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	logger "github.com/sirupsen/logrus"

	"github.com/Liberdus/token-bridge-go/bridgein"
	"github.com/Liberdus/token-bridge-go/bridgeout"
	"github.com/Liberdus/token-bridge-go/common"
	"github.com/Liberdus/token-bridge-go/explorer"
	"github.com/Liberdus/token-bridge-go/notify"
	"github.com/Liberdus/token-bridge-go/state"
	ethcommon "github.com/ethereum/go-ethereum/common"
)

const (
	ROUTE_HELLO           = "/hello"
	ROUTE_BRIDGE_IN       = "/bridge-in"
	ROUTE_ADDRESS_CONVERT = "/address/convert"
	ROUTE_BALANCE         = "/balance"
	ROUTE_TRANSACTIONS    = "/transactions"
	ROUTE_BRIDGE_OUT      = "/bridge-out"
	ROUTE_WS              = "/ws"

	shutdownTimeout = 5 * time.Second
)

// BridgeOutService is the bridge out side as seen by the routes.
type BridgeOutService interface {
	Connected() bool
	Address() (ethcommon.Address, error)
	BalanceOf(ctx context.Context, addr ethcommon.Address) (*bridgeout.Balance, error)
	Submit(ctx context.Context, amountInput string) (*bridgeout.Result, error)
	History(limit int) ([]*state.BridgeOut, error)
}

type HttpReporter struct {
	serverIP   string // listen ip
	serverPort string // listen port

	// upstream data sources
	coordinator  explorer.Fetcher // this is an interface
	bridgeOut    BridgeOutService // this is an interface
	instructions *bridgein.Instructions
	hub          *notify.Hub
}

func NewHttpReporter(
	serverIP string,
	serverPort string,
	coordinator explorer.Fetcher,
	bridgeOut BridgeOutService,
	instructions *bridgein.Instructions,
	hub *notify.Hub,
) *HttpReporter {
	if hub == nil {
		hub = notify.NewHub(0)
	}
	return &HttpReporter{
		serverIP:     serverIP,
		serverPort:   serverPort,
		coordinator:  coordinator,
		bridgeOut:    bridgeOut,
		instructions: instructions,
		hub:          hub,
	}
}

// Hook up routes & handlers
func (h *HttpReporter) SetupRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	// Define routes & handlers
	router.GET(ROUTE_HELLO, Hello)
	router.GET(ROUTE_BRIDGE_IN, h.BridgeIn)
	router.GET(ROUTE_ADDRESS_CONVERT, ConvertAddress)
	router.GET(ROUTE_BALANCE, h.Balance)
	router.GET(ROUTE_TRANSACTIONS, h.Transactions)
	router.GET(ROUTE_BRIDGE_OUT, h.BridgeOutHistory)
	router.POST(ROUTE_BRIDGE_OUT, h.SubmitBridgeOut)
	router.GET(ROUTE_WS, h.Notifications)

	return router
}

// Run serves the routes on ip:port until ctx is done.
func (h *HttpReporter) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    h.serverIP + ":" + h.serverPort,
		Handler: h.SetupRouter(),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.WithField("addr", srv.Addr).Info("http reporter listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return ctx.Err()
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.WithFields(logger.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
		}).Debug("http request")
	}
}

// Example route.
func Hello(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "world",
	})
}

func (h *HttpReporter) BridgeIn(c *gin.Context) {
	c.JSON(http.StatusOK, h.instructions.View())
}

// ConvertAddress returns both forms of an ethereum or native address.
func ConvertAddress(c *gin.Context) {
	addr := c.Query("address")
	if !common.IsEthereumAddress(addr) && !common.IsHexShardusAddress(addr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "address must be a 0x address or a 64 character hex address"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ethereum": common.ToEthereumAddress(addr),
		"shardus":  common.ToShardusAddress(addr),
	})
}

// Balance returns the token balance of address, or of the connected
// account when address is omitted.
func (h *HttpReporter) Balance(c *gin.Context) {
	if h.bridgeOut == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "token contract not configured"})
		return
	}

	var account ethcommon.Address
	if addr := c.Query("address"); addr != "" {
		addr = common.ToEthereumAddress(addr)
		if !common.IsEthereumAddress(addr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid address"})
			return
		}
		account = ethcommon.HexToAddress(addr)
	} else {
		a, err := h.bridgeOut.Address()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "address must be provided when no wallet is connected"})
			return
		}
		account = a
	}

	balance, err := h.bridgeOut.BalanceOf(c.Request.Context(), account)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"address":   account.Hex(),
		"value":     balance.Value,
		"formatted": balance.Formatted,
		"symbol":    common.TokenSymbol,
	})
}

// Transactions validates the search and proxies it to the coordinator.
func (h *HttpReporter) Transactions(c *gin.Context) {
	mode, err := explorer.ParseSearchMode(c.Query("mode"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "page must be a positive integer"})
		return
	}

	search := explorer.Search{Mode: mode, Query: c.Query("query"), Page: page}
	params, err := search.Params()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.coordinator.ListTransactions(c.Request.Context(), params)
	if err != nil {
		logger.WithFields(logger.Fields{"mode": mode, "page": page}).Warnf("coordinator request failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	pager := explorer.Pager{Page: result.Page, TotalPages: result.TotalPages}
	c.JSON(http.StatusOK, gin.H{
		"transactions": explorer.NewTransactionViews(result.Transactions),
		"page":         pager.Page,
		"totalPages":   pager.TotalPages,
		"hasPrev":      pager.HasPrev(),
		"hasNext":      pager.HasNext(),
	})
}

func (h *HttpReporter) BridgeOutHistory(c *gin.Context) {
	if h.bridgeOut == nil || !h.bridgeOut.Connected() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": bridgeout.ErrWalletNotConnected.Error()})
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(state.DefaultListLimit)))
	if err != nil || limit < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
		return
	}

	outs, err := h.bridgeOut.History(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	data := make([]*state.JSONBridgeOut, 0, len(outs))
	for _, b := range outs {
		data = append(data, b.ToJSON())
	}
	c.JSON(http.StatusOK, gin.H{"data": data})
}

type bridgeOutRequest struct {
	Amount string `json:"amount" binding:"required"`
}

func (h *HttpReporter) SubmitBridgeOut(c *gin.Context) {
	if h.bridgeOut == nil || !h.bridgeOut.Connected() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": bridgeout.ErrWalletNotConnected.Error()})
		return
	}

	var req bridgeOutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be provided"})
		return
	}

	res, err := h.bridgeOut.Submit(c.Request.Context(), req.Amount)
	if err != nil {
		c.JSON(submitErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	resp := gin.H{
		"txHash":      res.TxHash.Hex(),
		"status":      res.Status,
		"blockNumber": res.BlockNumber,
	}
	if res.Balance != nil {
		resp["balance"] = res.Balance
	}
	if res.Events != nil {
		resp["events"] = res.Events.Len()
	}
	c.JSON(http.StatusOK, resp)
}

func submitErrorStatus(err error) int {
	switch {
	case errors.Is(err, bridgeout.ErrInvalidAmount), errors.Is(err, bridgeout.ErrInsufficientBalance):
		return http.StatusBadRequest
	case errors.Is(err, bridgeout.ErrSubmissionInFlight):
		return http.StatusConflict
	case errors.Is(err, bridgeout.ErrWalletNotConnected):
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}
