package anchor

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"rollup-l1-sender/common"

	"github.com/dghubble/sling"
)

const (
	defaultMaxIdleConns    = 10
	defaultIdleConnTimeout = 2 * time.Second

	methodDepositData = "address_deposit_data"
)

type depositParams struct {
	Data    string                 `json:"data"`
	Account int                    `json:"account"`
	Options map[string]interface{} `json:"options"`
}

type rpcRequest struct {
	Method  string        `json:"method"`
	Params  depositParams `json:"params"`
	JSONRPC string        `json:"jsonrpc"`
	ID      int           `json:"id"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int             `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *rpcError       `json:"error"`
}

// LedgerClient deposits anchoring roots in a ledger node through its wallet
// JSON-RPC API
type LedgerClient struct {
	client *sling.Sling
}

// NewLedgerClient creates a LedgerClient for the JSON-RPC server at url
func NewLedgerClient(url string, timeout time.Duration) *LedgerClient {
	tr := &http.Transport{
		MaxIdleConns:       defaultMaxIdleConns,
		IdleConnTimeout:    defaultIdleConnTimeout,
		DisableCompression: true,
	}
	httpClient := &http.Client{Transport: tr, Timeout: timeout}
	return &LedgerClient{
		client: sling.New().Base(url).Client(httpClient),
	}
}

// Deposit stores root, hex encoded, as data of the default account
func (l *LedgerClient) Deposit(ctx context.Context, root string) error {
	body := rpcRequest{
		Method: methodDepositData,
		Params: depositParams{
			Data:    hex.EncodeToString([]byte(root)),
			Account: 0,
			Options: map[string]interface{}{},
		},
		JSONRPC: "2.0",
		ID:      1,
	}
	req, err := l.client.New().Post("").BodyJSON(&body).Request()
	if err != nil {
		return common.Wrap(err)
	}
	var resp, failure rpcResponse
	res, err := l.client.Do(req.WithContext(ctx), &resp, &failure)
	if err != nil {
		return common.Wrap(fmt.Errorf("%s: %w", methodDepositData, err))
	}
	if res.StatusCode/100 != 2 { //nolint:gomnd
		if failure.Error != nil {
			resp.Error = failure.Error
		} else {
			return common.Wrap(fmt.Errorf("%s: http status %d", methodDepositData, res.StatusCode))
		}
	}
	if resp.Error != nil {
		return common.Wrap(fmt.Errorf("%s: rpc error %d: %s",
			methodDepositData, resp.Error.Code, resp.Error.Message))
	}
	return nil
}
