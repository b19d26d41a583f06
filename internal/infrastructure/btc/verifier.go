// Package btc implements the payment verification oracle against an
// esplora-compatible block explorer API. The marketplace only consumes the
// yes/no answer; confirmation policy lives here.
package btc

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/satsbridge/marketplace-service/internal/config"
	"github.com/satsbridge/marketplace-service/internal/domain"
)

const txRefHexLen = 64 // a bitcoin txid is 32 bytes hex-encoded

type txStatus struct {
	Confirmed   bool   `json:"confirmed"`
	BlockHeight uint64 `json:"block_height"`
}

type txOutput struct {
	ScriptPubKeyAddress string `json:"scriptpubkey_address"`
	Value               uint64 `json:"value"`
}

type txResponse struct {
	TxID   string     `json:"txid"`
	Status txStatus   `json:"status"`
	Vout   []txOutput `json:"vout"`
}

type EsploraVerifier struct {
	baseURL          string
	minConfirmations uint64
	client           *http.Client
}

func NewEsploraVerifier(cfg config.OracleService) *EsploraVerifier {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	minConf := cfg.MinConfirmations
	if minConf == 0 {
		minConf = 1
	}
	return &EsploraVerifier{
		baseURL:          cfg.BaseURL,
		minConfirmations: minConf,
		client:           &http.Client{Timeout: timeout},
	}
}

// IsPaymentVerified reports whether btcTxRef is a confirmed transaction
// paying at least amountSats to btcAddress. An unknown txid is "not verified
// yet", not an error; the buyer retries after the payment settles.
func (v *EsploraVerifier) IsPaymentVerified(ctx context.Context, btcTxRef string, amountSats uint64, btcAddress string) (bool, error) {
	if err := validateTxRef(btcTxRef); err != nil {
		return false, err
	}

	tx, found, err := v.fetchTx(ctx, btcTxRef)
	if err != nil {
		return false, err
	}
	if !found || !tx.Status.Confirmed {
		return false, nil
	}

	tipHeight, err := v.fetchTipHeight(ctx)
	if err != nil {
		return false, err
	}
	if tipHeight < tx.Status.BlockHeight || tipHeight-tx.Status.BlockHeight+1 < v.minConfirmations {
		return false, nil
	}

	var paid uint64
	for _, out := range tx.Vout {
		if out.ScriptPubKeyAddress == btcAddress {
			paid += out.Value
		}
	}
	return paid >= amountSats, nil
}

func validateTxRef(btcTxRef string) error {
	if len(btcTxRef) != txRefHexLen {
		return fmt.Errorf("btc tx reference must be %d hex chars: %w", txRefHexLen, domain.ErrInvalidInput)
	}
	if _, err := hex.DecodeString(btcTxRef); err != nil {
		return fmt.Errorf("btc tx reference is not hex: %w", domain.ErrInvalidInput)
	}
	return nil
}

func (v *EsploraVerifier) fetchTx(ctx context.Context, txid string) (*txResponse, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/tx/%s", v.baseURL, txid), nil)
	if err != nil {
		return nil, false, err
	}
	response, err := v.client.Do(req)
	if err != nil {
		return nil, false, err
	}
	defer response.Body.Close()
	responseBodyBytes, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, false, err
	}

	if response.StatusCode == http.StatusNotFound {
		return nil, false, nil
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return nil, false, fmt.Errorf("oracle returned status %d", response.StatusCode)
	}

	var tx txResponse
	if err := json.Unmarshal(responseBodyBytes, &tx); err != nil {
		return nil, false, err
	}
	return &tx, true, nil
}

func (v *EsploraVerifier) fetchTipHeight(ctx context.Context) (uint64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/blocks/tip/height", v.baseURL), nil)
	if err != nil {
		return 0, err
	}
	response, err := v.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer response.Body.Close()
	responseBodyBytes, err := io.ReadAll(response.Body)
	if err != nil {
		return 0, err
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return 0, fmt.Errorf("oracle returned status %d", response.StatusCode)
	}

	var height uint64
	if _, err := fmt.Sscanf(string(responseBodyBytes), "%d", &height); err != nil {
		return 0, err
	}
	return height, nil
}
