// Package chain provides the block-height clock. The marketplace never reads
// wall-clock time for expiry; it reads the settlement chain's tip height,
// cached here and refreshed by a background task.
package chain

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/satsbridge/marketplace-service/internal/config"
)

type nodeInfoResponse struct {
	StacksTipHeight uint64 `json:"stacks_tip_height"`
	BurnBlockHeight uint64 `json:"burn_block_height"`
}

// NodeHeightProvider polls a Stacks node's /v2/info endpoint and serves the
// last seen tip height. CurrentHeight never blocks on the network once a
// height has been observed.
type NodeHeightProvider struct {
	nodeURL string
	client  *http.Client
	height  atomic.Uint64
}

func NewNodeHeightProvider(cfg config.ChainService) *NodeHeightProvider {
	return &NodeHeightProvider{
		nodeURL: cfg.NodeURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (p *NodeHeightProvider) CurrentHeight() (uint64, error) {
	if h := p.height.Load(); h != 0 {
		return h, nil
	}
	return p.Refresh()
}

// Refresh fetches the tip height from the node and caches it. Heights only
// move forward; a node that answers with a smaller height (e.g. a lagging
// replica) does not rewind the clock.
func (p *NodeHeightProvider) Refresh() (uint64, error) {
	response, err := p.client.Get(fmt.Sprintf("%s/v2/info", p.nodeURL))
	if err != nil {
		return 0, err
	}
	defer response.Body.Close()
	responseBodyBytes, err := io.ReadAll(response.Body)
	if err != nil {
		return 0, err
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return 0, fmt.Errorf("chain node returned status %d", response.StatusCode)
	}

	var info nodeInfoResponse
	if err := json.Unmarshal(responseBodyBytes, &info); err != nil {
		return 0, err
	}

	for {
		current := p.height.Load()
		if info.StacksTipHeight <= current {
			return current, nil
		}
		if p.height.CompareAndSwap(current, info.StacksTipHeight) {
			return info.StacksTipHeight, nil
		}
	}
}

// StaticHeightProvider pins the height, for tests and local runs.
type StaticHeightProvider struct {
	Height uint64
}

func (p *StaticHeightProvider) CurrentHeight() (uint64, error) {
	return p.Height, nil
}
