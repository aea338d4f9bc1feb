// Package beacon adapts beaconcha.in-style slot and epoch HTTP APIs into the 32-byte RANDAO
// seed the lottery engine needs (spec §4.4 "Beacon seed").
package beacon

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/snapshot-labs/boost-guard/internal/bgerr"
)

// Merge-transition constants fixing the slot/epoch clock boost-guardd derives seeds from.
const (
	FirstMergedSlot          uint64 = 4_700_013
	FirstMergedSlotTimestamp uint64 = 1_663_224_179
	SlotDurationSeconds      uint64 = 12
)

// Client fetches finalized-epoch RANDAO reveals from a beaconcha.in-compatible API.
type Client struct {
	slotURL  string
	epochURL string
	apiKey   string
	http     *http.Client
}

// New constructs a beacon Client. slotURL and epochURL are the base URLs (without the
// trailing slot/epoch number) for the respective endpoints.
func New(slotURL, epochURL, apiKey string) *Client {
	return &Client{
		slotURL:  slotURL,
		epochURL: epochURL,
		apiKey:   apiKey,
		http:     &http.Client{Timeout: 15 * time.Second},
	}
}

// SlotForTimestamp computes the slot at or just after a given Unix timestamp (spec §4.4 "Beacon
// seed" step 1).
func SlotForTimestamp(timestamp int64) uint64 {
	ts := uint64(timestamp)
	if ts <= FirstMergedSlotTimestamp {
		return FirstMergedSlot
	}
	elapsed := ts - FirstMergedSlotTimestamp
	elapsedSlots := uint64(math.Ceil(float64(elapsed) / float64(SlotDurationSeconds)))
	return FirstMergedSlot + elapsedSlots
}

type slotResponse struct {
	Data struct {
		Epoch        uint64 `json:"epoch"`
		RandaoReveal string `json:"randaoreveal"`
	} `json:"data"`
}

type epochResponse struct {
	Data struct {
		Finalized bool `json:"finalized"`
	} `json:"data"`
}

// Seed fetches and derives the 32-byte RANDAO seed for the given proposal end timestamp:
// resolve the slot, resolve its epoch, require the epoch be finalized, then hex-decode the
// slot's randao_reveal and SHA-256 the decoded bytes.
func (c *Client) Seed(ctx context.Context, endTimestamp int64) ([32]byte, error) {
	var seed [32]byte

	slot := SlotForTimestamp(endTimestamp)

	var slotData slotResponse
	if err := c.getJSON(ctx, fmt.Sprintf("%s%d?apikey=%s", c.slotURL, slot, c.apiKey), &slotData); err != nil {
		return seed, fmt.Errorf("%w: fetch slot %d: %v", bgerr.ErrSeedFetch, slot, err)
	}

	var epochData epochResponse
	epochURL := fmt.Sprintf("%s%d?apikey=%s", c.epochURL, slotData.Data.Epoch, c.apiKey)
	if err := c.getJSON(ctx, epochURL, &epochData); err != nil {
		return seed, fmt.Errorf("%w: fetch epoch %d: %v", bgerr.ErrSeedFetch, slotData.Data.Epoch, err)
	}
	if !epochData.Data.Finalized {
		return seed, bgerr.ErrSeedNotFinal
	}

	reveal := strings.TrimPrefix(slotData.Data.RandaoReveal, "0x")
	raw, err := hex.DecodeString(reveal)
	if err != nil {
		return seed, fmt.Errorf("%w: decode randao_reveal: %v", bgerr.ErrSeedFetch, err)
	}

	seed = sha256.Sum256(raw)
	return seed, nil
}

func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status=%d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
