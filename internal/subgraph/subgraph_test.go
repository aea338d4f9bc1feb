package subgraph

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

func newBoostServer(t *testing.T, body string) *httptest.Server {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, body)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestBoostParsesWeightedWithLimit(t *testing.T) {
	body := `{"data":{"boost":{
		"id":"3",
		"strategy":{
			"proposal":"0xprop",
			"eligibility":{"type":"incentive","choice":0},
			"distribution":{"type":"weighted","limit":"10000000000000000000","numWinners":0,"cap":null}
		},
		"token":"0x000000000000000000000000000000000000aa",
		"decimals":18,
		"poolSize":"200000000000000000000",
		"owner":"0x000000000000000000000000000000000000bb",
		"start":1700000000,
		"end":1700100000,
		"guard":"0x000000000000000000000000000000000000cc"
	}}}`
	server := newBoostServer(t, body)
	c := New(server.URL, server.URL)

	boost, err := c.Boost(context.Background(), "3", MainnetChainID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if boost.ID != "3" {
		t.Fatalf("expected boost id 3, got %s", boost.ID)
	}
	if boost.Strategy.Distribution.WeightedLimit == nil || boost.Strategy.Distribution.WeightedLimit.String() != "10000000000000000000" {
		t.Fatalf("expected weighted limit 10e18, got %v", boost.Strategy.Distribution.WeightedLimit)
	}
	if boost.Token != common.HexToAddress("0x000000000000000000000000000000000000aa") {
		t.Fatalf("unexpected token: %s", boost.Token)
	}
}

func TestBoostParsesLotteryWithCap(t *testing.T) {
	body := `{"data":{"boost":{
		"id":"7",
		"strategy":{
			"proposal":"0xprop",
			"eligibility":{"type":"incentive","choice":0},
			"distribution":{"type":"lottery","limit":null,"numWinners":5,"cap":2000}
		},
		"token":"0x000000000000000000000000000000000000aa",
		"decimals":18,
		"poolSize":"1000",
		"owner":"0x000000000000000000000000000000000000bb",
		"start":1700000000,
		"end":1700100000,
		"guard":"0x000000000000000000000000000000000000cc"
	}}}`
	server := newBoostServer(t, body)
	c := New(server.URL, server.URL)

	boost, err := c.Boost(context.Background(), "7", MainnetChainID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	d := boost.Strategy.Distribution
	if d.NumWinners != 5 || !d.HasCapBps || d.CapBps != 2000 {
		t.Fatalf("unexpected lottery distribution: %+v", d)
	}
}

func TestBoostReturnsErrBoostNotFound(t *testing.T) {
	server := newBoostServer(t, `{"data":{"boost":null}}`)
	c := New(server.URL, server.URL)

	_, err := c.Boost(context.Background(), "missing", MainnetChainID)
	if err != ErrBoostNotFound {
		t.Fatalf("expected ErrBoostNotFound, got %v", err)
	}
}

func TestBoostRejectsUnsupportedChain(t *testing.T) {
	c := New("http://unused", "http://unused")
	_, err := c.Boost(context.Background(), "1", 999)
	if err != ErrUnsupportedChain {
		t.Fatalf("expected ErrUnsupportedChain, got %v", err)
	}
}

func TestBoostPropagatesGraphQLErrors(t *testing.T) {
	server := newBoostServer(t, `{"data":{"boost":null},"errors":[{"message":"boom"}]}`)
	c := New(server.URL, server.URL)

	_, err := c.Boost(context.Background(), "1", MainnetChainID)
	if err == nil {
		t.Fatalf("expected an error from a GraphQL errors payload")
	}
}
