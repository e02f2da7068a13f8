package server_test

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/andrei-cloud/anet"

	"github.com/go-lemac/lemacd/internal/plugins"
	"github.com/go-lemac/lemacd/internal/server"
	"github.com/go-lemac/lemacd/pkg/lemac"
)

const testAddr = "127.0.0.1:16001"

// startTestServer starts the lemacd server for testing, with an empty
// plugin directory so every request falls through to the built-ins.
func startTestServer(t *testing.T) *server.Server {
	t.Helper()

	pm := plugins.NewPluginManager(context.Background())
	if err := pm.LoadAll(t.TempDir()); err != nil {
		t.Fatalf("failed to load plugins: %v", err)
	}

	srv, err := server.NewServer(testAddr, pm)
	if err != nil {
		t.Fatalf("failed to initialize server: %v", err)
	}

	errChan := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			errChan <- err
		}
		close(errChan)
	}()

	select {
	case err := <-errChan:
		if err != nil {
			t.Fatalf("server start error: %v", err)
		}
	case <-time.After(1 * time.Second):
		// Allow some time for the server to start.
	}

	time.Sleep(100 * time.Millisecond)

	return srv
}

func dialBroker(t *testing.T) *anet.Broker {
	t.Helper()

	factory := func(addr string) (anet.PoolItem, error) {
		conn, err := net.DialTimeout("tcp", addr, 500*time.Millisecond)
		if err != nil {
			return nil, err
		}

		if err := conn.SetDeadline(time.Now().Add(2 * time.Second)); err != nil {
			conn.Close()

			return nil, err
		}

		return conn, nil
	}

	pool := anet.NewPool(1, factory, testAddr, nil)
	t.Cleanup(pool.Close)

	broker := anet.NewBroker([]anet.Pool{pool}, 1, nil, nil)
	go broker.Start()
	t.Cleanup(broker.Close)

	return broker
}

// TestComputeTagOverWire verifies the MT command returns a tag matching a
// direct, in-process call to pkg/lemac for the same inputs.
func TestComputeTagOverWire(t *testing.T) {
	srv := startTestServer(t)
	defer srv.Stop()

	broker := dialBroker(t)

	key := make([]byte, 16)
	nonce := make([]byte, 16)
	message := []byte("hello, lemacd")

	req := append([]byte("MT"), 0) // algo 0 = lemac v1
	req = append(req, key...)
	req = append(req, nonce...)
	req = append(req, message...)

	resp, err := broker.Send(&req)
	if err != nil {
		t.Fatalf("MT request failed: %v", err)
	}
	if len(resp) != 18 {
		t.Fatalf("unexpected response length: got %d, want 18", len(resp))
	}
	if string(resp[:2]) != "MU" {
		t.Fatalf("unexpected response code: got %s, want MU", resp[:2])
	}

	want, err := lemac.Tag(key, nonce, message, lemac.V1)
	if err != nil {
		t.Fatalf("lemac.Tag() error = %v", err)
	}
	if string(resp[2:]) != string(want[:]) {
		t.Fatalf("tag mismatch: got %x, want %x", resp[2:], want)
	}
}

// TestVerifyTagOverWire verifies the MV command reports a match for a
// correct tag and a mismatch for a tampered one.
func TestVerifyTagOverWire(t *testing.T) {
	srv := startTestServer(t)
	defer srv.Stop()

	broker := dialBroker(t)

	key := make([]byte, 16)
	nonce := make([]byte, 16)
	message := []byte("verify me")

	tag, err := lemac.Tag(key, nonce, message, lemac.V1)
	if err != nil {
		t.Fatalf("lemac.Tag() error = %v", err)
	}

	req := append([]byte("MV"), 0)
	req = append(req, key...)
	req = append(req, nonce...)
	req = append(req, message...)
	req = append(req, tag[:]...)

	resp, err := broker.Send(&req)
	if err != nil {
		t.Fatalf("MV request failed: %v", err)
	}
	if string(resp) != "MWY" {
		t.Fatalf("expected a match response 'MWY', got %q", resp)
	}

	tamperedReq := append([]byte{}, req...)
	tamperedReq[len(tamperedReq)-1] ^= 0xFF
	resp, err = broker.Send(&tamperedReq)
	if err != nil {
		t.Fatalf("MV request failed: %v", err)
	}
	if string(resp) != "MWN" {
		t.Fatalf("expected a mismatch response 'MWN', got %q", resp)
	}
}

// TestUnknownCommand verifies the server responds with an incremented
// command code for unrecognized commands.
func TestUnknownCommand(t *testing.T) {
	srv := startTestServer(t)
	defer srv.Stop()

	broker := dialBroker(t)

	req := append([]byte("ZZ"), make([]byte, 33)...)
	resp, err := broker.Send(&req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if string(resp[:2]) != "ZA" {
		t.Fatalf("unexpected response code: got %s, want ZA", resp[:2])
	}
}
