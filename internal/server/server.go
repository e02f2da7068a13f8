// Package server wraps the TCP server that computes and verifies MAC tags
// on behalf of remote clients.
package server

import (
	"bytes"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	anetserver "github.com/andrei-cloud/anet/server"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/go-lemac/lemacd/internal/errorcodes"
	"github.com/go-lemac/lemacd/internal/logging"
	"github.com/go-lemac/lemacd/internal/macdispatch"
	"github.com/go-lemac/lemacd/internal/plugins"
)

// Wire command codes.
const (
	cmdTag    = "MT" // compute a tag
	cmdVerify = "MV" // compute a tag and compare against a supplied one
)

// Algorithm selector bytes carried in the request payload.
const (
	algoLeMacV1  byte = 0
	algoLeMacV0  byte = 1
	algoPetitMac byte = 2
)

var algoNames = map[byte]string{
	algoLeMacV1:  macdispatch.LeMacV1,
	algoLeMacV0:  macdispatch.LeMacV0,
	algoPetitMac: macdispatch.PetitMac,
}

// logAdapter implements anet.Logger using zerolog.
type logAdapter struct{}

func (l logAdapter) Print(v ...any)                 { log.Info().Msg(fmt.Sprint(v...)) }
func (l logAdapter) Printf(format string, v ...any) { log.Info().Msgf(format, v...) }
func (l logAdapter) Infof(format string, v ...any)  { log.Info().Msgf(format, v...) }
func (l logAdapter) Warnf(format string, v ...any)  { log.Warn().Msgf(format, v...) }
func (l logAdapter) Errorf(format string, v ...any) { log.Error().Msgf(format, v...) }

// Server handles MAC tag requests over TCP, dispatching to the built-in
// algorithms or a hot-swappable set of WASM algorithm plugins.
type Server struct {
	address             string
	srv                 *anetserver.Server
	pluginManagerHolder atomic.Value // stores plugins.PluginManagerInterface
	activeConns         int32
}

// NewServer configures and returns a new Server listening on address. A
// plugin loaded in the provided PluginManager under a built-in algorithm
// name is used in place of that built-in implementation.
func NewServer(address string, pm plugins.PluginManagerInterface) (*Server, error) {
	cfg := &anetserver.ServerConfig{
		MaxConns:        100,
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    30 * time.Second,
		IdleTimeout:     0 * time.Second, // disable idle connection closure.
		ShutdownTimeout: 5 * time.Second,
		Logger:          logAdapter{},
	}

	s := &Server{address: address}
	s.pluginManagerHolder.Store(pm)

	handler := anetserver.HandlerFunc(s.handle)
	srv, err := anetserver.NewServer(address, handler, cfg)
	if err != nil {
		return nil, fmt.Errorf("server setup failed: %w", err)
	}
	s.srv = srv

	return s, nil
}

// Start begins listening for connections and processing requests.
func (s *Server) Start() error {
	log.Info().Str("address", s.address).Msg("server started")

	return s.srv.Start()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() error {
	return s.srv.Stop()
}

// SetPluginManager atomically replaces the PluginManager and closes the old one.
func (s *Server) SetPluginManager(newPM plugins.PluginManagerInterface) {
	old, ok := s.pluginManagerHolder.Load().(plugins.PluginManagerInterface)
	if !ok || old == nil {
		s.pluginManagerHolder.Store(newPM)

		return
	}

	s.pluginManagerHolder.Store(newPM)

	if err := old.Close(); err != nil {
		log.Error().Err(err).Msg("failed to close old plugin manager")
	}
}

// incrementCode returns the next command code by incrementing the second character.
func incrementCode(cmd string) string {
	b := []byte(cmd)
	if len(b) < 2 {
		return cmd
	}
	if b[1] == 'Z' {
		b[1] = 'A'
	} else {
		b[1]++
	}

	return string(b)
}

func errorResponse(cmd string, err error) []byte {
	code := errorcodes.ErrUnknownAlgorithm.CodeOnly()
	if macErr, ok := err.(errorcodes.MacError); ok {
		code = macErr.CodeOnly()
	}

	return []byte(incrementCode(cmd) + code)
}

// minPayloadLen is the smallest legal payload: 1 algo byte + 16 key + 16 nonce.
const minPayloadLen = 1 + 16 + 16

// parseRequest splits a request payload (everything after the 2-byte
// command code) into algorithm name, key, nonce, and message.
func parseRequest(payload []byte) (algo string, key, nonce, message []byte, err error) {
	if len(payload) < minPayloadLen {
		return "", nil, nil, nil, errorcodes.ErrInvalidKeyLength
	}

	name, ok := algoNames[payload[0]]
	if !ok {
		return "", nil, nil, nil, errorcodes.ErrUnknownAlgorithm
	}

	key = payload[1:17]
	nonce = payload[17:33]
	message = payload[33:]

	return name, key, nonce, message, nil
}

// handle dispatches one request: MT computes a tag, MV computes a tag and
// compares it against an expected tag appended to the end of the payload.
func (s *Server) handle(conn *anetserver.ServerConn, data []byte) ([]byte, error) {
	client := conn.Conn.RemoteAddr().String()
	atomic.AddInt32(&s.activeConns, 1)
	defer atomic.AddInt32(&s.activeConns, -1)

	requestID := uuid.NewString()
	start := time.Now()

	if len(data) < 2 {
		log.Error().Str("client_ip", client).Str("request_id", requestID).Msg("malformed request")

		return nil, errors.New("malformed request")
	}

	cmd := string(data[:2])
	payload := data[2:]

	if cmd == cmdVerify {
		if len(payload) < 16 {
			return errorResponse(cmd, errorcodes.ErrInvalidNonceLength), nil
		}
		payload, expected := payload[:len(payload)-16], payload[len(payload)-16:]

		resp, tag, err := s.computeTag(client, cmd, requestID, payload)
		if err != nil {
			s.logResponse(client, cmd, requestID, resp, err, start)

			return resp, nil
		}

		match := byte('N')
		if bytes.Equal(tag[:], expected) {
			match = 'Y'
		}
		verifyResp := []byte(incrementCode(cmd) + string(match))
		s.logResponse(client, cmd, requestID, verifyResp, nil, start)

		return verifyResp, nil
	}

	if cmd != cmdTag {
		log.Warn().Str("client_ip", client).Str("command", cmd).Msg("unrecognized command")

		return errorResponse(cmd, errorcodes.ErrUnknownAlgorithm), nil
	}

	resp, _, err := s.computeTag(client, cmd, requestID, payload)
	s.logResponse(client, cmd, requestID, resp, err, start)

	return resp, nil
}

// computeTag parses payload and runs the selected algorithm, returning the
// wire response (already error-coded on failure) alongside the raw tag.
func (s *Server) computeTag(
	client, cmd, requestID string,
	payload []byte,
) (resp []byte, tag [16]byte, err error) {
	algo, key, nonce, message, err := parseRequest(payload)
	if err != nil {
		return errorResponse(cmd, err), tag, err
	}

	logging.LogTagRequest(client, cmd, algo, nonce, len(message), int(atomic.LoadInt32(&s.activeConns)))

	pm, _ := s.pluginManagerHolder.Load().(plugins.PluginManagerInterface)

	tagger, err := macdispatch.Resolve(pm, algo)
	if err != nil {
		return errorResponse(cmd, err), tag, err
	}

	tag, err = tagger.Tag(key, nonce, message)
	if err != nil {
		return errorResponse(cmd, err), tag, err
	}

	return []byte(incrementCode(cmd) + string(tag[:])), tag, nil
}

func (s *Server) logResponse(client, cmd, _ string, resp []byte, err error, start time.Time) {
	code := ""
	if macErr, ok := err.(errorcodes.MacError); ok {
		code = macErr.CodeOnly()
	}

	logging.LogTagResponse(
		client, cmd, resp, code,
		time.Since(start), int(atomic.LoadInt32(&s.activeConns)),
	)
}
