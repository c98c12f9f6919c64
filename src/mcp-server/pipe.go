// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/H0llyW00dzZ/nx-cert-chain-resolver/src/internal/helper/gc"
	jsonrpcInternal "github.com/H0llyW00dzZ/nx-cert-chain-resolver/src/internal/helper/jsonrpc"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// pipeReader implements io.Reader for StdioServer input
// It reads from sendCh (ADK requests) and internalRespCh (local responses)
type pipeReader struct {
	t         *InMemoryTransport
	activeBuf gc.Buffer
	offset    int
}

func (r *pipeReader) Read(p []byte) (n int, err error) {
	// 1. Serve from active buffer if available
	if r.activeBuf != nil {
		data := r.activeBuf.Bytes()[r.offset:]
		n = copy(p, data)
		r.offset += n

		// If buffer is drained, return it to pool
		if r.offset >= r.activeBuf.Len() {
			r.activeBuf.Reset()
			gc.Default.Put(r.activeBuf)
			r.activeBuf = nil
			r.offset = 0
		}
		return n, nil
	}

	// 2. Wait for new message
	var msg []byte
	var ok bool

	select {
	case msg, ok = <-r.t.sendCh:
	case msg, ok = <-r.t.internalRespCh:
	case <-r.t.ctx.Done():
		return 0, io.EOF
	}

	if !ok {
		return 0, io.EOF
	}

	// 3. Prepare new buffer
	r.activeBuf = gc.Default.Get()
	r.activeBuf.Write(msg)

	// Ensure newline for StdioServer
	if r.activeBuf.Len() == 0 || r.activeBuf.Bytes()[r.activeBuf.Len()-1] != '\n' {
		r.activeBuf.WriteByte('\n')
	}

	// 4. Copy to p
	data := r.activeBuf.Bytes()
	n = copy(p, data)
	r.offset = n

	// If fully consumed, clean up immediately
	if r.offset >= r.activeBuf.Len() {
		r.activeBuf.Reset()
		gc.Default.Put(r.activeBuf)
		r.activeBuf = nil
		r.offset = 0
	}

	return n, nil
}

// pipeWriter implements io.Writer for StdioServer output
// It writes to recvCh (ADK responses) but intercepts Sampling requests
type pipeWriter struct {
	t         *InMemoryTransport
	activeBuf gc.Buffer
}

func (w *pipeWriter) Write(p []byte) (n int, err error) {
	if w.activeBuf == nil {
		w.activeBuf = gc.Default.Get()
	}
	w.activeBuf.Write(p)

	data := w.activeBuf.Bytes()
	consumed := 0

	for {
		idx := bytes.IndexByte(data, '\n')
		if idx == -1 {
			break
		}

		// Extract line including newline
		lineLen := idx + 1
		line := data[:lineLen]

		// Make a copy to safely use outside buffer (sendToRecv expects independent slice)
		msg := make([]byte, len(line))
		copy(msg, line)

		// Check for interception (Sampling)
		w.processLine(msg)

		// Advance window
		data = data[lineLen:]
		consumed += lineLen
	}

	// Update buffer with remaining data
	if len(data) == 0 {
		// Fully consumed
		w.activeBuf.Reset()
		gc.Default.Put(w.activeBuf)
		w.activeBuf = nil
	} else {
		// Shift remaining to front
		// Note: Set() uses append(dst[:0], src...), which handles overlapping slices correctly
		w.activeBuf.Set(data)
	}

	return len(p), nil
}

func (w *pipeWriter) processLine(line []byte) {
	// Try to parse as partial JSON to check for method
	// We only care about Requests (have method and id)
	// Optimization: Quick check for "method" string
	if !bytes.Contains(line, []byte(`"method"`)) {
		// Not a request we care about (could be response or notification)
		w.t.sendToRecv(line)
		return
	}

	var req map[string]any
	if err := json.Unmarshal(line, &req); err != nil {
		// Parse error, just forward
		w.t.sendToRecv(line)
		return
	}

	// Check if it's a request (has id) and method is sampling
	if method, ok := req["method"].(string); ok && method == string(mcp.MethodSamplingCreateMessage) {
		if _, hasID := req["id"]; hasID {
			// It's a sampling request! Handle it locally.
			w.t.shutdownWg.Add(1)
			go func() {
				defer w.t.shutdownWg.Done()
				w.t.handleSampling(req)
			}()
			return
		}
	}

	// Forward everything else
	w.t.sendToRecv(line)
}

// ConnectServerStdio connects a mark3labs MCP server to this transport over an
// in-memory stdio pipe.
//
// Unlike ConnectServer, which drives an in-process client, this mode feeds the
// server's stdio loop through pipeReader and pipeWriter. Sampling requests the
// server emits are intercepted by pipeWriter and answered locally through the
// configured sampling handler, so bidirectional AI features work without a real
// client on the other end.
func (t *InMemoryTransport) ConnectServerStdio(ctx context.Context, srv *server.MCPServer) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.started {
		return fmt.Errorf("transport already connected")
	}

	stdioServer := server.NewStdioServer(srv)

	t.processWg.Add(1)
	go func() {
		defer t.processWg.Done()
		// Listen returns when the context is cancelled or the reader drains
		_ = stdioServer.Listen(t.ctx, &pipeReader{t: t}, &pipeWriter{t: t})
	}()

	t.started = true
	return nil
}

// sendToRecv forwards a raw message line to the receive channel read by the
// ADK side of the bridge
func (t *InMemoryTransport) sendToRecv(data []byte) {
	select {
	case t.recvCh <- data:
	case <-t.ctx.Done():
		// Context cancelled, drop message
	}
}

// sendToInternal feeds a locally produced response back into the server's
// input stream via pipeReader
func (t *InMemoryTransport) sendToInternal(resp any) {
	data, err := json.Marshal(resp)
	if err != nil {
		return
	}
	select {
	case t.internalRespCh <- data:
	case <-t.ctx.Done():
		// Context cancelled, drop response
	}
}

// handleSampling answers an intercepted sampling/createMessage request using
// the configured sampling handler. The response goes to internalRespCh so the
// server's stdio loop receives it as if a real client had replied.
func (t *InMemoryTransport) handleSampling(req map[string]any) {
	id := req["id"]

	respondError := func(code int, message string) {
		t.sendToInternal(jsonRPCResponse{
			JSONRPC: mcp.JSONRPC_VERSION,
			ID:      id,
			Error: &jsonRPCError{
				Code:    code,
				Message: message,
			},
		})
	}

	t.mu.Lock()
	handler := t.samplingHandler
	t.mu.Unlock()

	if handler == nil {
		respondError(-32603, "no sampling handler configured")
		return
	}

	params, err := getParams(req, string(mcp.MethodSamplingCreateMessage))
	if err != nil {
		respondError(-32602, err.Error())
		return
	}

	var createParams mcp.CreateMessageParams
	if err := jsonrpcInternal.UnmarshalFromMap(params, &createParams); err != nil {
		respondError(-32602, fmt.Sprintf("invalid sampling params: %v", err))
		return
	}

	result, err := handler.CreateMessage(t.ctx, mcp.CreateMessageRequest{
		CreateMessageParams: createParams,
	})
	if err != nil {
		respondError(-32603, err.Error())
		return
	}

	t.sendToInternal(jsonRPCResponse{
		JSONRPC: mcp.JSONRPC_VERSION,
		ID:      id,
		Result:  result,
	})
}
