package ledger

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/crypto/sha3"

	"certledger/internal/platform/config"
)

// Contract method signatures on the certificate registry.
const (
	sigSubmitCertificate      = "submitCertificate(string)"
	sigIsCertificateSubmitted = "isCertificateSubmitted(string)"
)

// EthClient is a minimal JSON-RPC client for the registry contract. It speaks
// to a signer-enabled node: submissions go through eth_sendTransaction so key
// management stays outside this process.
type EthClient struct {
	rpcURL   string
	contract string
	from     string
	http     *http.Client
}

// NewEthClient constructs a ledger client from config.
func NewEthClient(cfg config.Ledger) *EthClient {
	return &EthClient{
		rpcURL:   cfg.RPCURL,
		contract: cfg.ContractAddress,
		from:     cfg.FromAddress,
		http:     &http.Client{Timeout: cfg.RequestTimeout},
	}
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

// Submit sends a submitCertificate transaction and returns the transaction
// hash. Gas estimation and nonce handling are left to the node.
func (c *EthClient) Submit(ctx context.Context, certificateID string) (string, error) {
	data := encodeStringCall(sigSubmitCertificate, certificateID)
	txObj := map[string]string{
		"from": c.from,
		"to":   c.contract,
		"data": data,
	}
	var txHash string
	if err := c.call(ctx, "eth_sendTransaction", []any{txObj}, &txHash); err != nil {
		return "", fmt.Errorf("submit certificate: %w", err)
	}
	return txHash, nil
}

// IsSubmitted runs isCertificateSubmitted against the latest block.
func (c *EthClient) IsSubmitted(ctx context.Context, certificateID string) (bool, error) {
	callObj := map[string]string{
		"to":   c.contract,
		"data": encodeStringCall(sigIsCertificateSubmitted, certificateID),
	}
	var result string
	if err := c.call(ctx, "eth_call", []any{callObj, "latest"}, &result); err != nil {
		return false, fmt.Errorf("check certificate: %w", err)
	}
	return decodeBool(result), nil
}

// Health checks node reachability with a cheap block number query.
func (c *EthClient) Health(ctx context.Context) error {
	var blockNumber string
	if err := c.call(ctx, "eth_blockNumber", []any{}, &blockNumber); err != nil {
		return fmt.Errorf("ledger unreachable: %w", err)
	}
	return nil
}

func (c *EthClient) call(ctx context.Context, method string, params []any, result any) error {
	payload, err := json.Marshal(rpcRequest{JSONRPC: "2.0", ID: 1, Method: method, Params: params})
	if err != nil {
		return fmt.Errorf("marshal rpc request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.rpcURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build rpc request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("rpc %s: %w", method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("rpc %s: unexpected status %d", method, resp.StatusCode)
	}

	var rpcResp rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		return fmt.Errorf("rpc %s: decode response: %w", method, err)
	}
	if rpcResp.Error != nil {
		return fmt.Errorf("rpc %s: node error %d: %s", method, rpcResp.Error.Code, rpcResp.Error.Message)
	}
	if err := json.Unmarshal(rpcResp.Result, result); err != nil {
		return fmt.Errorf("rpc %s: decode result: %w", method, err)
	}
	return nil
}

// encodeStringCall ABI-encodes a call to a method taking a single string:
// 4-byte selector, offset word, length word, then the padded string bytes.
func encodeStringCall(signature, arg string) string {
	var buf bytes.Buffer
	buf.Write(selector(signature))
	buf.Write(word(0x20))
	buf.Write(word(uint64(len(arg))))
	buf.WriteString(arg)
	if pad := 32 - len(arg)%32; pad != 32 {
		buf.Write(make([]byte, pad))
	}
	return "0x" + hex.EncodeToString(buf.Bytes())
}

func selector(signature string) []byte {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(signature))
	return h.Sum(nil)[:4]
}

func word(v uint64) []byte {
	w := make([]byte, 32)
	for i := 31; v > 0; i-- {
		w[i] = byte(v)
		v >>= 8
	}
	return w
}

// decodeBool reads an ABI-encoded bool return value. Anything other than a
// well-formed true word counts as false.
func decodeBool(result string) bool {
	hexStr := strings.TrimPrefix(result, "0x")
	raw, err := hex.DecodeString(hexStr)
	if err != nil || len(raw) == 0 {
		return false
	}
	return raw[len(raw)-1] == 1
}
