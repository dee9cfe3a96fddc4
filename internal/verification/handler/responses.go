package handler

// SubmitResponse is the HTTP response for POST /submit.
type SubmitResponse struct {
	Message string `json:"message"`
	TxHash  string `json:"tx_hash,omitempty"`
	OnChain bool   `json:"on_chain,omitempty"`
}

// VerifyResponse is the HTTP response for POST /verify, for both the 200 and
// 404 outcomes.
type VerifyResponse struct {
	Status string `json:"status"`
}

// AskResponse is the HTTP response for POST /ask-ai.
type AskResponse struct {
	Answer string `json:"answer"`
}
