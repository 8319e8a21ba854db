package types

import "encoding/json"

// ChatRequest is the payload accepted by POST /api/chat and by websocket frames.
type ChatRequest struct {
	// Message to forward to the model. Not validated; an empty message is relayed as is.
	// example: write a for loop in Go
	Message string `json:"message" example:"write a for loop in Go"`
	// Optional model to switch to before answering. Absent means the default
	// model; present but empty or null keeps the active model.
	// example: mistral:7b
	ModelName string `json:"model_name,omitempty" example:"mistral:7b"`
	// HasModelName records that model_name was present in the decoded JSON,
	// even as "" or null.
	HasModelName bool `json:"-"`
}

// UnmarshalJSON decodes the request and notes whether model_name was sent.
func (r *ChatRequest) UnmarshalJSON(b []byte) error {
	type plain ChatRequest
	var aux struct {
		plain
		ModelName json.RawMessage `json:"model_name"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*r = ChatRequest(aux.plain)
	if len(aux.ModelName) == 0 {
		return nil
	}
	r.HasModelName = true
	if string(aux.ModelName) == "null" {
		return nil
	}
	return json.Unmarshal(aux.ModelName, &r.ModelName)
}

// ChatResponse carries either the generated text or an in-band error message.
type ChatResponse struct {
	// Generated text, or a human readable error string.
	// example: Here is a for loop: ...
	Response string `json:"response" example:"Here is a for loop: ..."`
}

// ModelInfoResponse is returned by GET /api/models.
type ModelInfoResponse struct {
	// Permitted model names, in registry order.
	// example: ["deepseek-coder-v2","mistral:7b"]
	AvailableModels []string `json:"available_models"`
	// Name of the active model.
	// example: deepseek-coder-v2
	CurrentModel string `json:"current_model" example:"deepseek-coder-v2"`
}

// RootResponse is returned by GET /.
type RootResponse struct {
	// example: Ollama Chat Bot API is running
	Message string `json:"message" example:"Ollama Chat Bot API is running"`
}

// InstalledModelsResponse wraps the models installed in the inference backend.
type InstalledModelsResponse struct {
	Models []InstalledModel `json:"models"`
}

// PullRequest asks the backend to download a model.
type PullRequest struct {
	// example: codellama:7b
	ModelName string `json:"model_name" example:"codellama:7b"`
}

// StatusMessage is a generic status payload used by /api/health and /api/models/pull.
type StatusMessage struct {
	// example: ok
	Status string `json:"status" example:"ok"`
	// example: Server is running and Ollama is available
	Message string `json:"message" example:"Server is running and Ollama is available"`
	// Backend error detail, when Status is "error".
	Error string `json:"error,omitempty"`
	// Backend version when known.
	// example: 0.6.2
	Version string `json:"version,omitempty" example:"0.6.2"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: invalid JSON body
	Error string `json:"error" example:"invalid JSON body"`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
}
