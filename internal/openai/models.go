package openai

// transcriptionResponse — ответ POST /audio/transcriptions.
type transcriptionResponse struct {
	Text string `json:"text"`
}

// chatMessage — сообщение диалога chat completions.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// responseFormat — формат ответа модели (json_object для строгого JSON).
type responseFormat struct {
	Type string `json:"type"`
}

// chatRequest — запрос POST /chat/completions.
type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

// chatResponse — ответ POST /chat/completions.
type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// apiErrorResponse — тело ошибки OpenAI API.
type apiErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}
