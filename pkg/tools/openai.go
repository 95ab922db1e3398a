package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

const openaiAPIBase = "https://api.openai.com/v1"

// OpenAIClient is the thin HTTP client shared by the multimodal tools.
// Each tool is a single pass-through call to one OpenAI endpoint.
type OpenAIClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewOpenAIClient(apiKey, baseURL string, timeout time.Duration) (*OpenAIClient, error) {
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("openai: API key not set (provide it or set OPENAI_API_KEY)")
	}
	if baseURL == "" {
		baseURL = openaiAPIBase
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &OpenAIClient{
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

func (c *OpenAIClient) postJSON(ctx context.Context, path string, body any, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("openai: marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("openai: creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("openai: sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("openai: API returned %d: %s", resp.StatusCode, string(errBody))
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *OpenAIClient) postRaw(ctx context.Context, path string, body any) ([]byte, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("openai: marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("openai: creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openai: sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("openai: API returned %d: %s", resp.StatusCode, string(errBody))
	}

	return io.ReadAll(resp.Body)
}

// ImageGenerationTool renders an image from a prompt and returns its URL.
type ImageGenerationTool struct {
	Client *OpenAIClient
}

type imageGenerationInput struct {
	Prompt string `json:"prompt"`
}

func (t *ImageGenerationTool) Definition() Definition {
	return Definition{
		Name:        "image_generator",
		Description: "Generates an image from a text prompt and returns its URL.",
		Kind:        KindVision,
	}
}

func (t *ImageGenerationTool) Execute(ctx context.Context, input json.RawMessage) (string, error) {
	params, err := parseInput[imageGenerationInput](input, "image_generator")
	if err != nil {
		return "", err
	}
	if params.Prompt == "" {
		return "", fmt.Errorf("image_generator: prompt is required")
	}

	var out struct {
		Data []struct {
			URL string `json:"url"`
		} `json:"data"`
	}
	req := map[string]any{
		"model":   "dall-e-3",
		"prompt":  params.Prompt,
		"size":    "1024x1024",
		"quality": "standard",
		"n":       1,
	}
	if err := t.Client.postJSON(ctx, "/images/generations", req, &out); err != nil {
		return "", fmt.Errorf("image_generator: %w", err)
	}
	if len(out.Data) == 0 {
		return "", fmt.Errorf("image_generator: empty response")
	}
	return out.Data[0].URL, nil
}

// ImageAnalysisTool answers a question about an image URL.
type ImageAnalysisTool struct {
	Client *OpenAIClient
}

type imageAnalysisInput struct {
	ImageURL string `json:"image_url"`
	Question string `json:"question,omitempty"`
}

func (t *ImageAnalysisTool) Definition() Definition {
	return Definition{
		Name:        "analyze_image",
		Description: "Describes images, identifies objects and reads text from an image URL.",
		Kind:        KindVision,
	}
}

func (t *ImageAnalysisTool) Execute(ctx context.Context, input json.RawMessage) (string, error) {
	params, err := parseInput[imageAnalysisInput](input, "analyze_image")
	if err != nil {
		return "", err
	}
	if params.ImageURL == "" {
		return "", fmt.Errorf("analyze_image: image_url is required")
	}
	question := params.Question
	if question == "" {
		question = "What's in this image?"
	}

	var out struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	req := map[string]any{
		"model":      "gpt-4o",
		"max_tokens": 500,
		"messages": []map[string]any{{
			"role": "user",
			"content": []map[string]any{
				{"type": "text", "text": question},
				{"type": "image_url", "image_url": map[string]string{"url": params.ImageURL}},
			},
		}},
	}
	if err := t.Client.postJSON(ctx, "/chat/completions", req, &out); err != nil {
		return "", fmt.Errorf("analyze_image: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("analyze_image: empty response")
	}
	return out.Choices[0].Message.Content, nil
}

// TranscribeAudioTool converts a local audio file to text.
type TranscribeAudioTool struct {
	Client *OpenAIClient
}

type transcribeInput struct {
	AudioFilePath string `json:"audio_file_path"`
}

func (t *TranscribeAudioTool) Definition() Definition {
	return Definition{
		Name:        "transcribe_audio",
		Description: "Converts speech in an audio file to text.",
		Kind:        KindSpeech,
	}
}

func (t *TranscribeAudioTool) Execute(ctx context.Context, input json.RawMessage) (string, error) {
	params, err := parseInput[transcribeInput](input, "transcribe_audio")
	if err != nil {
		return "", err
	}

	f, err := os.Open(params.AudioFilePath)
	if err != nil {
		return "", fmt.Errorf("transcribe_audio: %w", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("model", "whisper-1"); err != nil {
		return "", fmt.Errorf("transcribe_audio: %w", err)
	}
	part, err := mw.CreateFormFile("file", filepath.Base(params.AudioFilePath))
	if err != nil {
		return "", fmt.Errorf("transcribe_audio: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", fmt.Errorf("transcribe_audio: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("transcribe_audio: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.Client.baseURL+"/audio/transcriptions", &buf)
	if err != nil {
		return "", fmt.Errorf("transcribe_audio: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+t.Client.apiKey)

	resp, err := t.Client.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("transcribe_audio: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("transcribe_audio: API returned %d: %s", resp.StatusCode, string(errBody))
	}

	var out struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("transcribe_audio: %w", err)
	}
	return out.Text, nil
}

// TextToSpeechTool renders text to an mp3 file and returns its path.
type TextToSpeechTool struct {
	Client    *OpenAIClient
	Voice     string
	OutputDir string
}

type textToSpeechInput struct {
	Text  string `json:"text"`
	Voice string `json:"voice,omitempty"`
}

func (t *TextToSpeechTool) Definition() Definition {
	return Definition{
		Name:        "text_to_speech",
		Description: "Converts text to spoken audio and returns the path of the generated mp3.",
		Kind:        KindSpeech,
	}
}

func (t *TextToSpeechTool) Execute(ctx context.Context, input json.RawMessage) (string, error) {
	params, err := parseInput[textToSpeechInput](input, "text_to_speech")
	if err != nil {
		return "", err
	}
	if params.Text == "" {
		return "", fmt.Errorf("text_to_speech: text is required")
	}
	voice := params.Voice
	if voice == "" {
		voice = t.Voice
	}
	if voice == "" {
		voice = "nova"
	}

	audio, err := t.Client.postRaw(ctx, "/audio/speech", map[string]any{
		"model": "tts-1",
		"voice": voice,
		"input": params.Text,
	})
	if err != nil {
		return "", fmt.Errorf("text_to_speech: %w", err)
	}

	dir := t.OutputDir
	if dir == "" {
		dir = os.TempDir()
	}
	path := filepath.Join(dir, fmt.Sprintf("speech-%s.mp3", uuid.NewString()))
	if err := os.WriteFile(path, audio, 0600); err != nil {
		return "", fmt.Errorf("text_to_speech: %w", err)
	}
	return path, nil
}
