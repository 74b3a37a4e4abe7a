package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
)

// AdviceService proxies farming questions to the generative-language API
// and cleans the answers up for display and speech output.
type AdviceService struct {
	APIKey   string
	Endpoint string
	client   *http.Client
}

func NewAdviceService(apiKey string) *AdviceService {
	return &AdviceService{
		APIKey:   apiKey,
		Endpoint: "https://generativelanguage.googleapis.com/v1beta/models/gemini-1.5-flash:generateContent",
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

type generateRequest struct {
	Contents []struct {
		Parts []struct {
			Text string `json:"text"`
		} `json:"parts"`
	} `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Ask sends a farming question and returns the assistant's answer. The
// language hint is folded into the prompt so answers come back in the
// user's language.
func (as *AdviceService) Ask(question, language string) (string, error) {
	if as.APIKey == "" {
		return "", fmt.Errorf("advice service is not configured")
	}

	prompt := question
	if language != "" {
		prompt = fmt.Sprintf("Answer the following farming question in %s, briefly and practically:\n\n%s", language, question)
	}

	var reqBody generateRequest
	reqBody.Contents = make([]struct {
		Parts []struct {
			Text string `json:"text"`
		} `json:"parts"`
	}, 1)
	reqBody.Contents[0].Parts = []struct {
		Text string `json:"text"`
	}{{Text: prompt}}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s?key=%s", as.Endpoint, as.APIKey)
	req, err := http.NewRequest("POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := as.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call advice API: %w", err)
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("advice API failed with status %d: %s", resp.StatusCode, string(responseBody))
	}

	var parsed generateResponse
	if err := json.Unmarshal(responseBody, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("advice API returned no answer")
	}

	return parsed.Candidates[0].Content.Parts[0].Text, nil
}

var (
	codeBlockRe  = regexp.MustCompile("```[\\s\\S]*?```")
	inlineCodeRe = regexp.MustCompile("`([^`]*)`")
	boldItalicRe = regexp.MustCompile(`\*{1,3}([^*]*)\*{1,3}`)
	headingRe    = regexp.MustCompile(`(?m)^#{1,6}\s*`)
	bulletRe     = regexp.MustCompile(`(?m)^\s*[-*•]\s+`)
	linkRe       = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	emojiRe      = regexp.MustCompile(`[\x{1F300}-\x{1FAFF}\x{2600}-\x{27BF}]`)
	multiSpaceRe = regexp.MustCompile(`[ \t]{2,}`)
	multiLineRe  = regexp.MustCompile(`\n{3,}`)
)

// CleanForSpeech strips markdown markup, links and emoji from an answer so
// text-to-speech reads plain sentences.
func CleanForSpeech(text string) string {
	out := codeBlockRe.ReplaceAllString(text, "")
	out = inlineCodeRe.ReplaceAllString(out, "$1")
	out = boldItalicRe.ReplaceAllString(out, "$1")
	out = headingRe.ReplaceAllString(out, "")
	out = bulletRe.ReplaceAllString(out, "")
	out = linkRe.ReplaceAllString(out, "$1")
	out = emojiRe.ReplaceAllString(out, "")
	out = multiSpaceRe.ReplaceAllString(out, " ")
	out = multiLineRe.ReplaceAllString(out, "\n\n")
	return strings.TrimSpace(out)
}
