package newsbot

import (
	"encoding/json"
	"fmt"
)

// parseCreatePost extracts the created post from a v2 create response.
func parseCreatePost(body []byte) (*Post, error) {
	var raw struct {
		Data struct {
			ID   string `json:"id"`
			Text string `json:"text"`
		} `json:"data"`
		Errors []struct {
			Message string `json:"message"`
			Detail  string `json:"detail"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("unmarshal CreatePost: %w", err)
	}
	if raw.Data.ID == "" && len(raw.Errors) > 0 {
		msg := raw.Errors[0].Message
		if msg == "" {
			msg = raw.Errors[0].Detail
		}
		return nil, fmt.Errorf("CreatePost API error: %s", msg)
	}
	if raw.Data.ID == "" {
		return nil, fmt.Errorf("CreatePost returned empty post ID: %s", truncateBytes(body, 300))
	}
	return &Post{ID: raw.Data.ID, Text: raw.Data.Text}, nil
}

// createPostRequest is the v2 create-post body.
type createPostRequest struct {
	Text string `json:"text"`
}
