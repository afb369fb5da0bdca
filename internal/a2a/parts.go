// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package a2a

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Part type tags.
const (
	PartTypeText = "text"
	PartTypeFile = "file"
	PartTypeData = "data"
)

var (
	// ErrUnknownPartType is returned for a part whose "type" tag is not one of text, file or data.
	ErrUnknownPartType = errors.New("unknown part type")
	// ErrFileContent is returned when a file part carries both or neither of bytes and uri.
	ErrFileContent = errors.New("file part must carry exactly one of bytes or uri")
	// ErrNoMoveText is returned when part 0 of a user message is missing, not text, or blank.
	ErrNoMoveText = errors.New("first message part must be a non-empty text part holding the move")
)

// Part is one element of a message. The set of implementations is closed:
// TextPart, FilePart and DataPart.
type Part interface {
	PartType() string
	isPart()
}

// TextPart carries plain text.
type TextPart struct {
	Text     string         `json:"text"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// FileContent references a file either inline (base64 bytes) or by URI.
type FileContent struct {
	Name     string `json:"name,omitempty"`
	MimeType string `json:"mimeType,omitempty"`
	Bytes    string `json:"bytes,omitempty"`
	URI      string `json:"uri,omitempty"`
}

// Validate enforces bytes xor uri.
func (f FileContent) Validate() error {
	if (f.Bytes == "") == (f.URI == "") {
		return ErrFileContent
	}
	return nil
}

// FilePart carries a file reference.
type FilePart struct {
	File     FileContent    `json:"file"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// DataPart carries structured data.
type DataPart struct {
	Data     map[string]any `json:"data"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

func (TextPart) PartType() string { return PartTypeText }
func (FilePart) PartType() string { return PartTypeFile }
func (DataPart) PartType() string { return PartTypeData }

func (TextPart) isPart() {}
func (FilePart) isPart() {}
func (DataPart) isPart() {}

func (p TextPart) MarshalJSON() ([]byte, error) {
	type alias TextPart
	return json.Marshal(struct {
		Type string `json:"type"`
		alias
	}{PartTypeText, alias(p)})
}

func (p FilePart) MarshalJSON() ([]byte, error) {
	if err := p.File.Validate(); err != nil {
		return nil, err
	}
	type alias FilePart
	return json.Marshal(struct {
		Type string `json:"type"`
		alias
	}{PartTypeFile, alias(p)})
}

func (p DataPart) MarshalJSON() ([]byte, error) {
	type alias DataPart
	return json.Marshal(struct {
		Type string `json:"type"`
		alias
	}{PartTypeData, alias(p)})
}

// Parts is an ordered list of parts with tag-dispatched JSON decoding.
type Parts []Part

// UnmarshalJSON decodes each element by its "type" tag and rejects unknown tags.
func (ps *Parts) UnmarshalJSON(data []byte) error {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return err
	}
	out := make(Parts, 0, len(raws))
	for i, raw := range raws {
		p, err := decodePart(raw)
		if err != nil {
			return fmt.Errorf("part %d: %w", i, err)
		}
		out = append(out, p)
	}
	*ps = out
	return nil
}

func decodePart(raw json.RawMessage) (Part, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return nil, err
	}
	switch head.Type {
	case PartTypeText:
		var p TextPart
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, err
		}
		return p, nil
	case PartTypeFile:
		var p FilePart
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, err
		}
		if err := p.File.Validate(); err != nil {
			return nil, err
		}
		return p, nil
	case PartTypeData:
		var p DataPart
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPartType, head.Type)
	}
}

// Role of a message author.
type Role string

const (
	RoleUser  Role = "user"
	RoleAgent Role = "agent"
)

// Message is an ordered list of parts authored by the user or the agent.
type Message struct {
	Role     Role           `json:"role"`
	Parts    Parts          `json:"parts"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// MoveText returns the move notation of a user message. By protocol contract
// part 0 is a text part holding the move; anything else is ErrNoMoveText.
func (m Message) MoveText() (string, error) {
	if len(m.Parts) == 0 {
		return "", ErrNoMoveText
	}
	tp, ok := m.Parts[0].(TextPart)
	if !ok {
		return "", ErrNoMoveText
	}
	text := strings.TrimSpace(tp.Text)
	if text == "" {
		return "", ErrNoMoveText
	}
	return text, nil
}

// NewAgentMessage builds an agent-authored message.
func NewAgentMessage(parts ...Part) *Message {
	return &Message{Role: RoleAgent, Parts: parts}
}

// NewUserText builds a single-text user message.
func NewUserText(text string) Message {
	return Message{Role: RoleUser, Parts: Parts{TextPart{Text: text}}}
}
