// SPDX-License-Identifier: MIT

package a2a

import "strings"

// AgentProvider identifies the organisation operating the agent.
type AgentProvider struct {
	Organization string `json:"organization"`
	URL          string `json:"url,omitempty"`
}

// AgentCapabilities are the optional protocol features the agent supports.
type AgentCapabilities struct {
	Streaming              bool `json:"streaming"`
	PushNotifications      bool `json:"pushNotifications"`
	StateTransitionHistory bool `json:"stateTransitionHistory"`
}

// AgentAuthentication lists advertised schemes. It is metadata only.
type AgentAuthentication struct {
	Schemes     []string `json:"schemes"`
	Credentials *string  `json:"credentials,omitempty"`
}

// AgentSkill describes one capability of the agent.
type AgentSkill struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Examples    []string `json:"examples,omitempty"`
	InputModes  []string `json:"inputModes,omitempty"`
	OutputModes []string `json:"outputModes,omitempty"`
}

// AgentCard is the capability descriptor served at WellKnownCardPath.
type AgentCard struct {
	Name               string               `json:"name"`
	Description        string               `json:"description,omitempty"`
	URL                string               `json:"url"`
	Provider           *AgentProvider       `json:"provider,omitempty"`
	Version            string               `json:"version"`
	DocumentationURL   string               `json:"documentationUrl,omitempty"`
	Capabilities       AgentCapabilities    `json:"capabilities"`
	Authentication     *AgentAuthentication `json:"authentication,omitempty"`
	DefaultInputModes  []string             `json:"defaultInputModes"`
	DefaultOutputModes []string             `json:"defaultOutputModes"`
	Skills             []AgentSkill         `json:"skills"`
}

// CardOptions parameterise NewChessAgentCard.
type CardOptions struct {
	BaseURL      string
	Version      string
	Organization string
}

// NewChessAgentCard returns the descriptor of the chess agent rooted at opts.BaseURL.
func NewChessAgentCard(opts CardOptions) AgentCard {
	base := strings.TrimRight(opts.BaseURL, "/")
	version := opts.Version
	if version == "" {
		version = "1.0.0"
	}
	org := opts.Organization
	if org == "" {
		org = "CoolVicradon"
	}
	outputs := []string{MimeFEN, MimePNG}
	return AgentCard{
		Name:        "Chess Agent",
		Description: "An agent that plays chess. Accepts moves in standard notation and returns updated board state as FEN and an image.",
		URL:         base,
		Provider: &AgentProvider{
			Organization: org,
			URL:          base + "/provider",
		},
		Version:          version,
		DocumentationURL: base + "/docs",
		Capabilities: AgentCapabilities{
			Streaming:              false,
			PushNotifications:      false,
			StateTransitionHistory: true,
		},
		Authentication:     &AgentAuthentication{Schemes: []string{"Bearer"}},
		DefaultInputModes:  []string{MimeText},
		DefaultOutputModes: outputs,
		Skills: []AgentSkill{{
			ID:          "play_move",
			Name:        "Play Move",
			Description: "Plays a move and returns the updated board in FEN format and as an image.",
			Tags:        []string{"chess", "gameplay", "board"},
			Examples:    []string{"e4", "Nf3", "d5"},
			InputModes:  []string{MimeText},
			OutputModes: outputs,
		}},
	}
}
