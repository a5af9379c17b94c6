// Package chat builds and renders the chat component values the proxy
// attaches to DISCONNECT reasons, CHAT_MESSAGE replacements, and the
// STATUS response MOTD, the way player.go's SendMessagePosition and
// Disconnect build and render component.Component values.
package chat

import (
	"encoding/json"
	"strings"

	"go.minekube.com/common/minecraft/color"
	"go.minekube.com/common/minecraft/component"
	"go.minekube.com/common/minecraft/component/codec"
)

// Text builds a single-colored text component, the shape every message
// this module constructs takes (cmd/gate/gate.go's shutdown message,
// player.go's Disconnect reason).
func Text(content string, c color.Color) component.Component {
	return &component.Text{Content: content, S: component.Style{Color: c}}
}

// JSON renders c as the wire JSON object DISCONNECT, CHAT_MESSAGE and the
// STATUS description carry. Only Text components are ever constructed by
// this module; anything else renders through the plain-text codec instead.
// The output holds only the "text" key; colour and other style are dropped.
func JSON(c component.Component) string {
	if t, ok := c.(*component.Text); ok {
		raw, err := json.Marshal(struct {
			Text string `json:"text"`
		}{Text: t.Content})
		if err == nil {
			return string(raw)
		}
	}
	raw, _ := json.Marshal(struct {
		Text string `json:"text"`
	}{Text: Plain(c)})
	return string(raw)
}

// Plain renders c as a plain-text string for log lines (player.go's
// Disconnect uses codec.Plain the same way before logging).
func Plain(c component.Component) string {
	b := new(strings.Builder)
	if (&codec.Plain{}).Marshal(b, c) != nil {
		return ""
	}
	return b.String()
}
