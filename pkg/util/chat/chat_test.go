package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.minekube.com/common/minecraft/color"
)

func TestJSONRendersPlainTextObject(t *testing.T) {
	c := Text("You are banned from this server", color.Red)
	assert.JSONEq(t, `{"text":"You are banned from this server"}`, JSON(c))
}

func TestPlainRendersBareContent(t *testing.T) {
	c := Text("hello", color.White)
	assert.Contains(t, Plain(c), "hello")
}
