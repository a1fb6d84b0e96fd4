package schema

import (
	"encoding/base64"
	"fmt"
)

// Content is one item in a tool result. The concrete types mirror the MCP
// content union: text, image and embedded resource.
type Content interface {
	isContent()
}

// TextContent carries plain text.
type TextContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func (TextContent) isContent() {}

// ImageContent carries a base64-encoded image payload.
type ImageContent struct {
	Type     string `json:"type"`
	Data     string `json:"data"`
	MimeType string `json:"mimeType"`
}

func (ImageContent) isContent() {}

// EmbeddedResource carries an inline resource body.
type EmbeddedResource struct {
	Type     string           `json:"type"`
	Resource ResourceContents `json:"resource"`
}

func (EmbeddedResource) isContent() {}

// ResourceContents is the body of an embedded resource. Text and Blob are
// mutually exclusive; Blob is base64-encoded.
type ResourceContents struct {
	URI      string `json:"uri"`
	MimeType string `json:"mimeType,omitempty"`
	Text     string `json:"text,omitempty"`
	Blob     string `json:"blob,omitempty"`
}

// NewText wraps plain text as a content item.
func NewText(text string) TextContent {
	return TextContent{Type: "text", Text: text}
}

// NewTextf is NewText with Sprintf formatting.
func NewTextf(format string, args ...any) TextContent {
	return NewText(fmt.Sprintf(format, args...))
}

// NewImage wraps raw image bytes as a content item.
func NewImage(data []byte, mimeType string) ImageContent {
	return ImageContent{
		Type:     "image",
		Data:     base64.StdEncoding.EncodeToString(data),
		MimeType: mimeType,
	}
}

// NewResource wraps an inline text resource as a content item.
func NewResource(uri, mimeType, text string) EmbeddedResource {
	return EmbeddedResource{
		Type:     "resource",
		Resource: ResourceContents{URI: uri, MimeType: mimeType, Text: text},
	}
}

// TextResult is the common single-item text result.
func TextResult(format string, args ...any) []Content {
	return []Content{NewTextf(format, args...)}
}
