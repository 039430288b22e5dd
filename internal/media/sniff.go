// Package media recognises uploaded images by content and cleans SVG markup.
package media

import (
	"bytes"
	"errors"
	"mime"
	"strings"
)

type Kind string

const (
	KindJPEG Kind = "jpeg"
	KindPNG  Kind = "png"
	KindGIF  Kind = "gif"
	KindWEBP Kind = "webp"
	KindAVIF Kind = "avif"
	KindSVG  Kind = "svg"
)

// SniffLen is how many leading bytes Detect looks at.
const SniffLen = 512

var ErrUnknownType = errors.New("unknown media type")

type Result struct {
	Kind Kind
	MIME string
}

// Extension is the file extension used for stored objects.
func (r Result) Extension() string {
	if r.Kind == KindJPEG {
		return "jpg"
	}
	return string(r.Kind)
}

func Detect(head []byte) (Result, error) {
	if len(head) > SniffLen {
		head = head[:SniffLen]
	}
	switch {
	case len(head) == 0:
		return Result{}, ErrUnknownType
	case isJPEG(head):
		return Result{Kind: KindJPEG, MIME: "image/jpeg"}, nil
	case isPNG(head):
		return Result{Kind: KindPNG, MIME: "image/png"}, nil
	case isGIF(head):
		return Result{Kind: KindGIF, MIME: "image/gif"}, nil
	case isWEBP(head):
		return Result{Kind: KindWEBP, MIME: "image/webp"}, nil
	case isAVIF(head):
		return Result{Kind: KindAVIF, MIME: "image/avif"}, nil
	case isSVG(head):
		return Result{Kind: KindSVG, MIME: "image/svg+xml"}, nil
	}
	return Result{}, ErrUnknownType
}

func isJPEG(head []byte) bool {
	return len(head) > 3 && head[0] == 0xff && head[1] == 0xd8 && head[2] == 0xff
}

var pngMagic = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func isPNG(head []byte) bool {
	return bytes.HasPrefix(head, pngMagic)
}

func isGIF(head []byte) bool {
	return bytes.HasPrefix(head, []byte("GIF87a")) || bytes.HasPrefix(head, []byte("GIF89a"))
}

func isWEBP(head []byte) bool {
	return len(head) >= 12 &&
		bytes.Equal(head[:4], []byte("RIFF")) &&
		bytes.Equal(head[8:12], []byte("WEBP"))
}

func isAVIF(head []byte) bool {
	if len(head) < 12 || string(head[4:8]) != "ftyp" {
		return false
	}
	return bytes.Contains(head[8:], []byte("avif")) || bytes.Contains(head[8:], []byte("avis"))
}

func isSVG(head []byte) bool {
	trimmed := strings.ToLower(strings.TrimSpace(string(bytes.TrimPrefix(head, []byte("\xef\xbb\xbf")))))
	if strings.HasPrefix(trimmed, "<svg") {
		return true
	}
	return strings.HasPrefix(trimmed, "<?xml") && strings.Contains(trimmed, "<svg")
}

// DeclaredType extracts the media type from a Content-Type header value.
// Generic values that say nothing about the content are reported as empty.
func DeclaredType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	if mediaType == "application/octet-stream" {
		return ""
	}
	return mediaType
}
