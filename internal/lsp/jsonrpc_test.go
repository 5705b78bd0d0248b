package lsp

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestFramesRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	msgs := []string{`{"jsonrpc":"2.0","method":"one"}`, `{"jsonrpc":"2.0","method":"two"}`}
	for _, m := range msgs {
		if err := writeMessage(&buf, []byte(m)); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	r := bufio.NewReader(&buf)
	for _, want := range msgs {
		got, err := readMessage(r)
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if string(got) != want {
			t.Fatalf("got %s, want %s", got, want)
		}
	}
	if _, err := readMessage(r); !errors.Is(err, io.EOF) {
		t.Fatalf("want io.EOF at the end, got %v", err)
	}
}

func TestFrameHeadersAreCaseInsensitive(t *testing.T) {
	raw := "content-length: 2\r\nContent-Type: application/vscode-jsonrpc; charset=utf-8\r\n\r\n{}"
	got, err := readMessage(bufio.NewReader(strings.NewReader(raw)))
	if err != nil || string(got) != "{}" {
		t.Fatalf("got %q, %v", got, err)
	}
}

func TestFramesRejectBadHeaders(t *testing.T) {
	cases := []string{
		"Content-Type: application/json\r\n\r\n{}",
		"Content-Length: nope\r\n\r\n{}",
		"Content-Length: -3\r\n\r\n{}",
		"Content-Length: 10\r\n\r\n{}",
	}
	for _, raw := range cases {
		if _, err := readMessage(bufio.NewReader(strings.NewReader(raw))); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}
