package lsp

import (
	"bufio"
	"errors"
	"io"
	"net/textproto"
	"strconv"

	"go.trai.ch/zerr"
)

var errMissingLength = zerr.New("missing Content-Length header")

// maxMessage bounds a single frame; a larger Content-Length is a broken peer.
const maxMessage = 64 << 20

// readMessage reads one base-protocol frame: MIME-style headers, a blank
// line, then Content-Length bytes of JSON. A clean end of input is io.EOF.
func readMessage(r *bufio.Reader) ([]byte, error) {
	header, err := textproto.NewReader(r).ReadMIMEHeader()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, zerr.Wrap(err, "read message header")
	}
	raw := header.Get("Content-Length")
	if raw == "" {
		return nil, errMissingLength
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 || n > maxMessage {
		return nil, zerr.With(zerr.New("invalid Content-Length"), "value", raw)
	}
	payload := make([]byte, n)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, zerr.Wrap(err, "read message body")
	}
	return payload, nil
}

func writeMessage(w io.Writer, payload []byte) error {
	frame := make([]byte, 0, len(payload)+32)
	frame = append(frame, "Content-Length: "...)
	frame = strconv.AppendInt(frame, int64(len(payload)), 10)
	frame = append(frame, "\r\n\r\n"...)
	frame = append(frame, payload...)
	_, err := w.Write(frame)
	return err
}
