package kernelproc

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"

	"pkt.systems/jove/schema"
)

type jsonlStream struct {
	reader *bufio.Reader
	closed bool
}

type jsonlDecodeError struct {
	line []byte
	err  error
}

func (e *jsonlDecodeError) Error() string {
	if e == nil || e.err == nil {
		return "jsonl decode error"
	}
	return e.err.Error()
}

func (e *jsonlDecodeError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.err
}

func (e *jsonlDecodeError) Line() []byte {
	if e == nil {
		return nil
	}
	return e.line
}

func newJSONLStream(r io.Reader) *jsonlStream {
	return &jsonlStream{reader: bufio.NewReader(r)}
}

func (s *jsonlStream) Next(ctx context.Context) (schema.KernelMessage, error) {
	for {
		if ctx.Err() != nil {
			return schema.KernelMessage{}, ctx.Err()
		}
		line, err := s.reader.ReadBytes('\n')
		if len(line) == 0 && err != nil {
			return schema.KernelMessage{}, err
		}
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			if err != nil {
				return schema.KernelMessage{}, err
			}
			continue
		}
		msg, decodeErr := decodeMessage(line)
		if decodeErr != nil {
			return schema.KernelMessage{}, &jsonlDecodeError{line: append([]byte(nil), line...), err: decodeErr}
		}
		return msg, nil
	}
}

func (s *jsonlStream) Close() error {
	s.closed = true
	return nil
}

func decodeMessage(line []byte) (schema.KernelMessage, error) {
	var msg schema.KernelMessage
	if err := json.Unmarshal(line, &msg); err != nil {
		return schema.KernelMessage{}, err
	}
	msg.Raw = append([]byte(nil), line...)
	return msg, nil
}
