package main

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Request is a parsed command line: the action keyword
// followed by the quoted params in their original order.
type Request struct {
	Action string
	Params []string
}

// Param returns the i-th param or an empty string when it was not provided.
func (r Request) Param(i int) string {
	if i < 0 || i >= len(r.Params) {
		return ""
	}
	return r.Params[i]
}

// ParseRequest splits a line formatted like `some action "param1" "param2"`.
// The action is the trimmed text before the first double quote. Every non
// blank segment between double quotes is kept as a param, untrimmed. Text
// after the last quote is not rejected and becomes a param when non blank.
func ParseRequest(line string) Request {
	idx := strings.IndexByte(line, '"')
	if idx < 0 {
		return Request{Action: strings.TrimSpace(line)}
	}

	req := Request{Action: strings.TrimSpace(line[:idx])}
	for _, segment := range strings.Split(line[idx:], `"`) {
		if strings.TrimSpace(segment) != "" {
			req.Params = append(req.Params, segment)
		}
	}
	return req
}

// ParseInput parses raw textual input. Only strings and valid UTF-8
// byte slices are accepted, anything else fails with ErrInvalidInput.
func ParseInput(input interface{}) (Request, error) {
	switch v := input.(type) {
	case string:
		return ParseRequest(v), nil
	case []byte:
		if !utf8.Valid(v) {
			return Request{}, fmt.Errorf("%w: request is not valid utf-8 text", ErrInvalidInput)
		}
		return ParseRequest(string(v)), nil
	}
	return Request{}, fmt.Errorf("%w: request must be a string, got %T", ErrInvalidInput, input)
}
