// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import (
	"fmt"
	"strings"
)

func whitespace(c byte) bool {
	return c == ' ' || c == '\t'
}

func alpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func decimal(c byte) bool {
	return c >= '0' && c <= '9'
}

func identifierStartChar(c byte) bool {
	return alpha(c) || c == '_'
}

func identifierChar(c byte) bool {
	return alpha(c) || decimal(c) || c == '_'
}

// isIdentifier returns true if s is a valid label or equate name.
func isIdentifier(s string) bool {
	if s == "" || !identifierStartChar(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !identifierChar(s[i]) {
			return false
		}
	}
	return true
}

// nextField splits s into its first whitespace-delimited field and the
// remainder of the string.
func nextField(s string) (field, remain string) {
	s = strings.TrimLeft(s, " \t")
	i := 0
	for i < len(s) && !whitespace(s[i]) {
		i++
	}
	return s[:i], s[i:]
}

// splitList splits a comma-separated operand list. Commas inside quoted
// strings do not split.
func splitList(s string) ([]string, error) {
	var items []string
	var quote byte
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == ',':
			items = append(items, strings.TrimSpace(s[start:i]))
			start = i + 1
		}
	}
	if quote != 0 {
		return nil, fmt.Errorf("unterminated string in '%s'", s)
	}
	items = append(items, strings.TrimSpace(s[start:]))

	for _, item := range items {
		if item == "" {
			return nil, fmt.Errorf("empty list item in '%s'", s)
		}
	}
	return items, nil
}

// unquote returns the contents of a quoted string item.
func unquote(s string) (string, bool) {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1], true
	}
	return "", false
}
