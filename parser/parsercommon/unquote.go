package parsercommon

import (
	"errors"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// ErrInvalidEscape is returned for malformed escape sequences in a string literal.
var ErrInvalidEscape = errors.New("invalid escape sequence")

// Unquote decodes a single or double quoted JavaScript string literal.
func Unquote(raw string) (string, error) {
	if len(raw) < 2 || (raw[0] != '\'' && raw[0] != '"') || raw[len(raw)-1] != raw[0] {
		return "", ErrInvalidEscape
	}

	body := raw[1 : len(raw)-1]
	if !strings.Contains(body, `\`) {
		return body, nil
	}

	var b strings.Builder

	for i := 0; i < len(body); {
		c := body[i]
		if c != '\\' {
			b.WriteByte(c)
			i++

			continue
		}

		i++
		if i >= len(body) {
			return "", ErrInvalidEscape
		}

		c = body[i]
		i++

		switch c {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'v':
			b.WriteByte('\v')
		case '0':
			b.WriteByte(0)
		case '\n':
			// line continuation
		case '\r':
			if i < len(body) && body[i] == '\n' {
				i++
			}
		case 'x':
			r, n, err := hexRune(body[i:], 2)
			if err != nil {
				return "", err
			}

			b.WriteRune(r)
			i += n
		case 'u':
			r, n, err := unicodeEscape(body[i:])
			if err != nil {
				return "", err
			}

			i += n

			if utf16.IsSurrogate(r) && strings.HasPrefix(body[i:], `\u`) {
				if low, m, err := unicodeEscape(body[i+2:]); err == nil {
					if pair := utf16.DecodeRune(r, low); pair != utf8.RuneError {
						r = pair
						i += 2 + m
					}
				}
			}

			b.WriteRune(r)
		default:
			b.WriteByte(c)
		}
	}

	return b.String(), nil
}

func unicodeEscape(s string) (rune, int, error) {
	if strings.HasPrefix(s, "{") {
		end := strings.IndexByte(s, '}')
		if end < 2 {
			return 0, 0, ErrInvalidEscape
		}

		r, _, err := hexRune(s[1:end], end-1)
		if err != nil || r > utf8.MaxRune {
			return 0, 0, ErrInvalidEscape
		}

		return r, end + 1, nil
	}

	return hexRune(s, 4)
}

func hexRune(s string, digits int) (rune, int, error) {
	if len(s) < digits {
		return 0, 0, ErrInvalidEscape
	}

	v, err := strconv.ParseUint(s[:digits], 16, 32)
	if err != nil {
		return 0, 0, ErrInvalidEscape
	}

	return rune(v), digits, nil
}
