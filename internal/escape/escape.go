// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Package escape converts between configuration string values and the quoted
// string literals used by JSON.
package escape

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"go4.org/mem"
)

var controlEsc = [...]byte{
	'\b': 'b',
	'\f': 'f',
	'\n': 'n',
	'\r': 'r',
	'\t': 't',
	' ':  ' ', // sentinel
}

var hexDigit = []byte("0123456789abcdef")

// AppendQuote appends the JSON string literal for src to dst, including the
// enclosing quotation marks, and returns the updated slice.
func AppendQuote(dst []byte, src mem.RO) []byte {
	dst = append(dst, '"')
	for src.Len() != 0 {
		r, n := mem.DecodeRune(src)
		src = src.SliceFrom(n)
		switch {
		case r < ' ':
			if b := controlEsc[r]; b != 0 {
				dst = append(dst, '\\', b)
			} else {
				dst = append(dst, '\\', 'u', '0', '0', hexDigit[r>>4], hexDigit[r&15])
			}
		case r == '\\' || r == '"':
			dst = append(dst, '\\', byte(r))
		case r < utf8.RuneSelf:
			dst = append(dst, byte(r))
		case r == '\u2028' || r == '\u2029' || r == utf8.RuneError:
			dst = append(dst, '\\', 'u')
			dst = appendHex4(dst, r)
		default:
			dst = utf8.AppendRune(dst, r)
		}
	}
	return append(dst, '"')
}

// Quote returns the JSON string literal for s.
func Quote(s string) string { return string(AppendQuote(nil, mem.S(s))) }

// Unquote decodes the JSON string literal in src, which must include the
// enclosing quotation marks. Unlike a JSON decoder, Unquote reports an error
// for an unknown escape sequence rather than substituting a replacement.
// Unpaired UTF-16 surrogates decode to the Unicode replacement rune.
func Unquote(src mem.RO) (string, error) {
	n := src.Len()
	if n < 2 || src.At(0) != '"' || src.At(n-1) != '"' {
		return "", errors.New("missing quotation marks")
	}
	src = src.SliceFrom(1).SliceTo(n - 2)

	i := mem.IndexByte(src, '\\')
	if i < 0 {
		return src.StringCopy(), nil
	}
	var sb strings.Builder
	sb.Grow(src.Len())
	for {
		sb.WriteString(src.SliceTo(i).StringCopy())
		src = src.SliceFrom(i + 1)
		if src.Len() == 0 {
			return "", errors.New("incomplete escape sequence")
		}
		c := src.At(0)
		src = src.SliceFrom(1)
		switch c {
		case '"', '\\', '/':
			sb.WriteByte(c)
		case 'b':
			sb.WriteByte('\b')
		case 'f':
			sb.WriteByte('\f')
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		case 'u':
			r, rest, err := decodeUnicode(src)
			if err != nil {
				return "", err
			}
			sb.WriteRune(r)
			src = rest
		default:
			return "", fmt.Errorf("invalid escape sequence %q", `\`+string(c))
		}

		i = mem.IndexByte(src, '\\')
		if i < 0 {
			sb.WriteString(src.StringCopy())
			return sb.String(), nil
		}
	}
}

// decodeUnicode decodes the four hex digits following a \u escape in src,
// combining a following low surrogate escape if one is present.
func decodeUnicode(src mem.RO) (rune, mem.RO, error) {
	if src.Len() < 4 {
		return 0, src, errors.New("incomplete Unicode escape")
	}
	v, err := parseHex(src.SliceTo(4))
	if err != nil {
		return 0, src, err
	}
	src = src.SliceFrom(4)
	r := rune(v)
	if !utf16.IsSurrogate(r) {
		return r, src, nil
	}
	if src.Len() >= 6 && src.At(0) == '\\' && src.At(1) == 'u' {
		if lo, err := parseHex(src.SliceFrom(2).SliceTo(4)); err == nil {
			if dec := utf16.DecodeRune(r, rune(lo)); dec != utf8.RuneError {
				return dec, src.SliceFrom(6), nil
			}
		}
	}
	return utf8.RuneError, src, nil
}

func parseHex(data mem.RO) (int64, error) {
	var v int64
	for i := 0; i < data.Len(); i++ {
		b := data.At(i)
		v <<= 4
		switch {
		case '0' <= b && b <= '9':
			v += int64(b - '0')
		case 'a' <= b && b <= 'f':
			v += int64(b - 'a' + 10)
		case 'A' <= b && b <= 'F':
			v += int64(b - 'A' + 10)
		default:
			return 0, fmt.Errorf("invalid hex digit %q", b)
		}
	}
	return v, nil
}

func appendHex4(dst []byte, r rune) []byte {
	return append(dst, hexDigit[(r>>12)&15], hexDigit[(r>>8)&15], hexDigit[(r>>4)&15], hexDigit[r&15])
}
