// Package armor wraps binary containers in an OpenPGP-style ASCII armor
// with a CRC-24 checksum line.
package armor

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
)

// MessageType is the block type used for rsacrypt containers.
const MessageType = "RSACRYPT MESSAGE"

var (
	ErrNoBlock  = errors.New("armor: no armored block found")
	ErrChecksum = errors.New("armor: checksum mismatch")
	ErrEncoding = errors.New("armor: invalid base64 body")
)

// Block is a decoded armored block.
type Block struct {
	Type    string
	Headers map[string]string
	Bytes   []byte
}

// CRC-24 (poly 0x1864CF, init 0xB704CE) compatible with OpenPGP armor.
func crc24(data []byte) uint32 {
	crc := uint32(crc24Init)
	for _, b := range data {
		crc = crc24UpdateByte(crc, b)
	}
	return crc
}

// Encode armors raw under blockType. Headers are written in sorted order.
func Encode(blockType string, raw []byte, headers map[string]string) ([]byte, error) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, blockType, headers)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(raw); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodeMessage armors a container as an RSACRYPT MESSAGE block.
func EncodeMessage(raw []byte, headers map[string]string) ([]byte, error) {
	return Encode(MessageType, raw, headers)
}

// Decode parses the first armored block in in. The CRC line, if present,
// must match the body.
func Decode(in []byte) (*Block, error) {
	beginPrefix := []byte("-----BEGIN ")
	start := bytes.Index(in, beginPrefix)
	if start < 0 {
		return nil, ErrNoBlock
	}
	in = in[start+len(beginPrefix):]
	endType := bytes.Index(in, []byte("-----"))
	if endType < 0 {
		return nil, ErrNoBlock
	}
	blockType := string(in[:endType])
	in = in[endType+len("-----"):]

	end := bytes.Index(in, []byte("-----END "+blockType+"-----"))
	if end < 0 {
		return nil, fmt.Errorf("%w: missing END line for %s", ErrNoBlock, blockType)
	}

	lines := bytes.Split(in[:end], []byte{'\n'})
	for i := range lines {
		lines[i] = bytes.TrimRight(lines[i], "\r")
	}

	// Headers run until the first blank line. Without one, the body starts
	// at the first line.
	hdrs := map[string]string{}
	dataStart := 0
	for i, ln := range lines {
		if len(bytes.TrimSpace(ln)) == 0 {
			if i > 0 || len(hdrs) > 0 {
				dataStart = i + 1
				break
			}
			continue
		}
		kv := bytes.SplitN(ln, []byte{':'}, 2)
		if len(kv) != 2 {
			dataStart = 0
			hdrs = map[string]string{}
			break
		}
		hdrs[string(bytes.TrimSpace(kv[0]))] = string(bytes.TrimSpace(kv[1]))
	}

	var dataLines [][]byte
	for _, ln := range lines[dataStart:] {
		if len(bytes.TrimSpace(ln)) == 0 {
			continue
		}
		dataLines = append(dataLines, bytes.TrimSpace(ln))
	}

	var crcGiven []byte
	if n := len(dataLines); n > 0 && dataLines[n-1][0] == '=' {
		var err error
		crcGiven, err = base64.StdEncoding.DecodeString(string(dataLines[n-1][1:]))
		if err != nil || len(crcGiven) != 3 {
			return nil, fmt.Errorf("%w: bad checksum line", ErrChecksum)
		}
		dataLines = dataLines[:n-1]
	}

	raw, err := base64.StdEncoding.DecodeString(string(bytes.Join(dataLines, nil)))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncoding, err)
	}

	if crcGiven != nil {
		crc := crc24(raw)
		if byte(crc>>16) != crcGiven[0] || byte(crc>>8) != crcGiven[1] || byte(crc) != crcGiven[2] {
			return nil, ErrChecksum
		}
	}
	return &Block{Type: blockType, Headers: hdrs, Bytes: raw}, nil
}

// DecodeMessage extracts an RSACRYPT MESSAGE block.
func DecodeMessage(in []byte) ([]byte, error) {
	b, err := Decode(in)
	if err != nil {
		return nil, err
	}
	if b.Type != MessageType {
		return nil, fmt.Errorf("%w: got %q, want %q", ErrNoBlock, b.Type, MessageType)
	}
	return b.Bytes, nil
}

// IsArmored reports whether in looks like an armored block.
func IsArmored(in []byte) bool {
	return bytes.HasPrefix(bytes.TrimSpace(in), []byte("-----BEGIN "))
}
