package main

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/dshulyak/art6/art"
)

type record struct {
	key   art.Key
	value uint64
}

// readRecords parses one "<12 hex digit key> <decimal value>" record
// per line. Blank lines and lines starting with '#' are skipped.
func readRecords(r io.Reader) ([]record, error) {
	var records []record
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, errors.Errorf(`malformed record %q: want "<key> <value>"`, line)
		}

		keyBytes, err := decodeKeyHex(fields[0])
		if err != nil {
			return nil, errors.Wrapf(err, "decoding key %q", fields[0])
		}
		value, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "decoding value %q", fields[1])
		}

		records = append(records, record{key: art.KeyFromBytes(keyBytes), value: value})
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "reading records")
	}
	return records, nil
}

func decodeKeyHex(s string) ([]byte, error) {
	if len(s) != art.KeyLen*2 {
		return nil, fmt.Errorf("key must be %d hex digits, got %d", art.KeyLen*2, len(s))
	}
	return hex.DecodeString(s)
}

// buildTree inserts every record into a fresh Tree.
func buildTree(records []record) *art.Tree {
	t := &art.Tree{}
	for _, r := range records {
		t.Insert(r.key, r.value)
	}
	return t
}
