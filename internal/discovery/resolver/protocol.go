package resolver

import (
	"fmt"
	"strconv"
	"strings"
)

// encodeQuery builds the query datagram payload of spec.md §6: the
// return port the outlet should reply to, then the predicate, each
// newline-terminated.
func encodeQuery(returnPort uint16, predicate string) []byte {
	var b strings.Builder
	b.WriteString(strconv.Itoa(int(returnPort)))
	b.WriteByte('\n')
	b.WriteString(predicate)
	b.WriteByte('\n')
	return []byte(b.String())
}

// decodeReply splits a reply datagram into the stream's shortinfo
// (identity token) and its serialised metadata, per spec.md §6: a line
// containing the shortinfo, followed by the XML payload.
func decodeReply(data []byte) (shortinfo, serialized string, err error) {
	s := string(data)
	idx := strings.IndexByte(s, '\n')
	if idx < 0 {
		return "", "", fmt.Errorf("reply missing shortinfo line")
	}
	shortinfo = strings.TrimSpace(s[:idx])
	serialized = s[idx+1:]
	if shortinfo == "" {
		return "", "", fmt.Errorf("reply has empty shortinfo")
	}
	return shortinfo, serialized, nil
}
