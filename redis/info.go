package redis

import (
	"bufio"
	"bytes"
	"strconv"
	"strings"
)

// Info is the parsed result of the server's INFO command. Only the
// well-known keys below are recognized; everything else on the wire is
// dropped rather than surfaced as a map, since callers of
// a typed client want fields, not string lookups.
type Info struct {
	Version     string
	Uptime      int64
	Clients     int64
	Slaves      int64
	Memory      int64
	Changes     int64
	LastSave    int64
	Connections int64
	Commands    int64
}

var infoIntFields = map[string]func(*Info, int64){
	"uptime_in_seconds":           func(i *Info, v int64) { i.Uptime = v },
	"connected_clients":           func(i *Info, v int64) { i.Clients = v },
	"connected_slaves":            func(i *Info, v int64) { i.Slaves = v },
	"used_memory":                 func(i *Info, v int64) { i.Memory = v },
	"changes_since_last_save":     func(i *Info, v int64) { i.Changes = v },
	"last_save_time":              func(i *Info, v int64) { i.LastSave = v },
	"total_connections_received":  func(i *Info, v int64) { i.Connections = v },
	"total_commands_processed":    func(i *Info, v int64) { i.Commands = v },
}

// ParseInfo reads the CRLF-separated "key:value" body of an INFO bulk
// reply. Blank lines and "#"-prefixed section headers are skipped;
// unrecognized keys are dropped rather than erroring, since the server's
// INFO output grows new fields across versions.
func ParseInfo(body []byte) (Info, error) {
	var info Info
	scanner := bufio.NewScanner(bytes.NewReader(body))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		if key == "redis_version" {
			info.Version = value
			continue
		}
		set, known := infoIntFields[key]
		if !known {
			continue
		}
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			continue
		}
		set(&info, n)
	}
	if err := scanner.Err(); err != nil {
		return Info{}, CreateProtocolError([]byte(err.Error()))
	}
	return info, nil
}
