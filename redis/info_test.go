package redis

import "testing"

func TestParseInfo(t *testing.T) {
	body := []byte("# Server\r\n" +
		"redis_version:7.0.0\r\n" +
		"uptime_in_seconds:120\r\n" +
		"\r\n" +
		"# Clients\r\n" +
		"connected_clients:3\r\n" +
		"connected_slaves:0\r\n" +
		"used_memory:1048576\r\n" +
		"changes_since_last_save:42\r\n" +
		"last_save_time:1690000000\r\n" +
		"total_connections_received:99\r\n" +
		"total_commands_processed:500\r\n" +
		"some_unknown_future_field:whatever\r\n")

	info, err := ParseInfo(body)
	if err != nil {
		t.Fatal(err)
	}
	want := Info{
		Version:     "7.0.0",
		Uptime:      120,
		Clients:     3,
		Slaves:      0,
		Memory:      1048576,
		Changes:     42,
		LastSave:    1690000000,
		Connections: 99,
		Commands:    500,
	}
	if info != want {
		t.Fatalf("expect %+v, got %+v", want, info)
	}
}

func TestParseInfo_EmptyBody(t *testing.T) {
	info, err := ParseInfo(nil)
	if err != nil {
		t.Fatal(err)
	}
	if info != (Info{}) {
		t.Fatalf("expected zero value, got %+v", info)
	}
}
