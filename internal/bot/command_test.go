package bot

import "testing"

func TestParseCommand(t *testing.T) {
	cmd, ok := ParseCommand("/Chart@ChartSentinelBot  TSLA 90")
	if !ok {
		t.Fatal("expected a command")
	}
	if cmd.Name != "/chart" || cmd.Arg(0) != "TSLA" || cmd.Arg(1) != "90" || cmd.Arg(2) != "" {
		t.Errorf("got %+v", cmd)
	}

	cmd, _ = ParseCommand("/bulkwatch\nA A.NS\nB B.NS")
	if cmd.Name != "/bulkwatch" || len(cmd.Args) != 0 || cmd.Body != "A A.NS\nB B.NS" {
		t.Errorf("got %+v", cmd)
	}

	if _, ok := ParseCommand("hello"); ok {
		t.Error("plain text is not a command")
	}
}

func TestParseDays(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 180},
		{"90", 90},
		{"abc", 180},
		{"0", 180},
		{"-5", 180},
		{" 30 ", 30},
	}
	for _, tt := range tests {
		if got := ParseDays(tt.in, 180); got != tt.want {
			t.Errorf("ParseDays(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
