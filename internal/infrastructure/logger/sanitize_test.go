package logger

import (
	"fmt"
	"testing"
)

func TestSanitizeForLog(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		// Normal strings pass through unchanged
		{"upload name unchanged", "holiday-2024.mp4", "holiday-2024.mp4"},
		{"path unchanged", "/data/video_temp/abc.mp4", "/data/video_temp/abc.mp4"},
		{"empty string", "", ""},

		// Control sequences escaped
		{"newline escaped", "clip\nERROR: fake log entry", "clip\\nERROR: fake log entry"},
		{"CRLF escaped", "line1\r\nline2", "line1\\r\\nline2"},
		{"tab escaped", "col1\tcol2", "col1\\tcol2"},
		{"null byte escaped", "before\x00after", "before\\x00after"},
		{"ANSI escape code escaped", "text\x1b[31mred\x1b[0m", "text\\x1b[31mred\\x1b[0m"},
		{"terminal clear attempt", "\x1b[2Jcleared", "\\x1b[2Jcleared"},
		{"bell escaped", "alert\x07bell", "alert\\x07bell"},
		{"DEL escaped", "delete\x7fchar", "delete\\x7fchar"},

		// Unicode preserved
		{"accented chars preserved", "vidéo de l'été.mp4", "vidéo de l'été.mp4"},
		{"emoji preserved", "hello 👋 world 🌍", "hello 👋 world 🌍"},
		{"cjk preserved", "中文文件名.mp4", "中文文件名.mp4"},
		{"mixed unicode and control", "файл\nновая строка", "файл\\nновая строка"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SanitizeForLog(tt.input)
			if result != tt.expected {
				t.Errorf("SanitizeForLog(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestSanitizeForLog_AllControlChars(t *testing.T) {
	for i := 0; i < 32; i++ {
		input := string(rune(i))
		result := SanitizeForLog(input)

		var want string
		switch i {
		case 9:
			want = "\\t"
		case 10:
			want = "\\n"
		case 13:
			want = "\\r"
		default:
			want = fmt.Sprintf("\\x%02x", i)
		}
		if result != want {
			t.Errorf("control char 0x%02x: got %q, want %q", i, result, want)
		}
	}

	if result := SanitizeForLog(string(rune(127))); result != "\\x7f" {
		t.Errorf("DEL char: got %q, want %q", result, "\\x7f")
	}
}
