package fileprocessor

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/retroenv/chip8go/internal/options"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func TestProcessFile(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "test.ch8")
	output := filepath.Join(dir, "test.asm")

	// CLS, JP $200
	program := []byte{0x00, 0xE0, 0x12, 0x00}
	err := os.WriteFile(input, program, 0600)
	if err != nil {
		t.Fatalf("writing test file: %v", err)
	}

	opts := options.Program{
		Input:  input,
		Output: output,
	}

	err = ProcessFile(context.Background(), log.NewTestLogger(t), opts, options.NewDisassembler())
	assert.NoError(t, err)

	data, err := os.ReadFile(output)
	assert.NoError(t, err)

	listing := string(data)
	assert.True(t, strings.Contains(listing, "Start:"))
	assert.True(t, strings.Contains(listing, "CLS"))
	assert.True(t, strings.Contains(listing, "JP "))
}

func TestProcessFileMissingInput(t *testing.T) {
	opts := options.Program{
		Input: filepath.Join(t.TempDir(), "missing.ch8"),
	}

	err := ProcessFile(context.Background(), log.NewTestLogger(t), opts, options.NewDisassembler())
	assert.Error(t, err)
}

func TestGetFilesToProcess(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.ch8", "b.ch8", "c.txt"} {
		err := os.WriteFile(filepath.Join(dir, name), []byte{0x00, 0xE0}, 0600)
		if err != nil {
			t.Fatalf("writing test file: %v", err)
		}
	}

	t.Run("batch pattern", func(t *testing.T) {
		opts := &options.Program{
			Batch: filepath.Join(dir, "*.ch8"),
		}

		files, err := GetFilesToProcess(opts)
		assert.NoError(t, err)
		assert.Len(t, files, 2)
	})

	t.Run("single input", func(t *testing.T) {
		opts := &options.Program{
			Input: "test.ch8",
		}

		files, err := GetFilesToProcess(opts)
		assert.NoError(t, err)
		assert.Len(t, files, 1)
		assert.Equal(t, "test.ch8", files[0])
	})
}

func TestGenerateOutputFilename(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "game.ch8", want: "game.asm"},
		{input: "roms/pong.bin", want: "roms/pong.asm"},
		{input: "noextension", want: "noextension.asm"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, GenerateOutputFilename(tt.input))
		})
	}
}

func TestPrintBanner(t *testing.T) {
	logger := log.NewTestLogger(t)

	PrintBanner(logger, options.Program{}, "chip8godisasm", "dev", "1234567890abcdef", "2024-01-01")
	PrintBanner(logger, options.Program{Quiet: true}, "chip8godisasm", "dev", "", "unknown")
}
