package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

const stubListing = `File formats:
 D. = Demuxing supported
 .E = Muxing supported
 --
  E ac3             raw AC-3
  E matroska        Matroska
  E mp3             MP3 (MPEG audio layer 3)
  E null            raw null video
  E srt             SubRip subtitle
`

var stubDescriptors = map[string]string{
	"ac3":      `Muxer ac3 [raw AC-3]:\n    Common extensions: ac3.\n    Default audio codec: ac3.\n`,
	"matroska": `Muxer matroska [Matroska]:\n    Common extensions: mkv.\n    Mime type: video/x-matroska.\n    Default video codec: h264.\n    Default audio codec: vorbis.\n`,
	"mp3":      `Muxer mp3 [MP3 (MPEG audio layer 3)]:\n    Common extensions: mp3.\n    Mime type: audio/mpeg.\n    Default video codec: png.\n    Default audio codec: mp3.\n`,
	"null":     `Muxer null [raw null video]:\n    Default video codec: wrapped_avframe.\n`,
	"srt":      `Muxer srt [SubRip subtitle]:\n    Common extensions: srt.\n    Default subtitle codec: subrip.\n`,
}

type cliTestEnv struct {
	baseDir     string
	configPath  string
	ffmpegPath  string
	outputDir   string
	historyPath string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("ffmpeg stub requires a POSIX shell")
	}

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	workDir := filepath.Join(base, "work")
	for _, dir := range []string{homeDir, workDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("XDG_DATA_HOME", "")
	t.Setenv("MUXEXT_FFMPEG", "")
	t.Setenv("MUXEXT_OUTPUT_DIR", "")
	chdir(t, workDir)

	env := &cliTestEnv{
		baseDir:     base,
		configPath:  filepath.Join(base, "muxext.toml"),
		ffmpegPath:  filepath.Join(base, "bin", "ffmpeg"),
		outputDir:   filepath.Join(base, "out"),
		historyPath: filepath.Join(base, "data", "history.db"),
	}
	writeFFmpegStub(t, env.ffmpegPath, stubDescriptors)
	writeTestConfig(t, env)
	return env
}

// writeFFmpegStub writes a shell script answering -version, -muxers and
// -h muxer=NAME for the given descriptors. The listing always names every
// muxer in stubListing; muxers missing from descriptors fail with exit 1.
func writeFFmpegStub(t *testing.T, path string, descriptors map[string]string) {
	t.Helper()
	var b strings.Builder
	b.WriteString("#!/bin/sh\ncase \"$*\" in\n")
	b.WriteString("*-version*)\n  echo 'ffmpeg version 6.1.1-stub Copyright (c) 2000-2023 the FFmpeg developers'\n  ;;\n")
	b.WriteString("*-muxers*)\n  cat <<'LIST'\n" + stubListing + "LIST\n  ;;\n")
	for name, text := range descriptors {
		fmt.Fprintf(&b, "*muxer=%s)\n  printf '%s'\n  ;;\n", name, text)
	}
	b.WriteString("*)\n  echo 'Unknown format' >&2\n  exit 1\n  ;;\nesac\n")

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir stub dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o755); err != nil {
		t.Fatalf("write ffmpeg stub: %v", err)
	}
}

func writeTestConfig(t *testing.T, env *cliTestEnv) {
	t.Helper()
	content := fmt.Sprintf(`[ffmpeg]
binary = %q

[output]
dir = %q

[history]
path = %q

[logging]
level = "warn"
`, env.ffmpegPath, env.outputDir, env.historyPath)
	if err := os.WriteFile(env.configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, env *cliTestEnv, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if env != nil && env.configPath != "" {
		flags = append(flags, "--config", env.configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir %s: %v", dir, err)
	}
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
