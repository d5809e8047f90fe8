package service

import (
	"context"
	"fmt"
	"github.com/rs/zerolog"
	"os/exec"
	"strings"
)

type Remuxer interface {
	Remux(ctx context.Context, input, output string) error
}

// FFmpegRemuxer rewrites the container with the index up front so players
// can start before the whole file is fetched. Streams are copied, not
// re-encoded.
type FFmpegRemuxer struct {
	Binary string
}

func (f FFmpegRemuxer) args(input, output string) []string {
	return []string{
		"-hide_banner",
		"-loglevel", "error",
		"-y",
		"-i", input,
		"-map", "0",
		"-c", "copy",
		"-movflags", "+faststart",
		output,
	}
}

func (f FFmpegRemuxer) Remux(ctx context.Context, input, output string) error {
	binary := f.Binary
	if binary == "" {
		binary = "ffmpeg"
	}
	ffmpegArgs := f.args(input, output)
	zerolog.Ctx(ctx).Debug().Str("cmd", binary+" "+strings.Join(ffmpegArgs, " ")).Msg("executing ffmpeg")

	cmd := exec.CommandContext(ctx, binary, ffmpegArgs...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		zerolog.Ctx(ctx).Error().Str("output", string(out)).Msg("ffmpeg failed")
		return fmt.Errorf("ffmpeg execution failed: %w", err)
	}
	return nil
}
