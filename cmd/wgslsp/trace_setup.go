package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.trai.ch/zerr"

	"wgslsp/internal/trace"
)

// setupTracing builds the tracer the root flags ask for. The cleanup closes
// the trace output.
func setupTracing(cmd *cobra.Command) (trace.Tracer, func(), error) {
	flags := cmd.Root().PersistentFlags()
	output, _ := flags.GetString("trace")
	levelStr, _ := flags.GetString("trace-level")
	modeStr, _ := flags.GetString("trace-mode")
	ringSize, _ := flags.GetInt("trace-ring-size")

	level, err := trace.ParseLevel(levelStr)
	if err != nil {
		return nil, nil, err
	}
	mode, err := trace.ParseMode(modeStr)
	if err != nil {
		return nil, nil, err
	}
	if output != "" {
		// файл трассы без явного уровня пишет стадии
		if level <= trace.LevelCrash {
			level = trace.LevelStage
		}
		if mode == trace.ModeRing {
			mode = trace.ModeBoth
		}
	}

	tracer, err := trace.New(trace.Config{Level: level, Mode: mode, Path: output, RingSize: ringSize})
	if err != nil {
		return nil, nil, zerr.Wrap(err, "create tracer")
	}
	cleanup := func() {
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: %v\n", err)
		}
	}
	return tracer, cleanup, nil
}
