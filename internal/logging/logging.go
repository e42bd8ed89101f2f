package logging

import (
	"io"
	"log"

	"gopkg.in/natefinch/lumberjack.v2"
)

const prefix = "slack-message "

// Options selects where diagnostic output goes. With neither set the
// logger discards everything.
type Options struct {
	Verbose bool
	Stderr  io.Writer
	File    string
}

// New returns the diagnostic logger and a close func for the rotating file,
// if one was opened.
func New(opts Options) (*log.Logger, func() error) {
	var writers []io.Writer
	if opts.Verbose && opts.Stderr != nil {
		writers = append(writers, opts.Stderr)
	}

	closeFn := func() error { return nil }
	if opts.File != "" {
		file := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    10, // megabytes
			MaxBackups: 5,
			MaxAge:     30, // days
			Compress:   true,
		}
		writers = append(writers, file)
		closeFn = file.Close
	}

	if len(writers) == 0 {
		return log.New(io.Discard, "", 0), closeFn
	}
	return log.New(io.MultiWriter(writers...), prefix, log.LstdFlags), closeFn
}
