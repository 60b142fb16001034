/*
 * Enigma VM - Main process.
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	getopt "github.com/pborman/getopt/v2"

	"github.com/rcornwell/enigma-vm/internal/config"
	"github.com/rcornwell/enigma-vm/internal/monitor"
	"github.com/rcornwell/enigma-vm/internal/program"
	"github.com/rcornwell/enigma-vm/internal/vm"
	"github.com/rcornwell/enigma-vm/internal/vmlog"
)

var Logger *slog.Logger

func main() {
	optProgram := getopt.StringLong("program", 'p', "", "Program image to load")
	optConfig := getopt.StringLong("config", 'c', "", "Configuration file")
	optLogFile := getopt.StringLong("log", 'l', "", "Log file")
	optMonitor := getopt.BoolLong("monitor", 'm', "Drop into the interactive debug monitor")
	optDebug := getopt.BoolLong("debug", 'd', "Enable debug-level logging")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		os.Exit(0)
	}

	var logFile *os.File
	if *optLogFile != "" {
		var err error
		logFile, err = os.Create(*optLogFile)
		if err != nil {
			slog.Error("enigma: cannot create log file: " + err.Error())
			os.Exit(1)
		}
	}
	programLevel := new(slog.LevelVar)
	if *optDebug {
		programLevel.Set(slog.LevelDebug)
	} else {
		programLevel.Set(slog.LevelInfo)
	}
	Logger = slog.New(vmlog.NewHandler(logFile, &slog.HandlerOptions{Level: programLevel}, *optDebug))
	slog.SetDefault(Logger)

	if *optProgram == "" {
		Logger.Error("enigma: please specify a program image with --program")
		os.Exit(1)
	}

	opts := vm.Options{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
	}
	if *optConfig != "" {
		cfg, err := config.Load(*optConfig)
		if err != nil {
			Logger.Error("enigma: " + err.Error())
			os.Exit(1)
		}
		opts.MaxMemoryLength = cfg.MaxMemoryLength
	}

	v := vm.New(opts)

	imgFile, err := os.Open(*optProgram)
	if err != nil {
		Logger.Error("enigma: cannot open program image: " + err.Error())
		os.Exit(1)
	}
	img, err := program.Decode(imgFile)
	imgFile.Close()
	if err != nil {
		Logger.Error("enigma: cannot decode program image: " + err.Error())
		os.Exit(1)
	}
	if err := v.LoadImage(img); err != nil {
		Logger.Error("enigma: cannot load program image: " + err.Error())
		os.Exit(1)
	}

	if *optMonitor {
		monitor.Run(v)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	Logger.Info("enigma: started")
	code, err := v.Run(ctx)
	if err != nil {
		Logger.Error("enigma: " + err.Error())
		os.Exit(1)
	}
	Logger.Info("enigma: halted")
	os.Exit(int(code))
}
