package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/orbit-lang/orbit/compiler"
	"github.com/orbit-lang/orbit/config"
	"github.com/orbit-lang/orbit/natives"
	"github.com/orbit-lang/orbit/vm"
)

var runCommand = &cli.Command{
	Name:      "run",
	Usage:     "Compile and execute an Orbit script",
	ArgsUsage: "<script.orb>",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "path to orbit.yaml"},
	},
	Action: func(ctx context.Context, cmd *cli.Command) error {
		if cmd.Args().Len() == 0 {
			return fmt.Errorf("usage: orbit run <script.orb>")
		}
		return runFile(cmd.Args().First(), cmd.String("config"))
	},
}

func loadConfig(path string) config.Config {
	if path == "" {
		path = "orbit.yaml"
	}
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "orbit: warning: %v\n", err)
		return config.Default()
	}
	return cfg
}

func newConfiguredVM(cfg config.Config) *vm.VM {
	opts := []vm.Option{}
	if cfg.Limits.StackMax > 0 || cfg.Limits.FramesMax > 0 {
		opts = append(opts, vm.WithResourceLimits(cfg.Limits.StackMax, cfg.Limits.FramesMax))
	}
	machine := vm.New(opts...)
	natives.RegisterIDs(machine.RegisterNative)
	natives.RegisterFormat(machine.RegisterNative)
	if cfg.Natives.Time {
		natives.RegisterTime(machine.RegisterNative)
	}
	if cfg.Natives.DB {
		natives.RegisterDB(machine.RegisterNative)
	}
	natives.RegisterIntrospection(machine.RegisterNative, machine)
	return machine
}

func runFile(path, configPath string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	chunk, err := compiler.Compile(string(src))
	if err != nil {
		return err
	}

	machine := newConfiguredVM(loadConfig(configPath))
	if result, _ := machine.Interpret(chunk); result != vm.InterpretOK {
		os.Exit(1)
	}
	return nil
}
