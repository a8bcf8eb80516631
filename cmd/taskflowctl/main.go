// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Command taskflowctl runs the task-composition scenarios from the
// engine's own test suite against a real PoolDispatcher, for manual
// inspection outside of go test.
package main

import (
	"fmt"
	"os"
	"reflect"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/digiverse/task"
)

func main() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	root := &cobra.Command{
		Use:   "taskflowctl",
		Short: "Run task-composition demonstration scenarios",
	}
	root.AddCommand(
		sequentialCmd(),
		loopCmd(),
		repeatCmd(),
		interceptCmd(),
	)
	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

func intLeaf(q *task.RunQueue, fn func(int) int) task.Descriptor {
	return task.Leaf(q, reflect.TypeOf(int(0)), reflect.TypeOf(int(0)), func(in task.Value) (task.Value, error) {
		return fn(in.(int)), nil
	})
}

func sequentialCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sequential",
		Short: "Run the sequential-arithmetic scenario",
		RunE: func(cmd *cobra.Command, args []string) error {
			disp := task.NewPoolDispatcher(4)
			defer disp.Close()
			q := task.NewRunQueue(disp)

			d := task.Sequence(
				intLeaf(q, func(i int) int { return i + 1 }),
				intLeaf(q, func(i int) int { return i * 2 }),
				intLeaf(q, func(i int) int { return i - 3 }),
			)
			v, err := task.Run(d, 5, nil).Wait()
			if err != nil {
				return err
			}
			fmt.Println(v)
			return nil
		},
	}
}

func loopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "loop",
		Short: "Run the loop-counting scenario",
		RunE: func(cmd *cobra.Command, args []string) error {
			disp := task.NewPoolDispatcher(4)
			defer disp.Close()
			q := task.NewRunQueue(disp)

			predicate := task.Leaf(q, reflect.TypeOf(int(0)), reflect.TypeOf(bool(false)), func(in task.Value) (task.Value, error) {
				return in.(int) < 4, nil
			})
			body := intLeaf(q, func(i int) int { return i + 1 })

			v, err := task.Run(task.Loop(predicate, body), 0, nil).Wait()
			if err != nil {
				return err
			}
			fmt.Println(v)
			return nil
		},
	}
}

func repeatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repeat",
		Short: "Run the repeat-accumulation scenario",
		RunE: func(cmd *cobra.Command, args []string) error {
			disp := task.NewPoolDispatcher(4)
			defer disp.Close()
			q := task.NewRunQueue(disp)

			body := task.Leaf(q, reflect.TypeOf(uint64(0)), reflect.TypeOf(int(0)), func(in task.Value) (task.Value, error) {
				i := in.(uint64)
				return int(i) * 10, nil
			})

			v, err := task.Run(task.Repeat(body), uint64(3), nil).Wait()
			if err != nil {
				return err
			}
			fmt.Println(v)
			return nil
		},
	}
}

func interceptCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "intercept",
		Short: "Run the intercept-matching scenario",
		RunE: func(cmd *cobra.Command, args []string) error {
			disp := task.NewPoolDispatcher(4)
			defer disp.Close()
			q := task.NewRunQueue(disp)

			primary := task.Leaf(q, nil, reflect.TypeOf(""), func(in task.Value) (task.Value, error) {
				return nil, fmt.Errorf("boom")
			})
			stringLeaf := func(s string) task.Descriptor {
				return task.Leaf(q, nil, reflect.TypeOf(""), func(in task.Value) (task.Value, error) { return s, nil })
			}
			d := task.Intercept(primary, nil,
				task.Catcher{Type: nil, Handler: stringLeaf("caught")},
			)
			v, err := task.Run(d, nil, nil).Wait()
			if err != nil {
				return err
			}
			fmt.Println(v)
			return nil
		},
	}
}
