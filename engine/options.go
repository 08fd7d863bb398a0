// Package engine is the demo search driver that wires package search's
// move selector and transposition table to package board's collaborator
// adapters. It is intentionally thin: a full UCI front end, time
// management, and an evaluation function proper are out of scope (spec
// §1); this package exists so the search-support core compiles, runs,
// and is exercised end-to-end.
package engine

import (
	"errors"
	"fmt"
	"runtime"
	"strconv"
)

// Option mirrors the teacher's UCI option shape (name/stringify/set),
// kept here as ambient configuration even though the UCI front end
// itself is out of scope — a future front end can list engine.Options
// the same way CounterGo's uci.Protocol lists *uci.Option.
type Option interface {
	UciName() string
	UciString() string
	Set(s string) error
}

type BoolOption struct {
	Name  string
	Value *bool
}

func (opt *BoolOption) UciName() string { return opt.Name }

func (opt *BoolOption) UciString() string {
	return fmt.Sprintf("option name %v type %v default %v", opt.Name, "check", *opt.Value)
}

func (opt *BoolOption) Set(s string) error {
	v, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	*opt.Value = v
	return nil
}

type IntOption struct {
	Name  string
	Min   int
	Max   int
	Value *int
}

func (opt *IntOption) UciName() string { return opt.Name }

func (opt *IntOption) UciString() string {
	return fmt.Sprintf("option name %v type %v default %v min %v max %v",
		opt.Name, "spin", *opt.Value, opt.Min, opt.Max)
}

func (opt *IntOption) Set(s string) error {
	v, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	if v < opt.Min || v > opt.Max {
		return errors.New("argument out of range")
	}
	*opt.Value = v
	return nil
}

const (
	defaultHashMB = 16
	minHashMB     = 1
	maxHashMB     = 65536
)

// Options is the engine's small set of tunables, following
// CounterGo's engine.Options/pkg/engine.Options shape.
type Options struct {
	Hash    int
	Threads int
}

// DefaultOptions returns the engine's defaults: a 16 MB hash table and
// one worker per logical CPU.
func DefaultOptions() Options {
	return Options{Hash: defaultHashMB, Threads: runtime.NumCPU()}
}

// UciOptions exposes Options as the Option list a front end would list
// with "uci"/"setoption", grounded on CounterGo's engine.GetOptions.
func (o *Options) UciOptions() []Option {
	return []Option{
		&IntOption{Name: "Hash", Min: minHashMB, Max: maxHashMB, Value: &o.Hash},
		&IntOption{Name: "Threads", Min: 1, Max: 512, Value: &o.Threads},
	}
}
