package main

import "fmt"

const usage = "usage: stream-lookup [stream|user|channel] [login]"

const (
	cmdStream  = "stream"
	cmdUser    = "user"
	cmdChannel = "channel"
)

type command struct {
	name  string
	login string
}

func parseArgs(args []string) (command, error) {
	switch len(args) {
	case 0:
		return command{name: cmdStream}, nil
	case 1:
		if isCommand(args[0]) {
			return command{name: args[0]}, nil
		}
		return command{name: cmdStream, login: args[0]}, nil
	case 2:
		if !isCommand(args[0]) {
			return command{}, fmt.Errorf("unknown command %q", args[0])
		}
		return command{name: args[0], login: args[1]}, nil
	default:
		return command{}, fmt.Errorf("too many arguments")
	}
}

func isCommand(s string) bool {
	return s == cmdStream || s == cmdUser || s == cmdChannel
}
