package track

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/shlex"
)

// DispatchLine parses a single text command line and runs it against
// engine, returning the reply line to send back (no trailing
// newline). This is the wire format cmd/dccctl speaks to a base
// station over serial, and the same format a firmware build's console
// loop parses locally.
//
// Grammar, one command per line, fields space-separated:
//
//	READCV <cv>
//	WRITEPROGBYTE <cv> <value>
//	WRITEPROGBIT <cv> <bit> <0|1>
//	WRITEOPSBYTE <loco> <cv> <value>
//	WRITEOPSBIT <loco> <cv> <bit> <0|1>
//
// Replies are "OK <result...>" or "ERR <message>".
func DispatchLine(e *Engine, line string) string {
	fields, err := shlex.Split(line)
	if err != nil {
		return errReply(err)
	}
	if len(fields) == 0 {
		return "ERR empty command"
	}

	cmd := strings.ToUpper(fields[0])
	args := fields[1:]

	switch cmd {
	case "READCV":
		cv, err := parseArgs1(args)
		if err != nil {
			return errReply(err)
		}
		value, err := e.ReadCV(cv)
		if err != nil {
			return errReply(err)
		}
		return fmt.Sprintf("OK %d", value)

	case "WRITEPROGBYTE":
		cv, value, err := parseArgs2(args)
		if err != nil {
			return errReply(err)
		}
		ok, err := e.WriteProgCVByte(cv, byte(value))
		if err != nil {
			return errReply(err)
		}
		return fmt.Sprintf("OK %v", ok)

	case "WRITEPROGBIT":
		cv, bit, value, err := parseArgs3(args)
		if err != nil {
			return errReply(err)
		}
		ok, err := e.WriteProgCVBit(cv, uint8(bit), value != 0)
		if err != nil {
			return errReply(err)
		}
		return fmt.Sprintf("OK %v", ok)

	case "WRITEOPSBYTE":
		loco, cv, value, err := parseArgs3(args)
		if err != nil {
			return errReply(err)
		}
		if err := e.WriteOpsCVByte(uint16(loco), uint16(cv), byte(value)); err != nil {
			return errReply(err)
		}
		return "OK"

	case "WRITEOPSBIT":
		if len(args) != 4 {
			return "ERR WRITEOPSBIT needs loco cv bit value"
		}
		loco, err := strconv.ParseUint(args[0], 10, 16)
		if err != nil {
			return errReply(err)
		}
		cv, err := strconv.ParseUint(args[1], 10, 16)
		if err != nil {
			return errReply(err)
		}
		bit, err := strconv.ParseUint(args[2], 10, 8)
		if err != nil {
			return errReply(err)
		}
		value, err := strconv.ParseUint(args[3], 10, 8)
		if err != nil {
			return errReply(err)
		}
		if err := e.WriteOpsCVBit(uint16(loco), uint16(cv), uint8(bit), value != 0); err != nil {
			return errReply(err)
		}
		return "OK"

	default:
		return "ERR unknown command " + cmd
	}
}

func errReply(err error) string {
	return "ERR " + err.Error()
}

func parseArgs1(args []string) (uint16, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("expected 1 argument, got %d", len(args))
	}
	v, err := strconv.ParseUint(args[0], 10, 16)
	return uint16(v), err
}

func parseArgs2(args []string) (uint16, uint64, error) {
	if len(args) != 2 {
		return 0, 0, fmt.Errorf("expected 2 arguments, got %d", len(args))
	}
	cv, err := strconv.ParseUint(args[0], 10, 16)
	if err != nil {
		return 0, 0, err
	}
	value, err := strconv.ParseUint(args[1], 10, 8)
	return uint16(cv), value, err
}

func parseArgs3(args []string) (uint16, uint64, uint64, error) {
	if len(args) != 3 {
		return 0, 0, 0, fmt.Errorf("expected 3 arguments, got %d", len(args))
	}
	cv, err := strconv.ParseUint(args[0], 10, 16)
	if err != nil {
		return 0, 0, 0, err
	}
	a, err := strconv.ParseUint(args[1], 10, 8)
	if err != nil {
		return 0, 0, 0, err
	}
	b, err := strconv.ParseUint(args[2], 10, 8)
	return uint16(cv), a, b, err
}
