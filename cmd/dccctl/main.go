// Command dccctl is an interactive bench console for a DCC base
// station: connect over USB-serial and fire CV reads/writes at a
// running device, watching replies as they arrive.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	dccserial "dccbase/serial"
)

var (
	device  = flag.String("device", "/dev/ttyACM0", "Serial device path")
	baud    = flag.Int("baud", 115200, "Baud rate (ignored for USB CDC)")
	verbose = flag.Bool("verbose", false, "Echo raw command/reply lines")
)

func main() {
	flag.Parse()

	fmt.Println("dccctl - DCC base station bench console")
	fmt.Println("========================================")

	cfg := dccserial.DefaultConfig(*device)
	cfg.Baud = *baud

	fmt.Printf("Connecting to %s...\n", *device)
	port, err := dccserial.Open(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer port.Close()
	fmt.Println("Connected.")

	reader := bufio.NewReader(port)
	scanner := bufio.NewScanner(os.Stdin)

	fmt.Println("Type 'help' for commands, 'quit' to exit.")
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch strings.ToLower(line) {
		case "quit", "exit", "q":
			fmt.Println("Goodbye!")
			return
		case "help", "?":
			printHelp()
			continue
		}

		if *verbose {
			fmt.Printf(">> %s\n", line)
		}
		if _, err := port.Write([]byte(line + "\n")); err != nil {
			fmt.Fprintf(os.Stderr, "write error: %v\n", err)
			continue
		}

		reply, err := reader.ReadString('\n')
		if err != nil {
			fmt.Fprintf(os.Stderr, "read error: %v\n", err)
			continue
		}
		fmt.Println(strings.TrimSpace(reply))
	}

	if err := scanner.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "input error: %v\n", err)
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println(`
Available commands (forwarded to the base station verbatim):
  READCV <cv>
  WRITEPROGBYTE <cv> <value>
  WRITEPROGBIT <cv> <bit> <0|1>
  WRITEOPSBYTE <loco> <cv> <value>
  WRITEOPSBIT <loco> <cv> <bit> <0|1>
  quit / exit / q       - Exit the console`)
}
