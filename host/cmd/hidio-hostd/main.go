// Command hidio-hostd is the interactive host daemon: it opens a serial
// connection to a HID-IO sideband device, runs the protocol's
// message-level dispatch loop against it, and exposes a small REPL for
// querying and driving the device by hand.
package main

import (
	"bufio"
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/shlex"
	"github.com/spf13/pflag"

	"github.com/hidio-go/hidio/catalog"
	"github.com/hidio-go/hidio/host"
	"github.com/hidio-go/hidio/host/transport"
	"github.com/hidio-go/hidio/protocol"
)

var (
	device     = pflag.StringP("device", "d", "/dev/ttyACM0", "serial device path")
	config     = pflag.StringP("config", "c", "", "path to a YAML config file (overrides --device, --chunk-size and --log-level)")
	chunkSize  = pflag.IntP("chunk-size", "s", 64, "transport chunk size in bytes")
	logLevel   = pflag.StringP("log-level", "l", "info", "log level (debug, info, warn, error)")
)

func main() {
	pflag.Usage = func() {
		fmt.Fprintln(os.Stderr, "hidio-hostd: HID-IO sideband host daemon")
		pflag.PrintDefaults()
	}
	pflag.Parse()

	cfg := host.DefaultConfig(*device)
	if *config != "" {
		loaded, err := host.LoadConfig(*config)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	} else {
		cfg.Wire.ChunkSize = *chunkSize
		cfg.LogLevel = *logLevel
	}

	logger := host.NewLogger(cfg.LogLevel)

	rw, err := transport.OpenSerial(cfg.SerialTransportConfig())
	if err != nil {
		logger.Error("failed to open device", "err", err)
		os.Exit(1)
	}
	defer rw.Close()

	registry := protocol.NewRegistry(32)
	dev := host.NewDevice(cfg.ProtocolConfig(), rw, registry, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := dev.Run(ctx); err != nil {
			logger.Warn("connection loop stopped", "err", err)
		}
	}()

	logger.Info("connected", "device", cfg.Serial.Device, "chunk_size", cfg.Wire.ChunkSize)
	runREPL(ctx, dev, logger)
}

func runREPL(ctx context.Context, dev *host.Device, logger *log.Logger) {
	fmt.Println("hidio-hostd - type 'help' for commands, 'quit' to exit")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields, err := shlex.Split(line)
		if err != nil || len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "quit", "exit", "q":
			return
		case "help", "?":
			printHelp()
		case "supported-ids":
			ids, err := dev.Capabilities(ctx)
			if err != nil {
				logger.Error("supported-ids failed", "err", err)
				continue
			}
			fmt.Printf("supported IDs: %v\n", ids)
		case "get-info":
			if len(fields) < 2 {
				fmt.Println("usage: get-info <selector-hex>")
				continue
			}
			sel, err := strconv.ParseUint(strings.TrimPrefix(fields[1], "0x"), 16, 8)
			if err != nil {
				fmt.Println("bad selector:", err)
				continue
			}
			payload, err := dev.GetInfo(ctx, catalog.GetInfoSelector(sel))
			if err != nil {
				logger.Error("get-info failed", "err", err)
				continue
			}
			fmt.Printf("payload: %s\n", hex.EncodeToString(payload))
		case "test":
			if len(fields) < 2 {
				fmt.Println("usage: test <hex bytes>")
				continue
			}
			data, err := hex.DecodeString(fields[1])
			if err != nil {
				fmt.Println("bad hex:", err)
				continue
			}
			echoed, err := dev.SendMessage(ctx, protocol.KindData, catalog.IDTestPacket, false, data)
			if err != nil {
				logger.Error("test packet failed", "err", err)
				continue
			}
			fmt.Printf("echoed: %s\n", hex.EncodeToString(echoed))
		case "utf8-send":
			if len(fields) < 2 {
				fmt.Println("usage: utf8-send <text>")
				continue
			}
			text := strings.Join(fields[1:], " ")
			err := dev.Notify(catalog.IDUTF8CharacterStream, false, catalog.EncodeUTF8CharacterStream(text))
			if err != nil {
				logger.Error("utf8-send failed", "err", err)
				continue
			}
			fmt.Println("sent")
		case "flash-mode":
			payload, err := dev.SendMessage(ctx, protocol.KindData, catalog.IDFlashMode, false, nil)
			if err != nil {
				logger.Error("flash-mode failed", "err", err)
				continue
			}
			scancode, _ := catalog.DecodeFlashModeAck(payload)
			fmt.Printf("confirm with scancode 0x%02x\n", scancode)
		case "sleep-mode":
			_, err := dev.SendMessage(ctx, protocol.KindData, catalog.IDSleepMode, false, nil)
			if err != nil {
				logger.Error("sleep-mode failed", "err", err)
				continue
			}
			fmt.Println("sleep acknowledged")
		case "reset":
			if err := dev.Notify(catalog.IDResetHIDIO, false, nil); err != nil {
				logger.Error("reset failed", "err", err)
			}
		default:
			fmt.Printf("unknown command: %s (type 'help')\n", fields[0])
		}
	}
}

func printHelp() {
	fmt.Println(`
available commands:
  supported-ids            list the device's supported command IDs
  get-info <selector-hex>  query a Get Info property (e.g. get-info 0x09)
  test <hex bytes>         send a Test Packet and print the echoed payload
  utf8-send <text>         send a UTF-8 Character Stream
  flash-mode               request entry into flash mode
  sleep-mode               request entry into sleep mode
  reset                    send Reset HID-IO (no response expected)
  quit/exit/q              exit hidio-hostd`)
}
