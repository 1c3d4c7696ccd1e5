package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"grand-staff/debug"
	"grand-staff/midi"
	"grand-staff/server"
)

var (
	serveAddr     string
	serveDebounce time.Duration
)

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
	serveCmd.Flags().DurationVar(&serveDebounce, "debounce", server.DefaultDebounce, "coalesce redraws this long before broadcasting")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve frames over HTTP and websocket without the TUI",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		defer debug.Disable()
		if serveAddr != "" {
			cfg.Server.Addr = serveAddr
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		display, deviceMgr, renderer := startCore(ctx, cfg)
		if deviceMgr != nil {
			go followDevices(ctx, deviceMgr, display)
		}

		fmt.Printf("grand-staff serving on http://%s\n", cfg.Server.Addr)
		if debug.Enabled() {
			if path, err := debug.Path(); err == nil {
				fmt.Printf("debug log: %s\n", path)
			}
		}
		srv := server.New(display, renderer, cfg.Server.CORSOrigins, serveDebounce)
		return srv.ListenAndServe(ctx, cfg.Server.Addr)
	},
}

// followDevices feeds whichever controller is connected into sink. The TUI
// does the same from its update loop.
func followDevices(ctx context.Context, deviceMgr *midi.DeviceManager, sink midi.NoteSink) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-deviceMgr.Events():
			if !ok {
				return
			}
			switch event.Type {
			case midi.DeviceConnected:
				fmt.Printf("connected %s\n", event.ID)
				go midi.Forward(event.Controller, sink)
			case midi.DeviceDisconnected:
				fmt.Printf("disconnected %s\n", event.ID)
				sink.Clear()
			}
		}
	}
}
