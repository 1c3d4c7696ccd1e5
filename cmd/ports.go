package cmd

import (
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"grand-staff/midi"
)

var pollInterval time.Duration

func init() {
	rootCmd.AddCommand(portsCmd)
	portsCmd.AddCommand(portsListCmd, portsPollCmd)
	portsPollCmd.Flags().DurationVar(&pollInterval, "interval", 2*time.Second, "how often to rescan")
}

var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "Inspect MIDI input ports",
}

var portsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List MIDI inputs and mark the one that would be used",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		fmt.Println("=== MIDI Input Ports ===")
		fmt.Println("(waiting up to 3 seconds...)")
		names, err := inPortNames()
		if err != nil {
			fmt.Println("Fix on macOS: sudo killall coreaudiod midiserver")
			return err
		}
		fmt.Print(formatPorts(names, selection(cfg).Pick(names)))
		return nil
	},
}

var portsPollCmd = &cobra.Command{
	Use:   "poll",
	Short: "Print input port changes until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		sel := selection(cfg)

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		fmt.Printf("Polling for device changes every %s. Ctrl+C to exit.\n", pollInterval)
		last := "\x00"
		ticker := time.NewTicker(pollInterval)
		defer ticker.Stop()
		for {
			names, err := inPortNames()
			if err != nil {
				fmt.Printf("[%s] %v\n", time.Now().Format("15:04:05"), err)
			} else if current := strings.Join(names, ","); current != last {
				fmt.Printf("\n[%s] Device change detected!\n", time.Now().Format("15:04:05"))
				fmt.Print(formatPorts(names, sel.Pick(names)))
				last = current
			}

			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
			}
		}
	},
}

func inPortNames() ([]string, error) {
	ins, err := midi.ListInPorts()
	if err != nil {
		return nil, err
	}
	names := make([]string, len(ins))
	for i, p := range ins {
		names[i] = p.String()
	}
	return names, nil
}

func formatPorts(names []string, picked int) string {
	if len(names) == 0 {
		return "  (none)\n"
	}
	var b strings.Builder
	for i, name := range names {
		marker := " "
		if i == picked {
			marker = "*"
		}
		fmt.Fprintf(&b, "%s %d: %s\n", marker, i, name)
	}
	return b.String()
}
