package cmd

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"grand-staff/config"
	"grand-staff/debug"
	"grand-staff/midi"
	"grand-staff/notation"
	"grand-staff/render"
	"grand-staff/server"
	"grand-staff/staff"
	"grand-staff/theme"
	"grand-staff/tui"
)

var (
	cfgFile   string
	spelling  string
	debugLog  bool
	noMIDI    bool
	withServe bool
)

var rootCmd = &cobra.Command{
	Use:   "grand-staff",
	Short: "Live grand staff for whatever is held on a MIDI keyboard",
	Long: `grand-staff draws the notes currently held on a MIDI keyboard on a
treble and bass staff, with ledger lines and stacked accidentals.
Connect a keyboard any time; it is picked up automatically.`,
	SilenceUsage: true,
	RunE:         runTUI,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default ~/.config/grand-staff/config.yaml)")
	pf.StringVar(&spelling, "spelling", "", "accidental spelling: sharps or flats")
	pf.BoolVar(&debugLog, "debug", false, "write a debug log next to the config")
	pf.BoolVar(&noMIDI, "no-midi", false, "don't open MIDI inputs")

	rootCmd.Flags().BoolVar(&withServe, "serve", false, "also serve the HTTP/websocket API")
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if cfgFile != "" {
		cfg, err = config.LoadFile(cfgFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if spelling != "" {
		mode, err := notation.ParseSpellingMode(spelling)
		if err != nil {
			return nil, err
		}
		cfg.Spelling = mode
	}
	if debugLog {
		cfg.Debug = true
	}
	if cfg.Debug {
		if err := debug.Enable(); err != nil {
			return nil, fmt.Errorf("enable debug log: %w", err)
		}
	}
	return cfg, nil
}

func loadTheme(cfg *config.Config) (*theme.Theme, error) {
	if cfg.UI.Palette == "" {
		return theme.New(nil), nil
	}
	palette, err := theme.LoadGPL(cfg.UI.Palette)
	if err != nil {
		return nil, err
	}
	return theme.New(palette), nil
}

func selection(cfg *config.Config) midi.Selection {
	return midi.Selection{
		Preferred: cfg.Input.Preferred,
		Excluded:  cfg.Input.Excluded,
		Channel:   cfg.Input.Channel,
	}
}

// startCore runs the display (and device manager unless --no-midi) until ctx
// is done.
func startCore(ctx context.Context, cfg *config.Config) (*staff.Display, *midi.DeviceManager, *render.Renderer) {
	display := staff.NewDisplay(cfg.Spelling)
	go display.Run(ctx)

	var deviceMgr *midi.DeviceManager
	if !noMIDI {
		deviceMgr = midi.NewDeviceManager(selection(cfg))
		go deviceMgr.Run(ctx)
	}
	return display, deviceMgr, render.NewRenderer(cfg.Geometry, render.DefaultGlyphs())
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	defer debug.Disable()

	th, err := loadTheme(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	display, deviceMgr, renderer := startCore(ctx, cfg)

	if withServe {
		srv := server.New(display, renderer, cfg.Server.CORSOrigins, server.DefaultDebounce)
		go func() {
			if err := srv.ListenAndServe(ctx, cfg.Server.Addr); err != nil {
				debug.Log("server", "%v", err)
			}
		}()
	}

	m := tui.NewModel(display, deviceMgr, renderer, th, cfg.UI.BaseOctave)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
