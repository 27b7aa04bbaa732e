package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/jsphweid/notefall/config"
	"github.com/jsphweid/notefall/convert"
	"github.com/jsphweid/notefall/engine"
	"github.com/jsphweid/notefall/logger"
	"github.com/jsphweid/notefall/model"
	"github.com/jsphweid/notefall/pitch"
	"github.com/jsphweid/notefall/util"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // autoregisters driver
)

const maxStepFrames = 4

// flags override the environment, which overrides the defaults
var playCfg, playCfgErr = config.Load()

var (
	playInput      int
	playListInputs bool
)

func init() {
	rootCmd.AddCommand(playCmd)
	playCfg.BindFlags(playCmd.Flags())
	playCmd.Flags().IntVar(&playInput, "input", -1, "MIDI input port to play with, -1 for none")
	playCmd.Flags().BoolVar(&playListInputs, "list-inputs", false, "list MIDI input ports and exit")
}

var playCmd = &cobra.Command{
	Use:   "play <song-id|file.mid>",
	Short: "Plays a song",
	Long: `Plays a song from the library or straight from a MIDI file. The song's
own tempo is used unless --tempo or NOTEFALL_TEMPO is given. Notes of the chosen part have to
be hit on the MIDI input; everything else plays itself.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if playListInputs {
			return nil
		}
		return cobra.ExactArgs(1)(cmd, args)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if playListInputs {
			return listInputs()
		}
		if playCfgErr != nil {
			return playCfgErr
		}
		song, err := loadSong(args[0], playCfg)
		if err != nil {
			return err
		}
		decoded := convert.DecodeSong(song)
		if n := decoded.Skipped(); n > 0 {
			logger.CLI.Printf("%d unreadable runs in the song were left out", n)
		}
		chart := engine.Chart{
			Melody:        decoded.Track(model.Melody),
			Accompaniment: decoded.Track(model.Accompaniment),
			Tempo:         song.Tempo,
		}

		presses := make(chan int, 64)
		if playInput >= 0 {
			stop, err := listen(playInput, presses)
			if err != nil {
				return err
			}
			defer stop()
		}
		return play(chart, playCfg, presses)
	},
}

func isMidiPath(arg string) bool {
	ext := strings.ToLower(filepath.Ext(arg))
	return ext == ".mid" || ext == ".midi"
}

func loadSong(arg string, cfg config.Config) (model.Song, error) {
	if isMidiPath(arg) {
		opts := convert.DefaultOptions()
		opts.Range = cfg.Range
		return convert.FromFile(arg, opts)
	}
	st, closeStore, err := openStore()
	if err != nil {
		return model.Song{}, err
	}
	defer closeStore()
	return st.Get(arg)
}

func autoplayTag(autoplay bool) string {
	if autoplay {
		return " (auto)"
	}
	return ""
}

// play drives the engine from a ticker. Presses queued by the input
// callback are drained on this goroutine before each step.
func play(chart engine.Chart, cfg config.Config, presses <-chan int) error {
	finished := false
	eng, err := engine.New(chart, cfg, engine.ListenerFuncs{
		OnSpawn: func(e engine.SpawnEvent) {
			logger.Engine.Printf("spawn %s lane %d offset %.2f%s", pitch.Name(e.Pitch), e.Lane, e.Offset, autoplayTag(e.Autoplay))
		},
		OnHit: func(e engine.HitEvent) {
			logger.Engine.Printf("hit %s at %.1f%s", pitch.Name(e.Pitch), e.Position, autoplayTag(e.Autoplay))
		},
		OnMiss: func(e engine.MissEvent) {
			logger.Engine.Printf("miss %s", pitch.Name(e.Pitch))
		},
		OnFinished: func() {
			finished = true
		},
	})
	if err != nil {
		return err
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	defer signal.Stop(interrupt)

	ticker := time.NewTicker(time.Duration(float64(time.Second) / cfg.TickRate))
	defer ticker.Stop()

	if cfg.Demo {
		logger.CLI.Printf("demo: both parts play themselves")
	} else {
		logger.CLI.Printf("you play the %s, the %s plays itself", cfg.Part, cfg.Part.Other())
	}
	eng.Start()
	last := time.Now()
	for !finished {
		select {
		case <-interrupt:
			logger.CLI.Println("stopped")
			finished = true
		case now := <-ticker.C:
		drain:
			for {
				select {
				case lane := <-presses:
					eng.Press(lane)
				default:
					break drain
				}
			}
			// a stalled process resumes where it stopped instead of
			// jumping ahead by the time it was away
			eng.Step(util.Min(now.Sub(last).Seconds()*cfg.TickRate, maxStepFrames))
			last = now
		}
	}

	stats := eng.Stats()
	fmt.Printf("hits: %d, misses: %d, autoplayed: %d\n", stats.Hits, stats.Misses, stats.Autoplayed)
	return nil
}

func listen(port int, presses chan<- int) (func(), error) {
	in, err := gomidi.InPort(port)
	if err != nil {
		return nil, errors.Wrapf(err, "opening MIDI input %d", port)
	}
	stop, err := gomidi.ListenTo(in, func(msg gomidi.Message, timestampms int32) {
		var ch, key, vel uint8
		if !msg.GetNoteStart(&ch, &key, &vel) {
			return
		}
		select {
		case presses <- model.LaneForPitch(int(key)):
		default:
			logger.CLI.Println("input queue full, dropping note")
		}
	}, gomidi.HandleError(func(err error) {
		logger.CLI.Printf("MIDI input error: %v", err)
	}))
	if err != nil {
		gomidi.CloseDriver()
		return nil, errors.Wrapf(err, "listening to %v", in)
	}
	logger.CLI.Printf("listening to %v", in)
	return func() {
		stop()
		gomidi.CloseDriver()
	}, nil
}

func listInputs() error {
	defer gomidi.CloseDriver()
	drv := drivers.Get()
	if drv == nil {
		return errors.New("no MIDI driver available")
	}
	ins, err := drv.Ins()
	if err != nil {
		return errors.Wrap(err, "listing MIDI inputs")
	}
	for _, in := range ins {
		fmt.Printf("%d: %s\n", in.Number(), in.String())
	}
	return nil
}
